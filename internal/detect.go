package internal

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

// DefaultTolerance is the largest relative price change between two
// consecutive payments that still counts as the same subscription.
const DefaultTolerance = 0.35

// statusGraceDays is how long past the expected day a payment may be late
// before the subscription is considered stopped.
const statusGraceDays = 5

// Transaction is one line of a bank statement. Expenses are negative.
type Transaction struct {
	Date   time.Time
	Text   string
	Amount float64
}

// RecurringPayment is a payee that was charged once per month.
type RecurringPayment struct {
	Name         string
	LatestAmount float64 // absolute value
	FirstDate    time.Time
	LastDate     time.Time
	TypicalDay   int
	Occurrences  int
	Active       bool
}

// Draft converts the payment into a monthly subscription whose next
// payment follows the last one seen.
func (r RecurringPayment) Draft(currency string) SubscriptionDraft {
	return SubscriptionDraft{
		Name:             r.Name,
		Amount:           r.LatestAmount,
		Currency:         currency,
		BillingFrequency: Monthly,
		NextPaymentDate:  NextPaymentAfter(r.LastDate, Monthly),
		IsActive:         r.Active,
	}
}

// DetectRecurring finds payees charged exactly once per calendar month with
// consecutive amounts within tolerance. The statement is assumed to end at
// its latest transaction. Results are sorted active first, then by amount.
func DetectRecurring(txs []Transaction, tolerance float64) []RecurringPayment {
	if len(txs) == 0 {
		return nil
	}

	end := txs[0].Date
	byName := make(map[string][]Transaction)
	var order []string
	for _, tx := range txs {
		if tx.Date.After(end) {
			end = tx.Date
		}
		if tx.Amount >= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(tx.Text))
		if _, ok := byName[key]; !ok {
			order = append(order, key)
		}
		byName[key] = append(byName[key], tx)
	}

	var result []RecurringPayment
	for _, key := range order {
		expenses := byName[key]
		if len(expenses) < 2 {
			continue
		}
		slices.SortStableFunc(expenses, func(a, b Transaction) int {
			return a.Date.Compare(b.Date)
		})
		if !isMonthlyPattern(expenses) || !amountsWithinTolerance(expenses, tolerance) {
			continue
		}

		last := expenses[len(expenses)-1]
		day := typicalDay(expenses)
		result = append(result, RecurringPayment{
			Name:         strings.TrimSpace(last.Text),
			LatestAmount: math.Abs(last.Amount),
			FirstDate:    expenses[0].Date,
			LastDate:     last.Date,
			TypicalDay:   day,
			Occurrences:  len(expenses),
			Active:       isStillActive(last.Date, day, end),
		})
	}

	slices.SortStableFunc(result, func(a, b RecurringPayment) int {
		if a.Active != b.Active {
			if a.Active {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.LatestAmount, a.LatestAmount)
	})
	return result
}

// isMonthlyPattern checks that no calendar month has more than one payment.
func isMonthlyPattern(txs []Transaction) bool {
	seen := make(map[string]bool)
	for _, tx := range txs {
		key := tx.Date.Format("2006-01")
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

// amountsWithinTolerance compares each payment with the previous one, so
// gradual price increases are accepted.
func amountsWithinTolerance(txs []Transaction, tolerance float64) bool {
	for i := 1; i < len(txs); i++ {
		prev := math.Abs(txs[i-1].Amount)
		curr := math.Abs(txs[i].Amount)
		if math.Abs(curr-prev)/prev > tolerance {
			return false
		}
	}
	return true
}

func typicalDay(txs []Transaction) int {
	sum := 0
	for _, tx := range txs {
		sum += tx.Date.Day()
	}
	return sum / len(txs)
}

// isStillActive reports whether a payment last seen on lastPayment is still
// expected, given statement end date end.
func isStillActive(lastPayment time.Time, day int, end time.Time) bool {
	lastMonth := time.Date(lastPayment.Year(), lastPayment.Month(), 1, 0, 0, 0, 0, time.UTC)
	endMonth := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	months := (endMonth.Year()-lastMonth.Year())*12 + int(endMonth.Month()-lastMonth.Month())
	switch {
	case months <= 0:
		return true
	case months > 1:
		return false
	}

	// Paid last month: still active until a few days past this month's due day.
	lastDay := time.Date(end.Year(), end.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	expected := time.Date(end.Year(), end.Month(), min(day, lastDay), 0, 0, 0, 0, time.UTC)
	return !end.After(expected.AddDate(0, 0, statusGraceDays))
}
