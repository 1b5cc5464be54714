package internal

import (
	"slices"
	"time"
)

// DefaultUpcomingLimit is used by UpcomingPayments when limit <= 0.
const DefaultUpcomingLimit = 10

// DefaultHighSpendingThreshold is the monthly total above which the summary
// suggests reviewing subscriptions.
const DefaultHighSpendingThreshold = 200.0

// All functions in this file are pure: they read the snapshot they are given,
// never modify it and never keep references to it.

// FilterActive returns the active subscriptions in input order.
func FilterActive(subs []Subscription) []Subscription {
	var result []Subscription
	for _, sub := range subs {
		if sub.IsActive {
			result = append(result, sub)
		}
	}
	return result
}

// FilterInactive returns the inactive subscriptions in input order.
func FilterInactive(subs []Subscription) []Subscription {
	var result []Subscription
	for _, sub := range subs {
		if !sub.IsActive {
			result = append(result, sub)
		}
	}
	return result
}

// TotalMonthly sums the monthly equivalent of all active subscriptions.
func TotalMonthly(subs []Subscription) float64 {
	total := 0.0
	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		total += sub.MonthlyAmount()
	}
	return total
}

// TotalYearly sums the yearly equivalent of all active subscriptions.
func TotalYearly(subs []Subscription) float64 {
	total := 0.0
	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		total += sub.YearlyAmount()
	}
	return total
}

// ByCategory groups active subscriptions by category and sums their monthly
// equivalents. Categories appear in the order they are first seen; those
// whose total is exactly zero are omitted.
func ByCategory(subs []Subscription) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal
	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		i, ok := index[sub.Category]
		if !ok {
			i = len(totals)
			index[sub.Category] = i
			totals = append(totals, CategoryTotal{Category: sub.Category})
		}
		totals[i].Monthly += sub.MonthlyAmount()
		totals[i].Count++
	}

	result := totals[:0]
	grand := 0.0
	for _, ct := range totals {
		if ct.Monthly == 0 {
			continue
		}
		grand += ct.Monthly
		result = append(result, ct)
	}
	if grand != 0 {
		for i := range result {
			result[i].Share = result[i].Monthly / grand
		}
	}
	return result
}

// UpcomingPayments lists active subscriptions ordered by days until the next
// payment, most overdue first. Ties keep input order. At most limit entries
// are returned; limit <= 0 means DefaultUpcomingLimit.
func UpcomingPayments(subs []Subscription, now time.Time, limit int) []UpcomingPayment {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	var payments []UpcomingPayment
	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		payments = append(payments, UpcomingPayment{
			Subscription: sub,
			DaysUntil:    DaysUntil(sub.NextPaymentDate, now),
			IsOverdue:    IsOverdue(sub.NextPaymentDate, now),
		})
	}

	slices.SortStableFunc(payments, func(a, b UpcomingPayment) int {
		return a.DaysUntil - b.DaysUntil
	})

	if len(payments) > limit {
		payments = payments[:limit]
	}
	return payments
}

// AveragePerSubscription is TotalMonthly divided by the number of active
// subscriptions, or 0 when there are none.
func AveragePerSubscription(subs []Subscription) float64 {
	active := 0
	for _, sub := range subs {
		if sub.IsActive {
			active++
		}
	}
	if active == 0 {
		return 0
	}
	return TotalMonthly(subs) / float64(active)
}

// PotentialSavings is what the inactive subscriptions would cost per month
// if they were reactivated.
func PotentialSavings(subs []Subscription) float64 {
	total := 0.0
	for _, sub := range subs {
		if sub.IsActive {
			continue
		}
		total += sub.MonthlyAmount()
	}
	return total
}

// SummaryOptions tunes Summarize. Zero values select the defaults.
type SummaryOptions struct {
	UpcomingDays          int
	UpcomingLimit         int
	HighSpendingThreshold float64
}

// Summary is the dashboard view of a snapshot.
type Summary struct {
	ActiveCount    int               `json:"active_count"`
	InactiveCount  int               `json:"inactive_count"`
	MonthlyTotal   float64           `json:"monthly_total"`
	YearlyTotal    float64           `json:"yearly_total"`
	Average        float64           `json:"average_per_subscription"`
	MonthlySavings float64           `json:"potential_savings_monthly"`
	YearlySavings  float64           `json:"potential_savings_yearly"`
	HighSpending   bool              `json:"high_spending"`
	DueSoonCount   int               `json:"due_soon_count"`
	OverdueCount   int               `json:"overdue_count"`
	Categories     []CategoryTotal   `json:"categories"`
	Upcoming       []UpcomingPayment `json:"upcoming"`
}

// Summarize computes every dashboard figure for one snapshot.
func Summarize(subs []Subscription, now time.Time, opts SummaryOptions) Summary {
	if opts.UpcomingDays <= 0 {
		opts.UpcomingDays = DefaultUpcomingDays
	}
	if opts.HighSpendingThreshold <= 0 {
		opts.HighSpendingThreshold = DefaultHighSpendingThreshold
	}

	s := Summary{
		MonthlyTotal:   TotalMonthly(subs),
		YearlyTotal:    TotalYearly(subs),
		Average:        AveragePerSubscription(subs),
		MonthlySavings: PotentialSavings(subs),
		Categories:     ByCategory(subs),
		Upcoming:       UpcomingPayments(subs, now, opts.UpcomingLimit),
	}
	s.YearlySavings = s.MonthlySavings * 12
	s.HighSpending = s.MonthlyTotal > opts.HighSpendingThreshold

	for _, sub := range subs {
		if !sub.IsActive {
			s.InactiveCount++
			continue
		}
		s.ActiveCount++
		switch ClassifyDue(sub.NextPaymentDate, now, opts.UpcomingDays) {
		case DueOverdue:
			s.OverdueCount++
		case DueToday, DueSoon:
			s.DueSoonCount++
		}
	}
	return s
}
