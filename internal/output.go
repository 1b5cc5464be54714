package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputOptions controls how subscriptions are displayed
type OutputOptions struct {
	Money    *MoneyFormatter
	Currency string // display currency for totals
	Now      time.Time
}

func (o OutputOptions) total(amount float64) string {
	return o.Money.Format(amount, o.Currency)
}

// JSONOutput is the root JSON output object of the list command
type JSONOutput struct {
	Subscriptions []Subscription `json:"subscriptions"`
	Summary       JSONSummary    `json:"summary"`
}

// JSONSummary contains aggregate statistics
type JSONSummary struct {
	Count        int     `json:"count"`
	ActiveCount  int     `json:"active_count"`
	MonthlyTotal float64 `json:"monthly_total"`
	YearlyTotal  float64 `json:"yearly_total"`
	Currency     string  `json:"currency"`
}

// WriteJSONValue writes v as indented JSON.
func WriteJSONValue(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// PrintSubscriptionsJSON outputs subscriptions in JSON format
func PrintSubscriptionsJSON(w io.Writer, subs []Subscription, currency string) error {
	if subs == nil {
		subs = []Subscription{}
	}
	return WriteJSONValue(w, JSONOutput{
		Subscriptions: subs,
		Summary: JSONSummary{
			Count:        len(subs),
			ActiveCount:  len(FilterActive(subs)),
			MonthlyTotal: TotalMonthly(subs),
			YearlyTotal:  TotalYearly(subs),
			Currency:     currency,
		},
	})
}

// ShortID is the id prefix shown in tables; commands accept it as an id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusText(sub Subscription) string {
	if sub.IsActive {
		return text.FgGreen.Sprint(sub.StatusLabel())
	}
	return text.FgHiBlack.Sprint(sub.StatusLabel())
}

// dueColors picks the highlight for a payment: red when overdue, yellow
// when within UrgentDays.
func dueColors(days int) text.Colors {
	switch {
	case days < 0:
		return text.Colors{text.FgRed}
	case days <= UrgentDays:
		return text.Colors{text.FgYellow}
	default:
		return nil
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// PrintSubscriptionsTable outputs subscriptions as a formatted table
func PrintSubscriptionsTable(w io.Writer, subs []Subscription, opts OutputOptions) {
	active := len(FilterActive(subs))
	fmt.Fprintf(w, "Found %d subscriptions (%d active, %d inactive)\n\n", len(subs), active, len(subs)-active)
	if len(subs) == 0 {
		return
	}

	t := newTable(w)
	header := table.Row{"ID", "Name", "Category", "Frequency", "Amount", "Monthly", "Next Payment", "Status"}
	t.AppendHeader(header)

	for _, sub := range subs {
		monthly := opts.Money.Format(sub.MonthlyAmount(), sub.Currency)
		next := sub.NextPaymentDate.Format("2006-01-02")
		if sub.IsActive {
			next = dueColors(DaysUntil(sub.NextPaymentDate, opts.Now)).Sprint(next)
		} else {
			monthly = text.FgHiBlack.Sprint("-")
		}
		t.AppendRow(table.Row{
			ShortID(sub.ID),
			sub.Name,
			sub.Category,
			string(sub.BillingFrequency),
			opts.Money.Format(sub.Amount, sub.Currency),
			monthly,
			next,
			statusText(sub),
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", "", text.Bold.Sprint("Total (active)"),
		text.Bold.Sprint(opts.total(TotalMonthly(subs))),
		text.Bold.Sprint(opts.total(TotalYearly(subs)) + " / yr"), ""})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

// PrintUpcomingTable lists payments with their due labels.
func PrintUpcomingTable(w io.Writer, payments []UpcomingPayment, opts OutputOptions) {
	if len(payments) == 0 {
		fmt.Fprintln(w, "No upcoming payments.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Amount", "Date", "Due"})
	for _, p := range payments {
		sub := p.Subscription
		t.AppendRow(table.Row{
			ShortID(sub.ID),
			sub.Name,
			opts.Money.Format(sub.Amount, sub.Currency),
			sub.NextPaymentDate.Format("2006-01-02"),
			dueColors(p.DaysUntil).Sprint(DueLabel(p.DaysUntil)),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

// PrintCategoriesTable shows the monthly spend per category.
func PrintCategoriesTable(w io.Writer, totals []CategoryTotal, opts OutputOptions) {
	if len(totals) == 0 {
		fmt.Fprintln(w, "No active subscriptions.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Subscriptions", "Monthly", "Share"})
	var sum float64
	for _, ct := range totals {
		sum += ct.Monthly
		t.AppendRow(table.Row{
			ct.Category,
			ct.Count,
			opts.total(ct.Monthly),
			fmt.Sprintf("%.1f%%", ct.Share*100),
		})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Total"), "", text.Bold.Sprint(opts.total(sum)), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}

// PrintDashboard renders the expense summary, category breakdown and the
// next payments.
func PrintDashboard(w io.Writer, s Summary, opts OutputOptions) {
	t := newTable(w)
	t.SetTitle("Expense Summary")
	t.AppendRows([]table.Row{
		{"Monthly total", opts.total(s.MonthlyTotal)},
		{"Yearly total", opts.total(s.YearlyTotal)},
		{"Active subscriptions", s.ActiveCount},
		{"Average per subscription", opts.total(s.Average)},
	})
	if s.InactiveCount > 0 {
		t.AppendRow(table.Row{
			fmt.Sprintf("Potential savings (%d inactive)", s.InactiveCount),
			opts.total(s.MonthlySavings) + " / " + opts.total(s.YearlySavings) + " yr",
		})
	}
	if s.OverdueCount > 0 {
		t.AppendRow(table.Row{"Overdue", text.FgRed.Sprint(s.OverdueCount)})
	}
	if s.DueSoonCount > 0 {
		t.AppendRow(table.Row{"Due soon", text.FgYellow.Sprint(s.DueSoonCount)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()

	if s.HighSpending {
		fmt.Fprintln(w, text.FgYellow.Sprint(
			"Monthly spending is high. Consider reviewing subscriptions you rarely use."))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Spending by category")
	PrintCategoriesTable(w, s.Categories, opts)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Upcoming payments")
	PrintUpcomingTable(w, s.Upcoming, opts)
}

// PrintCategoryList prints one category per line, marking those in use.
func PrintCategoryList(w io.Writer, available, used []string) {
	inUse := make(map[string]bool, len(used))
	for _, c := range used {
		inUse[strings.ToLower(c)] = true
	}
	for _, c := range available {
		marker := " "
		if inUse[strings.ToLower(c)] {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, c)
	}
}
