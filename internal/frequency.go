package internal

import (
	"strings"
	"time"
)

// Cadence is the resolved billing cadence of a subscription.
// CadenceOther is the explicit arm for unrecognised frequency values.
type Cadence int

const (
	CadenceOther Cadence = iota
	CadenceWeekly
	CadenceMonthly
	CadenceQuarterly
	CadenceYearly
)

func (c Cadence) String() string {
	switch c {
	case CadenceWeekly:
		return "weekly"
	case CadenceMonthly:
		return "monthly"
	case CadenceQuarterly:
		return "quarterly"
	case CadenceYearly:
		return "yearly"
	}
	return "other"
}

type cadenceRule struct {
	monthly func(amount float64) float64
	yearly  func(amount float64) float64
	advance func(t time.Time) time.Time
}

// cadenceRules holds one row per Cadence. Expressions are written exactly as
// the conversion table so results are reproducible to the bit.
var cadenceRules = [...]cadenceRule{
	CadenceOther: {
		monthly: func(a float64) float64 { return a },
		yearly:  func(a float64) float64 { return a * 12 },
		advance: func(t time.Time) time.Time { return addMonths(t, 1) },
	},
	CadenceWeekly: {
		monthly: func(a float64) float64 { return a * 52 / 12 },
		yearly:  func(a float64) float64 { return a * 52 },
		advance: func(t time.Time) time.Time { return t.AddDate(0, 0, 7) },
	},
	CadenceMonthly: {
		monthly: func(a float64) float64 { return a },
		yearly:  func(a float64) float64 { return a * 12 },
		advance: func(t time.Time) time.Time { return addMonths(t, 1) },
	},
	CadenceQuarterly: {
		monthly: func(a float64) float64 { return a / 3 },
		yearly:  func(a float64) float64 { return a * 4 },
		advance: func(t time.Time) time.Time { return addMonths(t, 3) },
	},
	CadenceYearly: {
		monthly: func(a float64) float64 { return a / 12 },
		yearly:  func(a float64) float64 { return a },
		advance: func(t time.Time) time.Time { return addMonths(t, 12) },
	},
}

func (c Cadence) rule() cadenceRule {
	if c < 0 || int(c) >= len(cadenceRules) {
		return cadenceRules[CadenceOther]
	}
	return cadenceRules[c]
}

// Cadence resolves the stored frequency. Matching is exact; anything else,
// including the empty string, is CadenceOther.
func (f BillingFrequency) Cadence() Cadence {
	switch f {
	case Weekly:
		return CadenceWeekly
	case Monthly:
		return CadenceMonthly
	case Quarterly:
		return CadenceQuarterly
	case Yearly:
		return CadenceYearly
	}
	return CadenceOther
}

// IsKnown reports whether f is one of the recognised frequencies.
func (f BillingFrequency) IsKnown() bool {
	return f.Cadence() != CadenceOther
}

// ParseBillingFrequency normalizes user input ("Monthly ", "YEARLY").
// Unrecognised input is returned lowercased with ok=false.
func ParseBillingFrequency(s string) (BillingFrequency, bool) {
	f := BillingFrequency(strings.ToLower(strings.TrimSpace(s)))
	return f, f.IsKnown()
}

// MonthlyEquivalent converts an amount billed at frequency f to a per-month figure.
func MonthlyEquivalent(amount float64, f BillingFrequency) float64 {
	return f.Cadence().rule().monthly(amount)
}

// YearlyEquivalent converts an amount billed at frequency f to a per-year figure.
func YearlyEquivalent(amount float64, f BillingFrequency) float64 {
	return f.Cadence().rule().yearly(amount)
}

// NextPaymentAfter advances a payment date by one billing period.
func NextPaymentAfter(date time.Time, f BillingFrequency) time.Time {
	return f.Cadence().rule().advance(date)
}

// addMonths moves t forward n months, clamping the day to the last day of
// the target month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return first.AddDate(0, 0, day-1)
}
