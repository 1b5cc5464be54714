package internal

import (
	"cmp"
	"slices"
	"strings"
)

// SubscriptionFilter selects subscriptions for listing and export.
// Empty fields match everything.
type SubscriptionFilter struct {
	Query           string // case-insensitive substring of name or description
	Category        string
	Frequency       BillingFrequency
	IncludeInactive bool
}

// Matches reports whether sub passes the filter.
func (f SubscriptionFilter) Matches(sub Subscription) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(sub.Name), q) &&
			!strings.Contains(strings.ToLower(sub.Description), q) {
			return false
		}
	}
	if f.Category != "" && sub.Category != f.Category {
		return false
	}
	if f.Frequency != "" && sub.BillingFrequency != f.Frequency {
		return false
	}
	return f.IncludeInactive || sub.IsActive
}

// Filter returns the subscriptions matching f, in input order.
func Filter(subs []Subscription, f SubscriptionFilter) []Subscription {
	var result []Subscription
	for _, sub := range subs {
		if f.Matches(sub) {
			result = append(result, sub)
		}
	}
	return result
}

// Categories returns the distinct categories used by subs, sorted.
func Categories(subs []Subscription) []string {
	var result []string
	for _, sub := range subs {
		if !slices.Contains(result, sub.Category) {
			result = append(result, sub.Category)
		}
	}
	slices.Sort(result)
	return result
}

// Sort fields accepted by SortSubscriptions.
const (
	SortByName    = "name"
	SortByAmount  = "amount"
	SortByMonthly = "monthly"
	SortByNext    = "next"
)

// SortSubscriptions orders subs in place. Unknown fields sort by name;
// ties keep their current order.
func SortSubscriptions(subs []Subscription, field string, desc bool) {
	compare := func(a, b Subscription) int {
		switch field {
		case SortByAmount:
			return cmp.Compare(a.Amount, b.Amount)
		case SortByMonthly:
			return cmp.Compare(a.MonthlyAmount(), b.MonthlyAmount())
		case SortByNext:
			return a.NextPaymentDate.Compare(b.NextPaymentDate)
		default:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	slices.SortStableFunc(subs, func(a, b Subscription) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}
