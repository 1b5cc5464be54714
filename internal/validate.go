package internal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrEmptyName          = errors.New("subscription name is required")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrEmptyCategory      = errors.New("category is required")
	ErrMissingPaymentDate = errors.New("next payment date is required")
	ErrInvalidCurrency    = errors.New("currency must be a 3-letter code")
	ErrUnknownFrequency   = errors.New("unknown billing frequency")
)

const maxNameLength = 200

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateSubscription checks the fields a user enters. Frequency is checked
// strictly here even though the aggregation core tolerates unknown values.
func ValidateSubscription(sub Subscription) error {
	if strings.TrimSpace(sub.Name) == "" {
		return ErrEmptyName
	}
	if len(sub.Name) > maxNameLength {
		return fmt.Errorf("name too long (max %d characters)", maxNameLength)
	}
	if !(sub.Amount > 0) {
		return ErrInvalidAmount
	}
	if !currencyCode.MatchString(sub.Currency) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, sub.Currency)
	}
	if !sub.BillingFrequency.IsKnown() {
		return fmt.Errorf("%w: %q", ErrUnknownFrequency, sub.BillingFrequency)
	}
	if sub.NextPaymentDate.IsZero() {
		return ErrMissingPaymentDate
	}
	if strings.TrimSpace(sub.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
