package internal

import "time"

// BillingFrequency is the raw billing cadence stored on a subscription.
// Values outside the known set are kept as-is and treated as CadenceOther.
type BillingFrequency string

const (
	Weekly    BillingFrequency = "weekly"
	Monthly   BillingFrequency = "monthly"
	Quarterly BillingFrequency = "quarterly"
	Yearly    BillingFrequency = "yearly"
)

// BillingFrequencies lists the recognised frequencies in display order.
var BillingFrequencies = []BillingFrequency{Weekly, Monthly, Quarterly, Yearly}

type Subscription struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	Name             string           `json:"name"`
	Amount           float64          `json:"amount"`
	Currency         string           `json:"currency"`
	BillingFrequency BillingFrequency `json:"billingFrequency"`
	NextPaymentDate  time.Time        `json:"nextPaymentDate"`
	Category         string           `json:"category"`
	Description      string           `json:"description,omitempty"`
	IsActive         bool             `json:"isActive"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// MonthlyAmount returns the subscription's cost normalized to one month.
func (s Subscription) MonthlyAmount() float64 {
	return MonthlyEquivalent(s.Amount, s.BillingFrequency)
}

// YearlyAmount returns the subscription's cost normalized to one year.
func (s Subscription) YearlyAmount() float64 {
	return YearlyEquivalent(s.Amount, s.BillingFrequency)
}

// StatusLabel is the literal used in exports and tables.
func (s Subscription) StatusLabel() string {
	if s.IsActive {
		return "Active"
	}
	return "Inactive"
}

// SubscriptionDraft holds the user-editable fields of a new subscription.
// Id, owner and timestamps are assigned by the Service.
type SubscriptionDraft struct {
	Name             string
	Amount           float64
	Currency         string
	BillingFrequency BillingFrequency
	NextPaymentDate  time.Time
	Category         string
	Description      string
	IsActive         bool
}

// SubscriptionPatch is a partial update; nil fields are left untouched.
type SubscriptionPatch struct {
	Name             *string
	Amount           *float64
	Currency         *string
	BillingFrequency *BillingFrequency
	NextPaymentDate  *time.Time
	Category         *string
	Description      *string
	IsActive         *bool
}

// User is the public view of an account (no credentials).
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Account is a stored user including the password hash.
type Account struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// CategoryTotal is the monthly spend of one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Monthly  float64 `json:"monthly"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"` // fraction of the total, 0..1
}

// UpcomingPayment is a subscription annotated with its due-date state.
type UpcomingPayment struct {
	Subscription Subscription `json:"subscription"`
	DaysUntil    int          `json:"daysUntil"`
	IsOverdue    bool         `json:"isOverdue"`
}
