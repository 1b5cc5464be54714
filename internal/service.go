package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("subscription not found")
	ErrAmbiguousID = errors.New("subscription id prefix is ambiguous")
)

// Service manages the subscriptions of a single user on top of a Store.
// Every mutation loads the user's snapshot, applies the change and saves
// the whole list back.
type Service struct {
	store   Store
	userID  string
	now     func() time.Time
	newID   func() string
	suggest func(name string) string
	log     *slog.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithCategorySuggester sets how a missing category is derived from the name.
func WithCategorySuggester(suggest func(name string) string) ServiceOption {
	return func(s *Service) { s.suggest = suggest }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

func NewService(store Store, userID string, log *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		userID:  userID,
		now:     time.Now,
		newID:   uuid.NewString,
		suggest: SuggestCategory,
		log:     log.With("component", "service", "user_id", userID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserID returns the owner of the managed subscriptions.
func (s *Service) UserID() string { return s.userID }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) List(ctx context.Context) ([]Subscription, error) {
	return s.store.LoadSubscriptions(ctx, s.userID)
}

func (s *Service) Get(ctx context.Context, id string) (Subscription, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return Subscription{}, err
	}
	i, err := findSubscription(subs, id)
	if err != nil {
		return Subscription{}, err
	}
	return subs[i], nil
}

// Add validates the draft and appends it as a new subscription.
// An empty category is filled from the subscription name.
func (s *Service) Add(ctx context.Context, draft SubscriptionDraft) (Subscription, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return Subscription{}, err
	}
	sub, err := s.newSubscription(draft)
	if err != nil {
		return Subscription{}, err
	}
	if err := s.store.SaveSubscriptions(ctx, s.userID, append(subs, sub)); err != nil {
		return Subscription{}, err
	}
	s.log.Info("added subscription", "id", sub.ID, "name", sub.Name)
	return sub, nil
}

// Prepare validates drafts and returns the subscriptions Import would add.
func (s *Service) Prepare(drafts []SubscriptionDraft) ([]Subscription, error) {
	subs := make([]Subscription, 0, len(drafts))
	for i, d := range drafts {
		sub, err := s.newSubscription(d)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i+1, d.Name, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Import adds all drafts or none of them.
func (s *Service) Import(ctx context.Context, drafts []SubscriptionDraft) (int, error) {
	if len(drafts) == 0 {
		return 0, nil
	}
	added, err := s.Prepare(drafts)
	if err != nil {
		return 0, err
	}
	subs, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.store.SaveSubscriptions(ctx, s.userID, append(subs, added...)); err != nil {
		return 0, err
	}
	s.log.Info("imported subscriptions", "count", len(drafts))
	return len(drafts), nil
}

func (s *Service) newSubscription(d SubscriptionDraft) (Subscription, error) {
	now := s.now()
	sub := Subscription{
		ID:               s.newID(),
		UserID:           s.userID,
		Name:             strings.TrimSpace(d.Name),
		Amount:           d.Amount,
		Currency:         strings.ToUpper(strings.TrimSpace(d.Currency)),
		BillingFrequency: d.BillingFrequency,
		NextPaymentDate:  d.NextPaymentDate,
		Category:         strings.TrimSpace(d.Category),
		Description:      strings.TrimSpace(d.Description),
		IsActive:         d.IsActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if f, ok := ParseBillingFrequency(string(sub.BillingFrequency)); ok {
		sub.BillingFrequency = f
	}
	if sub.Category == "" {
		sub.Category = s.suggest(sub.Name)
	}
	if err := ValidateSubscription(sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// Update applies the non-nil fields of patch and re-validates the result.
func (s *Service) Update(ctx context.Context, id string, patch SubscriptionPatch) (Subscription, error) {
	return s.modify(ctx, id, func(sub *Subscription) {
		if patch.Name != nil {
			sub.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Amount != nil {
			sub.Amount = *patch.Amount
		}
		if patch.Currency != nil {
			sub.Currency = strings.ToUpper(strings.TrimSpace(*patch.Currency))
		}
		if patch.BillingFrequency != nil {
			sub.BillingFrequency = *patch.BillingFrequency
			if f, ok := ParseBillingFrequency(string(sub.BillingFrequency)); ok {
				sub.BillingFrequency = f
			}
		}
		if patch.NextPaymentDate != nil {
			sub.NextPaymentDate = *patch.NextPaymentDate
		}
		if patch.Category != nil {
			sub.Category = strings.TrimSpace(*patch.Category)
		}
		if patch.Description != nil {
			sub.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.IsActive != nil {
			sub.IsActive = *patch.IsActive
		}
	})
}

// SetActive pauses or resumes a subscription.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (Subscription, error) {
	return s.modify(ctx, id, func(sub *Subscription) { sub.IsActive = active })
}

// MarkPaid moves the next payment date forward by one billing period.
func (s *Service) MarkPaid(ctx context.Context, id string) (Subscription, error) {
	return s.modify(ctx, id, func(sub *Subscription) {
		sub.NextPaymentDate = NextPaymentAfter(sub.NextPaymentDate, sub.BillingFrequency)
	})
}

func (s *Service) modify(ctx context.Context, id string, apply func(*Subscription)) (Subscription, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return Subscription{}, err
	}
	i, err := findSubscription(subs, id)
	if err != nil {
		return Subscription{}, err
	}

	updated := subs[i]
	apply(&updated)
	updated.UpdatedAt = s.now()
	if err := ValidateSubscription(updated); err != nil {
		return Subscription{}, err
	}

	subs[i] = updated
	if err := s.store.SaveSubscriptions(ctx, s.userID, subs); err != nil {
		return Subscription{}, err
	}
	s.log.Info("updated subscription", "id", updated.ID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	subs, err := s.List(ctx)
	if err != nil {
		return err
	}
	i, err := findSubscription(subs, id)
	if err != nil {
		return err
	}
	removed := subs[i]
	subs = append(subs[:i], subs[i+1:]...)
	if err := s.store.SaveSubscriptions(ctx, s.userID, subs); err != nil {
		return err
	}
	s.log.Info("deleted subscription", "id", removed.ID, "name", removed.Name)
	return nil
}

// findSubscription resolves id as an exact id or a unique id prefix.
func findSubscription(subs []Subscription, id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, ErrNotFound
	}
	for i, sub := range subs {
		if sub.ID == id {
			return i, nil
		}
	}
	match := -1
	for i, sub := range subs {
		if strings.HasPrefix(sub.ID, id) {
			if match >= 0 {
				return -1, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}
