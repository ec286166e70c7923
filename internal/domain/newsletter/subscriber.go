// Package newsletter models mailing-list subscriptions.
package newsletter

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trattoria-luca/service-booking/internal/domain/validation"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

// Subscriber is the aggregate root for a newsletter subscription.
type Subscriber struct {
	id           uuid.UUID
	name         string
	email        string
	active       bool
	subscribedAt time.Time
	createdAt    time.Time
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewSubscriber creates an active subscription.
func NewSubscriber(name, email string) (*Subscriber, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if err := validation.Name(name); err != nil {
		return nil, apperr.NewValidationError(err.Error())
	}
	if err := validation.Email(email); err != nil {
		return nil, apperr.NewValidationError(err.Error())
	}

	now := time.Now().UTC()
	return &Subscriber{
		id:           uuid.New(),
		name:         name,
		email:        email,
		active:       true,
		subscribedAt: now,
		createdAt:    now,
	}, nil
}

// Reconstruct rebuilds a Subscriber from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, email string, active bool, subscribedAt, createdAt time.Time) *Subscriber {
	return &Subscriber{
		id:           id,
		name:         name,
		email:        email,
		active:       active,
		subscribedAt: subscribedAt,
		createdAt:    createdAt,
	}
}

// --- Getters ---

func (s *Subscriber) ID() uuid.UUID           { return s.id }
func (s *Subscriber) Name() string            { return s.name }
func (s *Subscriber) Email() string           { return s.email }
func (s *Subscriber) IsActive() bool          { return s.active }
func (s *Subscriber) SubscribedAt() time.Time { return s.subscribedAt }
func (s *Subscriber) CreatedAt() time.Time    { return s.createdAt }

// --- Behavior ---

// Reactivate turns an inactive subscription back on.
func (s *Subscriber) Reactivate(name string) error {
	if s.active {
		return apperr.NewConflictError("This email is already subscribed to our newsletter.")
	}
	if name = strings.TrimSpace(name); name != "" {
		s.name = name
	}
	s.active = true
	s.subscribedAt = time.Now().UTC()
	return nil
}

// Unsubscribe turns the subscription off.
func (s *Subscriber) Unsubscribe() {
	s.active = false
}
