package newsletter

import "context"

// SubscriberRepository defines persistence operations for subscribers.
type SubscriberRepository interface {
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	Save(ctx context.Context, s *Subscriber) error
	Update(ctx context.Context, s *Subscriber) error
}
