package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/trattoria-luca/service-booking/internal/domain/newsletter"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

// NewsletterService manages newsletter subscriptions.
type NewsletterService struct {
	repo   newsletter.SubscriberRepository
	logger *zap.Logger
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(repo newsletter.SubscriberRepository, logger *zap.Logger) *NewsletterService {
	return &NewsletterService{repo: repo, logger: logger}
}

// Subscribe adds an address, or reactivates it if it unsubscribed earlier.
func (s *NewsletterService) Subscribe(ctx context.Context, name, email string) (*SubscriberDTO, error) {
	existing, err := s.repo.FindByEmail(ctx, newsletter.NormalizeEmail(email))
	var notFound *apperr.NotFoundError
	switch {
	case err == nil:
		if err := existing.Reactivate(name); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to reactivate subscriber: %w", err)
		}
		s.logger.Info("newsletter subscription reactivated", zap.String("subscriber_id", existing.ID().String()))
		dto := toSubscriberDTO(existing)
		return &dto, nil
	case !errors.As(err, &notFound):
		return nil, err
	}

	sub, err := newsletter.NewSubscriber(name, email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("newsletter subscription created", zap.String("subscriber_id", sub.ID().String()))
	dto := toSubscriberDTO(sub)
	return &dto, nil
}

// Unsubscribe turns a subscription off. Unsubscribing twice is harmless.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) (*SubscriberDTO, error) {
	sub, err := s.repo.FindByEmail(ctx, newsletter.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if sub.IsActive() {
		sub.Unsubscribe()
		if err := s.repo.Update(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to unsubscribe: %w", err)
		}
		s.logger.Info("newsletter subscription cancelled", zap.String("subscriber_id", sub.ID().String()))
	}

	dto := toSubscriberDTO(sub)
	return &dto, nil
}
