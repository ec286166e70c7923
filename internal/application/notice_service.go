package application

import (
	"context"
	"fmt"
	"regexp"

	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

var noticeNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// NoticeStore remembers which one-off notices a session has dismissed.
type NoticeStore interface {
	IsDismissed(ctx context.Context, sessionID, name string) (bool, error)
	Dismiss(ctx context.Context, sessionID, name string) error
}

// NoticeStatus reports whether a notice should still be shown.
type NoticeStatus struct {
	Name      string `json:"name"`
	Dismissed bool   `json:"dismissed"`
}

// NoticeService tracks dismissible notices per session.
type NoticeService struct {
	store NoticeStore
}

// NewNoticeService creates a new NoticeService.
func NewNoticeService(store NoticeStore) *NoticeService {
	return &NoticeService{store: store}
}

// Status returns whether the session has dismissed the notice.
func (s *NoticeService) Status(ctx context.Context, sessionID, name string) (*NoticeStatus, error) {
	if err := checkNoticeName(name); err != nil {
		return nil, err
	}
	dismissed, err := s.store.IsDismissed(ctx, sessionID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read notice: %w", err)
	}
	return &NoticeStatus{Name: name, Dismissed: dismissed}, nil
}

// Dismiss hides the notice for the rest of the session.
func (s *NoticeService) Dismiss(ctx context.Context, sessionID, name string) (*NoticeStatus, error) {
	if err := checkNoticeName(name); err != nil {
		return nil, err
	}
	if err := s.store.Dismiss(ctx, sessionID, name); err != nil {
		return nil, fmt.Errorf("failed to dismiss notice: %w", err)
	}
	return &NoticeStatus{Name: name, Dismissed: true}, nil
}

func checkNoticeName(name string) error {
	if !noticeNamePattern.MatchString(name) {
		return apperr.NewValidationError(fmt.Sprintf("invalid notice name: %q", name))
	}
	return nil
}
