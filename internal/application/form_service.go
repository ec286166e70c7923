package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trattoria-luca/service-booking/internal/domain/form"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

// DraftStore keeps one draft per browser session.
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (form.Draft, error)
	Save(ctx context.Context, sessionID string, d form.Draft) error
	AcquireSubmitLock(ctx context.Context, sessionID string) (token string, ok bool, err error)
	ReleaseSubmitLock(ctx context.Context, sessionID, token string) error
	SubmitInFlight(ctx context.Context, sessionID string) (bool, error)
}

// FormService drives the booking form for a session.
type FormService struct {
	drafts   DraftStore
	catalog  form.Catalog
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewFormService creates a new FormService.
func NewFormService(drafts DraftStore, catalog form.Catalog, location *time.Location, logger *zap.Logger) *FormService {
	return &FormService{
		drafts:   drafts,
		catalog:  catalog,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Start opens a new session holding an empty draft.
func (s *FormService) Start(ctx context.Context) (*DraftView, error) {
	sessionID := uuid.NewString()
	d := form.NewDraft()
	if err := s.drafts.Save(ctx, sessionID, d); err != nil {
		return nil, fmt.Errorf("failed to start draft: %w", err)
	}

	s.logger.Info("draft session started", zap.String("session_id", sessionID))
	view := s.view(sessionID, d)
	return &view, nil
}

// Get returns the current draft of a session.
func (s *FormService) Get(ctx context.Context, sessionID string) (*DraftView, error) {
	d, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := s.view(sessionID, d)
	return &view, nil
}

// Apply decodes an action and reduces the session draft with it.
// A refused advance is not an error: the returned view carries the
// violations and stays on the same step. The draft is frozen while a
// submission for the session is in flight.
func (s *FormService) Apply(ctx context.Context, sessionID string, rawAction []byte) (*DraftView, error) {
	action, err := form.ParseAction(rawAction)
	if err != nil {
		return nil, apperr.NewValidationError(err.Error())
	}

	inFlight, err := s.drafts.SubmitInFlight(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check submit lock: %w", err)
	}
	if inFlight {
		return nil, apperr.NewConflictError("this booking is being submitted")
	}

	current, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := form.Reduce(current, action, s.env())
	switch {
	case err == nil:
	case errors.Is(err, form.ErrStepIncomplete):
		s.logger.Debug("advance refused",
			zap.String("session_id", sessionID),
			zap.String("step", current.Step.String()),
		)
	default:
		return nil, apperr.NewValidationError(err.Error())
	}

	if err := s.drafts.Save(ctx, sessionID, next); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	view := s.view(sessionID, next)
	return &view, nil
}

func (s *FormService) env() form.Env {
	return form.Env{Catalog: s.catalog, Now: s.now(), Location: s.location}
}

func (s *FormService) view(sessionID string, d form.Draft) DraftView {
	env := s.env()
	return DraftView{
		SessionID:  sessionID,
		Draft:      d,
		StepNumber: d.Step.Ordinal(),
		CanAdvance: form.ValidateStep(d, env),
		Totals:     form.ComputeTotals(d, env),
	}
}
