package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/domain/form"
	"github.com/trattoria-luca/service-booking/internal/domain/validation"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

const submitFailedMessage = "We could not save your booking. Please try again."

// SubmissionService turns completed drafts into persisted bookings and
// manages their lifecycle afterwards.
type SubmissionService struct {
	drafts   DraftStore
	repo     booking.BookingRepository
	catalog  form.Catalog
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	drafts DraftStore,
	repo booking.BookingRepository,
	catalog form.Catalog,
	location *time.Location,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		drafts:   drafts,
		repo:     repo,
		catalog:  catalog,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Submit persists the session draft. Rule violations are returned as
// errors and never reach storage; a storage failure is reported in the
// result and leaves the stored draft as it was.
func (s *SubmissionService) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	token, acquired, err := s.drafts.AcquireSubmitLock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !acquired {
		return nil, apperr.NewConflictError("this booking is already being submitted")
	}
	defer func() {
		if err := s.drafts.ReleaseSubmitLock(context.WithoutCancel(ctx), sessionID, token); err != nil {
			s.logger.Warn("failed to release submit lock",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}()

	d, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	env := form.Env{Catalog: s.catalog, Now: s.now(), Location: s.location}
	sub, err := form.Submission(d, env)
	if err != nil {
		var incomplete *form.IncompleteStepError
		if errors.As(err, &incomplete) {
			return nil, apperr.NewValidationError(incomplete.Violations.Error())
		}
		return nil, apperr.NewValidationError(err.Error())
	}

	bk, err := booking.NewBooking(sub)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, bk); err != nil {
		s.logger.Error("booking submission failed",
			zap.String("session_id", sessionID),
			zap.String("booking_type", string(bk.Type())),
			zap.Error(err),
		)
		return &SubmitResult{Success: false, Error: submitFailedMessage}, nil
	}

	if err := s.drafts.Save(ctx, sessionID, form.NewDraft()); err != nil {
		s.logger.Warn("failed to reset draft after submission",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	s.logger.Info("booking submitted",
		zap.String("booking_id", bk.ID().String()),
		zap.String("booking_number", bk.BookingNumber()),
		zap.String("booking_type", string(bk.Type())),
	)

	dto := toBookingDTO(bk)
	return &SubmitResult{Success: true, Booking: &dto}, nil
}

// SubmitCollaboration persists a single-step collaboration enquiry.
func (s *SubmissionService) SubmitCollaboration(ctx context.Context, req CollaborationRequest) (*SubmitResult, error) {
	if v := validation.Contact(req.Name, req.Email, req.Phone); !v.Empty() {
		return nil, apperr.NewValidationError(v.Error())
	}

	bk, err := booking.NewBooking(booking.Submission{
		Type:         booking.TypeCollaboration,
		Location:     s.location,
		CustomerName: req.Name,
		Email:        req.Email,
		PhoneNumber:  req.Phone,
		Notes:        req.Notes,
		Collaboration: &booking.Collaboration{
			Type:               req.CollaborationType,
			ProjectDescription: req.ProjectDescription,
			SocialMedia:        req.SocialMedia,
			Timeline:           req.Timeline,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, bk); err != nil {
		s.logger.Error("collaboration submission failed", zap.Error(err))
		return &SubmitResult{Success: false, Error: submitFailedMessage}, nil
	}

	s.logger.Info("collaboration submitted", zap.String("booking_id", bk.ID().String()))

	dto := toBookingDTO(bk)
	return &SubmitResult{Success: true, Booking: &dto}, nil
}

// GetBooking returns a booking with its child records.
func (s *SubmissionService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(bk)
	return &dto, nil
}

// ConfirmBooking moves a pending booking to confirmed.
func (s *SubmissionService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, (*booking.Booking).Confirm)
}

// CancelBooking cancels a pending or confirmed booking.
func (s *SubmissionService) CancelBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, bookingID, (*booking.Booking).Cancel)
}

func (s *SubmissionService) transition(ctx context.Context, bookingID uuid.UUID, apply func(*booking.Booking) error) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := apply(bk); err != nil {
		return nil, err
	}
	bk.IncrementVersion()

	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", string(bk.Status())),
	)

	dto := toBookingDTO(bk)
	return &dto, nil
}
