package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/form"
	"github.com/trattoria-luca/service-booking/internal/domain/newsletter"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

type memoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string]form.Draft
	locks  map[string]string
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{drafts: map[string]form.Draft{}, locks: map[string]string{}}
}

func (s *memoryDraftStore) Get(_ context.Context, sessionID string) (form.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	if !ok {
		return form.Draft{}, apperr.NewNotFoundError("Draft", sessionID)
	}
	return d, nil
}

func (s *memoryDraftStore) Save(_ context.Context, sessionID string, d form.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = d
	return nil
}

func (s *memoryDraftStore) AcquireSubmitLock(_ context.Context, sessionID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.locks[sessionID]; held {
		return "", false, nil
	}
	token := uuid.NewString()
	s.locks[sessionID] = token
	return token, true, nil
}

func (s *memoryDraftStore) ReleaseSubmitLock(_ context.Context, sessionID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[sessionID] == token {
		delete(s.locks, sessionID)
	}
	return nil
}

func (s *memoryDraftStore) SubmitInFlight(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, held := s.locks[sessionID]
	return held, nil
}

type memoryBookingRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*booking.Booking
	createErr error
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: map[uuid.UUID]*booking.Booking{}}
}

func (r *memoryBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.bookings[b.ID()] = b
	return nil
}

func (r *memoryBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperr.NewNotFoundError("Booking", id.String())
	}
	return booking.Reconstruct(b.Snapshot()), nil
}

func (r *memoryBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID()]
	if !ok {
		return apperr.NewNotFoundError("Booking", b.ID().String())
	}
	if stored.Version() != b.Version()-1 {
		return apperr.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[b.ID()] = booking.Reconstruct(b.Snapshot())
	return nil
}

func (r *memoryBookingRepo) only(t *testing.T) *booking.Booking {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.bookings, 1)
	for _, b := range r.bookings {
		return b
	}
	return nil
}

type memorySubscriberRepo struct {
	byEmail map[string]*newsletter.Subscriber
}

func newMemorySubscriberRepo() *memorySubscriberRepo {
	return &memorySubscriberRepo{byEmail: map[string]*newsletter.Subscriber{}}
}

func (r *memorySubscriberRepo) FindByEmail(_ context.Context, email string) (*newsletter.Subscriber, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, apperr.NewNotFoundError("Subscriber", email)
	}
	return s, nil
}

func (r *memorySubscriberRepo) Save(_ context.Context, s *newsletter.Subscriber) error {
	if _, ok := r.byEmail[s.Email()]; ok {
		return apperr.NewConflictError("This email is already subscribed to our newsletter.")
	}
	r.byEmail[s.Email()] = s
	return nil
}

func (r *memorySubscriberRepo) Update(_ context.Context, s *newsletter.Subscriber) error {
	r.byEmail[s.Email()] = s
	return nil
}

type memoryNoticeStore struct {
	dismissed map[string]bool
}

func (s *memoryNoticeStore) IsDismissed(_ context.Context, sessionID, name string) (bool, error) {
	return s.dismissed[sessionID+"/"+name], nil
}

func (s *memoryNoticeStore) Dismiss(_ context.Context, sessionID, name string) error {
	s.dismissed[sessionID+"/"+name] = true
	return nil
}

var errDatabaseDown = errors.New("database unavailable")

type fixture struct {
	drafts     *memoryDraftStore
	repo       *memoryBookingRepo
	forms      *FormService
	submission *SubmissionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := catalog.Default()
	require.NoError(t, err)
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2025, time.August, 1, 10, 0, 0, 0, loc) }

	f := &fixture{drafts: newMemoryDraftStore(), repo: newMemoryBookingRepo()}
	f.forms = NewFormService(f.drafts, store, loc, zap.NewNop())
	f.forms.now = now
	f.submission = NewSubmissionService(f.drafts, f.repo, store, loc, zap.NewNop())
	f.submission.now = now
	return f
}

// apply sends JSON actions in order and returns the last view.
func (f *fixture) apply(t *testing.T, sessionID string, actions ...string) *DraftView {
	t.Helper()
	var view *DraftView
	for _, a := range actions {
		var err error
		view, err = f.forms.Apply(context.Background(), sessionID, []byte(a))
		require.NoError(t, err, a)
	}
	return view
}
