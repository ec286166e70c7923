package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	bookingDomain "github.com/trattoria-luca/service-booking/internal/domain/booking"
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/domain/money"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber       string          `gorm:"uniqueIndex;not null;size:20"`
	BookingType         string          `gorm:"not null;size:20"`
	Status              string          `gorm:"not null;size:20;index"`
	SelectedPackage     string          `gorm:"size:64"`
	BookingDate         *time.Time      `gorm:"type:date;index"`
	PickupTime          *time.Time      `gorm:""`
	GuestCount          *int            `gorm:""`
	VenueType           *string         `gorm:"size:10"`
	VenueAddress        *string         `gorm:"size:500"`
	SelectedAreas       json.RawMessage `gorm:"type:jsonb"`
	CustomerName        string          `gorm:"not null;size:200"`
	Email               string          `gorm:"not null;size:320"`
	PhoneNumber         string          `gorm:"not null;size:40"`
	Notes               string          `gorm:"size:2000"`
	DietaryRequirements string          `gorm:"size:2000"`
	SelectedItems       json.RawMessage `gorm:"type:jsonb"`
	EstimatedTotalCents *int64          `gorm:""`
	TotalAmountCents    *int64          `gorm:""`
	Version             int64           `gorm:"not null;default:1"`
	BookingTimestamp    time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// SpecialOrderModel is a special-order line of a booking.
type SpecialOrderModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null"`
	SKU        string    `gorm:"column:sku;not null;size:64"`
	ItemType   string    `gorm:"not null;size:20"`
	Size       string    `gorm:"not null;size:2"`
	Quantity   int       `gorm:"not null"`
	PriceCents int64     `gorm:"not null"`
	Name       string    `gorm:"not null;size:200"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SpecialOrderModel) TableName() string {
	return "special_orders"
}

// OrderChoiceModel is a dish selected for a dining booking.
type OrderChoiceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null;size:200"`
	Quantity  int       `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (OrderChoiceModel) TableName() string {
	return "order_choices"
}

// CollaborationModel holds the details of a collaboration request.
type CollaborationModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID          uuid.UUID `gorm:"type:uuid;index;not null"`
	CollaborationType  string    `gorm:"not null;size:100"`
	ProjectDescription string    `gorm:"size:2000"`
	SocialMedia        string    `gorm:"size:500"`
	Timeline           string    `gorm:"size:200"`
	CreatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CollaborationModel) TableName() string {
	return "collaborations"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db       *gorm.DB
	listener bookingDomain.InsertListener
	logger   *zap.Logger
}

// NewGormBookingRepository creates a new GormBookingRepository. The listener
// may be nil.
func NewGormBookingRepository(db *gorm.DB, listener bookingDomain.InsertListener, logger *zap.Logger) *GormBookingRepository {
	return &GormBookingRepository{db: db, listener: listener, logger: logger}
}

// Create inserts the booking and its children in one transaction, then
// notifies the insert listener.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}

		if lines := toSpecialOrderModels(bk); len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("failed to save special order lines: %w", err)
			}
		}

		if choices := toOrderChoiceModels(bk); len(choices) > 0 {
			if err := tx.Create(&choices).Error; err != nil {
				return fmt.Errorf("failed to save order choices: %w", err)
			}
		}

		if c := bk.Collaboration(); c != nil && bk.Type() == bookingDomain.TypeCollaboration {
			collab := CollaborationModel{
				ID:                 uuid.New(),
				BookingID:          bk.ID(),
				CollaborationType:  c.Type,
				ProjectDescription: c.ProjectDescription,
				SocialMedia:        c.SocialMedia,
				Timeline:           c.Timeline,
				CreatedAt:          model.BookingTimestamp,
			}
			if err := tx.Create(&collab).Error; err != nil {
				return fmt.Errorf("failed to save collaboration: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("booking insert rolled back",
			zap.String("booking_id", bk.ID().String()),
			zap.String("booking_number", bk.BookingNumber()),
			zap.String("booking_type", string(bk.Type())),
			zap.Error(err),
		)
		return err
	}

	if r.listener != nil {
		r.listener.BookingInserted(ctx, bk)
	}
	return nil
}

// FindByID retrieves a booking and its child records.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	db := r.db.WithContext(ctx)

	var model BookingModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}

	var lines []SpecialOrderModel
	if err := db.Where("booking_id = ?", id).Order("created_at, sku").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load special order lines: %w", err)
	}

	var choices []OrderChoiceModel
	if err := db.Where("booking_id = ?", id).Order("created_at, name").Find(&choices).Error; err != nil {
		return nil, fmt.Errorf("failed to load order choices: %w", err)
	}

	var collabs []CollaborationModel
	if err := db.Where("booking_id = ?", id).Limit(1).Find(&collabs).Error; err != nil {
		return nil, fmt.Errorf("failed to load collaboration: %w", err)
	}

	return toDomainBooking(&model, lines, choices, collabs)
}

// Update persists a status change with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	// IncrementVersion has already been called, so the stored row carries the previous version.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(bk.Status()),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	m := &BookingModel{
		ID:                  bk.ID(),
		BookingNumber:       bk.BookingNumber(),
		BookingType:         string(bk.Type()),
		Status:              string(bk.Status()),
		SelectedPackage:     bk.SelectedPackage(),
		PickupTime:          bk.PickupTime(),
		GuestCount:          bk.GuestCount(),
		VenueAddress:        bk.VenueAddress(),
		CustomerName:        bk.CustomerName(),
		Email:               bk.Email(),
		PhoneNumber:         bk.PhoneNumber(),
		Notes:               bk.Notes(),
		DietaryRequirements: bk.DietaryRequirements(),
		EstimatedTotalCents: centsPtr(bk.EstimatedTotal()),
		TotalAmountCents:    centsPtr(bk.TotalAmount()),
		Version:             bk.Version(),
		BookingTimestamp:    bk.BookingTimestamp(),
		UpdatedAt:           bk.UpdatedAt(),
	}

	if d := bk.BookingDate(); d != nil {
		t := d.In(time.UTC)
		m.BookingDate = &t
	}
	if vt := bk.VenueType(); vt != nil {
		s := string(*vt)
		m.VenueType = &s
	}

	if areas := bk.SelectedAreas(); len(areas) > 0 {
		data, err := json.Marshal(areas)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal selected areas: %w", err)
		}
		m.SelectedAreas = data
	}
	if items := bk.SelectedItems(); len(items) > 0 {
		data, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal selected items: %w", err)
		}
		m.SelectedItems = data
	}
	return m, nil
}

func toSpecialOrderModels(bk *bookingDomain.Booking) []SpecialOrderModel {
	out := make([]SpecialOrderModel, 0, len(bk.SpecialOrders()))
	for _, l := range bk.SpecialOrders() {
		out = append(out, SpecialOrderModel{
			ID:         uuid.New(),
			BookingID:  bk.ID(),
			SKU:        l.SKU,
			ItemType:   l.ItemType,
			Size:       l.Size,
			Quantity:   l.Quantity,
			PriceCents: int64(l.Price),
			Name:       l.Name,
			CreatedAt:  bk.BookingTimestamp(),
		})
	}
	return out
}

func toOrderChoiceModels(bk *bookingDomain.Booking) []OrderChoiceModel {
	out := make([]OrderChoiceModel, 0, len(bk.SelectedItems()))
	for _, it := range bk.SelectedItems() {
		out = append(out, OrderChoiceModel{
			ID:        uuid.New(),
			BookingID: bk.ID(),
			Name:      it.Name,
			Quantity:  it.Quantity,
			CreatedAt: bk.BookingTimestamp(),
		})
	}
	return out
}

func toDomainBooking(m *BookingModel, lines []SpecialOrderModel, choices []OrderChoiceModel, collabs []CollaborationModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	snap := bookingDomain.Snapshot{
		ID:                  m.ID,
		BookingNumber:       m.BookingNumber,
		BookingType:         bookingDomain.BookingType(m.BookingType),
		Status:              status,
		SelectedPackage:     m.SelectedPackage,
		PickupTime:          m.PickupTime,
		GuestCount:          m.GuestCount,
		VenueAddress:        m.VenueAddress,
		CustomerName:        m.CustomerName,
		Email:               m.Email,
		PhoneNumber:         m.PhoneNumber,
		Notes:               m.Notes,
		DietaryRequirements: m.DietaryRequirements,
		EstimatedTotal:      moneyPtr(m.EstimatedTotalCents),
		TotalAmount:         moneyPtr(m.TotalAmountCents),
		Version:             m.Version,
		BookingTimestamp:    m.BookingTimestamp,
		UpdatedAt:           m.UpdatedAt,
	}

	if m.BookingDate != nil {
		d := catalog.DateOf(m.BookingDate.UTC())
		snap.BookingDate = &d
	}
	if m.VenueType != nil {
		snap.VenueType = bookingDomain.ParseVenueType(*m.VenueType)
	}
	if len(m.SelectedAreas) > 0 {
		if err := json.Unmarshal(m.SelectedAreas, &snap.SelectedAreas); err != nil {
			return nil, fmt.Errorf("failed to unmarshal selected areas: %w", err)
		}
	}

	// order_choices is the source of truth for dining selections; the
	// selected_items column only covers rows written without children.
	switch {
	case len(choices) > 0:
		for _, c := range choices {
			snap.SelectedItems = append(snap.SelectedItems, bookingDomain.SelectedItem{Name: c.Name, Quantity: c.Quantity})
		}
	case len(m.SelectedItems) > 0:
		if err := json.Unmarshal(m.SelectedItems, &snap.SelectedItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal selected items: %w", err)
		}
	}

	for _, l := range lines {
		snap.SpecialOrders = append(snap.SpecialOrders, bookingDomain.SpecialOrderLine{
			SKU:      l.SKU,
			Name:     l.Name,
			ItemType: l.ItemType,
			Size:     l.Size,
			Quantity: l.Quantity,
			Price:    money.Cents(l.PriceCents),
		})
	}
	if len(collabs) > 0 {
		c := collabs[0]
		snap.Collaboration = &bookingDomain.Collaboration{
			Type:               c.CollaborationType,
			ProjectDescription: c.ProjectDescription,
			SocialMedia:        c.SocialMedia,
			Timeline:           c.Timeline,
		}
	}

	return bookingDomain.Reconstruct(snap), nil
}

func centsPtr(c *money.Cents) *int64 {
	if c == nil {
		return nil
	}
	v := int64(*c)
	return &v
}

func moneyPtr(v *int64) *money.Cents {
	if v == nil {
		return nil
	}
	c := money.Cents(*v)
	return &c
}
