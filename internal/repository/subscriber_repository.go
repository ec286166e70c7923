package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trattoria-luca/service-booking/internal/domain/newsletter"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

// SubscriberModel is the GORM model for the newsletter_subscribers table.
type SubscriberModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Email        string    `gorm:"type:varchar(320);not null;uniqueIndex"`
	IsActive     bool      `gorm:"not null;default:true"`
	SubscribedAt time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null"`
}

func (SubscriberModel) TableName() string { return "newsletter_subscribers" }

// GormSubscriberRepository implements SubscriberRepository using GORM.
type GormSubscriberRepository struct {
	db *gorm.DB
}

func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

func (r *GormSubscriberRepository) FindByEmail(ctx context.Context, email string) (*newsletter.Subscriber, error) {
	var model SubscriberModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("Subscriber", email)
		}
		return nil, err
	}
	return toSubscriberDomain(&model), nil
}

func (r *GormSubscriberRepository) Save(ctx context.Context, s *newsletter.Subscriber) error {
	err := r.db.WithContext(ctx).Create(toSubscriberModel(s)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.NewConflictError("This email is already subscribed to our newsletter.")
	}
	return err
}

func (r *GormSubscriberRepository) Update(ctx context.Context, s *newsletter.Subscriber) error {
	result := r.db.WithContext(ctx).
		Model(&SubscriberModel{}).
		Where("id = ?", s.ID()).
		Updates(map[string]interface{}{
			"name":          s.Name(),
			"is_active":     s.IsActive(),
			"subscribed_at": s.SubscribedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("Subscriber", s.Email())
	}
	return nil
}

// --- Conversions ---

func toSubscriberModel(s *newsletter.Subscriber) *SubscriberModel {
	return &SubscriberModel{
		ID:           s.ID(),
		Name:         s.Name(),
		Email:        s.Email(),
		IsActive:     s.IsActive(),
		SubscribedAt: s.SubscribedAt(),
		CreatedAt:    s.CreatedAt(),
	}
}

func toSubscriberDomain(m *SubscriberModel) *newsletter.Subscriber {
	return newsletter.Reconstruct(m.ID, m.Name, m.Email, m.IsActive, m.SubscribedAt, m.CreatedAt)
}
