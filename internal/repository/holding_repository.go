// Package repository holds the persistence layer for holdings. Every
// operation is scoped to an owner; rows owned by someone else behave exactly
// like rows that do not exist.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"dwight/internal/models"
	"dwight/internal/pagination"
)

// ErrNotFound is returned when a holding does not exist or is not owned by
// the caller.
var ErrNotFound = errors.New("holding not found")

// ListOptions narrows a listing. The zero value lists everything.
type ListOptions struct {
	Category *models.AssetCategory
	Page     *pagination.PageRequest
}

// HoldingRepository is the ownership-scoped holding store.
type HoldingRepository interface {
	Get(ctx context.Context, id uint, ownerID string) (*models.Holding, error)
	List(ctx context.Context, ownerID string, opts ListOptions) ([]models.Holding, int64, error)
	Create(ctx context.Context, ownerID string, holding *models.Holding) (*models.Holding, error)
	Update(ctx context.Context, id uint, ownerID string, apply func(*models.Holding)) (*models.Holding, error)
	Delete(ctx context.Context, id uint, ownerID string) (bool, error)
}

// Option configures a holdingRepo.
type Option func(*holdingRepo)

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *holdingRepo) {
		r.now = now
	}
}

type holdingRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// NewHoldingRepository creates a GORM-backed HoldingRepository.
func NewHoldingRepository(db *gorm.DB, opts ...Option) HoldingRepository {
	r := &holdingRepo{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *holdingRepo) Get(ctx context.Context, id uint, ownerID string) (*models.Holding, error) {
	var holding models.Holding
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &holding, nil
}

func (r *holdingRepo) List(ctx context.Context, ownerID string, opts ListOptions) ([]models.Holding, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Holding{}).Where("owner_id = ?", ownerID)
		if opts.Category != nil {
			q = q.Where("category = ?", *opts.Category)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := scoped().Order("id ASC")
	if opts.Page != nil {
		q = q.Scopes(pagination.Paginate(*opts.Page))
	}

	holdings := []models.Holding{}
	if err := q.Find(&holdings).Error; err != nil {
		return nil, 0, err
	}
	return holdings, total, nil
}

func (r *holdingRepo) Create(ctx context.Context, ownerID string, holding *models.Holding) (*models.Holding, error) {
	now := r.timestamp()

	holding.ID = 0
	holding.OwnerID = ownerID
	holding.CreatedAt = now
	holding.UpdatedAt = now
	if holding.AcquiredAt.IsZero() {
		holding.AcquiredAt = now
	}
	if holding.Category == "" {
		holding.Category = models.AssetCategoryStock
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(holding).Error
	})
	if err != nil {
		return nil, err
	}
	return holding, nil
}

func (r *holdingRepo) Update(ctx context.Context, id uint, ownerID string, apply func(*models.Holding)) (*models.Holding, error) {
	var holding models.Holding

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&holding).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		previous := holding.UpdatedAt
		createdAt := holding.CreatedAt
		apply(&holding)

		// The callback cannot move a holding to another owner or rewrite history.
		holding.ID = id
		holding.OwnerID = ownerID
		holding.CreatedAt = createdAt
		holding.UpdatedAt = r.after(previous)

		return tx.Model(&holding).Updates(map[string]interface{}{
			"symbol":       holding.Symbol,
			"display_name": holding.DisplayName,
			"quantity":     holding.Quantity,
			"unit_cost":    holding.UnitCost,
			"acquired_at":  holding.AcquiredAt,
			"category":     holding.Category,
			"notes":        holding.Notes,
			"updated_at":   holding.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &holding, nil
}

func (r *holdingRepo) Delete(ctx context.Context, id uint, ownerID string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Holding{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// timestamp returns the clock reading at the precision both supported
// databases round-trip.
func (r *holdingRepo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// after returns a timestamp strictly later than previous, even when the
// clock has not advanced.
func (r *holdingRepo) after(previous time.Time) time.Time {
	now := r.timestamp()
	if !now.After(previous) {
		now = previous.Add(time.Microsecond)
	}
	return now
}
