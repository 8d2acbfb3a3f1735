package reviews

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// Repository exposes review persistence and moderation-state updates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	SetStatusFrom(ctx context.Context, id uint, from, to enums.ReviewStatus) (bool, error)
	ListByInventory(ctx context.Context, inventoryID uint) ([]models.Review, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Review, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, id).Error
}

// SetStatusFrom moves a review to status `to` only while it is still in `from`.
func (r *repository) SetStatusFrom(ctx context.Context, id uint, from, to enums.ReviewStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListByInventory(ctx context.Context, inventoryID uint) ([]models.Review, error) {
	var rows []models.Review
	if err := r.db.WithContext(ctx).Where("inventory_id = ?", inventoryID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Review, error) {
	var rows []models.Review
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
