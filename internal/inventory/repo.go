package inventory

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

// Repository exposes inventory persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uint) (*models.InventoryItem, error)
	List(ctx context.Context) ([]models.InventoryItem, error)
	ListInStock(ctx context.Context) ([]models.InventoryItem, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	Decrement(ctx context.Context, id uint, count int) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds an inventory repository to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListInStock(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	if err := r.db.WithContext(ctx).Where("count > 0").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.InventoryItem{}, id).Error
}

// Decrement removes count units only while enough stock remains.
func (r *repository) Decrement(ctx context.Context, id uint, count int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND count >= ?", id, count).
		UpdateColumns(map[string]any{
			"count":      gorm.Expr("count - ?", count),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
