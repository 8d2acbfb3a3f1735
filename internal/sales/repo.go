package sales

import (
	"context"

	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

// Repository persists sale records. Sales are never updated or deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) error
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Sale, error)
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

func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Sale, error) {
	var rows []models.Sale
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("sale_date ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
