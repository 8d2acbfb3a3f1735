package customers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

// Repository exposes customer persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByUsername(ctx context.Context, username string) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
	Credit(ctx context.Context, id uint, amount decimal.Decimal) error
	Debit(ctx context.Context, id uint, amount decimal.Decimal) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update writes the provided columns; callers pass only fields present in the request.
func (r *repository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, id).Error
}

// Credit adds amount to the wallet balance.
func (r *repository) Credit(ctx context.Context, id uint, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"wallet_balance": gorm.Expr("wallet_balance + ?", amount),
			"updated_at":     time.Now().UTC(),
		}).Error
}

// Debit subtracts amount only while the balance covers it. It reports false
// when no row qualified, leaving the balance untouched.
func (r *repository) Debit(ctx context.Context, id uint, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND wallet_balance >= ?", id, amount).
		UpdateColumns(map[string]any{
			"wallet_balance": gorm.Expr("wallet_balance - ?", amount),
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
