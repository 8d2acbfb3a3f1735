package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// InventoryItem is a sellable good and its remaining stock.
type InventoryItem struct {
	ID          uint               `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string             `gorm:"column:name;type:varchar(255);not null"`
	Category    enums.ItemCategory `gorm:"column:category;type:varchar(32);not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Description *string            `gorm:"column:description"`
	Count       int                `gorm:"column:count;not null;default:0"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
