package models

import (
	"time"

	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// Review is a customer's rating of an inventory item.
type Review struct {
	ID          uint               `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID  uint               `gorm:"column:customer_id;not null;index"`
	InventoryID uint               `gorm:"column:inventory_id;not null;index"`
	Rating      int                `gorm:"column:rating;not null"`
	Comment     string             `gorm:"column:comment;type:text;not null;default:''"`
	Status      enums.ReviewStatus `gorm:"column:status;type:varchar(16);not null;default:'Pending'"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	Customer  *Customer      `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Inventory *InventoryItem `gorm:"foreignKey:InventoryID;constraint:OnDelete:RESTRICT"`
}
