package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable record of a completed purchase.
type Sale struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID  uint            `gorm:"column:customer_id;not null;index"`
	InventoryID uint            `gorm:"column:inventory_id;not null;index"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	SaleDate    time.Time       `gorm:"column:sale_date;autoCreateTime"`

	Customer  *Customer      `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Inventory *InventoryItem `gorm:"foreignKey:InventoryID;constraint:OnDelete:RESTRICT"`
}
