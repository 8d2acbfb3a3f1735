package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// AddItemRequest is the payload for stocking a new item.
type AddItemRequest struct {
	Name        string             `json:"name" validate:"required,max=255"`
	Category    enums.ItemCategory `json:"category" validate:"required"`
	Price       decimal.Decimal    `json:"price" validate:"amount"`
	Count       int                `json:"count" validate:"min=0"`
	Description *string            `json:"description,omitempty"`
}

// UpdateItemRequest carries the optional fields of an item update.
type UpdateItemRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Category    *enums.ItemCategory `json:"category,omitempty"`
	Price       *decimal.Decimal    `json:"price,omitempty"`
	Count       *int                `json:"count,omitempty" validate:"omitempty,min=0"`
	Description *string             `json:"description,omitempty"`
}

// DeductRequest removes stock from an item.
type DeductRequest struct {
	Count int `json:"count"`
}

// ItemDTO is the full item shape.
type ItemDTO struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Category    enums.ItemCategory `json:"category"`
	Price       decimal.Decimal    `json:"price" validate:"amount"`
	Description *string            `json:"description,omitempty"`
	Count       int                `json:"count"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// StockDTO reports the remaining count after a deduction.
type StockDTO struct {
	ID        uint `json:"id"`
	Remaining int  `json:"remaining_count"`
}

func FromModel(item *models.InventoryItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Price:       item.Price,
		Description: item.Description,
		Count:       item.Count,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
