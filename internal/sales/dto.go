package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

// SaleRequest asks to buy quantity units of an item for a customer.
type SaleRequest struct {
	Username string `json:"username" validate:"required,email"`
	ItemID   uint   `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity"`
}

// GoodDTO is the storefront view of an in-stock item.
type GoodDTO struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Count int             `json:"count"`
}

// SaleDTO is a recorded sale.
type SaleDTO struct {
	ID          uint            `json:"id"`
	CustomerID  uint            `json:"customer_id"`
	InventoryID uint            `json:"item_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	SaleDate    time.Time       `json:"sale_date"`
}

// SaleResult pairs the committed sale with the balances it left behind.
type SaleResult struct {
	Sale             SaleDTO         `json:"sale"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	RemainingStock   int             `json:"remaining_stock"`
}

func saleFromModel(s *models.Sale) SaleDTO {
	return SaleDTO{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		InventoryID: s.InventoryID,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		TotalPrice:  s.TotalPrice,
		SaleDate:    s.SaleDate,
	}
}

func goodFromModel(item *models.InventoryItem) GoodDTO {
	return GoodDTO{ID: item.ID, Name: item.Name, Price: item.Price, Count: item.Count}
}
