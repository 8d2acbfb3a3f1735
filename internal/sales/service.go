package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/internal/customers"
	"github.com/storefront-labs/storefront-backend/internal/inventory"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/money"
)

const (
	notFoundMessage         = "customer or item not found"
	customerNotFoundMessage = "customer not found"
	itemNotFoundMessage     = "item not found"
	insufficientFundsMsg    = "insufficient funds"
)

// Service exposes the storefront and the sale transaction.
type Service interface {
	Goods(ctx context.Context) ([]GoodDTO, error)
	GoodsDetails(ctx context.Context, id uint) (*inventory.ItemDTO, error)
	ProcessSale(ctx context.Context, req SaleRequest) (*SaleResult, error)
	PurchaseHistory(ctx context.Context, username string) ([]SaleDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SaleObserver is told about every committed sale.
type SaleObserver interface {
	SaleCompleted(quantity int, total decimal.Decimal)
}

// ServiceParams bundles the repositories the sale transaction spans.
type ServiceParams struct {
	Sales     Repository
	Customers customers.Repository
	Inventory inventory.Repository
	Tx        txRunner
	Observer  SaleObserver
}

type service struct {
	sales     Repository
	customers customers.Repository
	inventory inventory.Repository
	tx        txRunner
	observer  SaleObserver
}

func NewService(params ServiceParams) (Service, error) {
	if params.Sales == nil {
		return nil, fmt.Errorf("sales repository is required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{
		sales:     params.Sales,
		customers: params.Customers,
		inventory: params.Inventory,
		tx:        params.Tx,
		observer:  params.Observer,
	}, nil
}

func (s *service) Goods(ctx context.Context) ([]GoodDTO, error) {
	rows, err := s.inventory.ListInStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list goods")
	}
	out := make([]GoodDTO, 0, len(rows))
	for i := range rows {
		out = append(out, goodFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GoodsDetails(ctx context.Context, id uint) (*inventory.ItemDTO, error) {
	if id == 0 {
		return nil, pkgerrors.Validation("id", "must be a positive integer")
	}
	item, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, itemNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return inventory.FromModel(item), nil
}

// ProcessSale debits the wallet, decrements the stock and records the sale in
// one transaction. Checks run existence first, then funds, then stock.
func (s *service) ProcessSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	username := customers.NormalizeUsername(req.Username)
	if username == "" {
		return nil, pkgerrors.Validation("username", "is required")
	}
	if req.ItemID == 0 {
		return nil, pkgerrors.Validation("item_id", "must be a positive integer")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.Validation("quantity", "must be a positive integer")
	}

	var result SaleResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		customerRepo := s.customers.WithTx(tx)
		inventoryRepo := s.inventory.WithTx(tx)
		salesRepo := s.sales.WithTx(tx)

		customer, err := customerRepo.FindByUsername(ctx, username)
		if err != nil {
			return lookupError(err, "load customer")
		}
		item, err := inventoryRepo.FindByID(ctx, req.ItemID)
		if err != nil {
			return lookupError(err, "load item")
		}

		total := money.Total(item.Price, req.Quantity)
		if customer.WalletBalance.LessThan(total) {
			return insufficientFunds(customer, total)
		}
		if item.Count < req.Quantity {
			return inventory.InsufficientStock(item.Count, req.Quantity)
		}

		debited, err := customerRepo.Debit(ctx, customer.ID, total)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debit wallet")
		}
		if !debited {
			return insufficientFunds(customer, total)
		}
		decremented, err := inventoryRepo.Decrement(ctx, item.ID, req.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
		}
		if !decremented {
			return inventory.InsufficientStock(item.Count, req.Quantity)
		}

		sale := &models.Sale{
			CustomerID:  customer.ID,
			InventoryID: item.ID,
			Quantity:    req.Quantity,
			UnitPrice:   item.Price,
			TotalPrice:  total,
		}
		if err := salesRepo.Create(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record sale")
		}

		result = SaleResult{
			Sale:             saleFromModel(sale),
			RemainingBalance: customer.WalletBalance.Sub(total),
			RemainingStock:   item.Count - req.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.observer != nil {
		s.observer.SaleCompleted(result.Sale.Quantity, result.Sale.TotalPrice)
	}
	return &result, nil
}

func (s *service) PurchaseHistory(ctx context.Context, username string) ([]SaleDTO, error) {
	username = customers.NormalizeUsername(username)
	if username == "" {
		return nil, pkgerrors.Validation("username", "is required")
	}
	customer, err := s.customers.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, customerNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	rows, err := s.sales.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, saleFromModel(&rows[i]))
	}
	return out, nil
}

func lookupError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func insufficientFunds(customer *models.Customer, total decimal.Decimal) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientFunds, insufficientFundsMsg).WithDetails(map[string]string{
		"wallet_balance": customer.WalletBalance.StringFixed(money.Scale),
		"total_price":    total.StringFixed(money.Scale),
	})
}
