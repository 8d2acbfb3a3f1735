package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/money"
)

const (
	itemNotFoundMessage   = "item not found"
	insufficientStockText = "insufficient stock"
)

// Service exposes stock management.
type Service interface {
	Add(ctx context.Context, req AddItemRequest) (*ItemDTO, error)
	Update(ctx context.Context, id uint, req UpdateItemRequest) (*ItemDTO, error)
	Deduct(ctx context.Context, id uint, count int) (*StockDTO, error)
	Get(ctx context.Context, id uint) (*ItemDTO, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]ItemDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the inventory service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Add(ctx context.Context, req AddItemRequest) (*ItemDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name", "is required")
	}
	if !req.Category.IsValid() {
		return nil, invalidCategory()
	}
	if err := money.ValidatePositive("price", req.Price); err != nil {
		return nil, err
	}
	if req.Count < 0 {
		return nil, pkgerrors.Validation("count", "must be 0 or greater")
	}

	item := &models.InventoryItem{
		Name:        name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Count:       req.Count,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	return FromModel(item), nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateItemRequest) (*ItemDTO, error) {
	fields, err := updateColumns(req)
	if err != nil {
		return nil, err
	}

	var updated *models.InventoryItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := find(ctx, repo, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
		}
		updated, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Deduct(ctx context.Context, id uint, count int) (*StockDTO, error) {
	if count <= 0 {
		return nil, pkgerrors.Validation("count", "must be greater than 0")
	}

	var out *StockDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := find(ctx, repo, id)
		if err != nil {
			return err
		}
		if item.Count < count {
			return InsufficientStock(item.Count, count)
		}
		ok, err := repo.Decrement(ctx, id, count)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
		}
		if !ok {
			return InsufficientStock(item.Count, count)
		}
		item, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload item")
		}
		out = &StockDTO{ID: item.ID, Remaining: item.Count}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uint) (*ItemDTO, error) {
	item, err := find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := find(ctx, repo, id); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "item has sales or reviews on record")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
		}
		return nil
	})
}

func (s *service) List(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// InsufficientStock builds the error returned when a request exceeds the remaining count.
func InsufficientStock(available, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, insufficientStockText).WithDetails(map[string]int{
		"available": available,
		"requested": requested,
	})
}

func find(ctx context.Context, repo Repository, id uint) (*models.InventoryItem, error) {
	if id == 0 {
		return nil, pkgerrors.Validation("id", "must be a positive integer")
	}
	item, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, itemNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func updateColumns(req UpdateItemRequest) (map[string]any, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.Validation("name", "must not be empty")
		}
		fields["name"] = name
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, invalidCategory()
		}
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		if err := money.ValidatePositive("price", *req.Price); err != nil {
			return nil, err
		}
		fields["price"] = *req.Price
	}
	if req.Count != nil {
		if *req.Count < 0 {
			return nil, pkgerrors.Validation("count", "must be 0 or greater")
		}
		fields["count"] = *req.Count
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	return fields, nil
}

func invalidCategory() error {
	return pkgerrors.Validation("category", "must be one of Food, Clothes, Accessories, Electronics")
}
