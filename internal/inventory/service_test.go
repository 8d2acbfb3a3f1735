package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db"
	"github.com/storefront-labs/storefront-backend/pkg/db/dbtest"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.New(t)
	svc, err := NewService(NewRepository(conn), db.NewFromGorm(conn))
	require.NoError(t, err)
	return svc, conn
}

func addLaptop(t *testing.T, svc Service, count int) *ItemDTO {
	t.Helper()
	item, err := svc.Add(context.Background(), AddItemRequest{
		Name:     "Laptop",
		Category: enums.ItemCategoryElectronics,
		Price:    decimal.NewFromInt(999),
		Count:    count,
	})
	require.NoError(t, err)
	return item
}

func TestAddValidation(t *testing.T) {
	svc, _ := newTestService(t)
	valid := AddItemRequest{Name: "Shirt", Category: enums.ItemCategoryClothes, Price: decimal.NewFromInt(20), Count: 1}

	cases := map[string]func(r *AddItemRequest){
		"blank name":       func(r *AddItemRequest) { r.Name = "  " },
		"unknown category": func(r *AddItemRequest) { r.Category = "Toys" },
		"zero price":       func(r *AddItemRequest) { r.Price = decimal.Zero },
		"price too large":  func(r *AddItemRequest) { r.Price = decimal.RequireFromString("10000000000") },
		"negative count":   func(r *AddItemRequest) { r.Count = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid
			mutate(&req)
			_, err := svc.Add(context.Background(), req)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}

	out, err := svc.Add(context.Background(), valid)
	require.NoError(t, err)
	require.NotZero(t, out.ID)
}

func TestDeductGuardsStock(t *testing.T) {
	svc, _ := newTestService(t)
	item := addLaptop(t, svc, 5)
	ctx := context.Background()

	_, err := svc.Deduct(ctx, item.ID, 6)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock), "got %v", err)

	out, err := svc.Deduct(ctx, item.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 3, out.Remaining)

	_, err = svc.Deduct(ctx, item.ID, 0)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Deduct(ctx, 9999, 1)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdatePartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	item := addLaptop(t, svc, 5)
	ctx := context.Background()

	price := decimal.RequireFromString("899.99")
	out, err := svc.Update(ctx, item.ID, UpdateItemRequest{Price: &price})
	require.NoError(t, err)
	require.True(t, out.Price.Equal(price))
	require.Equal(t, "Laptop", out.Name)
	require.Equal(t, 5, out.Count)

	bad := enums.ItemCategory("Toys")
	_, err = svc.Update(ctx, item.ID, UpdateItemRequest{Category: &bad})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Update(ctx, 9999, UpdateItemRequest{Price: &price})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListIncludesEmptyStock(t *testing.T) {
	svc, _ := newTestService(t)
	addLaptop(t, svc, 0)
	addLaptop(t, svc, 2)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestDeleteReferencedItemConflicts(t *testing.T) {
	svc, conn := newTestService(t)
	item := addLaptop(t, svc, 2)
	customer := &models.Customer{Username: "c@example.com", FullName: "C", PasswordHash: "x"}
	require.NoError(t, conn.Create(customer).Error)
	require.NoError(t, conn.Create(&models.Review{CustomerID: customer.ID, InventoryID: item.ID, Rating: 4, Status: enums.ReviewStatusPending}).Error)

	err := svc.Delete(context.Background(), item.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	other := addLaptop(t, svc, 1)
	require.NoError(t, svc.Delete(context.Background(), other.ID))
	_, err = svc.Get(context.Background(), other.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRepositoryListInStock(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.InventoryItem{Name: "Empty", Category: enums.ItemCategoryFood, Price: decimal.NewFromInt(1), Count: 0}))
	require.NoError(t, repo.Create(ctx, &models.InventoryItem{Name: "Full", Category: enums.ItemCategoryFood, Price: decimal.NewFromInt(1), Count: 4}))

	rows, err := repo.ListInStock(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Full", rows[0].Name)

	ok, err := repo.Decrement(ctx, rows[0].ID, 5)
	require.NoError(t, err)
	require.False(t, ok)
}
