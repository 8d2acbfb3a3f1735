package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db/dbtest"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

func seedCustomer(t *testing.T, conn *gorm.DB, username string, balance string) *models.Customer {
	t.Helper()
	c := &models.Customer{
		Username:      username,
		FullName:      "Test Customer",
		PasswordHash:  "hash",
		WalletBalance: decimal.RequireFromString(balance),
	}
	require.NoError(t, conn.Create(c).Error)
	return c
}

func TestRepository_DebitGuardsBalance(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	c := seedCustomer(t, conn, "a@example.com", "100")

	ok, err := repo.Debit(ctx, c.ID, decimal.NewFromInt(150))
	require.NoError(t, err)
	require.False(t, ok)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(decimal.NewFromInt(100)))

	ok, err = repo.Debit(ctx, c.ID, decimal.RequireFromString("40.50"))
	require.NoError(t, err)
	require.True(t, ok)

	got, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(decimal.RequireFromString("59.50")), got.WalletBalance.String())
}

func TestRepository_CreditAndUpdate(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	c := seedCustomer(t, conn, "b@example.com", "0")

	require.NoError(t, repo.Credit(ctx, c.ID, decimal.NewFromInt(25)))
	require.NoError(t, repo.Update(ctx, c.ID, map[string]any{"full_name": "Renamed"}))

	got, err := repo.FindByUsername(ctx, "b@example.com")
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.FullName)
	require.True(t, got.WalletBalance.Equal(decimal.NewFromInt(25)))
}

func TestRepository_ListOrdersByID(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	seedCustomer(t, conn, "z@example.com", "0")
	seedCustomer(t, conn, "a@example.com", "0")

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "z@example.com", rows[0].Username)
}

func TestRepository_DeleteAndMissing(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	c := seedCustomer(t, conn, "gone@example.com", "0")

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err := repo.FindByID(ctx, c.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
