package customers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/config"
	"github.com/storefront-labs/storefront-backend/pkg/db"
	"github.com/storefront-labs/storefront-backend/pkg/db/dbtest"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/security"
)

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.New(t)
	svc, err := NewService(ServiceParams{
		Repo:           NewRepository(conn),
		Tx:             db.NewFromGorm(conn),
		PasswordConfig: testPasswordConfig,
	})
	require.NoError(t, err)
	return svc, conn
}

func registerAlice(t *testing.T, svc Service) *CustomerDTO {
	t.Helper()
	gender := enums.GenderFemale
	out, err := svc.Register(context.Background(), RegisterRequest{
		Username: "Alice@Example.com",
		Password: "s3cretpass",
		FullName: "Alice Liddell",
		Gender:   &gender,
	})
	require.NoError(t, err)
	return out
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: NewRepository(nil)})
	require.Error(t, err)
}

func TestRegisterStoresHashedCredential(t *testing.T) {
	svc, conn := newTestService(t)
	out := registerAlice(t, svc)

	require.Equal(t, "alice@example.com", out.Username)
	require.True(t, out.WalletBalance.IsZero())

	var row models.Customer
	require.NoError(t, conn.First(&row, out.ID).Error)
	require.NotEqual(t, "s3cretpass", row.PasswordHash)
	ok, err := security.VerifyPassword("s3cretpass", row.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice@example.com",
		Password: "anotherpass",
		FullName: "Other Alice",
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	badGender := enums.Gender("Robot")
	age := 200

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing username", RegisterRequest{Password: "longenough", FullName: "X"}},
		{"non email username", RegisterRequest{Username: "alice", Password: "longenough", FullName: "X"}},
		{"short password", RegisterRequest{Username: "x@example.com", Password: "short", FullName: "X"}},
		{"missing full name", RegisterRequest{Username: "x@example.com", Password: "longenough"}},
		{"bad gender", RegisterRequest{Username: "x@example.com", Password: "longenough", FullName: "X", Gender: &badGender}},
		{"bad age", RegisterRequest{Username: "x@example.com", Password: "longenough", FullName: "X", Age: &age}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.req)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestGetUnknownCustomer(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "nobody@example.com")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateChangesOnlyProvidedFields(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)

	addr := "1 Rabbit Hole"
	out, err := svc.Update(context.Background(), "alice@example.com", UpdateRequest{Address: &addr})
	require.NoError(t, err)
	require.Equal(t, "Alice Liddell", out.FullName)
	require.NotNil(t, out.Address)
	require.Equal(t, addr, *out.Address)
	require.NotNil(t, out.Gender)
	require.Equal(t, enums.GenderFemale, *out.Gender)
}

func TestChargeThenOverdraftLeavesBalance(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	wallet, err := svc.Charge(ctx, "alice@example.com", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.True(t, wallet.WalletBalance.Equal(decimal.NewFromInt(100)))

	_, err = svc.Deduct(ctx, "alice@example.com", decimal.NewFromInt(150))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientFunds), "got %v", err)

	got, err := svc.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(decimal.NewFromInt(100)))

	wallet, err = svc.Deduct(ctx, "alice@example.com", decimal.RequireFromString("30.25"))
	require.NoError(t, err)
	require.True(t, wallet.WalletBalance.Equal(decimal.RequireFromString("69.75")))
}

func TestWalletRejectsNonPositiveAmounts(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5), decimal.RequireFromString("1.005")} {
		_, err := svc.Charge(ctx, "alice@example.com", amount)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "charge %s: %v", amount, err)
		_, err = svc.Deduct(ctx, "alice@example.com", amount)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "deduct %s: %v", amount, err)
	}
}

func TestChargeRejectsAmountsBeyondColumnRange(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	_, err := svc.Charge(ctx, "alice@example.com", decimal.RequireFromString("10000000000"))
	requireFieldError(t, err, "amount")

	_, err = svc.Charge(ctx, "alice@example.com", decimal.RequireFromString("9999999999.99"))
	require.NoError(t, err)

	_, err = svc.Charge(ctx, "alice@example.com", decimal.RequireFromString("0.01"))
	requireFieldError(t, err, "amount")

	got, err := svc.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, got.WalletBalance.Equal(decimal.RequireFromString("9999999999.99")), got.WalletBalance.String())
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	details, ok := appErr.Details().(map[string]string)
	require.True(t, ok, "details %#v", appErr.Details())
	require.Contains(t, details, field)
}

func TestDeleteBlockedBySales(t *testing.T) {
	svc, conn := newTestService(t)
	alice := registerAlice(t, svc)

	item := &models.InventoryItem{Name: "Mug", Category: enums.ItemCategoryAccessories, Price: decimal.NewFromInt(5), Count: 3}
	require.NoError(t, conn.Create(item).Error)
	require.NoError(t, conn.Create(&models.Sale{
		CustomerID:  alice.ID,
		InventoryID: item.ID,
		Quantity:    1,
		UnitPrice:   item.Price,
		TotalPrice:  item.Price,
	}).Error)

	err := svc.Delete(context.Background(), "alice@example.com")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestDeleteRemovesCustomer(t *testing.T) {
	svc, _ := newTestService(t)
	registerAlice(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "alice@example.com"))
	_, err := svc.Get(ctx, "alice@example.com")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
