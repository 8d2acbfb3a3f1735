package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-backend/api/middleware"
	"github.com/storefront-labs/storefront-backend/internal/customers"
	"github.com/storefront-labs/storefront-backend/internal/inventory"
	"github.com/storefront-labs/storefront-backend/internal/reviews"
	"github.com/storefront-labs/storefront-backend/internal/sales"
	"github.com/storefront-labs/storefront-backend/pkg/config"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func asCaller(req *http.Request, id uint, username string, role enums.Role) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), middleware.Identity{CustomerID: id, Username: username, Role: role}))
}

type stubCustomers struct {
	customers.Service
	registered customers.RegisterRequest
	deducted   decimal.Decimal
	deductErr  error
	deleted    string
}

func (s *stubCustomers) Register(_ context.Context, req customers.RegisterRequest) (*customers.CustomerDTO, error) {
	s.registered = req
	return &customers.CustomerDTO{ID: 1, Username: req.Username, FullName: req.FullName}, nil
}

func (s *stubCustomers) Deduct(_ context.Context, username string, amount decimal.Decimal) (*customers.WalletDTO, error) {
	if s.deductErr != nil {
		return nil, s.deductErr
	}
	s.deducted = amount
	return &customers.WalletDTO{Username: username, WalletBalance: decimal.NewFromInt(50)}, nil
}

func (s *stubCustomers) Delete(_ context.Context, username string) error {
	s.deleted = username
	return nil
}

func TestCustomerRegisterReturnsCreated(t *testing.T) {
	svc := &stubCustomers{}
	body := `{"username":"ada@example.com","password":"correct-horse","full_name":"Ada"}`
	rec := httptest.NewRecorder()
	CustomerRegister(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "ada@example.com", svc.registered.Username)
	require.NotContains(t, rec.Body.String(), "correct-horse")
}

func TestCustomerRegisterRejectsMissingField(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"username":"ada@example.com","password":"correct-horse"}`
	CustomerRegister(&stubCustomers{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers/register", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
	require.Contains(t, env.Error.Details, "full_name")
}

func TestCustomerDeductRequiresSelfOrAdmin(t *testing.T) {
	cases := []struct {
		name   string
		caller string
		role   enums.Role
		want   int
	}{
		{"self", "ada@example.com", enums.RoleCustomer, http.StatusOK},
		{"other customer", "bob@example.com", enums.RoleCustomer, http.StatusForbidden},
		{"admin", "root@example.com", enums.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCustomers{}
			req := httptest.NewRequest(http.MethodPost, "/customers/deduct", strings.NewReader(`{"username":"ada@example.com","amount":"12.50"}`))
			rec := httptest.NewRecorder()
			CustomerDeduct(svc, nil).ServeHTTP(rec, asCaller(req, 9, tc.caller, tc.role))
			require.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				require.True(t, decimal.RequireFromString("12.5").Equal(svc.deducted))
			}
		})
	}
}

func TestCustomerDeductSurfacesInsufficientFunds(t *testing.T) {
	svc := &stubCustomers{deductErr: pkgerrors.New(pkgerrors.CodeInsufficientFunds, "insufficient funds")}
	req := httptest.NewRequest(http.MethodPost, "/customers/deduct", strings.NewReader(`{"username":"ada@example.com","amount":"150"}`))
	rec := httptest.NewRecorder()
	CustomerDeduct(svc, nil).ServeHTTP(rec, asCaller(req, 1, "ada@example.com", enums.RoleCustomer))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "INSUFFICIENT_FUNDS", env.Error.Code)
	require.Equal(t, "insufficient funds", env.Error.Message)
}

func TestCustomerDeleteUsesPathUsername(t *testing.T) {
	svc := &stubCustomers{}
	r := chi.NewRouter()
	r.Delete("/customers/{username}", CustomerDelete(svc, nil))

	req := httptest.NewRequest(http.MethodDelete, "/customers/ada@example.com", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, asCaller(req, 1, "ada@example.com", enums.RoleCustomer))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "ada@example.com", svc.deleted)
}

type stubInventory struct {
	inventory.Service
	deductedID    uint
	deductedCount int
}

func (s *stubInventory) Deduct(_ context.Context, id uint, count int) (*inventory.StockDTO, error) {
	s.deductedID, s.deductedCount = id, count
	return &inventory.StockDTO{ID: id, Remaining: 7}, nil
}

func TestInventoryDeductParsesPathAndBody(t *testing.T) {
	svc := &stubInventory{}
	r := chi.NewRouter()
	r.Post("/inventory/deduct/{id}", InventoryDeduct(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inventory/deduct/4", strings.NewReader(`{"count":3}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uint(4), svc.deductedID)
	require.Equal(t, 3, svc.deductedCount)
	require.JSONEq(t, `{"id":4,"remaining_count":7}`, string(decodeEnvelope(t, rec).Data))
}

func TestInventoryRejectsBadID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/inventory/{id}", InventoryGet(&stubInventory{}, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory/abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubSales struct {
	sales.Service
	requested sales.SaleRequest
}

func (s *stubSales) ProcessSale(_ context.Context, req sales.SaleRequest) (*sales.SaleResult, error) {
	s.requested = req
	return &sales.SaleResult{
		Sale:             sales.SaleDTO{ID: 1, InventoryID: req.ItemID, Quantity: req.Quantity, TotalPrice: decimal.NewFromInt(1998)},
		RemainingBalance: decimal.NewFromInt(2),
		RemainingStock:   8,
	}, nil
}

func TestSalesProcessForbidsOtherCustomers(t *testing.T) {
	svc := &stubSales{}
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"username":"ada@example.com","item_id":1,"quantity":2}`))
	rec := httptest.NewRecorder()
	SalesProcess(svc, nil).ServeHTTP(rec, asCaller(req, 2, "bob@example.com", enums.RoleCustomer))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Zero(t, svc.requested.ItemID)
}

func TestSalesProcessReturnsRemainingBalance(t *testing.T) {
	svc := &stubSales{}
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{"username":"ada@example.com","item_id":1,"quantity":2}`))
	rec := httptest.NewRecorder()
	SalesProcess(svc, nil).ServeHTTP(rec, asCaller(req, 1, "ada@example.com", enums.RoleCustomer))

	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		RemainingBalance string `json:"remaining_balance"`
		RemainingStock   int    `json:"remaining_stock"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	require.Equal(t, "2", result.RemainingBalance)
	require.Equal(t, 8, result.RemainingStock)
}

type stubReviews struct {
	reviews.Service
	actor  reviews.Actor
	status string
}

func (s *stubReviews) Delete(_ context.Context, actor reviews.Actor, _ uint) error {
	s.actor = actor
	return nil
}

func (s *stubReviews) Moderate(_ context.Context, id uint, status string) (*reviews.ReviewDTO, error) {
	s.status = status
	if status == "Approved" {
		return &reviews.ReviewDTO{ID: id, Status: enums.ReviewStatusApproved}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "review already moderated")
}

func TestReviewDeletePassesActor(t *testing.T) {
	svc := &stubReviews{}
	r := chi.NewRouter()
	r.Delete("/reviews/delete/{id}", ReviewDelete(svc, nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/reviews/delete/3", nil)
	r.ServeHTTP(rec, asCaller(req, 5, "root@example.com", enums.RoleAdmin))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, reviews.Actor{CustomerID: 5, IsAdmin: true}, svc.actor)
}

func TestReviewDeleteRequiresIdentity(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/reviews/delete/{id}", ReviewDelete(&stubReviews{}, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/reviews/delete/3", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReviewModerateStateConflict(t *testing.T) {
	svc := &stubReviews{}
	r := chi.NewRouter()
	r.Post("/reviews/moderate/{id}", ReviewModerate(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews/moderate/3", strings.NewReader(`{"status":"Rejected"}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Rejected", svc.status)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews/moderate/3", strings.NewReader(`{"status":"Approved"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	HealthReady(cfg, ok, ok, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HealthReady(cfg, ok, down, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "DEPENDENCY_ERROR", decodeEnvelope(t, rec).Error.Code)
}
