package controllers

import (
	"net/http"

	"github.com/storefront-labs/storefront-backend/api/middleware"
	"github.com/storefront-labs/storefront-backend/api/responses"
	"github.com/storefront-labs/storefront-backend/api/validators"
	"github.com/storefront-labs/storefront-backend/internal/sales"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

func salesUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable")
}

// SalesGoods lists items that still have stock.
func SalesGoods(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, salesUnavailable())
			return
		}
		goods, err := svc.Goods(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, goods)
	}
}

func SalesGoodsDetails(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, salesUnavailable())
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.GoodsDetails(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// SalesProcess runs the purchase transaction for the caller or an admin.
func SalesProcess(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, salesUnavailable())
			return
		}
		var body sales.SaleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := middleware.RequireSelfOrAdmin(r, body.Username); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ProcessSale(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"sale_id":  result.Sale.ID,
				"item_id":  result.Sale.InventoryID,
				"quantity": result.Sale.Quantity,
				"total":    result.Sale.TotalPrice.String(),
			})
			logg.Info(ctx, "sale.completed")
		}
		responses.WriteSuccess(w, result)
	}
}

func SalesHistory(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, salesUnavailable())
			return
		}
		username, err := validators.PathParam(r, "username")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := middleware.RequireSelfOrAdmin(r, username); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		history, err := svc.PurchaseHistory(r.Context(), username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
