package controllers

import (
	"net/http"

	"github.com/storefront-labs/storefront-backend/api/middleware"
	"github.com/storefront-labs/storefront-backend/api/responses"
	"github.com/storefront-labs/storefront-backend/api/validators"
	"github.com/storefront-labs/storefront-backend/internal/customers"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

func customersUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable")
}

// CustomerRegister opens a new account.
func CustomerRegister(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, customersUnavailable())
			return
		}

		var body customers.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, customersUnavailable())
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, customersUnavailable())
			return
		}
		username, err := validators.PathParam(r, "username")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Get(r.Context(), username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// CustomerUpdate applies a partial profile update for the caller or an admin.
func CustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, customersUnavailable())
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

		var body customers.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Update(r.Context(), username, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

func CustomerDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, customersUnavailable())
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
		if err := svc.Delete(r.Context(), username); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// CustomerCharge adds money to a wallet.
func CustomerCharge(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return walletHandler(svc, logg, func(svc customers.Service, r *http.Request, req customers.WalletRequest) (*customers.WalletDTO, error) {
		return svc.Charge(r.Context(), req.Username, req.Amount)
	})
}

// CustomerDeduct removes money from a wallet, refusing to overdraw it.
func CustomerDeduct(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return walletHandler(svc, logg, func(svc customers.Service, r *http.Request, req customers.WalletRequest) (*customers.WalletDTO, error) {
		return svc.Deduct(r.Context(), req.Username, req.Amount)
	})
}

type walletOp func(customers.Service, *http.Request, customers.WalletRequest) (*customers.WalletDTO, error)

func walletHandler(svc customers.Service, logg *logger.Logger, op walletOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, customersUnavailable())
			return
		}

		var body customers.WalletRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := middleware.RequireSelfOrAdmin(r, body.Username); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wallet, err := op(svc, r, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wallet)
	}
}
