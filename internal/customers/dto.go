package customers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// RegisterRequest carries the payload for opening a customer account.
type RegisterRequest struct {
	Username      string               `json:"username" validate:"required,email,max=255"`
	Password      string               `json:"password" validate:"required,min=8,max=128"`
	FullName      string               `json:"full_name" validate:"required,max=255"`
	Age           *int                 `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Address       *string              `json:"address,omitempty" validate:"omitempty,max=512"`
	Gender        *enums.Gender        `json:"gender,omitempty"`
	MaritalStatus *enums.MaritalStatus `json:"marital_status,omitempty"`
}

// UpdateRequest lists the profile fields a customer may change. Nil fields are left untouched.
type UpdateRequest struct {
	FullName      *string              `json:"full_name,omitempty" validate:"omitempty,min=1,max=255"`
	Age           *int                 `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Address       *string              `json:"address,omitempty" validate:"omitempty,max=512"`
	Gender        *enums.Gender        `json:"gender,omitempty"`
	MaritalStatus *enums.MaritalStatus `json:"marital_status,omitempty"`
}

// WalletRequest moves money in or out of a wallet.
type WalletRequest struct {
	Username string          `json:"username" validate:"required,email"`
	Amount   decimal.Decimal `json:"amount" validate:"amount"`
}

// CustomerDTO is the full profile shape; it never carries the credential.
type CustomerDTO struct {
	ID            uint                 `json:"id"`
	Username      string               `json:"username"`
	FullName      string               `json:"full_name"`
	Age           *int                 `json:"age,omitempty"`
	Address       *string              `json:"address,omitempty"`
	Gender        *enums.Gender        `json:"gender,omitempty"`
	MaritalStatus *enums.MaritalStatus `json:"marital_status,omitempty"`
	WalletBalance decimal.Decimal      `json:"wallet_balance"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// SummaryDTO is the list shape.
type SummaryDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// WalletDTO reports a balance after a wallet operation.
type WalletDTO struct {
	Username      string          `json:"username"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:            c.ID,
		Username:      c.Username,
		FullName:      c.FullName,
		Age:           c.Age,
		Address:       c.Address,
		Gender:        c.Gender,
		MaritalStatus: c.MaritalStatus,
		WalletBalance: c.WalletBalance,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func summaryFromModel(c models.Customer) SummaryDTO {
	return SummaryDTO{ID: c.ID, Username: c.Username, FullName: c.FullName}
}

func walletFromModel(c *models.Customer) *WalletDTO {
	return &WalletDTO{Username: c.Username, WalletBalance: c.WalletBalance}
}
