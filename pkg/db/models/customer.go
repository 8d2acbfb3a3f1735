package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// Customer is a registered shopper and the owner of a wallet.
type Customer struct {
	ID            uint                 `gorm:"column:id;primaryKey;autoIncrement"`
	Username      string               `gorm:"column:username;type:varchar(255);not null;uniqueIndex"`
	FullName      string               `gorm:"column:full_name;type:varchar(255);not null"`
	PasswordHash  string               `gorm:"column:password_hash;not null"`
	Age           *int                 `gorm:"column:age"`
	Address       *string              `gorm:"column:address"`
	Gender        *enums.Gender        `gorm:"column:gender;type:varchar(16)"`
	MaritalStatus *enums.MaritalStatus `gorm:"column:marital_status;type:varchar(16)"`
	WalletBalance decimal.Decimal      `gorm:"column:wallet_balance;type:numeric(12,2);not null;default:0"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
