package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/config"
	"github.com/storefront-labs/storefront-backend/pkg/db"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/money"
	"github.com/storefront-labs/storefront-backend/pkg/security"
)

const (
	customerNotFoundMessage = "customer not found"
	usernameTakenMessage    = "username already taken"
	insufficientFundsMsg    = "insufficient funds"
)

// Service defines the customer account and wallet operations.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*CustomerDTO, error)
	Get(ctx context.Context, username string) (*CustomerDTO, error)
	List(ctx context.Context) ([]SummaryDTO, error)
	Update(ctx context.Context, username string, req UpdateRequest) (*CustomerDTO, error)
	Delete(ctx context.Context, username string) error
	Charge(ctx context.Context, username string, amount decimal.Decimal) (*WalletDTO, error)
	Deduct(ctx context.Context, username string, amount decimal.Decimal) (*WalletDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies required to build a customer service.
type ServiceParams struct {
	Repo           Repository
	Tx             txRunner
	PasswordConfig config.PasswordConfig
}

type service struct {
	repo        Repository
	tx          txRunner
	passwordCfg config.PasswordConfig
}

// NewService constructs a customer service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{
		repo:        params.Repo,
		tx:          params.Tx,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*CustomerDTO, error) {
	username := NormalizeUsername(req.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, pkgerrors.Validation("full_name", "is required")
	}
	if err := validateProfile(UpdateRequest{
		Age:           req.Age,
		Address:       req.Address,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,
	}); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	customer := &models.Customer{
		Username:      username,
		FullName:      fullName,
		PasswordHash:  passwordHash,
		Age:           req.Age,
		Address:       req.Address,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,
		WalletBalance: decimal.Zero,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, usernameTakenMessage)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		if err := repo.Create(ctx, customer); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, usernameTakenMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(customer), nil
}

func (s *service) Get(ctx context.Context, username string) (*CustomerDTO, error) {
	customer, err := s.find(ctx, s.repo, username)
	if err != nil {
		return nil, err
	}
	return FromModel(customer), nil
}

func (s *service) List(ctx context.Context) ([]SummaryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	out := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, summaryFromModel(row))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, username string, req UpdateRequest) (*CustomerDTO, error) {
	if err := validateProfile(req); err != nil {
		return nil, err
	}

	var updated *models.Customer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := s.find(ctx, repo, username)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, customer.ID, profileColumns(req)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
		}
		updated, err = repo.FindByID(ctx, customer.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload customer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, username string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := s.find(ctx, repo, username)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, customer.ID); err != nil {
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "customer has sales or reviews on record")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete customer")
		}
		return nil
	})
}

func (s *service) Charge(ctx context.Context, username string, amount decimal.Decimal) (*WalletDTO, error) {
	if err := money.ValidatePositive("amount", amount); err != nil {
		return nil, err
	}

	var wallet *WalletDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := s.find(ctx, repo, username)
		if err != nil {
			return err
		}
		if !money.FitsColumn(customer.WalletBalance.Add(amount)) {
			return pkgerrors.Validation("amount", "would push wallet balance above "+money.Max.StringFixed(money.Scale))
		}
		if err := repo.Credit(ctx, customer.ID, amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit wallet")
		}
		wallet, err = s.reloadWallet(ctx, repo, customer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *service) Deduct(ctx context.Context, username string, amount decimal.Decimal) (*WalletDTO, error) {
	if err := money.ValidatePositive("amount", amount); err != nil {
		return nil, err
	}

	var wallet *WalletDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := s.find(ctx, repo, username)
		if err != nil {
			return err
		}
		if customer.WalletBalance.LessThan(amount) {
			return insufficientFunds(customer.WalletBalance, amount)
		}
		ok, err := repo.Debit(ctx, customer.ID, amount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debit wallet")
		}
		if !ok {
			return insufficientFunds(customer.WalletBalance, amount)
		}
		wallet, err = s.reloadWallet(ctx, repo, customer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *service) find(ctx context.Context, repo Repository, username string) (*models.Customer, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, pkgerrors.Validation("username", "is required")
	}
	customer, err := repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, customerNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) reloadWallet(ctx context.Context, repo Repository, id uint) (*WalletDTO, error) {
	customer, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload wallet")
	}
	return walletFromModel(customer), nil
}

func insufficientFunds(balance, requested decimal.Decimal) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientFunds, insufficientFundsMsg).WithDetails(map[string]string{
		"wallet_balance": balance.StringFixed(money.Scale),
		"requested":      requested.StringFixed(money.Scale),
	})
}
