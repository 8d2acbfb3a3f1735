package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/internal/customers"
	"github.com/storefront-labs/storefront-backend/internal/inventory"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

const (
	minRating = 1
	maxRating = 5

	reviewNotFoundMessage   = "review not found"
	noReviewsMessage        = "no reviews found for this product"
	customerNotFoundMessage = "customer not found"
	itemNotFoundMessage     = "item not found"
)

// Service exposes review submission, editing and moderation.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*ReviewDTO, error)
	Update(ctx context.Context, actor Actor, id uint, req UpdateRequest) (*ReviewDTO, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Moderate(ctx context.Context, id uint, status string) (*ReviewDTO, error)
	ListForItem(ctx context.Context, itemID uint) ([]ReviewDTO, error)
	ListForCustomer(ctx context.Context, username string) ([]ReviewDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the repositories a review service reads and writes.
type ServiceParams struct {
	Reviews   Repository
	Customers customers.Repository
	Inventory inventory.Repository
	Tx        txRunner
}

type service struct {
	reviews   Repository
	customers customers.Repository
	inventory inventory.Repository
	tx        txRunner
}

func NewService(params ServiceParams) (Service, error) {
	if params.Reviews == nil {
		return nil, fmt.Errorf("reviews repository is required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{
		reviews:   params.Reviews,
		customers: params.Customers,
		inventory: params.Inventory,
		tx:        params.Tx,
	}, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*ReviewDTO, error) {
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	customer, err := s.customer(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if req.ItemID == 0 {
		return nil, pkgerrors.Validation("item_id", "must be a positive integer")
	}
	if _, err := s.inventory.FindByID(ctx, req.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, itemNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	review := &models.Review{
		CustomerID:  customer.ID,
		InventoryID: req.ItemID,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		Status:      enums.ReviewStatusPending,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	out := fromModel(review)
	return &out, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uint, req UpdateRequest) (*ReviewDTO, error) {
	fields := map[string]any{}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		fields["rating"] = *req.Rating
	}
	if req.Comment != nil {
		fields["comment"] = strings.TrimSpace(*req.Comment)
	}

	var updated *models.Review
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.reviews.WithTx(tx)
		review, err := s.ownedReview(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, review.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update review")
		}
		updated, err = repo.FindByID(ctx, review.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := fromModel(updated)
	return &out, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.reviews.WithTx(tx)
		review, err := s.ownedReview(ctx, repo, actor, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, review.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
		}
		return nil
	})
}

// Moderate resolves a Pending review. Approved and Rejected are terminal.
func (s *service) Moderate(ctx context.Context, id uint, status string) (*ReviewDTO, error) {
	target := enums.ReviewStatus(status)
	if !target.IsModerationOutcome() {
		return nil, pkgerrors.Validation("status", "must be Approved or Rejected")
	}

	var moderated *models.Review
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.reviews.WithTx(tx)
		review, err := findReview(ctx, repo, id)
		if err != nil {
			return err
		}
		if review.Status.IsTerminal() {
			return stateConflict(review.Status)
		}
		ok, err := repo.SetStatusFrom(ctx, review.ID, enums.ReviewStatusPending, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "moderate review")
		}
		if !ok {
			return stateConflict(review.Status)
		}
		moderated, err = repo.FindByID(ctx, review.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := fromModel(moderated)
	return &out, nil
}

func (s *service) ListForItem(ctx context.Context, itemID uint) ([]ReviewDTO, error) {
	if itemID == 0 {
		return nil, pkgerrors.Validation("id", "must be a positive integer")
	}
	rows, err := s.reviews.ListByInventory(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, noReviewsMessage)
	}
	return fromModels(rows), nil
}

func (s *service) ListForCustomer(ctx context.Context, username string) ([]ReviewDTO, error) {
	customer, err := s.customer(ctx, username)
	if err != nil {
		return nil, err
	}
	rows, err := s.reviews.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return fromModels(rows), nil
}

func (s *service) customer(ctx context.Context, username string) (*models.Customer, error) {
	username = customers.NormalizeUsername(username)
	if username == "" {
		return nil, pkgerrors.Validation("username", "is required")
	}
	customer, err := s.customers.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, customerNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) ownedReview(ctx context.Context, repo Repository, actor Actor, id uint) (*models.Review, error) {
	review, err := findReview(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && review.CustomerID != actor.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "review belongs to another customer")
	}
	return review, nil
}

func findReview(ctx context.Context, repo Repository, id uint) (*models.Review, error) {
	if id == 0 {
		return nil, pkgerrors.Validation("id", "must be a positive integer")
	}
	review, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, reviewNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return review, nil
}

func validateRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return pkgerrors.Validation("rating", "must be between 1 and 5")
	}
	return nil
}

func stateConflict(current enums.ReviewStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "review already moderated").WithDetails(map[string]string{
		"status": string(current),
	})
}
