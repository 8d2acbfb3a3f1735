package reviews

import (
	"time"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// SubmitRequest is a new review from a customer.
type SubmitRequest struct {
	Username string `json:"username" validate:"required,email"`
	ItemID   uint   `json:"item_id" validate:"required"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment,omitempty" validate:"max=2000"`
}

// UpdateRequest edits the rating or comment of an existing review.
type UpdateRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// ModerateRequest carries the moderation outcome.
type ModerateRequest struct {
	Status string `json:"status" validate:"required"`
}

// Actor is the authenticated caller acting on a review.
type Actor struct {
	CustomerID uint
	IsAdmin    bool
}

type ReviewDTO struct {
	ID         uint               `json:"id"`
	CustomerID uint               `json:"customer_id"`
	ItemID     uint               `json:"item_id"`
	Rating     int                `json:"rating"`
	Comment    string             `json:"comment"`
	Status     enums.ReviewStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func fromModel(r *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		ItemID:     r.InventoryID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func fromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out
}
