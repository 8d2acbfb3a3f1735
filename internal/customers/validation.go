package customers

import (
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

var fieldValidator = validator.New()

// NormalizeUsername trims and lowercases an identity before lookup or storage.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	if username == "" {
		return pkgerrors.Validation("username", "is required")
	}
	if err := fieldValidator.Var(username, "email,max=255"); err != nil {
		return pkgerrors.Validation("username", "must be a valid email")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return pkgerrors.Validation("password", "is required")
	}
	if len(password) < 8 {
		return pkgerrors.Validation("password", "must be at least 8 characters")
	}
	if len(password) > 128 {
		return pkgerrors.Validation("password", "must be at most 128 characters")
	}
	return nil
}

func validateProfile(req UpdateRequest) error {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return pkgerrors.Validation("full_name", "must not be empty")
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		return pkgerrors.Validation("age", "must be between 0 and 150")
	}
	if req.Gender != nil && !req.Gender.IsValid() {
		return pkgerrors.Validation("gender", "must be one of Male, Female, Other")
	}
	if req.MaritalStatus != nil && !req.MaritalStatus.IsValid() {
		return pkgerrors.Validation("marital_status", "must be one of Single, Married, Divorced, Widowed")
	}
	return nil
}

func profileColumns(req UpdateRequest) map[string]any {
	fields := map[string]any{}
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.MaritalStatus != nil {
		fields["marital_status"] = *req.MaritalStatus
	}
	return fields
}
