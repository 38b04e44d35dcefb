package handler

import (
	"github.com/go-playground/validator/v10"

	"planetapp/internal/domain"
)

// UserPayload is the request body for POST /users and PUT /users/{userid}.
// Pointer fields distinguish an absent key from a present empty value; all
// four keys are required and groups must be unique.
type UserPayload struct {
	UserID    *string   `json:"userid" validate:"required"`
	FirstName *string   `json:"first_name" validate:"required"`
	LastName  *string   `json:"last_name" validate:"required"`
	Groups    *[]string `json:"groups" validate:"required,unique"`
}

// User converts a validated payload into the domain type.
func (p UserPayload) User() domain.User {
	return domain.User{
		UserID:    *p.UserID,
		FirstName: *p.FirstName,
		LastName:  *p.LastName,
		Groups:    *p.Groups,
	}
}

// GroupPayload is the request body for POST /groups.
type GroupPayload struct {
	Name *string `json:"name" validate:"required"`
}

// newValidator builds the request validator shared by the handlers.
func newValidator() *validator.Validate {
	return validator.New()
}
