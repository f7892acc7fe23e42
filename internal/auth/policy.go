package auth

import (
	"slices"

	"authservice/internal/errors"
	"authservice/internal/model"
)

// Authorize decides whether an identity with the given role may use a route
// that declares the required roles. No required roles means no restriction.
func Authorize(required []model.Role, role model.Role) error {
	if len(required) == 0 {
		return nil
	}
	if role == "" {
		return errors.ErrRoleMissing
	}
	if !slices.Contains(required, role) {
		return errors.ErrInsufficientRole
	}
	return nil
}
