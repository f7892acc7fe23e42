package middleware

import (
	"github.com/labstack/echo/v4"

	"authservice/internal/auth"
	"authservice/internal/errors"
	"authservice/internal/model"
)

// RequireRoles admits the request only when the identity attached by JWT holds
// one of roles. It must run after JWT.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	required := append([]model.Role(nil), roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := Identity(c)
			if !ok {
				return errors.ErrInvalidToken
			}
			if err := auth.Authorize(required, identity.Role); err != nil {
				return err
			}
			return next(c)
		}
	}
}
