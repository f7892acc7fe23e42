package middleware

import (
	stderrors "errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/service"
)

// IdentityKey is the echo context key holding the authenticated *model.SafeUser.
const IdentityKey = "identity"

// resolveError marks a failure to look up the token subject, as opposed to a bad token.
type resolveError struct {
	err error
}

func (e *resolveError) Error() string { return e.err.Error() }
func (e *resolveError) Unwrap() error { return e.err }

// JWT returns middleware that accepts "Authorization: Bearer <token>" and attaches
// the user the token resolves to. Every token problem yields the same 401.
func JWT(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: IdentityKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				if stderrors.Is(err, errors.ErrInvalidToken) {
					return nil, err
				}
				return nil, &resolveError{err: err}
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var resolveErr *resolveError
			if stderrors.As(err, &resolveErr) {
				return resolveErr.err
			}
			return errors.ErrInvalidToken
		},
	})
}

// Identity returns the user attached by JWT, if any.
func Identity(c echo.Context) (*model.SafeUser, bool) {
	user, ok := c.Get(IdentityKey).(*model.SafeUser)
	return user, ok && user != nil
}
