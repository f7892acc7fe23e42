package router

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"authservice/internal/errors"
)

// NewHTTPErrorHandler renders every error as errors.ErrorResponse.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *errors.HTTPError
		var echoErr *echo.HTTPError
		if stderrors.As(err, &echoErr) {
			// Router and binder errors (404, 405, malformed body).
			httpErr = errors.NewHTTPError(echoErr.Code, fmt.Sprint(echoErr.Message), statusCode(echoErr.Code))
		} else {
			httpErr = errors.MapErrorToHTTP(err)
		}

		if httpErr.StatusCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.StatusCode)
		} else {
			err = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if err != nil {
			logger.Warn("write error response", zap.Error(err))
		}
	}
}

// statusCode turns "Method Not Allowed" into "METHOD_NOT_ALLOWED".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
