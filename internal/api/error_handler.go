package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identikit/identity-server/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders every
// error echo surfaces outside a handler (bind failures, unknown routes,
// middleware rejections) in the same envelope the handlers produce, and
// logs unexpected errors without leaking their detail to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, domain.Failure[any](fmt.Sprintf("%v", he.Message), he.Code))
			return
		}

		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")

		_ = c.JSON(http.StatusInternalServerError,
			domain.Failure[any]("An unexpected error occurred.", http.StatusInternalServerError))
	}
}
