package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/identikit/identity-server/internal/core/domain"
)

// respond renders the result envelope with its deterministic HTTP status.
// An explicit status code on the result wins; otherwise the failure message
// is matched by substring: "already exists" → 409, "not found" → 404,
// "unauthorized" → 401, "unexpected" → 500, anything else → 400.
func respond[T any](c echo.Context, r domain.Result[T]) error {
	return c.JSON(statusFor(r.IsSuccess, r.Error, r.StatusCode), r)
}

func statusFor(isSuccess bool, errMsg string, override int) int {
	if isSuccess {
		return http.StatusOK
	}
	if override != 0 {
		return override
	}

	msg := strings.ToLower(errMsg)
	switch {
	case strings.Contains(msg, "already exists"):
		return http.StatusConflict
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "unauthorized"):
		return http.StatusUnauthorized
	case strings.Contains(msg, "unexpected"):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
