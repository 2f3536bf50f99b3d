package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/social-api/internal/api/middleware"
)

// ctxUserID returns the user ID injected by the Auth middleware. An empty
// value means the route was mounted without it.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
