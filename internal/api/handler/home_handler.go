package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Home handles GET /.
//
// @Summary      Home
// @Tags         home
// @Produce      json
// @Success      200  {object}  messageEnvelope
// @Router       / [get]
func Home(c echo.Context) error {
	return c.JSON(http.StatusOK, messageEnvelope{Message: "Here is the home for testing purpose", Success: true})
}
