package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/socialnet/social-api/internal/api/handler"
	"github.com/socialnet/social-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to status codes by kind.
//   - Logs internal errors with the request context.
//   - Renders the envelope {"message", "success": false, "error"}.
//
// With redact set, the raw cause of an internal error is never sent.
func NewHTTPErrorHandler(log zerolog.Logger, redact bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c, redact)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, redact bool) (int, handler.ErrorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound, handler.ErrorResponse{Message: domain.MessageOf(err)}
	case domain.KindConflict:
		return http.StatusConflict, handler.ErrorResponse{Message: domain.MessageOf(err)}
	case domain.KindInvalid:
		return http.StatusBadRequest, handler.ErrorResponse{Message: domain.MessageOf(err)}
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, handler.ErrorResponse{Message: domain.MessageOf(err)}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	resp := handler.ErrorResponse{Message: "internal server error"}
	if !redact {
		resp.Error = err.Error()
	}
	return http.StatusInternalServerError, resp
}
