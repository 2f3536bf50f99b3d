package metrics

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpOnce sync.Once
	httpMW   echo.MiddlewareFunc
)

// HTTPMiddleware records request count, latency and sizes per route on the
// default registry. Every router built in the process shares one set of
// collectors.
func HTTPMiddleware() echo.MiddlewareFunc {
	httpOnce.Do(func() { httpMW = NewHTTPMiddleware(prometheus.DefaultRegisterer) })
	return httpMW
}

// NewHTTPMiddleware registers the echoprometheus collectors on reg, as
// social_requests_total and friends.
//
// Errors are handed to the HTTP error handler before echoprometheus reads the
// status, so a domain error that maps to 404 is counted as 404 and not 500.
func NewHTTPMiddleware(reg prometheus.Registerer) echo.MiddlewareFunc {
	observe := echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  namespace,
		Registerer: reg,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return observe(func(c echo.Context) error {
			if err := next(c); err != nil && !c.Response().Committed {
				c.Error(err)
			}
			return nil
		})
	}
}

// Handler exposes the default registry.
func Handler() echo.HandlerFunc {
	return echoprometheus.NewHandler()
}
