package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs HTTP requests. Paths in skip are not logged; the
// Prometheus scrape endpoint fires every few seconds and would drown real
// traffic.
func RequestLogging(skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			if _, ok := skipped[req.URL.Path]; ok {
				return err
			}

			latency := time.Since(start)
			log.Printf("[%s] %s %s - %d %dB (%s)",
				req.Method,
				req.RequestURI,
				req.RemoteAddr,
				res.Status,
				res.Size,
				latency,
			)

			return err
		}
	}
}
