package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// Recover turns handler panics into 500 responses. The response is only
// written when the handler has not already committed one (a panic mid-write
// on a hijacked stream has nothing left to answer).
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					req := c.Request()
					log.Printf("PANIC %s %s: %v\n%s", req.Method, req.URL.Path, err, debug.Stack())
					if !c.Response().Committed {
						_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
							"status":  http.StatusInternalServerError,
							"message": "Internal Server Error",
						})
					}
				}
			}()
			return next(c)
		}
	}
}
