package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// UploadBodyLimit applies echo's body limit but replaces its 413 with tooLarge,
// whether the limit trips on Content-Length or while the handler reads the body.
func UploadBodyLimit(limit string, tooLarge error) echo.MiddlewareFunc {
	bodyLimit := echomiddleware.BodyLimit(limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := bodyLimit(next)
		return func(c echo.Context) error {
			err := limited(c)

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
				return tooLarge
			}
			return err
		}
	}
}
