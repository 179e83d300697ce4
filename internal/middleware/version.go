package middleware

import (
	"github.com/labstack/echo/v4"
)

// HeaderAPIVersion reports the running API version on every response
const HeaderAPIVersion = "X-API-Version"

// APIVersion stamps the response with the service version before the handler runs,
// so error responses carry it too.
func APIVersion(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(HeaderAPIVersion, version)
			return next(c)
		}
	}
}
