package v1

import (
	"crypto/subtle"

	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/Egor213/LogVault/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	HeaderAPIKey   = "X-API-Key"
	HeaderAdminKey = "X-Admin-Key"

	appContextKey = "app"
)

// AppAuth resolves the X-API-Key header to the owning app and stores
// it on the request context.
func AppAuth(apps service.App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := c.Request().Header.Get(HeaderAPIKey)
			if apiKey == "" {
				return writeError(c, protocol.CodeUnauthorized, "missing api key")
			}

			app, err := apps.Authenticate(c.Request().Context(), apiKey)
			if err != nil {
				return writeError(c, protocol.CodeUnauthorized, "invalid api key")
			}

			c.Set(appContextKey, app)
			return next(c)
		}
	}
}

// AdminAuth guards the app-registry endpoints with the configured
// admin key.
func AdminAuth(adminKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(HeaderAdminKey)
			if got == "" {
				return writeError(c, protocol.CodeUnauthorized, "missing admin key")
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(adminKey)) != 1 {
				return writeError(c, protocol.CodeForbidden, "admin key rejected")
			}
			return next(c)
		}
	}
}
