package v1

import (
	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/Egor213/LogVault/internal/service"
	"github.com/labstack/echo/v4"
)

// ConfigureRouter wires the API surface: admin app-registry endpoints
// guarded by the admin key, app-scoped store endpoints guarded by
// API-key auth. Unknown routes return the NOT_FOUND envelope.
func ConfigureRouter(handler *echo.Echo, services *service.Services, hub HubDispatcher, adminKey string) {
	storeCtl := NewStoreController(hub)
	appCtl := NewAppController(services.App)

	handler.RouteNotFound("/*", func(c echo.Context) error {
		return writeError(c, protocol.CodeNotFound, "unknown route")
	})

	admin := handler.Group("/api/v1/admin", AdminAuth(adminKey))
	admin.POST("/apps", appCtl.Create)
	admin.GET("/apps", appCtl.List)
	admin.DELETE("/apps/:name", appCtl.Delete)

	api := handler.Group("/api/v1", AppAuth(services.App))
	api.POST("/log", storeCtl.AppendOne)
	api.POST("/logs", storeCtl.AppendBatch)
	api.GET("/logs", storeCtl.Query)
	api.POST("/stats", storeCtl.Increment)
	api.GET("/stats", storeCtl.StatsRange)
	api.POST("/prune", storeCtl.Prune)
	api.POST("/health-urls", storeCtl.SetHealthURLs)
	api.GET("/health-urls", storeCtl.GetHealthURLs)
	api.GET("/health", storeCtl.HealthHistory)
}
