package v1

import (
	"errors"

	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/Egor213/LogVault/internal/service"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type AppController struct {
	apps service.App
}

func NewAppController(apps service.App) *AppController {
	return &AppController{apps: apps}
}

type createAppRequest struct {
	Name string `json:"name"`
}

func (h *AppController) Create(c echo.Context) error {
	var req createAppRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, protocol.CodeBadRequest, "malformed request body")
	}

	app, err := h.apps.Create(c.Request().Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyAppName):
			return writeError(c, protocol.CodeValidationError, "name is required")
		case errors.Is(err, service.ErrAppAlreadyExists):
			return writeError(c, protocol.CodeBadRequest, "app already exists")
		default:
			log.WithField("error", err).Error("Failed to create app")
			return writeError(c, protocol.CodeInternalError, "failed to create app")
		}
	}

	return writeEnvelope(c, protocol.Success(app))
}

func (h *AppController) List(c echo.Context) error {
	apps, err := h.apps.List(c.Request().Context())
	if err != nil {
		log.WithField("error", err).Error("Failed to list apps")
		return writeError(c, protocol.CodeInternalError, "failed to list apps")
	}

	return writeEnvelope(c, protocol.Success(apps))
}

func (h *AppController) Delete(c echo.Context) error {
	name := c.Param("name")

	err := h.apps.Delete(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrAppNotFound) {
			return writeError(c, protocol.CodeNotFound, "app not found")
		}
		log.WithField("error", err).Error("Failed to delete app")
		return writeError(c, protocol.CodeInternalError, "failed to delete app")
	}

	return writeEnvelope(c, protocol.Success(map[string]string{"deleted": name}))
}
