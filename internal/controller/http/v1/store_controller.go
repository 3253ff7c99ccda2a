package v1

import (
	"context"
	"strconv"
	"time"

	logginghelper "github.com/Egor213/LogVault/internal/controller/common/logging"
	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/labstack/echo/v4"
)

type HubDispatcher interface {
	Dispatch(ctx context.Context, appID string, req protocol.Request) protocol.Response
}

// StoreController translates HTTP requests into coordinator dispatches
// for the authenticated app.
type StoreController struct {
	hub HubDispatcher
}

func NewStoreController(hub HubDispatcher) *StoreController {
	return &StoreController{hub: hub}
}

func (h *StoreController) app(c echo.Context) domain.App {
	return c.Get(appContextKey).(domain.App)
}

func (h *StoreController) dispatch(c echo.Context, req protocol.Request) error {
	app := h.app(c)
	resp := h.hub.Dispatch(c.Request().Context(), app.ID, req)
	if !resp.OK {
		logginghelper.LogError(app.Name, resp.Error)
	}
	return writeEnvelope(c, resp)
}

func (h *StoreController) AppendOne(c echo.Context) error {
	var in protocol.AppendInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, protocol.CodeBadRequest, "malformed request body")
	}

	logginghelper.LogReceived(h.app(c).Name, in.Level, in.Message)

	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodPost,
		Path:   protocol.PathLog,
		Body:   in,
	})
}

func (h *StoreController) AppendBatch(c echo.Context) error {
	var in protocol.AppendBatchInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, protocol.CodeBadRequest, "malformed request body")
	}

	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodPost,
		Path:   protocol.PathLogs,
		Body:   in,
	})
}

func (h *StoreController) Query(c echo.Context) error {
	in := protocol.QueryInput{
		Level:     c.QueryParam("level"),
		RequestID: c.QueryParam("request_id"),
	}

	var err error
	if in.Since, err = parseTimeParam(c, "since"); err != nil {
		return writeError(c, protocol.CodeBadRequest, "since must be RFC3339")
	}
	if in.Until, err = parseTimeParam(c, "until"); err != nil {
		return writeError(c, protocol.CodeBadRequest, "until must be RFC3339")
	}
	if in.Limit, err = parseIntParam(c, "limit"); err != nil {
		return writeError(c, protocol.CodeBadRequest, "limit must be an integer")
	}
	if in.Offset, err = parseIntParam(c, "offset"); err != nil {
		return writeError(c, protocol.CodeBadRequest, "offset must be an integer")
	}

	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodGet,
		Path:   protocol.PathLogs,
		Body:   in,
	})
}

func (h *StoreController) Increment(c echo.Context) error {
	var in protocol.IncrementInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, protocol.CodeBadRequest, "malformed request body")
	}

	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodPost,
		Path:   protocol.PathStats,
		Body:   in,
	})
}

func (h *StoreController) StatsRange(c echo.Context) error {
	days, err := parseIntParam(c, "days")
	if err != nil {
		return writeError(c, protocol.CodeBadRequest, "days must be an integer")
	}

	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodGet,
		Path:   protocol.PathStats,
		Body:   protocol.RangeInput{Days: days},
	})
}

func (h *StoreController) Prune(c echo.Context) error {
	var in protocol.PruneInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, protocol.CodeBadRequest, "malformed request body")
	}

	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodPost,
		Path:   protocol.PathPrune,
		Body:   in,
	})
}

func (h *StoreController) SetHealthURLs(c echo.Context) error {
	var in protocol.SetURLsInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, protocol.CodeBadRequest, "malformed request body")
	}

	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodPost,
		Path:   protocol.PathHealthURLs,
		Body:   in,
	})
}

func (h *StoreController) GetHealthURLs(c echo.Context) error {
	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodGet,
		Path:   protocol.PathHealthURLs,
	})
}

func (h *StoreController) HealthHistory(c echo.Context) error {
	var in protocol.HistoryInput

	var err error
	if in.Since, err = parseTimeParam(c, "since"); err != nil {
		return writeError(c, protocol.CodeBadRequest, "since must be RFC3339")
	}
	if in.Until, err = parseTimeParam(c, "until"); err != nil {
		return writeError(c, protocol.CodeBadRequest, "until must be RFC3339")
	}
	if in.Limit, err = parseIntParam(c, "limit"); err != nil {
		return writeError(c, protocol.CodeBadRequest, "limit must be an integer")
	}

	return h.dispatch(c, protocol.Request{
		Method: protocol.MethodGet,
		Path:   protocol.PathHealth,
		Body:   in,
	})
}

func parseTimeParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseIntParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
