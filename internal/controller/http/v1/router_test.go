package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v1 "github.com/Egor213/LogVault/internal/controller/http/v1"
	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/Egor213/LogVault/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdminKey = "admin-secret"
	testAPIKey   = "lv_test"
)

type fakeApps struct{}

func (f *fakeApps) Create(_ context.Context, name string) (domain.App, error) {
	if name == "" {
		return domain.App{}, service.ErrEmptyAppName
	}
	return domain.App{ID: "id-1", Name: name, APIKey: testAPIKey}, nil
}

func (f *fakeApps) List(context.Context) ([]domain.App, error) {
	return []domain.App{{ID: "id-1", Name: "orders"}}, nil
}

func (f *fakeApps) Delete(_ context.Context, name string) error {
	if name != "orders" {
		return service.ErrAppNotFound
	}
	return nil
}

func (f *fakeApps) Authenticate(_ context.Context, apiKey string) (domain.App, error) {
	if apiKey != testAPIKey {
		return domain.App{}, service.ErrInvalidAPIKey
	}
	return domain.App{ID: "id-1", Name: "orders"}, nil
}

type fakeHub struct {
	lastAppID string
	lastReq   protocol.Request
	resp      protocol.Response
}

func (f *fakeHub) Dispatch(_ context.Context, appID string, req protocol.Request) protocol.Response {
	f.lastAppID = appID
	f.lastReq = req
	return f.resp
}

func newTestRouter(hub *fakeHub) *echo.Echo {
	handler := echo.New()
	services := &service.Services{App: &fakeApps{}}
	v1.ConfigureRouter(handler, services, hub, testAdminKey)
	return handler
}

func do(handler *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Auth(t *testing.T) {
	hub := &fakeHub{resp: protocol.Success(nil)}
	handler := newTestRouter(hub)

	t.Run("missing api key", func(t *testing.T) {
		rec := do(handler, http.MethodGet, "/api/v1/logs", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong api key", func(t *testing.T) {
		rec := do(handler, http.MethodGet, "/api/v1/logs", "", map[string]string{v1.HeaderAPIKey: "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing admin key", func(t *testing.T) {
		rec := do(handler, http.MethodGet, "/api/v1/admin/apps", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong admin key", func(t *testing.T) {
		rec := do(handler, http.MethodGet, "/api/v1/admin/apps", "", map[string]string{v1.HeaderAdminKey: "nope"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := do(handler, http.MethodGet, "/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_AppendDispatch(t *testing.T) {
	hub := &fakeHub{resp: protocol.Success(domain.LogEntry{ID: "e1"})}
	handler := newTestRouter(hub)

	body := `{"level":"INFO","message":"hello","context":{"a":1},"request_id":"req-1"}`
	rec := do(handler, http.MethodPost, "/api/v1/log", body, map[string]string{v1.HeaderAPIKey: testAPIKey})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id-1", hub.lastAppID)
	assert.Equal(t, protocol.MethodPost, hub.lastReq.Method)
	assert.Equal(t, protocol.PathLog, hub.lastReq.Path)

	in := hub.lastReq.Body.(protocol.AppendInput)
	assert.Equal(t, "INFO", in.Level)
	assert.Equal(t, "hello", in.Message)
	assert.Equal(t, "req-1", in.RequestID)
	assert.Equal(t, map[string]any{"a": float64(1)}, in.Context)

	var envelope protocol.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.OK)
}

func TestRouter_QueryParams(t *testing.T) {
	hub := &fakeHub{resp: protocol.Success([]domain.LogEntry{})}
	handler := newTestRouter(hub)

	rec := do(handler, http.MethodGet,
		"/api/v1/logs?level=ERROR&request_id=r1&limit=10&offset=5&since=2025-01-01T00:00:00Z",
		"", map[string]string{v1.HeaderAPIKey: testAPIKey})

	require.Equal(t, http.StatusOK, rec.Code)
	in := hub.lastReq.Body.(protocol.QueryInput)
	assert.Equal(t, "ERROR", in.Level)
	assert.Equal(t, "r1", in.RequestID)
	assert.Equal(t, 10, in.Limit)
	assert.Equal(t, 5, in.Offset)
	assert.Equal(t, 2025, in.Since.Year())
	assert.True(t, in.Until.IsZero())
}

func TestRouter_BadQueryParams(t *testing.T) {
	hub := &fakeHub{resp: protocol.Success(nil)}
	handler := newTestRouter(hub)

	for _, target := range []string{
		"/api/v1/logs?limit=abc",
		"/api/v1/logs?since=yesterday",
		"/api/v1/stats?days=many",
	} {
		rec := do(handler, http.MethodGet, target, "", map[string]string{v1.HeaderAPIKey: testAPIKey})
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestRouter_ErrorEnvelopeMapping(t *testing.T) {
	hub := &fakeHub{resp: protocol.Fail(protocol.CodeValidationError, "level must be one of DEBUG, INFO, WARN, ERROR")}
	handler := newTestRouter(hub)

	body := `{"level":"NOPE","message":"x"}`
	rec := do(handler, http.MethodPost, "/api/v1/log", body, map[string]string{v1.HeaderAPIKey: testAPIKey})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var envelope protocol.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.OK)
	assert.Equal(t, protocol.CodeValidationError, envelope.Error.Code)
}

func TestRouter_AdminApps(t *testing.T) {
	hub := &fakeHub{resp: protocol.Success(nil)}
	handler := newTestRouter(hub)
	admin := map[string]string{v1.HeaderAdminKey: testAdminKey}

	rec := do(handler, http.MethodPost, "/api/v1/admin/apps", `{"name":"orders"}`, admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(handler, http.MethodPost, "/api/v1/admin/apps", `{"name":""}`, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(handler, http.MethodGet, "/api/v1/admin/apps", "", admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(handler, http.MethodDelete, "/api/v1/admin/apps/ghost", "", admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
