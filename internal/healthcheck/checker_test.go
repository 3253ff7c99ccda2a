package healthcheck_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Egor213/LogVault/internal/healthcheck"
	repository_mock "github.com/Egor213/LogVault/internal/mocks/repository"
	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	requests map[string][]protocol.Request
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{requests: make(map[string][]protocol.Request)}
}

func (d *recordingDispatcher) Dispatch(_ context.Context, appID string, req protocol.Request) protocol.Response {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests[appID] = append(d.requests[appID], req)
	return protocol.Success(nil)
}

func TestChecker_RunOnce(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	healthRepo := repository_mock.NewMockHealth(ctrl)
	healthRepo.EXPECT().AppsWithURLs(gomock.Any()).Return(map[string][]string{
		"app-1": {healthy.URL, broken.URL},
	}, nil)

	dispatcher := newRecordingDispatcher()
	checker := healthcheck.NewChecker(dispatcher, healthRepo, 2*time.Second)
	checker.RunOnce(context.Background())

	reqs := dispatcher.requests["app-1"]
	require.Len(t, reqs, 2)

	byURL := map[string]protocol.RecordResultInput{}
	for _, req := range reqs {
		assert.Equal(t, protocol.MethodPost, req.Method)
		assert.Equal(t, protocol.PathHealth, req.Path)
		in := req.Body.(protocol.RecordResultInput)
		byURL[in.Result.URL] = in
	}

	ok := byURL[healthy.URL].Result
	assert.True(t, ok.Healthy)
	assert.Equal(t, http.StatusOK, ok.StatusCode)
	assert.NotEmpty(t, ok.ID)
	assert.False(t, ok.CheckedAt.IsZero())

	bad := byURL[broken.URL].Result
	assert.False(t, bad.Healthy)
	assert.Equal(t, http.StatusInternalServerError, bad.StatusCode)
}

func TestChecker_UnreachableURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	healthRepo := repository_mock.NewMockHealth(ctrl)
	healthRepo.EXPECT().AppsWithURLs(gomock.Any()).Return(map[string][]string{
		// Reserved port on localhost, refused immediately.
		"app-1": {"http://127.0.0.1:1"},
	}, nil)

	dispatcher := newRecordingDispatcher()
	checker := healthcheck.NewChecker(dispatcher, healthRepo, time.Second)
	checker.RunOnce(context.Background())

	reqs := dispatcher.requests["app-1"]
	require.Len(t, reqs, 1)

	result := reqs[0].Body.(protocol.RecordResultInput).Result
	assert.False(t, result.Healthy)
	assert.Zero(t, result.StatusCode)
}
