package healthcheck

import (
	"context"
	"net/http"
	"time"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/Egor213/LogVault/internal/repo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const defaultProbeTimeout = 5 * time.Second

type Dispatcher interface {
	Dispatch(ctx context.Context, appID string, req protocol.Request) protocol.Response
}

// Checker probes every configured health-check URL and records results
// through each app's coordinator, so history appends keep the
// single-writer guarantee.
type Checker struct {
	hub        Dispatcher
	healthRepo repo.Health
	client     *http.Client
}

func NewChecker(hub Dispatcher, hr repo.Health, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Checker{
		hub:        hub,
		healthRepo: hr,
		client:     &http.Client{Timeout: timeout},
	}
}

func (c *Checker) RunOnce(ctx context.Context) {
	apps, err := c.healthRepo.AppsWithURLs(ctx)
	if err != nil {
		log.WithField("error", err).Error("Failed to list apps with health urls")
		return
	}

	for appID, urls := range apps {
		for _, url := range urls {
			result := c.probe(ctx, url)
			resp := c.hub.Dispatch(ctx, appID, protocol.Request{
				Method: protocol.MethodPost,
				Path:   protocol.PathHealth,
				Body:   protocol.RecordResultInput{Result: result},
			})
			if !resp.OK {
				log.WithFields(log.Fields{"app": appID, "url": url, "error": resp.Error}).
					Error("Failed to record health result")
			}
		}
	}
}

func (c *Checker) probe(ctx context.Context, url string) domain.HealthCheckResult {
	result := domain.HealthCheckResult{
		ID:        uuid.NewString(),
		URL:       url,
		CheckedAt: time.Now().UTC(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	result.DurationMs = time.Since(start).Milliseconds()

	if err != nil {
		log.WithFields(log.Fields{"url": url, "error": err}).Debug("Health probe failed")
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Healthy = resp.StatusCode < http.StatusBadRequest

	return result
}
