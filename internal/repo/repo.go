package repo

import (
	"context"
	"time"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/repo/pgdb"
	"github.com/Egor213/LogVault/internal/repo/repotypes"
	"github.com/Egor213/LogVault/pkg/postgres"
)

type Entry interface {
	Append(ctx context.Context, appID string, entry *domain.LogEntry) error
	AppendBatch(ctx context.Context, appID string, entries []domain.LogEntry) error
	Query(ctx context.Context, appID string, filter repotypes.EntryFilter) ([]domain.LogEntry, error)
	Prune(ctx context.Context, appID string, before time.Time) (int64, error)
	PruneAll(ctx context.Context, before time.Time) (int64, error)
}

type Stats interface {
	Increment(ctx context.Context, appID, date string, counts []domain.LevelCount) (domain.DailyStat, error)
	GetRange(ctx context.Context, appID, from, to string) ([]domain.DailyStat, error)
	DeleteOlderThan(ctx context.Context, date string) (int64, error)
}

type Health interface {
	SetURLs(ctx context.Context, appID string, urls []string) error
	GetURLs(ctx context.Context, appID string) ([]string, error)
	RecordResult(ctx context.Context, appID string, result *domain.HealthCheckResult) error
	GetHistory(ctx context.Context, appID string, filter repotypes.HistoryFilter) ([]domain.HealthCheckResult, error)
	AppsWithURLs(ctx context.Context) (map[string][]string, error)
}

type App interface {
	Create(ctx context.Context, app *domain.App) error
	GetByAPIKey(ctx context.Context, apiKey string) (domain.App, error)
	GetByName(ctx context.Context, name string) (domain.App, error)
	List(ctx context.Context) ([]domain.App, error)
	Delete(ctx context.Context, name string) error
}

type Repositories struct {
	Entry
	Stats
	Health
	App
}

func NewRepositories(pg *postgres.Postgres) *Repositories {
	return &Repositories{
		Entry:  pgdb.NewEntryRepo(pg),
		Stats:  pgdb.NewStatsRepo(pg),
		Health: pgdb.NewHealthRepo(pg),
		App:    pgdb.NewAppRepo(pg),
	}
}
