package pgdb

import (
	"context"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/LogVault/pkg/errors"
	"github.com/Egor213/LogVault/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type HealthRepo struct {
	*postgres.Postgres
}

func NewHealthRepo(pg *postgres.Postgres) *HealthRepo {
	return &HealthRepo{pg}
}

// SetURLs replaces the configured URL list wholesale. An empty list is
// stored as-is and disables probing for the app.
func (r *HealthRepo) SetURLs(ctx context.Context, appID string, urls []string) error {
	if urls == nil {
		urls = []string{}
	}

	sql, args, _ := r.Builder.
		Insert("health_urls").
		Columns("app_id", "urls").
		Values(appID, urls).
		Suffix("ON CONFLICT (app_id) DO UPDATE SET urls = EXCLUDED.urls, updated_at = now()").
		ToSql()

	_, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	return nil
}

func (r *HealthRepo) GetURLs(ctx context.Context, appID string) ([]string, error) {
	sql, args, _ := r.Builder.
		Select("urls").
		From("health_urls").
		Where(sq.Eq{"app_id": appID}).
		ToSql()

	var urls []string
	err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).QueryRow(ctx, sql, args...).Scan(&urls)
	if err == pgx.ErrNoRows {
		return []string{}, nil
	}
	if err != nil {
		return []string{}, errorsUtils.WrapPathErr(err)
	}

	return urls, nil
}

func (r *HealthRepo) RecordResult(ctx context.Context, appID string, result *domain.HealthCheckResult) error {
	sql, args, _ := r.Builder.
		Insert("health_results").
		Columns("id", "app_id", "url", "healthy", "status_code", "duration_ms", "checked_at").
		Values(result.ID, appID, result.URL, result.Healthy, result.StatusCode, result.DurationMs, result.CheckedAt).
		ToSql()

	_, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	return nil
}

func (r *HealthRepo) GetHistory(ctx context.Context, appID string, filter repotypes.HistoryFilter) ([]domain.HealthCheckResult, error) {
	conds, limit := BuildHistoryQueryFilters(appID, filter)

	sql, args, _ := r.Builder.
		Select("id", "url", "healthy", "status_code", "duration_ms", "checked_at").
		From("health_results").
		Where(sq.And(conds)).
		OrderBy("checked_at DESC").
		Limit(limit).
		ToSql()

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return []domain.HealthCheckResult{}, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	results, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[domain.HealthCheckResult])
	if err != nil {
		return []domain.HealthCheckResult{}, errorsUtils.WrapPathErr(err)
	}

	return results, nil
}

// AppsWithURLs lists every app that has at least one URL configured.
// Consumed by the health-check scheduler.
func (r *HealthRepo) AppsWithURLs(ctx context.Context) (map[string][]string, error) {
	sql, args, _ := r.Builder.
		Select("app_id", "urls").
		From("health_urls").
		Where("jsonb_array_length(urls) > 0").
		ToSql()

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	apps := make(map[string][]string)
	for rows.Next() {
		var appID string
		var urls []string
		if err := rows.Scan(&appID, &urls); err != nil {
			return nil, errorsUtils.WrapPathErr(err)
		}
		apps[appID] = urls
	}

	if err := rows.Err(); err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	return apps, nil
}
