package pgdb

import (
	"context"

	"github.com/Egor213/LogVault/internal/domain"
	errorsUtils "github.com/Egor213/LogVault/pkg/errors"
	"github.com/Egor213/LogVault/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type StatsRepo struct {
	*postgres.Postgres
}

func NewStatsRepo(pg *postgres.Postgres) *StatsRepo {
	return &StatsRepo{pg}
}

// Increment applies all counts to the (app, date) row in one UPSERT
// and returns the updated row. The statement is atomic on its own; the
// per-app coordinator additionally guarantees no concurrent caller.
func (r *StatsRepo) Increment(ctx context.Context, appID, date string, counts []domain.LevelCount) (domain.DailyStat, error) {
	var delta domain.DailyStat
	for _, c := range counts {
		delta.Add(c.Level, c.Count)
	}

	sql, args, _ := r.Builder.
		Insert("daily_stats").
		Columns("app_id", "date", "debug_count", "info_count", "warn_count", "error_count").
		Values(appID, date, delta.Debug, delta.Info, delta.Warn, delta.Error).
		Suffix(`ON CONFLICT (app_id, date) DO UPDATE SET
			debug_count = daily_stats.debug_count + EXCLUDED.debug_count,
			info_count = daily_stats.info_count + EXCLUDED.info_count,
			warn_count = daily_stats.warn_count + EXCLUDED.warn_count,
			error_count = daily_stats.error_count + EXCLUDED.error_count
			RETURNING to_char(date, 'YYYY-MM-DD'), debug_count, info_count, warn_count, error_count`).
		ToSql()

	var stat domain.DailyStat
	err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).
		QueryRow(ctx, sql, args...).
		Scan(&stat.Date, &stat.Debug, &stat.Info, &stat.Warn, &stat.Error)
	if err != nil {
		return domain.DailyStat{}, errorsUtils.WrapPathErr(err)
	}

	return stat, nil
}

// GetRange returns the stored rows between from and to inclusive, most
// recent first. Missing dates are synthesized by the caller.
func (r *StatsRepo) GetRange(ctx context.Context, appID, from, to string) ([]domain.DailyStat, error) {
	sql, args, _ := r.Builder.
		Select("to_char(date, 'YYYY-MM-DD') AS date", "debug_count", "info_count", "warn_count", "error_count").
		From("daily_stats").
		Where(sq.And{
			sq.Eq{"app_id": appID},
			sq.GtOrEq{"date": from},
			sq.LtOrEq{"date": to},
		}).
		OrderBy("date DESC").
		ToSql()

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return []domain.DailyStat{}, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.DailyStat])
	if err != nil {
		return []domain.DailyStat{}, errorsUtils.WrapPathErr(err)
	}

	return stats, nil
}

func (r *StatsRepo) DeleteOlderThan(ctx context.Context, date string) (int64, error) {
	sql, args, _ := r.Builder.
		Delete("daily_stats").
		Where(sq.Lt{"date": date}).
		ToSql()

	tag, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}
	return tag.RowsAffected(), nil
}
