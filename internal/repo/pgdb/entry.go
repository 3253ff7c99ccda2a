package pgdb

import (
	"context"
	"time"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/repo/repotypes"
	errorsUtils "github.com/Egor213/LogVault/pkg/errors"
	"github.com/Egor213/LogVault/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type EntryRepo struct {
	*postgres.Postgres
}

func NewEntryRepo(pg *postgres.Postgres) *EntryRepo {
	return &EntryRepo{pg}
}

func (r *EntryRepo) insert(ctx context.Context, appID string, entry *domain.LogEntry) error {
	sql, args, _ := r.Builder.
		Insert("logs").
		Columns("id", "app_id", "level", "message", "context", "request_id", "created_at").
		Values(entry.ID, appID, entry.Level, entry.Message, entry.Context, entry.RequestID, entry.Timestamp).
		ToSql()

	_, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	return nil
}

func (r *EntryRepo) Append(ctx context.Context, appID string, entry *domain.LogEntry) error {
	return r.insert(ctx, appID, entry)
}

// AppendBatch persists all entries inside one transaction so the batch
// becomes visible atomically or not at all.
func (r *EntryRepo) AppendBatch(ctx context.Context, appID string, entries []domain.LogEntry) error {
	err := r.TrManager.Do(ctx, func(ctx context.Context) error {
		for i := range entries {
			if err := r.insert(ctx, appID, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	return nil
}

func (r *EntryRepo) Query(ctx context.Context, appID string, filter repotypes.EntryFilter) ([]domain.LogEntry, error) {
	conds, limit, offset := BuildEntryQueryFilters(appID, filter)

	query := r.Builder.
		Select("id", "level", "message", "context", "request_id", "created_at").
		From("logs").
		Where(sq.And(conds)).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset)

	sql, args, _ := query.ToSql()
	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return []domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[domain.LogEntry])
	if err != nil {
		return []domain.LogEntry{}, errorsUtils.WrapPathErr(err)
	}

	return entries, nil
}

func (r *EntryRepo) Prune(ctx context.Context, appID string, before time.Time) (int64, error) {
	sql, args, _ := r.Builder.
		Delete("logs").
		Where(sq.And{sq.Eq{"app_id": appID}, sq.Lt{"created_at": before}}).
		ToSql()

	tag, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}
	return tag.RowsAffected(), nil
}

// PruneAll removes entries older than a cutoff across every app. Used
// by the retention sweep only.
func (r *EntryRepo) PruneAll(ctx context.Context, before time.Time) (int64, error) {
	sql, args, _ := r.Builder.
		Delete("logs").
		Where(sq.Lt{"created_at": before}).
		ToSql()

	tag, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, errorsUtils.WrapPathErr(err)
	}
	return tag.RowsAffected(), nil
}
