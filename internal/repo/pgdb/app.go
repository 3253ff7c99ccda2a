package pgdb

import (
	"context"
	"errors"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/repo/repoerrs"
	errorsUtils "github.com/Egor213/LogVault/pkg/errors"
	"github.com/Egor213/LogVault/pkg/postgres"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type AppRepo struct {
	*postgres.Postgres
}

func NewAppRepo(pg *postgres.Postgres) *AppRepo {
	return &AppRepo{pg}
}

func (r *AppRepo) Create(ctx context.Context, app *domain.App) error {
	sql, args, _ := r.Builder.
		Insert("apps").
		Columns("id", "name", "api_key", "created_at").
		Values(app.ID, app.Name, app.APIKey, app.CreatedAt).
		ToSql()

	_, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		if errorsUtils.IsUniqueViolation(err) {
			return repoerrs.ErrAlreadyExists
		}
		return errorsUtils.WrapPathErr(err)
	}
	return nil
}

func (r *AppRepo) getOne(ctx context.Context, cond sq.Eq) (domain.App, error) {
	sql, args, _ := r.Builder.
		Select("id", "name", "api_key", "created_at").
		From("apps").
		Where(cond).
		ToSql()

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return domain.App{}, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	app, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.App])
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.App{}, repoerrs.ErrNotFound
	}
	if err != nil {
		return domain.App{}, errorsUtils.WrapPathErr(err)
	}

	return app, nil
}

func (r *AppRepo) GetByAPIKey(ctx context.Context, apiKey string) (domain.App, error) {
	return r.getOne(ctx, sq.Eq{"api_key": apiKey})
}

func (r *AppRepo) GetByName(ctx context.Context, name string) (domain.App, error) {
	return r.getOne(ctx, sq.Eq{"name": name})
}

func (r *AppRepo) List(ctx context.Context) ([]domain.App, error) {
	sql, args, _ := r.Builder.
		Select("id", "name", "api_key", "created_at").
		From("apps").
		OrderBy("created_at ASC").
		ToSql()

	rows, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Query(ctx, sql, args...)
	if err != nil {
		return []domain.App{}, errorsUtils.WrapPathErr(err)
	}
	defer rows.Close()

	apps, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.App])
	if err != nil {
		return []domain.App{}, errorsUtils.WrapPathErr(err)
	}

	return apps, nil
}

func (r *AppRepo) Delete(ctx context.Context, name string) error {
	sql, args, _ := r.Builder.
		Delete("apps").
		Where(sq.Eq{"name": name}).
		ToSql()

	tag, err := r.CtxGetter.DefaultTrOrDB(ctx, r.Pool).Exec(ctx, sql, args...)
	if err != nil {
		return errorsUtils.WrapPathErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repoerrs.ErrNotFound
	}
	return nil
}
