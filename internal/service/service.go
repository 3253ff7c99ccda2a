package service

import (
	"context"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/repo"
)

type App interface {
	Create(ctx context.Context, name string) (domain.App, error)
	List(ctx context.Context) ([]domain.App, error)
	Delete(ctx context.Context, name string) error
	Authenticate(ctx context.Context, apiKey string) (domain.App, error)
}

type Services struct {
	App       App
	Retention *RetentionService
}

type ServicesDependencies struct {
	Repos *repo.Repositories

	StatsRetentionDays int
	EntryRetentionDays int
}

func NewServices(deps ServicesDependencies) *Services {
	return &Services{
		App:       NewAppService(deps.Repos.App),
		Retention: NewRetentionService(deps.Repos.Entry, deps.Repos.Stats, deps.StatsRetentionDays, deps.EntryRetentionDays),
	}
}
