package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/repo"
	"github.com/Egor213/LogVault/internal/repo/repoerrs"
	errorsUtils "github.com/Egor213/LogVault/pkg/errors"
	"github.com/google/uuid"
)

const apiKeyBytes = 24

type AppService struct {
	appRepo repo.App
}

func NewAppService(ar repo.App) *AppService {
	return &AppService{
		appRepo: ar,
	}
}

func generateAPIKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errorsUtils.WrapPathErr(err)
	}
	return "lv_" + hex.EncodeToString(buf), nil
}

// Create registers a new app with a freshly generated API key. The key
// is returned exactly once; callers are expected to store it.
func (s *AppService) Create(ctx context.Context, name string) (domain.App, error) {
	if name == "" {
		return domain.App{}, ErrEmptyAppName
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return domain.App{}, err
	}

	app := domain.App{
		ID:        uuid.NewString(),
		Name:      name,
		APIKey:    apiKey,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.appRepo.Create(ctx, &app); err != nil {
		if errors.Is(err, repoerrs.ErrAlreadyExists) {
			return domain.App{}, ErrAppAlreadyExists
		}
		return domain.App{}, errorsUtils.WrapPathErr(err)
	}

	return app, nil
}

func (s *AppService) List(ctx context.Context) ([]domain.App, error) {
	apps, err := s.appRepo.List(ctx)
	if err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}
	return apps, nil
}

func (s *AppService) Delete(ctx context.Context, name string) error {
	err := s.appRepo.Delete(ctx, name)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return ErrAppNotFound
		}
		return errorsUtils.WrapPathErr(err)
	}
	return nil
}

// Authenticate resolves an API key to the app that owns it.
func (s *AppService) Authenticate(ctx context.Context, apiKey string) (domain.App, error) {
	if apiKey == "" {
		return domain.App{}, ErrInvalidAPIKey
	}

	app, err := s.appRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return domain.App{}, ErrInvalidAPIKey
		}
		return domain.App{}, errorsUtils.WrapPathErr(err)
	}

	return app, nil
}
