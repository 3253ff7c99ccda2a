package config

import (
	"os"

	errorsUtils "github.com/Egor213/LogVault/pkg/errors"

	"github.com/ilyakaznacheev/cleanenv"
	log "github.com/sirupsen/logrus"

	"github.com/joho/godotenv"
)

type (
	Config struct {
		App        `yaml:"app"`
		Log        `yaml:"log"`
		PG         `yaml:"postgres"`
		HTTP       `yaml:"http"`
		Prometheus `yaml:"prometheus"`
		Kafka      `yaml:"kafka"`
		Retention  `yaml:"retention"`
		Health     `yaml:"health"`
		Auth       `yaml:"auth"`
	}

	App struct {
		Name    string `yaml:"name" env-required:"true"`
		Version string `yaml:"version" env-required:"true"`
	}

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	}

	PG struct {
		MaxPoolSize int    `env-required:"true" env:"MAX_POOL_SIZE" yaml:"max_pool_size"`
		URL         string `env-required:"true" env:"PG_URL"`
	}

	HTTP struct {
		Port string `env-required:"true" yaml:"port" env:"HTTP_PORT"`
	}

	Prometheus struct {
		Port string `env-required:"true" yaml:"port" env:"PROMETHEUS_PORT"`
	}

	Kafka struct {
		Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
		Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"logvault.entries"`
	}

	Retention struct {
		StatsDays int    `yaml:"stats_days" env:"RETENTION_STATS_DAYS" env-default:"30"`
		EntryDays int    `yaml:"entry_days" env:"RETENTION_ENTRY_DAYS" env-default:"0"`
		Schedule  string `yaml:"schedule" env:"RETENTION_SCHEDULE" env-default:"@daily"`
	}

	Health struct {
		Schedule       string `yaml:"schedule" env:"HEALTH_SCHEDULE" env-default:"@every 1m"`
		TimeoutSeconds int    `yaml:"timeout_seconds" env:"HEALTH_TIMEOUT_SECONDS" env-default:"5"`
	}

	Auth struct {
		AdminKey string `yaml:"admin_key" env-required:"true" env:"ADMIN_KEY"`
	}
)

const ENV_PATH = "infra/.env.dev"

func init() {
	if _, err := os.Stat(ENV_PATH); err == nil {
		if err := godotenv.Load(ENV_PATH); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}
}

func New() (*Config, error) {
	cfg := &Config{}

	pathToConfig, ok := os.LookupEnv("APP_CONFIG_PATH")
	if !ok || pathToConfig == "" {
		log.WithField("env_var", "APP_CONFIG_PATH").
			Info("Config path is not set, using default")
		pathToConfig = "infra/config.yaml"
	}

	if err := cleanenv.ReadConfig(pathToConfig, cfg); err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	if err := cleanenv.UpdateEnv(cfg); err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	return cfg, nil
}
