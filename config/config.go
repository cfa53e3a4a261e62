package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type (
	Config struct {
		Port        string `env:"PORT" envDefault:"3000"`
		DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
		LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

		Media      MediaConfig      `envPrefix:"MEDIA_"`
		Revalidate RevalidateConfig `envPrefix:"REVALIDATE_"`
	}

	// MediaConfig configures the external asset store. All fields are
	// optional: a missing bucket disables upload/search endpoints
	// without preventing the process from starting.
	MediaConfig struct {
		Bucket          string `env:"BUCKET"`
		Folder          string `env:"FOLDER" envDefault:"pixvault"`
		CredentialsFile string `env:"CREDENTIALS_FILE"`
	}

	// RevalidateConfig points at the hosting frontend's cache
	// revalidation webhook. An empty URL disables the signal.
	RevalidateConfig struct {
		URL     string        `env:"WEBHOOK_URL"`
		Secret  string        `env:"SECRET"`
		Timeout time.Duration `env:"TIMEOUT" envDefault:"3s"`
	}
)

// Load reads .env (when present) and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}
