// shared/pkg/config/config.go
package config

import (
	"fmt"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/database"
)

// Base holds the settings every service reads. Services embed it in their
// own Config struct.
type Base struct {
	Port        string              `envconfig:"PORT" default:"8080"`
	Environment string              `envconfig:"ENVIRONMENT" default:"development"`
	DatabaseURL string              `envconfig:"DATABASE_URL"`
	RedisURL    string              `envconfig:"REDIS_URL"`
	MongoURL    string              `envconfig:"MONGO_URL"`
	MongoDB     string              `envconfig:"MONGO_DATABASE" default:"bnb_manager"`
	PropertyID  string              `envconfig:"PROPERTY_ID"`
	Pool        database.PoolConfig `envconfig:"DB"`
}

// IsProduction reports whether the service runs in production
func (b Base) IsProduction() bool {
	return b.Environment == "production"
}

// Load reads an optional .env file and then populates cfg from the
// environment. A missing .env file is not an error.
func Load(logger *zap.Logger, cfg interface{}, envFilePath ...string) error {
	var err error
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		err = godotenv.Load(envFilePath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		logger.Debug("No .env file found, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}

	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// MaskURL replaces the password of a connection string with xxxxx so it
// can be logged.
func MaskURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable]"
	}
	return u.Redacted()
}
