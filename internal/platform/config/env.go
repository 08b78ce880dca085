package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds process-wide defaults sourced from the environment.
// Command line flags override these values.
type Settings struct {
	StoreKind    string `env:"GENOS_STORE_KIND"`
	SQLitePath   string `env:"GENOS_SQLITE_PATH" envDefault:"genos.db"`
	ArtifactsDir string `env:"GENOS_ARTIFACTS_DIR" envDefault:"artifacts"`
	LogLevel     string `env:"GENOS_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"GENOS_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings parses the GENOS_* environment into a Settings value.
func LoadSettings() (Settings, error) {
	var settings Settings
	if err := ParseEnv(&settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
