// Package config resolves runtime settings from defaults, a TOML file, a
// .env file and TOODOO_* environment variables.
package config

import (
	"os"
	"path/filepath"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	UIAuto  = "auto"
	UITUI   = "tui"
	UIPlain = "plain"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds all settings. The toml keys double as names in error messages.
type Config struct {
	Driver      string `toml:"driver" validate:"oneof=sqlite postgres"`
	DBPath      string `toml:"db_path" validate:"required_if=Driver sqlite"`
	DatabaseURL string `toml:"database_url" validate:"required_if=Driver postgres"`
	UI          string `toml:"ui" validate:"oneof=auto tui plain"`
	Theme       string `toml:"theme" validate:"oneof=classic neon mono"`
	Color       string `toml:"color" validate:"oneof=auto always never"`
	LogLevel    string `toml:"log_level" validate:"oneof=debug info warn warning error fatal"`
	LogFormat   string `toml:"log_format" validate:"oneof=text json logfmt"`
}

// Dir is ~/.toodoo, where the default config file and database live.
// It falls back to a relative .toodoo when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".toodoo"
	}
	return filepath.Join(home, ".toodoo")
}

func setDefaults(cfg *Config) {
	cfg.Driver = DriverSQLite
	cfg.DBPath = filepath.Join(Dir(), "toodoo.db")
	cfg.UI = UIAuto
	cfg.Theme = "classic"
	cfg.Color = ColorAuto
	cfg.LogLevel = "warn"
	cfg.LogFormat = "text"
}
