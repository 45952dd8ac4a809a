package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/idilsaglam/toodoo/internal/validate"
)

// EnvConfigFile names an explicit config file. It must exist when set.
const EnvConfigFile = "TOODOO_CONFIG"

// Load resolves configuration in priority order:
//  1. Defaults
//  2. Config file ($TOODOO_CONFIG, else ~/.toodoo/config.toml if present)
//  3. .env in the working directory
//  4. Environment variables
//
// The .env file is read first but never overrides variables already set, so
// it ranks between the config file and the real environment.
func Load() (*Config, error) {
	return load(".env")
}

func load(dotenv string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if err := loadDotenv(dotenv); err != nil {
		return nil, err
	}

	path, explicit := configFile()
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	loadFromEnv(cfg)

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func configFile() (path string, explicit bool) {
	if v := os.Getenv(EnvConfigFile); v != "" {
		return expandHome(v), true
	}
	return filepath.Join(Dir(), "config.toml"), false
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from TOODOO_* variables. DATABASE_URL is
// honoured when TOODOO_DATABASE_URL is unset, and a non-empty NO_COLOR
// means color = "never" unless TOODOO_COLOR says otherwise.
func loadFromEnv(cfg *Config) {
	if os.Getenv("NO_COLOR") != "" {
		cfg.Color = ColorNever
	}
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&cfg.Driver, "TOODOO_DRIVER")
	set(&cfg.DBPath, "TOODOO_DB_PATH")
	set(&cfg.DatabaseURL, "TOODOO_DATABASE_URL", "DATABASE_URL")
	set(&cfg.UI, "TOODOO_UI")
	set(&cfg.Theme, "TOODOO_THEME")
	set(&cfg.Color, "TOODOO_COLOR")
	set(&cfg.LogLevel, "TOODOO_LOG_LEVEL")
	set(&cfg.LogFormat, "TOODOO_LOG_FORMAT")
}

func finalizeConfig(cfg *Config) error {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.DBPath = expandHome(strings.TrimSpace(cfg.DBPath))
	return validate.New().Struct(cfg)
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
