// Package providers contains the dependency injection providers.
package providers

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/samber/do/v2"

	"github.com/idilsaglam/toodoo/internal/config"
	"github.com/idilsaglam/toodoo/internal/logger"
	"github.com/idilsaglam/toodoo/internal/ui"
)

// Streams are the process's standard streams. Stdout carries the session
// transcript; stderr carries logs and fatal errors.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ProvideConfig loads configuration and applies the theme. Colour is
// decided here, once, against the injected stdout.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	streams := do.MustInvoke[Streams](i)

	ui.SetTheme(cfg.Theme)
	ui.SetColor(colorFor(cfg.Color, streams.Out))
	return cfg, nil
}

func colorFor(mode string, out io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return ui.IsTerminal(out)
	}
}

// ProvideLogger provides the diagnostics logger on stderr.
func ProvideLogger(i do.Injector) (*log.Logger, error) {
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return nil, err
	}
	streams := do.MustInvoke[Streams](i)

	lg := logger.FromStrings(streams.Err, cfg.LogLevel, cfg.LogFormat)
	lg.Debug("config loaded", "driver", cfg.Driver, "ui", cfg.UI, "theme", cfg.Theme)
	return lg, nil
}
