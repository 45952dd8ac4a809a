package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/samber/do/v2"

	"github.com/idilsaglam/toodoo/internal/cli"
	"github.com/idilsaglam/toodoo/internal/di"
	"github.com/idilsaglam/toodoo/internal/di/providers"
	"github.com/idilsaglam/toodoo/internal/ui"
)

func main() {
	os.Exit(run(context.Background(), os.Stdin, os.Stdout, os.Stderr))
}

// run builds the container, runs one session and returns the exit code.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) int {
	injector := di.NewContainer(ctx, providers.Streams{In: stdin, Out: stdout, Err: stderr})
	defer injector.Shutdown()

	app, err := do.Invoke[*cli.App](injector)
	if err != nil {
		if lg, lerr := do.Invoke[*log.Logger](injector); lerr == nil {
			lg.Error("startup failed", "err", err)
		}
		ui.Fail(stderr, err.Error())
		return 1
	}

	if err := app.Run(ctx); err != nil {
		do.MustInvoke[*log.Logger](injector).Error("session ended", "err", err)
		ui.Fail(stderr, err.Error())
		return 1
	}
	return 0
}
