// Package di wires the application's components with samber/do.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/idilsaglam/toodoo/internal/di/providers"
)

// NewContainer registers every provider. Nothing is built until invoked.
func NewContainer(ctx context.Context, streams providers.Streams) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, streams)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.StoreProvider(ctx))

	// Session
	do.Provide(injector, providers.ProvideService)
	do.Provide(injector, providers.ProvidePrompter)
	do.Provide(injector, providers.ProvideApp)

	return injector
}
