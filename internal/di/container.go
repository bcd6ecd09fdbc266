// Package di provides dependency injection configuration for the Bookly server.
package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/booklyapp/bookly-server/internal/config"
	"github.com/booklyapp/bookly-server/internal/di/providers"
	"github.com/booklyapp/bookly-server/internal/logger"
	"github.com/booklyapp/bookly-server/internal/service"
	"github.com/booklyapp/bookly-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideTracing)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideRecommendationService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideStatusService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// When seeding on start is enabled, an empty collection is populated
// before the server accepts requests.
func Bootstrap(injector *do.RootScope) error {
	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	if _, err := do.Invoke[*providers.TracingHandle](injector); err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// Business services
	_ = do.MustInvoke[*service.RecommendationService](injector)
	books := do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.StatusService](injector)

	if cfg.App.SeedOnStart {
		seeded, err := books.SeedIfEmpty(context.Background())
		if err != nil {
			return fmt.Errorf("seed sample books: %w", err)
		}
		if seeded {
			log.Info("Seeded empty collection with sample books")
		}
	}

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	return nil
}
