package providers

import (
	"github.com/samber/do/v2"

	"github.com/booklyapp/bookly-server/internal/config"
	"github.com/booklyapp/bookly-server/internal/logger"
	"github.com/booklyapp/bookly-server/internal/service"
	"github.com/booklyapp/bookly-server/internal/validation"
)

// ProvideRecommendationService provides the recommendation service.
// Tracing is installed first so its spans reach the SDK provider.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	_ = do.MustInvoke[*TracingHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(
		storeHandle.BookStore,
		log.WithComponent("recommendation").Logger,
		cfg.Store.QueryTimeout,
	), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(
		storeHandle.BookStore,
		validator,
		log.WithComponent("books").Logger,
		cfg.Store.QueryTimeout,
	), nil
}

// ProvideStatusService provides the status check service.
func ProvideStatusService(i do.Injector) (*service.StatusService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatusService(
		storeHandle.BookStore,
		log.WithComponent("status").Logger,
		cfg.Store.QueryTimeout,
	), nil
}
