package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/booklyapp/bookly-server/internal/api"
	"github.com/booklyapp/bookly-server/internal/config"
	"github.com/booklyapp/bookly-server/internal/logger"
	"github.com/booklyapp/bookly-server/internal/service"
)

// Version is reported in the OpenAPI document. Set at build time with
// -ldflags "-X github.com/booklyapp/bookly-server/internal/di/providers.Version=...".
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Recommendation: do.MustInvoke[*service.RecommendationService](i),
		Book:           do.MustInvoke[*service.BookService](i),
		Status:         do.MustInvoke[*service.StatusService](i),
	}

	handler := api.NewServer(storeHandle.BookStore, services, api.Options{
		BasePath:       cfg.Server.BasePath,
		Version:        Version,
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	}, log.WithComponent("http").Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if _, err := startServer(srv, log); err != nil {
		handler.Close()
		return nil, err
	}

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}

// startServer binds srv.Addr and serves in the background. Bind errors, such
// as a port already in use, are returned to the caller.
func startServer(srv *http.Server, log *logger.Logger) (net.Addr, error) {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	log.Info("HTTP server starting", "addr", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return ln.Addr(), nil
}
