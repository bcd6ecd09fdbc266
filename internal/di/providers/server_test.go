package providers

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklyapp/bookly-server/internal/logger"
)

func TestStartServer(t *testing.T) {
	srv := &http.Server{
		Addr: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "ok") //nolint:errcheck // Test handler
		}),
		ReadHeaderTimeout: time.Second,
	}

	addr, err := startServer(srv, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Shutdown(context.Background()) }) //nolint:errcheck // Test cleanup

	resp, err := http.Get("http://" + addr.String())
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestStartServer_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() }) //nolint:errcheck // Test cleanup

	srv := &http.Server{Addr: ln.Addr().String(), ReadHeaderTimeout: time.Second}

	_, err = startServer(srv, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on "+ln.Addr().String())
}
