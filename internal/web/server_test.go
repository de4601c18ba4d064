package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_DefaultsToPort8080(t *testing.T) {
	server := NewServer("", http.NotFoundHandler())

	assert.Equal(t, ":8080", server.Addr())
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()

	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Greater(t, cfg.WriteTimeout, cfg.ReadTimeout)
	assert.Equal(t, 1<<20, cfg.MaxHeaderBytes)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	router, _ := newTestRouter(t, "m")
	server := NewServer("127.0.0.1:0", router)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
	assert.NoError(t, <-done, "clean shutdown is not an error")
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	server := NewServer(":0", http.NotFoundHandler())

	assert.NoError(t, server.Shutdown(context.Background()))
}
