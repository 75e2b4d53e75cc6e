package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"github.com/yusu/unioncloud-cli/internal/api"
	"github.com/yusu/unioncloud-cli/internal/config"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stderr = old
	return <-done
}

type testEnv struct {
	server *httptest.Server
	ring   *keyring.ArrayKeyring
	host   string
}

// setupTestEnv isolates config and keyring state and points clients at a
// TLS test server. No session is stored.
func setupTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"UNIONCLOUD_EMAIL", "UNIONCLOUD_APP_ID", "UNIONCLOUD_CA_BUNDLE",
		"UNIONCLOUD_PASSWORD", "UNIONCLOUD_APP_SECRET",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	host := server.Listener.Addr().String()
	t.Setenv("UNIONCLOUD_HOST", host)
	t.Setenv("UNIONCLOUD_OUTPUT", "text")

	ring := keyring.NewArrayKeyring(nil)
	t.Cleanup(config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))

	origClient := newAPIClient
	newAPIClient = func(h string) *api.Client {
		c := origClient(h)
		c.HTTP = server.Client()
		return c
	}
	t.Cleanup(func() { newAPIClient = origClient })

	return &testEnv{server: server, ring: ring, host: host}
}

// setupLoggedInEnv is setupTestEnv with a live session stored.
func setupLoggedInEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	env := setupTestEnv(t, handler)
	require.NoError(t, config.SaveCredentials(env.host, config.Credentials{
		AuthToken:          "test-token",
		AuthTokenExpiresAt: time.Now().Add(time.Hour),
	}))
	return env
}

func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

type routeHandler struct {
	routes map[string]http.HandlerFunc
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if handler, ok := rh.routes[r.Method+" "+r.URL.Path]; ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}

// run executes the CLI and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var err error
	var stdout string
	stderr := captureStderr(t, func() {
		stdout = captureStdout(t, func() {
			err = Execute(context.Background(), args)
		})
	})
	return stdout, stderr, err
}

func decodeJSON[T any](t *testing.T, raw string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(raw), &out), "output: %s", raw)
	return out
}
