package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	setupTestEnv(t, http.NotFoundHandler())

	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "unioncloud version dev")

	stdout, _, err = run(t, "version", "-o", "json")
	require.NoError(t, err)
	out := decodeJSON[map[string]any](t, stdout)
	assert.Equal(t, "dev", out["version"])
	assert.Equal(t, "v1", out["api_version"])
}

func TestVersion_YAMLAndJQ(t *testing.T) {
	setupTestEnv(t, http.NotFoundHandler())

	stdout, _, err := run(t, "version", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version: dev")

	stdout, _, err = run(t, "version", "--jq", ".api_version")
	require.NoError(t, err)
	assert.Equal(t, "\"v1\"\n", stdout)
}

func TestInvalidOutputFormat(t *testing.T) {
	setupTestEnv(t, http.NotFoundHandler())

	_, stderr, err := run(t, "version", "--output", "xml")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "invalid output format")
}

func TestOutputFromSettings(t *testing.T) {
	setupTestEnv(t, http.NotFoundHandler())
	t.Setenv("UNIONCLOUD_OUTPUT", "json")

	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(stdout), "{"), stdout)
}

func TestUnknownCommand(t *testing.T) {
	setupTestEnv(t, http.NotFoundHandler())

	_, stderr, err := run(t, "nope")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Contains(t, stderr, "unknown command")
}

func TestExplicitConfigMissing(t *testing.T) {
	setupTestEnv(t, http.NotFoundHandler())

	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	assert.ErrorContains(t, err, "failed to read config")
}

func TestConfigFile(t *testing.T) {
	env := setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/event_types", jsonResponse(200, `{"data":[{"event_type_id":1,"event_type_name":"Social"}]}`)))
	require.NoError(t, os.Unsetenv("UNIONCLOUD_HOST"))
	require.NoError(t, os.Unsetenv("UNIONCLOUD_OUTPUT"))

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: "+env.host+"\noutput: json\n"), 0o600))

	stdout, _, err := run(t, "--config", path, "events", "types")
	require.NoError(t, err)
	out := decodeJSON[[]map[string]any](t, stdout)
	require.Len(t, out, 1)
	assert.Equal(t, "Social", out[0]["event_type_name"])
}

func TestHostFlagOverridesSettings(t *testing.T) {
	env := setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/event_types", jsonResponse(200, `{"data":[]}`)))
	t.Setenv("UNIONCLOUD_HOST", "elsewhere.example.com")

	_, stderr, err := run(t, "--host", "https://"+env.host+"/", "events", "types")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No results.")
}

func TestJSONErrorOutput(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/users/7", jsonResponse(200, `{"errors":[{"error_code":"ERR404","error_message":"No user found"}]}`)))

	_, stderr, err := run(t, "users", "get", "7", "-o", "json")
	require.Error(t, err)
	assert.Equal(t, exitAPI, ExitCode(err))

	out := decodeJSON[map[string]map[string]any](t, stderr)
	assert.Equal(t, "api_error", out["error"]["code"])
	assert.Equal(t, "No user found", out["error"]["message"])
}

func TestDebugLogsRequests(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/event_types", jsonResponse(200, `{"data":[]}`)))

	_, stderr, err := run(t, "events", "types", "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "request complete")
	assert.NotContains(t, stderr, "test-token")
}
