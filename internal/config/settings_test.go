package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"UNIONCLOUD_HOST", "UNIONCLOUD_EMAIL", "UNIONCLOUD_APP_ID", "UNIONCLOUD_CA_BUNDLE", "UNIONCLOUD_OUTPUT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	original := userConfigDir
	userConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDir = original })
	return dir
}

func TestLoadSettings_File(t *testing.T) {
	clearSettingsEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: https://union.example.com/\nemail: a@b.com\napp_id: id1\noutput: json\n"), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "union.example.com", s.Host)
	assert.Equal(t, "a@b.com", s.Email)
	assert.Equal(t, "id1", s.AppID)
	assert.Equal(t, "json", s.Output)
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	clearSettingsEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: file.example.com\napp_id: from-file\n"), 0o600))

	t.Setenv("UNIONCLOUD_HOST", "env.example.com")
	t.Setenv("UNIONCLOUD_CA_BUNDLE", "/etc/unioncloud.pem")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "env.example.com", s.Host)
	assert.Equal(t, "from-file", s.AppID)
	assert.Equal(t, "/etc/unioncloud.pem", s.CABundle)
}

func TestLoadSettings_MissingDefaultFile(t *testing.T) {
	clearSettingsEnv(t)
	withConfigDir(t)
	t.Setenv("UNIONCLOUD_HOST", "env.example.com")

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "env.example.com", s.Host)
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	clearSettingsEnv(t)
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	clearSettingsEnv(t)
	dir := withConfigDir(t)

	path, err := SaveSettings("", Settings{Host: "union.example.com", Email: "a@b.com", AppID: "id1"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "unioncloud", "config.yaml"), path)

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, Settings{Host: "union.example.com", Email: "a@b.com", AppID: "id1"}, s)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr string
	}{
		{"valid host", Settings{Host: "union.example.com"}, ""},
		{"host with port", Settings{Host: "127.0.0.1:8443"}, ""},
		{"valid email", Settings{Host: "union.example.com", Email: "a@b.com"}, ""},
		{"missing host", Settings{}, "host is required"},
		{"bad host", Settings{Host: "not a host"}, "not a valid host name"},
		{"bad email", Settings{Host: "union.example.com", Email: "nope"}, "not a valid email address"},
		{"bad output", Settings{Host: "union.example.com", Output: "xml"}, "must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestResolveClientConfig(t *testing.T) {
	withMockKeyring(t)
	t.Setenv(envPassword, "")
	t.Setenv(envAppSecret, "")
	require.NoError(t, SaveCredentials("union.example.com", Credentials{AuthToken: "tok", AppSecret: "s"}))

	cfg, err := ResolveClientConfig(Settings{Host: "union.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.AuthToken)
	assert.Equal(t, "s", cfg.AppSecret)
	assert.Equal(t, "union.example.com", cfg.Host)

	cfg, err = ResolveClientConfig(Settings{Host: "other.example.com"})
	require.NoError(t, err)
	assert.False(t, cfg.HasSession())

	_, err = ResolveClientConfig(Settings{})
	assert.Error(t, err)
}
