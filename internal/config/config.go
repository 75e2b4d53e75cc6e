package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/99designs/keyring"
)

const (
	serviceName   = "unioncloud-cli"
	hostKeyPrefix = "host:"
	hostIndexKey  = "hosts_index"

	envKeyringBackend  = "UNIONCLOUD_KEYRING_BACKEND"
	envKeyringPassword = "UNIONCLOUD_KEYRING_PASSWORD"
	envCredentialsDir  = "UNIONCLOUD_CREDENTIALS_DIR"
	envPassword        = "UNIONCLOUD_PASSWORD"
	envAppSecret       = "UNIONCLOUD_APP_SECRET"

	keyringBackendAuto   = "auto"
	keyringBackendFile   = "file"
	keyringBackendSystem = "system"
)

// openKeyring is replaced in tests with an in-memory keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring replaces the keyring opener and returns a function that
// restores the previous one.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Credentials are the secrets and session stored per host.
type Credentials struct {
	Password           string    `json:"password,omitempty"`
	AppSecret          string    `json:"app_secret,omitempty"`
	AuthToken          string    `json:"auth_token,omitempty"`
	AuthTokenExpiresAt time.Time `json:"auth_token_expires_at,omitzero"`
}

// HasSession reports whether a token is stored.
func (c Credentials) HasSession() bool {
	return c.AuthToken != ""
}

// SessionExpired reports whether the stored token's expiry has passed.
// A zero expiry never expires.
func (c Credentials) SessionExpired(now time.Time) bool {
	return !c.AuthTokenExpiresAt.IsZero() && !now.Before(c.AuthTokenExpiresAt)
}

// ErrNotConfigured is returned when nothing is stored for a host.
var ErrNotConfigured = errors.New("no stored credentials for this host - run 'unioncloud auth login' first")

func keyringConfig() keyring.Config {
	cfg := keyring.Config{
		ServiceName: serviceName,
	}

	backend := keyringBackendMode()
	if backend == keyringBackendSystem {
		return cfg
	}

	configureFileBackend(&cfg)

	// Headless Linux has no secret service; use the encrypted file backend.
	if shouldForceFileBackend(runtime.GOOS, backend, os.Getenv("DBUS_SESSION_BUS_ADDRESS")) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

func keyringBackendMode() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envKeyringBackend))) {
	case keyringBackendFile:
		return keyringBackendFile
	case keyringBackendSystem, "os", "native":
		return keyringBackendSystem
	default:
		return keyringBackendAuto
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	if backend == keyringBackendFile {
		return true
	}
	if backend != keyringBackendAuto {
		return false
	}
	return goos == "linux" && strings.TrimSpace(dbusAddr) == ""
}

func configureFileBackend(cfg *keyring.Config) {
	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword
}

func keyringFileDir() string {
	base := strings.TrimSpace(os.Getenv(envCredentialsDir))
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, "unioncloud")
		}
	}
	if base == "" {
		base = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := secretEnv(envKeyringPassword); ok {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

// secretEnv returns a non-blank variable untrimmed; secrets may contain
// meaningful whitespace.
func secretEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func hostKey(host string) string {
	return hostKeyPrefix + strings.ToLower(strings.TrimSpace(host))
}

// SaveCredentials stores creds for host and records host in the index.
func SaveCredentials(host string, creds Credentials) error {
	if strings.TrimSpace(host) == "" {
		return errors.New("host is required")
	}
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := ring.Set(keyring.Item{
		Key:         hostKey(host),
		Data:        data,
		Label:       serviceName + " " + host,
		Description: "UnionCloud API credentials",
	}); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	hosts, err := loadHostIndex(ring)
	if err != nil {
		return err
	}
	return saveHostIndex(ring, append(hosts, strings.ToLower(strings.TrimSpace(host))))
}

// LoadCredentials returns what is stored for host, or ErrNotConfigured.
func LoadCredentials(host string) (Credentials, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(hostKey(host))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Credentials{}, ErrNotConfigured
		}
		return Credentials{}, fmt.Errorf("failed to get credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(item.Data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return creds, nil
}

// DeleteCredentials removes everything stored for host. Removing a host
// that was never stored is not an error.
func DeleteCredentials(host string) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}

	if err := ring.Remove(hostKey(host)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	hosts, err := loadHostIndex(ring)
	if err != nil {
		return err
	}
	remaining := hosts[:0]
	for _, h := range hosts {
		if h != strings.ToLower(strings.TrimSpace(host)) {
			remaining = append(remaining, h)
		}
	}
	return saveHostIndex(ring, remaining)
}

// ListHosts returns the hosts with stored credentials, sorted.
func ListHosts() ([]string, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return loadHostIndex(ring)
}

// ApplyEnv overrides stored secrets with UNIONCLOUD_PASSWORD and
// UNIONCLOUD_APP_SECRET when they are set.
func (c Credentials) ApplyEnv() Credentials {
	if v, ok := secretEnv(envPassword); ok {
		c.Password = v
	}
	if v, ok := secretEnv(envAppSecret); ok {
		c.AppSecret = v
	}
	return c
}

func loadHostIndex(ring keyring.Keyring) ([]string, error) {
	item, err := ring.Get(hostIndexKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get host index: %w", err)
	}
	var hosts []string
	if err := json.Unmarshal(item.Data, &hosts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal host index: %w", err)
	}
	return hosts, nil
}

func saveHostIndex(ring keyring.Keyring, hosts []string) error {
	data, err := json.Marshal(normalizeHosts(hosts))
	if err != nil {
		return fmt.Errorf("failed to marshal host index: %w", err)
	}
	return ring.Set(keyring.Item{Key: hostIndexKey, Data: data})
}

func normalizeHosts(hosts []string) []string {
	seen := make(map[string]struct{}, len(hosts))
	out := []string{}
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
