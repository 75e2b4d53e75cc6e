package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yusu/unioncloud-cli/internal/api"
	"github.com/yusu/unioncloud-cli/internal/config"
	"github.com/yusu/unioncloud-cli/internal/debug"
)

var errNoSession = errors.New("no stored session and no password to log in with")

// newAPIClient is replaced in tests to point the client at a test server.
var newAPIClient = api.New

var now = time.Now

type clientFactory struct {
	cfg config.ClientConfig
}

func newClientFactory() (*clientFactory, error) {
	cfg, err := config.ResolveClientConfig(settings)
	if err != nil {
		return nil, err
	}
	return &clientFactory{cfg: cfg}, nil
}

// bare builds a client with the configured trust settings and no session.
func (f *clientFactory) bare() (*api.Client, error) {
	client := newAPIClient(f.cfg.Host)
	if f.cfg.CABundle != "" {
		if err := client.LoadCABundle(f.cfg.CABundle); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// authenticated builds a client carrying the stored session. An expired
// or missing session is renewed with the stored password when one is
// available, and the new session is saved.
func (f *clientFactory) authenticated(ctx context.Context) (*api.Client, error) {
	client, err := f.bare()
	if err != nil {
		return nil, err
	}

	if f.cfg.HasSession() && !f.cfg.SessionExpired(now()) {
		var expiresIn time.Duration
		if !f.cfg.AuthTokenExpiresAt.IsZero() {
			expiresIn = f.cfg.AuthTokenExpiresAt.Sub(now())
		}
		client.SetAuthToken(f.cfg.AuthToken, expiresIn)
		return client, nil
	}

	if f.cfg.Email == "" || f.cfg.Password == "" || f.cfg.AppID == "" {
		return nil, errNoSession
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("renewing session", "host", f.cfg.Host, "had_session", f.cfg.HasSession())
	}
	if err := client.Authenticate(ctx, f.cfg.Email, f.cfg.Password, f.cfg.AppID, f.cfg.AppSecret); err != nil {
		return nil, err
	}
	if err := f.saveSession(client.Session()); err != nil {
		return nil, err
	}
	return client, nil
}

// saveSession updates the stored session, leaving stored secrets as they
// were so environment overrides never reach the keyring.
func (f *clientFactory) saveSession(session api.Session) error {
	creds, err := config.LoadCredentials(f.cfg.Host)
	if err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return err
	}
	creds.AuthToken = session.AuthToken
	creds.AuthTokenExpiresAt = session.AuthTokenExpiresAt
	return config.SaveCredentials(f.cfg.Host, creds)
}

// getClient creates an authenticated API client from the loaded settings
// and stored credentials.
func getClient(ctx context.Context) (*api.Client, error) {
	factory, err := newClientFactory()
	if err != nil {
		return nil, err
	}
	return factory.authenticated(ctx)
}
