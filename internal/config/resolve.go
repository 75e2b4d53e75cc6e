package config

import (
	"errors"
)

// ClientConfig is everything needed to build an API client for one host.
type ClientConfig struct {
	Settings
	Credentials
}

// ResolveClientConfig validates s and attaches the credentials stored for
// its host, with environment overrides applied. A host with nothing stored
// resolves to empty credentials.
func ResolveClientConfig(s Settings) (ClientConfig, error) {
	if err := s.Validate(); err != nil {
		return ClientConfig{}, err
	}

	creds, err := LoadCredentials(s.Host)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		return ClientConfig{}, err
	}
	return ClientConfig{Settings: s, Credentials: creds.ApplyEnv()}, nil
}
