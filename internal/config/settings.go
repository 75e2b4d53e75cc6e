package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "UNIONCLOUD"
	configFileName = "config"
	configFileType = "yaml"
)

// Settings are the non-secret options read from the config file and
// UNIONCLOUD_* environment variables.
type Settings struct {
	Host     string `mapstructure:"host" yaml:"host" validate:"required,hostname_port|hostname_rfc1123"`
	Email    string `mapstructure:"email" yaml:"email,omitempty" validate:"omitempty,email"`
	AppID    string `mapstructure:"app_id" yaml:"app_id,omitempty"`
	CABundle string `mapstructure:"ca_bundle" yaml:"ca_bundle,omitempty"`
	Output   string `mapstructure:"output" yaml:"output,omitempty" validate:"omitempty,oneof=text json jsonl ndjson yaml yml"`
}

var settingsKeys = []string{"host", "email", "app_id", "ca_bundle", "output"}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfigPath is $XDG_CONFIG_HOME/unioncloud/config.yaml or the
// platform equivalent.
func DefaultConfigPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "unioncloud", configFileName+"."+configFileType), nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType(configFileType)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		def, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(def))
		v.SetConfigName(configFileName)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for _, key := range settingsKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// LoadSettings reads path (or the default location when path is empty)
// and overlays the environment. A missing default file is not an error;
// a missing explicit file is.
func LoadSettings(path string) (Settings, error) {
	v, err := newViper(path)
	if err != nil {
		return Settings{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}
	s.Host = NormalizeHost(s.Host)
	return s, nil
}

// SaveSettings writes s to path (or the default location), creating the
// directory if needed. Empty fields are left out.
func SaveSettings(path string, s Settings) (string, error) {
	if path == "" {
		def, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = def
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configFileType)
	values := map[string]string{
		"host":      s.Host,
		"email":     s.Email,
		"app_id":    s.AppID,
		"ca_bundle": s.CABundle,
		"output":    s.Output,
	}
	for key, value := range values {
		if value != "" {
			v.Set(key, value)
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// Validate checks the settings needed to reach the API.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required (set it with --%s, UNIONCLOUD_%s or the config file)", name, name, strings.ToUpper(name))
	case "email":
		return fmt.Sprintf("%s %q is not a valid email address", name, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s %q must be one of: %s", name, fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s %q is not a valid host name", name, fe.Value())
	}
}

// NormalizeHost strips a scheme and trailing slash from host.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}
