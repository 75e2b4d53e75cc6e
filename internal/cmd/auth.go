package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yusu/unioncloud-cli/internal/config"
	"github.com/yusu/unioncloud-cli/internal/iocontext"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage UnionCloud sessions",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		email         string
		appID         string
		password      string
		passwordStdin bool
		appSecret     string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session in the keyring",
		Long: `Log in with a UnionCloud user account and application key.

The password and app secret may also come from UNIONCLOUD_PASSWORD and
UNIONCLOUD_APP_SECRET. Both are stored in the OS keyring with the session,
so later commands can renew an expired session without asking again.`,
		Example: `  unioncloud --host union.unioncloud.co.uk auth login --email me@example.com --app-id abc123 --password-stdin < pass.txt`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password != "" && passwordStdin {
				return errors.New("--password and --password-stdin cannot be used together")
			}
			if passwordStdin {
				raw, err := iocontext.GetIO(cmd.Context()).ReadInput("-")
				if err != nil {
					return fmt.Errorf("failed to read password from stdin: %w", err)
				}
				password = strings.TrimRight(string(raw), "\r\n")
			}

			s := settings
			if email != "" {
				s.Email = email
			}
			if appID != "" {
				s.AppID = appID
			}
			if s.Email == "" {
				return errors.New("--email is required")
			}
			if s.AppID == "" {
				return errors.New("--app-id is required")
			}

			cfg, err := config.ResolveClientConfig(s)
			if err != nil {
				return err
			}
			if password != "" {
				cfg.Password = password
			}
			if appSecret != "" {
				cfg.AppSecret = appSecret
			}
			if cfg.Password == "" {
				return errors.New("password is required (use --password, --password-stdin or UNIONCLOUD_PASSWORD)")
			}

			factory := &clientFactory{cfg: cfg}
			client, err := factory.bare()
			if err != nil {
				return err
			}
			if err := client.Authenticate(cmd.Context(), cfg.Email, cfg.Password, cfg.AppID, cfg.AppSecret); err != nil {
				return err
			}

			session := client.Session()
			if err := config.SaveCredentials(cfg.Host, config.Credentials{
				Password:           cfg.Password,
				AppSecret:          cfg.AppSecret,
				AuthToken:          session.AuthToken,
				AuthTokenExpiresAt: session.AuthTokenExpiresAt,
			}); err != nil {
				return err
			}
			path, err := config.SaveSettings(flags.Config, config.Settings{
				Host:     cfg.Host,
				Email:    cfg.Email,
				AppID:    cfg.AppID,
				CABundle: cfg.CABundle,
				Output:   cfg.Output,
			})
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if f.Structured() {
				return f.Output(map[string]any{
					"host":        cfg.Host,
					"email":       cfg.Email,
					"app_id":      cfg.AppID,
					"expires_at":  session.AuthTokenExpiresAt.Format(time.RFC3339),
					"config_path": path,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s (session expires %s)\n",
				cfg.Host, cfg.Email, session.AuthTokenExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (env UNIONCLOUD_EMAIL)")
	cmd.Flags().StringVar(&appID, "app-id", "", "Application ID (env UNIONCLOUD_APP_ID)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (env UNIONCLOUD_PASSWORD)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().StringVar(&appSecret, "app-secret", "", "Application secret (env UNIONCLOUD_APP_SECRET)")

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session for the configured host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := settings.Validate(); err != nil {
				return err
			}

			creds, err := config.LoadCredentials(settings.Host)
			if err != nil && !errors.Is(err, config.ErrNotConfigured) {
				return err
			}
			hosts, err := config.ListHosts()
			if err != nil {
				return err
			}

			loggedIn := creds.HasSession() && !creds.SessionExpired(now())
			status := map[string]any{
				"host":      settings.Host,
				"email":     settings.Email,
				"app_id":    settings.AppID,
				"logged_in": loggedIn,
				"hosts":     hosts,
			}
			if !creds.AuthTokenExpiresAt.IsZero() {
				status["expires_at"] = creds.AuthTokenExpiresAt.Format(time.RFC3339)
			}

			f := newFormatter(cmd)
			if f.Structured() {
				if err := f.Output(status); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "Host:      %s\n", settings.Host)
				if settings.Email != "" {
					_, _ = fmt.Fprintf(out, "Email:     %s\n", settings.Email)
				}
				if settings.AppID != "" {
					_, _ = fmt.Fprintf(out, "App ID:    %s\n", settings.AppID)
				}
				switch {
				case loggedIn && creds.AuthTokenExpiresAt.IsZero():
					_, _ = fmt.Fprintln(out, "Session:   active")
				case loggedIn:
					_, _ = fmt.Fprintf(out, "Session:   active until %s\n", creds.AuthTokenExpiresAt.Local().Format(time.RFC1123))
				case creds.HasSession():
					_, _ = fmt.Fprintf(out, "Session:   expired %s\n", creds.AuthTokenExpiresAt.Local().Format(time.RFC1123))
				default:
					_, _ = fmt.Fprintln(out, "Session:   none")
				}
				if len(hosts) > 1 {
					_, _ = fmt.Fprintf(out, "Hosts:     %s\n", strings.Join(hosts, ", "))
				}
			}

			if !loggedIn && (creds.Password == "" || settings.Email == "" || settings.AppID == "") {
				return &handledError{err: errNoSession, exitCode: exitAuth}
			}
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hosts := []string{settings.Host}
			if all {
				stored, err := config.ListHosts()
				if err != nil {
					return err
				}
				hosts = stored
			} else if err := settings.Validate(); err != nil {
				return err
			}

			for _, host := range hosts {
				if err := config.DeleteCredentials(host); err != nil {
					return err
				}
			}

			f := newFormatter(cmd)
			if f.Structured() {
				return f.Output(map[string]any{"logged_out": hosts})
			}
			for _, host := range hosts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", host)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove credentials for every stored host")

	return cmd
}
