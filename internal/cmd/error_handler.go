package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yusu/unioncloud-cli/internal/api"
	"github.com/yusu/unioncloud-cli/internal/config"
	"github.com/yusu/unioncloud-cli/internal/resolve"
)

// errAlreadyHandled marks an error that was already printed to stderr.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var authErr *api.AuthenticationError
	var apiErr *api.APIError
	var transportErr *api.TransportError
	var malformedErr *api.MalformedResponseError
	var ambiguousErr *resolve.AmbiguousError

	switch {
	case errors.Is(err, config.ErrNotConfigured), errors.Is(err, errNoSession):
		fmt.Fprintf(&msg, "Not logged in: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: unioncloud auth login --email E --app-id A\n")
		msg.WriteString("  - Check the host: unioncloud auth status\n")

	case errors.As(err, &authErr):
		fmt.Fprintf(&msg, "Authentication failed: %s\n\n", authErr.Message)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the email and password\n")
		msg.WriteString("  - Check the app ID and app secret issued for your union\n")
		msg.WriteString("  - Run: unioncloud auth login\n")

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErr.Message)
		msg.WriteString(suggestionsForAPIError(apiErr))

	case errors.As(err, &malformedErr):
		fmt.Fprintf(&msg, "Unexpected response: %s\n\n", malformedErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Use --debug to see the exchange\n")
		msg.WriteString("  - Check that --host points at a UnionCloud API\n")

	case api.IsExportError(err):
		fmt.Fprintf(&msg, "Export failed: %s\n\n", err)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Export files are written to the API host's storage\n")
		msg.WriteString("  - Check that the export path is readable from this machine\n")

	case errors.As(err, &transportErr):
		fmt.Fprintf(&msg, "Request failed: %s\n\n", transportErr.Error())
		msg.WriteString(suggestionsForTransport(transportErr))

	case errors.As(err, &ambiguousErr):
		fmt.Fprintf(&msg, "%s\n\n", ambiguousErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Pass the numeric ID instead\n")
		msg.WriteString("  - Run: unioncloud usergroups find <name>\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForAPIError(apiErr *api.APIError) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch apiErr.StatusCode {
	case 401:
		suggestions.WriteString("  - Your session may have expired\n")
		suggestions.WriteString("  - Run: unioncloud auth login\n")
	case 403:
		suggestions.WriteString("  - Your account lacks permission for this action\n")
		suggestions.WriteString("  - Ask your union administrator for access\n")
	case 404:
		suggestions.WriteString("  - Check the ID is correct\n")
		suggestions.WriteString("  - The resource may have been deleted\n")
	default:
		if apiErr.Code != "" {
			fmt.Fprintf(&suggestions, "  - Error code: %s\n", apiErr.Code)
		}
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}

func suggestionsForTransport(transportErr *api.TransportError) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	cause := strings.ToLower(fmt.Sprint(transportErr.Err))
	switch {
	case strings.Contains(cause, "no such host"):
		suggestions.WriteString("  - Check the host name spelling\n")
		suggestions.WriteString("  - Verify your DNS settings\n")
	case strings.Contains(cause, "certificate"):
		suggestions.WriteString("  - Pass the union's CA certificates with --ca-bundle\n")
		suggestions.WriteString("  - Check the server certificate is valid for the host\n")
	case strings.Contains(cause, "connection refused"):
		suggestions.WriteString("  - Check the API server is reachable\n")
	default:
		suggestions.WriteString("  - Check your network connection\n")
		suggestions.WriteString("  - Use --debug to see the request\n")
	}

	return suggestions.String()
}

// writeJSONError reports err as {"error": {...}} for machine consumers.
func writeJSONError(w io.Writer, err error) error {
	structured := api.StructuredErrorFromError(err)
	if structured.Code == api.ErrUnknown && ExitCode(err) == exitUsage {
		structured.Code = api.ErrValidation
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"error": structured})
}
