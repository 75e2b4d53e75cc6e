package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/yusu/unioncloud-cli/internal/debug"
)

type authenticateRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	AppID     string `json:"app_id"`
	DateStamp string `json:"date_stamp"`
	Hash      string `json:"hash"`
}

// signingHash is the hex SHA-256 of the concatenated fields, in the order
// the server recomputes it.
func signingHash(email, password, appID, dateStamp, appSecret string) string {
	sum := sha256.Sum256([]byte(email + password + appID + dateStamp + appSecret))
	return hex.EncodeToString(sum[:])
}

// Authenticate exchanges user and application credentials for an auth
// token and stores it, with its expiry, in the client's session.
func (c *Client) Authenticate(ctx context.Context, email, password, appID, appSecret string) error {
	dateStamp := strconv.FormatInt(c.now().Unix(), 10)
	body := authenticateRequest{
		Email:     email,
		Password:  password,
		AppID:     appID,
		DateStamp: dateStamp,
		Hash:      signingHash(email, password, appID, dateStamp, appSecret),
	}

	resp, err := c.execute(ctx, Request{Method: http.MethodPost, Path: "/authenticate", Body: body})
	if err != nil {
		return err
	}

	switch classifyEnvelope(resp.Body) {
	case shapeSuccessA:
		token, err := field(resp, "response.auth_token")
		if err != nil {
			return err
		}
		expiresIn, err := expiresInSeconds(resp)
		if err != nil {
			return err
		}
		c.setAuthToken(token.String(), c.now().Add(time.Duration(expiresIn)*time.Second))
		if debug.IsEnabled(ctx) {
			slog.Debug("authenticated", "host", c.Session().Host, "expires_in", expiresIn)
		}
		return nil
	case shapeErrorA:
		errField := gjson.GetBytes(resp.Body, "error")
		message := errField.Get("message").String()
		if message == "" {
			message = fmt.Sprintf("result %q", gjson.GetBytes(resp.Body, "result").String())
		}
		return &AuthenticationError{
			Code:    errField.Get("code").String(),
			Message: message,
		}
	case shapeErrorB:
		var apiErr *APIError
		if errors.As(normalize(resp), &apiErr) {
			return &AuthenticationError{Code: apiErr.Code, Message: apiErr.Message}
		}
	}
	return &MalformedResponseError{StatusCode: resp.StatusCode, Field: "result"}
}

// expiresInSeconds reads response.expires_in_seconds, falling back to the
// older response.expires field.
func expiresInSeconds(resp *Response) (int64, error) {
	for _, path := range []string{"response.expires_in_seconds", "response.expires"} {
		if value := gjson.GetBytes(resp.Body, path); value.Exists() {
			return value.Int(), nil
		}
	}
	return 0, &MalformedResponseError{StatusCode: resp.StatusCode, Field: "response.expires_in_seconds"}
}
