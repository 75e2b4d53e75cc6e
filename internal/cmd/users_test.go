package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userBody = `{"data":[{"uid":42,"forename":"Jo","surname":"Smith","email":"jo@example.com"}]}`

func TestUsersGet(t *testing.T) {
	var gotQuery string
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/users/42", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			assert.Equal(t, "test-token", r.Header.Get("auth_token"))
			jsonResponse(200, userBody)(w, r)
		}))

	stdout, _, err := run(t, "users", "get", "42", "--mode", "full")
	require.NoError(t, err)
	assert.Equal(t, "mode=full", gotQuery)
	assert.Contains(t, stdout, "forename")
	assert.Contains(t, stdout, "Smith")

	stdout, _, err = run(t, "users", "get", "42", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "mode=standard", gotQuery)
	out := decodeJSON[map[string]any](t, stdout)
	assert.Equal(t, "jo@example.com", out["email"])
}

func TestUsersGet_InvalidInput(t *testing.T) {
	setupLoggedInEnv(t, http.NotFoundHandler())

	_, _, err := run(t, "users", "get", "abc")
	assert.ErrorContains(t, err, "must be a number")
	assert.Equal(t, exitUsage, ExitCode(err))

	_, _, err = run(t, "users", "get", "42", "--mode", "everything")
	assert.ErrorContains(t, err, "must be one of basic, standard, full")
	assert.Equal(t, exitUsage, ExitCode(err))

	_, _, err = run(t, "users", "get")
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestUsersSearch(t *testing.T) {
	var body map[string]any
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodPost, "/api/users/search", func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			jsonResponse(200, userBody)(w, r)
		}))

	stdout, _, err := run(t, "users", "search", "--filter", "surname=Smith", "--data", `{"forename":"Jo"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": map[string]any{"surname": "Smith", "forename": "Jo"}}, body)
	assert.Contains(t, stdout, "jo@example.com")
}

func TestUsersSearch_RequiresFilter(t *testing.T) {
	setupLoggedInEnv(t, http.NotFoundHandler())

	_, _, err := run(t, "users", "search")
	assert.ErrorContains(t, err, "at least one --filter or --data is required")
}

func TestUsersMemberships(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/users/42/user_group_memberships",
			jsonResponse(200, `{"data":[{"ugm_id":5,"ug_id":7,"ug_name":"Chess"}]}`)))

	stdout, _, err := run(t, "users", "memberships", "42", "-o", "jsonl")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ugm_id":5,"ug_id":7,"ug_name":"Chess"}`, stdout)
}

func TestUsersUpdateAndDelete(t *testing.T) {
	var updateBody string
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodPut, "/api/users/42", func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			updateBody = string(raw)
			jsonResponse(200, userBody)(w, r)
		}).
		On(http.MethodDelete, "/api/users/42", jsonResponse(200, `{"data":[{"uid":42}]}`)))

	_, _, err := run(t, "users", "update", "42", "--data", `{"email":"new@example.com"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"email":"new@example.com"}}`, updateBody)

	stdout, _, err := run(t, "users", "delete", "42", "--jq", ".uid")
	require.NoError(t, err)
	assert.Equal(t, "42\n", stdout)
}

func TestUsersUpdate_RequiresData(t *testing.T) {
	setupLoggedInEnv(t, http.NotFoundHandler())

	_, _, err := run(t, "users", "update", "42")
	assert.ErrorContains(t, err, "--data or --data-file is required")

	_, _, err = run(t, "users", "update", "42", "--data", `[1,2]`)
	assert.ErrorContains(t, err, "must be a JSON object")
}
