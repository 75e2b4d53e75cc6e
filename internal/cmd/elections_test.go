package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElectionsEnvelopeCommands(t *testing.T) {
	var queries []string
	envelope := func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		jsonResponse(200, `{"data":[{"election_id":2,"election_name":"President"}],"meta":{"count":1}}`)(w, r)
	}
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/election_categories", envelope).
		On(http.MethodGet, "/api/election_categories/1", envelope).
		On(http.MethodGet, "/api/election_positions", envelope).
		On(http.MethodGet, "/api/election_positions/4", envelope).
		On(http.MethodGet, "/api/elections", envelope).
		On(http.MethodGet, "/api/elections/2", envelope).
		On(http.MethodGet, "/api/elections/2/election_standings", envelope).
		On(http.MethodGet, "/api/elections/2/votes", envelope))

	for _, args := range [][]string{
		{"elections", "categories", "--page", "2"},
		{"elections", "category", "1"},
		{"elections", "positions"},
		{"elections", "position", "4", "--mode", "basic"},
		{"elections", "list"},
		{"elections", "get", "2"},
		{"elections", "standings", "2"},
		{"elections", "votes", "2", "--page", "3"},
	} {
		stdout, _, err := run(t, args...)
		require.NoError(t, err, "%v", args)
		assert.Contains(t, stdout, "President", "%v", args)
	}

	assert.Equal(t, []string{
		"/api/election_categories?page=2",
		"/api/election_categories/1?",
		"/api/election_positions?mode=full&page=1",
		"/api/election_positions/4?mode=basic",
		"/api/elections?mode=full&page=1",
		"/api/elections/2?mode=full",
		"/api/elections/2/election_standings?mode=standard&page=1",
		"/api/elections/2/votes?page=3",
	}, queries)
}

func TestElectionsEnvelope_JSONKeepsMeta(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/elections", jsonResponse(200, `{"data":[],"meta":{"count":0}}`)))

	stdout, _, err := run(t, "elections", "list", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"meta":{"count":0}}`, stdout)
}

func TestElectionsVoters_ReadsExport(t *testing.T) {
	exportPath := filepath.Join(t.TempDir(), "voters.json")
	require.NoError(t, os.WriteFile(exportPath, []byte(`[{"uid":42,"forename":"Jo","surname":"Smith"}]`), 0o600))

	var gotQuery string
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/elections/2/election_voters", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			jsonResponse(200, `{"file_path":"`+exportPath+`"}`)(w, r)
		}).
		On(http.MethodGet, "/api/elections/2/election_voters_demographics", jsonResponse(200, `{"file_path":"`+exportPath+`"}`)))

	stdout, _, err := run(t, "elections", "voters", "2")
	require.NoError(t, err)
	assert.Equal(t, "page=1&voter_type=actual", gotQuery)
	assert.Contains(t, stdout, "Smith")

	stdout, _, err = run(t, "elections", "demographics", "2", "--jq", ".[0].uid")
	require.NoError(t, err)
	assert.Equal(t, "42\n", stdout)
}

func TestElectionsVoters_MissingExport(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/elections/2/election_voters",
			jsonResponse(200, `{"file_path":"`+filepath.Join(t.TempDir(), "gone.json")+`"}`)))

	_, stderr, err := run(t, "elections", "voters", "2")
	require.Error(t, err)
	assert.Equal(t, exitExport, ExitCode(err))
	assert.Contains(t, stderr, "Export failed")
}
