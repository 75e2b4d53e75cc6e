package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusu/unioncloud-cli/internal/resolve"
)

const userGroupsBody = `{"data":[
	{"ug_id":7,"ug_name":"Chess Club A"},
	{"ug_id":8,"ug_name":"Rowing Club"},
	{"ug_id":9,"ug_name":"Chess Club B"}
]}`

func TestUserGroupsList_FollowsPages(t *testing.T) {
	var pages []string
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/user_groups", func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			pages = append(pages, page)
			w.Header().Set("total_pages", "2")
			if page == "2" {
				jsonResponse(200, `{"data":[{"ug_id":10,"ug_name":"Film"}]}`)(w, r)
				return
			}
			jsonResponse(200, userGroupsBody)(w, r)
		}))

	stdout, _, err := run(t, "usergroups", "list", "-o", "json", "--jq", "[.[].ug_id]")
	require.NoError(t, err)
	assert.JSONEq(t, `[7,8,9,10]`, stdout)
	assert.Equal(t, []string{"", "2"}, pages)
}

func TestUserGroupsGet_ByName(t *testing.T) {
	var fetched bool
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/user_groups", jsonResponse(200, userGroupsBody)).
		On(http.MethodGet, "/api/user_groups/8", func(w http.ResponseWriter, r *http.Request) {
			fetched = true
			jsonResponse(200, `{"data":[{"ug_id":8,"ug_name":"Rowing Club"}]}`)(w, r)
		}))

	stdout, _, err := run(t, "usergroups", "get", "rowing", "-o", "json")
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Contains(t, stdout, "Rowing Club")
}

func TestUserGroupsGet_AmbiguousName(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/user_groups", jsonResponse(200, userGroupsBody)))

	_, stderr, err := run(t, "usergroups", "get", "chess")
	require.Error(t, err)
	var ambiguous *resolve.AmbiguousError
	assert.ErrorAs(t, err, &ambiguous)
	assert.Contains(t, stderr, "numeric ID")
}

func TestUserGroupsMembers_NumericIDSkipsLookup(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/user_groups/7/user_group_memberships",
			jsonResponse(200, `{"data":[{"ugm_id":1,"uid":42,"ug_id":7}]}`)))

	stdout, _, err := run(t, "usergroups", "members", "7", "--jq", ".[0].uid")
	require.NoError(t, err)
	assert.Equal(t, "42\n", stdout)
}

func TestUserGroupsFind(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/user_groups", jsonResponse(200, userGroupsBody)))

	stdout, _, err := run(t, "usergroups", "find", "chess", "-o", "json")
	require.NoError(t, err)
	out := decodeJSON[[]map[string]any](t, stdout)
	require.Len(t, out, 2)
	for _, m := range out {
		assert.Contains(t, m["ug_name"], "Chess")
	}
}

func TestUserGroupsCreateUpdateDelete(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodPost, "/api/user_groups", jsonResponse(200, `{"data":[{"ug_id":11,"ug_name":"Go Club"}]}`)).
		On(http.MethodPut, "/api/user_groups/11", jsonResponse(200, `{"data":[{"ug_id":11,"ug_name":"Golang Club"}]}`)).
		On(http.MethodDelete, "/api/user_groups/11", jsonResponse(200, `{"data":[{"ug_id":11}]}`)))

	stdout, _, err := run(t, "usergroups", "create", "--data", `{"ug_name":"Go Club"}`, "--jq", ".[0].ug_id")
	require.NoError(t, err)
	assert.Equal(t, "11\n", stdout)

	stdout, _, err = run(t, "usergroups", "update", "11", "--data", `{"ug_name":"Golang Club"}`, "--jq", ".ug_name")
	require.NoError(t, err)
	assert.Equal(t, "\"Golang Club\"\n", stdout)

	_, _, err = run(t, "usergroups", "delete", "11")
	require.NoError(t, err)
}

func TestUserGroupsFolders(t *testing.T) {
	setupLoggedInEnv(t, newRouteHandler().
		On(http.MethodGet, "/api/user_groups/folderstructure",
			jsonResponse(200, `{"data":[{"ug_folder_id":1,"ug_folder_name":"Societies"}]}`)))

	stdout, _, err := run(t, "usergroups", "folders")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Societies")
}
