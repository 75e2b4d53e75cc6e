package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// The group details and membership save endpoints predate the versioned
// resources: they take the token as a query parameter and do not wrap
// results in "data".

// Details lists student groups.
func (s GroupsService) Details(ctx context.Context) ([]Record, error) {
	resp, err := s.do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/get_group_details",
		Query:  s.tokenQuery(),
		Body:   []any{},
	})
	if err != nil {
		return nil, err
	}

	// get_group_details holds a JSON document encoded as a string
	raw, err := field(resp, "get_group_details")
	if err != nil {
		return nil, err
	}
	var details struct {
		Groups []Record `json:"groups"`
	}
	if err := json.Unmarshal([]byte(raw.String()), &details); err != nil {
		return nil, &MalformedResponseError{StatusCode: resp.StatusCode, Field: "get_group_details"}
	}
	if details.Groups == nil {
		details.Groups = []Record{}
	}
	return details.Groups, nil
}

// SaveMemberships records memberships described by params, which are sent
// as query parameters alongside the token.
func (s GroupsService) SaveMemberships(ctx context.Context, params map[string]string) (Record, error) {
	q := s.tokenQuery()
	for k, v := range params {
		q.Set(k, v)
	}
	return getEnvelope(ctx, s, Request{
		Method: http.MethodPost,
		Path:   "/save_memberships",
		Query:  q,
		Body:   []any{},
	})
}

func (s GroupsService) tokenQuery() url.Values {
	return url.Values{headerAuthToken: {s.Session().AuthToken}}
}
