package api

import (
	"context"
	"fmt"
	"net/http"
)

// Create adds a user to a user group.
func (s MembershipsService) Create(ctx context.Context, data Record) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPost,
		Path:   "/user_group_memberships",
		Body:   dataBody(data),
	})
}

// CreateMultiple adds several memberships in one request.
func (s MembershipsService) CreateMultiple(ctx context.Context, data []Record) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPost,
		Path:   "/user_group_memberships/upload",
		Body:   dataBody(data),
	})
}

func (s MembershipsService) Update(ctx context.Context, id int, data Record) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/user_group_memberships/%d", id),
		Body:   dataBody(data),
	})
}

func (s MembershipsService) Delete(ctx context.Context, id int) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/user_group_memberships/%d", id),
	})
}
