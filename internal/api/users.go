package api

import (
	"context"
	"fmt"
	"net/http"
)

// Search finds users matching filters. Only the first page is returned.
func (s UsersService) Search(ctx context.Context, filters Record, mode Mode) ([]Record, error) {
	return searchUsers(ctx, s, filters, mode)
}

func searchUsers(ctx context.Context, r Requester, filters Record, mode Mode) ([]Record, error) {
	return getData(ctx, r, Request{
		Method: http.MethodPost,
		Path:   "/users/search",
		Query:  pageModeQuery(1, mode.or(ModeStandard)),
		Body:   dataBody(filters),
	})
}

// Get retrieves a user by UID.
func (s UsersService) Get(ctx context.Context, uid int, mode Mode) (Record, error) {
	return getUser(ctx, s, uid, mode)
}

func getUser(ctx context.Context, r Requester, uid int, mode Mode) (Record, error) {
	return getFirst(ctx, r, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/users/%d", uid),
		Query:  modeQuery(mode.or(ModeStandard)),
	})
}

// GroupMemberships lists the user group memberships of a user.
func (s UsersService) GroupMemberships(ctx context.Context, uid int, mode Mode) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/users/%d/user_group_memberships", uid),
		Query:  modeQuery(mode.or(ModeStandard)),
	})
}

// Update changes a user and returns the updated record.
func (s UsersService) Update(ctx context.Context, uid int, data Record) (Record, error) {
	return getFirst(ctx, s, Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/users/%d", uid),
		Body:   dataBody(data),
	})
}

// Delete removes a user.
func (s UsersService) Delete(ctx context.Context, uid int) (Record, error) {
	return getFirst(ctx, s, Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/users/%d", uid),
	})
}
