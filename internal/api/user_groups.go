package api

import (
	"context"
	"fmt"
	"iter"
	"net/http"
)

// All lists every user group, following total_pages.
func (s UserGroupsService) All(ctx context.Context, mode Mode) ([]Record, error) {
	return collectPages(s.AllSeq(ctx, mode))
}

// AllSeq is the lazy form of All. Pages are requested as the caller
// ranges; breaking out of the loop stops further requests.
func (s UserGroupsService) AllSeq(ctx context.Context, mode Mode) iter.Seq2[Record, error] {
	return paginate[Record](ctx, s, Request{
		Method: http.MethodGet,
		Path:   "/user_groups",
		Query:  modeQuery(mode.or(ModeStandard)),
	})
}

// Search finds user groups matching filters.
func (s UserGroupsService) Search(ctx context.Context, filters Record, mode Mode) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPost,
		Path:   "/user_groups/search",
		Query:  modeQuery(mode.or(ModeStandard)),
		Body:   dataBody(filters),
	})
}

// Create creates user groups.
func (s UserGroupsService) Create(ctx context.Context, data Record) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPost,
		Path:   "/user_groups",
		Body:   dataBody(data),
	})
}

// Get retrieves one user group.
func (s UserGroupsService) Get(ctx context.Context, id int, mode Mode) (Record, error) {
	return getFirst(ctx, s, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/user_groups/%d", id),
		Query:  modeQuery(mode.or(ModeStandard)),
	})
}

// Members lists every membership of a user group, following total_pages.
func (s UserGroupsService) Members(ctx context.Context, id int, mode Mode) ([]Record, error) {
	return collectPages(s.MembersSeq(ctx, id, mode))
}

// MembersSeq is the lazy form of Members.
func (s UserGroupsService) MembersSeq(ctx context.Context, id int, mode Mode) iter.Seq2[Record, error] {
	return paginate[Record](ctx, s, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/user_groups/%d/user_group_memberships", id),
		Query:  pageModeQuery(1, mode.or(ModeStandard)),
	})
}

func (s UserGroupsService) Update(ctx context.Context, id int, data Record) (Record, error) {
	return getFirst(ctx, s, Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/user_groups/%d", id),
		Body:   dataBody(data),
	})
}

func (s UserGroupsService) Delete(ctx context.Context, id int) (Record, error) {
	return getFirst(ctx, s, Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/user_groups/%d", id),
	})
}

// FolderStructure returns the folder tree user groups are filed under.
func (s UserGroupsService) FolderStructure(ctx context.Context) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodGet,
		Path:   "/user_groups/folderstructure",
	})
}
