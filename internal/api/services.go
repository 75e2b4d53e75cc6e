package api

import "context"

// Service accessors group Client methods by resource.

type UploadsService struct{ *Client }

type GroupsService struct{ *Client }

type UsersService struct{ *Client }

type UserGroupsService struct{ *Client }

type MembershipsService struct{ *Client }

type EventTypesService struct{ *Client }

type EventsService struct{ *Client }

type EventTicketTypesService struct{ *Client }

type EventQuestionsService struct{ *Client }

type ElectionsService struct{ *Client }

func (c *Client) Uploads() UploadsService {
	return UploadsService{c}
}

func (c *Client) Groups() GroupsService {
	return GroupsService{c}
}

func (c *Client) Users() UsersService {
	return UsersService{c}
}

func (c *Client) UserGroups() UserGroupsService {
	return UserGroupsService{c}
}

func (c *Client) Memberships() MembershipsService {
	return MembershipsService{c}
}

func (c *Client) EventTypes() EventTypesService {
	return EventTypesService{c}
}

func (c *Client) Events() EventsService {
	return EventsService{c}
}

func (c *Client) EventTicketTypes() EventTicketTypesService {
	return EventTicketTypesService{c}
}

func (c *Client) EventQuestions() EventQuestionsService {
	return EventQuestionsService{c}
}

func (c *Client) Elections() ElectionsService {
	return ElectionsService{c}
}

// The helpers below are the three plain result strategies shared by the
// resource files: the data array, its first element, or the whole body.

func getData(ctx context.Context, r Requester, req Request) ([]Record, error) {
	resp, err := r.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return dataList(resp)
}

func getFirst(ctx context.Context, r Requester, req Request) (Record, error) {
	resp, err := r.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return firstData(resp)
}

func getEnvelope(ctx context.Context, r Requester, req Request) (Record, error) {
	resp, err := r.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return envelope(resp)
}

func getExport(ctx context.Context, r Requester, req Request) (any, error) {
	resp, err := r.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resolveExport(ctx, r, resp)
}
