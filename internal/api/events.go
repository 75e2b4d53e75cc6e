package api

import (
	"context"
	"fmt"
	"net/http"
)

// List returns the event types configured for the union.
func (s EventTypesService) List(ctx context.Context) ([]Record, error) {
	return getData(ctx, s, Request{Method: http.MethodGet, Path: "/event_types"})
}

// All lists events.
func (s EventsService) All(ctx context.Context, mode Mode) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodGet,
		Path:   "/events",
		Query:  modeQuery(mode.or(ModeStandard)),
	})
}

// Search finds events matching filters.
func (s EventsService) Search(ctx context.Context, filters Record, mode Mode) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPost,
		Path:   "/events/search",
		Query:  modeQuery(mode.or(ModeStandard)),
		Body:   dataBody(filters),
	})
}

func (s EventsService) Create(ctx context.Context, data Record) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPost,
		Path:   "/events",
		Body:   dataBody(data),
	})
}

func (s EventsService) Get(ctx context.Context, eventID int, mode Mode) (Record, error) {
	return getFirst(ctx, s, Request{
		Method: http.MethodGet,
		Path:   eventPath(eventID),
		Query:  modeQuery(mode.or(ModeStandard)),
	})
}

func (s EventsService) Update(ctx context.Context, eventID int, data Record) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPut,
		Path:   eventPath(eventID),
		Body:   dataBody(data),
	})
}

// Cancel cancels an event. The request has no body.
func (s EventsService) Cancel(ctx context.Context, eventID int) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodPut,
		Path:   eventPath(eventID) + "/cancel",
	})
}

// Attendees lists the attendees of an event.
func (s EventsService) Attendees(ctx context.Context, eventID int, mode Mode) ([]Record, error) {
	return getData(ctx, s, Request{
		Method: http.MethodGet,
		Path:   eventPath(eventID) + "/attendees",
		Query:  modeQuery(mode.or(ModeStandard)),
	})
}

func (s EventTicketTypesService) Create(ctx context.Context, eventID int, data Record) ([]Record, error) {
	return createEventChild(ctx, s, eventID, "event_ticket_types", data)
}

func (s EventTicketTypesService) Update(ctx context.Context, eventID, ticketTypeID int, data Record) ([]Record, error) {
	return updateEventChild(ctx, s, eventID, "event_ticket_types", ticketTypeID, data)
}

func (s EventTicketTypesService) Delete(ctx context.Context, eventID, ticketTypeID int) ([]Record, error) {
	return deleteEventChild(ctx, s, eventID, "event_ticket_types", ticketTypeID)
}

func (s EventQuestionsService) Create(ctx context.Context, eventID int, data Record) ([]Record, error) {
	return createEventChild(ctx, s, eventID, "questions", data)
}

func (s EventQuestionsService) Update(ctx context.Context, eventID, questionID int, data Record) ([]Record, error) {
	return updateEventChild(ctx, s, eventID, "questions", questionID, data)
}

func (s EventQuestionsService) Delete(ctx context.Context, eventID, questionID int) ([]Record, error) {
	return deleteEventChild(ctx, s, eventID, "questions", questionID)
}

func eventPath(eventID int) string {
	return fmt.Sprintf("/events/%d", eventID)
}

// Ticket types and questions share the /events/{id}/{kind}[/{child}] layout.

func createEventChild(ctx context.Context, r Requester, eventID int, kind string, data Record) ([]Record, error) {
	return getData(ctx, r, Request{
		Method: http.MethodPost,
		Path:   eventPath(eventID) + "/" + kind,
		Body:   dataBody(data),
	})
}

func updateEventChild(ctx context.Context, r Requester, eventID int, kind string, childID int, data Record) ([]Record, error) {
	return getData(ctx, r, Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("%s/%s/%d", eventPath(eventID), kind, childID),
		Body:   dataBody(data),
	})
}

func deleteEventChild(ctx context.Context, r Requester, eventID int, kind string, childID int) ([]Record, error) {
	return getData(ctx, r, Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("%s/%s/%d", eventPath(eventID), kind, childID),
	})
}
