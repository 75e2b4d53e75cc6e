package api

import (
	"context"
	"fmt"
	"net/http"
)

// Election endpoints return the whole envelope so callers can read the
// paging metadata next to the data. Pages are 1-based; anything lower is
// sent as page 1.

// Categories lists one page of election categories.
func (s ElectionsService) Categories(ctx context.Context, page int) (Record, error) {
	return getEnvelope(ctx, s, Request{
		Method: http.MethodGet,
		Path:   "/election_categories",
		Query:  pageQuery(page),
	})
}

func (s ElectionsService) Category(ctx context.Context, categoryID int) (Record, error) {
	return getEnvelope(ctx, s, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/election_categories/%d", categoryID),
	})
}

// Positions lists one page of election positions.
func (s ElectionsService) Positions(ctx context.Context, page int, mode Mode) (Record, error) {
	return getEnvelope(ctx, s, Request{
		Method: http.MethodGet,
		Path:   "/election_positions",
		Query:  pageModeQuery(page, mode.or(ModeFull)),
	})
}

func (s ElectionsService) Position(ctx context.Context, positionID int, mode Mode) (Record, error) {
	return getEnvelope(ctx, s, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/election_positions/%d", positionID),
		Query:  modeQuery(mode.or(ModeFull)),
	})
}

// List lists one page of elections.
func (s ElectionsService) List(ctx context.Context, page int, mode Mode) (Record, error) {
	return getEnvelope(ctx, s, Request{
		Method: http.MethodGet,
		Path:   "/elections",
		Query:  pageModeQuery(page, mode.or(ModeFull)),
	})
}

func (s ElectionsService) Get(ctx context.Context, electionID int, mode Mode) (Record, error) {
	return getEnvelope(ctx, s, Request{
		Method: http.MethodGet,
		Path:   electionPath(electionID),
		Query:  modeQuery(mode.or(ModeFull)),
	})
}

// Standings returns one page of the current standings of an election.
func (s ElectionsService) Standings(ctx context.Context, electionID, page int, mode Mode) (Record, error) {
	return getEnvelope(ctx, s, Request{
		Method: http.MethodGet,
		Path:   electionPath(electionID) + "/election_standings",
		Query:  pageModeQuery(page, mode.or(ModeStandard)),
	})
}

// Votes returns one page of the votes cast in an election.
func (s ElectionsService) Votes(ctx context.Context, electionID, page int) (Record, error) {
	return getEnvelope(ctx, s, Request{
		Method: http.MethodGet,
		Path:   electionPath(electionID) + "/votes",
		Query:  pageQuery(page),
	})
}

// Voters exports the voters of an election. The server writes the export
// to its storage and the file is read through the client's ExportSource.
func (s ElectionsService) Voters(ctx context.Context, electionID int, voterType VoterType, page int) (any, error) {
	q := pageQuery(page)
	q.Set("voter_type", string(voterType.or(VoterTypeActual)))
	return getExport(ctx, s, Request{
		Method: http.MethodGet,
		Path:   electionPath(electionID) + "/election_voters",
		Query:  q,
	})
}

// VotersDemographics exports voter demographics for an election, read the
// same way as Voters.
func (s ElectionsService) VotersDemographics(ctx context.Context, electionID int, voterType VoterType, page int, mode Mode) (any, error) {
	q := pageModeQuery(page, mode.or(ModeBasic))
	q.Set("voter_type", string(voterType.or(VoterTypeActual)))
	return getExport(ctx, s, Request{
		Method: http.MethodGet,
		Path:   electionPath(electionID) + "/election_voters_demographics",
		Query:  q,
	})
}

func electionPath(electionID int) string {
	return fmt.Sprintf("/elections/%d", electionID)
}
