package api

import "context"

// Requester is the request surface resource helpers depend on. *Client
// implements it; tests can substitute a fake to exercise resource helpers
// without a server.
type Requester interface {
	// do executes one request and returns the response once its envelope
	// has been checked for an "errors" array.
	do(ctx context.Context, req Request) (*Response, error)

	// exportSource returns where export file paths are read from.
	exportSource() ExportSource
}
