package api

import (
	"context"
	"net/http"
)

// Students bulk-uploads student records.
func (s UploadsService) Students(ctx context.Context, records []Record) ([]Record, error) {
	return upload(ctx, s, "students", records)
}

// Guests bulk-uploads guest records.
func (s UploadsService) Guests(ctx context.Context, records []Record) ([]Record, error) {
	return upload(ctx, s, "guests", records)
}

// Programmes bulk-uploads programme records.
func (s UploadsService) Programmes(ctx context.Context, records []Record) ([]Record, error) {
	return upload(ctx, s, "programmes", records)
}

func upload(ctx context.Context, r Requester, kind string, records []Record) ([]Record, error) {
	return getData(ctx, r, Request{
		Method: http.MethodPost,
		Path:   "/json/upload/" + kind,
		Body:   dataBody(records),
	})
}
