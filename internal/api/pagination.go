package api

import (
	"context"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/yusu/unioncloud-cli/internal/debug"
)

// totalPages reads the total_pages header. A missing, non-numeric or
// non-positive value counts as a single page.
func totalPages(h http.Header) int {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(headerTotalPages)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// paginate returns a lazy sequence over the data items of every page of
// req. Page 1 is req as given; pages 2..total_pages repeat it with only the
// page parameter changed. Pages are fetched one at a time and only as the
// caller keeps ranging, so stopping early skips the remaining requests.
// Each range over the sequence starts again from page 1. A failed page
// ends the sequence with that error.
func paginate[T any](ctx context.Context, r Requester, req Request) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		total := 1
		for page := 1; page <= total; page++ {
			pageReq := req
			if page > 1 {
				pageReq = req.withPage(page)
			}
			resp, err := r.do(ctx, pageReq)
			if err != nil {
				yield(zero, err)
				return
			}
			if page == 1 {
				total = totalPages(resp.Header)
			}
			items, err := decodeField[[]T](resp, "data")
			if err != nil {
				yield(zero, err)
				return
			}
			if debug.IsEnabled(ctx) {
				slog.Debug("page fetched", "path", req.Path, "page", page, "total_pages", total, "items", len(items))
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// collectPages drains seq. Any error discards everything gathered so far.
func collectPages[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := make([]T, 0)
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
