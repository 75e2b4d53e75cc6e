package api

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/yusu/unioncloud-cli/internal/debug"
)

// ExportSource opens the files that export endpoints point at. Export
// endpoints answer with {"file_path": ...}, a path on the API host's
// storage, so a source only works where that storage is reachable.
type ExportSource interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// LocalExportSource opens export paths on the local filesystem. This is
// the co-located deployment: the client runs with the API server's shared
// storage mounted at the same location.
type LocalExportSource struct{}

func (LocalExportSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// FSExportSource resolves export paths inside FS, for shared storage that
// is mounted under a different root. The leading slash of the server path
// is dropped before lookup.
type FSExportSource struct {
	FS fs.FS
}

func (s FSExportSource) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return s.FS.Open(strings.TrimPrefix(path, "/"))
}

// resolveExport reads the file named by the response's file_path field
// and decodes it as JSON.
func resolveExport(ctx context.Context, r Requester, resp *Response) (any, error) {
	value, err := field(resp, "file_path")
	if err != nil {
		return nil, err
	}
	path := value.String()

	f, err := r.exportSource().Open(ctx, path)
	if err != nil {
		return nil, &ExportIOError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ExportIOError{Path: path, Err: err}
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ExportDecodeError{Path: path, Err: err}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("export resolved", "path", path, "bytes", len(data))
	}
	return out, nil
}
