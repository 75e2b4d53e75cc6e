// Package iocontext lets commands take their streams from a context so
// tests can capture output.
package iocontext

import (
	"context"
	"io"
	"os"
)

// IO holds the streams a command reads from and writes to.
type IO struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
}

// DefaultIO returns the process streams.
func DefaultIO() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

// ReadInput reads a whole file, or standard input when path is "-".
func (s *IO) ReadInput(path string) ([]byte, error) {
	if path == "-" {
		if s.In == nil {
			return nil, nil
		}
		return io.ReadAll(s.In)
	}
	return os.ReadFile(path)
}

type ioKey struct{}

// WithIO attaches streams to ctx.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO returns the streams attached to ctx, or the process streams.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}
