package source

import (
	"encoding/csv"
	"errors"
	"fmt"

	"financial-report/internal/charset"
)

// ErrConsumed is yielded when a single-pass sequence is iterated again.
var ErrConsumed = errors.New("record stream already consumed")

// ErrorKind classifies stream-level failures.
type ErrorKind string

const (
	KindUnsupported ErrorKind = "unsupported_input"
	KindIO          ErrorKind = "io"
	KindEncoding    ErrorKind = "encoding"
	KindMalformed   ErrorKind = "malformed"
)

// StreamError is a fatal failure that ends a record stream. Row-level problems
// never produce one.
type StreamError struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *StreamError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *StreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is a StreamError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

func newStreamError(kind ErrorKind, op, path string, err error) *StreamError {
	return &StreamError{Kind: kind, Op: op, Path: path, Err: err}
}

// readError classifies an error returned while reading rows.
func readError(op, path string, err error) *StreamError {
	var parseErr *csv.ParseError
	switch {
	case charset.IsDecodeError(err):
		return newStreamError(KindEncoding, op, path, err)
	case errors.As(err, &parseErr):
		return newStreamError(KindMalformed, op, path, err)
	default:
		return newStreamError(KindIO, op, path, err)
	}
}
