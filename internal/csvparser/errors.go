package csvparser

import (
	"errors"
	"fmt"
)

// ErrHeaderNotFound is matched by every *HeaderNotFoundError.
var ErrHeaderNotFound = errors.New("header marker not found")

// ErrInvalidEncoding is wrapped by a *ReadError when a file is not UTF-8.
var ErrInvalidEncoding = errors.New("file is not valid UTF-8")

// HeaderNotFoundError reports a file with no line containing the marker.
type HeaderNotFoundError struct {
	Path   string
	Marker string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("%s: could not find CSV headers (no line contains %q)", e.Path, e.Marker)
}

// Is makes errors.Is(err, ErrHeaderNotFound) hold.
func (e *HeaderNotFoundError) Is(target error) bool {
	return target == ErrHeaderNotFound
}

// ReadError reports a file that could not be opened, read or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// MalformedRowError reports a data row with more fields than the header.
type MalformedRowError struct {
	Path    string
	Line    int
	Fields  int
	Columns int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s: line %d has %d fields, header has %d columns", e.Path, e.Line, e.Fields, e.Columns)
}
