package dataset

import (
	"fmt"
	"strings"
)

// FileAccessError indicates the input path is missing or cannot be read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	if e == nil {
		return "file access failed"
	}
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// SchemaError indicates required columns are absent or a column has the wrong shape.
type SchemaError struct {
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("schema: missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("schema: %s", e.Reason)
}

// ParseError indicates a present value could not be coerced to its column type.
// Row is the 1-based data row (the header is row 0).
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("parse: row %d: %v", e.Row, e.Err)
	}
	if e.Row > 0 {
		return fmt.Sprintf("parse: row %d column %s: cannot coerce %q: %v", e.Row, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("parse: column %s: cannot coerce %q: %v", e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
