package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldCount is wrapped by MalformedRecordError when a record has the
	// wrong number of fields.
	ErrFieldCount = errors.New("unexpected field count")

	// ErrEmpty is returned by Load when a blob contains no records.
	ErrEmpty = errors.New("dataset: no records")
)

// MalformedRecordError reports a record that could not be parsed.
type MalformedRecordError struct {
	// Line is the 1-based line number.
	Line int
	// Fields is the number of comma-separated fields found on the line.
	Fields int
	Err    error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("dataset: line %d: malformed record with %d fields: %v", e.Line, e.Fields, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
