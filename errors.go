package carteira

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is wrapped by every error about a ledger record that cannot be interpreted.
var ErrInvalidRecord = errors.New("invalid record")

// RecordError reports an un-interpretable record of a ledger.
type RecordError struct {
	Line  int    // 1-based line or row number, 0 if unknown
	Field string // offending field, if known
	Err   error
}

func (e *RecordError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("line %d: field %q: %v", e.Line, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	case e.Field != "":
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	default:
		return e.Err.Error()
	}
}

// Unwrap returns both the cause and ErrInvalidRecord, so that errors.Is works with either.
func (e *RecordError) Unwrap() []error { return []error{ErrInvalidRecord, e.Err} }

// invalid builds a RecordError for a field.
func invalid(field string, format string, args ...any) *RecordError {
	return &RecordError{Field: field, Err: fmt.Errorf(format, args...)}
}
