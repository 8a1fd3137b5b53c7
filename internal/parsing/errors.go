package parsing

import "fmt"

// ParseError represents a failure to interpret a single template block.
// One bad block never aborts the rest of the response.
type ParseError struct {
	Field string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error in %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("parse error in %s", e.Field)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
