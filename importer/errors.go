package importer

import "fmt"

// ParseError wraps a decode failure with the format that produced it.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s diagram: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
