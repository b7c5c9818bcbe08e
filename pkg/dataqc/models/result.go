package models

import "fmt"

// Source names used in parse errors.
const (
	SourcePDF   = "PDF"
	SourceExcel = "Excel"
)

// ParseError records why a source document could not be parsed.
type ParseError struct {
	// Source is the kind of document that failed ("PDF", "Excel").
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Error reading %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Result carries either extracted content or the parse error that replaced it.
type Result[T any] struct {
	Value T
	Err   *ParseError
}

// OK wraps successfully extracted content.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failed wraps a parse failure for the given source.
func Failed[T any](source string, err error) Result[T] {
	return Result[T]{Err: &ParseError{Source: source, Err: err}}
}

// IsOK reports whether the result holds content.
func (r Result[T]) IsOK() bool {
	return r.Err == nil
}
