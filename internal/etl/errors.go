package etl

import "fmt"

// ── Errors ─────────────────────────────────────────────────
// One error type per stage. A failed run surfaces exactly one of these,
// carrying the stage's context and the root cause.

// FetchError reports a failed remote retrieval.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports malformed, empty, or uncleanable input.
type ParseError struct {
	Input string // staged file path or source description
	Err   error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Input, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// LoadError reports a failed warehouse write or a dataset invariant
// violation detected at load time.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Table, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }
