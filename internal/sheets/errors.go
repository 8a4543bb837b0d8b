package sheets

import "fmt"

// NotFoundError indicates the backend answered with a non-2xx status for
// the requested sheet.
type NotFoundError struct {
	Sheet  string
	Status int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found or inaccessible (HTTP %d)", e.Sheet, e.Status)
}

// FormatError indicates the response did not match the expected envelope
// wrapper or table structure.
type FormatError struct {
	Sheet  string
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid response format for sheet %q: %s", e.Sheet, e.Detail)
}

// ParseError indicates the inner payload was not valid JSON.
type ParseError struct {
	Sheet string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response for sheet %q: %v", e.Sheet, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TimeoutError indicates the fetch exceeded its deadline. Callers decide
// whether to retry; this layer never does.
type TimeoutError struct {
	Sheet string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout while fetching sheet %q", e.Sheet)
}

// EmptyError indicates the sheet exists but contains zero rows.
type EmptyError struct {
	Sheet string
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("sheet %q is empty", e.Sheet)
}
