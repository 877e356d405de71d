package gemini

import "fmt"

// RequestError reports that the generative API call itself failed: a
// non-success HTTP status, a transport failure, or an elapsed timeout.
// These are transient from the caller's point of view and safe to retry.
type RequestError struct {
	// StatusCode is the HTTP status reported by the API, or zero when the
	// request never produced a response (network failure, timeout).
	StatusCode int

	// Body is the raw error payload returned by the API, kept for logs.
	Body string

	Err error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generative API request failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("generative API request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError reports that the API call succeeded but the returned payload
// did not match the declared response shape. Retrying without changing the
// prompt or schema will not help. Raw carries the offending payload for
// diagnostics; it must never be shown to chat users.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("generative API response did not match expected shape: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
