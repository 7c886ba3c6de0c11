package api

import (
	"fmt"
)

// APIError is an admin endpoint answering with a non-200 status or with
// an error notice on the page.
type APIError struct {
	StatusCode int
	Operation  string
	URL        string
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("back office error during %s %s (%d): %s - %s", e.Operation, e.URL, e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("back office error during %s %s (%d): %s", e.Operation, e.URL, e.StatusCode, e.Message)
}

// NetworkError is a request that got no response.
type NetworkError struct {
	Operation string
	URL       string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s to %s: %v", e.Operation, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
