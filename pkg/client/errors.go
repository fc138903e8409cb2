package client

import "fmt"

// APIError is a non-success, non-throttling API response. It is fatal to
// the single call that produced it and terminates the enclosing page
// sequence early; it is never retried by the client.
type APIError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("opensea api returned %d for %s", e.StatusCode, e.URL)
}
