package gateway

import (
	"errors"
)

const (
	networkErrorMessage = "Network error. Please try again later."
	fallbackMessage     = "An error occurred."
)

// ErrDecode is wrapped when a successful response body cannot be decoded.
var ErrDecode = errors.New("failed to decode response body")

// NetworkError is returned when no response reached the client.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return networkErrorMessage
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err carries a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
