package keycrm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any request when no key is configured.
var ErrMissingAPIKey = errors.New("KEYCRM_API_KEY is not configured")

// APIError is a non-2xx answer from KeyCRM.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("keycrm: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a KeyCRM 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
