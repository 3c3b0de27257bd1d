package crm

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means no CRM API key is set; only an operator can fix it.
// ErrNotFound means redeem could not resolve a CRM order.
var (
	ErrNotConfigured  = errors.New("KEYCRM_API_KEY is not configured")
	ErrNotFound       = errors.New("Certificate not found in CRM")
	ErrCodeRequired   = errors.New("code is required")
	ErrAmountRequired = errors.New("code and amount are required")
)

// RemoteError is any failed round trip to the CRM: a non-2xx answer, a
// transport failure or a timeout.
type RemoteError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("crm %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("crm %s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }
