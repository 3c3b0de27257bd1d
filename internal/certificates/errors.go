package certificates

import "errors"

var (
	ErrMissingCode   = errors.New("Certificate code is required")
	ErrInvalidCode   = errors.New("Certificate code must look like FNX-2025-ABC234")
	ErrNotPreset     = errors.New("Amount must be one of the presets; use custom_amount for other values")
	ErrInvalidAmount = errors.New("Amount must be a positive whole number")
	ErrInvalidExpiry = errors.New("Expiry date must be YYYY-MM-DD")
	ErrNameTooLong   = errors.New("Name is too long")
	ErrNotFound      = errors.New("Certificate not found")
)
