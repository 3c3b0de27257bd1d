package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"fenix-certificates/internal/codegen"
	"fenix-certificates/internal/domain"
)

var (
	ErrAmountRequired = errors.New("Amount is required")
	ErrAmountNotInt   = errors.New("Amount must be a whole number")
	ErrAmountNotPos   = errors.New("Amount must be greater than zero")
)

// MaxNameLength bounds recipient and manager names.
const MaxNameLength = 120

func IsValidCode(code string) bool {
	return codegen.Valid(code)
}

func IsValidAmount(amount int) bool {
	return amount > 0
}

// ParseAmount parses a custom amount typed by the operator. Surrounding
// spaces are ignored; anything else that is not a positive integer is rejected.
func ParseAmount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrAmountRequired
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrAmountNotInt
	}
	if !IsValidAmount(n) {
		return 0, ErrAmountNotPos
	}
	return n, nil
}

// IsValidISODate matches YYYY-MM-DD calendar dates.
func IsValidISODate(s string) bool {
	_, err := time.Parse(domain.ExpiryDateLayout, s)
	return err == nil
}

func IsValidName(name string) bool {
	return utf8.RuneCountInString(name) <= MaxNameLength
}
