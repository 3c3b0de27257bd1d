package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	n, err := ParseAmount(" 1500 ")
	require.NoError(t, err)
	assert.Equal(t, 1500, n)

	_, err = ParseAmount("")
	assert.Equal(t, ErrAmountRequired, err)
	_, err = ParseAmount("12.5")
	assert.Equal(t, ErrAmountNotInt, err)
	_, err = ParseAmount("abc")
	assert.Equal(t, ErrAmountNotInt, err)
	_, err = ParseAmount("0")
	assert.Equal(t, ErrAmountNotPos, err)
	_, err = ParseAmount("-100")
	assert.Equal(t, ErrAmountNotPos, err)
}

func TestIsValidISODate(t *testing.T) {
	assert.True(t, IsValidISODate("2025-06-01"))
	assert.False(t, IsValidISODate("01.06.2025"))
	assert.False(t, IsValidISODate("2025-13-01"))
	assert.False(t, IsValidISODate(""))
}

func TestIsValidCodeAndName(t *testing.T) {
	assert.True(t, IsValidCode("FNX-2025-ABCDEF"))
	assert.False(t, IsValidCode("FNX-2025-ABCDEI"))
	assert.True(t, IsValidName("Іванов І.І."))
	assert.True(t, IsValidName(""))
}
