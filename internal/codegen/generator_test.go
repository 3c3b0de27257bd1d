package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Shape(t *testing.T) {
	g := &Generator{}
	year := time.Now().Year()
	for i := 0; i < 500; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		assert.True(t, Valid(code), code)
		assert.True(t, strings.HasPrefix(code, fmt.Sprintf("FNX-%d-", year)), code)
		assert.Len(t, code, len("FNX-2025-")+SuffixSize)
	}
}

func TestGenerate_NeverAmbiguous(t *testing.T) {
	// Every byte value maps into the alphabet.
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	g := &Generator{Rand: bytes.NewReader(all)}
	for i := 0; i < 256/SuffixSize; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		suffix := code[len(code)-SuffixSize:]
		assert.NotContainsf(t, suffix, "0", "code %s", code)
		assert.NotContainsf(t, suffix, "O", "code %s", code)
		assert.NotContainsf(t, suffix, "1", "code %s", code)
		assert.NotContainsf(t, suffix, "I", "code %s", code)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := &Generator{
		Rand: bytes.NewReader([]byte{0, 1, 2, 31, 32, 255}),
		Now:  func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	}
	code, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "FNX-2025-ABC9A9", code)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy gone") }

func TestGenerate_RandomFailure(t *testing.T) {
	g := &Generator{Rand: failingReader{}}
	_, err := g.Generate()
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("FNX-2025-ABCDEF"))
	assert.False(t, Valid("FNX-2025-ABCDE0"))
	assert.False(t, Valid("FNX-25-ABCDEF"))
	assert.False(t, Valid("ABC-2025-ABCDEF"))
	assert.False(t, Valid("FNX-2025-abcdef"))
}
