package codegen

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"
)

// Alphabet holds the 32 code symbols. 0/O and 1/I are left out because they
// are easily confused on printed certificates.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	Prefix     = "FNX"
	SuffixSize = 6
)

var codeRe = regexp.MustCompile(`^` + Prefix + `-\d{4}-[` + Alphabet + `]{6}$`)

// Generator produces certificate codes of the form FNX-<year>-<6 symbols>.
// The zero value is ready to use.
type Generator struct {
	Rand io.Reader        // defaults to crypto/rand.Reader
	Now  func() time.Time // defaults to time.Now
}

// Generate returns a new code. Codes are not checked for uniqueness; with
// 32^6 combinations per year collisions are accepted as negligible.
func (g *Generator) Generate() (string, error) {
	src := g.Rand
	if src == nil {
		src = rand.Reader
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	buf := make([]byte, SuffixSize)
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", fmt.Errorf("codegen: read random: %w", err)
	}
	// len(Alphabet) divides 256, so the modulo keeps the draw uniform.
	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return Prefix + "-" + strconv.Itoa(now().Year()) + "-" + string(buf), nil
}

// Valid reports whether code has the generated shape.
func Valid(code string) bool {
	return codeRe.MatchString(code)
}
