package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	Prefix = "CGS"

	// Crockford base32: no I, L, O or U.
	alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

	groups    = 4
	groupSize = 5
	// SuffixLength characters at 5 bits each give 100 bits of entropy.
	SuffixLength = groups * groupSize
)

var (
	ErrRandomnessUnavailable = errors.New("secure random source unavailable")
	ErrMalformedToken        = errors.New("malformed token")
)

// Generator issues tracking tokens from a cryptographically secure source.
type Generator struct {
	random io.Reader
}

func NewGenerator() *Generator {
	return &Generator{random: rand.Reader}
}

// NewGeneratorWithReader is used by tests to control the random source.
func NewGeneratorWithReader(r io.Reader) *Generator {
	return &Generator{random: r}
}

func (g *Generator) Generate() (string, error) {
	if g.random == nil {
		return "", ErrRandomnessUnavailable
	}

	buf := make([]byte, SuffixLength)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandomnessUnavailable, err)
	}

	// len(alphabet) divides 256, so masking keeps the distribution uniform.
	suffix := make([]byte, SuffixLength)
	for i, b := range buf {
		suffix[i] = alphabet[b&0x1f]
	}
	return format(string(suffix)), nil
}

// Normalize maps user input onto the canonical token form. Case, spacing,
// separators and the usual confusables (O, I, L) are forgiven; anything else
// outside the alphabet or of the wrong length is rejected.
func Normalize(input string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = strings.NewReplacer("-", "", " ", "", "_", "").Replace(s)
	if len(s) == len(Prefix)+SuffixLength {
		s = strings.TrimPrefix(s, Prefix)
	}

	if len(s) != SuffixLength {
		return "", ErrMalformedToken
	}

	out := make([]byte, 0, SuffixLength)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case 'O':
			c = '0'
		case 'I', 'L':
			c = '1'
		}
		if strings.IndexByte(alphabet, c) < 0 {
			return "", ErrMalformedToken
		}
		out = append(out, c)
	}
	return format(string(out)), nil
}

// Decoy returns a canonically shaped token that Generate never issues in
// practice. Lookups for malformed input go through it so they cost the same
// as lookups for absent tokens.
func Decoy() string {
	return format(strings.Repeat("0", SuffixLength))
}

func format(suffix string) string {
	var b strings.Builder
	b.Grow(len(Prefix) + SuffixLength + groups)
	b.WriteString(Prefix)
	for i := 0; i < groups; i++ {
		b.WriteByte('-')
		b.WriteString(suffix[i*groupSize : (i+1)*groupSize])
	}
	return b.String()
}
