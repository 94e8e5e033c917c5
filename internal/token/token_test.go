package token

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canonical = regexp.MustCompile(`^CGS(-[0-9A-HJKMNP-TV-Z]{5}){4}$`)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy pool closed") }

func TestGenerate_CanonicalFormat(t *testing.T) {
	g := NewGenerator()
	tok, err := g.Generate()
	require.NoError(t, err)
	assert.Regexp(t, canonical, tok)

	normalized, err := Normalize(tok)
	require.NoError(t, err)
	assert.Equal(t, tok, normalized)
}

func TestGenerate_NoCollisions(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]struct{}, 100000)
	for i := 0; i < 100000; i++ {
		tok, err := g.Generate()
		require.NoError(t, err)
		if _, dup := seen[tok]; dup {
			t.Fatalf("collision after %d tokens: %s", i, tok)
		}
		seen[tok] = struct{}{}
	}
}

func TestGenerate_RandomnessUnavailable(t *testing.T) {
	g := NewGeneratorWithReader(failingReader{})
	tok, err := g.Generate()
	assert.Empty(t, tok)
	assert.ErrorIs(t, err, ErrRandomnessUnavailable)

	short := NewGeneratorWithReader(bytes.NewReader([]byte{1, 2, 3}))
	_, err = short.Generate()
	assert.ErrorIs(t, err, ErrRandomnessUnavailable)
}

func TestGenerate_DeterministicReader(t *testing.T) {
	g := NewGeneratorWithReader(bytes.NewReader(bytes.Repeat([]byte{0xff}, SuffixLength)))
	tok, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "CGS-ZZZZZ-ZZZZZ-ZZZZZ-ZZZZZ", tok)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical", "CGS-ABCDE-FGHJK-MNPQR-STVWX", "CGS-ABCDE-FGHJK-MNPQR-STVWX"},
		{"lowercase", "cgs-abcde-fghjk-mnpqr-stvwx", "CGS-ABCDE-FGHJK-MNPQR-STVWX"},
		{"no separators", "CGSABCDEFGHJKMNPQRSTVWX", "CGS-ABCDE-FGHJK-MNPQR-STVWX"},
		{"without prefix", "abcde fghjk mnpqr stvwx", "CGS-ABCDE-FGHJK-MNPQR-STVWX"},
		{"confusables", " cgs-O0Il1-00000-00000-00000 ", "CGS-00111-00000-00000-00000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"CGS-NOTAREALTOKEN",
		"CGS-ABCDE-FGHJK-MNPQR",
		"CGS-ABCDE-FGHJK-MNPQR-STVWXY",
		"CGS-UUUUU-FGHJK-MNPQR-STVWX",
		"CGS-ABCD!-FGHJK-MNPQR-STVWX",
		strings.Repeat("A", 200),
	}
	for _, in := range inputs {
		_, err := Normalize(in)
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", in)
	}
}

func TestDecoy_IsCanonical(t *testing.T) {
	assert.Regexp(t, canonical, Decoy())
}
