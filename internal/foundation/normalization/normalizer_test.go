package normalization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testView string

const (
	viewDefault testView = "default"
	viewCareer  testView = "career"
	viewFuture  testView = "future"
)

func newViewNormalizer() *Normalizer[testView] {
	return NewNormalizer(map[string]testView{
		"default": viewDefault,
		"career":  viewCareer,
		"future":  viewFuture,
	}, viewDefault)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newViewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected testView
	}{
		{"exact match", "career", viewCareer},
		{"case insensitive", "FUTURE", viewFuture},
		{"with spaces", "  career  ", viewCareer},
		{"unknown falls back", "archive", viewDefault},
		{"empty falls back", "", viewDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newViewNormalizer()

	v, err := n.NormalizeWithError("Career")
	require.NoError(t, err)
	assert.Equal(t, viewCareer, v)

	_, err = n.NormalizeWithError("archive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "career")
	assert.Contains(t, err.Error(), `"archive"`)
}

func TestNormalizer_Lookup(t *testing.T) {
	n := newViewNormalizer()

	_, ok := n.Lookup("nope")
	assert.False(t, ok)

	v, ok := n.Lookup(" default ")
	assert.True(t, ok)
	assert.Equal(t, viewDefault, v)
}

func TestNormalizer_ValidKeysSortedCopy(t *testing.T) {
	n := newViewNormalizer()
	keys := n.ValidKeys()
	assert.Equal(t, []string{"career", "default", "future"}, keys)

	keys[0] = "mutated"
	assert.Equal(t, "career", n.ValidKeys()[0])
}

func TestWithCustomNormalizer(t *testing.T) {
	n := WithCustomNormalizer(map[string]int{"A-B": 1}, 0, func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", "-")
	})
	assert.Equal(t, 1, n.Normalize("a_b"))
	assert.Equal(t, 0, n.Normalize("ab"))
}
