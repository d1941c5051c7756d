package article

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceTags(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		category string
		want     []string
	}{
		{"comma string", "a, b, c", "", []string{"a", "b", "c"}},
		{"list", []any{"x"}, "", []string{"x"}},
		{"string slice", []string{"x", "y"}, "Ignored", []string{"x", "y"}},
		{"absent with category", nil, "Ethics", []string{"Ethics"}},
		{"both absent", nil, "", []string{}},
		{"empty segments dropped", "a,, b ,", "", []string{"a", "b"}},
		{"duplicates kept", "a, a", "", []string{"a", "a"}},
		{"list elements stringified", []any{"x", 2025, nil}, "", []string{"x", "2025"}},
		{"scalar", 42, "", []string{"42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceTags(tt.value, tt.category))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("ethique"), Fold(" Éthique "))
	assert.True(t, SameTag("Legal Tech", "legal tech"))
	assert.False(t, SameTag("AI", "AI Ethics"))
}
