package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	cases := map[string]string{
		"go":       "go",
		"GO":       "go",
		"  Go  ":   "go",
		"Web Dev":  "web dev",
		"":         "",
		"   ":      "",
		"\tRust\n": "rust",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTag(in), "input %q", in)
	}
}

func TestCanonicalTags(t *testing.T) {
	t.Run("dedupes after normalizing, first seen wins", func(t *testing.T) {
		got := canonicalTags([]string{"Go", "rust", "GO", " go ", "Rust", "web"})
		assert.Equal(t, []string{"go", "rust", "web"}, got)
	})

	t.Run("drops blanks", func(t *testing.T) {
		assert.Equal(t, []string{"a"}, canonicalTags([]string{"", " ", "a"}))
	})

	t.Run("nil gives empty", func(t *testing.T) {
		got := canonicalTags(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
