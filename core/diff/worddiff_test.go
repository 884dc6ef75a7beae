package diff_test

import (
	"strings"
	"testing"

	"tablediff/core/diff"

	"github.com/stretchr/testify/assert"
)

func TestDiffWords(t *testing.T) {
	strict := diff.Options{CaseSensitive: true}

	t.Run("Identical", func(t *testing.T) {
		spans := diff.DiffWords("hello world", "hello world", strict)
		assert.Equal(t, []diff.WordSpan{{Value: "hello world"}}, spans)
	})

	t.Run("WordReplaced", func(t *testing.T) {
		spans := diff.DiffWords("hello world", "hello there", strict)
		assert.Equal(t, []diff.WordSpan{
			{Value: "hello "},
			{Removed: true, Value: "world"},
			{Added: true, Value: "there"},
		}, spans)
	})

	t.Run("MiddleWordChanged", func(t *testing.T) {
		spans := diff.DiffWords("a b c", "a x c", strict)
		assert.Equal(t, []diff.WordSpan{
			{Value: "a "},
			{Removed: true, Value: "b"},
			{Added: true, Value: "x"},
			{Value: " c"},
		}, spans)
	})

	t.Run("OldEmpty", func(t *testing.T) {
		spans := diff.DiffWords("", "brand new", strict)
		assert.Equal(t, []diff.WordSpan{{Added: true, Value: "brand new"}}, spans)
	})

	t.Run("NewEmpty", func(t *testing.T) {
		spans := diff.DiffWords("gone now", "", strict)
		assert.Equal(t, []diff.WordSpan{{Removed: true, Value: "gone now"}}, spans)
	})

	t.Run("BothEmpty", func(t *testing.T) {
		assert.Empty(t, diff.DiffWords("", "", strict))
	})
}

func TestDiffWords_PreservesLiteralText(t *testing.T) {
	// Case-insensitive matching treats the values as equal, but the span
	// must carry the text as written, never a lower-cased copy.
	spans := diff.DiffWords("Hello World", "hello world", diff.Options{CaseSensitive: false})
	assert.Equal(t, []diff.WordSpan{{Value: "Hello World"}}, spans)
}

func TestDiffWords_IgnoreWhitespace(t *testing.T) {
	opts := diff.Options{CaseSensitive: true, IgnoreWhitespace: true}
	spans := diff.DiffWords("  padded  ", "padded", opts)
	assert.Equal(t, []diff.WordSpan{{Value: "padded"}}, spans)
}

func TestDiffWords_Reconstruction(t *testing.T) {
	// Joining the non-added spans yields the old value and the non-removed
	// spans the new value, so a renderer can rebuild either side.
	pairs := [][2]string{
		{"the quick brown fox", "the slow brown cat"},
		{"one", "one two three"},
		{"alpha beta gamma", "gamma"},
		{"tabs\tand spaces", "tabs and  spaces"},
	}

	for _, pair := range pairs {
		spans := diff.DiffWords(pair[0], pair[1], diff.Options{CaseSensitive: true})

		var oldSide, newSide strings.Builder
		for _, s := range spans {
			if !s.Added {
				oldSide.WriteString(s.Value)
			}
			if !s.Removed {
				newSide.WriteString(s.Value)
			}
		}
		assert.Equal(t, pair[0], oldSide.String())
		assert.Equal(t, pair[1], newSide.String())
	}
}
