package diff

import (
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffWords computes a word-granularity diff between two cell values. Spans
// come out in reading order: common text, removals from the old value and
// insertions from the new one, interleaved as they occur. Tokens are maximal
// runs of spaces or non-spaces, so separators survive inside the spans and
// joining the non-added spans reproduces the old value.
//
// Matching honors IgnoreWhitespace (outer trim) and CaseSensitive, but spans
// always carry the literal input text: a case-insensitive diff never
// lower-cases what the caller renders.
func DiffWords(oldValue, newValue string, opts Options) []WordSpan {
	ov, nv := oldValue, newValue
	if opts.IgnoreWhitespace {
		ov = strings.TrimSpace(ov)
		nv = strings.TrimSpace(nv)
	}

	oldTokens := tokenizeWords(ov)
	newTokens := tokenizeWords(nv)

	// Encode each distinct token as one rune so the character-level diff
	// below operates on whole words, then map the runs back to the original
	// token text. Same trick the library itself uses for line mode.
	table := make(map[string]rune)
	next := rune(1)
	oldRunes := tokensToRunes(oldTokens, table, &next, opts.CaseSensitive)
	newRunes := tokensToRunes(newTokens, table, &next, opts.CaseSensitive)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)

	spans := make([]WordSpan, 0, len(diffs))
	oi, ni := 0, 0
	for _, d := range diffs {
		n := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			spans = appendSpan(spans, false, false, strings.Join(oldTokens[oi:oi+n], ""))
			oi += n
			ni += n
		case diffmatchpatch.DiffDelete:
			spans = appendSpan(spans, false, true, strings.Join(oldTokens[oi:oi+n], ""))
			oi += n
		case diffmatchpatch.DiffInsert:
			spans = appendSpan(spans, true, false, strings.Join(newTokens[ni:ni+n], ""))
			ni += n
		}
	}
	return spans
}

// tokenizeWords splits a value into maximal runs of space and non-space
// characters. The concatenation of the tokens is the input, verbatim.
func tokenizeWords(s string) []string {
	var tokens []string
	var b strings.Builder
	var inSpace bool
	for i, r := range s {
		isSpace := unicode.IsSpace(r)
		if i == 0 {
			inSpace = isSpace
		} else if isSpace != inSpace {
			tokens = append(tokens, b.String())
			b.Reset()
			inSpace = isSpace
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// tokensToRunes interns tokens into single runes, sharing the table across
// both sides so equal tokens collapse to equal runes. Case folding happens
// on the interning key only; the surrogate range is skipped to keep the
// encoded text valid UTF-8.
func tokensToRunes(tokens []string, table map[string]rune, next *rune, caseSensitive bool) []rune {
	runes := make([]rune, len(tokens))
	for i, tok := range tokens {
		key := tok
		if !caseSensitive {
			key = strings.ToLower(tok)
		}
		r, ok := table[key]
		if !ok {
			r = *next
			*next++
			if *next >= 0xD800 && *next <= 0xDFFF {
				*next = 0xE000
			}
			table[key] = r
		}
		runes[i] = r
	}
	return runes
}

func appendSpan(spans []WordSpan, added, removed bool, text string) []WordSpan {
	if text == "" {
		return spans
	}
	return append(spans, WordSpan{Added: added, Removed: removed, Value: text})
}
