// Package style re-applies an original lyric line's surface shape —
// word-by-word capitalization and the separators between words — onto a
// freshly generated line, so the parody line reads with the same
// punctuation and capitalization rhythm as the line it replaces.
package style

import (
	"strings"
	"unicode"

	"github.com/verseforge/parodist/internal/lyrics"
)

// Transfer reconstructs generated using original's per-position word
// capitalization and inter-word separators.
//
// Word texts come entirely from generated; generated's own capitalization
// and separators are discarded. For each generated word at index i:
//   - if original has a word at index i, the generated word's first letter
//     is upper-cased or lower-cased to match that original word;
//   - otherwise (generated has more words than original, a "surplus" tail)
//     the generated word's first letter is lower-cased.
//
// Separators are copied positionally from original. When generated has
// fewer words than original (a "deficit"), the separators up to and
// including the one that would have preceded the first dropped original
// word are kept verbatim, and any separators beyond that — along with the
// unused original words — are discarded. When generated has a surplus of
// words beyond original's count, the separators between those extra words
// default to a single space, and original's final trailing separator
// (e.g. a trailing newline or punctuation) is preserved as the new line's
// trailing separator.
func Transfer(original, generated string) string {
	origTokens, origSeps := lyrics.Tokenize(original)
	genTokens, _ := lyrics.Tokenize(generated)

	n, m := len(origTokens), len(genTokens)

	texts := make([]string, m)
	for i, tok := range genTokens {
		upper := i < n && origTokens[i].IsFirstLetterUppercase
		texts[i] = applyFirstLetterCase(tok.Text, upper)
	}

	seps := buildSeparators(origSeps, n, m)

	var b strings.Builder
	for i, text := range texts {
		b.WriteString(seps[i])
		b.WriteString(text)
	}
	b.WriteString(seps[m])
	return b.String()
}

// buildSeparators derives the m+1 separators for a line with m generated
// words from origSeps (the n+1 separators of the original line).
//
// When m <= n (a deficit or exact match), the first m+1 original separators
// are used verbatim — the trailing one, origSeps[m], is the separator that
// would have preceded the now-dropped original word at index m.
//
// When m > n (a surplus), the leading separator and every original interior
// join (origSeps[1..n-1]) are preserved; joins involving a surplus word
// default to a single space; and the line's trailing separator is
// origSeps[n], original's own trailing separator, regardless of how many
// surplus words precede it.
func buildSeparators(origSeps []string, n, m int) []string {
	if m <= n {
		return origSeps[:m+1]
	}

	seps := make([]string, m+1)
	seps[0] = origSeps[0]
	for i := 1; i < m; i++ {
		if i < n {
			seps[i] = origSeps[i]
		} else {
			seps[i] = " "
		}
	}
	seps[m] = origSeps[n]
	return seps
}

// applyFirstLetterCase returns text with its first Unicode letter's case
// set to match upper, leaving every other rune untouched.
func applyFirstLetterCase(text string, upper bool) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	if upper {
		runes[0] = unicode.ToUpper(runes[0])
	} else {
		runes[0] = unicode.ToLower(runes[0])
	}
	return string(runes)
}
