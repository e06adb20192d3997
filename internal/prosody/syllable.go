// Package prosody estimates syllable counts from orthography.
//
// The rule implemented here is a deterministic heuristic, not a phonetic
// oracle: it counts vowel runs with two narrow corrections for silent
// trailing "e" and the "-le" suffix, then clamps to at least one syllable.
// It is intentionally not "improved" beyond that contract — two conforming
// implementations of this package must agree on every input, including the
// cases it gets wrong.
package prosody

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/verseforge/parodist/internal/lyrics"
)

// WordSyllables pairs a word token's text with its estimated syllable count,
// in line order.
type WordSyllables struct {
	Text      string
	Syllables int
}

// CountWord estimates the syllable count of s.
//
// s is lowercased and reduced to its Unicode letters before the rule is
// applied; non-letter runes (digits, punctuation, apostrophes) are dropped
// rather than treated as separators. The empty string (after reduction)
// returns 0; every other input returns at least 1.
func CountWord(s string) int {
	w := toLetterLower(s)
	if w == "" {
		return 0
	}

	// v is the contract's fixed reference value: both the silent-e and the
	// -le corrections below test v > 1 against this same original count,
	// not against each other's intermediate result. Only the running total
	// (result) accumulates the +/-1 adjustments.
	v := vowelRuns(w)
	result := v

	runes := []rune(w)
	last := runes[len(runes)-1]

	if last == 'e' && v > 1 {
		result--
	}

	if len(runes) >= 3 && strings.HasSuffix(w, "le") && v > 1 && !isVowel(runes[len(runes)-3]) {
		result++
	}

	if result < 1 {
		result = 1
	}
	return result
}

// CountLine sums [CountWord] over every word token in s.
func CountLine(s string) int {
	tokens, _ := lyrics.Tokenize(s)
	total := 0
	for _, tok := range tokens {
		total += CountWord(tok.Text)
	}
	return total
}

// AnalyzeLine returns the per-word syllable counts for s, in the order the
// word tokens appear. The sum of the returned counts always equals
// [CountLine](s).
func AnalyzeLine(s string) []WordSyllables {
	tokens, _ := lyrics.Tokenize(s)
	out := make([]WordSyllables, len(tokens))
	for i, tok := range tokens {
		out[i] = WordSyllables{Text: tok.Text, Syllables: CountWord(tok.Text)}
	}
	return out
}

// PatternText renders word-syllable counts as the "word(2) word(1)" form
// used in generation prompts.
func PatternText(ws []WordSyllables) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.Text + "(" + strconv.Itoa(w.Syllables) + ")"
	}
	return strings.Join(parts, " ")
}

// CountPattern renders just the per-word counts as "2-1-3", used by the
// word-syllable refinement prompt.
func CountPattern(ws []WordSyllables) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = strconv.Itoa(w.Syllables)
	}
	return strings.Join(parts, "-")
}

// SamePattern reports whether a and b have the same length and the same
// syllable count at every position (text is not compared).
func SamePattern(a, b []WordSyllables) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Syllables != b[i].Syllables {
			return false
		}
	}
	return true
}

func toLetterLower(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	default:
		return false
	}
}

// vowelRuns counts maximal runs of consecutive vowels in w. w must already
// be lowercase letters only.
func vowelRuns(w string) int {
	count := 0
	inRun := false
	for _, r := range w {
		if isVowel(r) {
			if !inRun {
				count++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return count
}
