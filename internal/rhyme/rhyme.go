// Package rhyme labels lines with a rhyme-group identifier under a fixed,
// deterministic orthographic predicate — not a phonetic or dictionary-backed
// judgment. See [Rhymes] for the exact rule.
package rhyme

import (
	"strings"
	"unicode"

	"github.com/verseforge/parodist/internal/lyrics"
)

// commonSuffixes is the fixed set tested by rule 4 of [Rhymes]. Order
// matters only in that the longest applicable match should be preferred,
// so entries are checked longest-first.
var commonSuffixes = []string{
	"ight", "tion", "sion", "ness", "ment",
	"ake", "oke", "eak", "ook", "ank", "ink", "ate", "ite",
	"ing", "est", "er", "ed", "ly",
}

// Key returns the rhyme key of line: its last word token, lowercased and
// reduced to letters only. A line with no word tokens has an empty key,
// which never matches any other key (including another empty one).
func Key(line string) string {
	tokens, _ := lyrics.Tokenize(line)
	if len(tokens) == 0 {
		return ""
	}
	return toLetterLower(tokens[len(tokens)-1].Text)
}

// Rhymes reports whether a and b — already lowercased, letters-only keys —
// rhyme under this package's fixed predicate. Any of the following makes
// two non-empty keys rhyme:
//
//  1. a == b.
//  2. Both have length >= 2 and their suffixes of length min(4, min(|a|,|b|))
//     are equal.
//  3. Their vowel skeletons (the subsequence of vowel characters) both have
//     length >= 2, share the same last two vowels, and the consonants
//     trailing the final vowel run are identical.
//  4. Both end in the same entry of a fixed suffix set and the character
//     immediately preceding that suffix is the same in both.
//
// An empty a or b never rhymes with anything, including itself.
func Rhymes(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if suffixMatch(a, b) {
		return true
	}
	if vowelSkeletonMatch(a, b) {
		return true
	}
	if commonSuffixMatch(a, b) {
		return true
	}
	return false
}

func suffixMatch(a, b string) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	n := min(4, min(len(a), len(b)))
	return a[len(a)-n:] == b[len(b)-n:]
}

func vowelSkeletonMatch(a, b string) bool {
	va, vb := vowelString(a), vowelString(b)
	if len(va) < 2 || len(vb) < 2 {
		return false
	}
	if va[len(va)-2:] != vb[len(vb)-2:] {
		return false
	}
	return trailingConsonants(a) == trailingConsonants(b)
}

func commonSuffixMatch(a, b string) bool {
	for _, suf := range commonSuffixes {
		if !strings.HasSuffix(a, suf) || !strings.HasSuffix(b, suf) {
			continue
		}
		pa, pb := precedingChar(a, suf), precedingChar(b, suf)
		if pa == pb {
			return true
		}
	}
	return false
}

// precedingChar returns the byte immediately preceding suf's occurrence at
// the end of s, or 0 if suf consumes all of s.
func precedingChar(s, suf string) byte {
	idx := len(s) - len(suf)
	if idx <= 0 {
		return 0
	}
	return s[idx-1]
}

// vowelString returns the subsequence of vowel characters (a,e,i,o,u,y) in x.
func vowelString(x string) string {
	var b strings.Builder
	for _, r := range x {
		if isVowel(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// trailingConsonants returns the suffix of x following its final vowel run.
// Returns x unchanged if x contains no vowel, and "" if x ends in a vowel.
func trailingConsonants(x string) string {
	runes := []rune(x)
	i := len(runes)
	for i > 0 && !isVowel(runes[i-1]) {
		i--
	}
	return string(runes[i:])
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	default:
		return false
	}
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

// RhymeGroupId names a rhyme group in dense assignment order: A, B, ..., Z,
// AA, AB, ..., mirroring spreadsheet column naming.
type RhymeGroupId string

// labelForIndex returns the dense label for the n-th distinct group
// (0-indexed), in bijective base-26 using 'A'..'Z'.
func labelForIndex(n int) RhymeGroupId {
	n++ // bijective base-26 has no zero digit
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return RhymeGroupId(b)
}

// Analyze labels every line in lines with a [RhymeGroupId] and returns the
// concatenation of those labels as the scheme string (e.g. "ABAB").
//
// Labels are assigned left to right: a line's key is compared, via [Rhymes],
// against the keys of every earlier line; it joins the group of the
// lowest-index earlier line it rhymes with, or else mints the next unused
// label. A line whose key is empty (no word tokens) always gets its own,
// unshared label.
func Analyze(lines []string) (labels []RhymeGroupId, scheme string) {
	keys := make([]string, len(lines))
	labels = make([]RhymeGroupId, len(lines))
	next := 0

	for i, line := range lines {
		keys[i] = Key(line)

		assigned := false
		if keys[i] != "" {
			for j := 0; j < i; j++ {
				if Rhymes(keys[i], keys[j]) {
					labels[i] = labels[j]
					assigned = true
					break
				}
			}
		}
		if !assigned {
			labels[i] = labelForIndex(next)
			next++
		}
	}

	var b strings.Builder
	for _, l := range labels {
		b.WriteString(string(l))
	}
	return labels, b.String()
}

// GroupOf returns the [RhymeGroupId] of lines[index] within labels, the
// output of a prior [Analyze] call over the same lines.
func GroupOf(index int, labels []RhymeGroupId) RhymeGroupId {
	return labels[index]
}

// PeersOf returns the indices sharing lines[index]'s rhyme group, excluding
// index itself, in ascending order.
func PeersOf(index int, labels []RhymeGroupId) []int {
	group := labels[index]
	var peers []int
	for i, l := range labels {
		if i != index && l == group {
			peers = append(peers, i)
		}
	}
	return peers
}
