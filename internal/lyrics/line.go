// Package lyrics defines the line/word/separator tokenisation shared by the
// prosody, rhyme, and style-transfer packages. Every other core package
// builds on the [WordToken] / separator model defined here so that the
// round-trip invariant (tokens + separators reconstruct the original line
// exactly) only has to be proven once.
package lyrics

import "unicode"

// Line is a single logical line of lyrics. IsBlank reports whether it
// contains only whitespace (including the empty string).
type Line string

// IsBlank reports whether l contains only whitespace.
func (l Line) IsBlank() bool {
	for _, r := range l {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// WordToken is a maximal run of Unicode letters extracted from a line.
type WordToken struct {
	// Text is the literal run of letters, exactly as it appeared in the line.
	Text string

	// IsFirstLetterUppercase reports whether the first Unicode letter in Text
	// is uppercase. False when Text contains no letter at all.
	IsFirstLetterUppercase bool
}

// Tokenize splits s into its word tokens and the separators between/around
// them. The result always satisfies the round-trip invariant:
//
//	seps[0] + tokens[0].Text + seps[1] + tokens[1].Text + ... + tokens[n-1].Text + seps[n] == s
//
// len(seps) == len(tokens)+1 always holds. When s contains no letters,
// tokens is empty and seps has exactly one element equal to s.
func Tokenize(s string) (tokens []WordToken, seps []string) {
	runes := []rune(s)
	n := len(runes)

	var sepStart int
	i := 0
	for i < n {
		if !unicode.IsLetter(runes[i]) {
			i++
			continue
		}
		// Emit the separator that precedes this token.
		seps = append(seps, string(runes[sepStart:i]))

		start := i
		for i < n && unicode.IsLetter(runes[i]) {
			i++
		}
		text := string(runes[start:i])
		tokens = append(tokens, WordToken{
			Text:                   text,
			IsFirstLetterUppercase: unicode.IsUpper(firstRune(text)),
		})
		sepStart = i
	}
	// Trailing suffix after the last token (or the whole string if no tokens).
	seps = append(seps, string(runes[sepStart:]))
	return tokens, seps
}

// Reconstruct rebuilds the original line from tokens and seps produced by
// [Tokenize]. It is the inverse operation and is mainly useful for tests
// that assert the round-trip invariant.
func Reconstruct(tokens []WordToken, seps []string) string {
	var b []byte
	for i, tok := range tokens {
		b = append(b, seps[i]...)
		b = append(b, tok.Text...)
	}
	b = append(b, seps[len(tokens)]...)
	return string(b)
}

// firstRune returns the first rune of s, or the zero rune if s is empty.
func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
