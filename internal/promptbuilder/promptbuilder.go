// Package promptbuilder renders the deterministic system/user prompt pairs
// sent to a completer for each stage of parody generation: the initial
// line rewrite, and the three targeted refinement passes (syllable count,
// semantic coherence, punctuation/capitalization).
//
// Every Build* function is a pure, deterministic function of its inputs —
// no randomness, no clock, no hidden state — so that the same line, target,
// and keyword map always produce byte-identical prompts. That determinism
// is what makes generation reproducible across runs and testable without a
// live completer.
package promptbuilder

import (
	"fmt"
	"strings"
	"unicode"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/verseforge/parodist/internal/lyrics"
)

// KeywordMap maps a theme keyword to the replacement text the generated
// lyrics should draw on, in the fixed order the caller inserted them. Order
// matters: it is rendered verbatim into prompts, so two equal maps built in
// a different insertion order would (by design) produce different prompts.
type KeywordMap = *orderedmap.OrderedMap[string, string]

// NewKeywordMap returns an empty [KeywordMap].
func NewKeywordMap() KeywordMap {
	return orderedmap.New[string, string]()
}

// RhymeConstraint describes the rhyme obligation carried into a line, when
// it shares a rhyme group with an earlier line.
type RhymeConstraint struct {
	// RhymeWith is the rhyme key (see package rhyme) of the earlier line in
	// this group. Empty when the line starts a new rhyme group.
	RhymeWith string

	// GroupLabel is this line's rhyme-group identifier (e.g. "A", "B").
	// Empty when the line has no rhyme group assigned yet.
	GroupLabel string

	// Scheme is the full rhyme scheme of the lyrics (e.g. "ABAB").
	Scheme string

	// PeerLines are already-generated parody lines sharing this line's
	// rhyme group, in ascending input order.
	PeerLines []string
}

const generationSystemPrompt = `You are a songwriting assistant that rewrites a single line of lyrics into a parody on a new theme.

Rules:
- Replace the subject matter with the new theme while preserving the line's rhythm and tone.
- The rewritten line must have exactly %d syllables.
%s
- Respond with ONLY the rewritten line, no quotes, no commentary.`

// BuildGenerationPrompt renders the prompt pair for the initial rewrite of
// originalLine. targetSyllables is the syllable count the rewritten line
// must match (ordinarily [prosody.CountLine] of originalLine). wordPattern
// is the word-by-word syllable breakdown of originalLine (the
// [prosody.PatternText] form, e.g. "hello(2) world(1)"). rhyme is the
// constraint carried from an earlier line sharing this line's rhyme group,
// or the zero value when none applies. prevLines are up to the last 8
// non-blank accepted parody lines, oldest first, used as thematic context.
// keywords supplies the new theme's vocabulary, rendered in insertion order.
func BuildGenerationPrompt(originalLine string, targetSyllables int, wordPattern string, rhyme RhymeConstraint, prevLines []string, keywords KeywordMap) (system, user string) {
	var rhymeRule string
	if rhyme.RhymeWith != "" {
		rhymeRule = fmt.Sprintf("- The rewritten line must end with a word that rhymes with %q.", rhyme.RhymeWith)
	}

	system = fmt.Sprintf(generationSystemPrompt, targetSyllables, rhymeRule)

	var sb strings.Builder
	sb.WriteString("Original line: ")
	sb.WriteString(originalLine)

	if wordPattern != "" {
		sb.WriteString("\nWord-by-word syllable pattern: ")
		sb.WriteString(wordPattern)
	}

	if len(prevLines) > 0 {
		sb.WriteString("\n\nPrevious lines:\n")
		for _, l := range prevLines {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteByte('\n')
		}
	}

	if rhyme.Scheme != "" {
		sb.WriteString("\nRhyme scheme: ")
		sb.WriteString(rhyme.Scheme)
		if rhyme.GroupLabel != "" {
			sb.WriteString(" (this line is group ")
			sb.WriteString(rhyme.GroupLabel)
			sb.WriteString(")")
		}
		sb.WriteByte('\n')
	}
	if len(rhyme.PeerLines) > 0 {
		sb.WriteString("Lines already written in this rhyme group:\n")
		for _, l := range rhyme.PeerLines {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteByte('\n')
		}
	}

	sb.WriteString("\nTheme vocabulary:\n")
	sb.WriteString(renderKeywords(keywords))
	user = strings.TrimRight(sb.String(), "\n")

	return system, user
}

const syllableRefinementSystemPrompt = `You are revising a single line of parody lyrics to match a required syllable count exactly.

Rules:
- Keep the theme and meaning of the current line.
- Adjust word choice so the per-word syllable counts become exactly: %s
- Respond with ONLY the revised line, no quotes, no commentary.`

// BuildSyllableRefinementPrompt renders the prompt pair for the syllable-count
// refinement pass. currentPattern and targetPattern are the "2-1-3" style
// strings produced by [prosody.CountPattern] for the current attempt and the
// original line respectively.
func BuildSyllableRefinementPrompt(currentAttempt, currentPattern, targetPattern string) (system, user string) {
	system = fmt.Sprintf(syllableRefinementSystemPrompt, targetPattern)
	user = fmt.Sprintf("Current line: %s\nCurrent syllable pattern: %s\nRequired syllable pattern: %s",
		currentAttempt, currentPattern, targetPattern)
	return system, user
}

const coherenceRefinementSystemPrompt = `You are revising a single line of parody lyrics so it reads coherently next to the lines around it.

Rules:
- Preserve the current line's syllable count and rhyme word exactly.
- Only adjust word choice for meaning and flow; do not change the line's length or its final word's sound.
- Respond with ONLY the revised line, no quotes, no commentary.`

// BuildCoherenceRefinementPrompt renders the prompt pair for the semantic
// coherence refinement pass. previousLines are up to the last 8 non-blank
// accepted parody lines, oldest first (empty when the attempt is the first
// non-blank line of the run).
func BuildCoherenceRefinementPrompt(attempt string, previousLines []string) (system, user string) {
	system = coherenceRefinementSystemPrompt

	var sb strings.Builder
	if len(previousLines) > 0 {
		sb.WriteString("Previous lines:\n")
		for _, l := range previousLines {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("Current line: ")
	sb.WriteString(attempt)
	user = sb.String()

	return system, user
}

const punctuationRefinementSystemPrompt = `You are copy-editing a single line of parody lyrics for punctuation and capitalization only.

Rules:
- Do not change any word.
- Match the punctuation marks and capitalization pattern of the original line.
- Respond with ONLY the revised line, no quotes, no commentary.`

// BuildPunctuationRefinementPrompt renders the prompt pair for the final
// punctuation/capitalization refinement pass. originalLine supplies the
// punctuation summary and capitalization pattern the rewrite should match.
func BuildPunctuationRefinementPrompt(attempt, originalLine string) (system, user string) {
	system = punctuationRefinementSystemPrompt
	user = fmt.Sprintf(
		"Current line: %s\nOriginal punctuation marks present: %s\nOriginal capitalization pattern: %s",
		attempt, punctuationSummary(originalLine), capitalizationPattern(originalLine),
	)
	return system, user
}

// punctuationSummary renders the multiset of punctuation runes present in s
// (every rune that is neither a Unicode letter, digit, nor whitespace),
// each with its occurrence count, in first-seen order. Returns "(none)" when
// s has no punctuation.
func punctuationSummary(s string) string {
	var order []rune
	counts := make(map[rune]int)
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
	}
	if len(order) == 0 {
		return "(none)"
	}

	parts := make([]string, len(order))
	for i, r := range order {
		parts[i] = fmt.Sprintf("%q x%d", string(r), counts[r])
	}
	return strings.Join(parts, ", ")
}

// capitalizationPattern renders s's word tokens as "U" (first letter
// uppercase) or "l" (first letter lowercase), space-separated, in line
// order. Returns "(no words)" when s has no word tokens.
func capitalizationPattern(s string) string {
	tokens, _ := lyrics.Tokenize(s)
	if len(tokens) == 0 {
		return "(no words)"
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		if tok.IsFirstLetterUppercase {
			parts[i] = "U"
		} else {
			parts[i] = "l"
		}
	}
	return strings.Join(parts, " ")
}

// renderKeywords formats keywords as a bullet list in insertion order, one
// "keyword: replacement" entry per line. Returns "(none)" for a nil or
// empty map.
func renderKeywords(keywords KeywordMap) string {
	if keywords == nil || keywords.Len() == 0 {
		return "(none)"
	}

	var sb strings.Builder
	for pair := keywords.Oldest(); pair != nil; pair = pair.Next() {
		sb.WriteString("- ")
		sb.WriteString(pair.Key)
		sb.WriteString(": ")
		sb.WriteString(pair.Value)
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
