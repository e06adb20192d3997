package parody

import "github.com/verseforge/parodist/internal/prosody"

// maxSyllableDeviation is the largest total-syllable-count difference a
// refinement's output may have from its target before it is rejected.
const maxSyllableDeviation = 2

// ValidSyllableCount reports whether candidate's total syllable count is
// within [maxSyllableDeviation] of target.
func ValidSyllableCount(candidate string, target int) bool {
	diff := prosody.CountLine(candidate) - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= maxSyllableDeviation
}

// ValidWordPattern reports whether candidate's per-word syllable pattern
// matches target exactly (same length, same counts at each position).
func ValidWordPattern(candidate string, target []prosody.WordSyllables) bool {
	return prosody.SamePattern(prosody.AnalyzeLine(candidate), target)
}
