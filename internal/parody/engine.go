// Package parody implements the constraint-driven generation-then-refinement
// pipeline that turns a song's original lines into a thematic parody while
// preserving its prosodic shape.
//
// [Engine] is the orchestrator: it runs a per-line loop of initial
// generation followed by targeted refinement passes (word-syllable count,
// semantic coherence, punctuation/capitalization), validating every
// refinement's output and silently falling back to the prior accepted
// candidate when validation fails or the completer errs. Only the initial
// generation call and the pre-run [completer.Completer.Verify] check are
// fatal; everything after that degrades gracefully.
package parody

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/verseforge/parodist/internal/completer"
	"github.com/verseforge/parodist/internal/lyrics"
	"github.com/verseforge/parodist/internal/observe"
	"github.com/verseforge/parodist/internal/promptbuilder"
	"github.com/verseforge/parodist/internal/prosody"
	"github.com/verseforge/parodist/internal/rhyme"
	"github.com/verseforge/parodist/internal/style"
)

// defaultRefinementPasses is the number of refinement passes applied when
// RunOptions.RefinementPasses is zero or negative. The word-syllable and
// semantic-coherence passes are always attempted once each (subject to their
// own eligibility rules); this count governs only the trailing punctuation
// passes, as RefinementPasses-1.
const defaultRefinementPasses = 2

// RunOptions configures a single [Engine.Generate] call.
type RunOptions struct {
	// RefinementPasses governs the number of punctuation refinement passes
	// (RefinementPasses-1). Defaults to [defaultRefinementPasses] when <= 0.
	RefinementPasses int

	// Progress, when non-nil, is invoked after each input line (blank or
	// not) is committed, with the 1-based line count and the total.
	Progress func(current, total int)

	// Cancel, when non-nil, is a cooperative cancellation signal checked
	// between line iterations and before the initial generation call for
	// each line.
	Cancel <-chan struct{}
}

// Engine is the parody generation orchestrator, parameterized over a single
// [completer.Completer]. An Engine instance owns no completer-call state
// across runs; concurrent calls to [Engine.Generate] on the same Engine
// value are safe provided the underlying completer is.
type Engine struct {
	completer    completer.Completer
	completerTag string
	logger       *slog.Logger
	metrics      *observe.Metrics
}

// Option configures an [Engine] at construction time.
type Option func(*Engine)

// WithLogger overrides the engine's logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics overrides the engine's [observe.Metrics] sink. Defaults to
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithBackendName sets the label attached to completer-related metrics and
// spans (e.g. "ollama", "anyllm"). Defaults to "completer".
func WithBackendName(name string) Option {
	return func(e *Engine) { e.completerTag = name }
}

// New constructs an [Engine] backed by c.
func New(c completer.Completer, opts ...Option) *Engine {
	e := &Engine{completer: c, logger: slog.Default(), completerTag: "completer"}
	for _, o := range opts {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e
}

// complete wraps a single completer call with a span, latency histogram, and
// request/error counters tagged with stage (the refinement pass name, or
// "initial").
func (e *Engine) complete(ctx context.Context, stage, systemPrompt, userPrompt string) (string, error) {
	ctx, span := observe.StartSpan(ctx, "parody.complete", trace.WithAttributes(
		observe.Attr("stage", stage),
		observe.Attr("backend", e.completerTag),
	))
	defer span.End()

	start := time.Now()
	resp, err := e.completer.Complete(ctx, systemPrompt, userPrompt)
	e.metrics.CompleterDuration.Record(ctx, time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
		kind, _ := completer.KindOf(err)
		e.metrics.RecordCompleterError(ctx, e.completerTag, kind.String())
	}
	e.metrics.RecordCompleterRequest(ctx, e.completerTag, stage, status)
	return resp, err
}

// lineInfo is the pre-pass analysis of a single non-blank input line.
type lineInfo struct {
	original       string
	totalSyllables int
	wordSyllables  []prosody.WordSyllables
}

// Generate runs the full pipeline over originalLines and returns the parody,
// positionally aligned (blank input lines produce empty output lines). It
// returns a non-nil [*EngineError] when the run aborts; on success every
// non-blank input line has produced a non-empty output line.
func (e *Engine) Generate(ctx context.Context, originalLines []string, keywords promptbuilder.KeywordMap, opts RunOptions) ([]string, error) {
	ctx, span := observe.StartSpan(ctx, "parody.generate")
	defer span.End()

	e.metrics.ActiveGenerations.Add(ctx, 1)
	defer e.metrics.ActiveGenerations.Add(ctx, -1)

	if err := e.completer.Verify(ctx); err != nil {
		return nil, &EngineError{Kind: KindCompleterFailed, LineIndex: -1, Err: err}
	}

	passes := opts.RefinementPasses
	if passes <= 0 {
		passes = defaultRefinementPasses
	}

	blankMask := make([]bool, len(originalLines))
	infoByOriginalIndex := make(map[int]lineInfo)
	var nonBlankOriginals []string

	for i, l := range originalLines {
		blank := lyrics.Line(l).IsBlank()
		blankMask[i] = blank
		if blank {
			continue
		}
		ws := prosody.AnalyzeLine(l)
		infoByOriginalIndex[i] = lineInfo{
			original:       l,
			totalSyllables: prosody.CountLine(l),
			wordSyllables:  ws,
		}
		nonBlankOriginals = append(nonBlankOriginals, l)
	}

	if len(nonBlankOriginals) == 0 {
		return nil, &EngineError{Kind: KindEmptyInput, LineIndex: -1}
	}

	labels, scheme := rhyme.Analyze(nonBlankOriginals)

	genCtx := NewParodyContext(len(originalLines))
	result := make([]string, len(originalLines))

	j := -1
	for i, l := range originalLines {
		if cancelled(ctx, opts.Cancel) {
			return nil, &EngineError{Kind: KindCancelled, LineIndex: i, Err: ctx.Err()}
		}

		if blankMask[i] {
			result[i] = ""
			genCtx.Accept("", true)
			e.metrics.RecordLineGenerated(ctx, "blank")
			reportProgress(opts.Progress, i+1, len(originalLines))
			continue
		}
		j++

		lineStart := time.Now()
		info := infoByOriginalIndex[i]
		final, err := e.generateLine(ctx, info, j, labels, scheme, nonBlankOriginals, genCtx, keywords, passes)
		e.metrics.LineDuration.Record(ctx, time.Since(lineStart).Seconds())
		if err != nil {
			return nil, &EngineError{Kind: KindCompleterFailed, LineIndex: i, Err: err}
		}

		result[i] = final
		genCtx.Accept(final, false)
		e.metrics.RecordLineGenerated(ctx, "accepted")
		reportProgress(opts.Progress, i+1, len(originalLines))
	}

	return result, nil
}

// generateLine runs the initial generation and all refinement passes for the
// non-blank input line at original position matching lineInfo, whose
// rhyme-group index (over non-blank lines only) is j.
func (e *Engine) generateLine(
	ctx context.Context,
	info lineInfo,
	j int,
	labels []rhyme.RhymeGroupId,
	scheme string,
	nonBlankOriginals []string,
	genCtx *ParodyContext,
	keywords promptbuilder.KeywordMap,
	passes int,
) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	peerIndices := rhyme.PeersOf(j, labels)
	var peerLines []string
	var rhymeWith string
	for _, p := range peerIndices {
		if p >= j {
			continue
		}
		peerLines = append(peerLines, genCtx.AcceptedNonBlank[p])
		if rhymeWith == "" {
			rhymeWith = rhyme.Key(nonBlankOriginals[p])
		}
	}

	rhymeConstraint := promptbuilder.RhymeConstraint{
		RhymeWith:  rhymeWith,
		GroupLabel: string(rhyme.GroupOf(j, labels)),
		Scheme:     scheme,
		PeerLines:  peerLines,
	}
	prevLines := genCtx.RecentNonBlank()

	wordPattern := prosody.PatternText(info.wordSyllables)
	sys, user := promptbuilder.BuildGenerationPrompt(info.original, info.totalSyllables, wordPattern, rhymeConstraint, prevLines, keywords)
	raw, err := e.complete(ctx, "initial", sys, user)
	if err != nil {
		return "", fmt.Errorf("initial generation: %w", err)
	}
	candidate := Sanitize(raw)

	candidate = e.refineWordSyllable(ctx, candidate, info)

	if len(prevLines) > 0 && j > 0 {
		candidate = e.refineCoherence(ctx, candidate, info, prevLines)
	}

	for k := 0; k < passes-1; k++ {
		candidate = e.refinePunctuation(ctx, candidate, info)
	}

	return style.Transfer(info.original, candidate), nil
}

// refineWordSyllable attempts the word-syllable refinement pass. A failed
// completer call or a validation rejection leaves candidate unchanged.
func (e *Engine) refineWordSyllable(ctx context.Context, candidate string, info lineInfo) string {
	currentPattern := prosody.CountPattern(prosody.AnalyzeLine(candidate))
	targetPattern := prosody.CountPattern(info.wordSyllables)

	sys, user := promptbuilder.BuildSyllableRefinementPrompt(candidate, currentPattern, targetPattern)
	raw, err := e.complete(ctx, "word_syllable", sys, user)
	if err != nil {
		e.logger.Debug("refinement call failed, keeping candidate", "pass", "word_syllable", "error", err)
		return candidate
	}

	proposal := Sanitize(raw)
	if !ValidSyllableCount(proposal, info.totalSyllables) {
		e.logger.Debug("refinement rejected", "pass", "word_syllable", "reason", "syllable_deviation")
		e.metrics.RecordRefinementRejection(ctx, "word_syllable", "syllable_deviation")
		return candidate
	}
	if !ValidWordPattern(proposal, info.wordSyllables) {
		e.logger.Debug("refinement rejected", "pass", "word_syllable", "reason", "pattern_mismatch")
		e.metrics.RecordRefinementRejection(ctx, "word_syllable", "pattern_mismatch")
		return candidate
	}
	return proposal
}

// refineCoherence attempts the semantic-coherence refinement pass, enforcing
// the word-syllable pattern exactly (same validation as the word-syllable
// pass).
func (e *Engine) refineCoherence(ctx context.Context, candidate string, info lineInfo, prevLines []string) string {
	sys, user := promptbuilder.BuildCoherenceRefinementPrompt(candidate, prevLines)
	raw, err := e.complete(ctx, "coherence", sys, user)
	if err != nil {
		e.logger.Debug("refinement call failed, keeping candidate", "pass", "coherence", "error", err)
		return candidate
	}

	proposal := Sanitize(raw)
	if !ValidSyllableCount(proposal, info.totalSyllables) {
		e.logger.Debug("refinement rejected", "pass", "coherence", "reason", "syllable_deviation")
		e.metrics.RecordRefinementRejection(ctx, "coherence", "syllable_deviation")
		return candidate
	}
	if !ValidWordPattern(proposal, info.wordSyllables) {
		e.logger.Debug("refinement rejected", "pass", "coherence", "reason", "pattern_mismatch")
		e.metrics.RecordRefinementRejection(ctx, "coherence", "pattern_mismatch")
		return candidate
	}
	return proposal
}

// refinePunctuation attempts a punctuation/capitalization refinement pass.
// Only the generic total-syllable-deviation rule is enforced.
func (e *Engine) refinePunctuation(ctx context.Context, candidate string, info lineInfo) string {
	sys, user := promptbuilder.BuildPunctuationRefinementPrompt(candidate, info.original)
	raw, err := e.complete(ctx, "punctuation", sys, user)
	if err != nil {
		e.logger.Debug("refinement call failed, keeping candidate", "pass", "punctuation", "error", err)
		return candidate
	}

	proposal := Sanitize(raw)
	if !ValidSyllableCount(proposal, info.totalSyllables) {
		e.logger.Debug("refinement rejected", "pass", "punctuation", "reason", "syllable_deviation")
		e.metrics.RecordRefinementRejection(ctx, "punctuation", "syllable_deviation")
		return candidate
	}
	return proposal
}

// cancelled reports whether ctx is done or cancel has fired.
func cancelled(ctx context.Context, cancel <-chan struct{}) bool {
	if ctx.Err() != nil {
		return true
	}
	if cancel == nil {
		return false
	}
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

func reportProgress(fn func(current, total int), current, total int) {
	if fn != nil {
		fn(current, total)
	}
}
