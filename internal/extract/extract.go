// Package extract evaluates tokenizer candidates one at a time and yields
// the dates found in free-form legal text.
//
// Each candidate flows through context normalization, syntactic rejection,
// token cleanup, a second rejection pass, windowed parsing and validation.
// Accepted dates are scored by a classifier and surface as annotations when
// the score clears the caller's threshold.
package extract

import (
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/datextract/internal/classifier"
	"github.com/sells-group/datextract/internal/dateparse"
	"github.com/sells-group/datextract/internal/locale"
	"github.com/sells-group/datextract/internal/model"
	"github.com/sells-group/datextract/internal/tokenize"
)

// DefaultThreshold is the minimum classifier score for an annotation.
const DefaultThreshold = 0.50

// Tokenizer proposes candidate spans in left-to-right order.
type Tokenizer interface {
	ExtractDateStrings(text string, strict bool, loc locale.Locale) iter.Seq[tokenize.Match]
}

// DateParser turns a date-like string into a value.
type DateParser interface {
	Parse(text string, props model.TokenProperties, loc locale.Locale, base time.Time) (model.Date, error)
}

// Scorer returns the probability that the span is a real date.
type Scorer interface {
	Score(text string, span model.Span) float64
}

// Params are the per-call arguments. Start from DefaultParams: a zero
// BaseDate or Locale is filled in per call, but a zero Threshold is taken
// as given and lets every accepted date through the classifier gate.
type Params struct {
	Strict    bool
	BaseDate  time.Time // zero means January 1 of the current year
	Locale    locale.Locale
	Threshold float64
}

// DefaultParams returns the default threshold and locale.
func DefaultParams() Params {
	return Params{Locale: locale.Default(), Threshold: DefaultThreshold}
}

// Record returns the params as persisted with a run.
func (p Params) Record() model.RunParams {
	tag := p.Locale.Tag
	if p.Locale.IsZero() {
		tag = locale.Default().Tag
	}
	return model.RunParams{Locale: tag, Strict: p.Strict, Threshold: p.Threshold, BaseDate: p.BaseDate}
}

// Extractor runs the candidate pipeline. It keeps no per-call state and is
// safe for concurrent use.
type Extractor struct {
	tokenizer Tokenizer
	parser    DateParser
	scorer    Scorer
	log       *zap.Logger
	now       func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(e *Extractor) { e.tokenizer = t }
}

// WithParser replaces the default date-string parser.
func WithParser(p DateParser) Option {
	return func(e *Extractor) { e.parser = p }
}

// WithLogger sets the logger used for per-candidate debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// WithClock overrides the clock used to derive the default base date.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// New creates an Extractor. A nil scorer uses the embedded classifier.
func New(scorer Scorer, opts ...Option) *Extractor {
	e := &Extractor{
		tokenizer: tokenize.New(),
		parser:    dateparse.New(),
		scorer:    scorer,
		log:       zap.L(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.scorer == nil {
		e.scorer = classifier.DefaultScorer()
	}
	return e
}

// resolve fills defaults once, before any candidate is evaluated.
func (e *Extractor) resolve(p Params) Params {
	if p.Locale.IsZero() {
		p.Locale = locale.Default()
	}
	if p.BaseDate.IsZero() {
		p.BaseDate = time.Date(e.now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return p
}

// carry is the fold accumulator: the previous candidate, owned by the fold,
// and the verdict it received.
type carry struct {
	prev    *model.CandidateDate
	outcome *model.CandidateOutcome
}

// Outcomes yields one verdict per tokenizer candidate, in source order. The
// sequence is lazy: each pull evaluates exactly one candidate, and breaking
// out of the range loop stops all work.
func (e *Extractor) Outcomes(text string, p Params) iter.Seq[model.CandidateOutcome] {
	return func(yield func(model.CandidateOutcome) bool) {
		p := e.resolve(p)
		var acc carry
		index := 0
		for m := range e.tokenizer.ExtractDateStrings(text, p.Strict, p.Locale) {
			c := model.NewCandidate(m.Text, m.Span, m.Props, index, p.Locale)
			index++

			var out model.CandidateOutcome
			out, acc = e.step(acc, c, p.BaseDate)
			if out.Accepted {
				e.log.Debug("extract: candidate accepted",
					zap.Int("index", c.Index),
					zap.String("text", c.RawText),
					zap.String("date", out.Date.String()),
				)
			} else {
				e.log.Debug("extract: candidate rejected",
					zap.Int("index", c.Index),
					zap.String("text", c.RawText),
					zap.String("reason", string(out.Reason)),
				)
			}
			if !yield(out) {
				return
			}
		}
	}
}

// step folds one candidate into the accumulator.
func (e *Extractor) step(acc carry, c model.CandidateDate, base time.Time) (model.CandidateOutcome, carry) {
	c = normalizeDayOf(c, acc.prev, acc.outcome)
	out := e.evaluate(c, base)

	prev := out.Candidate.Clone()
	verdict := out
	return out, carry{prev: &prev, outcome: &verdict}
}

func (e *Extractor) evaluate(c model.CandidateDate, base time.Time) model.CandidateOutcome {
	if r := rejectImpossible(c); r != model.ReasonNone {
		return model.Reject(c, r)
	}
	c = normalizeTokens(c)
	if r := rejectPostNormalization(c); r != model.ReasonNone {
		return model.Reject(c, r)
	}

	d, r := parseWindowed(c, e.parser, base)
	if r != model.ReasonNone {
		return model.Reject(c, r)
	}
	if !ValidateDateParts(d, c.Props, c.Locale) {
		return model.Reject(c, model.ReasonDatePartsMismatch)
	}
	if !renderableOffset(d) {
		return model.Reject(c, model.ReasonInvalidTimezone)
	}
	return model.Accept(c, collapseMidnight(d))
}

// renderableOffset reports whether the zone offset is strictly inside a day.
func renderableOffset(d model.Date) bool {
	_, off := d.Time.Zone()
	return off > -24*3600 && off < 24*3600
}

// collapseMidnight turns a date-time at 00:00 into a plain date.
func collapseMidnight(d model.Date) model.Date {
	if !d.HasClock || d.Time.Hour() != 0 || d.Time.Minute() != 0 {
		return d
	}
	y, m, day := d.Time.Date()
	return model.NewDate(y, m, day)
}

// RawDates yields every accepted date with its span, without scoring.
func (e *Extractor) RawDates(text string, p Params) iter.Seq2[model.Date, model.Span] {
	return func(yield func(model.Date, model.Span) bool) {
		for out := range e.Outcomes(text, p) {
			if !out.Accepted || out.Date == nil {
				continue
			}
			if !yield(*out.Date, out.Candidate.Span) {
				return
			}
		}
	}
}

// Annotations yields accepted dates whose classifier score is at least
// p.Threshold.
func (e *Extractor) Annotations(text string, p Params) iter.Seq[model.DateAnnotation] {
	return e.Annotate(text, e.Outcomes(text, p), p.Threshold)
}

// Annotate scores the accepted outcomes of text, as produced by Outcomes,
// and yields those at or above threshold. Rejected outcomes are skipped.
func (e *Extractor) Annotate(text string, outs iter.Seq[model.CandidateOutcome], threshold float64) iter.Seq[model.DateAnnotation] {
	return func(yield func(model.DateAnnotation) bool) {
		for out := range outs {
			if !out.Accepted || out.Date == nil {
				continue
			}
			ann, ok := annotate(text, out, e.scorer, threshold)
			if !ok {
				continue
			}
			if !yield(ann) {
				return
			}
		}
	}
}

// Dates yields the dates and spans of Annotations.
func (e *Extractor) Dates(text string, p Params) iter.Seq2[model.Date, model.Span] {
	return func(yield func(model.Date, model.Span) bool) {
		for ann := range e.Annotations(text, p) {
			if !yield(ann.Date, ann.Coords) {
				return
			}
		}
	}
}
