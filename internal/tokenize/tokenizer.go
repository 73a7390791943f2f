// Package tokenize scans free text for spans that might denote a date and
// reports the categorized tokens found inside each span.
package tokenize

import (
	"iter"
	"strings"

	"github.com/sells-group/datextract/internal/locale"
	"github.com/sells-group/datextract/internal/model"
)

// minRunItems is the fewest tokens (delimiters included) a run needs
// before it is considered at all.
const minRunItems = 3

// Match is one candidate span with its token properties.
type Match struct {
	Text  string
	Span  model.Span
	Props model.TokenProperties
}

// Regex proposes candidate date spans. It is stateless and safe for
// concurrent use.
type Regex struct{}

// New returns the default tokenizer.
func New() *Regex { return &Regex{} }

// ExtractDateStrings yields candidate spans in left-to-right order. In strict
// mode only spans with three numerals, or one month and two numerals, are
// reported.
func (t *Regex) ExtractDateStrings(text string, strict bool, loc locale.Locale) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		if loc.IsZero() {
			loc = locale.Default()
		}
		vocab := loc.Vocabulary()
		lx := newLexer(text, vocab)

		var run []Token
		flush := func() bool {
			defer func() { run = run[:0] }()
			if len(run) < minRunItems {
				return true
			}
			for _, piece := range splitRun(run, vocab) {
				m, ok := buildMatch(text, piece)
				if !ok || (strict && !complete(m.Props)) {
					continue
				}
				if !yield(m) {
					return false
				}
			}
			return true
		}

		for {
			tok, ok := lx.next()
			if !ok {
				break
			}
			if tok.Kind == KindBreak {
				if !flush() {
					return
				}
				continue
			}
			run = append(run, tok)
		}
		flush()
	}
}

func complete(p model.TokenProperties) bool {
	return len(p.Digits) == 3 || (len(p.Months) == 1 && len(p.Digits) == 2)
}

// splitRun cuts a run at range words ("2016-03-01 to 2016-03-10") and in
// front of "of" when nothing before it names a month ("the 1st of June").
// The range word is dropped; "of" stays with the right-hand piece.
func splitRun(run []Token, vocab *locale.Vocabulary) [][]Token {
	var pieces [][]Token
	start := 0
	for i, tok := range run {
		if tok.Kind != KindExtra || i == start {
			continue
		}
		left := run[start:i]
		switch {
		case vocab.IsRangeWord(tok.Term) && anchored(left) && anchored(run[i+1:]):
			pieces = append(pieces, left)
			start = i + 1
		case strings.EqualFold(tok.Term, "of") && anchored(left) && !hasKind(left, KindMonth):
			pieces = append(pieces, left)
			start = i
		}
	}
	return append(pieces, run[start:])
}

func anchored(toks []Token) bool {
	for _, t := range toks {
		if t.Kind == KindDigits || t.Kind == KindModifier || t.Kind == KindMonth {
			return true
		}
	}
	return false
}

func hasKind(toks []Token, k Kind) bool {
	for _, t := range toks {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// buildMatch trims edge delimiters and collects properties. Pieces with no
// date-bearing token are dropped.
func buildMatch(text string, piece []Token) (Match, bool) {
	for len(piece) > 0 && piece[0].Kind == KindDelimiter {
		piece = piece[1:]
	}
	for len(piece) > 0 && piece[len(piece)-1].Kind == KindDelimiter {
		piece = piece[:len(piece)-1]
	}
	if len(piece) == 0 {
		return Match{}, false
	}

	var props model.TokenProperties
	bearing := false
	for _, tok := range piece {
		bearing = bearing || tok.Kind.dateBearing()
		switch tok.Kind {
		case KindDigits:
			props.Digits = append(props.Digits, tok.Term)
		case KindModifier:
			props.DigitsModifier = append(props.DigitsModifier, tok.Term)
		case KindMonth:
			props.Months = append(props.Months, tok.Term)
		case KindWeekday:
			props.Days = append(props.Days, tok.Term)
		case KindExtra:
			props.ExtraTokens = append(props.ExtraTokens, tok.Term)
		case KindTimePeriod:
			props.TimePeriods = append(props.TimePeriods, tok.Term)
		case KindTimezone:
			props.Timezones = append(props.Timezones, tok.Term)
		case KindDelimiter:
			for _, r := range tok.Term {
				props.Delimiters = append(props.Delimiters, string(r))
			}
		}
	}
	if !bearing {
		return Match{}, false
	}

	span := model.Span{Start: piece[0].Start, End: piece[len(piece)-1].End}
	return Match{Text: text[span.Start:span.End], Span: span, Props: props}, true
}
