package model

import "github.com/sells-group/datextract/internal/locale"

// TokenProperties holds the categorized raw tokens the tokenizer found
// inside one candidate span. Every element is copied verbatim from the
// source text; lists are neither sorted nor de-duplicated.
type TokenProperties struct {
	Digits         []string `json:"digits"`
	Months         []string `json:"months"`
	DigitsModifier []string `json:"digits_modifier"`
	Days           []string `json:"days"`
	Delimiters     []string `json:"delimiters"`
	ExtraTokens    []string `json:"extra_tokens"`
	TimePeriods    []string `json:"time_periods,omitempty"`
	Timezones      []string `json:"timezones,omitempty"`
}

// Clone returns a deep copy so candidates never share backing arrays.
func (p TokenProperties) Clone() TokenProperties {
	return TokenProperties{
		Digits:         cloneStrings(p.Digits),
		Months:         cloneStrings(p.Months),
		DigitsModifier: cloneStrings(p.DigitsModifier),
		Days:           cloneStrings(p.Days),
		Delimiters:     cloneStrings(p.Delimiters),
		ExtraTokens:    cloneStrings(p.ExtraTokens),
		TimePeriods:    cloneStrings(p.TimePeriods),
		Timezones:      cloneStrings(p.Timezones),
	}
}

// CountDelimiter returns how many delimiter entries equal d.
func (p TokenProperties) CountDelimiter(d string) int {
	n := 0
	for _, v := range p.Delimiters {
		if v == d {
			n++
		}
	}
	return n
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether the span is non-empty and fits in a text of length n.
func (s Span) Valid(n int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= n
}

// CandidateDate is a span the tokenizer flagged as possibly denoting a date.
type CandidateDate struct {
	RawText        string          `json:"raw_text"`
	Span           Span            `json:"span"`
	Props          TokenProperties `json:"props"`
	Index          int             `json:"index"`
	Locale         locale.Locale   `json:"-"`
	NormalizedText string          `json:"normalized_text"`
}

// NewCandidate builds a candidate whose normalized text starts out equal to
// the raw text. The properties are copied.
func NewCandidate(raw string, span Span, props TokenProperties, index int, loc locale.Locale) CandidateDate {
	return CandidateDate{
		RawText:        raw,
		Span:           span,
		Props:          props.Clone(),
		Index:          index,
		Locale:         loc,
		NormalizedText: raw,
	}
}

// Clone returns a deep copy of the candidate.
func (c CandidateDate) Clone() CandidateDate {
	c.Props = c.Props.Clone()
	return c
}
