package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/datextract/internal/dateparse"
	"github.com/sells-group/datextract/internal/locale"
	"github.com/sells-group/datextract/internal/model"
)

func candidate(text string, props model.TokenProperties) model.CandidateDate {
	return model.NewCandidate(text, model.Span{Start: 0, End: len(text)}, props, 0, locale.Default())
}

func TestRejectImpossible(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		props model.TokenProperties
		want  model.RejectionReason
	}{
		{
			name:  "multiple months",
			text:  "Jan Feb",
			props: model.TokenProperties{Months: []string{"Jan", "Feb"}, Delimiters: []string{" "}},
			want:  model.ReasonMultipleMonthTokens,
		},
		{
			name:  "multiple months wins over everything",
			text:  "1st Jan 2 Feb",
			props: model.TokenProperties{Months: []string{"Jan", "Feb"}, DigitsModifier: []string{"1st"}, Digits: []string{"2"}},
			want:  model.ReasonMultipleMonthTokens,
		},
		{
			name:  "month glued to word",
			text:  "Mayday 5 2019",
			props: model.TokenProperties{Months: []string{"May"}, ExtraTokens: []string{"day"}, Digits: []string{"5", "2019"}},
			want:  model.ReasonMonthFollowedByWord,
		},
		{
			name:  "modifier only",
			text:  "1st",
			props: model.TokenProperties{DigitsModifier: []string{"1st"}},
			want:  model.ReasonModifierWithoutDigits,
		},
		{
			name:  "weekday only",
			text:  "Monday June",
			props: model.TokenProperties{Days: []string{"Monday"}, Months: []string{"June"}},
			want:  model.ReasonDayWithoutDigits,
		},
		{
			name:  "single number",
			text:  "on 5",
			props: model.TokenProperties{Digits: []string{"5"}, ExtraTokens: []string{"on"}},
			want:  model.ReasonInsufficientComponents,
		},
		{
			name:  "two bare numbers",
			text:  "12 14",
			props: model.TokenProperties{Digits: []string{"12", "14"}, Delimiters: []string{" "}},
			want:  model.ReasonAmbiguousDoubleNumbers,
		},
		{
			name:  "decimal",
			text:  "on 6.25",
			props: model.TokenProperties{Digits: []string{"6", "25"}, Delimiters: []string{" ", "."}, ExtraTokens: []string{"on"}},
			want:  model.ReasonDecimalWithoutMonth,
		},
		{
			name:  "section citation",
			text:  "June 12. Section",
			props: model.TokenProperties{Months: []string{"June"}, Digits: []string{"12", "1"}, Delimiters: []string{"."}},
			want:  model.ReasonNumberDotWord,
		},
		{
			name:  "fraction",
			text:  "1/2 3",
			props: model.TokenProperties{Digits: []string{"1", "2", "3"}, Delimiters: []string{"/", " "}},
			want:  model.ReasonFractionLikeNumber,
		},
		{
			name:  "three digit component",
			text:  "12/123/2019",
			props: model.TokenProperties{Digits: []string{"12", "123", "2019"}, Delimiters: []string{"/", "/"}},
			want:  model.ReasonInvalidDigitLength,
		},
		{
			name:  "double zero",
			text:  "001/12/2019",
			props: model.TokenProperties{Digits: []string{"001", "12", "2019"}, Delimiters: []string{"/", "/"}},
			want:  model.ReasonInvalidDigitLength,
		},
		{
			name:  "punctuated may",
			text:  "May 5/2019",
			props: model.TokenProperties{Months: []string{"May"}, Digits: []string{"5", "2019"}, Delimiters: []string{" ", "/"}},
			want:  model.ReasonPunctuatedMay,
		},
		{
			name:  "dotted numeric date passes",
			text:  "05.06.2019",
			props: model.TokenProperties{Digits: []string{"05", "06", "2019"}, Delimiters: []string{".", "."}},
			want:  model.ReasonNone,
		},
		{
			name:  "plain date passes",
			text:  "of June 1, 2017",
			props: model.TokenProperties{Months: []string{"June"}, Digits: []string{"1", "2017"}, ExtraTokens: []string{"of"}},
			want:  model.ReasonNone,
		},
		{
			name:  "may with digits and no punctuation passes",
			text:  "May 5 2019",
			props: model.TokenProperties{Months: []string{"May"}, Digits: []string{"5", "2019"}, Delimiters: []string{" ", " "}},
			want:  model.ReasonNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rejectImpossible(candidate(tt.text, tt.props)))
		})
	}
}

func TestRejectImpossible_StandaloneMay(t *testing.T) {
	// Reachable only when no earlier rule fires: one month, no digits, no
	// modifiers, no weekdays.
	c := candidate("May", model.TokenProperties{Months: []string{"May"}})
	assert.Equal(t, model.ReasonStandaloneMay, rejectImpossible(c))

	c = candidate("June", model.TokenProperties{Months: []string{"June"}})
	assert.Equal(t, model.ReasonNone, rejectImpossible(c))
}

func TestRejectPostNormalization(t *testing.T) {
	long := candidate("June 1, 2017 and then some more words to pad it out", model.TokenProperties{Months: []string{"June"}})
	assert.Equal(t, model.ReasonExceedsMaxLength, rejectPostNormalization(long))

	digits := candidate("12, 2019", model.TokenProperties{Digits: []string{"12", "2019"}, Delimiters: []string{",", " "}})
	assert.Equal(t, model.ReasonDigitsWithoutMonth, rejectPostNormalization(digits))

	slashed := candidate("12/2019", model.TokenProperties{Digits: []string{"12", "2019"}, Delimiters: []string{"/"}})
	assert.Equal(t, model.ReasonNone, rejectPostNormalization(slashed))

	month := candidate("June 2019", model.TokenProperties{Months: []string{"June"}, Digits: []string{"2019"}, Delimiters: []string{" "}})
	assert.Equal(t, model.ReasonNone, rejectPostNormalization(month))
}

func TestNormalizeTokens(t *testing.T) {
	c := candidate("on or about 1 June 2017 to", model.TokenProperties{ExtraTokens: []string{"on", "about", "to"}})
	got := normalizeTokens(c)
	assert.Equal(t, "or  1 June 2017 to", got.NormalizedText)
	assert.Empty(t, got.Props.ExtraTokens)
	assert.NotNil(t, got.Props.ExtraTokens)
	// The input candidate is untouched.
	assert.Equal(t, []string{"on", "about", "to"}, c.Props.ExtraTokens)
}

func TestNormalizeTokens_LongestFirst(t *testing.T) {
	c := candidate("dated 1 June 2017", model.TokenProperties{ExtraTokens: []string{"date", "dated"}})
	assert.Equal(t, "1 June 2017", normalizeTokens(c).NormalizedText)
}

func TestNormalizeDayOf(t *testing.T) {
	prev := candidate("1st", model.TokenProperties{DigitsModifier: []string{"1st"}})
	prevOut := model.Reject(prev, model.ReasonModifierWithoutDigits)
	cur := candidate("of June 2017", model.TokenProperties{Months: []string{"June"}, Digits: []string{"2017"}, ExtraTokens: []string{"of"}})

	got := normalizeDayOf(cur, &prev, &prevOut)
	assert.Equal(t, "1of June 2017", got.NormalizedText)
	assert.Equal(t, []string{"1st"}, got.Props.DigitsModifier)
	assert.Empty(t, prev.Props.DigitsModifier)
	// The yielded outcome keeps its own copy.
	assert.Equal(t, []string{"1st"}, prevOut.Candidate.Props.DigitsModifier)
}

func TestNormalizeDayOf_NoOp(t *testing.T) {
	cur := candidate("of June 2017", model.TokenProperties{Months: []string{"June"}, ExtraTokens: []string{"of"}})
	prev := candidate("22nd", model.TokenProperties{DigitsModifier: []string{"22nd"}})

	accepted := model.Accept(prev, model.NewDate(2017, 6, 22))
	assert.Equal(t, cur, normalizeDayOf(cur, &prev, &accepted))

	rejected := model.Reject(prev, model.ReasonModifierWithoutDigits)
	assert.Equal(t, cur, normalizeDayOf(cur, nil, nil))

	noOf := candidate("June 2017", model.TokenProperties{Months: []string{"June"}})
	assert.Equal(t, noOf, normalizeDayOf(noOf, &prev, &rejected))

	two := candidate("1st 2nd", model.TokenProperties{DigitsModifier: []string{"1st", "2nd"}})
	assert.Equal(t, cur, normalizeDayOf(cur, &two, &rejected))
}

func TestStripOrdinal(t *testing.T) {
	assert.Equal(t, "1", stripOrdinal("1st"))
	assert.Equal(t, "22", stripOrdinal("22ND"))
	assert.Equal(t, "3", stripOrdinal("3rd"))
	assert.Equal(t, "14", stripOrdinal("14th"))
	assert.Equal(t, "7", stripOrdinal("7"))
}

func TestValidateDateParts(t *testing.T) {
	loc := locale.Default()
	props := model.TokenProperties{
		Digits: []string{"1", "2017"},
		Months: []string{"June"},
	}
	assert.True(t, ValidateDateParts(model.NewDate(2017, 6, 1), props, loc))

	props.Months = []string{"July"}
	assert.False(t, ValidateDateParts(model.NewDate(2017, 6, 1), props, loc))
}

func TestValidateDateParts_Cases(t *testing.T) {
	loc := locale.Default()
	tests := []struct {
		name  string
		date  model.Date
		props model.TokenProperties
		want  bool
	}{
		{
			name:  "short year",
			date:  model.NewDate(2017, 6, 1),
			props: model.TokenProperties{Digits: []string{"1", "17"}, Months: []string{"jun"}},
			want:  true,
		},
		{
			name:  "modifier supplies day",
			date:  model.NewDate(2017, 6, 21),
			props: model.TokenProperties{Digits: []string{"2017"}, Months: []string{"June"}, DigitsModifier: []string{"21st"}},
			want:  true,
		},
		{
			name:  "invented day with unused number",
			date:  model.NewDate(2017, 6, 1),
			props: model.TokenProperties{Digits: []string{"2017", "45"}, Months: []string{"June"}},
			want:  false,
		},
		{
			name:  "defaulted day with nothing left over",
			date:  model.NewDate(2017, 6, 1),
			props: model.TokenProperties{Digits: []string{"2017"}, Months: []string{"June"}},
			want:  true,
		},
		{
			name: "clock fields absorb numbers",
			date: model.Date{Time: time.Date(2019, 3, 1, 10, 30, 0, 0, time.UTC), HasClock: true},
			props: model.TokenProperties{
				Digits: []string{"2019", "03", "01", "10", "30"},
			},
			want: true,
		},
		{
			name:  "numeric month mismatch without names",
			date:  model.NewDate(2019, 4, 3),
			props: model.TokenProperties{Digits: []string{"2019", "3", "5"}},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDateParts(tt.date, tt.props, loc))
		})
	}
}

type recordingParser struct {
	calls []string
	err   error
	okAt  string
}

func (p *recordingParser) Parse(text string, _ model.TokenProperties, _ locale.Locale, _ time.Time) (model.Date, error) {
	p.calls = append(p.calls, text)
	if text == p.okAt {
		return model.NewDate(2020, 1, 2), nil
	}
	return model.Date{}, p.err
}

func TestParseWindowed_Order(t *testing.T) {
	p := &recordingParser{err: dateparse.ErrNoDate}
	c := candidate("a b c", model.TokenProperties{})

	_, reason := parseWindowed(c, p, time.Time{})
	assert.Equal(t, model.ReasonParseFailure, reason)
	assert.Equal(t, []string{"a b c", "a b", "b c", "a", "c"}, p.calls)
}

func TestParseWindowed_FirstSuccessWins(t *testing.T) {
	p := &recordingParser{err: dateparse.ErrNoDate, okAt: "b c"}
	c := candidate("a b c", model.TokenProperties{})

	d, reason := parseWindowed(c, p, time.Time{})
	require.Equal(t, model.ReasonNone, reason)
	assert.Equal(t, "2020-01-02", d.String())
	assert.Equal(t, []string{"a b c", "a b", "b c"}, p.calls)
}

func TestParseWindowed_MalformedCall(t *testing.T) {
	p := &recordingParser{err: dateparse.ErrMalformedCall}
	_, reason := parseWindowed(candidate("a b", model.TokenProperties{}), p, time.Time{})
	assert.Equal(t, model.ReasonTypeError, reason)
	assert.Len(t, p.calls, 1)
}

func TestParseWindowed_Empty(t *testing.T) {
	p := &recordingParser{err: dateparse.ErrNoDate}
	c := candidate("x", model.TokenProperties{})
	c.NormalizedText = "   "
	_, reason := parseWindowed(c, p, time.Time{})
	assert.Equal(t, model.ReasonParseFailure, reason)
	assert.Empty(t, p.calls)
}

func TestCollapseMidnight(t *testing.T) {
	d := model.Date{Time: time.Date(2019, 3, 1, 0, 0, 30, 0, time.FixedZone("", 3600)), HasClock: true}
	assert.Equal(t, model.NewDate(2019, 3, 1), collapseMidnight(d))

	d = model.Date{Time: time.Date(2019, 3, 1, 0, 5, 0, 0, time.UTC), HasClock: true}
	assert.Equal(t, d, collapseMidnight(d))
}

func TestRenderableOffset(t *testing.T) {
	assert.True(t, renderableOffset(model.NewDate(2019, 3, 1)))
	ok := model.Date{Time: time.Date(2019, 3, 1, 1, 0, 0, 0, time.FixedZone("", 23*3600+59*60)), HasClock: true}
	assert.True(t, renderableOffset(ok))
	bad := model.Date{Time: time.Date(2019, 3, 1, 1, 0, 0, 0, time.FixedZone("", 99*3600)), HasClock: true}
	assert.False(t, renderableOffset(bad))
}
