package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/datextract/internal/locale"
)

func TestNewCandidate_NormalizedTextStartsAsRaw(t *testing.T) {
	props := TokenProperties{Digits: []string{"1", "2017"}, Months: []string{"June"}}
	c := NewCandidate("June 1, 2017", Span{Start: 3, End: 15}, props, 2, locale.Default())

	assert.Equal(t, "June 1, 2017", c.NormalizedText)
	assert.Equal(t, 2, c.Index)

	// Props are copied, not aliased.
	props.Digits[0] = "9"
	assert.Equal(t, "1", c.Props.Digits[0])
}

func TestTokenProperties_Clone(t *testing.T) {
	p := TokenProperties{DigitsModifier: []string{"1st"}, Delimiters: []string{"/", "/"}}
	c := p.Clone()
	c.DigitsModifier[0] = "2nd"

	assert.Equal(t, "1st", p.DigitsModifier[0])
	assert.Nil(t, c.Days)
	assert.Equal(t, 2, c.CountDelimiter("/"))
	assert.Equal(t, 0, c.CountDelimiter("."))
}

func TestSpan_Valid(t *testing.T) {
	tests := []struct {
		name string
		span Span
		n    int
		want bool
	}{
		{"inside", Span{0, 4}, 10, true},
		{"full", Span{0, 10}, 10, true},
		{"empty", Span{3, 3}, 10, false},
		{"reversed", Span{5, 2}, 10, false},
		{"past end", Span{8, 11}, 10, false},
		{"negative", Span{-1, 2}, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.span.Valid(tt.n))
		})
	}
}

func TestOutcomeConstructors(t *testing.T) {
	c := NewCandidate("6.25", Span{0, 4}, TokenProperties{}, 0, locale.Default())

	acc := Accept(c, NewDate(2017, time.June, 1))
	assert.True(t, acc.Accepted)
	require.NotNil(t, acc.Date)
	assert.Equal(t, ReasonNone, acc.Reason)

	rej := Reject(c, ReasonDecimalWithoutMonth)
	assert.False(t, rej.Accepted)
	assert.Nil(t, rej.Date)
	assert.Equal(t, ReasonDecimalWithoutMonth, rej.Reason)
}

func TestRejectionReason_Valid(t *testing.T) {
	assert.True(t, ReasonTypeError.Valid())
	assert.True(t, ReasonInvalidTimezone.Valid())
	assert.False(t, RejectionReason("bogus").Valid())
	assert.False(t, ReasonNone.Valid())
	assert.Len(t, AllRejectionReasons(), 18)
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2017-06-01", NewDate(2017, time.June, 1).String())

	dt := Date{Time: time.Date(2017, 6, 1, 14, 30, 0, 0, time.UTC), HasClock: true}
	assert.Equal(t, "2017-06-01T14:30:00Z", dt.String())
}

func TestDate_JSON(t *testing.T) {
	ann := DateAnnotation{
		Coords: Span{Start: 12, End: 24},
		Text:   "June 1, 2017",
		Date:   NewDate(2017, time.June, 1),
		Score:  0.91,
	}
	b, err := json.Marshal(ann)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"date":"2017-06-01"`)

	var back DateAnnotation
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Date.Equal(ann.Date))
	assert.Equal(t, ann.Coords, back.Coords)
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("June first")
	assert.Error(t, err)
}
