package tokenize

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/datextract/internal/locale"
	"github.com/sells-group/datextract/internal/model"
)

func collect(text string, strict bool) []Match {
	return slices.Collect(New().ExtractDateStrings(text, strict, locale.Default()))
}

func TestExtractDateStrings_DatedAsOf(t *testing.T) {
	text := "Dated as of June 1, 2017."
	got := collect(text, false)
	require.Len(t, got, 1)

	m := got[0]
	assert.Equal(t, "of June 1, 2017", m.Text)
	assert.Equal(t, m.Text, text[m.Span.Start:m.Span.End])
	assert.Equal(t, []string{"June"}, m.Props.Months)
	assert.Equal(t, []string{"1", "2017"}, m.Props.Digits)
	assert.Equal(t, []string{"of"}, m.Props.ExtraTokens)
	assert.Equal(t, []string{" ", " ", ",", " "}, m.Props.Delimiters)
}

func TestExtractDateStrings_SectionDecimal(t *testing.T) {
	got := collect("Section on 6.25", false)
	require.Len(t, got, 1)
	assert.Equal(t, "on 6.25", got[0].Text)
	assert.Equal(t, []string{"6", "25"}, got[0].Props.Digits)
	assert.Equal(t, []string{" ", "."}, got[0].Props.Delimiters)
	assert.Empty(t, got[0].Props.Months)
}

func TestExtractDateStrings_OrdinalOfSplit(t *testing.T) {
	got := collect("on the 1st of June 2017", false)
	require.Len(t, got, 2)

	assert.Equal(t, "1st", got[0].Text)
	assert.Equal(t, []string{"1st"}, got[0].Props.DigitsModifier)
	assert.Empty(t, got[0].Props.Digits)

	assert.Equal(t, "of June 2017", got[1].Text)
	assert.Equal(t, []string{"of"}, got[1].Props.ExtraTokens)
	assert.Less(t, got[0].Span.End, got[1].Span.Start)
}

func TestExtractDateStrings_RangeSplit(t *testing.T) {
	text := "2016-03-01 to 2016-03-10"
	got := collect(text, false)
	require.Len(t, got, 2)
	assert.Equal(t, "2016-03-01", got[0].Text)
	assert.Equal(t, "2016-03-10", got[1].Text)
	assert.Equal(t, []string{"2016", "03", "01"}, got[0].Props.Digits)
	assert.Equal(t, []string{"-", "-"}, got[0].Props.Delimiters)
	assert.Empty(t, got[0].Props.ExtraTokens)
}

func TestExtractDateStrings_ShortRunsIgnored(t *testing.T) {
	assert.Empty(t, collect("item 7", false))
	assert.Empty(t, collect("", false))
	assert.Empty(t, collect("no dates here at all", false))
}

func TestExtractDateStrings_CompoundWord(t *testing.T) {
	got := collect("Mayday 5 2019", false)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"May"}, got[0].Props.Months)
	assert.Equal(t, []string{"day"}, got[0].Props.ExtraTokens)
}

func TestExtractDateStrings_TimeTokens(t *testing.T) {
	got := collect("at 10:30 pm EST on March 3, 2020", false)
	require.Len(t, got, 1)
	m := got[0]
	assert.Equal(t, "at 10:30 pm EST on March 3, 2020", m.Text)
	assert.Equal(t, []string{"pm"}, m.Props.TimePeriods)
	assert.Equal(t, []string{"EST"}, m.Props.Timezones)
}

func TestExtractDateStrings_Strict(t *testing.T) {
	text := "Signed June 2017 and filed 03/04/2018."
	loose := collect(text, false)
	strict := collect(text, true)

	require.Len(t, loose, 2)
	require.Len(t, strict, 1)
	assert.Equal(t, "03/04/2018", strict[0].Text)
}

func TestExtractDateStrings_SpansInsideText(t *testing.T) {
	text := "Between 1 Jan 2019 and 2019-12-31, rent was due on the 5th of each month."
	for _, m := range collect(text, false) {
		require.True(t, m.Span.Valid(len(text)), m.Text)
		assert.Equal(t, m.Text, text[m.Span.Start:m.Span.End])
	}
}

func TestExtractDateStrings_EarlyStop(t *testing.T) {
	n := 0
	for range New().ExtractDateStrings("2019-01-01 and 2019-02-01 and 2019-03-01", false, locale.Default()) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestExtractDateStrings_ZeroLocale(t *testing.T) {
	got := slices.Collect(New().ExtractDateStrings("June 1, 2017", false, locale.Locale{}))
	require.Len(t, got, 1)
	assert.Equal(t, model.Span{Start: 0, End: 12}, got[0].Span)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "digits_modifier", KindModifier.String())
	assert.Equal(t, "months", KindMonth.String())
	assert.Equal(t, "break", KindBreak.String())
}
