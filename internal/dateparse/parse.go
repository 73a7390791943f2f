// Package dateparse turns a short date-like string into a concrete calendar
// value. Parsing is delegated to go-dateparser, driven by the candidate's
// locale, its token properties and the caller's base date. Numeric zone
// offsets are read here so that offsets the time package cannot name still
// reach the caller.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
	"github.com/markusmobius/go-dateparser/date"
	"github.com/rotisserie/eris"

	"github.com/sells-group/datextract/internal/locale"
	"github.com/sells-group/datextract/internal/model"
)

var (
	// ErrNoDate means the text does not describe a date.
	ErrNoDate = eris.New("dateparse: no date")
	// ErrMalformedCall means the parser was invoked without what it needs
	// to work, as opposed to being handed text that is not a date.
	ErrMalformedCall = eris.New("dateparse: malformed call")
)

var (
	// reZone matches a trailing Z, +HHMM or +HH:MM after a clock.
	reZone      = regexp.MustCompile(`(?i)^(.*\d{1,2}:\d{2}(?::\d{2})?(?:\.\d+)?)\s*(z|[+-]\d{2}:?\d{2})$`)
	reISOTime   = regexp.MustCompile(`(\d)[Tt](\d)`)
	reYearFirst = regexp.MustCompile(`^\D*\d{4}[-/.]\d`)
)

// Parser is the default date-string parser. It holds no per-call state.
type Parser struct{}

// New returns a Parser.
func New() *Parser { return &Parser{} }

// Parse interprets text as a date or date-time. props are the token
// properties of the enclosing candidate; loc supplies the language and the
// day-first convention; base fills fields the text leaves out.
func (p *Parser) Parse(text string, props model.TokenProperties, loc locale.Locale, base time.Time) (model.Date, error) {
	if loc.IsZero() {
		return model.Date{}, eris.Wrap(ErrMalformedCall, "dateparse: locale not resolved")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Date{}, ErrNoDate
	}

	text, zone, hasZone := splitZone(text)
	text = reISOTime.ReplaceAllString(text, "$1 $2")

	parser := &dps.Parser{ParserTypes: []dps.ParserType{dps.AbsoluteTime}}
	dt, err := parser.Parse(configFor(text, props, loc, base), text)
	if err != nil {
		return model.Date{}, eris.Wrapf(ErrNoDate, "dateparse: %q: %v", text, err)
	}
	if dt.Time.IsZero() {
		return model.Date{}, eris.Wrapf(ErrNoDate, "dateparse: %q", text)
	}
	return build(dt, zone, hasZone)
}

// configFor maps the locale and token properties onto the parser settings.
// Fields the text omits come from base; the locale's connector words are
// skipped.
func configFor(text string, props model.TokenProperties, loc locale.Locale, base time.Time) *dps.Configuration {
	order := dps.MDY
	switch {
	case reYearFirst.MatchString(text):
		order = dps.YMD
	case loc.DayFirst || props.CountDelimiter(".") >= 2:
		order = dps.DMY
	}
	return &dps.Configuration{
		CurrentTime:          base,
		DefaultTimezone:      time.UTC,
		DateOrder:            order,
		PreferredDayOfMonth:  dps.Current,
		PreferredMonthOfYear: dps.CurrentMonth,
		SkipTokens:           loc.Vocabulary().ExtraTokens(),
		ReturnTimeAsPeriod:   true,
		Languages:            []string{loc.Language},
	}
}

func build(dt date.Date, zone int, hasZone bool) (model.Date, error) {
	t := dt.Time
	if t.Year() < 1 || t.Year() > 9999 {
		return model.Date{}, ErrNoDate
	}
	switch dt.Period {
	case date.Hour, date.Minute, date.Second:
	default:
		return model.NewDate(t.Year(), t.Month(), t.Day()), nil
	}
	if hasZone {
		loc := time.UTC
		if zone != 0 {
			loc = time.FixedZone("", zone)
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	}
	return model.Date{Time: t, HasClock: true}, nil
}

// splitZone removes a numeric offset trailing a clock and returns it in
// seconds east of UTC. Offsets are not range-checked; callers decide what an
// unrenderable offset means.
func splitZone(text string) (string, int, bool) {
	m := reZone.FindStringSubmatch(text)
	if m == nil {
		return text, 0, false
	}
	off, ok := parseOffset(m[2])
	if !ok {
		return text, 0, false
	}
	return strings.TrimSpace(m[1]), off, true
}

// parseOffset reads Z, +HHMM or +HH:MM into seconds east of UTC.
func parseOffset(s string) (int, bool) {
	if strings.EqualFold(s, "z") {
		return 0, true
	}
	if len(s) < 3 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	if len(digits) != 4 {
		return 0, false
	}
	h, _ := strconv.Atoi(digits[:2])
	m, _ := strconv.Atoi(digits[2:])
	if m > 59 {
		return 0, false
	}
	off := h*3600 + m*60
	if s[0] == '-' {
		off = -off
	}
	return off, true
}
