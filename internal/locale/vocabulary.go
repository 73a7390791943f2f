package locale

import (
	"maps"
	"slices"
)

// Vocabulary holds case-folded word tables for one language.
type Vocabulary struct {
	months      map[string]int
	weekdays    map[string]int
	extra       map[string]bool
	rangeWords  map[string]bool
	timePeriods map[string]bool
	timezones   map[string]bool
	dayFirst    map[string]bool
}

func newVocabulary() *Vocabulary {
	return &Vocabulary{
		months:      make(map[string]int),
		weekdays:    make(map[string]int),
		extra:       make(map[string]bool),
		rangeWords:  make(map[string]bool),
		timePeriods: make(map[string]bool),
		timezones:   make(map[string]bool),
		dayFirst:    make(map[string]bool),
	}
}

// MonthByName maps a month name or abbreviation to 1..12, ignoring case.
func (v *Vocabulary) MonthByName(name string) (int, bool) {
	m, ok := v.months[fold(name)]
	return m, ok
}

// ExtraTokens lists the connector words in sorted order.
func (v *Vocabulary) ExtraTokens() []string {
	return slices.Sorted(maps.Keys(v.extra))
}

// IsMonth reports whether w names a month.
func (v *Vocabulary) IsMonth(w string) bool {
	_, ok := v.months[fold(w)]
	return ok
}

// IsWeekday reports whether w names a weekday.
func (v *Vocabulary) IsWeekday(w string) bool {
	_, ok := v.weekdays[fold(w)]
	return ok
}

// IsExtraToken reports whether w is a connector word such as "of" or "on".
func (v *Vocabulary) IsExtraToken(w string) bool { return v.extra[fold(w)] }

// IsRangeWord reports whether w joins the two ends of a date range.
func (v *Vocabulary) IsRangeWord(w string) bool { return v.rangeWords[fold(w)] }

// IsTimePeriod reports whether w is "am" or "pm".
func (v *Vocabulary) IsTimePeriod(w string) bool { return v.timePeriods[fold(w)] }

// IsTimezone reports whether w is a known zone abbreviation.
func (v *Vocabulary) IsTimezone(w string) bool { return v.timezones[fold(w)] }
