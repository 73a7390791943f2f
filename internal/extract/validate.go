package extract

import (
	"strconv"
	"strings"

	"github.com/sells-group/datextract/internal/model"
)

// MonthLookup maps a month name in any case to 1..12.
type MonthLookup interface {
	MonthByName(name string) (int, bool)
}

type dateUnit int

const (
	unitYear dateUnit = iota
	unitMonth
	unitDay
	unitHour
	unitMinute
)

// ValidateDateParts reports whether every calendar field of d can be traced
// back to a token in props. A parsed month that differs from a month name in
// the text is always rejected. Otherwise the parse fails only when some of
// year, month or day has no supporting token while the text still holds a
// number the parse did not use.
func ValidateDateParts(d model.Date, props model.TokenProperties, lookup MonthLookup) bool {
	t := d.Time
	values := map[dateUnit]int{
		unitYear:  t.Year(),
		unitMonth: int(t.Month()),
		unitDay:   t.Day(),
	}
	if d.HasClock {
		values[unitHour] = t.Hour()
		values[unitMinute] = t.Minute()
	}

	var months []int
	for _, m := range props.Months {
		if v, ok := lookup.MonthByName(strings.ToLower(m)); ok {
			months = append(months, v)
		}
	}
	if len(months) > 0 && !containsInt(months, values[unitMonth]) {
		return false
	}

	var expected []int
	for _, s := range props.Digits {
		if v, err := strconv.Atoi(s); err == nil {
			expected = append(expected, v)
		}
	}
	expected = append(expected, months...)
	for _, s := range props.DigitsModifier {
		if v, ok := cardinal(s); ok && v != 0 {
			expected = append(expected, v)
		}
	}

	dateValues := make(map[int]bool, len(values))
	for _, v := range values {
		dateValues[v] = true
	}

	removable := make(map[int]bool)
	matched := make(map[dateUnit]bool)
	for unit, v := range values {
		if unit == unitYear {
			short := v
			if v > 1000 {
				short = v % 100
			}
			if containsInt(expected, short) {
				matched[unit] = true
				removable[short] = true
				continue
			}
		}
		if containsInt(expected, v) {
			matched[unit] = true
			removable[v] = true
		}
	}

	leftover := false
	for _, v := range expected {
		if !dateValues[v] && !removable[v] {
			leftover = true
			break
		}
	}
	if !leftover {
		return true
	}
	return matched[unitYear] && matched[unitMonth] && matched[unitDay]
}

// cardinal keeps only the digits of an ordinal such as "21st".
func cardinal(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(b.String())
	return v, err == nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
