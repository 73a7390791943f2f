// Package locale resolves locale strings into the vocabulary the date
// pipeline needs: month and weekday names, connector words and the
// day-first convention of the region.
package locale

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnsupportedLocale is returned when no vocabulary exists for a language.
var ErrUnsupportedLocale = eris.New("locale: unsupported locale")

const defaultLanguage = "en"

//go:embed vocab.toml
var vocabTOML string

// Locale is a resolved locale. The zero value is not usable; call
// Default or Resolve.
type Locale struct {
	Tag      string `json:"tag"`
	Language string `json:"language"`
	Region   string `json:"region,omitempty"`
	DayFirst bool   `json:"day_first"`

	vocab *Vocabulary
}

// IsZero reports whether l was never resolved.
func (l Locale) IsZero() bool { return l.vocab == nil }

// Vocabulary returns the locale's word tables.
func (l Locale) Vocabulary() *Vocabulary { return l.vocab }

// MonthByName maps a month name in any case to 1..12.
func (l Locale) MonthByName(name string) (int, bool) {
	if l.vocab == nil {
		return 0, false
	}
	return l.vocab.MonthByName(name)
}

// Default returns English with no region.
func Default() Locale {
	v, err := vocabularies()
	if err != nil {
		// The embedded table is part of the binary; failing to decode it is
		// a build defect.
		panic(err)
	}
	return Locale{Tag: defaultLanguage, Language: defaultLanguage, vocab: v[defaultLanguage]}
}

// Resolve parses a BCP 47 string such as "en-US". The empty string resolves
// to Default.
func Resolve(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default(), nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return Locale{}, eris.Wrapf(ErrUnsupportedLocale, "locale: parse %q: %v", s, err)
	}

	base, _ := tag.Base()
	vocabs, err := vocabularies()
	if err != nil {
		return Locale{}, err
	}
	v, ok := vocabs[base.String()]
	if !ok {
		return Locale{}, eris.Wrapf(ErrUnsupportedLocale, "locale: no vocabulary for %q", base.String())
	}

	loc := Locale{Tag: tag.String(), Language: base.String(), vocab: v}
	if region, conf := tag.Region(); conf == language.Exact {
		loc.Region = region.String()
		loc.DayFirst = v.dayFirst[loc.Region]
	}
	return loc, nil
}

// MustResolve is Resolve for tests and static tables.
func MustResolve(s string) Locale {
	l, err := Resolve(s)
	if err != nil {
		panic(err)
	}
	return l
}

type vocabFile map[string]struct {
	Name            string     `toml:"name"`
	DayFirstRegions []string   `toml:"day_first_regions"`
	Months          [][]string `toml:"months"`
	Weekdays        [][]string `toml:"weekdays"`
	ExtraTokens     []string   `toml:"extra_tokens"`
	RangeWords      []string   `toml:"range_words"`
	TimePeriods     []string   `toml:"time_periods"`
	Timezones       []string   `toml:"timezones"`
}

var vocabularies = sync.OnceValues(func() (map[string]*Vocabulary, error) {
	var f vocabFile
	if _, err := toml.Decode(vocabTOML, &f); err != nil {
		return nil, eris.Wrap(err, "locale: decode vocabulary")
	}
	out := make(map[string]*Vocabulary, len(f))
	for lang, entry := range f {
		if len(entry.Months) != 12 {
			return nil, eris.Errorf("locale: %s has %d months, want 12", lang, len(entry.Months))
		}
		v := newVocabulary()
		for i, names := range entry.Months {
			for _, n := range names {
				v.months[fold(n)] = i + 1
			}
		}
		for i, names := range entry.Weekdays {
			for _, n := range names {
				v.weekdays[fold(n)] = i
			}
		}
		addAll(v.extra, entry.ExtraTokens)
		addAll(v.rangeWords, entry.RangeWords)
		addAll(v.timePeriods, entry.TimePeriods)
		addAll(v.timezones, entry.Timezones)
		for _, r := range entry.DayFirstRegions {
			v.dayFirst[r] = true
		}
		out[lang] = v
	}
	if _, ok := out[defaultLanguage]; !ok {
		return nil, eris.New("locale: default vocabulary missing")
	}
	return out, nil
})

func addAll(set map[string]bool, words []string) {
	for _, w := range words {
		set[fold(w)] = true
	}
}

// fold case-folds s. A Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
