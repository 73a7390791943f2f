// Package classifier scores accepted date candidates with a logistic model
// over character statistics of the text around each match.
package classifier

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultCharacters is the character set the default model was fitted on.
const DefaultCharacters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-/ %#$"

// DefaultWindow is how many bytes of context are read on each side of a span.
const DefaultWindow = 5

const (
	charPrefix   = "char_"
	bigramPrefix = "bigram_"
)

// FeatureConfig controls feature extraction.
type FeatureConfig struct {
	Characters string `yaml:"characters"`
	Window     int    `yaml:"window"`
	Bigrams    bool   `yaml:"bigrams"`
}

func (c FeatureConfig) withDefaults() FeatureConfig {
	if c.Characters == "" {
		c.Characters = DefaultCharacters
	}
	if c.Window < 0 {
		c.Window = 0
	}
	return c
}

// Produces reports whether Features can emit the named column.
func (c FeatureConfig) Produces(column string) bool {
	c = c.withDefaults()
	switch {
	case strings.HasPrefix(column, charPrefix):
		rest := column[len(charPrefix):]
		r, size := utf8.DecodeRuneInString(rest)
		return size == len(rest) && size > 0 && strings.ContainsRune(c.Characters, r)
	case strings.HasPrefix(column, bigramPrefix) && c.Bigrams:
		rest := []rune(column[len(bigramPrefix):])
		return len(rest) == 2 &&
			strings.ContainsRune(c.Characters, rest[0]) &&
			strings.ContainsRune(c.Characters, rest[1])
	}
	return false
}

// WindowText returns the context around [start, end), widened by the configured
// window and snapped to rune boundaries.
func (c FeatureConfig) WindowText(text string, start, end int) string {
	c = c.withDefaults()
	lo := min(max(0, start-c.Window), len(text))
	hi := min(max(0, end+c.Window), len(text))
	for lo > 0 && lo < len(text) && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	if lo >= hi {
		return ""
	}
	return text[lo:hi]
}

// Features computes the relative frequency of every configured character,
// and of adjacent character pairs when bigrams are enabled, in the window
// around [start, end). Compatibility forms such as full-width digits are
// folded before counting.
func Features(text string, start, end int, cfg FeatureConfig) map[string]float64 {
	cfg = cfg.withDefaults()
	window := []rune(norm.NFKC.String(cfg.WindowText(text, start, end)))

	out := make(map[string]float64, utf8.RuneCountInString(cfg.Characters))
	for _, r := range cfg.Characters {
		out[charPrefix+string(r)] = 0
	}
	if len(window) == 0 {
		return out
	}

	total := float64(len(window))
	for _, r := range window {
		key := charPrefix + string(r)
		if _, ok := out[key]; ok {
			out[key] += 1 / total
		}
	}

	if cfg.Bigrams && len(window) > 1 {
		pairs := float64(len(window) - 1)
		for i := 1; i < len(window); i++ {
			a, b := window[i-1], window[i]
			if !strings.ContainsRune(cfg.Characters, a) || !strings.ContainsRune(cfg.Characters, b) {
				continue
			}
			out[bigramPrefix+string([]rune{a, b})] += 1 / pairs
		}
	}
	return out
}
