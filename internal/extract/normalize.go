package extract

import (
	"strings"

	"github.com/sells-group/datextract/internal/model"
)

var ordinalSuffixes = []string{"st", "nd", "rd", "th"}

// normalizeDayOf repairs "the 1st" + "of June 2017" split across two
// candidates. When c carries "of" and the previous candidate was rejected
// holding exactly one ordinal, the ordinal moves to c and its cardinal is
// prepended to c's normalized text. prev is the fold's own copy and is
// updated in place.
func normalizeDayOf(c model.CandidateDate, prev *model.CandidateDate, prevOutcome *model.CandidateOutcome) model.CandidateDate {
	if prev == nil || prevOutcome == nil || prevOutcome.Accepted {
		return c
	}
	if !hasToken(c.Props.ExtraTokens, "of") || len(prev.Props.DigitsModifier) != 1 {
		return c
	}

	modifier := prev.Props.DigitsModifier[0]
	c.Props.DigitsModifier = append([]string{modifier}, c.Props.DigitsModifier...)
	prev.Props.DigitsModifier = prev.Props.DigitsModifier[:0]
	c.NormalizedText = stripOrdinal(modifier) + c.NormalizedText
	return c
}

func stripOrdinal(s string) string {
	lower := strings.ToLower(s)
	for _, suf := range ordinalSuffixes {
		if strings.HasSuffix(lower, suf) {
			return s[:len(s)-len(suf)]
		}
	}
	return s
}

func hasToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
