package extract

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sells-group/datextract/internal/model"
)

// normalizeTokens strips connector words from the normalized text, longest
// first, keeping "to" and "t" which hold ranges and ISO date-times together.
// ExtraTokens is emptied.
func normalizeTokens(c model.CandidateDate) model.CandidateDate {
	tokens := slices.Clone(c.Props.ExtraTokens)
	slices.SortStableFunc(tokens, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})

	text := c.NormalizedText
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case "to", "t":
			continue
		}
		text = strings.ReplaceAll(text, tok, "")
	}
	c.NormalizedText = strings.TrimSpace(text)
	c.Props.ExtraTokens = []string{}
	return c
}
