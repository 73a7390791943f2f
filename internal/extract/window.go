package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/sells-group/datextract/internal/dateparse"
	"github.com/sells-group/datextract/internal/model"
)

// parseWindowed trims the normalized text word by word until the parser
// accepts it. At each cut size, dropping trailing words is tried before
// dropping leading words. Parser failures only skip the variant; a
// malformed call ends the scan with type_error.
func parseWindowed(c model.CandidateDate, parser DateParser, base time.Time) (model.Date, model.RejectionReason) {
	words := strings.Fields(c.NormalizedText)
	for cutter := range len(words) {
		for _, variant := range windowVariants(c.NormalizedText, words, cutter) {
			d, err := parser.Parse(variant, c.Props, c.Locale, base)
			if err == nil {
				return d, model.ReasonNone
			}
			if errors.Is(err, dateparse.ErrMalformedCall) {
				return model.Date{}, model.ReasonTypeError
			}
		}
	}
	return model.Date{}, model.ReasonParseFailure
}

func windowVariants(text string, words []string, cutter int) []string {
	if cutter == 0 {
		return []string{text}
	}
	return []string{
		strings.Join(words[:len(words)-cutter], " "),
		strings.Join(words[cutter:], " "),
	}
}
