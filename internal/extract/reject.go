package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/datextract/internal/model"
)

// MaxDateLength caps the normalized text of a candidate, in characters.
const MaxDateLength = 40

var (
	reDoubleNumbers = regexp.MustCompile(`^\d{1,2}\s+\d{1,2}`)
	reDottedDate    = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2,4}`)
	reNumberDotWord = regexp.MustCompile(`\d{2,4}\.\s*[A-Za-z]`)
)

// rejectImpossible runs the syntactic checks that precede token cleanup.
// The first matching rule wins.
func rejectImpossible(c model.CandidateDate) model.RejectionReason {
	p := c.Props
	text := c.NormalizedText

	numMonth := len(p.Months)
	numModifier := len(p.DigitsModifier)
	numDigits := len(p.Digits)
	numDays := len(p.Days)
	numSlash := p.CountDelimiter("/")
	numPoint := p.CountDelimiter(".")
	numHyphen := p.CountDelimiter("-")

	switch {
	case numMonth > 1:
		return model.ReasonMultipleMonthTokens
	case numMonth == 1 && len(p.ExtraTokens) > 0 &&
		strings.Contains(text, p.Months[0]+p.ExtraTokens[len(p.ExtraTokens)-1]):
		return model.ReasonMonthFollowedByWord
	case numModifier > 0 && numDigits == 0:
		return model.ReasonModifierWithoutDigits
	case numDays > 0 && numDigits == 0:
		return model.ReasonDayWithoutDigits
	case numMonth == 0 && numModifier == 0 && numDigits <= 1:
		return model.ReasonInsufficientComponents
	case reDoubleNumbers.MatchString(text):
		return model.ReasonAmbiguousDoubleNumbers
	case numPoint > 0 && numMonth == 0 && !reDottedDate.MatchString(text):
		return model.ReasonDecimalWithoutMonth
	case reNumberDotWord.MatchString(text):
		return model.ReasonNumberDotWord
	case (numSlash == 1 || numHyphen == 1) && numDigits > 2:
		return model.ReasonFractionLikeNumber
	case hasBadDigitLength(p.Digits):
		return model.ReasonInvalidDigitLength
	}

	month := strings.ToLower(strings.Join(p.Months, ""))
	switch {
	case numDigits == 0 && numDays == 0 && month == "may":
		return model.ReasonStandaloneMay
	case numDigits > 0 && numPoint+numSlash+numHyphen > 0 && month == "may":
		return model.ReasonPunctuatedMay
	}
	return model.ReasonNone
}

func hasBadDigitLength(digits []string) bool {
	for _, d := range digits {
		if len(d) == 3 || strings.HasPrefix(d, "00") {
			return true
		}
	}
	return false
}

// cleanDelimiters never make a candidate look like a date on their own.
var cleanDelimiters = map[rune]bool{',': true, ' ': true, '\n': true, '\t': true}

// rejectPostNormalization runs after token cleanup.
func rejectPostNormalization(c model.CandidateDate) model.RejectionReason {
	if utf8.RuneCountInString(c.NormalizedText) > MaxDateLength {
		return model.ReasonExceedsMaxLength
	}

	meaningful := false
	for _, d := range c.Props.Delimiters {
		for _, r := range d {
			if !cleanDelimiters[r] {
				meaningful = true
			}
		}
	}
	if !meaningful && len(c.Props.Months) == 0 {
		return model.ReasonDigitsWithoutMonth
	}
	return model.ReasonNone
}
