package model

// RejectionReason tags why a candidate produced no date.
type RejectionReason string

const (
	ReasonNone RejectionReason = ""

	// Pre-cleanup heuristics, in evaluation order.
	ReasonMultipleMonthTokens    RejectionReason = "multiple_month_tokens"
	ReasonMonthFollowedByWord    RejectionReason = "month_followed_by_word"
	ReasonModifierWithoutDigits  RejectionReason = "modifier_without_digits"
	ReasonDayWithoutDigits       RejectionReason = "day_without_digits"
	ReasonInsufficientComponents RejectionReason = "insufficient_components"
	ReasonAmbiguousDoubleNumbers RejectionReason = "ambiguous_double_numbers"
	ReasonDecimalWithoutMonth    RejectionReason = "decimal_without_month"
	ReasonNumberDotWord          RejectionReason = "number_dot_word"
	ReasonFractionLikeNumber     RejectionReason = "fraction_like_number"
	ReasonInvalidDigitLength     RejectionReason = "invalid_digit_length"
	ReasonStandaloneMay          RejectionReason = "standalone_may"
	ReasonPunctuatedMay          RejectionReason = "punctuated_may"

	// Post-cleanup heuristics.
	ReasonExceedsMaxLength   RejectionReason = "exceeds_max_length"
	ReasonDigitsWithoutMonth RejectionReason = "digits_without_month"

	// Parsing and validation.
	ReasonParseFailure      RejectionReason = "parse_failure"
	ReasonTypeError         RejectionReason = "type_error"
	ReasonDatePartsMismatch RejectionReason = "date_parts_mismatch"
	ReasonInvalidTimezone   RejectionReason = "invalid_timezone"
)

// AllRejectionReasons returns every defined reason in pipeline order.
func AllRejectionReasons() []RejectionReason {
	return []RejectionReason{
		ReasonMultipleMonthTokens,
		ReasonMonthFollowedByWord,
		ReasonModifierWithoutDigits,
		ReasonDayWithoutDigits,
		ReasonInsufficientComponents,
		ReasonAmbiguousDoubleNumbers,
		ReasonDecimalWithoutMonth,
		ReasonNumberDotWord,
		ReasonFractionLikeNumber,
		ReasonInvalidDigitLength,
		ReasonStandaloneMay,
		ReasonPunctuatedMay,
		ReasonExceedsMaxLength,
		ReasonDigitsWithoutMonth,
		ReasonParseFailure,
		ReasonTypeError,
		ReasonDatePartsMismatch,
		ReasonInvalidTimezone,
	}
}

// Valid reports whether r is one of the defined reasons.
func (r RejectionReason) Valid() bool {
	for _, v := range AllRejectionReasons() {
		if r == v {
			return true
		}
	}
	return false
}

// CandidateOutcome is the accept/reject verdict for one candidate.
// Accepted outcomes carry a Date; rejected ones carry a Reason.
type CandidateOutcome struct {
	Candidate CandidateDate   `json:"candidate"`
	Accepted  bool            `json:"accepted"`
	Date      *Date           `json:"date,omitempty"`
	Reason    RejectionReason `json:"reason,omitempty"`
}

// Accept builds an accepted outcome.
func Accept(c CandidateDate, d Date) CandidateOutcome {
	return CandidateOutcome{Candidate: c, Accepted: true, Date: &d}
}

// Reject builds a rejected outcome.
func Reject(c CandidateDate, r RejectionReason) CandidateOutcome {
	return CandidateOutcome{Candidate: c, Reason: r}
}

// DateAnnotation is an accepted, classifier-scored date exposed to callers.
type DateAnnotation struct {
	Coords Span    `json:"coords"`
	Text   string  `json:"text"`
	Date   Date    `json:"date"`
	Score  float64 `json:"score"`
}
