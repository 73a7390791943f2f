package extract

import (
	"iter"

	"github.com/sells-group/datextract/internal/model"
)

// annotate scores an accepted outcome. The annotation is returned only when
// the score reaches threshold.
func annotate(text string, out model.CandidateOutcome, s Scorer, threshold float64) (model.DateAnnotation, bool) {
	span := out.Candidate.Span
	score := s.Score(text, span)
	if score < threshold {
		return model.DateAnnotation{}, false
	}
	return model.DateAnnotation{
		Coords: span,
		Text:   text[span.Start:span.End],
		Date:   *out.Date,
		Score:  score,
	}, true
}

// CollectAnnotations drains seq into a slice that is never nil.
func CollectAnnotations(seq iter.Seq[model.DateAnnotation]) []model.DateAnnotation {
	out := []model.DateAnnotation{}
	for a := range seq {
		out = append(out, a)
	}
	return out
}

// RejectionStats counts outcomes by rejection reason. Accepted outcomes are
// counted under ReasonNone.
func RejectionStats(seq iter.Seq[model.CandidateOutcome]) map[model.RejectionReason]int {
	stats := make(map[model.RejectionReason]int)
	for out := range seq {
		stats[out.Reason]++
	}
	return stats
}
