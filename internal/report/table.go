package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/rotisserie/eris"

	"github.com/sells-group/datextract/internal/model"
)

// MaxTextWidth truncates long candidate text in table output.
const MaxTextWidth = 48

var (
	highColor   = color.New(color.FgGreen)
	midColor    = color.New(color.FgYellow)
	lowColor    = color.New(color.FgRed)
	acceptColor = color.New(color.FgGreen)
	rejectColor = color.New(color.FgRed)
	headerColor = color.New(color.Bold)
)

type cell struct {
	text  string
	paint *color.Color
}

// table aligns cells by display width. Colors are applied after padding so
// escape codes never count toward a column's width.
type table struct {
	headers []string
	rows    [][]cell
}

func (t *table) add(cells ...cell) { t.rows = append(t.rows, cells) }

func (t *table) render(w io.Writer) error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c.text))
		}
	}

	var sb strings.Builder
	for i, h := range t.headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(headerColor.Sprint(pad(h, widths[i], i == len(t.headers)-1)))
	}
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i, c := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			s := pad(c.text, widths[i], i == len(row)-1)
			if c.paint != nil {
				s = c.paint.Sprint(s)
			}
			sb.WriteString(s)
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return eris.Wrap(err, "report: write table")
}

// pad right-pads s to width. The last column is left unpadded.
func pad(s string, width int, last bool) string {
	if last {
		return s
	}
	return runewidth.FillRight(s, width)
}

func plain(s string) cell { return cell{text: s} }

// clip flattens whitespace and truncates to MaxTextWidth display columns.
func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, MaxTextWidth, "...")
}

func scoreColor(score float64) *color.Color {
	switch {
	case score >= 0.8:
		return highColor
	case score >= 0.5:
		return midColor
	default:
		return lowColor
	}
}

// WriteTable renders annotations as an aligned, colored table.
func WriteTable(w io.Writer, rows []Row) error {
	t := &table{headers: []string{"SOURCE", "SPAN", "TEXT", "DATE", "SCORE"}}
	for _, r := range rows {
		t.add(
			plain(r.Source),
			plain(spanText(r.Ann.Coords)),
			plain(clip(r.Ann.Text)),
			plain(r.Ann.Date.String()),
			cell{text: strconv.FormatFloat(r.Ann.Score, 'f', 3, 64), paint: scoreColor(r.Ann.Score)},
		)
	}
	if err := t.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d date(s)\n", len(rows))
	return eris.Wrap(err, "report: write table")
}

// WriteOutcomes renders every candidate with its verdict, for explain.
func WriteOutcomes(w io.Writer, outs []model.CandidateOutcome) error {
	t := &table{headers: []string{"#", "SPAN", "TEXT", "NORMALIZED", "VERDICT"}}
	accepted := 0
	for _, o := range outs {
		verdict := cell{text: string(o.Reason), paint: rejectColor}
		if o.Accepted && o.Date != nil {
			verdict = cell{text: o.Date.String(), paint: acceptColor}
			accepted++
		}
		t.add(
			plain(strconv.Itoa(o.Candidate.Index)),
			plain(spanText(o.Candidate.Span)),
			plain(clip(o.Candidate.RawText)),
			plain(clip(o.Candidate.NormalizedText)),
			verdict,
		)
	}
	if err := t.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d candidate(s), %d accepted\n", len(outs), accepted)
	return eris.Wrap(err, "report: write outcomes")
}

// WriteStats renders rejection counts, most frequent first.
func WriteStats(w io.Writer, stats map[model.RejectionReason]int) error {
	t := &table{headers: []string{"REASON", "COUNT"}}
	for _, reason := range append([]model.RejectionReason{model.ReasonNone}, model.AllRejectionReasons()...) {
		n := stats[reason]
		if n == 0 {
			continue
		}
		label := string(reason)
		if reason == model.ReasonNone {
			label = "accepted"
		}
		t.add(plain(label), plain(strconv.Itoa(n)))
	}
	return t.render(w)
}

func spanText(s model.Span) string {
	return strconv.Itoa(s.Start) + "-" + strconv.Itoa(s.End)
}
