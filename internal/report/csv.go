package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
)

func record(r Row) []string {
	return []string{
		r.Source,
		strconv.Itoa(r.Ann.Coords.Start),
		strconv.Itoa(r.Ann.Coords.End),
		r.Ann.Text,
		r.Ann.Date.String(),
		strconv.FormatFloat(r.Ann.Score, 'f', -1, 64),
	}
}

// WriteCSV writes a header row followed by one record per annotation.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

type jsonLine struct {
	Source string  `json:"source"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Text   string  `json:"text"`
	Date   string  `json:"date"`
	Score  float64 `json:"score"`
}

// WriteJSONLines writes one JSON object per annotation.
func WriteJSONLines(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range rows {
		line := jsonLine{
			Source: r.Source,
			Start:  r.Ann.Coords.Start,
			End:    r.Ann.Coords.End,
			Text:   r.Ann.Text,
			Date:   r.Ann.Date.String(),
			Score:  r.Ann.Score,
		}
		if err := enc.Encode(line); err != nil {
			return eris.Wrap(err, "report: encode json line")
		}
	}
	return nil
}
