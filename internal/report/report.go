// Package report renders annotations and candidate outcomes for people and
// downstream tools.
package report

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/datextract/internal/model"
)

// Format names an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// Formats lists the supported formats.
var Formats = []Format{FormatTable, FormatCSV, FormatJSON, FormatXLSX}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", eris.Errorf("report: unknown format %q", s)
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool { return f == FormatXLSX }

// Row is one annotation attributed to the document it came from.
type Row struct {
	Source string               `json:"source"`
	Ann    model.DateAnnotation `json:"annotation"`
}

// Rows attributes anns to source.
func Rows(source string, anns []model.DateAnnotation) []Row {
	rows := make([]Row, len(anns))
	for i, a := range anns {
		rows[i] = Row{Source: source, Ann: a}
	}
	return rows
}

// Write renders rows in the given format.
func Write(w io.Writer, f Format, rows []Row) error {
	switch f {
	case FormatTable:
		return WriteTable(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSONLines(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return eris.Errorf("report: unknown format %q", f)
	}
}

var columns = []string{"source", "start", "end", "text", "date", "score"}
