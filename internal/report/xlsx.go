package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetName is the worksheet annotations are written to.
const SheetName = "Dates"

// WriteXLSX writes annotations to a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range columns {
		header.AddCell().SetString(c)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Source)
		row.AddCell().SetInt(r.Ann.Coords.Start)
		row.AddCell().SetInt(r.Ann.Coords.End)
		row.AddCell().SetString(r.Ann.Text)
		row.AddCell().SetString(r.Ann.Date.String())
		row.AddCell().SetFloat(r.Ann.Score)
	}

	return eris.Wrap(f.Write(w), "report: write xlsx")
}
