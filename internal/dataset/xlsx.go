package dataset

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// readXLSX reads the first sheet of an XLSX workbook as string rows.
func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open xlsx")
	}

	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("dataset: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}

	return rows, nil
}

// writeXLSX writes records as the single sheet of a new workbook at path.
func writeXLSX(path string, records [][]string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return eris.Wrap(err, "dataset: add xlsx sheet")
	}

	for _, record := range records {
		row := sheet.AddRow()
		for _, cell := range record {
			row.AddCell().Value = cell
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "dataset: save xlsx")
	}

	return nil
}
