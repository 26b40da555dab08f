// Package dataset loads and persists the restaurant table the pipeline
// annotates. The whole table lives in memory; the pipeline mutates one row at
// a time and rewrites the entire file after each change, which is what makes
// interrupted runs resumable.
package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hospitality-cli/internal/model"
)

// Annotation columns appended to the dataset.
const (
	ColGroup     = "Hospitality Group"
	ColLocations = "Total Locations"
	ColVerified  = "Verified"
)

// Columns maps dataset header names to record fields. Name is required in
// the header; the others are read as empty strings when absent.
type Columns struct {
	Name   string
	Market string
	Domain string
}

// DefaultColumns matches the signed-restaurants export this tool was built
// around.
func DefaultColumns() Columns {
	return Columns{
		Name:   "Company name",
		Market: "Macro Geo (NYC, SF, CHS, DC, LA, NASH, DEN)",
		Domain: "Company Domain Name",
	}
}

// Table is a loaded dataset: header, raw rows, and the column mapping used
// to view rows as records.
type Table struct {
	path   string
	header []string
	rows   [][]string
	colIdx map[string]int
	cols   Columns
}

// Load reads the dataset, preferring outputPath when it already exists so a
// restarted batch sees its own annotations and the skip check can do its
// work. Format is chosen by file extension (.xlsx, otherwise CSV); charset
// names a non-UTF-8 encoding for CSV input, empty for none. The returned
// table saves to outputPath.
func Load(inputPath, outputPath string, cols Columns, charset string) (*Table, error) {
	readPath := inputPath
	if outputPath != "" {
		if _, err := os.Stat(outputPath); err == nil {
			readPath = outputPath
		}
	}

	var (
		records [][]string
		err     error
	)
	if isXLSX(readPath) {
		records, err = readXLSX(readPath)
	} else {
		records, err = readCSV(readPath, charset)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, eris.Errorf("dataset: %s has no header row", readPath)
	}

	t := &Table{
		path:   outputPath,
		header: records[0],
		rows:   records[1:],
		cols:   cols,
	}
	if t.path == "" {
		t.path = inputPath
	}
	t.reindex()

	if _, ok := t.colIdx[cols.Name]; !ok {
		return nil, eris.Errorf("dataset: missing required column %q", cols.Name)
	}

	t.ensureColumn(ColGroup)
	t.ensureColumn(ColLocations)
	t.ensureColumn(ColVerified)
	t.padRows()

	return t, nil
}

func (t *Table) reindex() {
	t.colIdx = make(map[string]int, len(t.header))
	for i, col := range t.header {
		t.colIdx[strings.TrimSpace(col)] = i
	}
}

// ensureColumn appends the named column to the header when missing.
func (t *Table) ensureColumn(name string) {
	if _, ok := t.colIdx[name]; ok {
		return
	}
	t.header = append(t.header, name)
	t.colIdx[name] = len(t.header) - 1
}

// padRows widens short rows to the header width so cell writes by column
// index are always in range.
func (t *Table) padRows() {
	width := len(t.header)
	for i, row := range t.rows {
		for len(row) < width {
			row = append(row, "")
		}
		t.rows[i] = row
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Path returns the save destination.
func (t *Table) Path() string {
	return t.path
}

// Record views row i through the column mapping.
func (t *Table) Record(i int) model.Record {
	row := t.rows[i]
	return model.Record{
		Name:             t.getCol(row, t.cols.Name),
		Market:           t.getCol(row, t.cols.Market),
		Domain:           t.getCol(row, t.cols.Domain),
		HospitalityGroup: t.getCol(row, ColGroup),
		TotalLocations:   t.getCol(row, ColLocations),
		Verified:         t.getCol(row, ColVerified),
	}
}

// Records views every row. The slice is freshly built; mutating it does not
// touch the table.
func (t *Table) Records() []model.Record {
	out := make([]model.Record, t.Len())
	for i := range t.rows {
		out[i] = t.Record(i)
	}
	return out
}

// SetAnnotations writes the enrichment outcome into row i.
func (t *Table) SetAnnotations(i int, group, locations, verified string) {
	row := t.rows[i]
	row[t.colIdx[ColGroup]] = group
	row[t.colIdx[ColLocations]] = locations
	row[t.colIdx[ColVerified]] = verified
}

// Save rewrites the whole table to the output path. Direct write, not an
// atomic rename.
func (t *Table) Save() error {
	records := make([][]string, 0, len(t.rows)+1)
	records = append(records, t.header)
	records = append(records, t.rows...)

	if isXLSX(t.path) {
		return writeXLSX(t.path, records)
	}
	return writeCSV(t.path, records)
}

// getCol safely retrieves a cell by column name.
func (t *Table) getCol(row []string, col string) string {
	idx, ok := t.colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
