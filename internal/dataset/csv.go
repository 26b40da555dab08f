package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// readCSV reads every row of a CSV file. charset names the file's encoding
// when it is not UTF-8 (IANA name, e.g. "windows-1252"); output is always
// UTF-8.
func readCSV(path, charset string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	var r io.Reader = f
	if charset != "" {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: unsupported charset %q", charset)
		}
		r = enc.NewDecoder().Reader(f)
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}

	return records, nil
}

// writeCSV writes records to path, overwriting any existing file.
func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "dataset: create csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return eris.Wrap(err, "dataset: write csv")
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "dataset: flush csv")
	}

	return nil
}
