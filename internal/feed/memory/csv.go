package memory

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"legtrack/internal/feed"
)

// NewFromCSVDir seeds a memory feed from <base>/<sheet>.csv files, one per
// wanted sheet name. Missing files simply leave that sheet empty, matching
// a blank spreadsheet tab.
func NewFromCSVDir(base string, sheets []string) *Store {
	sets := make(map[string]feed.RowSet, len(sheets))
	for _, sheet := range sheets {
		rows := readCSV(filepath.Join(base, sheet+".csv"))
		if rows != nil {
			sets[sheet] = rows
		}
	}
	return New(sets)
}

func readCSV(path string) feed.RowSet {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil
	}
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = feed.NormalizeColumn(h)
	}

	var rows feed.RowSet
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows
		}
		row := make(feed.Row, len(headers))
		populated := false
		for i, cell := range record {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			v := strings.TrimSpace(cell)
			row[headers[i]] = v
			if v != "" {
				populated = true
			}
		}
		if populated {
			rows = append(rows, row)
		}
	}
	return rows
}
