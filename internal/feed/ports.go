// Package feed defines the inbound spreadsheet feed port. Adapters live in
// the google and memory subpackages.
package feed

import (
	"context"
	"strings"
	"unicode"
)

// Row maps normalized column names to cell values.
type Row map[string]string

// RowSet is the ordered rows of one named sheet.
type RowSet []Row

// BaseDataReader reads the wanted named row-sets from the curated
// spreadsheet. Called once per session by the coordinator.
type BaseDataReader interface {
	ReadRowSets(ctx context.Context, wanted []string) (map[string]RowSet, error)
}

// NormalizeColumn lowercases a header cell and strips everything but
// letters and digits, matching the curated sheet's column naming.
func NormalizeColumn(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
