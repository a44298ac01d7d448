// Package parser turns raw spreadsheet rows into normalized entity field
// sets. It performs no I/O and never touches the identity store.
package parser

import (
	"fmt"
	"strings"

	"legtrack/internal/config"
	"legtrack/internal/core"
	"legtrack/internal/feed"
)

// Options control the transformation. Translations must be valid; the
// limits mirror the tracker configuration surface.
type Options struct {
	Translations    config.Translations
	MaxBills        int
	ConferenceBills bool
}

// Base is the parsed output of the three row-sets.
type Base struct {
	Categories []core.CategoryFields
	Bills      []core.BillFields
	Events     []core.CustomEvent

	// SkippedBills counts rows dropped for an unrecognizable bill number
	// or the max-bills cap.
	SkippedBills int
}

// ParseBase transforms the Categories, Bills and Events row-sets. A
// malformed translation table is a configuration error; malformed
// individual rows are skipped.
func ParseBase(categories, bills, events feed.RowSet, opts Options) (Base, error) {
	if err := opts.Translations.Validate(); err != nil {
		return Base{}, fmt.Errorf("%w: %v", core.ErrBadTranslation, err)
	}

	var out Base

	for _, row := range categories {
		f := core.CategoryFields{
			ID:          field(row, opts.Translations.Categories, "id"),
			Title:       field(row, opts.Translations.Categories, "title"),
			ShortTitle:  field(row, opts.Translations.Categories, "short_title"),
			Description: field(row, opts.Translations.Categories, "description"),
			Image:       field(row, opts.Translations.Categories, "image"),
		}
		if f.ID == "" {
			continue
		}
		out.Categories = append(out.Categories, f)
	}

	for _, row := range bills {
		id, ok := core.CanonicalBillID(field(row, opts.Translations.Bills, "bill"))
		if !ok {
			out.SkippedBills++
			continue
		}
		if opts.MaxBills > 0 && len(out.Bills) >= opts.MaxBills {
			out.SkippedBills++
			continue
		}
		f := core.BillFields{
			ID:          id,
			Title:       field(row, opts.Translations.Bills, "title"),
			Description: field(row, opts.Translations.Bills, "description"),
			Categories:  splitList(field(row, opts.Translations.Bills, "categories")),
		}
		if companion, ok := core.CanonicalBillID(field(row, opts.Translations.Bills, "bill_companion")); ok {
			f.CompanionID = companion
		}
		if opts.ConferenceBills {
			if conference, ok := core.CanonicalBillID(field(row, opts.Translations.Bills, "bill_conference")); ok {
				f.ConferenceID = conference
			}
		}
		out.Bills = append(out.Bills, f)
	}

	for _, row := range events {
		id, ok := core.CanonicalBillID(field(row, opts.Translations.Events, "bill_id"))
		if !ok {
			continue
		}
		out.Events = append(out.Events, core.CustomEvent{
			BillID:      id,
			Chamber:     field(row, opts.Translations.Events, "chamber"),
			Description: field(row, opts.Translations.Events, "description"),
		})
	}

	return out, nil
}

func field(row feed.Row, fm config.FieldMap, name string) string {
	col, ok := fm[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
