package legis

import (
	"fmt"
	"time"

	"legtrack/internal/core"
)

// Record is the wire shape of a bill returned by the legislative API.
type Record struct {
	ID          string            `json:"id"`
	BillID      string            `json:"bill_id"`
	Title       string            `json:"title"`
	Chamber     string            `json:"chamber"`
	ActionDates map[string]string `json:"action_dates"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// Timestamps arrive either as "2006-01-02 15:04:05" or as RFC 3339.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Normalize converts a wire record into entity fields: the bill number is
// canonicalized, unset action dates are dropped, and the remaining dates
// plus the two top-level timestamps are parsed.
func (r Record) Normalize() (core.ExternalBillFields, error) {
	billID, ok := core.CanonicalBillID(r.BillID)
	if !ok {
		return core.ExternalBillFields{}, fmt.Errorf("unrecognizable bill number %q", r.BillID)
	}

	f := core.ExternalBillFields{
		BillID:      billID,
		ExternalID:  r.ID,
		Title:       r.Title,
		Chamber:     r.Chamber,
		ActionDates: make(map[string]time.Time),
	}

	for name, raw := range r.ActionDates {
		if raw == "" {
			continue
		}
		t, err := parseTime(raw)
		if err != nil {
			return core.ExternalBillFields{}, fmt.Errorf("action date %s: %w", name, err)
		}
		f.ActionDates[name] = t
	}

	if r.CreatedAt != "" {
		t, err := parseTime(r.CreatedAt)
		if err != nil {
			return core.ExternalBillFields{}, fmt.Errorf("created_at: %w", err)
		}
		f.CreatedAt = t
	}
	if r.UpdatedAt != "" {
		t, err := parseTime(r.UpdatedAt)
		if err != nil {
			return core.ExternalBillFields{}, fmt.Errorf("updated_at: %w", err)
		}
		f.UpdatedAt = t
	}

	return f, nil
}
