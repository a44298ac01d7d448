package legis

import (
	"testing"
	"time"
)

func TestRecordNormalize(t *testing.T) {
	rec := Record{
		ID:      "MNB00001234",
		BillID:  "HF0025",
		Title:   "Omnibus energy bill",
		Chamber: "lower",
		ActionDates: map[string]string{
			"last":         "2026-03-10 14:30:00",
			"passed_upper": "",
			"signed":       "",
		},
		CreatedAt: "2026-01-05 09:00:00",
		UpdatedAt: "2026-03-10T14:30:00Z",
	}

	f, err := rec.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if f.BillID != "HF 25" {
		t.Errorf("BillID = %q, want %q", f.BillID, "HF 25")
	}
	if f.ExternalID != "MNB00001234" {
		t.Errorf("ExternalID = %q", f.ExternalID)
	}
	if len(f.ActionDates) != 1 {
		t.Fatalf("ActionDates has %d entries, want 1 (empty dates dropped)", len(f.ActionDates))
	}
	want := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	if !f.ActionDates["last"].Equal(want) {
		t.Errorf("ActionDates[last] = %v, want %v", f.ActionDates["last"], want)
	}
	if f.CreatedAt.IsZero() || f.UpdatedAt.IsZero() {
		t.Error("top-level timestamps should be parsed")
	}
	if !f.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", f.UpdatedAt, want)
	}
}

func TestRecordNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"bad bill number", Record{BillID: "garbage"}},
		{"bad action date", Record{BillID: "HF 1", ActionDates: map[string]string{"last": "not a date"}}},
		{"bad created_at", Record{BillID: "HF 1", CreatedAt: "yesterday"}},
		{"bad updated_at", Record{BillID: "HF 1", UpdatedAt: "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.rec.Normalize(); err == nil {
				t.Error("Normalize should fail")
			}
		})
	}
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{"2026-03-10 14:30:00", "2026-03-10T14:30:00Z", "2026-03-10"} {
		if _, err := parseTime(s); err != nil {
			t.Errorf("parseTime(%q): %v", s, err)
		}
	}
	if _, err := parseTime("10/03/2026"); err == nil {
		t.Error("parseTime should reject unknown layouts")
	}
}
