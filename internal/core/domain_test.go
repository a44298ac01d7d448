package core

import (
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestIsRecent(t *testing.T) {
	now := day(100)
	tests := []struct {
		name      string
		last      time.Time
		threshold int
		want      bool
	}{
		{name: "within threshold", last: day(95), threshold: 7, want: true},
		{name: "outside threshold", last: day(50), threshold: 7, want: false},
		{name: "exactly at threshold", last: day(93), threshold: 7, want: true},
		{name: "zero time never recent", last: time.Time{}, threshold: 7, want: false},
		{name: "future activity", last: day(101), threshold: 7, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecent(tt.last, now, tt.threshold); got != tt.want {
				t.Errorf("IsRecent(%v, %v, %d) = %v, want %v",
					tt.last, now, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestExternalBillLastActivity(t *testing.T) {
	eb := NewExternalBill(ExternalBillFields{
		BillID: "HF 1",
		ActionDates: map[string]time.Time{
			"first": day(10),
			"last":  day(40),
		},
		UpdatedAt: day(30),
	})
	if got := eb.LastActivity(); !got.Equal(day(40)) {
		t.Errorf("LastActivity() = %v, want %v", got, day(40))
	}

	// Updated-at wins when it is the latest timestamp.
	eb = NewExternalBill(ExternalBillFields{
		BillID:      "HF 2",
		ActionDates: map[string]time.Time{"first": day(10)},
		UpdatedAt:   day(50),
	})
	if got := eb.LastActivity(); !got.Equal(day(50)) {
		t.Errorf("LastActivity() = %v, want %v", got, day(50))
	}

	empty := NewExternalBill(ExternalBillFields{BillID: "HF 3"})
	if got := empty.LastActivity(); !got.IsZero() {
		t.Errorf("LastActivity() on empty record = %v, want zero", got)
	}
}

func TestBillAddCategoryIdempotent(t *testing.T) {
	b := NewBill(BillFields{ID: "HF 1", Categories: []string{"energy"}})

	if !b.AddCategory(RecentCategoryID) {
		t.Fatal("first AddCategory should report a change")
	}
	if b.AddCategory(RecentCategoryID) {
		t.Fatal("second AddCategory should be a no-op")
	}

	count := 0
	for _, c := range b.Categories() {
		if c == RecentCategoryID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("recent id appears %d times, want 1", count)
	}
}

func TestBillExternalIDs(t *testing.T) {
	b := NewBill(BillFields{
		ID:           "HF 1234",
		CompanionID:  "SF 600",
		ConferenceID: "HF 99",
	})

	got := b.ExternalIDs(true)
	want := []string{"HF 1234", "SF 600", "HF 99"}
	if len(got) != len(want) {
		t.Fatalf("ExternalIDs(true) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExternalIDs(true)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := b.ExternalIDs(false); len(got) != 2 {
		t.Errorf("ExternalIDs(false) = %v, want 2 ids", got)
	}

	bare := NewBill(BillFields{ID: "SF 1"})
	if got := bare.ExternalIDs(true); len(got) != 1 || got[0] != "SF 1" {
		t.Errorf("ExternalIDs(true) = %v, want [SF 1]", got)
	}
}

func TestCategoryBeginDetailFetch(t *testing.T) {
	c := NewCategory(CategoryFields{ID: "energy"})

	if !c.BeginDetailFetch(false) {
		t.Fatal("first BeginDetailFetch should proceed")
	}
	if c.BeginDetailFetch(false) {
		t.Fatal("second BeginDetailFetch without force should be a no-op")
	}
	if !c.BeginDetailFetch(true) {
		t.Fatal("forced BeginDetailFetch should proceed")
	}
	if !c.DetailFetched() {
		t.Error("DetailFetched should remain true after force")
	}
}

func TestCategorySetBills(t *testing.T) {
	c := NewCategory(CategoryFields{ID: "energy"})
	if c.BillsResolved() {
		t.Fatal("new category should not be resolved")
	}

	b := NewBill(BillFields{ID: "HF 1"})
	c.SetBills([]*Bill{b})
	if !c.BillsResolved() {
		t.Error("SetBills should mark the association resolved")
	}
	if got := c.Bills(); len(got) != 1 || got[0] != b {
		t.Errorf("Bills() = %v, want the single bill instance", got)
	}

	// Re-resolution replaces, never accumulates.
	c.SetBills([]*Bill{b})
	if got := c.Bills(); len(got) != 1 {
		t.Errorf("Bills() after re-resolution has %d entries, want 1", len(got))
	}
}
