package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"legtrack/internal/feed"
)

func TestReadRowSets(t *testing.T) {
	s := New(map[string]feed.RowSet{
		"Categories": {{"categoryid": "energy", "title": "Energy"}},
	})

	out, err := s.ReadRowSets(context.Background(), []string{"Categories", "Bills"})
	if err != nil {
		t.Fatalf("ReadRowSets: %v", err)
	}
	if len(out["Categories"]) != 1 {
		t.Errorf("Categories has %d rows, want 1", len(out["Categories"]))
	}
	if len(out["Bills"]) != 0 {
		t.Errorf("unseeded sheet should come back empty, got %d rows", len(out["Bills"]))
	}
	if s.Reads() != 1 {
		t.Errorf("Reads() = %d, want 1", s.Reads())
	}
}

func TestReadRowSetsReturnsCopies(t *testing.T) {
	s := New(map[string]feed.RowSet{
		"Bills": {{"bill": "HF1"}},
	})
	out, err := s.ReadRowSets(context.Background(), []string{"Bills"})
	if err != nil {
		t.Fatalf("ReadRowSets: %v", err)
	}
	out["Bills"] = append(out["Bills"], feed.Row{"bill": "HF2"})

	again, _ := s.ReadRowSets(context.Background(), []string{"Bills"})
	if len(again["Bills"]) != 1 {
		t.Errorf("seed mutated through returned set: %d rows", len(again["Bills"]))
	}
}

func TestNewFromCSVDir(t *testing.T) {
	dir := t.TempDir()
	csv := "Category ID,Title\nenergy,Energy\n,\ntaxes,Taxes\n"
	if err := os.WriteFile(filepath.Join(dir, "Categories.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFromCSVDir(dir, []string{"Categories", "Bills"})
	out, err := s.ReadRowSets(context.Background(), []string{"Categories", "Bills"})
	if err != nil {
		t.Fatalf("ReadRowSets: %v", err)
	}

	rows := out["Categories"]
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank row dropped)", len(rows))
	}
	if rows[0]["categoryid"] != "energy" {
		t.Errorf("headers should be normalized, row = %v", rows[0])
	}
	if len(out["Bills"]) != 0 {
		t.Errorf("missing csv should leave the sheet empty")
	}
}
