package store

import (
	"errors"
	"testing"

	"legtrack/internal/core"
)

func TestGetOrCreateReturnsSameInstance(t *testing.T) {
	s := New()

	first, err := s.Bill(core.BillFields{ID: "HF 1234", Title: "Original title"})
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}
	second, err := s.Bill(core.BillFields{ID: "HF 1234", Title: "Different title"})
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}
	if first != second {
		t.Fatal("two creates with the same identity should return the same instance")
	}

	// A third call with different attributes still returns the original,
	// unchanged: construction attributes on a hit are discarded.
	third, err := s.Bill(core.BillFields{ID: "HF 1234", Title: "Yet another", Description: "x"})
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}
	if third != first {
		t.Fatal("third call should return the original instance")
	}
	if third.Title != "Original title" {
		t.Errorf("Title = %q, want the original attributes preserved", third.Title)
	}
}

func TestMissingIdentityRejected(t *testing.T) {
	s := New()

	if _, err := s.Category(core.CategoryFields{Title: "No id"}); !errors.Is(err, core.ErrMissingIdentity) {
		t.Errorf("Category without id: err = %v, want ErrMissingIdentity", err)
	}
	if _, err := s.Bill(core.BillFields{Title: "No id"}); !errors.Is(err, core.ErrMissingIdentity) {
		t.Errorf("Bill without id: err = %v, want ErrMissingIdentity", err)
	}
	if _, err := s.ExternalBill(core.ExternalBillFields{Title: "No id"}); !errors.Is(err, core.ErrMissingIdentity) {
		t.Errorf("ExternalBill without id: err = %v, want ErrMissingIdentity", err)
	}
	if s.Size() != 0 {
		t.Errorf("Size() = %d after rejected creates, want 0", s.Size())
	}
}

func TestKindsAreDisjoint(t *testing.T) {
	s := New()

	// A bill and an external record can share an identity value without
	// colliding: the kind is part of the key.
	b, err := s.Bill(core.BillFields{ID: "HF 1234"})
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}
	eb, err := s.ExternalBill(core.ExternalBillFields{BillID: "HF 1234"})
	if err != nil {
		t.Fatalf("ExternalBill: %v", err)
	}
	if b.ID != eb.BillID {
		t.Fatal("test setup: identities should match")
	}
	if s.Size() != 2 {
		t.Errorf("Size() = %d, want 2", s.Size())
	}
}

func TestLookups(t *testing.T) {
	s := New()
	if s.LookupCategory("nope") != nil {
		t.Error("LookupCategory on empty store should return nil")
	}

	c, _ := s.Category(core.CategoryFields{ID: "energy", Title: "Energy"})
	if got := s.LookupCategory("energy"); got != c {
		t.Error("LookupCategory should return the created instance")
	}
	if got := s.LookupBill("HF 1"); got != nil {
		t.Errorf("LookupBill for absent id = %v, want nil", got)
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := New()
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if _, err := s.Category(core.CategoryFields{ID: id}); err != nil {
			t.Fatalf("Category(%s): %v", id, err)
		}
	}
	// Re-create one; order must not change.
	if _, err := s.Category(core.CategoryFields{ID: "a"}); err != nil {
		t.Fatalf("Category(a): %v", err)
	}

	got := s.Categories()
	if len(got) != 3 {
		t.Fatalf("Categories() has %d entries, want 3", len(got))
	}
	for i, id := range ids {
		if got[i].ID != id {
			t.Errorf("Categories()[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}
