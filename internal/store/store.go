// Package store provides the session-wide identity store. Every entity is
// created through it exactly once; later lookups with the same identity
// return the same instance. Entries are never evicted; the store lives and
// dies with the session.
package store

import (
	"fmt"
	"strings"
	"sync"

	"legtrack/internal/core"
)

type entityKey struct {
	kind    core.Kind
	idField string
	idValue string
}

// Store maps (kind, identity-field, identity-value) to exactly one entity
// instance. Construction attributes on a hit are discarded: this is a
// get-or-create, not an upsert.
type Store struct {
	mu       sync.Mutex
	entities map[entityKey]any

	// Insertion order per kind, for deterministic iteration.
	categories []*core.Category
	bills      []*core.Bill
	external   []*core.ExternalBill
}

func New() *Store {
	return &Store{entities: make(map[entityKey]any)}
}

func (s *Store) getOrCreate(key entityKey, build func() any) (any, bool, error) {
	if strings.TrimSpace(key.idValue) == "" {
		return nil, false, fmt.Errorf("%s %q: %w", key.kind, key.idField, core.ErrMissingIdentity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[key]; ok {
		return e, false, nil
	}
	e := build()
	s.entities[key] = e
	return e, true, nil
}

// Category returns the category with the given id, constructing it from f
// on first reference.
func (s *Store) Category(f core.CategoryFields) (*core.Category, error) {
	e, created, err := s.getOrCreate(entityKey{core.KindCategory, "id", f.ID}, func() any {
		return core.NewCategory(f)
	})
	if err != nil {
		return nil, err
	}
	c := e.(*core.Category)
	if created {
		s.mu.Lock()
		s.categories = append(s.categories, c)
		s.mu.Unlock()
	}
	return c, nil
}

// Bill returns the bill with the given canonical id, constructing it from f
// on first reference.
func (s *Store) Bill(f core.BillFields) (*core.Bill, error) {
	e, created, err := s.getOrCreate(entityKey{core.KindBill, "bill", f.ID}, func() any {
		return core.NewBill(f)
	})
	if err != nil {
		return nil, err
	}
	b := e.(*core.Bill)
	if created {
		s.mu.Lock()
		s.bills = append(s.bills, b)
		s.mu.Unlock()
	}
	return b, nil
}

// ExternalBill returns the external record keyed by canonical bill id,
// constructing it from f on first reference.
func (s *Store) ExternalBill(f core.ExternalBillFields) (*core.ExternalBill, error) {
	e, created, err := s.getOrCreate(entityKey{core.KindExternalBill, "bill_id", f.BillID}, func() any {
		return core.NewExternalBill(f)
	})
	if err != nil {
		return nil, err
	}
	x := e.(*core.ExternalBill)
	if created {
		s.mu.Lock()
		s.external = append(s.external, x)
		s.mu.Unlock()
	}
	return x, nil
}

// LookupCategory returns the category with the given id, or nil.
func (s *Store) LookupCategory(id string) *core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[entityKey{core.KindCategory, "id", id}]; ok {
		return e.(*core.Category)
	}
	return nil
}

// LookupBill returns the bill with the given canonical id, or nil.
func (s *Store) LookupBill(id string) *core.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[entityKey{core.KindBill, "bill", id}]; ok {
		return e.(*core.Bill)
	}
	return nil
}

// LookupExternalBill returns the external record for the given canonical
// bill id, or nil.
func (s *Store) LookupExternalBill(billID string) *core.ExternalBill {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[entityKey{core.KindExternalBill, "bill_id", billID}]; ok {
		return e.(*core.ExternalBill)
	}
	return nil
}

// Categories returns all categories in insertion order.
func (s *Store) Categories() []*core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.Category(nil), s.categories...)
}

// Bills returns all bills in insertion order.
func (s *Store) Bills() []*core.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.Bill(nil), s.bills...)
}

// ExternalBills returns all external records in insertion order.
func (s *Store) ExternalBills() []*core.ExternalBill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.ExternalBill(nil), s.external...)
}

// Size returns the total number of cached entities.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entities)
}
