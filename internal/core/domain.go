package core

import (
	"errors"
	"sync"
	"time"
)

// Kind identifies one of the closed set of entity kinds managed by the
// identity store.
type Kind string

const (
	KindCategory     Kind = "category"
	KindBill         Kind = "bill"
	KindExternalBill Kind = "external-bill"
)

// RecentCategoryID is the id of the synthetic category populated from
// recency computation rather than the spreadsheet feed.
const RecentCategoryID = "recent"

var (
	ErrMissingIdentity = errors.New("missing identity field value")
	ErrBadTranslation  = errors.New("malformed field translation table")
	ErrNotFound        = errors.New("entity not found")
)

// CustomEvent is a curated timeline entry from the Events sheet, attached
// to the bill it references.
type CustomEvent struct {
	BillID      string
	Chamber     string
	Description string
}

type (
	// CategoryFields is the normalized field set for constructing a Category.
	CategoryFields struct {
		ID          string
		Title       string
		ShortTitle  string
		Description string
		Image       string
	}

	// BillFields is the normalized field set for constructing a Bill.
	BillFields struct {
		ID           string
		Title        string
		Description  string
		CompanionID  string
		ConferenceID string
		Categories   []string
	}

	// ExternalBillFields is the normalized field set for an ExternalBill
	// record returned by the legislative API.
	ExternalBillFields struct {
		BillID      string
		ExternalID  string
		Title       string
		Chamber     string
		ActionDates map[string]time.Time
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
)

// Category is a curated grouping of bills. The associated bill set is
// computed from bill membership lists, never stored authoritatively.
type Category struct {
	ID          string
	Title       string
	ShortTitle  string
	Description string
	Image       string

	mu            sync.Mutex
	bills         []*Bill
	billsResolved bool
	detailFetched bool
}

func NewCategory(f CategoryFields) *Category {
	return &Category{
		ID:          f.ID,
		Title:       f.Title,
		ShortTitle:  f.ShortTitle,
		Description: f.Description,
		Image:       f.Image,
	}
}

// SetBills replaces the computed bill set and marks the association as
// resolved. Safe to call repeatedly; always reflects the latest scan.
func (c *Category) SetBills(bills []*Bill) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bills = append([]*Bill(nil), bills...)
	c.billsResolved = true
}

// Bills returns a copy of the computed bill set.
func (c *Category) Bills() []*Bill {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Bill(nil), c.bills...)
}

func (c *Category) BillsResolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.billsResolved
}

// BeginDetailFetch reports whether a per-category detail fetch should run.
// The flag is set before the underlying fetches settle so a re-entrant
// trigger is a no-op; it only flips back on an explicit force.
func (c *Category) BeginDetailFetch(force bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detailFetched && !force {
		return false
	}
	c.detailFetched = true
	return true
}

func (c *Category) DetailFetched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detailFetched
}

// Bill is a tracked bill from the spreadsheet feed. Its identity is the
// canonical bill number ("HF 1234").
type Bill struct {
	ID           string
	Title        string
	Description  string
	CompanionID  string
	ConferenceID string

	mu         sync.Mutex
	categories []string
	events     []CustomEvent
	fetched    bool
}

func NewBill(f BillFields) *Bill {
	return &Bill{
		ID:           f.ID,
		Title:        f.Title,
		Description:  f.Description,
		CompanionID:  f.CompanionID,
		ConferenceID: f.ConferenceID,
		categories:   append([]string(nil), f.Categories...),
	}
}

// Categories returns a copy of the bill's category membership list.
func (b *Bill) Categories() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.categories...)
}

// InCategory reports whether the bill's membership list contains id.
func (b *Bill) InCategory(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.categories {
		if c == id {
			return true
		}
	}
	return false
}

// AddCategory appends id to the membership list. Appending an id already
// present is a no-op; reports whether the list changed.
func (b *Bill) AddCategory(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.categories {
		if c == id {
			return false
		}
	}
	b.categories = append(b.categories, id)
	return true
}

// ExternalIDs returns the external bill ids the bill cross-references:
// its own id plus companion and, when enabled, conference ids.
func (b *Bill) ExternalIDs(includeConference bool) []string {
	ids := []string{b.ID}
	if b.CompanionID != "" {
		ids = append(ids, b.CompanionID)
	}
	if includeConference && b.ConferenceID != "" {
		ids = append(ids, b.ConferenceID)
	}
	return ids
}

// AddEvent attaches a curated timeline event to the bill.
func (b *Bill) AddEvent(e CustomEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

// Events returns a copy of the bill's curated timeline events.
func (b *Bill) Events() []CustomEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]CustomEvent(nil), b.events...)
}

func (b *Bill) Fetched() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetched
}

func (b *Bill) SetFetched() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetched = true
}

// ExternalBill is a record from the legislative API, keyed by canonical
// bill number. Once fetched it is immutable for the session.
type ExternalBill struct {
	BillID     string
	ExternalID string
	Title      string
	Chamber    string

	// ActionDates keeps only populated entries; empty dates are dropped
	// before construction.
	ActionDates map[string]time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	mu      sync.Mutex
	fetched bool
}

func NewExternalBill(f ExternalBillFields) *ExternalBill {
	return &ExternalBill{
		BillID:      f.BillID,
		ExternalID:  f.ExternalID,
		Title:       f.Title,
		Chamber:     f.Chamber,
		ActionDates: f.ActionDates,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (e *ExternalBill) Fetched() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fetched
}

// SetFetched marks the record populated-and-stable for the session.
func (e *ExternalBill) SetFetched() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fetched = true
}

// LastActivity returns the most recent timestamp among the record's action
// dates and its updated-at, or the zero time when none are set.
func (e *ExternalBill) LastActivity() time.Time {
	last := e.UpdatedAt
	for _, t := range e.ActionDates {
		if t.After(last) {
			last = t
		}
	}
	return last
}

// IsRecent reports whether last falls within thresholdDays of now. A zero
// last (no external data) is never recent.
func IsRecent(last, now time.Time, thresholdDays int) bool {
	if last.IsZero() {
		return false
	}
	return !last.Before(now.AddDate(0, 0, -thresholdDays))
}
