// Package tracker coordinates the three fetch stages that assemble the
// bill tracker: the base spreadsheet load, the bulk external lookup, and
// per-category detail fetches. Each stage is gated for at-most-once
// execution and announces completion on the event bus; stage ordering is
// enforced here by awaiting prior stages, never by subscriber order.
package tracker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"legtrack/internal/config"
	"legtrack/internal/core"
	"legtrack/internal/events"
	"legtrack/internal/feed"
	"legtrack/internal/legis"
	"legtrack/internal/log"
	"legtrack/internal/metrics"
	"legtrack/internal/parser"
	"legtrack/internal/store"
)

// LegisAPI is the outbound legislative-data port.
type LegisAPI interface {
	BulkBills(ctx context.Context, ids []string) ([]legis.Record, error)
	FetchBill(ctx context.Context, billID string) (legis.Record, error)
}

// Options is the immutable per-session configuration of the coordinator.
type Options struct {
	RecentDays      int
	MaxBills        int
	ConferenceBills bool
	RecentImage     string
	Translations    config.Translations
	CategoriesSheet string
	BillsSheet      string
	EventsSheet     string

	// Now overrides the clock for recency computation; nil means time.Now.
	Now func() time.Time
}

// Deps are the collaborators the coordinator drives. Metrics may be nil.
type Deps struct {
	Store   *store.Store
	Feed    feed.BaseDataReader
	Legis   LegisAPI
	Bus     *events.Bus
	Logger  *log.Logger
	Metrics *metrics.Metrics
}

type Tracker struct {
	opts    Options
	store   *store.Store
	feed    feed.BaseDataReader
	legis   LegisAPI
	bus     *events.Bus
	logger  *log.Logger
	metrics *metrics.Metrics

	baseGate gate
	bulkGate gate

	mu        sync.Mutex
	billGates map[string]*gate
}

func New(opts Options, deps Deps) *Tracker {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.ComponentTracker, log.ParseLevel(""))
	}
	return &Tracker{
		opts:      opts,
		store:     deps.Store,
		feed:      deps.Feed,
		legis:     deps.Legis,
		bus:       deps.Bus,
		logger:    logger.WithComponent(log.ComponentTracker),
		metrics:   deps.Metrics,
		billGates: make(map[string]*gate),
	}
}

func (t *Tracker) now() time.Time {
	if t.opts.Now != nil {
		return t.opts.Now()
	}
	return time.Now()
}

// Store exposes the identity store for read-only consumers.
func (t *Tracker) Store() *store.Store {
	return t.store
}

// BaseDataLoaded reports whether the base-data stage has completed.
func (t *Tracker) BaseDataLoaded() bool {
	return t.baseGate.completed()
}

// LoadBaseData retrieves the spreadsheet feed once per session,
// materializes categories and bills, creates the synthetic recent
// category, and resolves every category's bill association.
func (t *Tracker) LoadBaseData(ctx context.Context) error {
	return t.baseGate.run(ctx, func() error {
		err := t.loadBaseData(ctx)
		if err != nil && t.metrics != nil {
			t.metrics.FetchErrors.WithLabelValues(log.StageBaseData).Inc()
		}
		return err
	})
}

func (t *Tracker) loadBaseData(ctx context.Context) error {
	wanted := []string{t.opts.CategoriesSheet, t.opts.BillsSheet, t.opts.EventsSheet}
	sets, err := t.feed.ReadRowSets(ctx, wanted)
	if err != nil {
		return fmt.Errorf("read base data: %w", err)
	}
	if t.metrics != nil {
		t.metrics.FeedReads.Inc()
	}
	rawRows := 0
	for _, rows := range sets {
		rawRows += len(rows)
	}
	t.bus.Publish(ctx, events.Event{Topic: events.TopicBaseDataFetched, Count: rawRows})

	parsed, err := parser.ParseBase(
		sets[t.opts.CategoriesSheet],
		sets[t.opts.BillsSheet],
		sets[t.opts.EventsSheet],
		parser.Options{
			Translations:    t.opts.Translations,
			MaxBills:        t.opts.MaxBills,
			ConferenceBills: t.opts.ConferenceBills,
		})
	if err != nil {
		return fmt.Errorf("parse base data: %w", err)
	}
	if parsed.SkippedBills > 0 {
		t.logger.WarnContext(ctx, "Skipped unparseable or over-limit bill rows",
			log.FieldCount, parsed.SkippedBills)
	}

	for _, f := range parsed.Categories {
		if _, err := t.store.Category(f); err != nil {
			return fmt.Errorf("materialize category: %w", err)
		}
	}
	for _, f := range parsed.Bills {
		if _, err := t.store.Bill(f); err != nil {
			return fmt.Errorf("materialize bill: %w", err)
		}
	}
	for _, e := range parsed.Events {
		if b := t.store.LookupBill(e.BillID); b != nil {
			b.AddEvent(e)
		}
	}

	if _, err := t.store.Category(core.CategoryFields{
		ID:    core.RecentCategoryID,
		Title: "Recent Actions",
		Description: fmt.Sprintf(
			"The following bills have been updated in the past %d days.", t.opts.RecentDays),
		Image: t.opts.RecentImage,
	}); err != nil {
		return fmt.Errorf("materialize recent category: %w", err)
	}

	for _, c := range t.store.Categories() {
		t.ResolveBills(c)
	}

	t.logger.InfoContext(ctx, "Base data loaded",
		"categories", len(t.store.Categories()),
		"bills", len(t.store.Bills()))
	t.bus.Publish(ctx, events.Event{Topic: events.TopicBaseDataLoaded, Count: len(t.store.Bills())})
	return nil
}

// FetchBillData issues the single batched external lookup covering every
// referenced bill id, writes the normalized records into the store, and
// computes recent-category membership. Runs once per session; concurrent
// triggers collapse onto the in-flight request.
func (t *Tracker) FetchBillData(ctx context.Context) error {
	if err := t.LoadBaseData(ctx); err != nil {
		return err
	}
	return t.bulkGate.run(ctx, func() error {
		err := t.fetchBillData(ctx)
		if err != nil && t.metrics != nil {
			t.metrics.FetchErrors.WithLabelValues(log.StageBillData).Inc()
		}
		return err
	})
}

func (t *Tracker) fetchBillData(ctx context.Context) error {
	ids := t.externalIDs()
	records, err := t.legis.BulkBills(ctx, ids)
	if err != nil {
		return fmt.Errorf("bulk lookup: %w", err)
	}
	if t.metrics != nil {
		t.metrics.BulkLookups.Inc()
	}
	t.bus.Publish(ctx, events.Event{Topic: events.TopicBillDataFetched, Count: len(records)})

	// Normalize the whole batch before touching the store so a bad record
	// fails the batch atomically.
	normalized := make([]core.ExternalBillFields, 0, len(records))
	for _, r := range records {
		f, err := r.Normalize()
		if err != nil {
			return fmt.Errorf("normalize bulk record: %w", err)
		}
		normalized = append(normalized, f)
	}
	for _, f := range normalized {
		eb, err := t.store.ExternalBill(f)
		if err != nil {
			return fmt.Errorf("write external bill: %w", err)
		}
		eb.SetFetched()
	}

	t.logger.InfoContext(ctx, "Basic bill data loaded",
		log.FieldCount, len(normalized), "requested", len(ids))
	t.bus.Publish(ctx, events.Event{Topic: events.TopicBillDataLoaded, Count: len(normalized)})

	t.computeRecent(ctx)
	return nil
}

// externalIDs collects every external bill id referenced by any known
// bill, deduplicated and in stable order.
func (t *Tracker) externalIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, b := range t.store.Bills() {
		for _, id := range b.ExternalIDs(t.opts.ConferenceBills) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// FetchCategoryBills resolves the category's bills and fetches detail for
// each bill not yet individually fetched. The category's detail flag is
// set before the fetches settle so a re-entrant trigger is a no-op; it
// only re-runs on an explicit force.
func (t *Tracker) FetchCategoryBills(ctx context.Context, categoryID string, force bool) error {
	if err := t.LoadBaseData(ctx); err != nil {
		return err
	}
	c := t.store.LookupCategory(categoryID)
	if c == nil {
		return fmt.Errorf("category %q: %w", categoryID, core.ErrNotFound)
	}
	if !c.BeginDetailFetch(force) {
		return nil
	}

	t.ResolveBills(c)
	bills := c.Bills()

	g, gctx := errgroup.WithContext(ctx)
	for _, b := range bills {
		g.Go(func() error {
			return t.fetchBill(gctx, b)
		})
	}
	if err := g.Wait(); err != nil {
		if t.metrics != nil {
			t.metrics.FetchErrors.WithLabelValues(log.StageCategoryFill).Inc()
		}
		return fmt.Errorf("fetch bills for category %s: %w", categoryID, err)
	}

	t.logger.InfoContext(ctx, "Category detail fetched",
		log.FieldCategoryID, categoryID, log.FieldCount, len(bills))
	t.bus.Publish(ctx, events.Event{Topic: events.TopicExternalBillsFetched, Count: len(bills)})
	t.bus.Publish(ctx, events.Event{
		Topic:      events.TopicExternalBillsFetched,
		CategoryID: categoryID,
		Count:      len(bills),
	})
	return nil
}

// fetchBill retrieves one bill's detail at most once. A bill already
// fetched resolves immediately with no network access; a failed attempt
// leaves the bill unfetched for a later retry.
func (t *Tracker) fetchBill(ctx context.Context, b *core.Bill) error {
	if b.Fetched() {
		return nil
	}
	return t.billGate(b.ID).run(ctx, func() error {
		record, err := t.legis.FetchBill(ctx, b.ID)
		if err != nil {
			if t.metrics != nil {
				t.metrics.FetchErrors.WithLabelValues(log.StageBillDetail).Inc()
			}
			return err
		}
		if t.metrics != nil {
			t.metrics.BillFetches.Inc()
		}
		f, err := record.Normalize()
		if err != nil {
			return fmt.Errorf("normalize bill %s: %w", b.ID, err)
		}
		eb, err := t.store.ExternalBill(f)
		if err != nil {
			return err
		}
		eb.SetFetched()
		b.SetFetched()
		return nil
	})
}

func (t *Tracker) billGate(id string) *gate {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.billGates[id]
	if !ok {
		g = &gate{}
		t.billGates[id] = g
	}
	return g
}

// ResolveBills recomputes the category's bill set from current bill
// membership lists. Idempotent; always reflects the latest scan.
func (t *Tracker) ResolveBills(c *core.Category) {
	var bills []*core.Bill
	for _, b := range t.store.Bills() {
		if b.InCategory(c.ID) {
			bills = append(bills, b)
		}
	}
	c.SetBills(bills)
}

// computeRecent tags every bill whose latest external activity falls
// within the threshold with the recent category, then re-resolves the
// recent category's bill set. Requires the bulk lookup to have completed;
// safe to re-invoke.
func (t *Tracker) computeRecent(ctx context.Context) {
	recent := t.store.LookupCategory(core.RecentCategoryID)
	if recent == nil {
		return
	}
	now := t.now()
	tagged := 0
	for _, b := range t.store.Bills() {
		if t.billLastActivity(b).IsZero() {
			continue
		}
		if core.IsRecent(t.billLastActivity(b), now, t.opts.RecentDays) {
			if b.AddCategory(core.RecentCategoryID) {
				tagged++
			}
		}
	}
	t.ResolveBills(recent)
	t.logger.DebugContext(ctx, "Recent category resolved",
		log.FieldCount, len(recent.Bills()), "newly_tagged", tagged)
}

// billLastActivity returns the most recent timestamp across the bill's
// associated external records. A bill with no external data returns the
// zero time and is never considered recent.
func (t *Tracker) billLastActivity(b *core.Bill) time.Time {
	var last time.Time
	for _, id := range b.ExternalIDs(t.opts.ConferenceBills) {
		eb := t.store.LookupExternalBill(id)
		if eb == nil {
			continue
		}
		if la := eb.LastActivity(); la.After(last) {
			last = la
		}
	}
	return last
}
