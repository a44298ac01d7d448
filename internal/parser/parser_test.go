package parser

import (
	"errors"
	"testing"

	"legtrack/internal/config"
	"legtrack/internal/core"
	"legtrack/internal/feed"
)

func defaultOpts() Options {
	return Options{
		Translations:    config.DefaultTranslations(),
		MaxBills:        30,
		ConferenceBills: true,
	}
}

func TestParseBaseCategories(t *testing.T) {
	rows := feed.RowSet{
		{"categoryid": "energy", "title": "Energy", "shorttitle": "NRG", "description": "Power bills", "image": "energy.png"},
		{"categoryid": "", "title": "No id row"},
		{"categoryid": "taxes", "title": "Taxes"},
	}

	got, err := ParseBase(rows, nil, nil, defaultOpts())
	if err != nil {
		t.Fatalf("ParseBase: %v", err)
	}
	if len(got.Categories) != 2 {
		t.Fatalf("parsed %d categories, want 2 (idless row skipped)", len(got.Categories))
	}
	first := got.Categories[0]
	if first.ID != "energy" || first.Title != "Energy" || first.ShortTitle != "NRG" ||
		first.Description != "Power bills" || first.Image != "energy.png" {
		t.Errorf("first category = %+v, field translation broken", first)
	}
}

func TestParseBaseBills(t *testing.T) {
	rows := feed.RowSet{
		{
			"bill":           "hf1234",
			"companionbill":  "SF 600",
			"conferencebill": "hf 99",
			"categories":     "energy, taxes",
			"title":          "An energy bill",
			"description":    "About energy",
		},
		{"bill": "not a bill", "title": "Garbage row"},
	}

	got, err := ParseBase(nil, rows, nil, defaultOpts())
	if err != nil {
		t.Fatalf("ParseBase: %v", err)
	}
	if len(got.Bills) != 1 {
		t.Fatalf("parsed %d bills, want 1", len(got.Bills))
	}
	if got.SkippedBills != 1 {
		t.Errorf("SkippedBills = %d, want 1", got.SkippedBills)
	}

	b := got.Bills[0]
	if b.ID != "HF 1234" {
		t.Errorf("ID = %q, want canonical HF 1234", b.ID)
	}
	if b.CompanionID != "SF 600" || b.ConferenceID != "HF 99" {
		t.Errorf("companion/conference = %q/%q, want SF 600/HF 99", b.CompanionID, b.ConferenceID)
	}
	if len(b.Categories) != 2 || b.Categories[0] != "energy" || b.Categories[1] != "taxes" {
		t.Errorf("Categories = %v, want [energy taxes]", b.Categories)
	}
}

func TestParseBaseConferenceToggle(t *testing.T) {
	rows := feed.RowSet{
		{"bill": "HF 1", "conferencebill": "HF 99"},
	}
	opts := defaultOpts()
	opts.ConferenceBills = false

	got, err := ParseBase(nil, rows, nil, opts)
	if err != nil {
		t.Fatalf("ParseBase: %v", err)
	}
	if got.Bills[0].ConferenceID != "" {
		t.Errorf("ConferenceID = %q, want empty when conference bills disabled", got.Bills[0].ConferenceID)
	}
}

func TestParseBaseMaxBills(t *testing.T) {
	rows := feed.RowSet{
		{"bill": "HF 1"},
		{"bill": "HF 2"},
		{"bill": "HF 3"},
	}
	opts := defaultOpts()
	opts.MaxBills = 2

	got, err := ParseBase(nil, rows, nil, opts)
	if err != nil {
		t.Fatalf("ParseBase: %v", err)
	}
	if len(got.Bills) != 2 {
		t.Errorf("parsed %d bills, want max-bills cap of 2", len(got.Bills))
	}
	if got.SkippedBills != 1 {
		t.Errorf("SkippedBills = %d, want 1", got.SkippedBills)
	}
}

func TestParseBaseEvents(t *testing.T) {
	rows := feed.RowSet{
		{"bill": "hf 1", "chamber": "upper", "description": "Heard in committee"},
		{"bill": "bogus", "description": "Dropped"},
	}

	got, err := ParseBase(nil, nil, rows, defaultOpts())
	if err != nil {
		t.Fatalf("ParseBase: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("parsed %d events, want 1", len(got.Events))
	}
	e := got.Events[0]
	if e.BillID != "HF 1" || e.Chamber != "upper" || e.Description != "Heard in committee" {
		t.Errorf("event = %+v, field translation broken", e)
	}
}

func TestParseBaseBadTranslation(t *testing.T) {
	opts := defaultOpts()
	opts.Translations.Bills = config.FieldMap{"bill": ""}

	_, err := ParseBase(nil, nil, nil, opts)
	if !errors.Is(err, core.ErrBadTranslation) {
		t.Fatalf("err = %v, want ErrBadTranslation", err)
	}
}

func TestParseBaseIdempotent(t *testing.T) {
	rows := feed.RowSet{{"bill": "HF 1", "categories": "energy"}}
	opts := defaultOpts()

	first, err := ParseBase(nil, rows, nil, opts)
	if err != nil {
		t.Fatalf("ParseBase: %v", err)
	}
	second, err := ParseBase(nil, rows, nil, opts)
	if err != nil {
		t.Fatalf("ParseBase: %v", err)
	}
	if len(first.Bills) != len(second.Bills) {
		t.Errorf("two parses of the same rows differ: %d vs %d bills",
			len(first.Bills), len(second.Bills))
	}
}
