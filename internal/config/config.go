package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// FieldMap maps internal field names to source spreadsheet column names.
type FieldMap map[string]string

// Translations holds the per-sheet column translation tables.
type Translations struct {
	Categories FieldMap
	Bills      FieldMap
	Events     FieldMap
}

// DefaultTranslations returns the column tables for the curated tracker
// spreadsheet layout.
func DefaultTranslations() Translations {
	return Translations{
		Categories: FieldMap{
			"id":          "categoryid",
			"short_title": "shorttitle",
			"title":       "title",
			"description": "description",
			"image":       "image",
		},
		Bills: FieldMap{
			"bill":            "bill",
			"bill_companion":  "companionbill",
			"bill_conference": "conferencebill",
			"categories":      "categories",
			"title":           "title",
			"description":     "description",
		},
		Events: FieldMap{
			"bill_id":     "bill",
			"chamber":     "chamber",
			"description": "description",
		},
	}
}

// ChamberLabels translates API chamber codes for presentation.
var ChamberLabels = map[string]string{
	"upper": "Senate",
	"lower": "House",
}

type Config struct {
	// HTTP server
	Port string

	// Spreadsheet feed
	DataBackend     string
	SpreadsheetID   string
	CategoriesSheet string
	BillsSheet      string
	EventsSheet     string
	Translations    Translations

	// Legislative API
	State        string
	Session      string
	LegisAPIKey  string
	LegisBaseURL string
	LegisTimeout time.Duration

	// Tracker behavior
	RecentDays      int
	MaxBills        int
	ConferenceBills bool
	RecentImage     string

	// AMQP event relay (optional; disabled when URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		DataBackend:     getEnv("DATA_BACKEND", "memory"),
		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		CategoriesSheet: getEnv("CATEGORIES_SHEET", "Categories"),
		BillsSheet:      getEnv("BILLS_SHEET", "Bills"),
		EventsSheet:     getEnv("EVENTS_SHEET", "Events"),
		Translations:    DefaultTranslations(),

		State:        getEnv("STATE", "mn"),
		Session:      getEnv("SESSION", ""),
		LegisAPIKey:  getEnv("LEGIS_API_KEY", ""),
		LegisBaseURL: getEnv("LEGIS_BASE_URL", "https://openstates.org/api/v1"),
		LegisTimeout: getEnvDuration("LEGIS_TIMEOUT", 30*time.Second),

		RecentDays:      getEnvInt("RECENT_DAYS", 7),
		MaxBills:        getEnvInt("MAX_BILLS", 30),
		ConferenceBills: getEnvBool("CONFERENCE_BILLS", true),
		RecentImage:     getEnv("RECENT_IMAGE", "RecentUpdatedBill.png"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "legtrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "tracker_events"),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "memory", "sheets":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [memory sheets]", c.DataBackend))
	}

	if c.DataBackend == "sheets" {
		if c.SpreadsheetID == "" {
			errs = append(errs, "spreadsheet id is required when using sheets backend")
		}
		for name, sheet := range map[string]string{
			"categories": c.CategoriesSheet,
			"bills":      c.BillsSheet,
			"events":     c.EventsSheet,
		} {
			if strings.TrimSpace(sheet) == "" {
				errs = append(errs, fmt.Sprintf("%s sheet name cannot be empty", name))
			}
		}
	}

	if strings.TrimSpace(c.State) == "" {
		errs = append(errs, "state code cannot be empty")
	}
	if u, err := url.Parse(c.LegisBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("invalid legislative API base URL '%s'", c.LegisBaseURL))
	}
	if c.LegisTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid legis timeout %v: must be at least 1 second", c.LegisTimeout))
	}

	if c.RecentDays < 1 || c.RecentDays > 365 {
		errs = append(errs, fmt.Sprintf("invalid recent-days threshold %d: must be between 1 and 365", c.RecentDays))
	}
	if c.MaxBills < 1 || c.MaxBills > 1000 {
		errs = append(errs, fmt.Sprintf("invalid max bills %d: must be between 1 and 1000", c.MaxBills))
	}

	if err := c.Translations.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Validate rejects translation tables with empty field or column names.
func (t Translations) Validate() error {
	for name, fm := range map[string]FieldMap{
		"categories": t.Categories,
		"bills":      t.Bills,
		"events":     t.Events,
	} {
		if len(fm) == 0 {
			return fmt.Errorf("%s translation table is empty", name)
		}
		for field, column := range fm {
			if strings.TrimSpace(field) == "" || strings.TrimSpace(column) == "" {
				return fmt.Errorf("%s translation table has an empty field or column name", name)
			}
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
