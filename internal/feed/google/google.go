// Package google reads the tracker spreadsheet through the Google Sheets
// API using service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"legtrack/internal/feed"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ feed.BaseDataReader = (*Client)(nil)

// New creates a Sheets-backed feed reader for the given spreadsheet.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// ReadRowSets reads each wanted sheet in full. The first row supplies the
// column names, normalized to lowercase alphanumerics; remaining rows
// become field maps. Rows with no populated cells are skipped.
func (c *Client) ReadRowSets(ctx context.Context, wanted []string) (map[string]feed.RowSet, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	out := make(map[string]feed.RowSet, len(wanted))
	for _, sheet := range wanted {
		rows, err := c.readSheet(ctx, sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		out[sheet] = rows
	}
	return out, nil
}

func (c *Client) readSheet(ctx context.Context, sheet string) (feed.RowSet, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	headers := make([]string, len(resp.Values[0]))
	for i, h := range resp.Values[0] {
		headers[i] = feed.NormalizeColumn(fmt.Sprint(h))
	}

	var rows feed.RowSet
	for _, raw := range resp.Values[1:] {
		row := make(feed.Row, len(headers))
		populated := false
		for i, cell := range raw {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			v := strings.TrimSpace(fmt.Sprint(cell))
			row[headers[i]] = v
			if v != "" {
				populated = true
			}
		}
		if populated {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
