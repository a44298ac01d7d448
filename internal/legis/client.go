// Package legis talks to the third-party legislative-data API: one batched
// lookup covering many bill ids, and per-bill detail fetches.
package legis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// The bulk lookup asks only for the fields the tracker consumes.
const bulkFields = "action_dates,chamber,title,id,created_at,updated_at,bill_id"

type Client struct {
	httpClient *http.Client
	baseURL    string
	state      string
	session    string
	apiKey     string
}

type Config struct {
	BaseURL string
	State   string
	Session string
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		state:      cfg.State,
		session:    cfg.Session,
		apiKey:     cfg.APIKey,
	}
}

// BulkBills issues one batched request covering all ids, pipe-delimited.
// The response is the full batch; a failed request fails the batch whole.
func (c *Client) BulkBills(ctx context.Context, ids []string) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("state", c.state)
	q.Set("fields", bulkFields)
	q.Set("search_window", "session:"+c.session)
	q.Set("bill_id__in", strings.Join(ids, "|"))
	q.Set("apikey", c.apiKey)

	var records []Record
	if err := c.getJSON(ctx, c.baseURL+"/bills/?"+q.Encode(), &records); err != nil {
		return nil, fmt.Errorf("bulk bill lookup: %w", err)
	}
	return records, nil
}

// FetchBill issues a single detail request for one bill id.
func (c *Client) FetchBill(ctx context.Context, billID string) (Record, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	endpoint := fmt.Sprintf("%s/bills/%s/%s/%s/?%s",
		c.baseURL, c.state, url.PathEscape(c.session), url.PathEscape(billID), q.Encode())

	var record Record
	if err := c.getJSON(ctx, endpoint, &record); err != nil {
		return Record{}, fmt.Errorf("fetch bill %s: %w", billID, err)
	}
	return record, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
