// ABOUTME: Oura v2 API client: paginated collection fetch and local sync.
// ABOUTME: Fetched windows flow straight into the ingest reconciler.
package oura

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/harperreed/driver/internal/config"
	"github.com/harperreed/driver/internal/ingest"
)

// ErrTokenRequired is returned when no API token is configured.
var ErrTokenRequired = errors.New("oura api token is required")

// Client talks to the Oura v2 user collection API.
type Client struct {
	apiBase string
	token   string
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a client from configuration. The token is mandatory.
func NewClient(cfg config.OuraConfig, log *slog.Logger) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, ErrTokenRequired
	}
	if log == nil {
		log = slog.Default()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiBase: trimSlash(cfg.APIBase),
		token:   cfg.APIToken,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// DefaultWindow returns the fallback sync window: daysBack days ending
// yesterday. Today's data is still being collected by the ring.
func DefaultWindow(daysBack int) (start, end time.Time) {
	end = time.Now().AddDate(0, 0, -1)
	if daysBack < 1 {
		daysBack = 1
	}
	start = end.AddDate(0, 0, -(daysBack - 1))
	return start, end
}

// FetchWindow pulls the sleep, readiness, and activity collections for a
// date range and shapes them as an ingest payload.
func (c *Client) FetchWindow(ctx context.Context, start, end time.Time) (*ingest.OuraPayload, error) {
	payload := &ingest.OuraPayload{}

	if err := c.fetchCollection(ctx, "sleep", start, end, &payload.Sleep); err != nil {
		return nil, err
	}
	if err := c.fetchCollection(ctx, "daily_readiness", start, end, &payload.Readiness); err != nil {
		return nil, err
	}
	if err := c.fetchCollection(ctx, "daily_activity", start, end, &payload.Activity); err != nil {
		return nil, err
	}
	return payload, nil
}

// Sync fetches a window and applies it through the reconciler. With
// dryRun set the payload is fetched and counted but nothing is stored.
func (c *Client) Sync(ctx context.Context, rec *ingest.Reconciler, start, end time.Time, dryRun bool) (*ingest.Result, error) {
	payload, err := c.FetchWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	c.log.Info("oura window fetched",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"sleep", len(payload.Sleep),
		"readiness", len(payload.Readiness),
		"activity", len(payload.Activity),
	)

	if dryRun {
		return &ingest.Result{
			Status: ingest.StatusDryRun,
			Processed: map[string]int{
				"sleep":     len(payload.Sleep),
				"readiness": len(payload.Readiness),
				"activity":  len(payload.Activity),
				"skipped":   0,
			},
		}, nil
	}
	return rec.IngestOura(payload)
}

// collectionPage is one page of an Oura collection response.
type collectionPage struct {
	Data      json.RawMessage `json:"data"`
	NextToken *string         `json:"next_token"`
}

// fetchCollection pages through one collection endpoint, decoding every
// page's data array into out (a pointer to a slice).
func (c *Client) fetchCollection(ctx context.Context, endpoint string, start, end time.Time, out any) error {
	var pages []json.RawMessage
	var nextToken *string

	for {
		params := url.Values{}
		params.Set("start_date", start.Format("2006-01-02"))
		params.Set("end_date", end.Format("2006-01-02"))
		if nextToken != nil {
			params.Set("next_token", *nextToken)
		}

		page, err := c.getPage(ctx, endpoint, params)
		if err != nil {
			return err
		}
		if len(page.Data) > 0 {
			pages = append(pages, page.Data)
		}
		if page.NextToken == nil || *page.NextToken == "" {
			break
		}
		nextToken = page.NextToken
	}

	return mergePages(pages, out)
}

func (c *Client) getPage(ctx context.Context, endpoint string, params url.Values) (*collectionPage, error) {
	u := fmt.Sprintf("%s/v2/usercollection/%s?%s", c.apiBase, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, body)
	}

	var page collectionPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return &page, nil
}

// mergePages concatenates raw data arrays and decodes them as one slice.
func mergePages(pages []json.RawMessage, out any) error {
	switch target := out.(type) {
	case *[]ingest.OuraSleep:
		for _, page := range pages {
			var items []ingest.OuraSleep
			if err := json.Unmarshal(page, &items); err != nil {
				return fmt.Errorf("decode sleep page: %w", err)
			}
			*target = append(*target, items...)
		}
	case *[]ingest.OuraReadiness:
		for _, page := range pages {
			var items []ingest.OuraReadiness
			if err := json.Unmarshal(page, &items); err != nil {
				return fmt.Errorf("decode readiness page: %w", err)
			}
			*target = append(*target, items...)
		}
	case *[]ingest.OuraActivity:
		for _, page := range pages {
			var items []ingest.OuraActivity
			if err := json.Unmarshal(page, &items); err != nil {
				return fmt.Errorf("decode activity page: %w", err)
			}
			*target = append(*target, items...)
		}
	default:
		return fmt.Errorf("unsupported collection type %T", out)
	}
	return nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
