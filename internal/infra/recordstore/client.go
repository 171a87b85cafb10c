// Package recordstore talks to the spreadsheet-style database that is
// the system of record for leads, monthly summaries and OAuth tokens.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fieldline/lead-relay/internal/usecase"
)

const serviceName = "recordstore"

type Client struct {
	baseURL string
	baseID  string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseID, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, usecase.NewConfigError("RECORDSTORE_API_KEY")
	}
	if baseID == "" {
		return nil, usecase.NewConfigError("RECORDSTORE_BASE_ID")
	}
	if baseURL == "" {
		baseURL = "https://api.recordstore.com/v0"
	}
	return &Client{
		baseURL: baseURL,
		baseID:  baseID,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type ListOptions struct {
	// Filter is a formula evaluated server-side against each record.
	Filter     string
	MaxRecords int
}

// List fetches records from a table. Reads are idempotent, so transient
// failures are retried with backoff.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))

	query := url.Values{}
	if opts.Filter != "" {
		query.Set("filterByFormula", opts.Filter)
	}
	if opts.MaxRecords > 0 {
		query.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var response listResponse
	err := c.doRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		return c.do(req, &response)
	})
	if err != nil {
		return nil, err
	}
	return response.Records, nil
}

func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))

	body, err := json.Marshal(recordRequest{Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	var record Record
	if err := c.do(req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (*Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table), id)

	body, err := json.Marshal(recordRequest{Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	var record Record
	if err := c.do(req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return usecase.NewUpstreamError(serviceName, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return usecase.NewUpstreamError(serviceName,
			fmt.Sprintf("%s %s returned %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(body)), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return usecase.NewUpstreamError(serviceName, "decode response", err)
	}
	return nil
}

// doRetry runs an idempotent call up to three times with exponential
// backoff. Writes never go through here: retrying a create risks
// duplicate records.
func (c *Client) doRetry(ctx context.Context, call func() error) error {
	const attempts = 3

	var err error
	delay := 500 * time.Millisecond
	for i := 0; i < attempts; i++ {
		if err = call(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return usecase.NewUpstreamError(serviceName, "request cancelled", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
