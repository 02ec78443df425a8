package snipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Client is a read-only client for the Snipe-IT REST API. All list methods
// materialize the full, de-duplicated collection by walking the paginated
// endpoints.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	http     *http.Client
}

// NewClient creates a client from the configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/") + "/api/v1/",
		token:    cfg.Token,
		pageSize: pageSize,
		http:     &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// page is the envelope Snipe-IT wraps around every list response.
type page[T any] struct {
	Total int64 `json:"total"`
	Rows  []T   `json:"rows"`
}

func (c *Client) getPage(ctx context.Context, endpoint string, limit, offset int, out any) error {
	u := c.baseURL + endpoint + "?" + url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("snipe request %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("snipe request %s returned status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("snipe response %s is not valid JSON: %w", endpoint, err)
	}
	return nil
}

// listPaged walks an endpoint page by page until total rows are collected.
// Rows repeated across pages (the set can shift mid-walk) are dropped by id.
func listPaged[T any](ctx context.Context, c *Client, endpoint string, id func(T) int64) ([]T, error) {
	var (
		out  []T
		seen = make(map[int64]struct{})
	)

	for offset := 0; ; offset += c.pageSize {
		var p page[T]
		if err := c.getPage(ctx, endpoint, c.pageSize, offset, &p); err != nil {
			return nil, err
		}
		for _, row := range p.Rows {
			if _, dup := seen[id(row)]; dup {
				continue
			}
			seen[id(row)] = struct{}{}
			out = append(out, row)
		}
		if len(p.Rows) == 0 || int64(offset+c.pageSize) >= p.Total {
			break
		}
	}
	return out, nil
}

// Companies returns all companies.
func (c *Client) Companies(ctx context.Context) ([]Company, error) {
	return listPaged(ctx, c, "companies", func(v Company) int64 { return v.ID })
}

// Manufacturers returns all manufacturers.
func (c *Client) Manufacturers(ctx context.Context) ([]Manufacturer, error) {
	return listPaged(ctx, c, "manufacturers", func(v Manufacturer) int64 { return v.ID })
}

// Models returns all asset models.
func (c *Client) Models(ctx context.Context) ([]Model, error) {
	return listPaged(ctx, c, "models", func(v Model) int64 { return v.ID })
}

// Locations returns all locations, sorted by name.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	locations, err := listPaged(ctx, c, "locations", func(v Location) int64 { return v.ID })
	if err != nil {
		return nil, err
	}
	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Name < locations[j].Name
	})
	return locations, nil
}

// Assets returns all hardware assets.
func (c *Client) Assets(ctx context.Context) ([]Asset, error) {
	return listPaged(ctx, c, "hardware", func(v Asset) int64 { return v.ID })
}
