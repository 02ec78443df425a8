package netbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the NetBox REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client from the configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/") + "/api/",
		token:   cfg.Token,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// listResponse is NetBox's pagination envelope.
type listResponse[T any] struct {
	Count   int64   `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("netbox %s %s failed: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("netbox %s %s returned status %d: %s",
			method, rawURL, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("netbox response for %s is not valid JSON: %w", rawURL, err)
		}
	}
	return nil
}

// Endpoint provides the uniform operation set over one NetBox object type:
// list everything, create one record, bulk-update existing records.
type Endpoint[T any] struct {
	c    *Client
	path string
}

// List materializes the full collection by following pagination links.
func (e *Endpoint[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	next := e.c.baseURL + e.path
	for next != "" {
		var p listResponse[T]
		if err := e.c.do(ctx, http.MethodGet, next, nil, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Results...)
		if p.Next == nil {
			break
		}
		next = *p.Next
	}
	return out, nil
}

// Create posts a new record and returns it with its assigned id.
func (e *Endpoint[T]) Create(ctx context.Context, fields Params) (T, error) {
	var created T
	err := e.c.do(ctx, http.MethodPost, e.c.baseURL+e.path, fields, &created)
	return created, err
}

// Update applies a bulk partial update. Every change set must carry the
// record "id". A nil or empty list is a no-op.
func (e *Endpoint[T]) Update(ctx context.Context, changes []Params) error {
	if len(changes) == 0 {
		return nil
	}
	return e.c.do(ctx, http.MethodPatch, e.c.baseURL+e.path, changes, nil)
}

// Tenants accesses tenancy tenants.
func (c *Client) Tenants() *Endpoint[Tenant] {
	return &Endpoint[Tenant]{c, "tenancy/tenants/"}
}

// Manufacturers accesses DCIM manufacturers.
func (c *Client) Manufacturers() *Endpoint[Manufacturer] {
	return &Endpoint[Manufacturer]{c, "dcim/manufacturers/"}
}

// DeviceTypes accesses DCIM device types.
func (c *Client) DeviceTypes() *Endpoint[DeviceType] {
	return &Endpoint[DeviceType]{c, "dcim/device-types/"}
}

// Sites accesses DCIM sites.
func (c *Client) Sites() *Endpoint[Site] {
	return &Endpoint[Site]{c, "dcim/sites/"}
}

// Locations accesses DCIM locations.
func (c *Client) Locations() *Endpoint[Location] {
	return &Endpoint[Location]{c, "dcim/locations/"}
}

// DeviceRoles accesses DCIM device roles.
func (c *Client) DeviceRoles() *Endpoint[DeviceRole] {
	return &Endpoint[DeviceRole]{c, "dcim/device-roles/"}
}

// Devices accesses DCIM devices.
func (c *Client) Devices() *Endpoint[Device] {
	return &Endpoint[Device]{c, "dcim/devices/"}
}
