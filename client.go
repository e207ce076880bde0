package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ServiceClient talks JSON over HTTP to the equipment/connection service.
// Every call takes a context; none retries. Failures come back as errors and
// the caller decides what to roll back.
type ServiceClient struct {
	baseURL string
	http    *http.Client
}

func newServiceClient(baseURL string) *ServiceClient {
	return &ServiceClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ListEquipment fetches equipment records, optionally filtered by area.
// Enum fields are normalized at this boundary.
func (c *ServiceClient) ListEquipment(ctx context.Context, area string) ([]Equipment, error) {
	u := c.baseURL + "/equipment"
	if area != "" {
		u += "?area=" + url.QueryEscape(area)
	}
	var list []Equipment
	if err := c.do(ctx, http.MethodGet, u, nil, &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = list[i].normalize()
	}
	return list, nil
}

func (c *ServiceClient) ListConnections(ctx context.Context) ([]Connection, error) {
	var list []Connection
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/connections", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdatePosition persists a single equipment position. skipInvalidation
// tells the backend this call should not bump the list revision; the
// controller uses it for high-frequency calls that no other view needs to
// observe.
func (c *ServiceClient) UpdatePosition(ctx context.Context, id string, x, y float64, skipInvalidation bool) (Equipment, error) {
	u := fmt.Sprintf("%s/equipment/%s", c.baseURL, url.PathEscape(id))
	if skipInvalidation {
		u += "?skipInvalidation=1"
	}
	body := map[string]float64{"x": x, "y": y}
	var updated Equipment
	if err := c.do(ctx, http.MethodPatch, u, body, &updated); err != nil {
		return Equipment{}, err
	}
	return updated.normalize(), nil
}

// BulkUpdatePositions persists a batch of positions as a single
// all-or-nothing request.
func (c *ServiceClient) BulkUpdatePositions(ctx context.Context, updates []PositionUpdate) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/equipment/positions", updates, nil)
}

func (c *ServiceClient) CreateConnection(ctx context.Context, conn Connection) (Connection, error) {
	var created Connection
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/connections", conn, &created); err != nil {
		return Connection{}, err
	}
	return created, nil
}

func (c *ServiceClient) DeleteConnection(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/connections/%s", c.baseURL, url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, u, nil, nil)
}

func (c *ServiceClient) do(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, u, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, u, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
