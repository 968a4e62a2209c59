package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// restClient speaks the PostgREST dialect: tables are URL paths, filters are
// column=eq.value query parameters, and writes ask for the created rows back
// via the Prefer header.
type restClient struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func newRESTClient(baseURL, serviceKey string, timeout time.Duration) *restClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &restClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
	}
}

// eq builds an equality filter value.
func eq(value string) string {
	return "eq." + value
}

func (c *restClient) do(ctx context.Context, method, table string, filters url.Values, payload interface{}) ([]byte, error) {
	endpoint := c.baseURL + "/rest/v1/" + table
	if len(filters) > 0 {
		endpoint += "?" + filters.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, ErrUnavailable
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, ErrUnavailable
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("ERROR: provider %s %s failed: %v", method, table, err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrUnavailable
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("ERROR: provider %s %s returned status %d", method, table, resp.StatusCode)
		return nil, ErrUnavailable
	}
	return raw, nil
}

// selectRows fetches matching rows and decodes them into out, which must be a
// pointer to a slice. A body that does not decode as the expected rows means
// the provider is misconfigured, not that the data is absent.
func (c *restClient) selectRows(ctx context.Context, table string, filters url.Values, out interface{}) error {
	raw, err := c.do(ctx, http.MethodGet, table, filters, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("ERROR: provider %s returned unexpected shape: %v", table, err)
		return ErrUnavailable
	}
	return nil
}

// insertRow inserts a row and decodes the representation into out.
func (c *restClient) insertRow(ctx context.Context, table string, payload, out interface{}) error {
	raw, err := c.do(ctx, http.MethodPost, table, nil, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("ERROR: provider insert into %s returned unexpected shape: %v", table, err)
		return ErrUnavailable
	}
	return nil
}

// updateRows patches matching rows and decodes the representation into out.
func (c *restClient) updateRows(ctx context.Context, table string, filters url.Values, payload, out interface{}) error {
	raw, err := c.do(ctx, http.MethodPatch, table, filters, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("ERROR: provider update of %s returned unexpected shape: %v", table, err)
		return ErrUnavailable
	}
	return nil
}

// deleteRows removes matching rows.
func (c *restClient) deleteRows(ctx context.Context, table string, filters url.Values) error {
	_, err := c.do(ctx, http.MethodDelete, table, filters, nil)
	return err
}
