package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// httpCatalog talks to the catalog microservice over plain HTTP.
type httpCatalog struct {
	baseURL     string
	client      *http.Client
	proxyClient *http.Client
}

// NewHTTPCatalog creates a catalog client. The proxy passthrough gets its own
// timeout since upstream list endpoints can be slow.
func NewHTTPCatalog(baseURL string, timeout, proxyTimeout time.Duration) Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if proxyTimeout <= 0 {
		proxyTimeout = 15 * time.Second
	}
	return &httpCatalog{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: timeout},
		proxyClient: &http.Client{Timeout: proxyTimeout},
	}
}

// get fetches a catalog endpoint and returns the body verbatim. Any failure
// is logged and collapsed into ErrUnavailable.
func (c *httpCatalog) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, ErrUnavailable
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("ERROR: catalog request %s failed: %v", path, err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("ERROR: catalog request %s returned status %d", path, resp.StatusCode)
		return nil, ErrUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("ERROR: reading catalog response for %s: %v", path, err)
		return nil, ErrUnavailable
	}
	return json.RawMessage(body), nil
}

func (c *httpCatalog) ListExercises(ctx context.Context, limit, offset int, search string) (json.RawMessage, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		values.Set("offset", strconv.Itoa(offset))
	}
	if search != "" {
		values.Set("search", search)
	}
	return c.get(ctx, "/exercises", values)
}

func (c *httpCatalog) GetExercise(ctx context.Context, exerciseID string) (json.RawMessage, error) {
	return c.get(ctx, "/exercises/"+url.PathEscape(exerciseID), nil)
}

func (c *httpCatalog) ListCategories(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/categories", nil)
}

func (c *httpCatalog) ListMuscleGroups(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/muscle-groups", nil)
}

func (c *httpCatalog) ExercisesByCategory(ctx context.Context, category string) (json.RawMessage, error) {
	return c.get(ctx, "/exercises/category/"+url.PathEscape(category), nil)
}

func (c *httpCatalog) ExercisesByMuscleGroup(ctx context.Context, muscleGroup string) (json.RawMessage, error) {
	return c.get(ctx, "/exercises/muscle-group/"+url.PathEscape(muscleGroup), nil)
}

func (c *httpCatalog) SearchExercises(ctx context.Context, query string) (json.RawMessage, error) {
	values := url.Values{}
	values.Set("q", query)
	return c.get(ctx, "/exercises/search", values)
}

// Ping checks upstream liveness via its health endpoint.
func (c *httpCatalog) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return ErrUnavailable
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return ErrUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Proxy forwards a request under the upstream items tree and relays the
// response as-is, status code included. Method and body pass through
// untouched. Upstream errors reach the caller unmasked; only transport
// failures map to ErrUnavailable.
func (c *httpCatalog) Proxy(ctx context.Context, method, subpath, rawQuery string, body []byte) (*ProxyResult, error) {
	endpoint := c.baseURL + "/items/" + strings.TrimLeft(subpath, "/")
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, ErrUnavailable
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.proxyClient.Do(req)
	if err != nil {
		log.Printf("ERROR: catalog proxy to %s failed: %v", subpath, err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrUnavailable
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	return &ProxyResult{
		Status:      resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}
