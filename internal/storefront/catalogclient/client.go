// Package catalogclient fetches product data from the storefront API. It is
// the only place the client side touches the network; everything above it
// works off the returned snapshot.
package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mauryaent/mtech-store/internal/catalog/domain"
	"github.com/mauryaent/mtech-store/internal/platform/logger"
)

var (
	// ErrCatalogUnavailable marks a transient data-source failure: the caller
	// may retry, but must never present stale data as a fresh result.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrSuperseded is returned to a fetch whose response arrived after a
	// newer fetch was issued. The late response is discarded.
	ErrSuperseded = errors.New("catalog fetch superseded by a newer request")

	ErrProductNotFound = errors.New("product not found")
)

type FetchParams struct {
	Category string
	Search   string
	Sort     string
	Limit    int
	Offset   int
}

// Client issues catalog fetches with a timeout and a latest-wins guard: every
// fetch gets an increasing sequence number, issuing a new fetch cancels the
// in-flight one, and a response older than the newest issued sequence is
// never applied.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	snapshot []domain.Product
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type productsResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

type productResponse struct {
	Product domain.Product `json:"product"`
}

type categoriesResponse struct {
	Categories []domain.CategorySummary `json:"categories"`
}

// FetchProducts retrieves the catalog for the given server-side parameters
// and, when the response is still current, stores it as the latest snapshot.
func (c *Client) FetchProducts(ctx context.Context, params FetchParams) ([]domain.Product, error) {
	ctx, seq := c.beginFetch(ctx)

	reqURL := c.baseURL + "/api/products"
	if qs := encodeParams(params); qs != "" {
		reqURL += "?" + qs
	}

	var body productsResponse
	if err := c.getJSON(ctx, reqURL, &body); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.seq {
		return nil, ErrSuperseded
	}
	c.snapshot = body.Products
	return body.Products, nil
}

// FetchProduct retrieves a single product; 404 maps to ErrProductNotFound.
func (c *Client) FetchProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/products/%d", c.baseURL, productID)

	var body productResponse
	if err := c.getJSON(ctx, reqURL, &body); err != nil {
		return nil, err
	}
	return &body.Product, nil
}

// FetchCategories retrieves the per-category aggregates for the filter UI.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	var body categoriesResponse
	if err := c.getJSON(ctx, c.baseURL+"/api/categories", &body); err != nil {
		return nil, err
	}
	return body.Categories, nil
}

// Snapshot returns the most recently applied catalog fetch. The returned
// slice is a copy.
func (c *Client) Snapshot() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]domain.Product, len(c.snapshot))
	copy(snapshot, c.snapshot)
	return snapshot
}

// beginFetch allocates the next sequence number and cancels whatever fetch
// was previously in flight.
func (c *Client) beginFetch(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return ctx, c.seq
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			// Cancelled because a newer fetch was issued.
			return ErrSuperseded
		}
		logger.Error("catalogclient: request failed", err)
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return ErrProductNotFound
	default:
		logger.Error(fmt.Sprintf("catalogclient: unexpected status %d for %s", resp.StatusCode, reqURL), nil)
		return fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Error("catalogclient: JSON decode failed", err)
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return nil
}

func encodeParams(params FetchParams) string {
	values := url.Values{}
	if params.Category != "" {
		values.Set("category", params.Category)
	}
	if params.Search != "" {
		values.Set("search", params.Search)
	}
	if params.Sort != "" {
		values.Set("sort", params.Sort)
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
		if params.Offset > 0 {
			values.Set("offset", strconv.Itoa(params.Offset))
		}
	}
	return values.Encode()
}
