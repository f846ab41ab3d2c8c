package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// SearchLimit is the fixed result cap sent with every search call.
const SearchLimit = 20

// ErrNotFound is returned when the backend answers 404 for a lookup.
var ErrNotFound = errors.New("not found")

// ClientOpts holds options for creating a Client. Zero fields fall back to
// defaults.
type ClientOpts struct {
	// BaseURL is the server root, e.g. "http://localhost:8000". The client
	// appends the /api prefix itself.
	BaseURL    string
	Timeout    time.Duration
	PageLimit  int
	RatePerSec float64
	RateBurst  int
}

// Client talks to the catalyst news backend over its REST API. Outbound
// requests pass through a token-bucket limiter so that rapid view switching
// cannot flood the backend.
type Client struct {
	baseURL    string
	pageLimit  int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new backend API client.
func NewClient(opts ClientOpts) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PageLimit == 0 {
		opts.PageLimit = 20
	}
	if opts.RatePerSec == 0 {
		opts.RatePerSec = 5
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = 10
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/") + "/api",
		pageLimit:  opts.PageLimit,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.RateBurst),
	}
}

// do performs one request against the API and decodes the JSON response into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// GetInfo fetches the root endpoint. Used at startup to verify the backend
// is reachable and log its version.
func (c *Client) GetInfo(ctx context.Context) (*Info, error) {
	var info Info
	if err := c.do(ctx, http.MethodGet, "/", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetCategories fetches the list of article categories known to the backend.
func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var resp categoriesResponse
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// GetArticles fetches the newest articles, optionally filtered to a single
// category. An empty category fetches across all categories.
func (c *Client) GetArticles(ctx context.Context, category string) ([]Article, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageLimit))
	if category != "" {
		q.Set("category", category)
	}

	var articles []Article
	if err := c.do(ctx, http.MethodGet, "/articles?"+q.Encode(), nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticle fetches a single article by id. Returns ErrNotFound when the
// backend no longer has it.
func (c *Client) GetArticle(ctx context.Context, id string) (*Article, error) {
	var article Article
	if err := c.do(ctx, http.MethodGet, "/articles/"+url.PathEscape(id), nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Search runs a keyword search, optionally restricted to a category. The
// result cap is fixed at SearchLimit regardless of the page limit used for
// plain listing.
func (c *Client) Search(ctx context.Context, query, category string) ([]Article, error) {
	req := SearchRequest{
		Query: query,
		Limit: SearchLimit,
	}
	if category != "" {
		req.Category = &category
	}

	var articles []Article
	if err := c.do(ctx, http.MethodPost, "/search", req, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// RefreshArticles asks the backend to pull fresh articles from its sources.
func (c *Client) RefreshArticles(ctx context.Context) (*RefreshResult, error) {
	var result RefreshResult
	if err := c.do(ctx, http.MethodPost, "/articles/refresh", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RefreshStocks asks the backend to recompute its stock quotes.
func (c *Client) RefreshStocks(ctx context.Context) (*RefreshResult, error) {
	var result RefreshResult
	if err := c.do(ctx, http.MethodPost, "/stocks/refresh", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetStatus fetches backend freshness and article totals.
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.do(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetStocks fetches the quote list for the given market view.
func (c *Client) GetStocks(ctx context.Context, view StockView) ([]Stock, error) {
	var stocks []Stock
	if err := c.do(ctx, http.MethodGet, view.Path(), nil, &stocks); err != nil {
		return nil, err
	}
	return stocks, nil
}
