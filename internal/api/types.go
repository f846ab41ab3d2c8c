// Package api provides the REST client for the catalyst news backend. The
// backend is treated as a black box: the client decodes its JSON payloads 1:1
// and performs no caching or retries of its own.
package api

import "time"

// Article is a single news article as served by the backend.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Keywords    []string  `json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stock is a single quote row for the market panel.
type Stock struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        float64   `json:"volume"`
	MarketCap     float64   `json:"market_cap"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Info is the root endpoint response, used as a startup reachability probe.
type Info struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Status reports backend freshness: aggregate counters, per-category article
// totals, and short top-mover lists. The update timestamps are the zero time
// when the backend has never refreshed that side.
type Status struct {
	TotalArticles      int            `json:"total_articles"`
	TotalStocks        int            `json:"total_stocks"`
	ArticlesByCategory map[string]int `json:"articles_by_category"`
	LastNewsUpdate     time.Time      `json:"last_news_update"`
	LastStockUpdate    time.Time      `json:"last_stock_update"`
	TopGainers         []Stock        `json:"top_gainers"`
	TopLosers          []Stock        `json:"top_losers"`
}

// RefreshResult is the response to a refresh trigger. The stock refresh only
// fills Message.
type RefreshResult struct {
	Message      string    `json:"message"`
	TotalFetched int       `json:"total_fetched"`
	LastUpdate   time.Time `json:"last_update"`
}

// SearchRequest is the body of a search call. A nil Category searches across
// all categories.
type SearchRequest struct {
	Query    string  `json:"query"`
	Category *string `json:"category"`
	Limit    int     `json:"limit"`
}

// categoriesResponse wraps the category list endpoint.
type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// StockView selects which market list to fetch.
type StockView string

const (
	StockViewAll     StockView = "all"
	StockViewGainers StockView = "gainers"
	StockViewLosers  StockView = "losers"
)

// Path returns the endpoint path serving this view.
func (v StockView) Path() string {
	switch v {
	case StockViewGainers:
		return "/stocks/gainers"
	case StockViewLosers:
		return "/stocks/losers"
	default:
		return "/stocks"
	}
}
