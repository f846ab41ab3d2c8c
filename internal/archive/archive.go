// Package archive writes daily Parquet snapshots of articles and stock
// quotes pulled from the backend. The backend only keeps a rolling window of
// recent articles, so the snapshots are what preserves history on disk.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"catalyst/internal/api"
)

// Archive reads and writes snapshot files rooted at a data directory.
type Archive struct {
	DataDir string
}

// New creates an Archive rooted at the given data directory.
func New(dataDir string) *Archive {
	return &Archive{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// ArticleRecord is the Parquet schema for archived articles.
type ArticleRecord struct {
	ID          string   `parquet:"id"`
	Title       string   `parquet:"title"`
	Summary     string   `parquet:"summary"`
	Category    string   `parquet:"category"`
	Source      string   `parquet:"source"`
	URL         string   `parquet:"url"`
	PublishedAt int64    `parquet:"published_at,timestamp(millisecond)"` // Unix ms
	Keywords    []string `parquet:"keywords"`
}

// StockRecord is the Parquet schema for archived stock quotes.
type StockRecord struct {
	Symbol        string  `parquet:"symbol"`
	Name          string  `parquet:"name"`
	Price         float64 `parquet:"price"`
	Change        float64 `parquet:"change"`
	ChangePercent float64 `parquet:"change_percent"`
	Volume        float64 `parquet:"volume"`
	MarketCap     float64 `parquet:"market_cap"`
	UpdatedAt     int64   `parquet:"updated_at,timestamp(millisecond)"` // Unix ms
}

// ---------------------------------------------------------------------------
// Articles
// ---------------------------------------------------------------------------

// WriteArticles merges articles into the snapshot file for day. Articles
// already present are replaced by their incoming version, keyed by id.
func (a *Archive) WriteArticles(day time.Time, articles []api.Article) error {
	if len(articles) == 0 {
		return nil
	}

	records := make([]ArticleRecord, 0, len(articles))
	for _, art := range articles {
		records = append(records, ArticleRecord{
			ID:          art.ID,
			Title:       art.Title,
			Summary:     art.Summary,
			Category:    art.Category,
			Source:      art.Source,
			URL:         art.URL,
			PublishedAt: art.PublishedAt.UnixMilli(),
			Keywords:    art.Keywords,
		})
	}

	path := a.articlePath(day)
	existing, _ := readParquetFile[ArticleRecord](path)
	merged := mergeArticleRecords(existing, records)

	if err := writeParquetFile(path, merged); err != nil {
		return fmt.Errorf("writing article snapshot for %s: %w", day.Format("2006-01-02"), err)
	}
	return nil
}

// ReadArticles reads the article snapshot for day. A missing snapshot yields
// an empty slice.
func (a *Archive) ReadArticles(day time.Time) ([]api.Article, error) {
	records, err := readParquetFile[ArticleRecord](a.articlePath(day))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	articles := make([]api.Article, 0, len(records))
	for _, r := range records {
		articles = append(articles, api.Article{
			ID:          r.ID,
			Title:       r.Title,
			Summary:     r.Summary,
			Category:    r.Category,
			Source:      r.Source,
			URL:         r.URL,
			PublishedAt: time.UnixMilli(r.PublishedAt).UTC(),
			Keywords:    r.Keywords,
		})
	}
	return articles, nil
}

// ---------------------------------------------------------------------------
// Stocks
// ---------------------------------------------------------------------------

// WriteStocks merges quotes into the snapshot file for day, keyed by symbol.
// The market views overlap, so writing all three for the same day yields one
// row per symbol.
func (a *Archive) WriteStocks(day time.Time, stocks []api.Stock) error {
	if len(stocks) == 0 {
		return nil
	}

	records := make([]StockRecord, 0, len(stocks))
	for _, s := range stocks {
		records = append(records, StockRecord{
			Symbol:        s.Symbol,
			Name:          s.Name,
			Price:         s.Price,
			Change:        s.Change,
			ChangePercent: s.ChangePercent,
			Volume:        s.Volume,
			MarketCap:     s.MarketCap,
			UpdatedAt:     s.UpdatedAt.UnixMilli(),
		})
	}

	path := a.stockPath(day)
	existing, _ := readParquetFile[StockRecord](path)
	merged := mergeStockRecords(existing, records)

	if err := writeParquetFile(path, merged); err != nil {
		return fmt.Errorf("writing stock snapshot for %s: %w", day.Format("2006-01-02"), err)
	}
	return nil
}

// ReadStocks reads the stock snapshot for day. A missing snapshot yields an
// empty slice.
func (a *Archive) ReadStocks(day time.Time) ([]api.Stock, error) {
	records, err := readParquetFile[StockRecord](a.stockPath(day))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	stocks := make([]api.Stock, 0, len(records))
	for _, r := range records {
		stocks = append(stocks, api.Stock{
			Symbol:        r.Symbol,
			Name:          r.Name,
			Price:         r.Price,
			Change:        r.Change,
			ChangePercent: r.ChangePercent,
			Volume:        r.Volume,
			MarketCap:     r.MarketCap,
			UpdatedAt:     time.UnixMilli(r.UpdatedAt).UTC(),
		})
	}
	return stocks, nil
}

// ListDays lists the dates that have an article snapshot, sorted ascending.
func (a *Archive) ListDays() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.DataDir, "news"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var days []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".parquet") {
			continue
		}
		days = append(days, strings.TrimSuffix(name, ".parquet"))
	}
	sort.Strings(days)
	return days, nil
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

// articlePath returns the filesystem path for an article snapshot.
// Layout: <dataDir>/news/<YYYY-MM-DD>.parquet
func (a *Archive) articlePath(day time.Time) string {
	return filepath.Join(a.DataDir, "news", day.Format("2006-01-02")+".parquet")
}

// stockPath returns the filesystem path for a stock snapshot.
// Layout: <dataDir>/stocks/<YYYY-MM-DD>.parquet
func (a *Archive) stockPath(day time.Time) string {
	return filepath.Join(a.DataDir, "stocks", day.Format("2006-01-02")+".parquet")
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeArticleRecords deduplicates article records by id, preferring incoming
// records over existing ones. Results are sorted by published time, newest
// first, matching the order the dashboard shows.
func mergeArticleRecords(existing, incoming []ArticleRecord) []ArticleRecord {
	seen := make(map[string]ArticleRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.ID] = r
	}
	for _, r := range incoming {
		seen[r.ID] = r
	}

	merged := make([]ArticleRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].PublishedAt != merged[j].PublishedAt {
			return merged[i].PublishedAt > merged[j].PublishedAt
		}
		return merged[i].ID < merged[j].ID
	})
	return merged
}

// mergeStockRecords deduplicates stock records by symbol, preferring incoming
// records over existing ones. Results are sorted by symbol.
func mergeStockRecords(existing, incoming []StockRecord) []StockRecord {
	seen := make(map[string]StockRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Symbol] = r
	}
	for _, r := range incoming {
		seen[r.Symbol] = r
	}

	merged := make([]StockRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Symbol < merged[j].Symbol
	})
	return merged
}
