package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient starts a stub backend and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOpts{
		BaseURL:    srv.URL,
		RatePerSec: 1000,
		RateBurst:  1000,
	})
}

func TestGetInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/")
		}
		json.NewEncoder(w).Encode(Info{Message: "Biotech News API", Version: "2.0.0"})
	})

	info, err := client.GetInfo(context.Background())
	if err != nil {
		t.Fatalf("GetInfo() returned error: %v", err)
	}
	if info.Version != "2.0.0" {
		t.Errorf("Version = %q, want %q", info.Version, "2.0.0")
	}
}

func TestGetCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/categories" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/categories")
		}
		w.Write([]byte(`{"categories":["Clinical Trials","Early Discovery"]}`))
	})

	cats, err := client.GetCategories(context.Background())
	if err != nil {
		t.Fatalf("GetCategories() returned error: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Clinical Trials" {
		t.Errorf("GetCategories() = %v, want two categories starting with Clinical Trials", cats)
	}
}

func TestGetArticles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/articles" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/articles")
		}
		if got := r.URL.Query().Get("category"); got != "Clinical Trials" {
			t.Errorf("category param = %q, want %q", got, "Clinical Trials")
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit param = %q, want %q", got, "20")
		}
		w.Write([]byte(`[
			{"id":"a1","title":"Phase 3 readout","category":"Clinical Trials",
			 "source":"Endpoints","published_at":"2026-08-24T09:30:00Z","keywords":["oncology"]},
			{"id":"a2","title":"FDA filing","category":"Clinical Trials",
			 "source":"Fierce","published_at":"2026-08-24T08:00:00Z","keywords":[]}
		]`))
	})

	articles, err := client.GetArticles(context.Background(), "Clinical Trials")
	if err != nil {
		t.Fatalf("GetArticles() returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("GetArticles() returned %d articles, want 2", len(articles))
	}
	if articles[0].ID != "a1" {
		t.Errorf("articles[0].ID = %q, want %q", articles[0].ID, "a1")
	}
	want := time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC)
	if !articles[0].PublishedAt.Equal(want) {
		t.Errorf("articles[0].PublishedAt = %v, want %v", articles[0].PublishedAt, want)
	}
}

func TestGetArticlesAllCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("category") {
			t.Errorf("category param present (%q), want absent", r.URL.Query().Get("category"))
		}
		w.Write([]byte(`[]`))
	})

	if _, err := client.GetArticles(context.Background(), ""); err != nil {
		t.Fatalf("GetArticles() returned error: %v", err)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Article not found"}`, http.StatusNotFound)
	})

	_, err := client.GetArticle(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetArticle() error = %v, want ErrNotFound", err)
	}
}

func TestSearchPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/api/search" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/search")
		}
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding search body: %v", err)
		}
		if req.Query != "CRISPR" {
			t.Errorf("Query = %q, want %q", req.Query, "CRISPR")
		}
		if req.Category != nil {
			t.Errorf("Category = %v, want nil for all-category search", *req.Category)
		}
		if req.Limit != SearchLimit {
			t.Errorf("Limit = %d, want %d", req.Limit, SearchLimit)
		}
		w.Write([]byte(`[]`))
	})

	if _, err := client.Search(context.Background(), "CRISPR", ""); err != nil {
		t.Fatalf("Search() returned error: %v", err)
	}
}

func TestSearchWithCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding search body: %v", err)
		}
		if req.Category == nil || *req.Category != "Drug Modalities" {
			t.Errorf("Category = %v, want Drug Modalities", req.Category)
		}
		w.Write([]byte(`[{"id":"s1","title":"mRNA advances"}]`))
	})

	articles, err := client.Search(context.Background(), "mRNA", "Drug Modalities")
	if err != nil {
		t.Fatalf("Search() returned error: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != "s1" {
		t.Errorf("Search() = %+v, want one article with ID s1", articles)
	}
}

func TestRefreshArticles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/api/articles/refresh" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/articles/refresh")
		}
		w.Write([]byte(`{"message":"Refreshed 12 articles","total_fetched":12,"last_update":"2026-08-25T10:00:00Z"}`))
	})

	result, err := client.RefreshArticles(context.Background())
	if err != nil {
		t.Fatalf("RefreshArticles() returned error: %v", err)
	}
	if result.TotalFetched != 12 {
		t.Errorf("TotalFetched = %d, want 12", result.TotalFetched)
	}
}

func TestRefreshStocks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/api/stocks/refresh" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/stocks/refresh")
		}
		w.Write([]byte(`{"message":"Stock data refreshed"}`))
	})

	result, err := client.RefreshStocks(context.Background())
	if err != nil {
		t.Fatalf("RefreshStocks() returned error: %v", err)
	}
	if result.Message != "Stock data refreshed" {
		t.Errorf("Message = %q, want %q", result.Message, "Stock data refreshed")
	}
}

func TestGetStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/status")
		}
		w.Write([]byte(`{
			"total_articles":120,"total_stocks":45,
			"articles_by_category":{"Clinical Trials":40},
			"last_news_update":"2026-08-25T10:00:00Z",
			"last_stock_update":"2026-08-25T10:05:00Z",
			"top_gainers":[{"symbol":"CRSP","price":55.2,"change_percent":8.66}],
			"top_losers":[{"symbol":"SRPT","price":12.9,"change_percent":-19.88}]
		}`))
	})

	status, err := client.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus() returned error: %v", err)
	}
	if status.TotalArticles != 120 || status.TotalStocks != 45 {
		t.Errorf("totals = %d/%d, want 120/45", status.TotalArticles, status.TotalStocks)
	}
	if status.ArticlesByCategory["Clinical Trials"] != 40 {
		t.Errorf("ArticlesByCategory = %v, want Clinical Trials at 40", status.ArticlesByCategory)
	}
	if len(status.TopGainers) != 1 || status.TopGainers[0].Symbol != "CRSP" {
		t.Errorf("TopGainers = %+v, want one CRSP row", status.TopGainers)
	}
}

func TestGetStatusNeverRefreshed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"last_news_update":null,"last_stock_update":null,"total_articles":0,"articles_by_category":{}}`))
	})

	status, err := client.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("GetStatus() returned error: %v", err)
	}
	if !status.LastNewsUpdate.IsZero() {
		t.Errorf("LastNewsUpdate = %v, want zero time for null", status.LastNewsUpdate)
	}
	if !status.LastStockUpdate.IsZero() {
		t.Errorf("LastStockUpdate = %v, want zero time for null", status.LastStockUpdate)
	}
}

func TestGetStocksPaths(t *testing.T) {
	tests := []struct {
		view StockView
		want string
	}{
		{StockViewAll, "/api/stocks"},
		{StockViewGainers, "/api/stocks/gainers"},
		{StockViewLosers, "/api/stocks/losers"},
	}

	for _, tt := range tests {
		var gotPath string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`[{"symbol":"VRTX","name":"Vertex","price":402.15,"change":3.2,"change_percent":0.8}]`))
		})

		stocks, err := client.GetStocks(context.Background(), tt.view)
		if err != nil {
			t.Fatalf("GetStocks(%s) returned error: %v", tt.view, err)
		}
		if gotPath != tt.want {
			t.Errorf("GetStocks(%s) hit %q, want %q", tt.view, gotPath, tt.want)
		}
		if len(stocks) != 1 || stocks[0].Symbol != "VRTX" {
			t.Errorf("GetStocks(%s) = %+v, want one VRTX row", tt.view, stocks)
		}
	}
}

func TestErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
	})

	_, err := client.GetArticles(context.Background(), "")
	if err == nil {
		t.Fatal("GetArticles() = nil error for 500 response")
	}
	if !strings.Contains(err.Error(), "API error 500") {
		t.Errorf("error = %q, want it to mention API error 500", err)
	}
}
