// One-shot tool: snapshot the backend's current articles and quotes into the
// local parquet archive. The backend only keeps a rolling window of recent
// articles, so running this daily (cron or by hand) accumulates history the
// dashboard's backend will have long forgotten.
//
// Usage:
//
//	go build -o bin/catalyst-archive ./cmd/catalyst-archive/
//	bin/catalyst-archive [-config config/catalyst.yaml] [-date 2026-08-25]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"catalyst/internal/api"
	"catalyst/internal/archive"
	"catalyst/internal/config"
	"catalyst/internal/dash"
	"catalyst/internal/util"
)

func main() {
	defaultCfg := "config/catalyst.yaml"
	if p := os.Getenv("CATALYST_CONFIG"); p != "" {
		defaultCfg = p
	}
	configPath := flag.String("config", defaultCfg, "path to config file")
	date := flag.String("date", time.Now().Format("2006-01-02"), "snapshot day (YYYY-MM-DD)")
	flag.Parse()

	day, err := time.Parse("2006-01-02", *date)
	if err != nil {
		log.Fatalf("invalid -date %q: %v", *date, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(os.Stdout, cfg.Logging.Level)
	util.SetDefault(logger)

	client := api.NewClient(api.ClientOpts{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.APITimeout(),
		// Snapshots want the deepest page the backend serves, not the
		// dashboard's page size.
		PageLimit:  100,
		RatePerSec: cfg.API.RatePerSec,
		RateBurst:  cfg.API.RateBurst,
	})
	arch := archive.New(cfg.Storage.DataDir)
	ctx := context.Background()

	var categories []string
	err = util.Retry(ctx, 3, 2*time.Second, func() error {
		var err error
		categories, err = client.GetCategories(ctx)
		return err
	})
	if err != nil {
		logger.Warn("loading categories, using built-in list", "error", err)
		categories = dash.DefaultCategories
	}

	// One fetch across all categories, then one per category. The archive
	// merges by article id, so the overlap is harmless.
	var articles []api.Article
	for _, cat := range append([]string{""}, categories...) {
		var batch []api.Article
		err := util.Retry(ctx, 3, 2*time.Second, func() error {
			var err error
			batch, err = client.GetArticles(ctx, cat)
			return err
		})
		if err != nil {
			logger.Error("fetching articles", "category", cat, "error", err)
			continue
		}
		articles = append(articles, batch...)
	}
	if len(articles) > 0 {
		if err := arch.WriteArticles(day, articles); err != nil {
			log.Fatalf("writing article snapshot: %v", err)
		}
	}
	logger.Info("article snapshot written", "date", *date, "fetched", len(articles))

	var stocks []api.Stock
	for _, view := range []api.StockView{api.StockViewAll, api.StockViewGainers, api.StockViewLosers} {
		var batch []api.Stock
		err := util.Retry(ctx, 3, 2*time.Second, func() error {
			var err error
			batch, err = client.GetStocks(ctx, view)
			return err
		})
		if err != nil {
			logger.Error("fetching stocks", "view", string(view), "error", err)
			continue
		}
		stocks = append(stocks, batch...)
	}
	if len(stocks) > 0 {
		if err := arch.WriteStocks(day, stocks); err != nil {
			log.Fatalf("writing stock snapshot: %v", err)
		}
	}
	logger.Info("stock snapshot written", "date", *date, "fetched", len(stocks))

	if status, err := client.GetStatus(ctx); err == nil {
		logger.Info("backend status", "total_articles", status.TotalArticles, "last_news_update", status.LastNewsUpdate)
	}

	days, err := arch.ListDays()
	if err != nil {
		logger.Warn("listing archive days", "error", err)
		return
	}
	logger.Info("archive summary", "days", len(days))
}
