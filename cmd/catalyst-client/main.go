// Command catalyst-client is the terminal dashboard for the catalyst news
// backend: biotech news by category with keyword search, sector stock
// quotes, and locally saved bookmarks. The backend is polled over REST; a
// background scheduler triggers periodic refreshes when enabled in config.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"catalyst/internal/api"
	"catalyst/internal/config"
	"catalyst/internal/dash"
	"catalyst/internal/store"
	"catalyst/internal/util"
)

func main() {
	defaultCfg := "config/catalyst.yaml"
	if p := os.Getenv("CATALYST_CONFIG"); p != "" {
		defaultCfg = p
	}
	configPath := flag.String("config", defaultCfg, "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal is owned by the TUI, so logs go to a file.
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = fmt.Sprintf("/tmp/catalyst-client-%s.log", time.Now().Format("2006-01-02"))
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(logFile, cfg.Logging.Level)
	util.SetDefault(logger)

	dbPath := cfg.DatabasePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating data dir: %v\n", err)
		os.Exit(1)
	}
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	client := api.NewClient(api.ClientOpts{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.APITimeout(),
		PageLimit:  cfg.API.PageLimit,
		RatePerSec: cfg.API.RatePerSec,
		RateBurst:  cfg.API.RateBurst,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout())
	if info, err := client.GetInfo(ctx); err != nil {
		logger.Warn("backend not reachable at startup", "url", cfg.API.BaseURL, "error", err)
	} else {
		logger.Info("backend reachable", "version", info.Version)
	}
	cancel()

	prefs, err := st.GetPreferences(context.Background())
	if err != nil {
		logger.Warn("loading preferences", "error", err)
	}

	model := dash.New(client, st, logger, nil, prefs)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cfg.Refresh.Auto {
		sched := dash.NewScheduler(cfg.RefreshInterval(), p.Send, logger)
		sched.Start()
		defer sched.Stop()
	}

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if m, ok := final.(dash.Model); ok {
		if err := st.SavePreferences(context.Background(), m.Preferences()); err != nil {
			logger.Warn("saving preferences", "error", err)
		}
	}
}
