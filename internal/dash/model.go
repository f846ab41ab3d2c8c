// Package dash implements the terminal dashboard: tabbed news, market and
// bookmark views over the backend API. Fetches are fenced with per-resource
// sequence counters so a slow response can never overwrite a newer one, and
// fetch failures keep the last good data on screen.
package dash

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"catalyst/internal/api"
	"catalyst/internal/store"
)

// DefaultCategories is the canonical category list, used when the backend's
// category endpoint cannot be reached at startup.
var DefaultCategories = []string{
	"Academic Research",
	"Industry Updates",
	"Early Discovery",
	"Clinical Trials",
	"Drug Modalities",
	"Healthcare & Policy",
}

type tab int

const (
	tabNews tab = iota
	tabStocks
	tabBookmarks
	tabCount
)

func (t tab) label() string {
	switch t {
	case tabNews:
		return "News"
	case tabStocks:
		return "Stocks"
	case tabBookmarks:
		return "Bookmarks"
	}
	return ""
}

// Store is the client-local persistence the dashboard reads and writes.
// Nothing here touches the backend.
type Store interface {
	store.PreferenceStore
	store.BookmarkStore
}

// Model.
type Model struct {
	client *api.Client
	store  Store
	logger *slog.Logger

	// Layout.
	width    int
	height   int
	ready    bool
	viewport viewport.Model
	spinner  spinner.Model

	// View state.
	tab         tab
	categories  []string
	categoryIdx int // 0 selects all categories
	selected    int
	detail      *api.Article

	// Search. searchInput is the text being typed; searchQuery is the
	// committed query backing the current list.
	searchActive bool
	searchInput  string
	searchQuery  string
	searchMode   bool

	// Data.
	articles  []api.Article
	stocks    []api.Stock
	stockView api.StockView
	status    *api.Status
	bookmarks []store.Bookmark

	// Fetch coordination. Each counter is bumped when a fetch is issued and
	// the value rides along in the result message; only a matching response
	// may touch the data or clear the loading flag.
	newsSeq           uint64
	stocksSeq         uint64
	statusSeq         uint64
	categoriesSeq     uint64
	loadingNews       bool
	loadingStocks     bool
	loadingStatus     bool
	loadingCategories bool
	refreshing        bool
	refreshJoin       int
}

// New builds the dashboard model. categories may be empty, in which case the
// built-in list is used. prefs, when non-nil, restores the view state from
// the previous session.
func New(client *api.Client, st Store, logger *slog.Logger, categories []string, prefs *store.Preferences) Model {
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	m := Model{
		client:     client,
		store:      st,
		logger:     logger,
		categories: categories,
		stockView:  api.StockViewAll,
		spinner:    sp,
	}
	if prefs != nil {
		m.applyPreferences(prefs)
	}
	return m
}

func (m *Model) applyPreferences(p *store.Preferences) {
	for i, c := range m.categories {
		if c == p.Category {
			m.categoryIdx = i + 1
			break
		}
	}
	switch p.Tab {
	case "stocks":
		m.tab = tabStocks
	case "bookmarks":
		m.tab = tabBookmarks
	}
	switch api.StockView(p.StockView) {
	case api.StockViewGainers:
		m.stockView = api.StockViewGainers
	case api.StockViewLosers:
		m.stockView = api.StockViewLosers
	}
}

// Preferences captures the current view state for persistence at exit.
func (m Model) Preferences() *store.Preferences {
	p := &store.Preferences{
		Tab:       "news",
		StockView: string(m.stockView),
	}
	if m.categoryIdx > 0 && m.categoryIdx <= len(m.categories) {
		p.Category = m.categories[m.categoryIdx-1]
	}
	switch m.tab {
	case tabStocks:
		p.Tab = "stocks"
	case tabBookmarks:
		p.Tab = "bookmarks"
	}
	return p
}

// currentCategory returns the active category filter, empty for all.
func (m *Model) currentCategory() string {
	if m.categoryIdx == 0 || m.categoryIdx > len(m.categories) {
		return ""
	}
	return m.categories[m.categoryIdx-1]
}

func (m *Model) isBookmarked(articleID string) bool {
	for _, b := range m.bookmarks {
		if b.ArticleID == articleID {
			return true
		}
	}
	return false
}

func (m *Model) selectedArticle() *api.Article {
	if m.selected < 0 || m.selected >= len(m.articles) {
		return nil
	}
	a := m.articles[m.selected]
	return &a
}

func (m *Model) selectedBookmark() *store.Bookmark {
	if m.selected < 0 || m.selected >= len(m.bookmarks) {
		return nil
	}
	b := m.bookmarks[m.selected]
	return &b
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
		func() tea.Msg { return initFetchMsg{} },
	)
}
