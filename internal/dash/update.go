package dash

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"catalyst/internal/api"
	"catalyst/internal/store"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 3 // header, tab bar, footer
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case initFetchMsg:
		cmds := []tea.Cmd{m.fetchCategories(), m.fetchArticles(false), m.fetchStatus(false), m.loadBookmarks()}
		if m.tab == tabStocks {
			cmds = append(cmds, m.fetchStocks(false))
		}
		return m, tea.Batch(cmds...)

	case tickMsg:
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}
		return m, tickCmd()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ready && (m.loadingNews || m.loadingStocks || m.refreshing) {
			m.viewport.SetContent(m.renderContent())
		}
		return m, cmd

	case autoRefreshMsg:
		m.logger.Debug("auto-refresh triggered")
		return m, m.startRefresh()

	case articlesMsg:
		return m.handleArticles(msg)

	case stocksMsg:
		return m.handleStocks(msg)

	case statusMsg:
		return m.handleStatus(msg)

	case categoriesMsg:
		return m.handleCategories(msg)

	case refreshDoneMsg:
		switch {
		case msg.err != nil:
			m.logger.Error("backend refresh failed", "error", msg.err)
		case msg.result.LastUpdate.IsZero():
			m.logger.Info("backend refreshed", "message", msg.result.Message)
		default:
			m.logger.Info("backend refreshed", "fetched", msg.result.TotalFetched, "message", msg.result.Message, "last_update", msg.result.LastUpdate)
		}
		// Reload the target resource and the status either way so the view
		// reflects whatever the backend has now. Both reloads count against
		// the join before refreshing clears.
		m.refreshJoin = 2
		reload := m.fetchArticles(true)
		if msg.target == refreshStocks {
			reload = m.fetchStocks(true)
		}
		return m, tea.Batch(reload, m.fetchStatus(true))

	case bookmarksMsg:
		if msg.err != nil {
			m.logger.Error("loading bookmarks", "error", msg.err)
			return m, nil
		}
		m.bookmarks = msg.bookmarks
		if m.tab == tabBookmarks && m.selected >= len(m.bookmarks) {
			m.selected = 0
		}
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case bookmarkToggledMsg:
		if msg.err != nil {
			// Undo the optimistic list edit by reloading from the store.
			m.logger.Warn("bookmark write failed", "id", msg.articleID, "saved", msg.saved, "error", msg.err)
			return m, m.loadBookmarks()
		}
		return m, nil

	case bookmarkOpenedMsg:
		return m.handleBookmarkOpened(msg)

	case bookmarkStaleMarkedMsg:
		if msg.err != nil {
			m.logger.Warn("marking bookmark stale failed", "id", msg.articleID, "error", msg.err)
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard copy failed", "error", msg.err)
		}
		return m, nil
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// ---------------------------------------------------------------------------
// Key handling
// ---------------------------------------------------------------------------

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The search input captures all keys while active.
	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab", "shift+tab":
		if msg.String() == "tab" {
			m.tab = (m.tab + 1) % tabCount
		} else {
			m.tab = (m.tab + tabCount - 1) % tabCount
		}
		m.detail = nil
		m.selected = 0
		cmd := m.enterTabCmd()
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}
		return m, cmd

	case "r":
		cmd := m.startRefresh()
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}
		return m, cmd

	case "esc":
		switch {
		case m.detail != nil:
			m.detail = nil
			if m.ready {
				m.viewport.SetContent(m.renderContent())
				m.viewport.GotoTop()
			}
			return m, nil
		case m.tab == tabNews && (m.searchMode || m.searchQuery != ""):
			m.searchQuery = ""
			m.searchMode = false
			m.selected = 0
			cmd := m.fetchArticles(false)
			if m.ready {
				m.viewport.SetContent(m.renderContent())
			}
			return m, cmd
		}
		return m, nil
	}

	if m.detail != nil {
		switch msg.String() {
		case "c":
			return m, copyCmd(m.detail.URL)
		case "b":
			return m.toggleBookmark(*m.detail)
		}
		// Anything else scrolls the detail viewport below.
	} else {
		switch m.tab {
		case tabNews:
			switch msg.String() {
			case "/":
				m.searchActive = true
				m.searchInput = m.searchQuery
				if m.ready {
					m.viewport.SetContent(m.renderContent())
				}
				return m, nil
			case "left", "h":
				return m.shiftCategory(-1)
			case "right", "l":
				return m.shiftCategory(1)
			case "up", "k":
				return m.moveSelection(-1)
			case "down", "j":
				return m.moveSelection(1)
			case "enter":
				if a := m.selectedArticle(); a != nil {
					m.detail = a
					if m.ready {
						m.viewport.SetContent(m.renderContent())
						m.viewport.GotoTop()
					}
				}
				return m, nil
			case "b":
				if a := m.selectedArticle(); a != nil {
					return m.toggleBookmark(*a)
				}
				return m, nil
			case "c":
				if a := m.selectedArticle(); a != nil {
					return m, copyCmd(a.URL)
				}
				return m, nil
			}

		case tabStocks:
			switch msg.String() {
			case "a":
				return m.setStockView(api.StockViewAll)
			case "g":
				return m.setStockView(api.StockViewGainers)
			case "l":
				return m.setStockView(api.StockViewLosers)
			}

		case tabBookmarks:
			switch msg.String() {
			case "up", "k":
				return m.moveSelection(-1)
			case "down", "j":
				return m.moveSelection(1)
			case "enter":
				if b := m.selectedBookmark(); b != nil {
					return m, m.openBookmarkCmd(b.ArticleID)
				}
				return m, nil
			case "d":
				if b := m.selectedBookmark(); b != nil {
					return m.removeBookmark(b.ArticleID)
				}
				return m, nil
			case "c":
				if b := m.selectedBookmark(); b != nil {
					return m, copyCmd(b.URL)
				}
				return m, nil
			}
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "enter":
		// An empty or whitespace query commits back to plain browsing.
		m.searchActive = false
		m.searchQuery = strings.TrimSpace(m.searchInput)
		m.searchInput = ""
		m.selected = 0
		cmd = m.fetchArticles(false)
	case "esc":
		m.searchActive = false
		m.searchInput = ""
	case "backspace":
		if len(m.searchInput) > 0 {
			m.searchInput = m.searchInput[:len(m.searchInput)-1]
		}
	case "ctrl+v":
		if text, err := clipboard.ReadAll(); err == nil {
			m.searchInput += strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
		}
	default:
		if len(msg.String()) == 1 {
			char := msg.String()
			if char[0] >= 32 && char[0] <= 126 { // printable ASCII only
				m.searchInput += char
			}
		}
	}

	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
	return m, cmd
}

// shiftCategory moves the category cursor. Changing category always drops an
// active search back to plain browsing.
func (m Model) shiftCategory(delta int) (tea.Model, tea.Cmd) {
	n := len(m.categories) + 1 // the all-categories slot plus the backend list
	m.categoryIdx = (m.categoryIdx + delta + n) % n
	m.searchQuery = ""
	m.searchMode = false
	m.selected = 0
	cmd := m.fetchArticles(false)
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
	return m, cmd
}

// setStockView switches the market view and replaces the quote list from the
// matching endpoint.
func (m Model) setStockView(v api.StockView) (tea.Model, tea.Cmd) {
	if m.stockView == v && m.stocks != nil && !m.loadingStocks {
		return m, nil
	}
	m.stockView = v
	cmd := m.fetchStocks(false)
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
	return m, cmd
}

func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	var max int
	switch m.tab {
	case tabNews:
		max = len(m.articles)
	case tabBookmarks:
		max = len(m.bookmarks)
	}
	if max == 0 {
		return m, nil
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= max {
		m.selected = max - 1
	}
	if m.ready {
		m.viewport.SetContent(m.renderContent())
		m.ensureVisible()
	}
	return m, nil
}

// ensureVisible scrolls the viewport so the selected entry stays on screen.
func (m *Model) ensureVisible() {
	line := m.selectedLine()
	if line < 0 {
		return
	}
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line+1 >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line + 2 - m.viewport.Height)
	}
}

// selectedLine returns the first content line of the selected entry. Entries
// render as three lines each after the tab's header block.
func (m *Model) selectedLine() int {
	switch m.tab {
	case tabNews:
		if len(m.articles) == 0 {
			return -1
		}
		return m.newsHeaderLines() + m.selected*3
	case tabBookmarks:
		if len(m.bookmarks) == 0 {
			return -1
		}
		return bookmarkHeaderLines + m.selected*3
	}
	return -1
}

// enterTabCmd returns the fetch owed when switching onto the current tab.
func (m *Model) enterTabCmd() tea.Cmd {
	switch m.tab {
	case tabStocks:
		if m.stocks == nil && !m.loadingStocks {
			return m.fetchStocks(false)
		}
	case tabBookmarks:
		return m.loadBookmarks()
	}
	return nil
}

// ---------------------------------------------------------------------------
// Fetch commands
// ---------------------------------------------------------------------------

// fetchArticles issues the list fetch for the current category, or for the
// committed search query when there is one. The sequence captured here
// fences the response against newer fetches.
func (m *Model) fetchArticles(refresh bool) tea.Cmd {
	m.newsSeq++
	m.loadingNews = true

	seq := m.newsSeq
	client := m.client
	category := m.currentCategory()
	query := m.searchQuery

	if query == "" {
		return func() tea.Msg {
			articles, err := client.GetArticles(context.Background(), category)
			return articlesMsg{seq: seq, articles: articles, refresh: refresh, err: err}
		}
	}
	return func() tea.Msg {
		articles, err := client.Search(context.Background(), query, category)
		return articlesMsg{seq: seq, articles: articles, fromSearch: true, refresh: refresh, err: err}
	}
}

func (m *Model) fetchStocks(refresh bool) tea.Cmd {
	m.stocksSeq++
	m.loadingStocks = true

	seq := m.stocksSeq
	client := m.client
	view := m.stockView
	return func() tea.Msg {
		stocks, err := client.GetStocks(context.Background(), view)
		return stocksMsg{seq: seq, view: view, stocks: stocks, refresh: refresh, err: err}
	}
}

func (m *Model) fetchStatus(refresh bool) tea.Cmd {
	m.statusSeq++
	m.loadingStatus = true

	seq := m.statusSeq
	client := m.client
	return func() tea.Msg {
		status, err := client.GetStatus(context.Background())
		return statusMsg{seq: seq, status: status, refresh: refresh, err: err}
	}
}

func (m *Model) fetchCategories() tea.Cmd {
	m.categoriesSeq++
	m.loadingCategories = true

	seq := m.categoriesSeq
	client := m.client
	return func() tea.Msg {
		categories, err := client.GetCategories(context.Background())
		return categoriesMsg{seq: seq, categories: categories, err: err}
	}
}

// startRefresh asks the backend to recompute the active tab's resource,
// unless a refresh is already in flight. The bookmarks tab refreshes news,
// since bookmarks themselves are local.
func (m *Model) startRefresh() tea.Cmd {
	if m.refreshing {
		return nil
	}
	m.refreshing = true

	client := m.client
	if m.tab == tabStocks {
		return func() tea.Msg {
			result, err := client.RefreshStocks(context.Background())
			return refreshDoneMsg{target: refreshStocks, result: result, err: err}
		}
	}
	return func() tea.Msg {
		result, err := client.RefreshArticles(context.Background())
		return refreshDoneMsg{target: refreshNews, result: result, err: err}
	}
}

func (m *Model) loadBookmarks() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		bookmarks, err := st.ListBookmarks(context.Background())
		return bookmarksMsg{bookmarks: bookmarks, err: err}
	}
}

// openBookmarkCmd looks a bookmarked article up on the backend. Articles
// that have aged out of the backend's window come back notFound.
func (m *Model) openBookmarkCmd(articleID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		article, err := client.GetArticle(context.Background(), articleID)
		if errors.Is(err, api.ErrNotFound) {
			return bookmarkOpenedMsg{articleID: articleID, notFound: true}
		}
		if err != nil {
			return bookmarkOpenedMsg{articleID: articleID, err: err}
		}
		return bookmarkOpenedMsg{articleID: articleID, article: article}
	}
}

// copyCmd copies text to the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}

// ---------------------------------------------------------------------------
// Fetch results
// ---------------------------------------------------------------------------

// finishRefreshPart counts one refresh reload down. The join decrements even
// for responses that are later dropped as stale, so a superseded reload can
// never leave the refresh indicator stuck.
func (m *Model) finishRefreshPart() {
	if m.refreshJoin == 0 {
		return
	}
	m.refreshJoin--
	if m.refreshJoin == 0 {
		m.refreshing = false
	}
}

func (m Model) handleArticles(msg articlesMsg) (tea.Model, tea.Cmd) {
	if msg.refresh {
		m.finishRefreshPart()
	}
	if msg.seq != m.newsSeq {
		m.logger.Debug("dropping stale article response", "seq", msg.seq, "current", m.newsSeq)
		return m, nil
	}
	m.loadingNews = false

	if msg.err != nil {
		m.logger.Error("loading articles", "error", msg.err)
	} else {
		m.articles = msg.articles
		m.searchMode = msg.fromSearch
		if m.selected >= len(m.articles) {
			m.selected = 0
		}
	}
	if m.ready {
		m.viewport.SetContent(m.renderContent())
		if !msg.refresh {
			m.viewport.GotoTop()
		}
	}
	return m, nil
}

func (m Model) handleStocks(msg stocksMsg) (tea.Model, tea.Cmd) {
	if msg.refresh {
		m.finishRefreshPart()
	}
	if msg.seq != m.stocksSeq {
		m.logger.Debug("dropping stale stock response", "seq", msg.seq, "current", m.stocksSeq)
		return m, nil
	}
	m.loadingStocks = false

	if msg.err != nil {
		m.logger.Error("loading stocks", "view", string(msg.view), "error", msg.err)
	} else {
		m.stocks = msg.stocks
	}
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
	return m, nil
}

func (m Model) handleStatus(msg statusMsg) (tea.Model, tea.Cmd) {
	if msg.refresh {
		m.finishRefreshPart()
	}
	if msg.seq != m.statusSeq {
		m.logger.Debug("dropping stale status response", "seq", msg.seq, "current", m.statusSeq)
		return m, nil
	}
	m.loadingStatus = false

	if msg.err != nil {
		m.logger.Error("loading status", "error", msg.err)
	} else {
		m.status = msg.status
	}
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
	return m, nil
}

func (m Model) handleCategories(msg categoriesMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.categoriesSeq {
		return m, nil
	}
	m.loadingCategories = false

	if msg.err != nil {
		m.logger.Warn("loading categories, keeping built-in list", "error", msg.err)
		return m, nil
	}
	if len(msg.categories) == 0 {
		return m, nil
	}

	// Keep the cursor on the same category name across the swap; a name the
	// backend no longer serves falls back to the all view.
	current := m.currentCategory()
	m.categories = msg.categories
	m.categoryIdx = 0
	for i, c := range m.categories {
		if c == current {
			m.categoryIdx = i + 1
			break
		}
	}
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
	return m, nil
}

func (m Model) handleBookmarkOpened(msg bookmarkOpenedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.notFound:
		m.logger.Info("bookmarked article no longer on backend", "id", msg.articleID)
		for i := range m.bookmarks {
			if m.bookmarks[i].ArticleID == msg.articleID {
				m.bookmarks[i].Stale = true
			}
		}
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}
		st := m.store
		id := msg.articleID
		return m, func() tea.Msg {
			err := st.MarkBookmarkStale(context.Background(), id, true)
			return bookmarkStaleMarkedMsg{articleID: id, err: err}
		}
	case msg.err != nil:
		m.logger.Error("opening bookmark", "id", msg.articleID, "error", msg.err)
		return m, nil
	default:
		m.detail = msg.article
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}
		return m, nil
	}
}

// ---------------------------------------------------------------------------
// Bookmarks
// ---------------------------------------------------------------------------

// toggleBookmark saves or removes the bookmark for an article. The local
// list is updated optimistically and reloaded from the store if the write
// fails.
func (m Model) toggleBookmark(a api.Article) (tea.Model, tea.Cmd) {
	st := m.store
	if m.isBookmarked(a.ID) {
		return m.removeBookmark(a.ID)
	}

	b := store.Bookmark{
		ArticleID: a.ID,
		Title:     a.Title,
		Source:    a.Source,
		Category:  a.Category,
		URL:       a.URL,
		SavedAt:   time.Now().UTC(),
	}
	m.bookmarks = append([]store.Bookmark{b}, m.bookmarks...)
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
	return m, func() tea.Msg {
		err := st.SaveBookmark(context.Background(), &b)
		return bookmarkToggledMsg{articleID: b.ArticleID, saved: true, err: err}
	}
}

func (m Model) removeBookmark(articleID string) (tea.Model, tea.Cmd) {
	kept := m.bookmarks[:0:0]
	for _, b := range m.bookmarks {
		if b.ArticleID != articleID {
			kept = append(kept, b)
		}
	}
	m.bookmarks = kept
	if m.tab == tabBookmarks && m.selected >= len(m.bookmarks) && m.selected > 0 {
		m.selected = len(m.bookmarks) - 1
	}
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}

	st := m.store
	return m, func() tea.Msg {
		err := st.DeleteBookmark(context.Background(), articleID)
		return bookmarkToggledMsg{articleID: articleID, saved: false, err: err}
	}
}
