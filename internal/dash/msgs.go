package dash

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"catalyst/internal/api"
	"catalyst/internal/store"
)

// Messages.

// tickMsg drives the periodic re-render that keeps relative timestamps fresh.
type tickMsg time.Time

// initFetchMsg kicks off the startup fetches once the program loop is running.
type initFetchMsg struct{}

// autoRefreshMsg is sent by the Scheduler each time the refresh interval
// elapses. It goes through the same path as pressing r.
type autoRefreshMsg struct{}

// articlesMsg carries the outcome of an article list fetch. seq is the fetch
// sequence captured when the request was issued; a response whose seq no
// longer matches the model's counter is stale and its data is dropped.
// refresh marks reloads that are part of a backend refresh join.
type articlesMsg struct {
	seq        uint64
	articles   []api.Article
	fromSearch bool
	refresh    bool
	err        error
}

// stocksMsg carries the outcome of a quote list fetch for one market view.
type stocksMsg struct {
	seq     uint64
	view    api.StockView
	stocks  []api.Stock
	refresh bool
	err     error
}

// statusMsg carries the backend ingest status.
type statusMsg struct {
	seq     uint64
	status  *api.Status
	refresh bool
	err     error
}

// categoriesMsg carries the live category list.
type categoriesMsg struct {
	seq        uint64
	categories []string
	err        error
}

// refreshTarget names the resource a backend refresh recomputes.
type refreshTarget int

const (
	refreshNews refreshTarget = iota
	refreshStocks
)

// refreshDoneMsg reports the backend refresh trigger completing, success or
// not. Either way the target resource and the status are reloaded afterwards.
type refreshDoneMsg struct {
	target refreshTarget
	result *api.RefreshResult
	err    error
}

type bookmarksMsg struct {
	bookmarks []store.Bookmark
	err       error
}

type bookmarkToggledMsg struct {
	articleID string
	saved     bool
	err       error
}

// bookmarkOpenedMsg carries a bookmark lookup: the live article when the
// backend still has it, or notFound when it has aged out of the backend's
// window.
type bookmarkOpenedMsg struct {
	articleID string
	article   *api.Article
	notFound  bool
	err       error
}

type bookmarkStaleMarkedMsg struct {
	articleID string
	err       error
}

type clipboardMsg struct {
	err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
