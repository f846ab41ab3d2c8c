package dash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"catalyst/internal/api"
	"catalyst/internal/format"
)

const bookmarkHeaderLines = 2

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	return m.renderHeader() + "\n" + m.renderTabBar() + "\n" + m.viewport.View() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	s := " Catalyst"
	if m.status != nil {
		s += fmt.Sprintf(" │ %d articles", m.status.TotalArticles)
		if m.status.LastNewsUpdate.IsZero() {
			s += " │ backend never refreshed"
		} else {
			s += " │ updated " + format.TimeSince(m.status.LastNewsUpdate)
		}
	}
	switch {
	case m.refreshing:
		s += " │ refreshing..."
	case m.loadingNews || m.loadingStocks || m.loadingStatus || m.loadingCategories:
		s += " │ loading..."
	}
	return headerBarStyle.Render(padOrTrunc(s, m.width))
}

func (m Model) renderTabBar() string {
	parts := make([]string, 0, int(tabCount))
	for t := tabNews; t < tabCount; t++ {
		label := " " + t.label() + " "
		if t == m.tab {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabIdleStyle.Render(label))
		}
	}
	return " " + strings.Join(parts, " ")
}

func (m Model) renderFooter() string {
	var keys string
	switch {
	case m.searchActive:
		keys = "type query │ enter search │ esc cancel"
	case m.detail != nil:
		keys = "↑/↓ scroll │ esc back │ b save │ c copy link │ q quit"
	case m.tab == tabStocks:
		keys = "tab switch │ a/g/l view │ r refresh │ q quit"
	case m.tab == tabBookmarks:
		keys = "tab switch │ enter open │ d delete │ c copy link │ q quit"
	default:
		keys = "tab switch │ ←/→ category │ / search │ enter open │ b save │ r refresh │ q quit"
	}
	left := " " + keys
	pct := fmt.Sprintf("%3.f%% ", m.viewport.ScrollPercent()*100)
	gap := m.width - len([]rune(left)) - len([]rune(pct))
	if gap < 1 {
		return footerBarStyle.Render(padOrTrunc(left, m.width))
	}
	return footerBarStyle.Render(left + strings.Repeat(" ", gap) + pct)
}

// ---------------------------------------------------------------------------
// Content
// ---------------------------------------------------------------------------

func (m Model) renderContent() string {
	if m.detail != nil {
		return m.renderDetail()
	}
	switch m.tab {
	case tabStocks:
		return m.renderStocks()
	case tabBookmarks:
		return m.renderBookmarks()
	default:
		return m.renderNews()
	}
}

// newsHeaderLines is the number of lines before the first article row,
// needed to keep the selection scrolled into view.
func (m *Model) newsHeaderLines() int {
	if m.searchActive || m.searchMode {
		return 3
	}
	return 2
}

func (m Model) renderNews() string {
	var b strings.Builder

	cat := m.currentCategory()
	label := "All"
	catSty := titleStyle
	if cat != "" {
		label = cat
		catSty = categoryStyle(cat).Bold(true)
	}
	count := ""
	if m.status != nil {
		n := m.status.TotalArticles
		if cat != "" {
			n = m.status.ArticlesByCategory[cat]
		}
		count = dimStyle.Render(fmt.Sprintf("  %d on backend", n))
	}
	b.WriteString(fmt.Sprintf(" %s %s %s%s\n",
		dimStyle.Render("<"), catSty.Render(label), dimStyle.Render(">"), count))

	switch {
	case m.searchActive:
		b.WriteString(fmt.Sprintf(" %s %s%s\n",
			searchStyle.Render("Search:"), m.searchInput, searchStyle.Render("_")))
	case m.searchMode:
		b.WriteString(fmt.Sprintf(" %s %q  %s\n",
			searchStyle.Render("Search:"), m.searchQuery,
			dimStyle.Render(fmt.Sprintf("%d results, esc clears", len(m.articles)))))
	}
	b.WriteString("\n")

	if len(m.articles) == 0 {
		switch {
		case m.loadingNews:
			b.WriteString("  " + m.spinner.View() + dimStyle.Render("loading articles...") + "\n")
		case m.searchMode:
			b.WriteString(dimStyle.Render("  (no results)") + "\n")
		default:
			b.WriteString(dimStyle.Render("  (no articles)") + "\n")
		}
		return b.String()
	}

	tw := m.width - 6
	for i, a := range m.articles {
		mark := " "
		if m.isBookmarked(a.ID) {
			mark = savedMarkStyle.Render("*")
		}
		b.WriteString(fmt.Sprintf(" %s %s\n",
			mark, hlStyle(titleStyle, i == m.selected).Render(truncate(a.Title, tw))))
		meta := fmt.Sprintf("• %s • %s", a.Source, format.TimeSince(a.PublishedAt))
		b.WriteString(fmt.Sprintf("   %s %s\n",
			categoryStyle(a.Category).Render(a.Category), dimStyle.Render(meta)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStocks() string {
	var b strings.Builder

	views := []struct {
		view  api.StockView
		label string
	}{
		{api.StockViewAll, "All"},
		{api.StockViewGainers, "Gainers"},
		{api.StockViewLosers, "Losers"},
	}
	parts := make([]string, 0, len(views))
	for _, v := range views {
		if v.view == m.stockView {
			parts = append(parts, tabActiveStyle.Render(" "+v.label+" "))
		} else {
			parts = append(parts, dimStyle.Render(" "+v.label+" "))
		}
	}
	line := " " + strings.Join(parts, " ")
	if m.status != nil && !m.status.LastStockUpdate.IsZero() {
		line += dimStyle.Render(fmt.Sprintf("  %d tracked, updated %s",
			m.status.TotalStocks, format.TimeSince(m.status.LastStockUpdate)))
	}
	b.WriteString(line + "\n\n")

	if len(m.stocks) == 0 {
		if m.loadingStocks {
			b.WriteString("  " + m.spinner.View() + dimStyle.Render("loading quotes...") + "\n")
		} else {
			b.WriteString(dimStyle.Render("  (no quotes)") + "\n")
		}
		return b.String()
	}

	b.WriteString(colHeaderStyle.Render(fmt.Sprintf("  %-6s %-24s %10s %9s %9s %9s %9s",
		"Symbol", "Name", "Price", "Change", "Chg%", "Volume", "MktCap")) + "\n")
	for _, s := range m.stocks {
		chSty := gainStyle
		if s.Change < 0 {
			chSty = lossStyle
		}
		b.WriteString(fmt.Sprintf("  %s %-24s %s %s %s %9s %9s\n",
			symbolStyle.Render(fmt.Sprintf("%-6s", s.Symbol)),
			truncate(s.Name, 24),
			priceStyle.Render(fmt.Sprintf("%10s", format.Price(s.Price))),
			chSty.Render(fmt.Sprintf("%9s", format.Change(s.Change))),
			chSty.Render(fmt.Sprintf("%9s", format.Percent(s.ChangePercent))),
			format.Number(s.Volume),
			format.Number(s.MarketCap)))
	}
	return b.String()
}

func (m Model) renderBookmarks() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(" %s %s\n\n",
		titleStyle.Render("Saved articles"), dimStyle.Render(fmt.Sprintf("(%d)", len(m.bookmarks)))))

	if len(m.bookmarks) == 0 {
		b.WriteString(dimStyle.Render("  (none saved, press b on an article)") + "\n")
		return b.String()
	}

	tw := m.width - 6
	for i, bm := range m.bookmarks {
		titleSty := titleStyle
		if bm.Stale {
			titleSty = staleStyle
		}
		b.WriteString(fmt.Sprintf(" %s %s\n",
			savedMarkStyle.Render("*"), hlStyle(titleSty, i == m.selected).Render(truncate(bm.Title, tw))))
		meta := fmt.Sprintf("• %s • saved %s", bm.Source, format.TimeSince(bm.SavedAt))
		if bm.Stale {
			meta += " • no longer on backend"
		}
		b.WriteString(fmt.Sprintf("   %s %s\n",
			categoryStyle(bm.Category).Render(bm.Category), dimStyle.Render(meta)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetail() string {
	a := m.detail
	var b strings.Builder

	w := m.width - 4
	if w < 20 {
		w = 20
	}
	wrap := lipgloss.NewStyle().Width(w)

	b.WriteString(titleStyle.Width(w).Render(a.Title) + "\n")
	meta := fmt.Sprintf(" • %s • %s", a.Source, format.Date(a.PublishedAt))
	b.WriteString(categoryStyle(a.Category).Render(a.Category) + dimStyle.Render(meta) + "\n")
	if len(a.Keywords) > 0 {
		b.WriteString(dimStyle.Width(w).Render("keywords: "+strings.Join(a.Keywords, ", ")) + "\n")
	}
	b.WriteString("\n")

	body := a.Content
	if strings.TrimSpace(body) == "" {
		body = a.Summary
	}
	text := format.StripHTML(body)
	if text == "" {
		text = "(no content)"
	}
	b.WriteString(wrap.Render(text) + "\n\n")

	if a.URL != "" {
		b.WriteString(dimStyle.Render(a.URL) + "\n")
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Text helpers
// ---------------------------------------------------------------------------

func padOrTrunc(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 3 {
		return string(r[:w])
	}
	return string(r[:w-3]) + "..."
}
