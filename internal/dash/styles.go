package dash

import "github.com/charmbracelet/lipgloss"

// Styles.
var (
	headerBarStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	tabIdleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	symbolStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	gainStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	priceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	searchStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	savedMarkStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")) // orange for saved articles
	staleStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("245"))
	highlightBG    = lipgloss.Color("236") // dark grey background
)

// categoryColors maps backend categories to list colors.
var categoryColors = map[string]lipgloss.Color{
	"Academic Research":   lipgloss.Color("#d2a8ff"), // purple - academic
	"Industry Updates":    lipgloss.Color("#ffa657"), // orange - business
	"Early Discovery":     lipgloss.Color("#58a6ff"), // blue
	"Clinical Trials":     lipgloss.Color("#7ee787"), // green
	"Drug Modalities":     lipgloss.Color("#d29922"), // amber
	"Healthcare & Policy": lipgloss.Color("#ff7b72"), // coral
}

func categoryStyle(name string) lipgloss.Style {
	if c, ok := categoryColors[name]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return dimStyle
}

// hlStyle returns a copy of s with the highlight background applied when hl is true.
func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}
