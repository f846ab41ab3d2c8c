// Package format provides pure display formatting for the dashboard views:
// dates, relative times, prices, abbreviated magnitudes, and plain-text
// cleanup of article content.
package format

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
	"time"
)

// Date formats a timestamp as "Jan 2, 2006".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// TimeSince renders how long ago t was, in coarse buckets: under an hour,
// whole hours under a day, whole days under a week, then the plain date.
func TimeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Hour:
		return "Less than an hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return Date(t)
	}
}

// Price formats a price value as $X.XX.
func Price(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "$0.00"
	}
	return fmt.Sprintf("$%.2f", p)
}

// Number abbreviates a magnitude with T/B/M/K suffixes at the
// 1e12/1e9/1e6/1e3 thresholds, one decimal place. Zero and non-finite
// values render as "0"; values below 1000 as an unabbreviated integer.
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.1fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// Change formats a signed price change as "+X.XX" or "-X.XX".
func Change(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	return fmt.Sprintf("%+.2f", v)
}

// Percent formats a signed percent change as "+X.XX%" or "-X.XX%".
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00%"
	}
	return fmt.Sprintf("%+.2f%%", v)
}

// --- plain-text helpers ---

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes HTML tags, unescapes entities, and collapses whitespace.
// Article content arrives from heterogeneous upstream sources and may embed
// markup; the terminal renders plain text.
func StripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return CollapseWhitespace(s)
}

// CollapseWhitespace folds runs of whitespace (including newlines) into
// single spaces and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
