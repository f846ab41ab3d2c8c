// Package store persists client-local state: the view preferences restored
// on the next launch and the user's saved article bookmarks. Nothing in this
// package talks to the backend.
package store

import (
	"context"
	"time"
)

// Preferences captures the view state saved between sessions.
type Preferences struct {
	Category  string
	Tab       string
	StockView string
}

// Bookmark is a locally saved article reference. Stale marks bookmarks whose
// article the backend no longer serves.
type Bookmark struct {
	ArticleID string
	Title     string
	Source    string
	Category  string
	URL       string
	SavedAt   time.Time
	Stale     bool
}

// PreferenceStore persists the single preferences row.
type PreferenceStore interface {
	// SavePreferences inserts or updates the preferences row.
	SavePreferences(ctx context.Context, p *Preferences) error

	// GetPreferences returns the saved preferences, or nil when nothing has
	// been saved yet.
	GetPreferences(ctx context.Context) (*Preferences, error)
}

// BookmarkStore persists and retrieves bookmarks.
type BookmarkStore interface {
	// SaveBookmark inserts or replaces a bookmark keyed by article id.
	SaveBookmark(ctx context.Context, b *Bookmark) error

	// ListBookmarks returns all bookmarks, newest first.
	ListBookmarks(ctx context.Context) ([]Bookmark, error)

	// DeleteBookmark removes the bookmark for an article id.
	DeleteBookmark(ctx context.Context, articleID string) error

	// MarkBookmarkStale flags or clears the stale bit for an article id.
	MarkBookmarkStale(ctx context.Context, articleID string, stale bool) error
}
