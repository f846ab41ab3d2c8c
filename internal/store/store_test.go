package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalyst.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() returned error: %v", err)
	}
	t.Cleanup(func() {
		if cerr := store.Close(); cerr != nil {
			t.Errorf("Close() returned error: %v", cerr)
		}
	})
	return store
}

func TestSQLiteStoreOpen(t *testing.T) {
	store := newTestStore(t)

	// Verify the store is usable by pinging the database.
	if err := store.db.Ping(); err != nil {
		t.Fatalf("db.Ping() returned error: %v", err)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// No preferences saved yet.
	got, err := store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got != nil {
		t.Fatalf("GetPreferences = %+v before any save, want nil", got)
	}

	prefs := &Preferences{Category: "Clinical Trials", Tab: "news", StockView: "gainers"}
	if err := store.SavePreferences(ctx, prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err = store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got == nil {
		t.Fatal("GetPreferences = nil after save")
	}
	if got.Category != "Clinical Trials" || got.Tab != "news" || got.StockView != "gainers" {
		t.Errorf("GetPreferences = %+v, want %+v", got, prefs)
	}

	// Saving again overwrites the single row rather than adding one.
	prefs.Category = "Drug Modalities"
	prefs.Tab = "stocks"
	if err := store.SavePreferences(ctx, prefs); err != nil {
		t.Fatalf("SavePreferences (second): %v", err)
	}
	got, err = store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if got.Category != "Drug Modalities" || got.Tab != "stocks" {
		t.Errorf("GetPreferences after update = %+v, want category Drug Modalities and tab stocks", got)
	}
}

func TestBookmarks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := &Bookmark{
		ArticleID: "a1",
		Title:     "Gene therapy trial begins",
		Source:    "Endpoints",
		Category:  "Clinical Trials",
		URL:       "https://example.com/a1",
		SavedAt:   time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
	newer := &Bookmark{
		ArticleID: "a2",
		Title:     "Antibody platform funding",
		Source:    "Fierce",
		Category:  "Industry Updates",
		URL:       "https://example.com/a2",
		SavedAt:   time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
	}
	if err := store.SaveBookmark(ctx, older); err != nil {
		t.Fatalf("SaveBookmark (older): %v", err)
	}
	if err := store.SaveBookmark(ctx, newer); err != nil {
		t.Fatalf("SaveBookmark (newer): %v", err)
	}

	got, err := store.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListBookmarks returned %d bookmarks, want 2", len(got))
	}
	if got[0].ArticleID != "a2" || got[1].ArticleID != "a1" {
		t.Errorf("ListBookmarks order = [%s %s], want newest first [a2 a1]", got[0].ArticleID, got[1].ArticleID)
	}
	if !got[1].SavedAt.Equal(older.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", got[1].SavedAt, older.SavedAt)
	}

	// Saving the same article again replaces instead of duplicating.
	older.Title = "Gene therapy trial begins (updated)"
	if err := store.SaveBookmark(ctx, older); err != nil {
		t.Fatalf("SaveBookmark (replace): %v", err)
	}
	got, err = store.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListBookmarks returned %d bookmarks after replace, want 2", len(got))
	}

	if err := store.DeleteBookmark(ctx, "a1"); err != nil {
		t.Fatalf("DeleteBookmark: %v", err)
	}
	got, err = store.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if len(got) != 1 || got[0].ArticleID != "a2" {
		t.Errorf("ListBookmarks after delete = %+v, want only a2", got)
	}
}

func TestMarkBookmarkStale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b := &Bookmark{
		ArticleID: "a1",
		Title:     "Withdrawn article",
		Source:    "BioPharma Dive",
		Category:  "Healthcare & Policy",
		URL:       "https://example.com/gone",
		SavedAt:   time.Now().UTC(),
	}
	if err := store.SaveBookmark(ctx, b); err != nil {
		t.Fatalf("SaveBookmark: %v", err)
	}

	if err := store.MarkBookmarkStale(ctx, "a1", true); err != nil {
		t.Fatalf("MarkBookmarkStale: %v", err)
	}
	got, err := store.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if len(got) != 1 || !got[0].Stale {
		t.Errorf("bookmark stale = %v, want true", got[0].Stale)
	}

	if err := store.MarkBookmarkStale(ctx, "a1", false); err != nil {
		t.Fatalf("MarkBookmarkStale (clear): %v", err)
	}
	got, err = store.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if got[0].Stale {
		t.Error("bookmark stale = true after clear, want false")
	}
}
