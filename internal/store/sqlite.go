package store

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ PreferenceStore = (*SQLiteStore)(nil)
var _ BookmarkStore = (*SQLiteStore)(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		category   TEXT NOT NULL,
		tab        TEXT NOT NULL,
		stock_view TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookmarks (
		article_id TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		source     TEXT NOT NULL,
		category   TEXT NOT NULL,
		url        TEXT NOT NULL,
		saved_at   TIMESTAMP NOT NULL,
		stale      INTEGER NOT NULL DEFAULT 0
	)`,
}

// SQLiteStore implements PreferenceStore and BookmarkStore backed by a SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, creates the
// schema if needed, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// PreferenceStore implementation
// ---------------------------------------------------------------------------

// SavePreferences inserts or updates the preferences row.
func (s *SQLiteStore) SavePreferences(ctx context.Context, p *Preferences) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, category, tab, stock_view)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category   = excluded.category,
			tab        = excluded.tab,
			stock_view = excluded.stock_view`,
		p.Category, p.Tab, p.StockView)
	return err
}

// GetPreferences returns the saved preferences, or nil when nothing has been
// saved yet.
func (s *SQLiteStore) GetPreferences(ctx context.Context) (*Preferences, error) {
	var p Preferences
	err := s.db.QueryRowContext(ctx,
		`SELECT category, tab, stock_view FROM preferences WHERE id = 1`).
		Scan(&p.Category, &p.Tab, &p.StockView)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ---------------------------------------------------------------------------
// BookmarkStore implementation
// ---------------------------------------------------------------------------

// SaveBookmark inserts or replaces a bookmark keyed by article id.
func (s *SQLiteStore) SaveBookmark(ctx context.Context, b *Bookmark) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO bookmarks
			(article_id, title, source, category, url, saved_at, stale)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ArticleID, b.Title, b.Source, b.Category, b.URL, b.SavedAt.UTC(), b.Stale)
	return err
}

// ListBookmarks returns all bookmarks, newest first.
func (s *SQLiteStore) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT article_id, title, source, category, url, saved_at, stale
		FROM bookmarks
		ORDER BY saved_at DESC, article_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ArticleID, &b.Title, &b.Source, &b.Category, &b.URL, &b.SavedAt, &b.Stale); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// DeleteBookmark removes the bookmark for an article id.
func (s *SQLiteStore) DeleteBookmark(ctx context.Context, articleID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE article_id = ?`, articleID)
	return err
}

// MarkBookmarkStale flags or clears the stale bit for an article id.
func (s *SQLiteStore) MarkBookmarkStale(ctx context.Context, articleID string, stale bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE bookmarks SET stale = ? WHERE article_id = ?`, stale, articleID)
	return err
}
