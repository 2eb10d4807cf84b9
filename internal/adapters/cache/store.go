// Package cache provides the on-device SQLite store used for offline
// reads and write-through caching of quotes, users, and author images.
//
// Only this package may open or query the database. All other packages
// receive a [*Store] and call its methods.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/quotably/quotesync/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
    id          TEXT PRIMARY KEY,
    author      TEXT    NOT NULL DEFAULT '',
    content     TEXT    NOT NULL DEFAULT '',
    category    TEXT    NOT NULL DEFAULT '',
    tags        TEXT    NOT NULL DEFAULT '[]',
    favorite    INTEGER NOT NULL DEFAULT 0,
    description TEXT    NOT NULL DEFAULT '',
    source_url  TEXT    NOT NULL DEFAULT '',
    image_urls  TEXT    NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS users (
    id                TEXT PRIMARY KEY,
    auth_uid          TEXT NOT NULL DEFAULT '',
    email             TEXT NOT NULL DEFAULT '',
    display_name      TEXT NOT NULL DEFAULT '',
    favorite_ids      TEXT NOT NULL DEFAULT '[]',
    author_profile_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS user_quotes (
    user_id  TEXT NOT NULL,
    quote_id TEXT NOT NULL,
    PRIMARY KEY (user_id, quote_id)
);

CREATE TABLE IF NOT EXISTS images (
    quote_id TEXT PRIMARY KEY,
    data     BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quotes_favorite ON quotes (favorite) WHERE favorite = 1;
`

// quoteColumns is the column list shared by every quote SELECT.
const quoteColumns = "id, author, content, category, tags, favorite, description, source_url, image_urls"

// Store is the SQLite-backed local cache. Records never expire; they
// leave only by explicit delete.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the SQLite database at path, applies the
// schema, and configures WAL mode. A single connection serializes all
// access, which avoids SQLITE_BUSY under WAL.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{db: db, logger: logger.With(slog.String("component", "cache.Store"))}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts the quote or overwrites all mutable fields of an
// existing record with the same ID. Idempotent, last write wins.
// Implements ports.CacheStore.
func (s *Store) Upsert(ctx context.Context, quote domain.Quote) error {
	const q = `
		INSERT INTO quotes (id, author, content, category, tags, favorite, description, source_url, image_urls)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			author      = excluded.author,
			content     = excluded.content,
			category    = excluded.category,
			tags        = excluded.tags,
			favorite    = excluded.favorite,
			description = excluded.description,
			source_url  = excluded.source_url,
			image_urls  = excluded.image_urls`

	_, err := s.db.ExecContext(ctx, q,
		quote.ID,
		quote.Author,
		quote.Content,
		quote.Category,
		encodeList(quote.Tags),
		boolToInt(quote.Favorite),
		quote.Description,
		quote.SourceURL,
		encodeList(quote.ImageURLs),
	)
	if err != nil {
		return domain.NewStoreError("save", "quote", err)
	}

	return nil
}

// FetchAll returns every cached quote with read-time defaults applied.
// Implements ports.CacheStore.
func (s *Store) FetchAll(ctx context.Context) ([]domain.Quote, error) {
	return s.queryQuotes(ctx, "SELECT "+quoteColumns+" FROM quotes ORDER BY id")
}

// FetchFavorites returns cached quotes with the favorite flag set.
// Implements ports.CacheStore.
func (s *Store) FetchFavorites(ctx context.Context) ([]domain.Quote, error) {
	return s.queryQuotes(ctx, "SELECT "+quoteColumns+" FROM quotes WHERE favorite = 1 ORDER BY id")
}

// Delete removes the record if present. Absent is not an error.
// Implements ports.CacheStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM quotes WHERE id = ?", id); err != nil {
		return domain.NewStoreError("delete", "quote", err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM images WHERE quote_id = ?", id); err != nil {
		return domain.NewStoreError("delete", "quote image", err)
	}

	return nil
}

// SetFavoriteFlag flips the favorite flag on an existing record. It
// never inserts: flagging a quote the cache has not seen is a bug in the
// caller. Implements ports.CacheStore.
func (s *Store) SetFavoriteFlag(ctx context.Context, id string, favorite bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE quotes SET favorite = ? WHERE id = ?",
		boolToInt(favorite), id)
	if err != nil {
		return domain.NewStoreError("save", "favorite flag", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("save", "favorite flag", err)
	}

	if affected == 0 {
		return domain.NewNotFoundError("quote", id)
	}

	return nil
}

// SaveUser inserts or updates a cached user record.
// Implements ports.CacheStore.
func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	const q = `
		INSERT INTO users (id, auth_uid, email, display_name, favorite_ids, author_profile_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			auth_uid          = excluded.auth_uid,
			email             = excluded.email,
			display_name      = excluded.display_name,
			favorite_ids      = excluded.favorite_ids,
			author_profile_id = excluded.author_profile_id`

	_, err := s.db.ExecContext(ctx, q,
		user.ID,
		user.AuthUID,
		user.Email,
		user.DisplayName,
		encodeList(user.FavoriteIDs),
		user.AuthorProfileID,
	)
	if err != nil {
		return domain.NewStoreError("save", "user", err)
	}

	return nil
}

// User fetches a cached user record. Implements ports.CacheStore.
func (s *Store) User(ctx context.Context, id string) (*domain.User, error) {
	const q = `
		SELECT id, auth_uid, email, display_name, favorite_ids, author_profile_id
		FROM users WHERE id = ?`

	var user domain.User
	var favoriteIDs string

	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&user.ID,
		&user.AuthUID,
		&user.Email,
		&user.DisplayName,
		&favoriteIDs,
		&user.AuthorProfileID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, domain.NewStoreError("fetch", "user", err)
	}

	user.FavoriteIDs = s.decodeList(favoriteIDs, "user favorites")

	return &user, nil
}

// SaveUserQuote records a locally authored quote for the user. The quote
// itself is upserted so it shows up in full-set reads.
// Implements ports.CacheStore.
func (s *Store) SaveUserQuote(ctx context.Context, userID string, quote domain.Quote) error {
	if err := s.Upsert(ctx, quote); err != nil {
		return err
	}

	const q = `
		INSERT INTO user_quotes (user_id, quote_id) VALUES (?, ?)
		ON CONFLICT(user_id, quote_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, q, userID, quote.ID); err != nil {
		return domain.NewStoreError("save", "user quote", err)
	}

	return nil
}

// FetchUserQuotes returns the user's authored quotes.
// Implements ports.CacheStore.
func (s *Store) FetchUserQuotes(ctx context.Context, userID string) ([]domain.Quote, error) {
	const q = `
		SELECT q.id, q.author, q.content, q.category, q.tags, q.favorite, q.description, q.source_url, q.image_urls
		FROM quotes q
		JOIN user_quotes uq ON uq.quote_id = q.id
		WHERE uq.user_id = ?
		ORDER BY q.id`

	return s.queryQuotes(ctx, q, userID)
}

// SaveImage stores raw image bytes for offline display of the quote's
// first author image. Implements ports.CacheStore.
func (s *Store) SaveImage(ctx context.Context, quoteID string, data []byte) error {
	const q = `
		INSERT INTO images (quote_id, data) VALUES (?, ?)
		ON CONFLICT(quote_id) DO UPDATE SET data = excluded.data`

	if _, err := s.db.ExecContext(ctx, q, quoteID, data); err != nil {
		return domain.NewStoreError("save", "image", err)
	}

	return nil
}

// Image returns stored image bytes. Implements ports.CacheStore.
func (s *Store) Image(ctx context.Context, quoteID string) ([]byte, error) {
	var data []byte

	err := s.db.QueryRowContext(ctx, "SELECT data FROM images WHERE quote_id = ?", quoteID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("image", quoteID)
	}
	if err != nil {
		return nil, domain.NewStoreError("fetch", "image", err)
	}

	return data, nil
}

// queryQuotes runs a quote SELECT and scans rows into normalized quotes.
func (s *Store) queryQuotes(ctx context.Context, query string, args ...any) ([]domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError("fetch", "quotes", err)
	}
	defer func() { _ = rows.Close() }()

	var quotes []domain.Quote

	for rows.Next() {
		quote, err := s.scanQuote(rows)
		if err != nil {
			return nil, err
		}

		quotes = append(quotes, quote.Normalized())
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("fetch", "quotes", err)
	}

	return quotes, nil
}

// scanQuote maps a row onto a domain Quote, decoding the JSON list columns.
func (s *Store) scanQuote(rows *sql.Rows) (domain.Quote, error) {
	var quote domain.Quote
	var tags, imageURLs string
	var favorite int

	err := rows.Scan(
		&quote.ID,
		&quote.Author,
		&quote.Content,
		&quote.Category,
		&tags,
		&favorite,
		&quote.Description,
		&quote.SourceURL,
		&imageURLs,
	)
	if err != nil {
		return domain.Quote{}, domain.NewStoreError("fetch", "quote", err)
	}

	quote.Favorite = favorite != 0
	quote.Tags = s.decodeList(tags, "tags")
	quote.ImageURLs = s.decodeList(imageURLs, "image urls")

	return quote, nil
}

// decodeList decodes a JSON-encoded string list leniently: corrupt data
// logs a warning and reads as empty rather than failing the whole row.
func (s *Store) decodeList(raw, field string) []string {
	if raw == "" {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Warn("corrupt list column, treating as empty",
			slog.String("field", field),
			slog.Any("error", err),
		)

		return []string{}
	}

	if list == nil {
		return []string{}
	}

	return list
}

// encodeList encodes a string list as JSON TEXT. A nil list encodes as
// an empty array so decode round-trips cleanly.
func encodeList(list []string) string {
	if list == nil {
		list = []string{}
	}

	data, err := json.Marshal(list)
	if err != nil {
		// Marshaling []string cannot fail.
		return "[]"
	}

	return string(data)
}

// boolToInt maps a bool onto the INTEGER column representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
