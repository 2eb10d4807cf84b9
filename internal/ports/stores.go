// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application
// layer to depend on abstractions rather than concrete implementations.
//
// Port design principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error kinds (ErrNotFound, ErrConflict, ...)
package ports

import (
	"context"

	"github.com/quotably/quotesync/internal/domain"
)

// ArrayOp selects a field-level array update operator on the remote
// document store.
type ArrayOp string

const (
	// ArrayUnion appends elements not already present.
	ArrayUnion ArrayOp = "arrayUnion"

	// ArrayRemove removes all matching elements.
	ArrayRemove ArrayOp = "arrayRemove"
)

// RemoteStore is the typed wrapper over the cloud document store backing
// quotes, per-user favorites, and user records. Writes that depend on an
// authenticated session fail fast with domain.ErrUnauthenticated before
// any network call.
type RemoteStore interface {
	// FetchQuotes returns the full quote set. Missing optional fields
	// carry explicit defaults; a malformed payload is a parse error.
	FetchQuotes(ctx context.Context) ([]domain.Quote, error)

	// SaveQuote creates a quote document.
	SaveQuote(ctx context.Context, quote domain.Quote) error

	// UpdateQuote overwrites all mutable fields of the quote document.
	UpdateQuote(ctx context.Context, quote domain.Quote) error

	// DeleteQuote removes the quote document.
	DeleteQuote(ctx context.Context, id string) error

	// FetchFavorites returns the current user's favorites sub-collection
	// in store order.
	FetchFavorites(ctx context.Context) ([]domain.Quote, error)

	// SaveFavorite adds a quote to the current user's favorites.
	// Returns domain.ErrConflict if the favorite already exists.
	SaveFavorite(ctx context.Context, quote domain.Quote) error

	// DeleteFavorite removes a quote from the current user's favorites
	// and clears the favorite field on the quote document if present.
	DeleteFavorite(ctx context.Context, id string) error

	// CreateUser creates the user record for a fresh session.
	CreateUser(ctx context.Context, user domain.User) error

	// User fetches a user record. Returns domain.ErrNotFound if absent.
	User(ctx context.Context, id string) (*domain.User, error)

	// UpdateUserFavorites applies an array operator to the favorites
	// field of a user record.
	UpdateUserFavorites(ctx context.Context, userID, quoteID string, op ArrayOp) error
}

// CacheStore is the on-device persistent store used for offline reads
// and write-through caching. It never evicts; records leave only by
// explicit delete. All access is serialized by the implementation.
type CacheStore interface {
	// Upsert inserts the quote or overwrites all mutable fields of an
	// existing record with the same ID. Idempotent, last write wins.
	Upsert(ctx context.Context, quote domain.Quote) error

	// FetchAll returns every cached quote with read-time defaults
	// applied (placeholder image URL, category bucket).
	FetchAll(ctx context.Context) ([]domain.Quote, error)

	// FetchFavorites returns cached quotes with the favorite flag set.
	FetchFavorites(ctx context.Context) ([]domain.Quote, error)

	// Delete removes the record if present. Absent is not an error.
	Delete(ctx context.Context, id string) error

	// SetFavoriteFlag flips the favorite flag on an existing record.
	// Returns domain.ErrNotFound if no record has the ID; it never
	// inserts.
	SetFavoriteFlag(ctx context.Context, id string, favorite bool) error

	// SaveUser inserts or updates a cached user record.
	SaveUser(ctx context.Context, user domain.User) error

	// User fetches a cached user record. Returns domain.ErrNotFound if
	// absent.
	User(ctx context.Context, id string) (*domain.User, error)

	// SaveUserQuote records a locally authored quote for the user.
	SaveUserQuote(ctx context.Context, userID string, quote domain.Quote) error

	// FetchUserQuotes returns the user's authored quotes.
	FetchUserQuotes(ctx context.Context, userID string) ([]domain.Quote, error)

	// SaveImage stores raw image bytes for offline display of the
	// quote's first author image.
	SaveImage(ctx context.Context, quoteID string, data []byte) error

	// Image returns stored image bytes. Returns domain.ErrNotFound if
	// none were cached.
	Image(ctx context.Context, quoteID string) ([]byte, error)
}

// Identity is the external identity provider. One session is active per
// process at most; the provider owns it.
type Identity interface {
	// Register creates an account and opens a session. Failures carry
	// the specific reason: ErrInvalidEmail, ErrWeakPassword,
	// ErrEmailInUse.
	Register(ctx context.Context, email, password string) (*domain.Session, error)

	// Login opens a session for existing credentials.
	Login(ctx context.Context, email, password string) (*domain.Session, error)

	// LoginAnonymously opens an anonymous session.
	LoginAnonymously(ctx context.Context) (*domain.Session, error)

	// SignOut closes the active session, if any.
	SignOut()

	// Session returns the active session, or false when signed out.
	Session() (*domain.Session, bool)

	// OnStateChange registers a callback invoked on every session
	// transition (sign-in and sign-out). The callback receives nil on
	// sign-out.
	OnStateChange(fn func(*domain.Session))
}

// BlobStore holds author images in object storage.
type BlobStore interface {
	// UploadAuthorImage stores image bytes under the author's prefix
	// and returns the public URL.
	UploadAuthorImage(ctx context.Context, author string, data []byte, contentType string) (string, error)

	// ListAuthorImages resolves a download URL for every stored image
	// of the author. Returns domain.ErrNotFound when the author has no
	// images at all.
	ListAuthorImages(ctx context.Context, author string) ([]string, error)
}

// ImageUploader is the external image hosting service used for author
// image uploads with a named preset.
type ImageUploader interface {
	// Upload sends image bytes and returns the hosted secure URL.
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Connectivity exposes the current network reachability signal consumed
// by the sync coordinator when choosing a source of truth.
type Connectivity interface {
	// Online reports the current reachability flag.
	Online() bool
}
