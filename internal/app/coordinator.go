// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/quotably/quotesync/internal/domain"
	"github.com/quotably/quotesync/internal/ports"
)

// SyncCoordinator mediates between the remote document store and the
// local cache. It owns the in-memory working sets for quotes and
// favorites and keeps both stores consistent on writes: remote first,
// then local write-through. It depends on port interfaces only.
type SyncCoordinator struct {
	remote       ports.RemoteStore
	cache        ports.CacheStore
	identity     ports.Identity
	connectivity ports.Connectivity
	logger       *slog.Logger

	mu        sync.RWMutex
	quotes    []domain.Quote
	favorites []domain.Quote
}

// SyncCoordinatorConfig contains configuration for the sync coordinator.
type SyncCoordinatorConfig struct {
	Remote       ports.RemoteStore
	Cache        ports.CacheStore
	Identity     ports.Identity
	Connectivity ports.Connectivity
	Logger       *slog.Logger
}

// NewSyncCoordinator creates a new sync coordinator with the provided
// dependencies.
func NewSyncCoordinator(cfg SyncCoordinatorConfig) *SyncCoordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SyncCoordinator{
		remote:       cfg.Remote,
		cache:        cfg.Cache,
		identity:     cfg.Identity,
		connectivity: cfg.Connectivity,
		logger:       logger,
	}
}

// LoadAllQuotes loads the full quote set. Online, the remote store is
// the source of truth: every fetched quote is written through to the
// cache and the working set is replaced. Offline, the cache is read
// without a single remote call. A remote failure leaves the working set
// untouched.
func (s *SyncCoordinator) LoadAllQuotes(ctx context.Context) ([]domain.Quote, error) {
	if !s.connectivity.Online() {
		s.logger.InfoContext(ctx, "offline, loading quotes from cache")

		quotes, err := s.cache.FetchAll(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load cached quotes", slog.Any("error", err))
			return nil, err
		}

		s.setQuotes(quotes)

		return quotes, nil
	}

	s.logger.InfoContext(ctx, "loading quotes from remote store")

	quotes, err := s.remote.FetchQuotes(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load remote quotes", slog.Any("error", err))
		return nil, err
	}

	for i := range quotes {
		quotes[i] = quotes[i].Normalized()

		if err := s.cache.Upsert(ctx, quotes[i]); err != nil {
			s.logger.ErrorContext(ctx, "failed to cache quote",
				slog.String("quote_id", quotes[i].ID),
				slog.Any("error", err),
			)

			return nil, err
		}
	}

	s.setQuotes(quotes)

	s.logger.InfoContext(ctx, "quotes loaded", slog.Int("count", len(quotes)))

	return quotes, nil
}

// LoadFavoriteQuotes merges the remote favorites sub-collection with the
// locally flagged quotes. Both sources are fetched concurrently; the
// merge is an ordered set union keyed by ID with remote taking
// precedence. Offline, only the cache is consulted.
func (s *SyncCoordinator) LoadFavoriteQuotes(ctx context.Context) ([]domain.Quote, error) {
	if !s.connectivity.Online() {
		s.logger.InfoContext(ctx, "offline, loading favorites from cache")

		favorites, err := s.cache.FetchFavorites(ctx)
		if err != nil {
			return nil, err
		}

		s.setFavorites(favorites)

		return favorites, nil
	}

	remote, local, err := Parallel2(ctx,
		s.remote.FetchFavorites,
		s.cache.FetchFavorites,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load favorites", slog.Any("error", err))
		return nil, err
	}

	favorites := domain.DedupeByID(remote, local)
	s.setFavorites(favorites)

	s.logger.InfoContext(ctx, "favorites loaded",
		slog.Int("remote", len(remote)),
		slog.Int("local", len(local)),
		slog.Int("merged", len(favorites)),
	)

	return favorites, nil
}

// AddFavoriteQuote favorites a quote for the current user: remote
// favorite document first, then the local flag, then the user record's
// favorites array. An already-exists conflict propagates unchanged and
// leaves the local flag untouched.
func (s *SyncCoordinator) AddFavoriteQuote(ctx context.Context, quote domain.Quote) error {
	if err := s.remote.SaveFavorite(ctx, quote); err != nil {
		s.logger.WarnContext(ctx, "failed to save remote favorite",
			slog.String("quote_id", quote.ID),
			slog.Any("error", err),
		)

		return err
	}

	if err := s.markLocalFavorite(ctx, quote); err != nil {
		return err
	}

	if session, ok := s.identity.Session(); ok {
		err := s.remote.UpdateUserFavorites(ctx, session.UID, quote.ID, ports.ArrayUnion)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to update user favorites",
				slog.String("quote_id", quote.ID),
				slog.Any("error", err),
			)

			return err
		}
	}

	quote.Favorite = true
	s.applyFavorite(quote)

	return nil
}

// RemoveFavoriteQuote unfavorites a quote: remote favorite document,
// user record array, then the local flag. The first error is reported
// and later steps are skipped; there is no rollback, so a partial
// failure can leave the stores temporarily inconsistent until the next
// full load.
func (s *SyncCoordinator) RemoveFavoriteQuote(ctx context.Context, quote domain.Quote) error {
	if err := s.remote.DeleteFavorite(ctx, quote.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete remote favorite",
			slog.String("quote_id", quote.ID),
			slog.Any("error", err),
		)

		return err
	}

	if session, ok := s.identity.Session(); ok {
		err := s.remote.UpdateUserFavorites(ctx, session.UID, quote.ID, ports.ArrayRemove)
		if err != nil {
			return err
		}
	}

	err := s.cache.SetFavoriteFlag(ctx, quote.ID, false)
	if err != nil && !domain.IsNotFound(err) {
		return err
	}

	s.removeFavorite(quote.ID)

	return nil
}

// AddQuote authors a new quote: remote create first, then local
// write-through. A missing ID gets a fresh UUID. The authored quote is
// also linked to the current user for offline listing.
func (s *SyncCoordinator) AddQuote(ctx context.Context, quote domain.Quote) (domain.Quote, error) {
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}

	quote = quote.Normalized()

	if err := s.remote.SaveQuote(ctx, quote); err != nil {
		s.logger.ErrorContext(ctx, "failed to save remote quote",
			slog.String("quote_id", quote.ID),
			slog.Any("error", err),
		)

		return domain.Quote{}, err
	}

	if session, ok := s.identity.Session(); ok {
		if err := s.cache.SaveUserQuote(ctx, session.UID, quote); err != nil {
			return domain.Quote{}, err
		}
	} else if err := s.cache.Upsert(ctx, quote); err != nil {
		return domain.Quote{}, err
	}

	s.appendQuote(quote)

	return quote, nil
}

// UpdateQuote overwrites all mutable fields of an existing quote in both
// stores.
func (s *SyncCoordinator) UpdateQuote(ctx context.Context, quote domain.Quote) error {
	quote = quote.Normalized()

	if err := s.remote.UpdateQuote(ctx, quote); err != nil {
		s.logger.ErrorContext(ctx, "failed to update remote quote",
			slog.String("quote_id", quote.ID),
			slog.Any("error", err),
		)

		return err
	}

	if err := s.cache.Upsert(ctx, quote); err != nil {
		return err
	}

	s.replaceQuote(quote)

	return nil
}

// DeleteQuote removes a quote from both stores and the working sets.
func (s *SyncCoordinator) DeleteQuote(ctx context.Context, id string) error {
	if err := s.remote.DeleteQuote(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete remote quote",
			slog.String("quote_id", id),
			slog.Any("error", err),
		)

		return err
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		return err
	}

	s.removeQuote(id)

	return nil
}

// RandomQuote picks a random quote from the in-memory working set. It
// never touches a store; an empty working set is a not-found error.
func (s *SyncCoordinator) RandomQuote() (domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.quotes) == 0 {
		return domain.Quote{}, domain.NewNoQuotesError()
	}

	return s.quotes[rand.IntN(len(s.quotes))], nil
}

// Quotes returns a copy of the current quote working set.
func (s *SyncCoordinator) Quotes() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Quote, len(s.quotes))
	copy(out, s.quotes)

	return out
}

// Favorites returns a copy of the current favorites working set.
func (s *SyncCoordinator) Favorites() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Quote, len(s.favorites))
	copy(out, s.favorites)

	return out
}

// markLocalFavorite flips the cached favorite flag, inserting the quote
// first when the cache has not seen it yet.
func (s *SyncCoordinator) markLocalFavorite(ctx context.Context, quote domain.Quote) error {
	err := s.cache.SetFavoriteFlag(ctx, quote.ID, true)
	if err == nil {
		return nil
	}

	if !domain.IsNotFound(err) {
		return err
	}

	quote.Favorite = true

	return s.cache.Upsert(ctx, quote.Normalized())
}

// setQuotes and setFavorites store a copy so the slice handed back to
// the caller never shares a backing array with the working set the
// mutators write into.
func (s *SyncCoordinator) setQuotes(quotes []domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = slices.Clone(quotes)
}

func (s *SyncCoordinator) setFavorites(favorites []domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites = slices.Clone(favorites)
}

func (s *SyncCoordinator) appendQuote(quote domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = append(s.quotes, quote)
}

func (s *SyncCoordinator) replaceQuote(quote domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.quotes {
		if s.quotes[i].ID == quote.ID {
			s.quotes[i] = quote
			break
		}
	}

	for i := range s.favorites {
		if s.favorites[i].ID == quote.ID {
			s.favorites[i] = quote
			break
		}
	}
}

func (s *SyncCoordinator) removeQuote(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes = deleteByID(s.quotes, id)
	s.favorites = deleteByID(s.favorites, id)
}

// applyFavorite flips the flag in the quote working set and appends to
// the favorites set if not already present.
func (s *SyncCoordinator) applyFavorite(quote domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.quotes {
		if s.quotes[i].ID == quote.ID {
			s.quotes[i].Favorite = true
			break
		}
	}

	for i := range s.favorites {
		if s.favorites[i].ID == quote.ID {
			return
		}
	}

	s.favorites = append(s.favorites, quote)
}

func (s *SyncCoordinator) removeFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.quotes {
		if s.quotes[i].ID == id {
			s.quotes[i].Favorite = false
			break
		}
	}

	s.favorites = deleteByID(s.favorites, id)
}

func deleteByID(quotes []domain.Quote, id string) []domain.Quote {
	out := quotes[:0]

	for _, q := range quotes {
		if q.ID != id {
			out = append(out, q)
		}
	}

	return out
}
