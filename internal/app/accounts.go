package app

import (
	"context"
	"log/slog"

	"github.com/quotably/quotesync/internal/domain"
	"github.com/quotably/quotesync/internal/ports"
)

// AccountService orchestrates identity provider sessions and the user
// records that back them in the remote store and the local cache.
type AccountService struct {
	identity ports.Identity
	remote   ports.RemoteStore
	cache    ports.CacheStore
	logger   *slog.Logger
}

// AccountServiceConfig contains configuration for the account service.
type AccountServiceConfig struct {
	Identity ports.Identity
	Remote   ports.RemoteStore
	Cache    ports.CacheStore
	Logger   *slog.Logger
}

// NewAccountService creates a new account service with the provided
// dependencies.
func NewAccountService(cfg AccountServiceConfig) *AccountService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		identity: cfg.Identity,
		remote:   cfg.Remote,
		cache:    cfg.Cache,
		logger:   logger,
	}
}

// Register creates an account with the identity provider, then creates
// the backing user record remotely and caches it locally. Provider
// failures carry the specific reason (invalid email, weak password,
// email in use).
func (s *AccountService) Register(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := s.identity.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUserRecord(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Login opens a session for existing credentials and refreshes the
// cached user record from the remote store.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := s.identity.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := s.remote.User(ctx, session.UID)
	if domain.IsNotFound(err) {
		// Record was never created or has been purged; recreate it.
		if err := s.ensureUserRecord(ctx, session); err != nil {
			return nil, err
		}

		return session, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.SaveUser(ctx, *user); err != nil {
		return nil, err
	}

	return session, nil
}

// LoginAnonymously opens an anonymous session backed by a minimal user
// record.
func (s *AccountService) LoginAnonymously(ctx context.Context) (*domain.Session, error) {
	session, err := s.identity.LoginAnonymously(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUserRecord(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// SignOut closes the active session, if any.
func (s *AccountService) SignOut() {
	s.identity.SignOut()
}

// Session returns the active session, or false when signed out.
func (s *AccountService) Session() (*domain.Session, bool) {
	return s.identity.Session()
}

// ensureUserRecord creates and caches the user record for a session.
// A conflict means another device won the race, which is fine.
func (s *AccountService) ensureUserRecord(ctx context.Context, session *domain.Session) error {
	user := domain.User{
		ID:          session.UID,
		AuthUID:     session.UID,
		Email:       session.Email,
		FavoriteIDs: []string{},
	}

	err := s.remote.CreateUser(ctx, user)
	if err != nil && !domain.IsConflict(err) {
		s.logger.ErrorContext(ctx, "failed to create user record",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)

		return err
	}

	return s.cache.SaveUser(ctx, user)
}
