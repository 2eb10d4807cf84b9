package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/quotably/quotesync/internal/adapters/clients"
	"github.com/quotably/quotesync/internal/domain"
)

// identityServiceName identifies the identity provider in errors.
const identityServiceName = "identity"

// Identity provider error codes translated to domain auth reasons.
const (
	identityCodeInvalidEmail  = "INVALID_EMAIL"
	identityCodeWeakPassword  = "WEAK_PASSWORD"
	identityCodeEmailExists   = "EMAIL_EXISTS"
	identityCodeEmailNotFound = "EMAIL_NOT_FOUND"
	identityCodeBadPassword   = "INVALID_PASSWORD"
	identityCodeBadCredential = "INVALID_LOGIN_CREDENTIALS"
)

// IdentityClientConfig contains configuration for the identity client.
type IdentityClientConfig struct {
	// Client is the HTTP client pointed at the identity provider API.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// IdentityClient implements ports.Identity against the external identity
// provider. It owns the single active session for the process and
// notifies registered callbacks on every transition.
type IdentityClient struct {
	BaseAdapter
	logger *slog.Logger

	mu        sync.RWMutex
	current   *domain.Session
	callbacks []func(*domain.Session)
}

// NewIdentityClient creates a new identity provider adapter.
// Panics if Client is nil. Defaults logger to slog.Default().
func NewIdentityClient(cfg IdentityClientConfig) *IdentityClient {
	if cfg.Client == nil {
		panic("IdentityClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &IdentityClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, identityServiceName),
		logger:      logger,
	}
}

// credentialsRequest is the sign-up / sign-in payload.
type credentialsRequest struct {
	Email             string `json:"email,omitempty"`
	Password          string `json:"password,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// sessionResponse is the provider's session payload. Internal to the ACL.
type sessionResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account and opens a session.
// Implements ports.Identity.
func (c *IdentityClient) Register(ctx context.Context, email, password string) (*domain.Session, error) {
	c.logger.DebugContext(ctx, "registering account")

	session, err := c.authenticate(ctx, "/v1/accounts:signUp", credentialsRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, "register", false)
	if err != nil {
		return nil, err
	}

	c.setSession(session)

	return session, nil
}

// Login opens a session for existing credentials.
// Implements ports.Identity.
func (c *IdentityClient) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	c.logger.DebugContext(ctx, "signing in")

	session, err := c.authenticate(ctx, "/v1/accounts:signInWithPassword", credentialsRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, "login", false)
	if err != nil {
		return nil, err
	}

	c.setSession(session)

	return session, nil
}

// LoginAnonymously opens an anonymous session.
// Implements ports.Identity.
func (c *IdentityClient) LoginAnonymously(ctx context.Context) (*domain.Session, error) {
	c.logger.DebugContext(ctx, "signing in anonymously")

	session, err := c.authenticate(ctx, "/v1/accounts:signUp", credentialsRequest{
		ReturnSecureToken: true,
	}, "anonymous-login", true)
	if err != nil {
		return nil, err
	}

	c.setSession(session)

	return session, nil
}

// SignOut closes the active session, if any. Implements ports.Identity.
func (c *IdentityClient) SignOut() {
	c.setSession(nil)
}

// Session returns the active session, or false when signed out.
// Implements ports.Identity.
func (c *IdentityClient) Session() (*domain.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return nil, false
	}

	return c.current, true
}

// OnStateChange registers a callback invoked on every session transition.
// The callback receives nil on sign-out. Implements ports.Identity.
func (c *IdentityClient) OnStateChange(fn func(*domain.Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.callbacks = append(c.callbacks, fn)
}

// authenticate posts credentials and translates the session response.
func (c *IdentityClient) authenticate(ctx context.Context, path string, creds credentialsRequest, op string, anonymous bool) (*domain.Session, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encoding credentials: %w", err)
	}

	resp, err := c.Client().Post(ctx, path, bytes.NewReader(payload))
	if err != nil {
		return nil, MapHTTPError(nil, err, identityServiceName, op, "")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.translateAuthError(resp, op)
	}

	var external sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return nil, domain.NewParseError("session", err)
	}

	return &domain.Session{
		UID:          external.LocalID,
		Email:        external.Email,
		IDToken:      external.IDToken,
		RefreshToken: external.RefreshToken,
		Anonymous:    anonymous,
	}, nil
}

// translateAuthError maps provider error codes to domain auth reasons.
// Unknown codes and statuses fall through to the broad kinds.
func (c *IdentityClient) translateAuthError(resp *http.Response, op string) error {
	errResp := ParseErrorResponse(resp.Body)

	var code string
	if errResp != nil {
		code = errResp.GetCode()
		if code == "" {
			code = errResp.GetMessage()
		}
	}

	c.logger.Warn("identity provider rejected request",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.String("code", code),
	)

	switch code {
	case identityCodeInvalidEmail:
		return domain.NewAuthError(op, domain.ErrInvalidEmail)
	case identityCodeWeakPassword:
		return domain.NewAuthError(op, domain.ErrWeakPassword)
	case identityCodeEmailExists:
		return domain.NewAuthError(op, domain.ErrEmailInUse)
	case identityCodeEmailNotFound, identityCodeBadPassword, identityCodeBadCredential:
		return domain.NewAuthError(op, domain.ErrUnauthenticated)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return domain.NewAuthError(op, domain.ErrUnauthenticated)
	}

	return domain.NewUnavailableError(identityServiceName,
		fmt.Errorf("%s failed with status %d", op, resp.StatusCode))
}

// setSession swaps the active session and notifies callbacks outside the
// lock, so a callback can safely read the session back.
func (c *IdentityClient) setSession(session *domain.Session) {
	c.mu.Lock()
	c.current = session
	callbacks := make([]func(*domain.Session), len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(session)
	}
}
