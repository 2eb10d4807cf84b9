package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/quotably/quotesync/internal/domain"
	"github.com/quotably/quotesync/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubRemote implements ports.RemoteStore with injectable failures.
type stubRemote struct {
	quotes    []domain.Quote
	favorites []domain.Quote
	users     map[string]domain.User

	fetchQuotesErr  error
	saveQuoteErr    error
	saveFavoriteErr error
}

func (r *stubRemote) FetchQuotes(_ context.Context) ([]domain.Quote, error) {
	if r.fetchQuotesErr != nil {
		return nil, r.fetchQuotesErr
	}

	return r.quotes, nil
}

func (r *stubRemote) SaveQuote(_ context.Context, quote domain.Quote) error {
	if r.saveQuoteErr != nil {
		return r.saveQuoteErr
	}

	r.quotes = append(r.quotes, quote)

	return nil
}

func (r *stubRemote) UpdateQuote(_ context.Context, quote domain.Quote) error {
	for i, q := range r.quotes {
		if q.ID == quote.ID {
			r.quotes[i] = quote
		}
	}

	return nil
}

func (r *stubRemote) DeleteQuote(_ context.Context, id string) error {
	kept := r.quotes[:0]
	for _, q := range r.quotes {
		if q.ID != id {
			kept = append(kept, q)
		}
	}

	r.quotes = kept

	return nil
}

func (r *stubRemote) FetchFavorites(_ context.Context) ([]domain.Quote, error) {
	return r.favorites, nil
}

func (r *stubRemote) SaveFavorite(_ context.Context, quote domain.Quote) error {
	if r.saveFavoriteErr != nil {
		return r.saveFavoriteErr
	}

	r.favorites = append(r.favorites, quote)

	return nil
}

func (r *stubRemote) DeleteFavorite(_ context.Context, id string) error {
	kept := r.favorites[:0]
	for _, q := range r.favorites {
		if q.ID != id {
			kept = append(kept, q)
		}
	}

	r.favorites = kept

	return nil
}

func (r *stubRemote) CreateUser(_ context.Context, user domain.User) error {
	if r.users == nil {
		r.users = make(map[string]domain.User)
	}

	r.users[user.ID] = user

	return nil
}

func (r *stubRemote) User(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}

	return &user, nil
}

func (r *stubRemote) UpdateUserFavorites(_ context.Context, _, _ string, _ ports.ArrayOp) error {
	return nil
}

// stubCache implements ports.CacheStore backed by maps.
type stubCache struct {
	quotes map[string]domain.Quote
	users  map[string]domain.User
	links  map[string][]string
	images map[string][]byte
}

func newStubCache() *stubCache {
	return &stubCache{
		quotes: make(map[string]domain.Quote),
		users:  make(map[string]domain.User),
		links:  make(map[string][]string),
		images: make(map[string][]byte),
	}
}

func (c *stubCache) Upsert(_ context.Context, quote domain.Quote) error {
	c.quotes[quote.ID] = quote
	return nil
}

func (c *stubCache) FetchAll(_ context.Context) ([]domain.Quote, error) {
	out := make([]domain.Quote, 0, len(c.quotes))
	for _, q := range c.quotes {
		out = append(out, q.Normalized())
	}

	return out, nil
}

func (c *stubCache) FetchFavorites(_ context.Context) ([]domain.Quote, error) {
	var out []domain.Quote
	for _, q := range c.quotes {
		if q.Favorite {
			out = append(out, q.Normalized())
		}
	}

	return out, nil
}

func (c *stubCache) Delete(_ context.Context, id string) error {
	delete(c.quotes, id)
	return nil
}

func (c *stubCache) SetFavoriteFlag(_ context.Context, id string, favorite bool) error {
	q, ok := c.quotes[id]
	if !ok {
		return domain.NewNotFoundError("quote", id)
	}

	q.Favorite = favorite
	c.quotes[id] = q

	return nil
}

func (c *stubCache) SaveUser(_ context.Context, user domain.User) error {
	c.users[user.ID] = user
	return nil
}

func (c *stubCache) User(_ context.Context, id string) (*domain.User, error) {
	user, ok := c.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}

	return &user, nil
}

func (c *stubCache) SaveUserQuote(_ context.Context, userID string, quote domain.Quote) error {
	c.links[userID] = append(c.links[userID], quote.ID)
	return nil
}

func (c *stubCache) FetchUserQuotes(_ context.Context, userID string) ([]domain.Quote, error) {
	var out []domain.Quote
	for _, id := range c.links[userID] {
		if q, ok := c.quotes[id]; ok {
			out = append(out, q)
		}
	}

	return out, nil
}

func (c *stubCache) SaveImage(_ context.Context, quoteID string, data []byte) error {
	c.images[quoteID] = data
	return nil
}

func (c *stubCache) Image(_ context.Context, quoteID string) ([]byte, error) {
	data, ok := c.images[quoteID]
	if !ok {
		return nil, domain.NewNotFoundError("image", quoteID)
	}

	return data, nil
}

// stubIdentity implements ports.Identity with scripted outcomes.
type stubIdentity struct {
	session     *domain.Session
	registerErr error
	loginErr    error
}

func (i *stubIdentity) Register(_ context.Context, email, _ string) (*domain.Session, error) {
	if i.registerErr != nil {
		return nil, i.registerErr
	}

	i.session = &domain.Session{UID: "uid-" + email, Email: email, IDToken: "token"}

	return i.session, nil
}

func (i *stubIdentity) Login(_ context.Context, email, _ string) (*domain.Session, error) {
	if i.loginErr != nil {
		return nil, i.loginErr
	}

	i.session = &domain.Session{UID: "uid-" + email, Email: email, IDToken: "token"}

	return i.session, nil
}

func (i *stubIdentity) LoginAnonymously(_ context.Context) (*domain.Session, error) {
	i.session = &domain.Session{UID: "anon-1", IDToken: "token", Anonymous: true}
	return i.session, nil
}

func (i *stubIdentity) SignOut() {
	i.session = nil
}

func (i *stubIdentity) Session() (*domain.Session, bool) {
	if i.session == nil {
		return nil, false
	}

	return i.session, true
}

func (i *stubIdentity) OnStateChange(func(*domain.Session)) {}

// stubConnectivity implements ports.Connectivity.
type stubConnectivity struct {
	online bool
}

func (c *stubConnectivity) Online() bool {
	return c.online
}

// stubUploader implements ports.ImageUploader.
type stubUploader struct {
	url string
	err error
}

func (u *stubUploader) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	if u.err != nil {
		return "", u.err
	}

	return u.url, nil
}

// stubBlob implements ports.BlobStore.
type stubBlob struct {
	uploadURL string
	uploadErr error
	listURLs  []string
	listErr   error
}

func (b *stubBlob) UploadAuthorImage(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	if b.uploadErr != nil {
		return "", b.uploadErr
	}

	return b.uploadURL, nil
}

func (b *stubBlob) ListAuthorImages(_ context.Context, _ string) ([]string, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}

	return b.listURLs, nil
}
