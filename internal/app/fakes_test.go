package app

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/quotably/quotesync/internal/domain"
	"github.com/quotably/quotesync/internal/ports"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRemote is a hand-written ports.RemoteStore test double with
// injectable errors and call counters.
type fakeRemote struct {
	mu sync.Mutex

	quotes    []domain.Quote
	favorites []domain.Quote
	users     map[string]domain.User

	fetchQuotesErr    error
	fetchFavoritesErr error
	saveQuoteErr      error
	updateQuoteErr    error
	deleteQuoteErr    error
	saveFavoriteErr   error
	deleteFavoriteErr error
	createUserErr     error
	userErr           error
	updateUserFavErr  error

	fetchQuotesCalls    int
	fetchFavoritesCalls int
	saveFavoriteCalls   int
	deleteFavoriteCalls int
	updateUserFavCalls  int

	lastArrayOp ports.ArrayOp
	lastUserID  string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{users: make(map[string]domain.User)}
}

func (f *fakeRemote) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchQuotesCalls++
	if f.fetchQuotesErr != nil {
		return nil, f.fetchQuotesErr
	}

	return append([]domain.Quote(nil), f.quotes...), nil
}

func (f *fakeRemote) SaveQuote(ctx context.Context, quote domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveQuoteErr != nil {
		return f.saveQuoteErr
	}
	f.quotes = append(f.quotes, quote)

	return nil
}

func (f *fakeRemote) UpdateQuote(ctx context.Context, quote domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateQuoteErr != nil {
		return f.updateQuoteErr
	}
	for i := range f.quotes {
		if f.quotes[i].ID == quote.ID {
			f.quotes[i] = quote
		}
	}

	return nil
}

func (f *fakeRemote) DeleteQuote(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteQuoteErr != nil {
		return f.deleteQuoteErr
	}
	kept := f.quotes[:0]
	for _, q := range f.quotes {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	f.quotes = kept

	return nil
}

func (f *fakeRemote) FetchFavorites(ctx context.Context) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchFavoritesCalls++
	if f.fetchFavoritesErr != nil {
		return nil, f.fetchFavoritesErr
	}

	return append([]domain.Quote(nil), f.favorites...), nil
}

func (f *fakeRemote) SaveFavorite(ctx context.Context, quote domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saveFavoriteCalls++
	if f.saveFavoriteErr != nil {
		return f.saveFavoriteErr
	}
	f.favorites = append(f.favorites, quote)

	return nil
}

func (f *fakeRemote) DeleteFavorite(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteFavoriteCalls++
	if f.deleteFavoriteErr != nil {
		return f.deleteFavoriteErr
	}
	kept := f.favorites[:0]
	for _, q := range f.favorites {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	f.favorites = kept

	return nil
}

func (f *fakeRemote) CreateUser(ctx context.Context, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createUserErr != nil {
		return f.createUserErr
	}
	f.users[user.ID] = user

	return nil
}

func (f *fakeRemote) User(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.userErr != nil {
		return nil, f.userErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}

	return &user, nil
}

func (f *fakeRemote) UpdateUserFavorites(ctx context.Context, userID, quoteID string, op ports.ArrayOp) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateUserFavCalls++
	f.lastUserID = userID
	f.lastArrayOp = op

	return f.updateUserFavErr
}

// fakeCache is a hand-written ports.CacheStore test double backed by a
// map, mirroring the never-insert SetFavoriteFlag semantics of the real
// store.
type fakeCache struct {
	mu sync.Mutex

	quotes     map[string]domain.Quote
	users      map[string]domain.User
	userQuotes map[string][]string
	images     map[string][]byte

	upsertErr         error
	fetchAllErr       error
	fetchFavoritesErr error
	deleteErr         error
	setFlagErr        error

	upsertCalls        int
	fetchAllCalls      int
	fetchFavoriteCalls int
	setFlagCalls       int
	saveUserQuoteCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		quotes:     make(map[string]domain.Quote),
		users:      make(map[string]domain.User),
		userQuotes: make(map[string][]string),
		images:     make(map[string][]byte),
	}
}

func (f *fakeCache) Upsert(ctx context.Context, quote domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.quotes[quote.ID] = quote

	return nil
}

func (f *fakeCache) FetchAll(ctx context.Context) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchAllCalls++
	if f.fetchAllErr != nil {
		return nil, f.fetchAllErr
	}

	out := make([]domain.Quote, 0, len(f.quotes))
	for _, q := range f.quotes {
		out = append(out, q.Normalized())
	}

	return out, nil
}

func (f *fakeCache) FetchFavorites(ctx context.Context) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchFavoriteCalls++
	if f.fetchFavoritesErr != nil {
		return nil, f.fetchFavoritesErr
	}

	var out []domain.Quote
	for _, q := range f.quotes {
		if q.Favorite {
			out = append(out, q.Normalized())
		}
	}

	return out, nil
}

func (f *fakeCache) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.quotes, id)
	delete(f.images, id)

	return nil
}

func (f *fakeCache) SetFavoriteFlag(ctx context.Context, id string, favorite bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.setFlagCalls++
	if f.setFlagErr != nil {
		return f.setFlagErr
	}

	q, ok := f.quotes[id]
	if !ok {
		return domain.NewNotFoundError("quote", id)
	}
	q.Favorite = favorite
	f.quotes[id] = q

	return nil
}

func (f *fakeCache) SaveUser(ctx context.Context, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.users[user.ID] = user

	return nil
}

func (f *fakeCache) User(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}

	return &user, nil
}

func (f *fakeCache) SaveUserQuote(ctx context.Context, userID string, quote domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saveUserQuoteCalls++
	f.quotes[quote.ID] = quote
	f.userQuotes[userID] = append(f.userQuotes[userID], quote.ID)

	return nil
}

func (f *fakeCache) FetchUserQuotes(ctx context.Context, userID string) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Quote
	for _, id := range f.userQuotes[userID] {
		if q, ok := f.quotes[id]; ok {
			out = append(out, q.Normalized())
		}
	}

	return out, nil
}

func (f *fakeCache) SaveImage(ctx context.Context, quoteID string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.images[quoteID] = data

	return nil
}

func (f *fakeCache) Image(ctx context.Context, quoteID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.images[quoteID]
	if !ok {
		return nil, domain.NewNotFoundError("image", quoteID)
	}

	return data, nil
}

// fakeIdentity is a ports.Identity double holding a fixed session.
type fakeIdentity struct {
	mu      sync.Mutex
	session *domain.Session

	registerErr  error
	loginErr     error
	anonymousErr error

	callbacks []func(*domain.Session)
}

func (f *fakeIdentity) Register(ctx context.Context, email, password string) (*domain.Session, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}

	session := &domain.Session{UID: "uid-" + email, Email: email, IDToken: "token"}
	f.set(session)

	return session, nil
}

func (f *fakeIdentity) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}

	session := &domain.Session{UID: "uid-" + email, Email: email, IDToken: "token"}
	f.set(session)

	return session, nil
}

func (f *fakeIdentity) LoginAnonymously(ctx context.Context) (*domain.Session, error) {
	if f.anonymousErr != nil {
		return nil, f.anonymousErr
	}

	session := &domain.Session{UID: "anon-1", Anonymous: true, IDToken: "token"}
	f.set(session)

	return session, nil
}

func (f *fakeIdentity) SignOut() {
	f.set(nil)
}

func (f *fakeIdentity) Session() (*domain.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.session, f.session != nil
}

func (f *fakeIdentity) OnStateChange(fn func(*domain.Session)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.callbacks = append(f.callbacks, fn)
}

func (f *fakeIdentity) set(session *domain.Session) {
	f.mu.Lock()
	f.session = session
	callbacks := slices.Clone(f.callbacks)
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(session)
	}
}

// fakeConnectivity is a settable ports.Connectivity double.
type fakeConnectivity struct {
	online bool
}

func (f *fakeConnectivity) Online() bool {
	return f.online
}

// fakeUploader is a ports.ImageUploader double.
type fakeUploader struct {
	url string
	err error

	calls int
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}

	return f.url, nil
}

// fakeBlob is a ports.BlobStore double.
type fakeBlob struct {
	uploadURL string
	uploadErr error
	listURLs  []string
	listErr   error

	uploadCalls int
}

func (f *fakeBlob) UploadAuthorImage(ctx context.Context, author string, data []byte, contentType string) (string, error) {
	f.uploadCalls++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}

	return f.uploadURL, nil
}

func (f *fakeBlob) ListAuthorImages(ctx context.Context, author string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	return f.listURLs, nil
}
