package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/quotably/quotesync/internal/adapters/clients"
	"github.com/quotably/quotesync/internal/domain"
	"github.com/quotably/quotesync/internal/ports"
)

// storeServiceName identifies the document store in errors and health checks.
const storeServiceName = "quote-store"

// SessionFunc returns the active session, or false when signed out.
// The store client uses it to gate writes before any network call.
type SessionFunc func() (*domain.Session, bool)

// StoreClientConfig contains configuration for the document store client.
type StoreClientConfig struct {
	// Client is the HTTP client pointed at the document store API.
	Client *clients.Client

	// Session provides the active session for gated operations.
	Session SessionFunc

	// Logger is the structured logger.
	Logger *slog.Logger
}

// StoreClient implements ports.RemoteStore against the cloud document
// store API. It translates store documents to domain types and never
// leaks raw payloads past this boundary.
type StoreClient struct {
	BaseAdapter
	session SessionFunc
	logger  *slog.Logger
}

// NewStoreClient creates a new document store adapter.
// Panics if Client or Session is nil. Defaults logger to slog.Default().
func NewStoreClient(cfg StoreClientConfig) *StoreClient {
	if cfg.Client == nil {
		panic("StoreClient: Client is required")
	}

	if cfg.Session == nil {
		panic("StoreClient: Session is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StoreClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, storeServiceName),
		session:     cfg.Session,
		logger:      logger,
	}
}

// quoteDocument is the external quote payload. Internal to the ACL.
type quoteDocument struct {
	ID          string   `json:"id"`
	Author      string   `json:"author"`
	Content     string   `json:"content"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Favorite    bool     `json:"favorite,omitempty"`
	Description string   `json:"description,omitempty"`
	SourceURL   string   `json:"sourceUrl,omitempty"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
}

// quoteListDocument wraps the collection listing payload.
type quoteListDocument struct {
	Quotes []quoteDocument `json:"quotes"`
}

// userDocument is the external user record payload. Internal to the ACL.
type userDocument struct {
	ID              string   `json:"id"`
	AuthUID         string   `json:"authUid"`
	Email           string   `json:"email,omitempty"`
	DisplayName     string   `json:"displayName,omitempty"`
	FavoriteQuotes  []string `json:"favoriteQuotes,omitempty"`
	AuthorProfileID string   `json:"authorProfileId,omitempty"`
}

// arrayUpdateDocument is the PATCH payload for array field operators.
type arrayUpdateDocument struct {
	FavoriteQuotes arrayOperation `json:"favoriteQuotes"`
}

type arrayOperation struct {
	Op     string   `json:"op"`
	Values []string `json:"values"`
}

// FetchQuotes returns the full quote set from the remote store.
// Implements ports.RemoteStore.
func (c *StoreClient) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	c.logger.DebugContext(ctx, "fetching all quotes")

	body, err := c.Get(ctx, "/v1/quotes", "fetch quotes", "")
	if err != nil {
		return nil, err
	}

	return c.parseQuoteList(body)
}

// SaveQuote creates a quote document. Implements ports.RemoteStore.
func (c *StoreClient) SaveQuote(ctx context.Context, quote domain.Quote) error {
	if _, err := c.requireSession("save quote"); err != nil {
		return err
	}

	body, err := c.PostJSON(ctx, "/v1/quotes", toQuoteDocument(quote), "save quote", quote.ID)
	if err != nil {
		return err
	}

	return body.Close()
}

// UpdateQuote overwrites all mutable fields of the quote document.
// Implements ports.RemoteStore.
func (c *StoreClient) UpdateQuote(ctx context.Context, quote domain.Quote) error {
	if _, err := c.requireSession("update quote"); err != nil {
		return err
	}

	path := "/v1/quotes/" + quote.ID

	body, err := c.PatchJSON(ctx, path, toQuoteDocument(quote), "update quote", quote.ID)
	if err != nil {
		return err
	}

	return body.Close()
}

// DeleteQuote removes the quote document. Implements ports.RemoteStore.
func (c *StoreClient) DeleteQuote(ctx context.Context, id string) error {
	if _, err := c.requireSession("delete quote"); err != nil {
		return err
	}

	return c.Delete(ctx, "/v1/quotes/"+id, "delete quote", id)
}

// FetchFavorites returns the current user's favorites sub-collection in
// store order. Implements ports.RemoteStore.
func (c *StoreClient) FetchFavorites(ctx context.Context) ([]domain.Quote, error) {
	session, err := c.requireSession("fetch favorites")
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/v1/users/%s/favorites", session.UID)

	body, err := c.Get(ctx, path, "fetch favorites", "")
	if err != nil {
		return nil, err
	}

	return c.parseQuoteList(body)
}

// SaveFavorite adds a quote to the current user's favorites. The store
// responds 409 when the favorite already exists, which maps to the
// conflict kind. Implements ports.RemoteStore.
func (c *StoreClient) SaveFavorite(ctx context.Context, quote domain.Quote) error {
	session, err := c.requireSession("save favorite")
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/v1/users/%s/favorites/%s", session.UID, quote.ID)

	doc := toQuoteDocument(quote)
	doc.Favorite = true

	body, err := c.PutJSON(ctx, path, doc, "save favorite", quote.ID)
	if err != nil {
		return err
	}

	return body.Close()
}

// DeleteFavorite removes a quote from the current user's favorites and
// clears the favorite field on the quote document if it still exists.
// Implements ports.RemoteStore.
func (c *StoreClient) DeleteFavorite(ctx context.Context, id string) error {
	session, err := c.requireSession("delete favorite")
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/v1/users/%s/favorites/%s", session.UID, id)

	if err := c.Delete(ctx, path, "delete favorite", id); err != nil {
		return err
	}

	// Quote may have been deleted by its author in the meantime.
	clearErr := c.clearQuoteFavorite(ctx, id)
	if clearErr != nil && !domain.IsNotFound(clearErr) {
		return clearErr
	}

	return nil
}

// clearQuoteFavorite patches the favorite field off on a quote document.
func (c *StoreClient) clearQuoteFavorite(ctx context.Context, id string) error {
	payload := map[string]bool{"favorite": false}

	body, err := c.PatchJSON(ctx, "/v1/quotes/"+id, payload, "clear favorite flag", id)
	if err != nil {
		return err
	}

	return body.Close()
}

// CreateUser creates the user record for a fresh session.
// Implements ports.RemoteStore.
func (c *StoreClient) CreateUser(ctx context.Context, user domain.User) error {
	if _, err := c.requireSession("create user"); err != nil {
		return err
	}

	body, err := c.PostJSON(ctx, "/v1/users", toUserDocument(user), "create user", user.ID)
	if err != nil {
		return err
	}

	return body.Close()
}

// User fetches a user record. Implements ports.RemoteStore.
func (c *StoreClient) User(ctx context.Context, id string) (*domain.User, error) {
	body, err := c.Get(ctx, "/v1/users/"+id, "fetch user", id)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeResponse[userDocument](body)
	if err != nil {
		return nil, domain.NewParseError("user", err)
	}

	return toDomainUser(doc), nil
}

// UpdateUserFavorites applies an array operator to the favorites field of
// a user record. Implements ports.RemoteStore.
func (c *StoreClient) UpdateUserFavorites(ctx context.Context, userID, quoteID string, op ports.ArrayOp) error {
	if _, err := c.requireSession("update user favorites"); err != nil {
		return err
	}

	payload := arrayUpdateDocument{
		FavoriteQuotes: arrayOperation{
			Op:     string(op),
			Values: []string{quoteID},
		},
	}

	body, err := c.PatchJSON(ctx, "/v1/users/"+userID, payload, "update user favorites", userID)
	if err != nil {
		return err
	}

	return body.Close()
}

// requireSession fails fast before any network call when signed out.
func (c *StoreClient) requireSession(op string) (*domain.Session, error) {
	session, ok := c.session()
	if !ok {
		return nil, domain.NewAuthError(op, domain.ErrUnauthenticated)
	}

	return session, nil
}

// parseQuoteList decodes a collection listing and translates each
// document, applying defaults for missing optional fields.
func (c *StoreClient) parseQuoteList(body io.ReadCloser) ([]domain.Quote, error) {
	defer func() { _ = body.Close() }()

	var list quoteListDocument
	if err := json.NewDecoder(body).Decode(&list); err != nil {
		return nil, domain.NewParseError("quote list", err)
	}

	quotes := make([]domain.Quote, 0, len(list.Quotes))
	for i := range list.Quotes {
		quotes = append(quotes, toDomainQuote(&list.Quotes[i]))
	}

	return quotes, nil
}

// toDomainQuote translates the external document to a domain Quote.
// Missing category and tags get explicit defaults rather than zero values
// leaking through.
func toDomainQuote(doc *quoteDocument) domain.Quote {
	category := doc.Category
	if category == "" {
		category = domain.DefaultCategory
	}

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}

	quote := domain.Quote{
		ID:          doc.ID,
		Author:      doc.Author,
		Content:     doc.Content,
		Category:    category,
		Tags:        tags,
		Favorite:    doc.Favorite,
		Description: doc.Description,
		SourceURL:   doc.SourceURL,
		ImageURLs:   doc.ImageURLs,
	}

	return quote.WithImageFallback()
}

// toQuoteDocument translates a domain Quote to the external document.
// The placeholder image URL is never written back to the store.
func toQuoteDocument(quote domain.Quote) quoteDocument {
	imageURLs := quote.ImageURLs
	if len(imageURLs) == 1 && imageURLs[0] == domain.PlaceholderImageURL {
		imageURLs = nil
	}

	return quoteDocument{
		ID:          quote.ID,
		Author:      quote.Author,
		Content:     quote.Content,
		Category:    quote.Category,
		Tags:        quote.Tags,
		Favorite:    quote.Favorite,
		Description: quote.Description,
		SourceURL:   quote.SourceURL,
		ImageURLs:   imageURLs,
	}
}

// toDomainUser translates the external user record to a domain User.
func toDomainUser(doc *userDocument) *domain.User {
	favorites := doc.FavoriteQuotes
	if favorites == nil {
		favorites = []string{}
	}

	return &domain.User{
		ID:              doc.ID,
		AuthUID:         doc.AuthUID,
		Email:           doc.Email,
		DisplayName:     doc.DisplayName,
		FavoriteIDs:     favorites,
		AuthorProfileID: doc.AuthorProfileID,
	}
}

// toUserDocument translates a domain User to the external user record.
func toUserDocument(user domain.User) userDocument {
	return userDocument{
		ID:              user.ID,
		AuthUID:         user.AuthUID,
		Email:           user.Email,
		DisplayName:     user.DisplayName,
		FavoriteQuotes:  user.FavoriteIDs,
		AuthorProfileID: user.AuthorProfileID,
	}
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *StoreClient) Name() string {
	return storeServiceName
}

// Check verifies connectivity by listing the quotes collection.
// Implements ports.HealthChecker.
func (c *StoreClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, "/v1/quotes", "health check", "")
	if err != nil {
		return err
	}

	return body.Close()
}
