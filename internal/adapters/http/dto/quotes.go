package dto

import "github.com/quotably/quotesync/internal/domain"

// QuoteResponse is the API representation of a quote.
type QuoteResponse struct {
	ID          string   `json:"id"`
	Author      string   `json:"author"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Favorite    bool     `json:"favorite"`
	Description string   `json:"description,omitempty"`
	SourceURL   string   `json:"sourceUrl,omitempty"`
	ImageURLs   []string `json:"imageUrls"`
}

// QuoteListResponse wraps a list of quotes.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Count  int             `json:"count"`
}

// CreateQuoteRequest is the payload for authoring a quote.
type CreateQuoteRequest struct {
	Author      string   `json:"author"      validate:"required,notempty"`
	Content     string   `json:"content"     validate:"required,notempty"`
	Category    string   `json:"category"    validate:"omitempty,max=64"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,notempty"`
	Description string   `json:"description" validate:"omitempty,max=2048"`
	SourceURL   string   `json:"sourceUrl"   validate:"omitempty,url"`
	ImageURLs   []string `json:"imageUrls"   validate:"omitempty,dive,url"`
}

// UpdateQuoteRequest is the payload for overwriting a quote's mutable
// fields. The quote ID comes from the path.
type UpdateQuoteRequest struct {
	Author      string   `json:"author"      validate:"required,notempty"`
	Content     string   `json:"content"     validate:"required,notempty"`
	Category    string   `json:"category"    validate:"omitempty,max=64"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,notempty"`
	Favorite    bool     `json:"favorite"`
	Description string   `json:"description" validate:"omitempty,max=2048"`
	SourceURL   string   `json:"sourceUrl"   validate:"omitempty,url"`
	ImageURLs   []string `json:"imageUrls"   validate:"omitempty,dive,url"`
}

// FromDomainQuote translates a domain quote to its API representation.
func FromDomainQuote(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		Author:      q.Author,
		Content:     q.Content,
		Category:    q.Category,
		Tags:        q.Tags,
		Favorite:    q.Favorite,
		Description: q.Description,
		SourceURL:   q.SourceURL,
		ImageURLs:   q.ImageURLs,
	}
}

// FromDomainQuotes translates a quote list to its API representation.
func FromDomainQuotes(quotes []domain.Quote) QuoteListResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, FromDomainQuote(q))
	}

	return QuoteListResponse{Quotes: out, Count: len(out)}
}

// ToDomainQuote translates a create request to a domain quote.
func (r *CreateQuoteRequest) ToDomainQuote() domain.Quote {
	return domain.Quote{
		Author:      r.Author,
		Content:     r.Content,
		Category:    r.Category,
		Tags:        r.Tags,
		Description: r.Description,
		SourceURL:   r.SourceURL,
		ImageURLs:   r.ImageURLs,
	}
}

// ToDomainQuote translates an update request plus path ID to a domain quote.
func (r *UpdateQuoteRequest) ToDomainQuote(id string) domain.Quote {
	return domain.Quote{
		ID:          id,
		Author:      r.Author,
		Content:     r.Content,
		Category:    r.Category,
		Tags:        r.Tags,
		Favorite:    r.Favorite,
		Description: r.Description,
		SourceURL:   r.SourceURL,
		ImageURLs:   r.ImageURLs,
	}
}
