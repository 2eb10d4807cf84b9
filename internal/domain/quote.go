// Package domain contains core business entities and rules.
package domain

// DefaultCategory is the bucket assigned to quotes stored without one.
const DefaultCategory = "general"

// PlaceholderImageURL is substituted when a quote carries no author images.
// Every quote returned from a store has at least this one URL.
const PlaceholderImageURL = "https://static.quotably.io/authors/placeholder.png"

// Quote is the central entity: a quotation with its author and metadata.
// It has no knowledge of where it is stored; the same value flows between
// the remote store, the local cache, and the presentation layer, joined
// by its ID.
type Quote struct {
	// ID is the unique identifier, stable across remote and local
	// representations. It is the join key for every merge operation.
	ID string

	// Author is who said or wrote the quote.
	Author string

	// Content is the text of the quote.
	Content string

	// Category groups quotes into a browsing bucket.
	// Defaults to DefaultCategory when absent in a stored document.
	Category string

	// Tags are free-text themes, order preserved.
	Tags []string

	// Favorite marks the quote as favorited by the current user.
	Favorite bool

	// Description is optional long-form context for the quote.
	Description string

	// SourceURL optionally points at the quote's origin.
	SourceURL string

	// ImageURLs lists author image URLs. Never empty after decode:
	// stores substitute PlaceholderImageURL for a missing list.
	ImageURLs []string

	// CachedImagePath is set when the first author image has been
	// downloaded into the local cache for offline display.
	CachedImagePath string
}

// WithImageFallback returns the quote with a single placeholder image URL
// substituted when the image list is empty or absent.
func (q Quote) WithImageFallback() Quote {
	if len(q.ImageURLs) == 0 {
		q.ImageURLs = []string{PlaceholderImageURL}
	}
	return q
}

// Normalized returns the quote with read-time defaults applied: the
// category bucket and the image URL fallback.
func (q Quote) Normalized() Quote {
	if q.Category == "" {
		q.Category = DefaultCategory
	}
	return q.WithImageFallback()
}

// DedupeByID unions quote lists by identifier, keeping the first
// occurrence of each ID. Relative order within and across the inputs is
// preserved, so callers control precedence by argument order.
func DedupeByID(lists ...[]Quote) []Quote {
	seen := make(map[string]struct{})
	var out []Quote

	for _, list := range lists {
		for _, q := range list {
			if _, ok := seen[q.ID]; ok {
				continue
			}
			seen[q.ID] = struct{}{}
			out = append(out, q)
		}
	}

	return out
}
