package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotably/quotesync/internal/adapters/http/dto"
	"github.com/quotably/quotesync/internal/app"
	"github.com/quotably/quotesync/internal/domain"
)

// FavoriteHandler handles the current user's favorite quotes.
type FavoriteHandler struct {
	coordinator *app.SyncCoordinator
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(coordinator *app.SyncCoordinator) *FavoriteHandler {
	return &FavoriteHandler{coordinator: coordinator}
}

// ListFavorites handles GET /api/v1/favorites.
// Merges remote and locally flagged favorites, remote first.
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	favorites, err := h.coordinator.LoadFavoriteQuotes(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDomainQuotes(favorites))
}

// AddFavorite handles POST /api/v1/favorites/:id.
// The quote must be in the working set; favoriting twice is a conflict.
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	quote, ok := h.lookupQuote(c)
	if !ok {
		return
	}

	if err := h.coordinator.AddFavoriteQuote(c.Request.Context(), quote); err != nil {
		dto.HandleError(c, err)
		return
	}

	quote.Favorite = true

	c.JSON(http.StatusCreated, dto.FromDomainQuote(quote))
}

// RemoveFavorite handles DELETE /api/v1/favorites/:id.
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	quote, ok := h.lookupQuote(c)
	if !ok {
		return
	}

	if err := h.coordinator.RemoveFavoriteQuote(c.Request.Context(), quote); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// lookupQuote resolves the path ID against the working sets. Responds
// with 404 and returns false when the quote is unknown.
func (h *FavoriteHandler) lookupQuote(c *gin.Context) (domain.Quote, bool) {
	id := c.Param("id")

	for _, q := range h.coordinator.Quotes() {
		if q.ID == id {
			return q, true
		}
	}

	for _, q := range h.coordinator.Favorites() {
		if q.ID == id {
			return q, true
		}
	}

	dto.HandleError(c, domain.NewNotFoundError("quote", id))

	return domain.Quote{}, false
}

// RegisterFavoriteRoutes registers favorite routes on the given router group.
func (h *FavoriteHandler) RegisterFavoriteRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	favorites.GET("", h.ListFavorites)
	favorites.POST("/:id", h.AddFavorite)
	favorites.DELETE("/:id", h.RemoveFavorite)
}
