package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotably/quotesync/internal/adapters/http/dto"
	"github.com/quotably/quotesync/internal/app"
)

// QuoteHandler handles quote browsing and authoring endpoints.
type QuoteHandler struct {
	coordinator *app.SyncCoordinator
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(coordinator *app.SyncCoordinator) *QuoteHandler {
	return &QuoteHandler{coordinator: coordinator}
}

// ListQuotes handles GET /api/v1/quotes.
// Loads the full quote set: remote store when online (write-through to
// the cache), local cache when offline.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	quotes, err := h.coordinator.LoadAllQuotes(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDomainQuotes(quotes))
}

// RandomQuote handles GET /api/v1/quotes/random.
// Picks from the in-memory working set without touching a store.
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	quote, err := h.coordinator.RandomQuote()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDomainQuote(quote))
}

// CreateQuote handles POST /api/v1/quotes.
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	quote, err := h.coordinator.AddQuote(c.Request.Context(), req.ToDomainQuote())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromDomainQuote(quote))
}

// UpdateQuote handles PUT /api/v1/quotes/:id.
// Overwrites all mutable fields in the remote store and the cache.
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	quote := req.ToDomainQuote(id)

	if err := h.coordinator.UpdateQuote(c.Request.Context(), quote); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDomainQuote(quote.Normalized()))
}

// DeleteQuote handles DELETE /api/v1/quotes/:id.
// Removes the quote from both stores.
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	id := c.Param("id")

	if err := h.coordinator.DeleteQuote(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/random", h.RandomQuote)
	quotes.POST("", h.CreateQuote)
	quotes.PUT("/:id", h.UpdateQuote)
	quotes.DELETE("/:id", h.DeleteQuote)
}
