package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotably/quotesync/internal/adapters/http/dto"
	"github.com/quotably/quotesync/internal/app"
)

// AuthHandler handles identity provider session endpoints.
type AuthHandler struct {
	accounts *app.AccountService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts *app.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	session, err := h.accounts.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromDomainSession(session))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDomainSession(session))
}

// LoginAnonymously handles POST /api/v1/auth/anonymous.
func (h *AuthHandler) LoginAnonymously(c *gin.Context) {
	session, err := h.accounts.LoginAnonymously(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDomainSession(session))
}

// Logout handles POST /api/v1/auth/logout.
// Signing out twice is fine; the call is idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.accounts.SignOut()
	c.Status(http.StatusNoContent)
}

// RegisterAuthRoutes registers auth routes on the given router group.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/anonymous", h.LoginAnonymously)
	auth.POST("/logout", h.Logout)
}
