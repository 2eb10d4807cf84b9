package dto

import "github.com/quotably/quotesync/internal/domain"

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the payload for credential sign-in.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is the API representation of an open session.
type SessionResponse struct {
	UID          string `json:"uid"`
	Email        string `json:"email,omitempty"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	Anonymous    bool   `json:"anonymous"`
}

// FromDomainSession translates a domain session to its API representation.
func FromDomainSession(s *domain.Session) SessionResponse {
	return SessionResponse{
		UID:          s.UID,
		Email:        s.Email,
		IDToken:      s.IDToken,
		RefreshToken: s.RefreshToken,
		Anonymous:    s.Anonymous,
	}
}

// UploadedImageResponse carries the URLs produced by an author image upload.
type UploadedImageResponse struct {
	HostedURL string `json:"hostedUrl"`
	StoredURL string `json:"storedUrl"`
}

// ImageListResponse wraps the resolved URLs of an author's stored images.
type ImageListResponse struct {
	Author string   `json:"author"`
	URLs   []string `json:"urls"`
}
