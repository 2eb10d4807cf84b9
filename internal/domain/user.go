package domain

// User is the application-level user record backing favorites and
// authored quotes. Created on registration or anonymous sign-in,
// updated on profile edits; never deleted by this service.
type User struct {
	// ID is the unique user record identifier.
	ID string

	// AuthUID is the identity provider's identifier for this user.
	AuthUID string

	// Email is optional; anonymous users have none.
	Email string

	// DisplayName is optional.
	DisplayName string

	// FavoriteIDs lists the user's favorite quote identifiers, as
	// maintained on the remote user record via array updates.
	FavoriteIDs []string

	// AuthorProfileID optionally links the user to an author profile.
	AuthorProfileID string
}

// Session is the opaque authenticated session returned by the identity
// provider. One session is active per process at most.
type Session struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	Anonymous    bool
}
