package models

import "time"

// Identity is the authenticated principal attached to a single request.
//
// It is built from the claims of a verified session token, so Role is the
// snapshot taken when the token was issued and may lag behind the role
// currently stored for the user until the token expires.
type Identity struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`

	// TokenID is the "jti" claim of the session token the identity was
	// taken from. Empty for identities that were not built from a token.
	TokenID string `json:"-"`

	// ExpiresAt is the expiry of the session token.
	ExpiresAt time.Time `json:"-"`
}

// IsZero reports whether the identity is empty.
func (i Identity) IsZero() bool {
	return i.UserID == 0 && i.Role == ""
}
