package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claim set of a session token: the registered claims
// (sub, iss, iat, exp, jti) plus a snapshot of the user's role.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Role is the user's role at issuance time.
	Role Role `json:"role"`
}

// GetUserID parses the "sub" claim as a base-10 int64.
func (c *SessionClaims) GetUserID() (int64, error) {
	sub, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// Token wraps a signed session token together with its parsed claims.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// Claims holds the decoded claim set.
	Claims SessionClaims `json:"-"`

	// SignedString is the compact JWS form (header.payload.signature).
	SignedString string `json:"-"`
}

// Identity converts the token claims into a request identity.
func (t *Token) Identity() (Identity, error) {
	userID, err := t.Claims.GetUserID()
	if err != nil {
		return Identity{}, err
	}

	identity := Identity{
		UserID:  userID,
		Role:    t.Claims.Role,
		TokenID: t.Claims.ID,
	}
	if t.Claims.ExpiresAt != nil {
		identity.ExpiresAt = t.Claims.ExpiresAt.Time
	}

	return identity, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
