// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role is the access level granted to a user account.
type Role string

const (
	// RoleUser is the default role assigned at registration. It grants
	// access to the user's own tasks only.
	RoleUser Role = "user"

	// RoleModerator can read, update, delete and reassign any task and can
	// list users.
	RoleModerator Role = "moderator"

	// RoleAdmin has every moderator permission and additionally manages
	// user roles and user deletion.
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether r grants cross-ownership permissions.
func (r Role) IsPrivileged() bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// User represents an account entity used for authentication and authorization.
// PasswordHash is a bcrypt digest and is never serialized.
type User struct {
	// UserID is the unique identifier assigned by the store.
	UserID int64 `json:"id"`

	// Username is unique across all accounts.
	Username string `json:"username"`

	// Email is unique across all accounts and is the login identifier.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// It must never leave the service layer.
	PasswordHash string `json:"-"`

	// Role is the current access level of the user.
	Role Role `json:"role"`

	// EmailVerified flips to true exactly once, when a verify-email
	// action token is redeemed.
	EmailVerified bool `json:"email_verified"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Identity returns the authorization identity of the user as of now.
func (u User) Identity() Identity {
	return Identity{UserID: u.UserID, Role: u.Role}
}

// Public returns a copy of u with the credential fields cleared.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
