// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-task-keeper HTTP handlers and middleware.
//
// All Msg* constants are human-readable message strings written into the
// "message" field of HTTP response bodies. Keeping them in one place keeps
// the wording consistent throughout the API.
package app

// Auth flow outcomes.
const (
	// MsgRegistered is returned with the new user and session token.
	MsgRegistered = "user registered, check your email to verify the account"

	MsgLoggedIn  = "logged in"
	MsgLoggedOut = "logged out"

	MsgEmailVerified    = "email verified"
	MsgVerificationSent = "verification email sent"

	// MsgResetRequested is returned whether or not the email is registered,
	// so the response does not reveal which accounts exist.
	MsgResetRequested = "if the email is registered, a password reset link has been sent"

	MsgPasswordReset = "password has been reset"
)

// Resource outcomes.
const (
	MsgTaskCreated  = "task created"
	MsgTaskUpdated  = "task updated"
	MsgTaskDeleted  = "task deleted"
	MsgTaskAssigned = "task assigned"

	MsgUserDeleted = "user deleted"
)

// MsgRouteNotFound is returned for unknown routes and unsupported methods.
const MsgRouteNotFound = "route not found"
