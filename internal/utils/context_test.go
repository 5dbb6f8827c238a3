// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-task-keeper/models"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestIdentityCtxKey(t *testing.T) {
	if IdentityCtxKey.String() != "identity" {
		t.Errorf("expected 'identity', got '%s'", IdentityCtxKey.String())
	}
}

func TestGetIdentityFromContext_Success(t *testing.T) {
	ctx := WithIdentity(context.Background(), models.Identity{UserID: 42, Role: models.RoleAdmin})

	identity, ok := GetIdentityFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if identity.UserID != 42 {
		t.Errorf("expected userID=42, got %d", identity.UserID)
	}
	if identity.Role != models.RoleAdmin {
		t.Errorf("expected role admin, got %s", identity.Role)
	}
}

func TestGetIdentityFromContext_Missing(t *testing.T) {
	identity, ok := GetIdentityFromContext(context.Background())

	if ok {
		t.Fatal("expected ok=false, got true")
	}
	if !identity.IsZero() {
		t.Errorf("expected zero identity, got %+v", identity)
	}
}

func TestGetIdentityFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), IdentityCtxKey, int64(42))

	if _, ok := GetIdentityFromContext(ctx); ok {
		t.Fatal("expected ok=false for wrong type, got true")
	}
}

func TestGetIdentityFromContext_ZeroValue(t *testing.T) {
	ctx := WithIdentity(context.Background(), models.Identity{})

	if _, ok := GetIdentityFromContext(ctx); ok {
		t.Fatal("expected ok=false for zero identity, got true")
	}
}

func TestGetIdentityFromContext_DifferentKey(t *testing.T) {
	otherKey := contextKey("otherKey")
	ctx := context.WithValue(context.Background(), otherKey, models.Identity{UserID: 99})

	if _, ok := GetIdentityFromContext(ctx); ok {
		t.Fatal("expected ok=false for different key, got true")
	}
}
