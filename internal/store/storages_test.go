package store

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorages_InMemory(t *testing.T) {
	storages, err := NewStorages(context.Background(), &config.StructuredConfig{}, logger.Nop())
	require.NoError(t, err)

	assert.IsType(t, &memoryUserRepository{}, storages.Users)
	assert.IsType(t, &memoryTaskRepository{}, storages.Tasks)
	assert.IsType(t, &memoryActionTokenRepository{}, storages.ActionTokens)
	assert.IsType(t, &memoryRevocationStore{}, storages.Revocations)
	assert.NoError(t, storages.Close())
}
