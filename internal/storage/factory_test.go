package storage_test

import (
	"testing"

	"github.com/fueltrace/fleetsim/internal/config"
	"github.com/fueltrace/fleetsim/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{Backend: "memory", OutputDir: t.TempDir()})
	require.NoError(t, err)
	require.NotNil(t, b)

	_, exportable := b.(storage.Exportable)
	assert.True(t, exportable, "memory backend should expose its export path")
}

func TestNewBackend_None(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{Backend: "none"})
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Backend: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}
