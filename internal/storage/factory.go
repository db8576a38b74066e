package storage

import (
	"fmt"

	"github.com/fueltrace/fleetsim/internal/config"
	"github.com/fueltrace/fleetsim/internal/storage/memory"
)

// NewBackend creates a session recorder based on configuration.
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case "memory":
		return memory.New(cfg), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
