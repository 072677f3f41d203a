package preferences

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/photogallery/internal/gallery"
)

// Store is a gallery preference collaborator that owns a connection.
type Store interface {
	gallery.Preferences
	Close() error
}

type Config struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
	Namespace        string `yaml:"namespace"`
}

// NewStore creates the preference store described by config.
// sqlite and bolt take a file path (":memory:" for sqlite), redis takes a redis:// URL.
func NewStore(ctx context.Context, config Config) (store Store, err error) {
	switch config.Type {
	case "sqlite":
		store, err = NewSQLiteStore(ctx, config.ConnectionString)
	case "redis":
		store, err = NewRedisStore(ctx, config.ConnectionString, config.Namespace)
	case "bolt":
		store, err = NewBoltStore(config.ConnectionString)
	case "memory", "":
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported preferences type: %s", config.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s preferences: %w", config.Type, err)
	}

	slog.Info("preferences initialized successfully", "type", config.Type)
	return store, nil
}
