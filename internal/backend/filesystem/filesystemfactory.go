package filesystem

import (
	"context"
	"fmt"
	"log/slog"
)

type schemaCreator interface {
	CreateSchema(ctx context.Context) error
}

// NewFilesystem creates the filesystem collaborator of the given type.
// For "sqlite" the connection string is a DSN, for "directory" it is the root directory.
func NewFilesystem(ctx context.Context, filesystemType, connectionString string) (service FileService, err error) {
	switch filesystemType {
	case "sqlite":
		service, err = NewSQLiteFilesystem(connectionString)
	case "directory":
		service, err = NewDirectoryFilesystem(connectionString)
	default:
		return nil, fmt.Errorf("unsupported filesystem type: %s", filesystemType)
	}
	if err != nil {
		return nil, err
	}

	// idempotent, important for in-memory SQLite
	slog.Info("initializing filesystem storage", "type", filesystemType)
	if creator, ok := service.(schemaCreator); ok {
		if err := creator.CreateSchema(ctx); err != nil {
			_ = service.Close()
			return nil, fmt.Errorf("failed to initialize filesystem: %w", err)
		}
	}
	return service, nil
}
