package filesystem

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jo-hoe/photogallery/internal/gallery"

	_ "modernc.org/sqlite"
)

// SQLiteFilesystem stores files as blobs. Its URIs are virtual file:// URIs
// of the form file:///<directory>/<path>.
type SQLiteFilesystem struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteFilesystem(connectionString string) (*SQLiteFilesystem, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// a single connection keeps in-memory databases shared and serializes writers
	db.SetMaxOpenConns(1)

	return &SQLiteFilesystem{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteFilesystem) CreateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS files (
		directory TEXT NOT NULL,
		path TEXT NOT NULL,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (directory, path)
	)`)
	return err
}

func (s *SQLiteFilesystem) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteFilesystem) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteFilesystem) WriteFile(ctx context.Context, name string, data string, directory gallery.Directory) (string, error) {
	if directory == gallery.DirectoryNone {
		return "", fmt.Errorf("%w: writes require a directory", ErrInvalidPath)
	}
	cleaned, err := cleanName(name)
	if err != nil {
		return "", err
	}
	raw, err := decodeData(data)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO files (directory, path, data, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(directory, path) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
		string(directory), cleaned, raw, time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", cleaned, err)
	}
	return fileScheme + "/" + string(directory) + "/" + cleaned, nil
}

func (s *SQLiteFilesystem) ReadFile(ctx context.Context, name string, directory gallery.Directory) (string, error) {
	if directory == gallery.DirectoryNone {
		if stored, ok := s.ResolveURI(name); ok {
			return s.readBlob(ctx, gallery.DirectoryData, stored)
		}
		return readHostFile(name)
	}

	cleaned, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return s.readBlob(ctx, directory, cleaned)
}

func (s *SQLiteFilesystem) readBlob(ctx context.Context, directory gallery.Directory, name string) (string, error) {
	row := s.db.QueryRowContext(ctx, "SELECT data FROM files WHERE directory = ? AND path = ?", string(directory), name)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s/%s", ErrNotFound, directory, name)
		}
		return "", err
	}
	return encodeData(raw), nil
}

func (s *SQLiteFilesystem) ResolveURI(uri string) (string, bool) {
	prefix := fileScheme + "/" + string(gallery.DirectoryData) + "/"
	if !strings.HasPrefix(uri, prefix) {
		return "", false
	}
	name, err := cleanName(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return "", false
	}
	return name, true
}
