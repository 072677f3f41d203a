package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jo-hoe/photogallery/internal/gallery"
)

// DirectoryFilesystem stores files below a root directory on the local disk.
type DirectoryFilesystem struct {
	root string
}

func NewDirectoryFilesystem(root string) (*DirectoryFilesystem, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: root directory is empty", ErrInvalidPath)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	return &DirectoryFilesystem{root: abs}, nil
}

func (d *DirectoryFilesystem) CreateSchema(_ context.Context) error {
	return os.MkdirAll(d.directoryPath(gallery.DirectoryData), 0o755)
}

func (d *DirectoryFilesystem) Close() error {
	return nil
}

func (d *DirectoryFilesystem) directoryPath(directory gallery.Directory) string {
	return filepath.Join(d.root, string(directory))
}

func (d *DirectoryFilesystem) WriteFile(_ context.Context, name string, data string, directory gallery.Directory) (string, error) {
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

	target := filepath.Join(d.directoryPath(directory), filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", cleaned, err)
	}
	// write to a temp file first so readers never observe a partial photo
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", cleaned, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to move %s into place: %w", cleaned, err)
	}
	return fileScheme + filepath.ToSlash(target), nil
}

func (d *DirectoryFilesystem) ReadFile(_ context.Context, name string, directory gallery.Directory) (string, error) {
	if directory == gallery.DirectoryNone {
		return readHostFile(name)
	}
	cleaned, err := cleanName(name)
	if err != nil {
		return "", err
	}

	target := filepath.Join(d.directoryPath(directory), filepath.FromSlash(cleaned))
	raw, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s/%s", ErrNotFound, directory, cleaned)
		}
		return "", fmt.Errorf("failed to read %s: %w", cleaned, err)
	}
	return encodeData(raw), nil
}

func (d *DirectoryFilesystem) ResolveURI(uri string) (string, bool) {
	prefix := fileScheme + filepath.ToSlash(d.directoryPath(gallery.DirectoryData)) + "/"
	if !strings.HasPrefix(uri, prefix) {
		return "", false
	}
	name, err := cleanName(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return "", false
	}
	return name, true
}
