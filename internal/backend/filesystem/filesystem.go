package filesystem

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/jo-hoe/photogallery/internal/gallery"
)

var (
	ErrNotFound    = errors.New("file does not exist")
	ErrInvalidPath = errors.New("invalid file path")
)

const fileScheme = "file://"

// FileService is a gallery filesystem collaborator backed by a storage engine.
type FileService interface {
	gallery.Filesystem

	// ResolveURI maps a URI returned by WriteFile back to its path in the data directory
	ResolveURI(uri string) (name string, ok bool)
	Close() error
}

// cleanName validates a path relative to a directory
func cleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return cleaned, nil
}

func decodeData(data string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("file data is not valid base64: %w", err)
	}
	return raw, nil
}

func encodeData(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// readHostFile reads a path or file:// URI from the local disk
func readHostFile(hostPath string) (string, error) {
	hostPath = strings.TrimPrefix(hostPath, fileScheme)
	raw, err := os.ReadFile(hostPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, hostPath)
		}
		return "", fmt.Errorf("failed to read %s: %w", hostPath, err)
	}
	return encodeData(raw), nil
}
