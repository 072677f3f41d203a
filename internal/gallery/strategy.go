package gallery

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Strategy holds the runtime dependent parts of the gallery workflow.
type Strategy interface {
	// Encode returns the base64 contents of a captured photo
	Encode(ctx context.Context, photo *Photo) (string, error)
	// Resolve builds the gallery entry of a photo written as fileName, stored at uri
	Resolve(photo *Photo, fileName, uri string) Entry
	// Rehydrate recomputes the display path of a restored entry
	Rehydrate(ctx context.Context, entry Entry) (Entry, error)
}

// NativeStrategy is used inside the hybrid runtime where photos live on the device filesystem.
type NativeStrategy struct {
	filesystem Filesystem
	platform   Platform
}

func NewNativeStrategy(filesystem Filesystem, platform Platform) *NativeStrategy {
	return &NativeStrategy{filesystem: filesystem, platform: platform}
}

func (s *NativeStrategy) Encode(ctx context.Context, photo *Photo) (string, error) {
	if photo == nil || photo.Path == "" {
		return "", fmt.Errorf("%w: photo path is not defined", ErrEncodingUnavailable)
	}
	data, err := s.filesystem.ReadFile(ctx, photo.Path, DirectoryNone)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %w", ErrEncodingUnavailable, photo.Path, err)
	}
	return data, nil
}

func (s *NativeStrategy) Resolve(_ *Photo, _ string, uri string) Entry {
	return Entry{
		StoragePath: uri,
		DisplayPath: s.platform.ConvertFileSrc(uri),
	}
}

// Rehydrate converts the stored uri again, no read is needed
func (s *NativeStrategy) Rehydrate(_ context.Context, entry Entry) (Entry, error) {
	entry.DisplayPath = s.platform.ConvertFileSrc(entry.StoragePath)
	return entry, nil
}

// BrowserStrategy is used when running without native device access.
type BrowserStrategy struct {
	filesystem Filesystem
	loader     WebLoader
}

func NewBrowserStrategy(filesystem Filesystem, loader WebLoader) *BrowserStrategy {
	return &BrowserStrategy{filesystem: filesystem, loader: loader}
}

func (s *BrowserStrategy) Encode(ctx context.Context, photo *Photo) (string, error) {
	if photo == nil || photo.WebPath == "" {
		return "", fmt.Errorf("%w: photo webPath is not defined", ErrEncodingUnavailable)
	}
	if s.loader == nil {
		return "", fmt.Errorf("%w: no web loader configured", ErrEncodingUnavailable)
	}
	body, err := s.loader.Load(ctx, photo.WebPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingUnavailable, err)
	}
	return base64.StdEncoding.EncodeToString(body), nil
}

// Resolve keeps the web path for display since its bytes are already loaded
func (s *BrowserStrategy) Resolve(photo *Photo, fileName string, _ string) Entry {
	return Entry{
		StoragePath: fileName,
		DisplayPath: photo.WebPath,
	}
}

func (s *BrowserStrategy) Rehydrate(ctx context.Context, entry Entry) (Entry, error) {
	data, err := s.filesystem.ReadFile(ctx, entry.StoragePath, DirectoryData)
	if err != nil {
		return entry, err
	}
	entry.DisplayPath = dataURL(data)
	return entry, nil
}

// NewStrategy selects the strategy matching the runtime reported by platform
func NewStrategy(platform Platform, filesystem Filesystem, loader WebLoader) Strategy {
	if platform.IsHybrid() {
		return NewNativeStrategy(filesystem, platform)
	}
	return NewBrowserStrategy(filesystem, loader)
}
