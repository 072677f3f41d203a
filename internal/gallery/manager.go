package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Dependencies are the collaborators of a Manager. Loader is only used in the browser runtime.
type Dependencies struct {
	Camera      Camera
	Filesystem  Filesystem
	Preferences Preferences
	Platform    Platform
	Loader      WebLoader
}

type Option func(*Manager)

// WithClock replaces the clock used to name captured files
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithRestoreConcurrency sets how many entries are rehydrated in parallel during Restore
func WithRestoreConcurrency(workers int) Option {
	return func(m *Manager) {
		if workers > 0 {
			m.restoreConcurrency = workers
		}
	}
}

// WithStrategy overrides the strategy selected from the platform
func WithStrategy(strategy Strategy) Option {
	return func(m *Manager) {
		m.strategy = strategy
	}
}

// Manager owns the gallery. Capture and restore calls are serialized.
type Manager struct {
	mu      sync.Mutex
	entries []Entry
	// loaded is set once the persisted gallery has been read
	loaded bool

	camera      Camera
	filesystem  Filesystem
	preferences Preferences
	strategy    Strategy

	now                func() time.Time
	restoreConcurrency int
}

func NewManager(deps Dependencies, options ...Option) (*Manager, error) {
	if deps.Camera == nil || deps.Filesystem == nil || deps.Preferences == nil || deps.Platform == nil {
		return nil, errors.New("camera, filesystem, preferences and platform are required")
	}

	manager := &Manager{
		entries:            []Entry{},
		camera:             deps.Camera,
		filesystem:         deps.Filesystem,
		preferences:        deps.Preferences,
		strategy:           NewStrategy(deps.Platform, deps.Filesystem, deps.Loader),
		now:                time.Now,
		restoreConcurrency: 1,
	}
	for _, option := range options {
		option(manager)
	}
	return manager, nil
}

// CaptureAndAdd takes a photo, stores it and prepends it to the gallery.
// A photo that cannot be encoded yields (nil, nil) and leaves the gallery unchanged.
// The persisted gallery is loaded first if no Restore has read it yet.
func (m *Manager) CaptureAndAdd(ctx context.Context) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		if err := m.restore(ctx); err != nil && !m.loaded {
			return nil, err
		}
	}

	photo, err := m.camera.Capture(ctx, DefaultCaptureOptions)
	if err != nil {
		slog.Info("gallery: capture aborted", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCaptureAborted, err)
	}
	if photo == nil {
		return nil, fmt.Errorf("%w: camera returned no photo", ErrCaptureAborted)
	}

	data, err := m.strategy.Encode(ctx, photo)
	if err != nil {
		slog.Warn("gallery: error reading or converting photo", "error", err,
			"path", photo.Path, "web_path", photo.WebPath)
		return nil, nil
	}

	fileName := fileNameFor(m.now())
	uri, err := m.filesystem.WriteFile(ctx, fileName, data, DirectoryData)
	if err != nil {
		slog.Error("gallery: failed to write photo", "file", fileName, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrStorageWriteFailed, fileName, err)
	}

	entry := m.strategy.Resolve(photo, fileName, uri)
	m.entries = append([]Entry{entry}, m.entries...)
	slog.Info("gallery: photo added", "storage_path", entry.StoragePath, "size", len(m.entries))

	if err := m.persist(ctx); err != nil {
		return &entry, err
	}
	return &entry, nil
}

// Restore loads the gallery from the preference store.
// Missing or corrupt state results in an empty gallery. Entries that cannot be
// read back are kept without a display path and ErrPerEntryReadFailed is returned.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.restore(ctx)
}

func (m *Manager) restore(ctx context.Context) error {
	value, ok, err := m.preferences.Get(ctx, StorageKey)
	if err != nil {
		slog.Error("gallery: failed to read stored gallery", "error", err)
		return fmt.Errorf("%w: %s: %w", ErrPersistedStateUnavailable, StorageKey, err)
	}

	entries := []Entry{}
	if ok {
		decoded, err := decodeGallery(value)
		if err != nil {
			slog.Warn("gallery: error parsing stored gallery, starting empty", "error", err)
		} else {
			entries = decoded
		}
	}

	restored := make([]Entry, len(entries))
	copy(restored, entries)
	err = forEachIndex(len(entries), m.restoreConcurrency, func(i int) error {
		entry, err := m.strategy.Rehydrate(ctx, entries[i])
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPerEntryReadFailed, entries[i].StoragePath, err)
		}
		restored[i] = entry
		return nil
	})

	m.entries = restored
	m.loaded = true
	if err != nil {
		slog.Error("gallery: restore incomplete", "error", err, "size", len(restored))
		return err
	}
	slog.Info("gallery: restored", "size", len(restored))
	return nil
}

// Entries returns a copy of the gallery, most recent first
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

func (m *Manager) persist(ctx context.Context) error {
	value, err := encodeGallery(m.entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	if err := m.preferences.Set(ctx, StorageKey, value); err != nil {
		slog.Error("gallery: failed to persist gallery", "error", err)
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}
