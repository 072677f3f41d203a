package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jo-hoe/photogallery/internal/backend/camera"
	"github.com/jo-hoe/photogallery/internal/backend/filesystem"
	"github.com/jo-hoe/photogallery/internal/backend/imaging"
	"github.com/jo-hoe/photogallery/internal/backend/preferences"
	"github.com/jo-hoe/photogallery/internal/backend/webfetch"
	"github.com/jo-hoe/photogallery/internal/gallery"
	"github.com/jo-hoe/photogallery/internal/platform"
)

// ErrUploadUnsupported is returned by Stage when the configured camera does not take uploads
var ErrUploadUnsupported = errors.New("camera does not accept uploads")

const blobScheme = "blob:"

// CoreService wires the gallery manager to its configured collaborators.
type CoreService struct {
	config      *ServiceConfig
	filesystem  filesystem.FileService
	preferences preferences.Store
	staged      *camera.Staged
	platform    *platform.Platform
	manager     *gallery.Manager
	metrics     *Metrics
}

// NewCoreService creates all collaborators and restores the persisted gallery
func NewCoreService(ctx context.Context, config *ServiceConfig) (*CoreService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	plat, err := platform.New(config.Runtime, config.FileOrigin)
	if err != nil {
		return nil, err
	}

	fileService, err := filesystem.NewFilesystem(ctx, config.Filesystem.Type, config.Filesystem.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filesystem: %w", err)
	}
	slog.Info("filesystem initialized successfully", "type", config.Filesystem.Type)

	store, err := preferences.NewStore(ctx, config.Preferences)
	if err != nil {
		_ = fileService.Close()
		return nil, err
	}

	cam, err := camera.NewCamera(config.Camera)
	if err != nil {
		_ = fileService.Close()
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize camera: %w", err)
	}

	loaderOptions := []webfetch.Option{webfetch.WithBaseURL(config.BaseURL)}
	staged, _ := cam.(*camera.Staged)
	if staged != nil {
		loaderOptions = append(loaderOptions, webfetch.WithBlobResolver(staged))
	}

	manager, err := gallery.NewManager(gallery.Dependencies{
		Camera:      cam,
		Filesystem:  fileService,
		Preferences: store,
		Platform:    plat,
		Loader:      webfetch.NewLoader(loaderOptions...),
	}, gallery.WithRestoreConcurrency(config.RestoreConcurrency))
	if err != nil {
		_ = fileService.Close()
		_ = store.Close()
		return nil, err
	}

	service := &CoreService{
		config:      config,
		filesystem:  fileService,
		preferences: store,
		staged:      staged,
		platform:    plat,
		manager:     manager,
		metrics:     NewMetrics(),
	}

	// unreadable entries stay in the gallery, an unreadable store is retried by the next capture
	if err := service.Restore(ctx); err != nil {
		slog.Warn("core: initial restore failed", "error", err)
	}
	slog.Info("core service started", "runtime", plat.Runtime(), "camera", config.Camera.Type,
		"entries", len(manager.Entries()))
	return service, nil
}

func (service *CoreService) Capture(ctx context.Context) (*gallery.Entry, error) {
	entry, err := service.manager.CaptureAndAdd(ctx)
	service.metrics.recordCapture(entry, err)
	service.metrics.GallerySize.Set(float64(len(service.manager.Entries())))
	return entry, err
}

// Stage queues an uploaded image for the next capture
func (service *CoreService) Stage(imageData []byte) error {
	if service.staged == nil {
		return ErrUploadUnsupported
	}
	return service.staged.Stage(imageData)
}

// AcceptsUploads reports whether captures are fed by uploads
func (service *CoreService) AcceptsUploads() bool {
	return service.staged != nil
}

func (service *CoreService) Restore(ctx context.Context) error {
	err := service.manager.Restore(ctx)
	service.metrics.recordRestore(err)
	service.metrics.GallerySize.Set(float64(len(service.manager.Entries())))
	return err
}

func (service *CoreService) Entries() []gallery.Entry {
	return service.manager.Entries()
}

// Blob returns the bytes of a captured upload. Blobs evicted from the camera
// are served from the stored file of the entry that still shows them.
func (service *CoreService) Blob(ctx context.Context, id string) ([]byte, bool) {
	if service.staged == nil {
		return nil, false
	}
	if data, ok := service.staged.ResolveBlob(id); ok {
		return data, true
	}
	for _, entry := range service.manager.Entries() {
		if entry.DisplayPath != blobScheme+id {
			continue
		}
		data, err := service.ReadPhoto(ctx, entry.StoragePath)
		if err != nil {
			slog.Warn("core: failed to read evicted blob", "id", id, "storage_path", entry.StoragePath, "error", err)
			return nil, false
		}
		return data, true
	}
	return nil, false
}

// ReadPhoto returns the stored bytes of a gallery entry
func (service *CoreService) ReadPhoto(ctx context.Context, storagePath string) ([]byte, error) {
	name := storagePath
	if resolved, ok := service.filesystem.ResolveURI(storagePath); ok {
		name = resolved
	}
	data, err := service.filesystem.ReadFile(ctx, name, gallery.DirectoryData)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(data)
}

// ReadFileRoute serves a converted file URI. Only files in the data directory are reachable.
func (service *CoreService) ReadFileRoute(ctx context.Context, routePath string) ([]byte, error) {
	hostPath, ok := platform.FilePathFromRoute(routePath)
	if !ok {
		return nil, filesystem.ErrNotFound
	}
	uri := "file://" + hostPath
	if _, ok := service.filesystem.ResolveURI(uri); !ok {
		return nil, fmt.Errorf("%w: %s", filesystem.ErrNotFound, hostPath)
	}
	return service.ReadPhoto(ctx, uri)
}

// Thumbnail returns a PNG thumbnail of the entry at index
func (service *CoreService) Thumbnail(ctx context.Context, index int) ([]byte, error) {
	entries := service.manager.Entries()
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("%w: no entry at index %d", filesystem.ErrNotFound, index)
	}
	photo, err := service.ReadPhoto(ctx, entries[index].StoragePath)
	if err != nil {
		return nil, err
	}
	command, err := imaging.NewThumbnailCommand(service.config.ThumbnailWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail command: %w", err)
	}
	thumbnail, err := command.Execute(photo)
	if err != nil {
		return nil, fmt.Errorf("failed to generate thumbnail: %w", err)
	}
	return thumbnail, nil
}

// DisplayURL maps a display path to a URL a web client can load
func DisplayURL(displayPath string) string {
	if id, ok := strings.CutPrefix(displayPath, blobScheme); ok {
		return "/api/blob/" + id
	}
	return displayPath
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

func (service *CoreService) Metrics() *Metrics {
	return service.metrics
}

func (service *CoreService) Close() error {
	return errors.Join(service.filesystem.Close(), service.preferences.Close())
}
