package backend

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/photogallery/internal/backend/filesystem"
	"github.com/jo-hoe/photogallery/internal/core"
	"github.com/jo-hoe/photogallery/internal/gallery"
	"github.com/jo-hoe/photogallery/internal/platform"
	"github.com/labstack/echo/v4"
)

const (
	mimeJPEG        = "image/jpeg"
	maxUploadMemory = 32 << 20
)

type APIService struct {
	coreService *core.CoreService
}

type PhotoResponse struct {
	StoragePath string `json:"storagePath"`
	DisplayPath string `json:"displayPath,omitempty"`
	// URL is the display path in a form a web client can load
	URL string `json:"url,omitempty"`
}

type listPhotosRequest struct {
	Limit int `query:"limit" validate:"min=0"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/probe", s.probeHandler)

	e.GET("/api/photos", s.listPhotosHandler)
	e.POST("/api/photos", s.capturePhotoHandler)
	e.POST("/api/photos/restore", s.restoreHandler)
	e.GET("/api/blob/:id", s.blobHandler)

	e.GET(platform.FileRoutePrefix+"/*", s.fileHandler)
	e.GET("/metrics", echo.WrapHandler(s.coreService.Metrics().Handler()))
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "API Service is running")
}

func (s *APIService) listPhotosHandler(ctx echo.Context) error {
	request := new(listPhotosRequest)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := ctx.Validate(request); err != nil {
		return err
	}

	photos := toPhotoResponses(s.coreService.Entries())
	if request.Limit > 0 && request.Limit < len(photos) {
		photos = photos[:request.Limit]
	}
	return ctx.JSON(http.StatusOK, photos)
}

func (s *APIService) capturePhotoHandler(ctx echo.Context) error {
	if s.coreService.AcceptsUploads() {
		upload, status, err := readUpload(ctx)
		if err != nil {
			slog.Warn("capturePhotoHandler: invalid upload", "status", status, "error", err)
			return ctx.JSON(status, errorResponse{Message: err.Error()})
		}
		if err := s.coreService.Stage(upload); err != nil {
			slog.Warn("capturePhotoHandler: upload is not an image",
				"status", http.StatusUnsupportedMediaType, "error", err)
			return ctx.JSON(http.StatusUnsupportedMediaType, errorResponse{Message: "upload is not a supported image"})
		}
	}

	entry, err := s.coreService.Capture(ctx.Request().Context())
	switch {
	case errors.Is(err, gallery.ErrCaptureAborted):
		return ctx.JSON(http.StatusConflict, errorResponse{Message: "capture aborted"})
	case errors.Is(err, gallery.ErrPersistedStateUnavailable):
		slog.Error("capturePhotoHandler: gallery not loaded", "status", http.StatusServiceUnavailable, "error", err)
		return ctx.JSON(http.StatusServiceUnavailable, errorResponse{Message: "gallery store unavailable"})
	case errors.Is(err, gallery.ErrStorageWriteFailed):
		slog.Error("capturePhotoHandler: failed to store photo", "status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to store photo"})
	case err != nil:
		slog.Error("capturePhotoHandler: capture failed", "status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to save gallery"})
	case entry == nil:
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusCreated, toPhotoResponse(*entry))
}

func (s *APIService) restoreHandler(ctx echo.Context) error {
	if err := s.coreService.Restore(ctx.Request().Context()); err != nil {
		slog.Error("restoreHandler: restore failed", "status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to restore gallery"})
	}
	return ctx.JSON(http.StatusOK, toPhotoResponses(s.coreService.Entries()))
}

func (s *APIService) blobHandler(ctx echo.Context) error {
	data, ok := s.coreService.Blob(ctx.Request().Context(), ctx.Param("id"))
	if !ok {
		return ctx.JSON(http.StatusNotFound, errorResponse{Message: "blob not found"})
	}
	return ctx.Blob(http.StatusOK, mimeJPEG, data)
}

func (s *APIService) fileHandler(ctx echo.Context) error {
	data, err := s.coreService.ReadFileRoute(ctx.Request().Context(), ctx.Request().URL.Path)
	if errors.Is(err, filesystem.ErrNotFound) {
		return ctx.JSON(http.StatusNotFound, errorResponse{Message: "file not found"})
	}
	if err != nil {
		slog.Error("fileHandler: failed to read file", "path", ctx.Request().URL.Path, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to read file"})
	}
	return ctx.Blob(http.StatusOK, mimeJPEG, data)
}

// readUpload returns the multipart "image" field or a raw image body
func readUpload(ctx echo.Context) ([]byte, int, error) {
	request := ctx.Request()
	if err := request.ParseMultipartForm(maxUploadMemory); err == nil {
		file, err := ctx.FormFile("image")
		if err != nil {
			return nil, http.StatusBadRequest, errors.New("missing image field")
		}
		src, err := file.Open()
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		defer func() {
			if cerr := src.Close(); cerr != nil {
				slog.Error("readUpload: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
			}
		}()
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return data, http.StatusOK, nil
	}

	data, err := io.ReadAll(io.LimitReader(request.Body, maxUploadMemory))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, errors.New("missing image upload")
	}
	return data, http.StatusOK, nil
}

func toPhotoResponse(entry gallery.Entry) PhotoResponse {
	return PhotoResponse{
		StoragePath: entry.StoragePath,
		DisplayPath: entry.DisplayPath,
		URL:         core.DisplayURL(entry.DisplayPath),
	}
}

func toPhotoResponses(entries []gallery.Entry) []PhotoResponse {
	photos := make([]PhotoResponse, 0, len(entries))
	for _, entry := range entries {
		photos = append(photos, toPhotoResponse(entry))
	}
	return photos
}
