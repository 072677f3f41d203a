package frontend

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jo-hoe/photogallery/internal/backend/imaging"
	"github.com/jo-hoe/photogallery/internal/core"
	"github.com/jo-hoe/photogallery/internal/gallery"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"
	mimePNG      = "image/png"
	iconSize     = 180

	jpegDataURLPrefix = "data:image/jpeg;base64,"
)

const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64" viewBox="0 0 64 64">
	<rect x="4" y="14" width="56" height="40" rx="6" fill="#2f5d8a"/>
	<rect x="20" y="8" width="24" height="10" rx="3" fill="#2f5d8a"/>
	<circle cx="32" cy="34" r="13" fill="#ffffff"/>
	<circle cx="32" cy="34" r="8" fill="#7fb2e0"/>
	<circle cx="50" cy="22" r="3" fill="#ffd166"/>
</svg>`

type FrontendService struct {
	coreService *core.CoreService

	iconOnce sync.Once
	iconPNG  []byte
	iconErr  error
}

type photoView struct {
	StoragePath  string
	URL          any
	ThumbnailURL string
}

type indexView struct {
	AcceptsUploads bool
	Message        string
	Photos         []photoView
}

func NewFrontendService(coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: template.Must(template.New(MainPageName).Parse(indexTemplate)),
	}

	e.GET("/", service.rootRedirectHandler)
	e.GET("/"+MainPageName, service.indexHandler)
	e.POST("/capture", service.captureHandler)
	e.GET("/thumbnail/:index", service.thumbnailHandler)

	e.GET("/icon.svg", service.iconHandler)
	e.GET("/icon.png", service.iconPNGHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	ts := service.timestampNanoStr()
	entries := service.coreService.Entries()
	view := indexView{
		AcceptsUploads: service.coreService.AcceptsUploads(),
		Message:        ctx.QueryParam("result"),
		Photos:         make([]photoView, 0, len(entries)),
	}
	for i, entry := range entries {
		view.Photos = append(view.Photos, photoView{
			StoragePath:  entry.StoragePath,
			URL:          photoURL(entry.DisplayPath),
			ThumbnailURL: fmt.Sprintf("/thumbnail/%d?ts=%s", i, ts),
		})
	}

	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, MainPageName, view)
}

func (service *FrontendService) captureHandler(ctx echo.Context) error {
	if service.coreService.AcceptsUploads() {
		image, err := readFormImage(ctx)
		if err != nil {
			slog.Error("captureHandler: failed to read uploaded file", "status", http.StatusBadRequest, "error", err)
			return service.redirectWithResult(ctx, "No photo was uploaded.")
		}
		if err := service.coreService.Stage(image); err != nil {
			slog.Warn("captureHandler: upload is not an image", "error", err)
			return service.redirectWithResult(ctx, "The upload is not a supported image.")
		}
	}

	entry, err := service.coreService.Capture(ctx.Request().Context())
	switch {
	case errors.Is(err, gallery.ErrCaptureAborted):
		return service.redirectWithResult(ctx, "Capture was cancelled.")
	case err != nil && entry == nil:
		slog.Error("captureHandler: failed to store photo", "error", err)
		return service.redirectWithResult(ctx, "The photo could not be stored.")
	case err != nil:
		slog.Error("captureHandler: failed to save gallery", "error", err)
		return service.redirectWithResult(ctx, "The photo was taken but the gallery could not be saved.")
	case entry == nil:
		return service.redirectWithResult(ctx, "The photo could not be read.")
	}
	return service.redirectWithResult(ctx, "Saved "+entry.StoragePath)
}

func (service *FrontendService) thumbnailHandler(ctx echo.Context) error {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid index")
	}
	thumbnail, err := service.coreService.Thumbnail(ctx.Request().Context(), index)
	if err != nil || len(thumbnail) == 0 {
		slog.Warn("thumbnailHandler: thumbnail not available",
			"status", http.StatusNotFound, "index", index, "error", err)
		return ctx.String(http.StatusNotFound, "Thumbnail not available")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", []byte(iconSVG))
}

func (service *FrontendService) iconPNGHandler(ctx echo.Context) error {
	service.iconOnce.Do(func() {
		service.iconPNG, service.iconErr = imaging.RenderSVG([]byte(iconSVG), iconSize, iconSize)
	})
	if service.iconErr != nil {
		slog.Error("iconPNGHandler: failed to render icon", "status", http.StatusInternalServerError, "error", service.iconErr)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimePNG, service.iconPNG)
}

func (service *FrontendService) redirectWithResult(ctx echo.Context, message string) error {
	return ctx.Redirect(http.StatusSeeOther, "/"+MainPageName+"?result="+url.QueryEscape(message))
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) timestampNanoStr() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// photoURL trusts only the JPEG data URLs built on restore. Every other value
// is left to the URL sanitizer of html/template.
func photoURL(displayPath string) any {
	link := core.DisplayURL(displayPath)
	if strings.HasPrefix(link, jpegDataURLPrefix) {
		return template.URL(link)
	}
	return link
}

func readFormImage(ctx echo.Context) ([]byte, error) {
	file, err := ctx.FormFile("image")
	if err != nil {
		return nil, err
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("readFormImage: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("uploaded file is empty")
	}
	return data, nil
}
