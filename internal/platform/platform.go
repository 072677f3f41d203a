package platform

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	RuntimeHybrid  = "hybrid"
	RuntimeBrowser = "browser"

	// FileRoutePrefix is the route under which converted file URIs are served
	FileRoutePrefix = "/_capacitor_file_"
)

// Platform answers runtime queries for the gallery.
type Platform struct {
	hybrid     bool
	fileOrigin string
}

// New creates a platform for the given runtime name. fileOrigin is the origin
// converted file URIs point to, an empty origin yields root-relative paths.
func New(runtime string, fileOrigin string) (*Platform, error) {
	var hybrid bool
	switch strings.ToLower(strings.TrimSpace(runtime)) {
	case RuntimeHybrid:
		hybrid = true
	case RuntimeBrowser, "":
		hybrid = false
	default:
		return nil, fmt.Errorf("unsupported runtime: %s", runtime)
	}

	origin := strings.TrimRight(fileOrigin, "/")
	if origin != "" {
		if _, err := url.Parse(origin); err != nil {
			return nil, fmt.Errorf("invalid file origin %s: %w", fileOrigin, err)
		}
	}

	return &Platform{hybrid: hybrid, fileOrigin: origin}, nil
}

func (p *Platform) IsHybrid() bool {
	return p.hybrid
}

// Runtime returns the runtime name
func (p *Platform) Runtime() string {
	if p.hybrid {
		return RuntimeHybrid
	}
	return RuntimeBrowser
}

// ConvertFileSrc rewrites a file:// URI into a URL the web layer can load.
// Other values are returned unchanged.
func (p *Platform) ConvertFileSrc(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	path := strings.TrimPrefix(uri, "file://")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return p.fileOrigin + FileRoutePrefix + path
}

// FilePathFromRoute is the inverse of ConvertFileSrc for a request path below FileRoutePrefix
func FilePathFromRoute(routePath string) (string, bool) {
	if !strings.HasPrefix(routePath, FileRoutePrefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(routePath, FileRoutePrefix), true
}
