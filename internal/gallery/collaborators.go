package gallery

import "context"

// ResultType selects how the camera hands the captured photo back
type ResultType string

const (
	ResultTypeURI     ResultType = "uri"
	ResultTypeBase64  ResultType = "base64"
	ResultTypeDataURL ResultType = "dataUrl"
)

// Source selects where the camera takes the photo from
type Source string

const (
	SourceCamera Source = "camera"
	SourcePhotos Source = "photos"
)

// CaptureOptions is the configuration passed to Camera.Capture
type CaptureOptions struct {
	ResultType ResultType
	Source     Source
	Quality    int // 0 to 100
}

// DefaultCaptureOptions requests a file reference from the live camera at maximum quality.
var DefaultCaptureOptions = CaptureOptions{
	ResultType: ResultTypeURI,
	Source:     SourceCamera,
	Quality:    100,
}

// Photo describes a captured photo. Path is set by native cameras, WebPath by
// cameras whose bytes are resolvable through a WebLoader.
type Photo struct {
	Path    string
	WebPath string
	DataURL string
	Format  string
}

// Directory selects the storage area of a filesystem operation
type Directory string

const (
	// DirectoryNone addresses host paths and URIs as-is
	DirectoryNone Directory = ""
	// DirectoryData is the application-private persistent area
	DirectoryData Directory = "data"
)

type Camera interface {
	Capture(ctx context.Context, options CaptureOptions) (*Photo, error)
}

// Filesystem stores and loads base64 encoded file contents.
type Filesystem interface {
	WriteFile(ctx context.Context, path string, data string, directory Directory) (uri string, err error)
	ReadFile(ctx context.Context, path string, directory Directory) (data string, err error)
}

// Preferences is a text-only key-value store.
type Preferences interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
}

type Platform interface {
	IsHybrid() bool
	ConvertFileSrc(uri string) string
}

// WebLoader fetches the bytes behind a web path (blob:, data: or http URLs).
type WebLoader interface {
	Load(ctx context.Context, webPath string) ([]byte, error)
}
