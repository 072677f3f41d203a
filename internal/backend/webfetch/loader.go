package webfetch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrFetchFailed is returned for responses that are not successful
	ErrFetchFailed = errors.New("fetch failed")
	// ErrUnsupportedScheme is returned for web paths the loader cannot resolve
	ErrUnsupportedScheme = errors.New("unsupported web path scheme")
)

const defaultMaxBytes = 64 << 20

// BlobResolver resolves blob: URLs to the bytes they reference.
type BlobResolver interface {
	ResolveBlob(id string) ([]byte, bool)
}

type Option func(*Loader)

func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

func WithBlobResolver(resolver BlobResolver) Option {
	return func(l *Loader) {
		l.blobs = resolver
	}
}

// WithBaseURL resolves root-relative web paths against base
func WithBaseURL(base string) Option {
	return func(l *Loader) {
		l.baseURL = strings.TrimRight(base, "/")
	}
}

// WithMaxBytes limits the size of a fetched body
func WithMaxBytes(limit int64) Option {
	return func(l *Loader) {
		if limit > 0 {
			l.maxBytes = limit
		}
	}
}

// Loader fetches the bytes behind blob:, data: and http(s) web paths.
type Loader struct {
	client   *http.Client
	blobs    BlobResolver
	baseURL  string
	maxBytes int64
}

func NewLoader(options ...Option) *Loader {
	loader := &Loader{
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBytes: defaultMaxBytes,
	}
	for _, option := range options {
		option(loader)
	}
	return loader
}

func (l *Loader) Load(ctx context.Context, webPath string) ([]byte, error) {
	switch {
	case strings.HasPrefix(webPath, "blob:"):
		return l.loadBlob(webPath)
	case strings.HasPrefix(webPath, "data:"):
		return decodeDataURL(webPath)
	case strings.HasPrefix(webPath, "http://"), strings.HasPrefix(webPath, "https://"):
		return l.loadHTTP(ctx, webPath)
	case strings.HasPrefix(webPath, "/") && l.baseURL != "":
		return l.loadHTTP(ctx, l.baseURL+webPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, webPath)
	}
}

func (l *Loader) loadBlob(webPath string) ([]byte, error) {
	if l.blobs == nil {
		return nil, fmt.Errorf("%w: no blob resolver for %s", ErrUnsupportedScheme, webPath)
	}
	data, ok := l.blobs.ResolveBlob(strings.TrimPrefix(webPath, "blob:"))
	if !ok {
		return nil, fmt.Errorf("%w: %s: Not Found", ErrFetchFailed, webPath)
	}
	return data, nil
}

func (l *Loader) loadHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("invalid url %s: %w", rawURL, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	response, err := l.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetchFailed, rawURL, http.StatusText(response.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", rawURL, err)
	}
	if int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("%w: %s: body exceeds %d bytes", ErrFetchFailed, rawURL, l.maxBytes)
	}
	return body, nil
}

// decodeDataURL decodes data:[<mediatype>][;base64],<data>
func decodeDataURL(webPath string) ([]byte, error) {
	header, payload, found := strings.Cut(strings.TrimPrefix(webPath, "data:"), ",")
	if !found {
		return nil, fmt.Errorf("%w: malformed data url", ErrFetchFailed)
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed base64 payload: %w", ErrFetchFailed, err)
		}
		return data, nil
	}
	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed data url payload: %w", ErrFetchFailed, err)
	}
	return []byte(unescaped), nil
}
