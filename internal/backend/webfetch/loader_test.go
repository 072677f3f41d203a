package webfetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mapResolver map[string][]byte

func (m mapResolver) ResolveBlob(id string) ([]byte, bool) {
	data, ok := m[id]
	return data, ok
}

func TestLoad_Blob(t *testing.T) {
	loader := NewLoader(WithBlobResolver(mapResolver{"abc": []byte("photo")}))

	data, err := loader.Load(context.Background(), "blob:abc")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if string(data) != "photo" {
		t.Fatalf("expected photo, got %q", data)
	}

	if _, err := loader.Load(context.Background(), "blob:missing"); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed for unknown blob, got %v", err)
	}
}

func TestLoad_BlobWithoutResolver(t *testing.T) {
	if _, err := NewLoader().Load(context.Background(), "blob:abc"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected ErrUnsupportedScheme, got %v", err)
	}
}

func TestLoad_DataURL(t *testing.T) {
	loader := NewLoader()
	tests := map[string]string{
		"data:image/jpeg;base64,QkFTRTY0REFUQQ==": "BASE64DATA",
		"data:text/plain,hello%20world":           "hello world",
	}
	for in, want := range tests {
		data, err := loader.Load(context.Background(), in)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", in, err)
		}
		if string(data) != want {
			t.Errorf("Load(%q) = %q, want %q", in, data, want)
		}
	}
	if _, err := loader.Load(context.Background(), "data:nocomma"); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed for malformed data url, got %v", err)
	}
}

func TestLoad_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photo.jpeg":
			_, _ = w.Write([]byte("jpeg bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	loader := NewLoader(WithHTTPClient(server.Client()), WithBaseURL(server.URL))

	data, err := loader.Load(context.Background(), server.URL+"/photo.jpeg")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Fatalf("unexpected body %q", data)
	}

	data, err = loader.Load(context.Background(), "/photo.jpeg")
	if err != nil || string(data) != "jpeg bytes" {
		t.Fatalf("expected root relative path to resolve, got %q, %v", data, err)
	}

	if _, err := loader.Load(context.Background(), server.URL+"/missing"); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed for 404, got %v", err)
	}
}

func TestLoad_HTTPBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 100))
	}))
	t.Cleanup(server.Close)

	loader := NewLoader(WithHTTPClient(server.Client()), WithMaxBytes(10))
	if _, err := loader.Load(context.Background(), server.URL); !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed for oversized body, got %v", err)
	}
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	for _, path := range []string{"ftp://host/a.jpeg", "capacitor://x", "/relative-without-base"} {
		if _, err := NewLoader().Load(context.Background(), path); !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("Load(%q): expected ErrUnsupportedScheme, got %v", path, err)
		}
	}
}
