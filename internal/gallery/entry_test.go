package gallery

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeGallery_OmitsDisplayPath(t *testing.T) {
	value, err := encodeGallery([]Entry{
		{StoragePath: "2.jpeg", DisplayPath: "blob:two"},
		{StoragePath: "1.jpeg"},
	})
	if err != nil {
		t.Fatalf("encodeGallery error: %v", err)
	}
	if want := `[{"filepath":"2.jpeg"},{"filepath":"1.jpeg"}]`; value != want {
		t.Fatalf("expected %s, got %s", want, value)
	}
}

func TestEncodeGallery_Empty(t *testing.T) {
	value, err := encodeGallery(nil)
	if err != nil {
		t.Fatalf("encodeGallery error: %v", err)
	}
	if value != "[]" {
		t.Fatalf("expected [], got %s", value)
	}
}

func TestDecodeGallery_IgnoresUnknownFields(t *testing.T) {
	entries, err := decodeGallery(`[{"filepath":"1.jpeg","webviewPath":"blob:x"}]`)
	if err != nil {
		t.Fatalf("decodeGallery error: %v", err)
	}
	if len(entries) != 1 || entries[0] != (Entry{StoragePath: "1.jpeg"}) {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestDecodeGallery_Corrupt(t *testing.T) {
	_, err := decodeGallery("{not valid json")
	if !errors.Is(err, ErrPersistedStateCorrupt) {
		t.Fatalf("expected ErrPersistedStateCorrupt, got %v", err)
	}
}

func TestFileNameFor(t *testing.T) {
	got := fileNameFor(time.UnixMilli(1700000000000))
	if got != "1700000000000.jpeg" {
		t.Fatalf("expected 1700000000000.jpeg, got %s", got)
	}
}
