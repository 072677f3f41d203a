package gallery

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	// StorageKey is the preference key holding the serialized gallery
	StorageKey = "photosGallery"

	fileExtension = ".jpeg"
	mimeJPEG      = "image/jpeg"
)

// Entry is one captured photo of the gallery.
type Entry struct {
	StoragePath string `json:"storagePath"`
	DisplayPath string `json:"displayPath,omitempty"`
}

// persistedEntry is the stored projection of an Entry, the display path is never persisted.
type persistedEntry struct {
	FilePath string `json:"filepath"`
}

func encodeGallery(entries []Entry) (string, error) {
	records := make([]persistedEntry, len(entries))
	for i, entry := range entries {
		records[i] = persistedEntry{FilePath: entry.StoragePath}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to serialize gallery: %w", err)
	}
	return string(data), nil
}

func decodeGallery(value string) ([]Entry, error) {
	var records []persistedEntry
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistedStateCorrupt, err)
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, Entry{StoragePath: record.FilePath})
	}
	return entries, nil
}

// fileNameFor returns the storage file name of a photo captured at t
func fileNameFor(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10) + fileExtension
}

func dataURL(base64Data string) string {
	return "data:" + mimeJPEG + ";base64," + base64Data
}
