package camera

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jo-hoe/photogallery/internal/gallery"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Spool takes photos dropped into a directory by an external capture device.
// Every file is captured at most once, newest first.
type Spool struct {
	mu        sync.Mutex
	directory string
	outputDir string
	claimed   map[string]struct{}
	processor *Processor
}

func NewSpool(directory, outputDir string, processor *Processor) (*Spool, error) {
	if directory == "" {
		return nil, fmt.Errorf("spool directory is empty")
	}
	if outputDir == "" {
		outputDir = filepath.Join(os.TempDir(), "photogallery-capture")
	}
	return &Spool{
		directory: directory,
		outputDir: outputDir,
		claimed:   make(map[string]struct{}),
		processor: processor,
	}, nil
}

func (s *Spool) Capture(ctx context.Context, options gallery.CaptureOptions) (*gallery.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.newestUnclaimed()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrCancelled
	}
	s.claimed[name] = struct{}{}

	imageData, err := os.ReadFile(filepath.Join(s.directory, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read spooled photo %s: %w", name, err)
	}
	processed, err := s.processor.Process(imageData, options.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to process spooled photo %s: %w", name, err)
	}

	outputName := strings.TrimSuffix(name, filepath.Ext(name)) + ".jpeg"
	return writeOutput(s.outputDir, outputName, processed, options)
}

func (s *Spool) newestUnclaimed() (string, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return "", fmt.Errorf("failed to list spool directory: %w", err)
	}

	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		if _, done := s.claimed[entry.Name()]; done {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest, newestTime = entry.Name(), info.ModTime()
		}
	}
	return newest, nil
}
