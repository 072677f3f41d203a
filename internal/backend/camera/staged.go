package camera

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jo-hoe/photogallery/internal/backend/imaging"
	"github.com/jo-hoe/photogallery/internal/gallery"
)

const defaultMaxBlobs = 32

// Staged is a camera fed by uploads. Stage queues an uploaded image, Capture
// takes the oldest queued image and exposes it as a blob: web path.
type Staged struct {
	mu        sync.Mutex
	queue     [][]byte
	blobs     map[string][]byte
	blobOrder []string
	maxBlobs  int
	processor *Processor
}

func NewStaged(processor *Processor, maxBlobs int) *Staged {
	if maxBlobs <= 0 {
		maxBlobs = defaultMaxBlobs
	}
	return &Staged{
		blobs:     make(map[string][]byte),
		maxBlobs:  maxBlobs,
		processor: processor,
	}
}

// Stage queues an uploaded image for the next capture
func (s *Staged) Stage(imageData []byte) error {
	format, err := imaging.DetectFormat(imageData)
	if err != nil {
		return err
	}
	slog.Debug("camera: staged upload", "format", format, "size_bytes", len(imageData))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, imageData)
	return nil
}

// Pending returns the number of staged images not yet captured
func (s *Staged) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Staged) Capture(_ context.Context, options gallery.CaptureOptions) (*gallery.Photo, error) {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return nil, ErrCancelled
	}
	imageData := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()

	processed, err := s.processor.Process(imageData, options.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to process staged photo: %w", err)
	}

	id, err := newBlobID()
	if err != nil {
		return nil, err
	}
	s.storeBlob(id, processed)

	photo := &gallery.Photo{WebPath: "blob:" + id, Format: "jpeg"}
	if options.ResultType == gallery.ResultTypeDataURL {
		photo.DataURL = jpegDataURL(processed)
	}
	return photo, nil
}

// storeBlob keeps at most maxBlobs blobs, evicting the oldest
func (s *Staged) storeBlob(id string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = data
	s.blobOrder = append(s.blobOrder, id)
	for len(s.blobOrder) > s.maxBlobs {
		delete(s.blobs, s.blobOrder[0])
		s.blobOrder = s.blobOrder[1:]
	}
}

func (s *Staged) ResolveBlob(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[id]
	return data, ok
}
