package camera

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jo-hoe/photogallery/internal/backend/imaging"
	"github.com/jo-hoe/photogallery/internal/gallery"
)

// ErrCancelled is returned when no photo was taken
var ErrCancelled = errors.New("user cancelled photos app")

// Processor applies the configured capture pipeline and encodes the result as JPEG.
type Processor struct {
	commands []imaging.Command
}

func NewProcessor(configs []imaging.CommandConfig) (*Processor, error) {
	commands, err := imaging.BuildCommands(configs)
	if err != nil {
		return nil, err
	}
	return &Processor{commands: commands}, nil
}

// Process runs the pipeline followed by a JPEG encode at the requested quality
func (p *Processor) Process(imageData []byte, quality int) ([]byte, error) {
	encoder, err := imaging.NewJpegEncodeCommandWithQuality(quality)
	if err != nil {
		return nil, err
	}
	commands := make([]imaging.Command, 0, len(p.commands)+1)
	commands = append(commands, p.commands...)
	commands = append(commands, encoder)
	return imaging.NewCommandInvoker(commands).Execute(imageData)
}

func jpegDataURL(data []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

// writeOutput stores processed bytes for native cameras and returns the photo describing them
func writeOutput(outputDir, name string, data []byte, options gallery.CaptureOptions) (*gallery.Photo, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	target := filepath.Join(outputDir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write captured photo: %w", err)
	}

	photo := &gallery.Photo{Path: target, Format: "jpeg"}
	if options.ResultType == gallery.ResultTypeDataURL {
		photo.DataURL = jpegDataURL(data)
	}
	return photo, nil
}
