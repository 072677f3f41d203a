package camera

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jo-hoe/photogallery/internal/gallery"
)

const (
	outputPlaceholder  = "{output}"
	qualityPlaceholder = "{quality}"
)

// Command captures photos by running an external program such as libcamera-still or fswebcam.
// The arguments may contain {output} and {quality} placeholders.
type Command struct {
	argv      []string
	outputDir string
	processor *Processor
}

func NewCommand(argv []string, outputDir string, processor *Processor) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("capture command is empty")
	}
	hasOutput := false
	for _, arg := range argv {
		if strings.Contains(arg, outputPlaceholder) {
			hasOutput = true
		}
	}
	if !hasOutput {
		return nil, fmt.Errorf("capture command must contain the %s placeholder", outputPlaceholder)
	}
	if outputDir == "" {
		outputDir = filepath.Join(os.TempDir(), "photogallery-capture")
	}
	return &Command{argv: argv, outputDir: outputDir, processor: processor}, nil
}

func (c *Command) Capture(ctx context.Context, options gallery.CaptureOptions) (*gallery.Photo, error) {
	workDir, err := os.MkdirTemp("", "capture-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(workDir)
	}()
	rawPath := filepath.Join(workDir, "capture.raw")

	args := make([]string, len(c.argv))
	for i, arg := range c.argv {
		arg = strings.ReplaceAll(arg, outputPlaceholder, rawPath)
		args[i] = strings.ReplaceAll(arg, qualityPlaceholder, strconv.Itoa(options.Quality))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		slog.Warn("camera: capture command failed", "command", args[0], "error", err, "output", string(output))
		return nil, fmt.Errorf("capture command %s failed: %w", args[0], err)
	}

	imageData, err := os.ReadFile(rawPath)
	if err != nil {
		// the program exited cleanly without a photo, e.g. the shutter was aborted
		return nil, fmt.Errorf("%w: no photo written by %s", ErrCancelled, args[0])
	}
	processed, err := c.processor.Process(imageData, options.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to process captured photo: %w", err)
	}

	id, err := newBlobID()
	if err != nil {
		return nil, err
	}
	return writeOutput(c.outputDir, id+".jpeg", processed, options)
}
