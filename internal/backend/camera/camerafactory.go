package camera

import (
	"fmt"

	"github.com/jo-hoe/photogallery/internal/backend/imaging"
	"github.com/jo-hoe/photogallery/internal/gallery"
)

type Config struct {
	Type            string                  `yaml:"type"`
	SpoolDirectory  string                  `yaml:"spoolDirectory"`
	OutputDirectory string                  `yaml:"outputDirectory"`
	Command         []string                `yaml:"command"`
	MaxBlobs        int                     `yaml:"maxBlobs"`
	Commands        []imaging.CommandConfig `yaml:"commands"`
}

// NewCamera creates the camera described by config
func NewCamera(config Config) (gallery.Camera, error) {
	processor, err := NewProcessor(config.Commands)
	if err != nil {
		return nil, fmt.Errorf("invalid capture pipeline: %w", err)
	}

	switch config.Type {
	case "upload", "":
		return NewStaged(processor, config.MaxBlobs), nil
	case "spool":
		return NewSpool(config.SpoolDirectory, config.OutputDirectory, processor)
	case "command":
		return NewCommand(config.Command, config.OutputDirectory, processor)
	default:
		return nil, fmt.Errorf("unsupported camera type: %s", config.Type)
	}
}
