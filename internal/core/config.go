package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/jo-hoe/photogallery/internal/backend/camera"
	"github.com/jo-hoe/photogallery/internal/backend/imaging"
	"github.com/jo-hoe/photogallery/internal/backend/preferences"
	"github.com/jo-hoe/photogallery/internal/platform"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = 8080
	defaultThumbnailWidth = 320
)

type Filesystem struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type ServiceConfig struct {
	Port int `yaml:"port"`
	// Runtime is either "hybrid" or "browser"
	Runtime    string `yaml:"runtime"`
	FileOrigin string `yaml:"fileOrigin"`
	// BaseURL resolves root-relative web paths of captured photos
	BaseURL            string             `yaml:"baseURL"`
	RestoreConcurrency int                `yaml:"restoreConcurrency"`
	ThumbnailWidth     int                `yaml:"thumbnailWidth"`
	Filesystem         Filesystem         `yaml:"filesystem"`
	Preferences        preferences.Config `yaml:"preferences"`
	Camera             camera.Config      `yaml:"camera"`
}

// envOverrides are applied on top of the YAML file
type envOverrides struct {
	Port       int    `env:"GALLERY_PORT"`
	Runtime    string `env:"GALLERY_RUNTIME"`
	FileOrigin string `env:"GALLERY_FILE_ORIGIN"`
	RedisAddr  string `env:"GALLERY_REDIS_ADDR"`
}

// DefaultConfig returns a configuration that keeps everything in memory
func DefaultConfig() *ServiceConfig {
	config := &ServiceConfig{
		Filesystem: Filesystem{
			Type:             "sqlite",
			ConnectionString: ":memory:",
		},
		Preferences: preferences.Config{Type: "memory"},
		Camera:      camera.Config{Type: "upload"},
	}
	config.setDefaults()
	return config
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment to %s: %w", configPath, err)
	}
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

func (config *ServiceConfig) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if overrides.Port != 0 {
		config.Port = overrides.Port
	}
	if overrides.Runtime != "" {
		config.Runtime = overrides.Runtime
	}
	if overrides.FileOrigin != "" {
		config.FileOrigin = overrides.FileOrigin
	}
	if overrides.RedisAddr != "" {
		config.Preferences.Type = "redis"
		config.Preferences.ConnectionString = redisURL(overrides.RedisAddr)
	}
	return nil
}

func (config *ServiceConfig) setDefaults() {
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.Runtime == "" {
		config.Runtime = platform.RuntimeBrowser
	}
	if config.RestoreConcurrency == 0 {
		config.RestoreConcurrency = 1
	}
	if config.ThumbnailWidth == 0 {
		config.ThumbnailWidth = defaultThumbnailWidth
	}
	if config.Filesystem.Type == "" {
		config.Filesystem.Type = "sqlite"
	}
	if config.Filesystem.Type == "sqlite" && config.Filesystem.ConnectionString == "" {
		config.Filesystem.ConnectionString = ":memory:"
	}
}

// Validate checks values the collaborators would otherwise reject at startup
func (config *ServiceConfig) Validate() error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port out of range: %d", config.Port)
	}
	if _, err := platform.New(config.Runtime, config.FileOrigin); err != nil {
		return err
	}
	if config.RestoreConcurrency < 0 {
		return fmt.Errorf("restoreConcurrency must not be negative, got %d", config.RestoreConcurrency)
	}
	if config.ThumbnailWidth < 0 {
		return fmt.Errorf("thumbnailWidth must not be negative, got %d", config.ThumbnailWidth)
	}

	switch config.Filesystem.Type {
	case "sqlite", "directory":
	default:
		return fmt.Errorf("unsupported filesystem type: %s", config.Filesystem.Type)
	}
	switch config.Preferences.Type {
	case "sqlite", "redis", "bolt", "memory", "":
	default:
		return fmt.Errorf("unsupported preferences type: %s", config.Preferences.Type)
	}
	switch config.Camera.Type {
	case "upload", "":
	case "spool":
		if config.Camera.SpoolDirectory == "" {
			return fmt.Errorf("spool camera requires spoolDirectory")
		}
	case "command":
		if len(config.Camera.Command) == 0 {
			return fmt.Errorf("command camera requires command")
		}
	default:
		return fmt.Errorf("unsupported camera type: %s", config.Camera.Type)
	}

	if err := validateCameraRuntime(config.Runtime, config.Camera.Type); err != nil {
		return err
	}

	if err := validateCommands(config.Camera.Commands); err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}
	return nil
}

// validateCommands ensures all command configurations have required fields
func validateCommands(commands []imaging.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}
		if !imaging.DefaultRegistry.IsRegistered(cmd.Name) {
			return fmt.Errorf("unknown command: %s", cmd.Name)
		}
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true
	}

	return nil
}

// validateCameraRuntime rejects cameras whose photos the runtime cannot read.
// Uploads only carry a web path, spool and command cameras only a file path.
func validateCameraRuntime(runtime, cameraType string) error {
	uploads := cameraType == "upload" || cameraType == ""
	hybrid := runtime == platform.RuntimeHybrid
	if hybrid && uploads {
		return fmt.Errorf("%s runtime requires a spool or command camera", platform.RuntimeHybrid)
	}
	if !hybrid && !uploads {
		return fmt.Errorf("%s camera requires the %s runtime", cameraType, platform.RuntimeHybrid)
	}
	return nil
}

func redisURL(addr string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	return "redis://" + addr
}
