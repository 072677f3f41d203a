// Package main provides a one-shot CLI that restores the gallery, takes a
// photo with the configured camera and prints the resulting gallery as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jo-hoe/photogallery/internal/core"
)

func main() {
	var configPath string
	var imagePath string
	var restoreOnly bool

	flag.StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML configuration")
	flag.StringVar(&imagePath, "image", "", "image to upload when the camera takes uploads")
	flag.BoolVar(&restoreOnly, "restore-only", false, "print the restored gallery without capturing")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configPath, imagePath, restoreOnly); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, imagePath string, restoreOnly bool) error {
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return err
	}
	coreService, err := core.NewCoreService(ctx, config)
	if err != nil {
		return err
	}
	defer func() {
		_ = coreService.Close()
	}()

	if !restoreOnly {
		if imagePath != "" {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return fmt.Errorf("failed to read image %s: %w", imagePath, err)
			}
			if err := coreService.Stage(data); err != nil {
				return fmt.Errorf("failed to stage %s: %w", imagePath, err)
			}
		}
		entry, err := coreService.Capture(ctx)
		if err != nil {
			return err
		}
		if entry == nil {
			fmt.Fprintln(os.Stderr, "photo could not be read, gallery unchanged")
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(coreService.Entries())
}

func defaultConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(cwd, "config.yaml")
}
