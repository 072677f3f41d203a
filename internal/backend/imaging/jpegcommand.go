package imaging

import (
	"fmt"
	"log/slog"
)

// JpegEncodeCommand converts an image of any supported format to JPEG
type JpegEncodeCommand struct {
	name    string
	quality int
}

// NewJpegEncodeCommand creates a JPEG encoder, "quality" defaults to 100
func NewJpegEncodeCommand(params map[string]any) (Command, error) {
	return NewJpegEncodeCommandWithQuality(GetIntParam(params, "quality", 100))
}

func NewJpegEncodeCommandWithQuality(quality int) (*JpegEncodeCommand, error) {
	if quality < 0 || quality > 100 {
		return nil, fmt.Errorf("quality must be between 0 and 100, got %d", quality)
	}
	// the encoder treats quality below 1 as the default, clamp instead
	if quality < 1 {
		quality = 1
	}
	return &JpegEncodeCommand{
		name:    "JpegEncodeCommand",
		quality: quality,
	}, nil
}

func (c *JpegEncodeCommand) Name() string {
	return c.name
}

func (c *JpegEncodeCommand) Quality() int {
	return c.quality
}

// Execute re-encodes the image as JPEG. JPEG input at maximum quality is passed through untouched.
func (c *JpegEncodeCommand) Execute(imageData []byte) ([]byte, error) {
	format, err := DetectFormat(imageData)
	if err != nil {
		slog.Error("JpegEncodeCommand: unsupported input", "error", err)
		return nil, err
	}
	if format == "jpeg" && c.quality == 100 {
		return imageData, nil
	}

	img, _, err := DecodeImage(imageData)
	if err != nil {
		slog.Error("JpegEncodeCommand: failed to decode image", "error", err)
		return nil, err
	}
	out, err := encodeJPEG(img, c.quality)
	if err != nil {
		slog.Error("JpegEncodeCommand: failed to encode image", "error", err)
		return nil, err
	}
	slog.Debug("JpegEncodeCommand: conversion complete",
		"input_format", format,
		"quality", c.quality,
		"input_size_bytes", len(imageData),
		"output_size_bytes", len(out))
	return out, nil
}
