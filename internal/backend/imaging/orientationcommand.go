package imaging

import (
	"fmt"
	"image"
	"log/slog"
)

// OrientationParams represents typed parameters for orientation command
type OrientationParams struct {
	Orientation      string
	RotateWhenSquare bool
	Clockwise        bool
}

var validOrientations = map[string]bool{
	"portrait":  true,
	"landscape": true,
}

// NewOrientationParamsFromMap creates OrientationParams from a generic map
func NewOrientationParamsFromMap(params map[string]any) (*OrientationParams, error) {
	orientation := GetStringParam(params, "orientation", "portrait")
	if !validOrientations[orientation] {
		return nil, fmt.Errorf("invalid orientation: %s (must be 'portrait' or 'landscape')", orientation)
	}

	return &OrientationParams{
		Orientation:      orientation,
		RotateWhenSquare: GetBoolParam(params, "rotateWhenSquare", false),
		Clockwise:        GetBoolParam(params, "clockwise", true),
	}, nil
}

// OrientationCommand rotates captured photos into the configured orientation
type OrientationCommand struct {
	name   string
	params *OrientationParams
}

func NewOrientationCommand(params map[string]any) (Command, error) {
	typedParams, err := NewOrientationParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &OrientationCommand{
		name:   "OrientationCommand",
		params: typedParams,
	}, nil
}

func (c *OrientationCommand) Name() string {
	return c.name
}

func (c *OrientationCommand) GetParams() *OrientationParams {
	return c.params
}

// Execute rotates the image by 90 degrees when it does not match the target orientation.
// Images that need no rotation are returned unchanged, rotated ones are PNG encoded.
func (c *OrientationCommand) Execute(imageData []byte) ([]byte, error) {
	img, _, err := DecodeImage(imageData)
	if err != nil {
		slog.Error("OrientationCommand: failed to decode image", "error", err)
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width == height {
		if !c.params.RotateWhenSquare {
			return imageData, nil
		}
	} else if (height > width) == (c.params.Orientation == "portrait") {
		return imageData, nil
	}

	slog.Debug("OrientationCommand: rotating image 90 degrees",
		"width", width,
		"height", height,
		"clockwise", c.params.Clockwise)

	rotated := image.NewRGBA(image.Rect(0, 0, height, width))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			if c.params.Clockwise {
				// 90° clockwise: (x,y) -> (height-1-y, x)
				rotated.Set(height-1-y, x, px)
			} else {
				// 90° counterclockwise: (x,y) -> (y, width-1-x)
				rotated.Set(y, width-1-x, px)
			}
		}
	}

	out, err := encodePNG(rotated)
	if err != nil {
		slog.Error("OrientationCommand: failed to encode rotated image", "error", err)
		return nil, err
	}
	return out, nil
}
