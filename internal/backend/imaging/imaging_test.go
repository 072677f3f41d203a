package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func createTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	return cfg.Width, cfg.Height, format
}

func TestJpegEncodeCommand_ConvertsPNG(t *testing.T) {
	command, err := NewJpegEncodeCommand(map[string]any{"quality": 80})
	if err != nil {
		t.Fatalf("NewJpegEncodeCommand error: %v", err)
	}
	out, err := command.Execute(createTestPNG(t, 40, 20))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	w, h, format := decodeSize(t, out)
	if format != "jpeg" || w != 40 || h != 20 {
		t.Fatalf("expected 40x20 jpeg, got %dx%d %s", w, h, format)
	}
}

func TestJpegEncodeCommand_PassesThroughMaxQualityJPEG(t *testing.T) {
	command, err := NewJpegEncodeCommandWithQuality(100)
	if err != nil {
		t.Fatalf("NewJpegEncodeCommandWithQuality error: %v", err)
	}
	input := createTestJPEG(t, 8, 8)
	out, err := command.Execute(input)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatal("expected JPEG input to be passed through at quality 100")
	}
}

func TestJpegEncodeCommand_InvalidInput(t *testing.T) {
	if _, err := NewJpegEncodeCommandWithQuality(101); err == nil {
		t.Error("expected error for quality above 100")
	}
	if _, err := NewJpegEncodeCommandWithQuality(-1); err == nil {
		t.Error("expected error for negative quality")
	}
	command, _ := NewJpegEncodeCommandWithQuality(0)
	if command.Quality() != 1 {
		t.Errorf("expected quality 0 to be clamped to 1, got %d", command.Quality())
	}
	if _, err := command.Execute([]byte("not an image")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestPixelScaleCommand(t *testing.T) {
	tests := []struct {
		name         string
		params       map[string]any
		wantW, wantH int
	}{
		{name: "width only", params: map[string]any{"width": 50}, wantW: 50, wantH: 25},
		{name: "height only", params: map[string]any{"height": 10}, wantW: 20, wantH: 10},
		{name: "both", params: map[string]any{"width": 30, "height": 30}, wantW: 30, wantH: 30},
	}
	input := createTestPNG(t, 100, 50)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command, err := NewPixelScaleCommand(tt.params)
			if err != nil {
				t.Fatalf("NewPixelScaleCommand error: %v", err)
			}
			out, err := command.Execute(input)
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			w, h, format := decodeSize(t, out)
			if format != "png" || w != tt.wantW || h != tt.wantH {
				t.Fatalf("expected %dx%d png, got %dx%d %s", tt.wantW, tt.wantH, w, h, format)
			}
		})
	}
}

func TestPixelScaleParams_Invalid(t *testing.T) {
	for _, params := range []map[string]any{
		{},
		{"width": 0},
		{"height": -5},
	} {
		if _, err := NewPixelScaleParamsFromMap(params); err == nil {
			t.Errorf("expected error for params %v", params)
		}
	}
}

func TestOrientationCommand(t *testing.T) {
	landscape := createTestPNG(t, 40, 20)
	square := createTestPNG(t, 16, 16)

	portrait, err := NewOrientationCommand(map[string]any{"orientation": "portrait"})
	if err != nil {
		t.Fatalf("NewOrientationCommand error: %v", err)
	}
	out, err := portrait.Execute(landscape)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if w, h, _ := decodeSize(t, out); w != 20 || h != 40 {
		t.Fatalf("expected rotated 20x40, got %dx%d", w, h)
	}

	landscapeCommand, _ := NewOrientationCommand(map[string]any{"orientation": "landscape"})
	out, err = landscapeCommand.Execute(landscape)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(out, landscape) {
		t.Error("expected image already in target orientation to be unchanged")
	}

	out, err = portrait.Execute(square)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !bytes.Equal(out, square) {
		t.Error("expected square image to be unchanged without rotateWhenSquare")
	}

	if _, err := NewOrientationCommand(map[string]any{"orientation": "diagonal"}); err == nil {
		t.Error("expected error for invalid orientation")
	}
}

func TestOrientationCommand_ClockwisePixelMapping(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	command, _ := NewOrientationCommand(map[string]any{"orientation": "portrait", "clockwise": true})
	out, err := command.Execute(buf.Bytes())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	rotated, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	// clockwise: the left pixel moves to the top
	if r, _, _, _ := rotated.At(0, 0).RGBA(); r != 0xffff {
		t.Errorf("expected red pixel at top, got %v", rotated.At(0, 0))
	}
	if _, _, b, _ := rotated.At(0, 1).RGBA(); b != 0xffff {
		t.Errorf("expected blue pixel at bottom, got %v", rotated.At(0, 1))
	}
}

func TestRegistry(t *testing.T) {
	registry := NewCommandRegistry()
	factory := func(map[string]any) (Command, error) { return nil, errors.New("unused") }

	if err := registry.Register("", factory); err == nil {
		t.Error("expected error for empty name")
	}
	if err := registry.Register("A", nil); err == nil {
		t.Error("expected error for nil factory")
	}
	if err := registry.Register("A", factory); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := registry.Register("A", factory); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if !registry.IsRegistered("A") || registry.IsRegistered("B") {
		t.Error("unexpected IsRegistered result")
	}
	if _, err := registry.Create("B", nil); err == nil {
		t.Error("expected error for unknown command")
	}
	if _, err := registry.Create("A", nil); err == nil {
		t.Error("expected factory error to propagate")
	}
}

func TestDefaultRegistry_BuiltIns(t *testing.T) {
	names := DefaultRegistry.GetRegisteredNames()
	want := []string{"JpegEncodeCommand", "OrientationCommand", "PixelScaleCommand"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestExecuteCommands_Pipeline(t *testing.T) {
	out, err := ExecuteCommands(createTestPNG(t, 100, 50), []CommandConfig{
		{Name: "OrientationCommand", Params: map[string]any{"orientation": "portrait"}},
		{Name: "PixelScaleCommand", Params: map[string]any{"width": 25}},
		{Name: "JpegEncodeCommand", Params: map[string]any{"quality": 90}},
	})
	if err != nil {
		t.Fatalf("ExecuteCommands error: %v", err)
	}
	w, h, format := decodeSize(t, out)
	if format != "jpeg" || w != 25 || h != 50 {
		t.Fatalf("expected 25x50 jpeg, got %dx%d %s", w, h, format)
	}
}

func TestExecuteCommands_EmptyAndUnknown(t *testing.T) {
	data := []byte("test data")
	out, err := ExecuteCommands(data, nil)
	if err != nil || !bytes.Equal(out, data) {
		t.Fatalf("expected passthrough for empty pipeline, got %q, %v", out, err)
	}
	if _, err := ExecuteCommands(data, []CommandConfig{{Name: "UnknownCommand"}}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestCommandInvoker_StopsOnError(t *testing.T) {
	failing := &stubCommand{name: "failing", err: errors.New("boom")}
	after := &stubCommand{name: "after"}
	_, err := NewCommandInvoker([]Command{failing, after}).Execute([]byte("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if after.calls != 0 {
		t.Error("expected later commands not to run")
	}
}

func TestGetParams(t *testing.T) {
	params := map[string]any{"i": 3, "f": 4.0, "s": "x", "b": true, "bs": "FALSE"}
	if GetIntParam(params, "i", 0) != 3 || GetIntParam(params, "f", 0) != 4 || GetIntParam(params, "missing", 7) != 7 {
		t.Error("unexpected int param")
	}
	if GetStringParam(params, "s", "") != "x" || GetStringParam(params, "i", "d") != "d" {
		t.Error("unexpected string param")
	}
	if !GetBoolParam(params, "b", false) || GetBoolParam(params, "bs", true) {
		t.Error("unexpected bool param")
	}
	if err := ValidateRequiredParams(params, []string{"i", "missing"}); err == nil {
		t.Error("expected missing parameter error")
	}
}

func TestRenderSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24"><circle cx="12" cy="12" r="10" fill="#000"/></svg>`)
	out, err := RenderSVG(svg, 64, 64)
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	w, h, format := decodeSize(t, out)
	if format != "png" || w != 64 || h != 64 {
		t.Fatalf("expected 64x64 png, got %dx%d %s", w, h, format)
	}
	if _, err := RenderSVG(svg, 0, 10); err == nil {
		t.Error("expected error for invalid size")
	}
}

type stubCommand struct {
	name  string
	err   error
	calls int
}

func (s *stubCommand) Name() string { return s.name }

func (s *stubCommand) Execute(data []byte) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return data, nil
}
