package main

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-mosaic/images"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 99, A: 255})
		}
	}
	format, err := images.FormatFromPath(path)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, images.Encode(&buf, img, format, 0))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func decodeFile(t *testing.T, path string) (image.Image, images.ImageFormat) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, format, err := images.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img, format
}

func TestRunSingleImageWithScript(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeImage(t, in, 64, 48)

	scriptPath := filepath.Join(dir, "session.yaml")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`
steps:
  - style: pixelate
    strength: 2
  - marquee: [[0,0],[32,24]]
`), 0o600))

	out := filepath.Join(dir, "out.bmp")
	err := run(options{imagePath: in, scriptPath: scriptPath, outPath: out, profile: true}, quietLogger())
	require.NoError(t, err)

	img, format := decodeFile(t, out)
	assert.Equal(t, images.FormatBMP, format)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())
	src, _ := decodeFile(t, in)
	assert.NotEqual(t, images.ComputeChecksum(src), images.ComputeChecksum(img))
}

func TestRunDirectory(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(inDir, 0o700))
	writeImage(t, filepath.Join(inDir, "a.png"), 40, 20)
	writeImage(t, filepath.Join(inDir, "b.jpg"), 30, 30)

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_dimension: 20\n"), 0o600))

	outDir := filepath.Join(dir, "out")
	err := run(options{imagePath: inDir, configPath: cfgPath, outPath: outDir, format: "png"}, quietLogger())
	require.NoError(t, err)

	a, _ := decodeFile(t, filepath.Join(outDir, "a.png"))
	assert.Equal(t, image.Rect(0, 0, 20, 10), a.Bounds())
	b, _ := decodeFile(t, filepath.Join(outDir, "b.png"))
	assert.Equal(t, image.Rect(0, 0, 20, 20), b.Bounds())
}

func TestValidateInputFlags(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "x.png")
	writeImage(t, img, 2, 2)
	txt := filepath.Join(dir, "x.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o600))

	tests := []struct {
		name     string
		in, out  string
		wantType InputType
		wantErr  bool
	}{
		{"file", img, "o.png", InputImage, false},
		{"directory", dir, "out", InputDirectory, false},
		{"missing image flag", "", "o.png", 0, true},
		{"missing out flag", img, "", 0, true},
		{"missing file", filepath.Join(dir, "nope.png"), "o.png", 0, true},
		{"unsupported", txt, "o.png", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := validateInputFlags(tt.in, tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, cfg.Type)
		})
	}
}

func TestOutputFormat(t *testing.T) {
	f, err := outputFormat("", "x/out.webp")
	require.NoError(t, err)
	assert.Equal(t, images.FormatWebP, f)

	f, err = outputFormat("jpeg", "x/out.webp")
	require.NoError(t, err)
	assert.Equal(t, images.FormatJPEG, f)

	f, err = outputFormat("", "x/out")
	require.NoError(t, err)
	assert.Equal(t, images.FormatPNG, f)

	_, err = outputFormat("gif", "")
	assert.Error(t, err)
}
