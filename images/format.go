package images

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// ImageFormat represents supported image formats
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatBMP is the BMP image format.
	FormatBMP ImageFormat = "bmp"
)

// DefaultQuality is the lossy encoder quality used when none is given.
const DefaultQuality = 90

// ParseFormat maps a format name or file extension (with or without the dot) to an
// ImageFormat.
func ParseFormat(name string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	case "bmp":
		return FormatBMP, nil
	default:
		return "", errors.Errorf("unsupported image format: %q", name)
	}
}

// FormatFromPath infers the format from a file name's extension.
func FormatFromPath(path string) (ImageFormat, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext returns the canonical file extension for the format, including the dot.
func (f ImageFormat) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Decode reads any supported format from r.
//
// Arguments:
//   - r: The encoded image.
//
// Returns:
//   - image.Image: The decoded image.
//   - ImageFormat: The detected format.
//   - error: An error if the data is not a supported image.
func Decode(r io.Reader) (image.Image, ImageFormat, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to decode image")
	}
	format, err := ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// Encode writes img to w in the given format. quality applies to JPEG and lossy WebP;
// values <= 0 select DefaultQuality, and WebP at quality 100 is encoded losslessly.
func Encode(w io.Writer, img image.Image, format ImageFormat, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Lossless: quality >= 100, Quality: float32(quality)})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return errors.Errorf("unsupported image format: %q", format)
	}
	return errors.Wrapf(err, "failed to encode %s", format)
}

// EncodeImage encodes img into an in-memory Image.
func EncodeImage(img image.Image, format ImageFormat, quality int) (*Image, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, quality); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Image{Format: format, Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}
