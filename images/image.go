// Package images - image codecs and the downscale-on-load policy.
package images

import (
	"bytes"
	"image"

	"github.com/pkg/errors"
)

// Image represents an encoded image with a format, data, width, and height.
type Image struct {
	// The format of the image.
	Format ImageFormat `json:"format" yaml:"format"`
	// The data of the image.
	Data []byte `json:"data" yaml:"data"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// Decode decodes the image data and fills in Format, Width and Height.
func (i *Image) Decode() (image.Image, error) {
	if len(i.Data) == 0 {
		return nil, errors.New("empty image data")
	}
	img, format, err := Decode(bytes.NewReader(i.Data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	i.Format, i.Width, i.Height = format, b.Dx(), b.Dy()
	return img, nil
}
