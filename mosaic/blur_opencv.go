//go:build opencv

package mosaic

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-mosaic/images/kernels"
)

func init() {
	RegisterBackend(BackendOpenCV, func() Blurrer { return OpenCVBlurrer{} })
}

// OpenCVBlurrer runs cv::GaussianBlur with replicated borders.
type OpenCVBlurrer struct{}

// Name implements Blurrer.
func (OpenCVBlurrer) Name() string { return BackendOpenCV }

// Blur implements Blurrer. On conversion failure it falls back to the box approximation so a
// stroke is never dropped.
func (OpenCVBlurrer) Blur(src image.Image, radius float32) *image.NRGBA {
	fallback := func() *image.NRGBA {
		return kernels.GaussianApprox(src, float64(radius), kernels.Options{Edge: kernels.EdgeClamp})
	}

	mat, err := gocv.ImageToMatRGBA(src)
	if err != nil {
		return fallback()
	}
	defer mat.Close()

	out := gocv.NewMat()
	defer out.Close()
	gocv.GaussianBlur(mat, &out, image.Pt(0, 0), float64(radius), float64(radius), gocv.BorderReplicate)

	img, err := out.ToImage()
	if err != nil {
		return fallback()
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	ib := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(b.Min.X+x, b.Min.Y+y, img.At(ib.Min.X+x, ib.Min.Y+y))
		}
	}
	return dst
}
