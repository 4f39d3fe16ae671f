package kernels

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlurOperationsRadiusZeroReturnsCopy(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 18, 27)) // non-zero Min
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	out := BoxBlur(img, Options{Radius: 0, Edge: EdgeClamp})
	require.Equal(t, img.Bounds(), out.Bounds())
	assert.Equal(t, img.Pix, out.Pix)

	out.Pix[0] = 99
	assert.NotEqual(t, img.Pix[0], out.Pix[0], "result must not alias the source")
}

func TestBlurOperationsBoundsMinNotZero(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 7, 9, 12))
	img.SetNRGBA(5, 7, color.NRGBA{255, 0, 0, 255})
	out := BoxBlur(img, Options{Radius: 1})
	require.Equal(t, img.Rect, out.Rect)
	assert.NotEqual(t, color.NRGBA{}, out.NRGBAAt(5, 7))
	assert.NotEqual(t, color.NRGBA{}, out.NRGBAAt(6, 8), "neighbor picks up the spread")
}

func TestBlurOperationsUniformIsFixedPoint(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 17, 11))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 120, 60, 30, 255
	}
	for _, edge := range []EdgeMode{EdgeClamp, EdgeMirror, EdgeWrap} {
		out := GaussianApprox(img, 4, Options{Edge: edge})
		assert.Equal(t, img.Pix, out.Pix, "edge mode %d", edge)
	}
}

func TestBlurOperationsEdgeModes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(2, 0, color.NRGBA{0, 0, 0, 255})

	clamp := BoxBlur(img, Options{Radius: 1, Edge: EdgeClamp})
	wrap := BoxBlur(img, Options{Radius: 1, Edge: EdgeWrap})

	// Clamp at x=0 sees [0, 0, 255]; wrap sees [0(x=2), 0, 255].
	assert.Equal(t, uint8(85), clamp.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(85), wrap.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(85), clamp.NRGBAAt(1, 0).R)
}

func TestMapCoord(t *testing.T) {
	tests := []struct {
		i, n int
		mode EdgeMode
		want int
	}{
		{-1, 5, EdgeClamp, 0},
		{7, 5, EdgeClamp, 4},
		{-1, 5, EdgeMirror, 0},
		{-2, 5, EdgeMirror, 1},
		{5, 5, EdgeMirror, 4},
		{-1, 5, EdgeWrap, 4},
		{6, 5, EdgeWrap, 1},
		{3, 1, EdgeMirror, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapCoord(tt.i, tt.n, tt.mode), "%+v", tt)
	}
}

func TestBoxRadiiForSigma(t *testing.T) {
	assert.Equal(t, []int{5, 5, 6}, BoxRadiiForSigma(6, 3))

	for _, sigma := range []float64{0.8, 2, 6.4, 20} {
		radii := BoxRadiiForSigma(sigma, 3)
		var variance float64
		for _, r := range radii {
			w := float64(2*r + 1)
			variance += (w*w - 1) / 12
		}
		assert.InDelta(t, sigma*sigma, variance, sigma*sigma*0.35+1, "sigma %v", sigma)
	}
}

func TestGaussianApproxSmoothsStep(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 40; x++ {
			v := uint8(0)
			if x >= 20 {
				v = 255
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	out := GaussianApprox(img, 3, Options{Edge: EdgeClamp, Parallel: true, Pool: &Pool{}})

	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), out.NRGBAAt(39, 0).R)
	mid := out.NRGBAAt(19, 2).R
	assert.Greater(t, mid, uint8(60))
	assert.Less(t, mid, uint8(200))
	for x := 1; x < 40; x++ {
		assert.GreaterOrEqual(t, out.NRGBAAt(x, 1).R, out.NRGBAAt(x-1, 1).R, "monotone at %d", x)
	}
	assert.Equal(t, uint8(255), out.NRGBAAt(19, 2).A)
}

func TestGaussianApproxNonNRGBASource(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 200, 255
	}
	out := GaussianApprox(img, 0, Options{})
	assert.Equal(t, color.NRGBA{R: 200, A: 255}, out.NRGBAAt(3, 3))
}

func TestTransparentNeighborsAddNoColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 1))
	for x := 0; x < 20; x++ {
		c := color.NRGBA{255, 255, 255, 255}
		if x >= 10 {
			c = color.NRGBA{R: 255}
		}
		img.SetNRGBA(x, 0, c)
	}

	tests := []struct {
		name string
		blur func() *image.NRGBA
	}{
		{"box", func() *image.NRGBA { return BoxBlur(img, Options{Radius: 2, Edge: EdgeClamp}) }},
		{"gaussian approx", func() *image.NRGBA { return GaussianApprox(img, 2, Options{Edge: EdgeClamp}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.blur()
			edge := out.NRGBAAt(9, 0)
			assert.Greater(t, edge.A, uint8(0))
			assert.Less(t, edge.A, uint8(255))
			for x := 0; x < 20; x++ {
				c := out.NRGBAAt(x, 0)
				if c.A == 0 {
					continue
				}
				assert.Equal(t, color.NRGBA{255, 255, 255, c.A}, c, "x=%d", x)
			}
		})
	}
}
