package kernels

import (
	"image"
	"image/draw"
	"math"
	"sync"
)

// EdgeMode defines how sampling behaves outside the image bounds.
// - Clamp: repeats edge pixels (no dark fringe at buffer borders).
// - Mirror: reflects coordinates.
// - Wrap: tiles the image.
type EdgeMode int

const (
	EdgeClamp EdgeMode = iota
	EdgeMirror
	EdgeWrap
)

// Options configures a blur call.
type Options struct {
	Radius   int      // Box radius (window size = 2*Radius + 1). Must be >= 0.
	Edge     EdgeMode // Edge sampling mode.
	Pool     *Pool    // Optional buffer pool for intermediate reuse.
	Parallel bool     // Enable row/column parallelism for large buffers.
}

// Pool lets callers reuse intermediate buffers between strokes of the same size.
type Pool struct {
	rgba sync.Pool // *image.RGBA
}

func (p *Pool) GetRGBA(bounds image.Rectangle) *image.RGBA {
	if p == nil {
		return image.NewRGBA(bounds)
	}
	if v := p.rgba.Get(); v != nil {
		img := v.(*image.RGBA)
		if img.Rect == bounds {
			return img
		}
	}
	return image.NewRGBA(bounds)
}

func (p *Pool) PutRGBA(img *image.RGBA) {
	if p == nil || img == nil {
		return
	}
	// The next writer fully overwrites.
	p.rgba.Put(img)
}

// BoxBlur applies a separable box blur using a sliding window per row and column,
// so each pass costs O(W*H) regardless of Radius.
//
// The passes run on premultiplied RGBA so transparent pixels contribute no color.
//
// Returns a new *image.NRGBA with the bounds of src.
func BoxBlur(src image.Image, opt Options) *image.NRGBA {
	if opt.Radius <= 0 {
		return cloneNRGBA(src)
	}
	in := toRGBA(src)
	return toNRGBA(boxBlurRGBA(in, opt))
}

// GaussianApprox approximates a Gaussian blur of standard deviation sigma with three
// successive box blurs whose widths are chosen so the combined variance matches sigma².
//
// Arguments:
//   - src: The image to blur.
//   - sigma: Standard deviation in pixels; values <= 0 return a copy.
//   - opt: Edge, Pool and Parallel are honored; Radius is ignored.
//
// Returns:
//   - *image.NRGBA: The blurred image with the bounds of src.
func GaussianApprox(src image.Image, sigma float64, opt Options) *image.NRGBA {
	if sigma <= 0 {
		return cloneNRGBA(src)
	}
	out := toRGBA(src)
	for _, r := range BoxRadiiForSigma(sigma, 3) {
		pass := opt
		pass.Radius = r
		out = boxBlurRGBA(out, pass)
	}
	return toNRGBA(out)
}

// boxBlurRGBA runs both passes on premultiplied pixels and returns a new image.
func boxBlurRGBA(in *image.RGBA, opt Options) *image.RGBA {
	dst := image.NewRGBA(in.Rect)
	if opt.Radius <= 0 {
		copy(dst.Pix, in.Pix)
		return dst
	}
	tmp := opt.Pool.GetRGBA(in.Rect)
	boxBlurHoriz(in, tmp, opt.Radius, opt.Edge, opt.Parallel)
	boxBlurVert(tmp, dst, opt.Radius, opt.Edge, opt.Parallel)
	opt.Pool.PutRGBA(tmp)
	return dst
}

// BoxRadiiForSigma returns n box radii whose successive application approximates a
// Gaussian of standard deviation sigma.
func BoxRadiiForSigma(sigma float64, n int) []int {
	ideal := math.Sqrt(12*sigma*sigma/float64(n) + 1)
	wl := int(math.Floor(ideal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2
	mIdeal := (12*sigma*sigma - float64(n*wl*wl) - 4*float64(n*wl) - 3*float64(n)) / (-4*float64(wl) - 4)
	m := int(math.Round(mIdeal))

	radii := make([]int, n)
	for i := range radii {
		w := wu
		if i < m {
			w = wl
		}
		radii[i] = (w - 1) / 2
	}
	return radii
}

// toRGBA returns src if it already is a tightly packed *image.RGBA, else a premultiplied copy.
func toRGBA(src image.Image) *image.RGBA {
	if r, ok := src.(*image.RGBA); ok && r.Stride == r.Rect.Dx()*4 {
		return r
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// toNRGBA un-premultiplies src into a new *image.NRGBA.
func toNRGBA(src *image.RGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	draw.Draw(dst, src.Rect, src, src.Rect.Min, draw.Src)
	return dst
}

// cloneNRGBA copies src into a new tightly packed *image.NRGBA without a premultiply round trip.
func cloneNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// boxBlurHoriz applies the horizontal pass into dst. Both must share the same bounds.
// For each step to the right the sample leaving on the left is subtracted and the one
// entering on the right is added.
func boxBlurHoriz(src, dst *image.RGBA, r int, edge EdgeMode, parallel bool) {
	b := src.Rect
	w := b.Dx()
	h := b.Dy()
	if w == 0 || h == 0 {
		return
	}

	window := uint32(2*r + 1)
	rowTask := func(y int) {
		srcRowStart := y * src.Stride
		dstRowStart := y * dst.Stride

		load := func(xRel int) (r, g, b, a uint32) {
			off := srcRowStart + mapCoord(xRel, w, edge)*4
			p := src.Pix[off : off+4 : off+4]
			return uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		}

		var sumR, sumG, sumB, sumA uint32
		for dx := -r; dx <= r; dx++ {
			r8, g8, b8, a8 := load(dx)
			sumR += r8
			sumG += g8
			sumB += b8
			sumA += a8
		}

		for x := 0; x < w; x++ {
			dstOff := dstRowStart + x*4
			dst.Pix[dstOff+0] = uint8((sumR + window/2) / window)
			dst.Pix[dstOff+1] = uint8((sumG + window/2) / window)
			dst.Pix[dstOff+2] = uint8((sumB + window/2) / window)
			dst.Pix[dstOff+3] = uint8((sumA + window/2) / window)

			lr, lg, lb, la := load(x - r)
			rr, rg, rb, ra := load(x + r + 1)
			sumR += rr - lr
			sumG += rg - lg
			sumB += rb - lb
			sumA += ra - la
		}
	}

	runChunked(h, parallel, rowTask)
}

// boxBlurVert mirrors the horizontal pass along columns.
func boxBlurVert(src, dst *image.RGBA, r int, edge EdgeMode, parallel bool) {
	b := src.Rect
	w := b.Dx()
	h := b.Dy()
	if w == 0 || h == 0 {
		return
	}

	window := uint32(2*r + 1)
	colTask := func(x int) {
		load := func(yRel int) (r, g, b, a uint32) {
			off := mapCoord(yRel, h, edge)*src.Stride + x*4
			p := src.Pix[off : off+4 : off+4]
			return uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		}

		var sumR, sumG, sumB, sumA uint32
		for dy := -r; dy <= r; dy++ {
			r8, g8, b8, a8 := load(dy)
			sumR += r8
			sumG += g8
			sumB += b8
			sumA += a8
		}

		for y := 0; y < h; y++ {
			dstOff := y*dst.Stride + x*4
			dst.Pix[dstOff+0] = uint8((sumR + window/2) / window)
			dst.Pix[dstOff+1] = uint8((sumG + window/2) / window)
			dst.Pix[dstOff+2] = uint8((sumB + window/2) / window)
			dst.Pix[dstOff+3] = uint8((sumA + window/2) / window)

			lr, lg, lb, la := load(y - r)
			rr, rg, rb, ra := load(y + r + 1)
			sumR += rr - lr
			sumG += rg - lg
			sumB += rb - lb
			sumA += ra - la
		}
	}

	runChunked(w, parallel, colTask)
}

// runChunked calls task for 0..n-1, split across goroutines when parallel is set.
// It returns only after every call has finished.
func runChunked(n int, parallel bool, task func(i int)) {
	if !parallel || n < 4 {
		for i := 0; i < n; i++ {
			task(i)
		}
		return
	}
	chunk := chooseChunk(n)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				task(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// mapCoord maps an index i to [0, n) according to edge mode.
func mapCoord(i, n int, mode EdgeMode) int {
	switch mode {
	case EdgeMirror:
		if n == 1 {
			return 0
		}
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			} else {
				i = 2*n - i - 1
			}
		}
		return i
	case EdgeWrap:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	default:
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}

// chooseChunk picks a work chunk size that balances overhead and cache locality.
func chooseChunk(n int) int {
	switch {
	case n >= 2048:
		return 128
	case n >= 512:
		return 64
	default:
		return 32
	}
}
