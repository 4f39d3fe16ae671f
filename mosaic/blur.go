package mosaic

import (
	"image"
	"sort"
	"sync"

	"github.com/disintegration/gift"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-mosaic/images/kernels"
)

// Blurrer produces a low-pass filtered copy of a whole image.
type Blurrer interface {
	// Blur returns a new image with the bounds of src, smoothed with standard deviation radius.
	Blur(src image.Image, radius float32) *image.NRGBA
	// Name identifies the backend in configuration and logs.
	Name() string
}

// Backend names accepted by NewBlurrer.
const (
	BackendGaussian = "gaussian"
	BackendBox      = "box"
	BackendOpenCV   = "opencv"
)

var (
	backendsMu sync.RWMutex
	backends   = map[string]func() Blurrer{
		BackendGaussian: func() Blurrer { return GaussianBlurrer{} },
		BackendBox:      func() Blurrer { return &BoxBlurrer{pool: &kernels.Pool{}} },
	}
)

// RegisterBackend makes a blur backend available to NewBlurrer under name.
// Backends that need cgo register themselves from build-tagged files.
func RegisterBackend(name string, factory func() Blurrer) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = factory
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewBlurrer creates the backend registered under name. An empty name selects the
// Gaussian backend.
//
// Arguments:
//   - name: One of Backends().
//
// Returns:
//   - Blurrer: The backend.
//   - error: An error if no backend is registered under name (e.g. "opencv" in a build
//     without the opencv tag).
func NewBlurrer(name string) (Blurrer, error) {
	if name == "" {
		name = BackendGaussian
	}
	backendsMu.RLock()
	factory, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("mosaic: blur backend %q is not available (have %v)", name, Backends())
	}
	return factory(), nil
}

// GaussianBlurrer is a true Gaussian convolution with clamped edges.
type GaussianBlurrer struct{}

// Name implements Blurrer.
func (GaussianBlurrer) Name() string { return BackendGaussian }

// Blur implements Blurrer.
func (GaussianBlurrer) Blur(src image.Image, radius float32) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	if radius <= 0 {
		gift.New().Draw(dst, src)
		return dst
	}
	gift.New(gift.GaussianBlur(radius)).Draw(dst, src)
	return dst
}

// BoxBlurrer approximates a Gaussian with three sliding-window box passes. It is the fastest
// pure-Go backend for large radii.
type BoxBlurrer struct {
	pool     *kernels.Pool
	Parallel bool
}

// Name implements Blurrer.
func (*BoxBlurrer) Name() string { return BackendBox }

// Blur implements Blurrer.
func (b *BoxBlurrer) Blur(src image.Image, radius float32) *image.NRGBA {
	return kernels.GaussianApprox(src, float64(radius), kernels.Options{
		Edge:     kernels.EdgeClamp,
		Pool:     b.pool,
		Parallel: b.Parallel,
	})
}
