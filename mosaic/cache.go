package mosaic

import "image"

// BlurCache keeps the most recent whole-buffer blur so that consecutive stroke ticks with the
// same radius over the same Base reuse it. Entries are keyed by the Base version, which the
// layer model bumps on every Base rebuild.
type BlurCache struct {
	blurrer Blurrer
	enabled bool

	version uint64
	radius  float32
	blurred *image.NRGBA

	hits, misses int
}

// NewBlurCache wraps blurrer. With enabled false every Get recomputes the blur.
func NewBlurCache(blurrer Blurrer, enabled bool) *BlurCache {
	return &BlurCache{blurrer: blurrer, enabled: enabled}
}

// Get returns src blurred at radius. version identifies the contents of src.
// The returned image must be treated as read-only.
func (c *BlurCache) Get(src image.Image, version uint64, radius float32) *image.NRGBA {
	if c.enabled && c.blurred != nil && c.version == version && c.radius == radius &&
		c.blurred.Rect == src.Bounds() {
		c.hits++
		return c.blurred
	}
	c.misses++
	out := c.blurrer.Blur(src, radius)
	if c.enabled {
		c.version, c.radius, c.blurred = version, radius, out
	}
	return out
}

// Invalidate drops the cached blur.
func (c *BlurCache) Invalidate() {
	c.blurred = nil
}

// Stats returns how many Get calls were served from the cache and how many recomputed.
func (c *BlurCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Backend returns the wrapped blurrer.
func (c *BlurCache) Backend() Blurrer {
	return c.blurrer
}
