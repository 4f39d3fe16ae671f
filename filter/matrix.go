package filter

// Matrix is a 4x5 row-major color transformation on non-premultiplied channels in [0, 1]:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
type Matrix [20]float32

// Identity passes colors through unchanged.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Brightness scales RGB by factor (1 = unchanged).
func Brightness(factor float32) Matrix {
	return Matrix{
		factor, 0, 0, 0, 0,
		0, factor, 0, 0, 0,
		0, 0, factor, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Contrast scales RGB around mid-gray: (c - 0.5) * factor + 0.5.
func Contrast(factor float32) Matrix {
	offset := 0.5 * (1 - factor)
	return Matrix{
		factor, 0, 0, 0, offset,
		0, factor, 0, 0, offset,
		0, 0, factor, 0, offset,
		0, 0, 0, 1, 0,
	}
}

// Rec. 709 luminance weights, as used by CSS filter effects.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// Saturation blends between luminance (0) and the original color (1); >1 oversaturates.
func Saturation(factor float32) Matrix {
	inv := 1 - factor
	return Matrix{
		lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Grayscale desaturates by amount in [0, 1] (1 = fully gray).
func Grayscale(amount float32) Matrix {
	return Saturation(1 - amount)
}

// Sepia blends toward the sepia tone by amount in [0, 1].
func Sepia(amount float32) Matrix {
	full := Matrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
	return Identity().lerp(full, amount)
}

// lerp interpolates element-wise between m (t=0) and o (t=1).
func (m Matrix) lerp(o Matrix, t float32) Matrix {
	var out Matrix
	for i := range out {
		out[i] = m[i] + (o[i]-m[i])*t
	}
	return out
}

// Then returns the matrix that applies prev first and m second.
func (m Matrix) Then(prev Matrix) Matrix {
	var out Matrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			var v float32
			for k := 0; k < 4; k++ {
				v += m[r*5+k] * prev[k*5+c]
			}
			if c == 4 {
				v += m[r*5+4]
			}
			out[r*5+c] = v
		}
	}
	return out
}

// apply transforms one pixel; it has the signature gift.ColorFunc expects.
func (m Matrix) apply(r, g, b, a float32) (float32, float32, float32, float32) {
	row := func(i int) float32 {
		v := m[i]*r + m[i+1]*g + m[i+2]*b + m[i+3]*a + m[i+4]
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return row(0), row(5), row(10), row(15)
}
