package color

import "math"

// Curve is a 256-entry lookup table for 8-bit samples.
type Curve [256]byte

// NewCurve samples f at every 8-bit input. f receives and returns values on
// the 0..255 scale; results are rounded and clamped.
func NewCurve(f func(v float64) float64) Curve {
	var c Curve
	for i := range c {
		c[i] = ClampByte(f(float64(i)))
	}
	return c
}

// Identity returns the curve that maps every value to itself.
func Identity() Curve {
	var c Curve
	for i := range c {
		c[i] = byte(i)
	}
	return c
}

// Apply maps src through the curve into dst. dst and src may alias.
func (c *Curve) Apply(dst, src []byte) {
	for i, v := range src {
		dst[i] = c[v]
	}
}

// Then returns the curve equivalent to applying c and then next.
func (c *Curve) Then(next *Curve) Curve {
	var out Curve
	for i := range out {
		out[i] = next[c[i]]
	}
	return out
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampByte rounds v to the nearest integer and clamps it to [0,255].
// NaN maps to 0.
func ClampByte(v float64) byte {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(math.Round(v))
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
