package color

import "math"

// Luma returns the Rec.601 luminance of an 8-bit RGB triple, in [0,255].
func Luma(r, g, b byte) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// LumaPlane returns the luminance of every pixel of an interleaved RGB
// sample slice.
func LumaPlane(rgb []byte) []float64 {
	out := make([]float64, len(rgb)/3)
	for i := range out {
		out[i] = Luma(rgb[i*3], rgb[i*3+1], rgb[i*3+2])
	}
	return out
}

// Linearize converts an 8-bit sRGB sample to linear light in [0,1].
func Linearize(v float64) float64 {
	c := v / 255
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// RelativeLuminance is the WCAG 2.x relative luminance of an 8-bit sRGB color.
func RelativeLuminance(r, g, b float64) float64 {
	return 0.2126*Linearize(r) + 0.7152*Linearize(g) + 0.0722*Linearize(b)
}

// ContrastRatio returns the WCAG contrast ratio between two relative
// luminances, always >= 1.
func ContrastRatio(l1, l2 float64) float64 {
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}
