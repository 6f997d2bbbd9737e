package tone

import (
	"math"

	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// gaussianKernel returns normalized weights for offsets -r..r, r = ceil(3 sigma).
func gaussianKernel(sigma float64) []float64 {
	r := int(math.Ceil(3 * sigma))
	k := make([]float64, 2*r+1)
	var sum float64
	for i := -r; i <= r; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+r] = w
		sum += w
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// GaussianBlur returns a float copy of buf blurred with a separable gaussian.
// Edges are extended by clamping coordinates.
func GaussianBlur(buf *ir.PixelBuffer, sigma float64) []float64 {
	k := gaussianKernel(sigma)
	r := len(k) / 2
	w, h, ch := buf.Width, buf.Height, buf.Channels

	tmp := make([]float64, len(buf.Data))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < ch; c++ {
				var acc float64
				for i, kw := range k {
					xx := min(max(x+i-r, 0), w-1)
					acc += kw * float64(buf.Data[(y*w+xx)*ch+c])
				}
				tmp[(y*w+x)*ch+c] = acc
			}
		}
	}

	out := make([]float64, len(buf.Data))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < ch; c++ {
				var acc float64
				for i, kw := range k {
					yy := min(max(y+i-r, 0), h-1)
					acc += kw * tmp[(yy*w+x)*ch+c]
				}
				out[(y*w+x)*ch+c] = acc
			}
		}
	}
	return out
}

// Clarity is a low-amount unsharp mask: out = in + (in - blur(in)) * amount.
// Amounts above 1 are rejected to keep halos out of line art.
func Clarity(src *ir.PixelBuffer, radius, amount float64) (*ir.PixelBuffer, error) {
	if err := requireRGB(src); err != nil {
		return nil, err
	}
	if err := ir.FirstError(
		ir.CheckRange("clarityRadius", radius, 1, 8),
		ir.CheckRange("clarityAmount", amount, 0, 1),
	); err != nil {
		return nil, err
	}
	dst := src.Like()
	if amount == 0 {
		copy(dst.Data, src.Data)
		return dst, nil
	}
	blurred := GaussianBlur(src, radius)
	for i, v := range src.Data {
		in := float64(v)
		dst.Data[i] = color.ClampByte(in + (in-blurred[i])*amount)
	}
	return dst, nil
}
