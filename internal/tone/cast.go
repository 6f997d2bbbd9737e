package tone

import (
	"fmt"

	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
)

// CastFactors returns the per-channel multiplicative correction that moves
// paperColor toward white, scaled by strength.
func CastFactors(paper [3]float64, strength float64) [3]float64 {
	var f [3]float64
	for c := range f {
		p := max(paper[c], 1)
		f[c] = color.Lerp(1, 255/p, strength)
	}
	return f
}

// RemoveCast samples the paper color from the outer border band and
// neutralizes it. Dark ink pixels are protected: the correction weight grows
// linearly with luminance and is full from luminance 128 upward.
func RemoveCast(src *ir.PixelBuffer, strength, borderFraction float64) (*ir.PixelBuffer, error) {
	if err := requireRGB(src); err != nil {
		return nil, err
	}
	if err := ir.CheckRange("castStrength", strength, 0, 1); err != nil {
		return nil, err
	}
	border, err := stats.Sample(src, stats.Border(borderFraction))
	if err != nil {
		return nil, fmt.Errorf("sampling paper color: %w", err)
	}
	paper := [3]float64{border[0].Mean, border[1].Mean, border[2].Mean}
	factors := CastFactors(paper, strength)

	dst := src.Like()
	for i := 0; i < len(src.Data); i += 3 {
		r, g, b := src.Data[i], src.Data[i+1], src.Data[i+2]
		weight := color.Clamp(color.Luma(r, g, b)/128, 0, 1)
		dst.Data[i] = color.ClampByte(float64(r) * color.Lerp(1, factors[0], weight))
		dst.Data[i+1] = color.ClampByte(float64(g) * color.Lerp(1, factors[1], weight))
		dst.Data[i+2] = color.ClampByte(float64(b) * color.Lerp(1, factors[2], weight))
	}
	return dst, nil
}
