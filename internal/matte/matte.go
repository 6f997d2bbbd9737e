// Package matte compensates RGB pages for absorbent, uncoated print stock,
// which swallows midtones, muddies shadows and dulls saturated color.
package matte

import (
	"math"

	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// Values below shadowKnee are compressed.
const shadowKnee = 64

// Config controls matte compensation.
type Config struct {
	MidtoneLift    float64 `json:"midtoneLift"`    // 0-15 levels at mid-gray
	ShadowCompress float64 `json:"shadowCompress"` // 0.85-1.0
	SaturateReduce float64 `json:"saturateReduce"` // 0.85-1.0
}

// DefaultConfig returns the stock matte settings.
func DefaultConfig() Config {
	return Config{
		MidtoneLift:    6,
		ShadowCompress: 0.95,
		SaturateReduce: 0.96,
	}
}

// Validate rejects any value outside its documented range.
func (c Config) Validate() error {
	return ir.FirstError(
		ir.CheckRange("midtoneLift", c.MidtoneLift, 0, 15),
		ir.CheckRange("shadowCompress", c.ShadowCompress, 0.85, 1.0),
		ir.CheckRange("saturateReduce", c.SaturateReduce, 0.85, 1.0),
	)
}

// ToneCurve combines the midtone lift and the shadow compression. The lift
// is weighted by a triangle peaking at 128; compression applies to the
// lifted value when it falls below the knee. Both steps clamp.
func ToneCurve(lift, compress float64) color.Curve {
	return color.NewCurve(func(v float64) float64 {
		w := 1 - math.Abs(v-128)/128
		v = color.Clamp(v+lift*w, 0, 255)
		if v < shadowKnee {
			v = color.Clamp(v*compress, 0, 255)
		}
		return v
	})
}

// Compensate applies the tone curve per channel and then trims saturation.
func Compensate(src *ir.PixelBuffer, cfg Config) (*ir.PixelBuffer, error) {
	if err := src.RequireChannels(ir.RGB); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dst := src.Like()
	curve := ToneCurve(cfg.MidtoneLift, cfg.ShadowCompress)
	curve.Apply(dst.Data, src.Data)
	if cfg.SaturateReduce != 1 {
		reduce := cfg.SaturateReduce
		color.AdjustSaturation(dst.Data, dst.Data, func(_, _ float64) float64 { return reduce })
	}
	return dst, nil
}
