package tone

import (
	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// Hue bands in degrees, half-open [lo, hi).
const (
	warmHueLo = 0.0
	warmHueHi = 60.0
	coolHueLo = 180.0
	coolHueHi = 270.0
	skinHueLo = 25.0
	skinHueHi = 45.0
)

// SaturationFactor returns the multiplier applied to a pixel's saturation.
// The skin band wins over the warm band it overlaps.
func SaturationFactor(hue, redYellowBoost, blueGreenReduce float64) float64 {
	switch {
	case hue >= skinHueLo && hue < skinHueHi:
		return 1
	case hue >= warmHueLo && hue < warmHueHi:
		return redYellowBoost
	case hue >= coolHueLo && hue < coolHueHi:
		return blueGreenReduce
	default:
		return 1
	}
}

// SelectiveSaturation boosts reds and yellows, mutes blues and greens and
// leaves skin tones alone.
func SelectiveSaturation(src *ir.PixelBuffer, redYellowBoost, blueGreenReduce float64) (*ir.PixelBuffer, error) {
	if err := requireRGB(src); err != nil {
		return nil, err
	}
	if err := ir.FirstError(
		ir.CheckRange("redYellowBoost", redYellowBoost, 0.8, 1.3),
		ir.CheckRange("blueGreenReduce", blueGreenReduce, 0.7, 1.0),
	); err != nil {
		return nil, err
	}
	dst := src.Like()
	color.AdjustSaturation(dst.Data, src.Data, func(h, _ float64) float64 {
		return SaturationFactor(h, redYellowBoost, blueGreenReduce)
	})
	return dst, nil
}
