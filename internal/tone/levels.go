package tone

import (
	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// LevelsCurve maps [black, white] linearly onto [0,255]; inputs at or below
// black become 0 and inputs at or above white become 255.
func LevelsCurve(black, white float64) color.Curve {
	span := white - black
	return color.NewCurve(func(v float64) float64 {
		switch {
		case v <= black:
			return 0
		case v >= white:
			return 255
		default:
			return (v - black) * 255 / span
		}
	})
}

// Levels applies the same levels curve to all three channels.
func Levels(src *ir.PixelBuffer, black, white float64) (*ir.PixelBuffer, error) {
	if err := requireRGB(src); err != nil {
		return nil, err
	}
	if err := ir.FirstError(
		ir.CheckRange("blackPoint", black, 0, 40),
		ir.CheckRange("whitePoint", white, 220, 255),
	); err != nil {
		return nil, err
	}
	curve := LevelsCurve(black, white)
	dst := src.Like()
	curve.Apply(dst.Data, src.Data)
	return dst, nil
}
