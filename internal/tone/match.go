package tone

import (
	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
)

// MatchCurves returns one LUT per channel that maps the buffer's own
// statistics onto the reference's, blended with the identity by strength.
// A flat channel (stddev 0) is shifted but not scaled.
func MatchCurves(self []stats.ChannelStats, ref *stats.Reference, strength float64) [3]color.Curve {
	var curves [3]color.Curve
	for c := range curves {
		s, r := self[c], ref.Channel(c)
		scale := 1.0
		if s.StdDev > 0 {
			scale = r.StdDev / s.StdDev
		}
		curves[c] = color.NewCurve(func(v float64) float64 {
			matched := (v-s.Mean)*scale + r.Mean
			return color.Lerp(v, matched, strength)
		})
	}
	return curves
}

// MatchReference pulls the buffer's per-channel mean and contrast toward the
// hero page statistics.
func MatchReference(src *ir.PixelBuffer, ref *stats.Reference, strength float64) (*ir.PixelBuffer, error) {
	if err := requireRGB(src); err != nil {
		return nil, err
	}
	if !ref.Ready() {
		return nil, ir.ErrReferenceNotReady
	}
	if err := ir.CheckRange("matchStrength", strength, 0, 1); err != nil {
		return nil, err
	}
	self, err := stats.Sample(src, stats.Whole())
	if err != nil {
		return nil, err
	}
	curves := MatchCurves(self, ref, strength)
	dst := src.Like()
	for i := 0; i < len(src.Data); i += 3 {
		dst.Data[i] = curves[0][src.Data[i]]
		dst.Data[i+1] = curves[1][src.Data[i+1]]
		dst.Data[i+2] = curves[2][src.Data[i+2]]
	}
	return dst, nil
}
