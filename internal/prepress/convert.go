package prepress

import (
	"fmt"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// Separation is the result of a CMYK conversion.
type Separation struct {
	CMYK *ir.PixelBuffer // 4 channels, 255 = 100% ink

	LineArtPixels   int
	RichBlackPixels int
	LimitedPixels   int     // pixels scaled by the TAC limiter
	MaxTAC          float64 // highest total coverage in the output, percent
}

// Convert separates an RGB buffer into CMYK ink coverage. Per pixel the order
// is: CMY + GCR, line art to K, dot-gain curve, rich black, TAC limit.
// Line art and rich black pixels bypass the dot-gain curve because their
// recipes are already final press values.
func Convert(src *ir.PixelBuffer, cfg Config) (*Separation, error) {
	if err := src.RequireChannels(ir.RGB); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := src.Pixels()
	inks := make([]Ink, n)
	for i := range inks {
		off := i * 3
		inks[i] = Separate(src.Data[off], src.Data[off+1], src.Data[off+2], cfg.GCRStrength)
	}

	var lineArt []bool
	if cfg.LineArtToK || cfg.RichBlack {
		var err error
		if lineArt, err = DetectLineArt(src); err != nil {
			return nil, fmt.Errorf("line art: %w", err)
		}
	}

	var rich []bool
	if cfg.RichBlack {
		candidate := make([]bool, n)
		for i, ink := range inks {
			candidate[i] = ink.K >= cfg.RichBlackThreshold && !lineArt[i]
		}
		rich = largeFills(candidate, src.Width, src.Height, cfg.RichBlackMinArea)
	}

	gain := DotGainCurve(cfg.DotGain)
	sep := &Separation{CMYK: &ir.PixelBuffer{
		Width:    src.Width,
		Height:   src.Height,
		Channels: ir.CMYK,
		Data:     make([]byte, n*4),
	}}
	for i, ink := range inks {
		switch {
		case cfg.LineArtToK && lineArt[i]:
			ink = lineArtInk
			sep.LineArtPixels++
		case cfg.RichBlack && rich[i]:
			ink = RichBlack
			sep.RichBlackPixels++
		default:
			ink = Ink{C: gain.Apply(ink.C), M: gain.Apply(ink.M), Y: gain.Apply(ink.Y), K: gain.Apply(ink.K)}
		}

		var limited bool
		if ink, limited = LimitTAC(ink, cfg.TACLimit); limited {
			sep.LimitedPixels++
		}
		q := Quantize(ink, cfg.TACLimit)
		copy(sep.CMYK.Data[i*4:], q[:])
		if tac := float64(int(q[0])+int(q[1])+int(q[2])+int(q[3])) * 100 / 255; tac > sep.MaxTAC {
			sep.MaxTAC = tac
		}
	}
	return sep, nil
}
