// Package prepress separates corrected RGB pages into CMYK ink coverage for
// print: gray component replacement, line art to K, rich black, dot-gain
// pre-compensation and total area coverage limiting.
package prepress

import "github.com/Desmondshah/Comic-restor-sub000/internal/ir"

// Config controls the RGB to CMYK separation.
type Config struct {
	GCRStrength float64 `json:"gcrStrength"` // 0-1
	TACLimit    float64 `json:"tacLimit"`    // 200-360 percent
	RichBlack   bool    `json:"richBlack"`
	LineArtToK  bool    `json:"lineArtToK"`
	DotGain     float64 `json:"dotGain"` // 0-30 percent

	// RichBlackThreshold is the post-GCR K coverage (0-1) at which a large
	// fill is rewritten to the rich black recipe.
	RichBlackThreshold float64 `json:"richBlackThreshold"`
	// RichBlackMinArea is the smallest connected fill, in pixels, that
	// counts as a large fill.
	RichBlackMinArea int `json:"richBlackMinArea"`
}

// DefaultConfig returns the stock separation settings.
func DefaultConfig() Config {
	return Config{
		GCRStrength:        0.8,
		TACLimit:           300,
		RichBlack:          true,
		LineArtToK:         true,
		DotGain:            15,
		RichBlackThreshold: 0.8,
		RichBlackMinArea:   256,
	}
}

// Validate rejects any value outside its documented range.
func (c Config) Validate() error {
	return ir.FirstError(
		ir.CheckRange("gcrStrength", c.GCRStrength, 0, 1),
		ir.CheckRange("tacLimit", c.TACLimit, 200, 360),
		ir.CheckRange("dotGain", c.DotGain, 0, 30),
		ir.CheckRange("richBlackThreshold", c.RichBlackThreshold, 0.5, 1),
		ir.CheckRange("richBlackMinArea", float64(c.RichBlackMinArea), 1, 1<<30),
	)
}
