// Package tone implements the color and tone correction stages applied to
// restored RGB pages: paper cast removal, levels, selective saturation,
// local clarity, paper grain and reference-page matching.
package tone

import (
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
)

// Config controls the tone corrector.
type Config struct {
	CastStrength    float64 `json:"castStrength"`    // 0-1
	WhitePoint      float64 `json:"whitePoint"`      // 220-255
	BlackPoint      float64 `json:"blackPoint"`      // 0-40
	RedYellowBoost  float64 `json:"redYellowBoost"`  // 0.8-1.3
	BlueGreenReduce float64 `json:"blueGreenReduce"` // 0.7-1.0
	ClarityRadius   float64 `json:"clarityRadius"`   // 1-8, gaussian sigma in pixels
	ClarityAmount   float64 `json:"clarityAmount"`   // 0-1
	GrainStrength   float64 `json:"grainStrength"`   // 0-0.1
	MatchStrength   float64 `json:"matchStrength"`   // 0-1
	BorderFraction  float64 `json:"borderFraction"`  // paper sampling band, (0, 0.5]

	PaperGrain     bool `json:"paperGrain"`
	MatchReference bool `json:"matchReference"`
}

// DefaultConfig returns the stock correction settings.
func DefaultConfig() Config {
	return Config{
		CastStrength:    0.7,
		WhitePoint:      245,
		BlackPoint:      12,
		RedYellowBoost:  1.1,
		BlueGreenReduce: 0.92,
		ClarityRadius:   2,
		ClarityAmount:   0.5,
		GrainStrength:   0.03,
		MatchStrength:   0.8,
		BorderFraction:  stats.DefaultBorderFraction,
	}
}

// Validate rejects any value outside its documented range.
func (c Config) Validate() error {
	return ir.FirstError(
		ir.CheckRange("castStrength", c.CastStrength, 0, 1),
		ir.CheckRange("whitePoint", c.WhitePoint, 220, 255),
		ir.CheckRange("blackPoint", c.BlackPoint, 0, 40),
		ir.CheckRange("redYellowBoost", c.RedYellowBoost, 0.8, 1.3),
		ir.CheckRange("blueGreenReduce", c.BlueGreenReduce, 0.7, 1.0),
		ir.CheckRange("clarityRadius", c.ClarityRadius, 1, 8),
		ir.CheckRange("clarityAmount", c.ClarityAmount, 0, 1),
		ir.CheckRange("grainStrength", c.GrainStrength, 0, 0.1),
		ir.CheckRange("matchStrength", c.MatchStrength, 0, 1),
		ir.CheckRange("borderFraction", c.BorderFraction, 0.001, 0.5),
	)
}

func requireRGB(src *ir.PixelBuffer) error {
	return src.RequireChannels(ir.RGB)
}
