// Package qa audits a processed page against its original and reports
// quality warnings. Findings are never errors: the caller decides whether
// to accept a page, rerun it with gentler settings or flag it for review.
package qa

import "github.com/Desmondshah/Comic-restor-sub000/internal/ir"

// Warning codes.
const (
	CodeHighlightClipping = "highlight_clipping"
	CodeShadowClipping    = "shadow_clipping"
	CodeLowSSIM           = "low_ssim"
	CodeEdgeDensity       = "edge_density"
	CodeColorTint         = "color_tint"
	CodeLowTextContrast   = "low_text_contrast"
)

// Warning is one failed check.
type Warning struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Metric  float64 `json:"metric"`
}

// Report is built once per page and only read afterwards.
type Report struct {
	Passed   bool      `json:"passed"`
	Warnings []Warning `json:"warnings"`
}

// Has reports whether a warning with the given code was raised.
func (r *Report) Has(code string) bool {
	_, ok := r.Find(code)
	return ok
}

// Find returns the first warning with the given code.
func (r *Report) Find(code string) (Warning, bool) {
	for _, w := range r.Warnings {
		if w.Code == code {
			return w, true
		}
	}
	return Warning{}, false
}

// Config selects checks and their thresholds.
type Config struct {
	Clipping          bool    `json:"clipping"`
	ClippingThreshold float64 `json:"clippingThreshold"` // fraction of pixels

	SSIM          bool    `json:"ssim"`
	SSIMThreshold float64 `json:"ssimThreshold"`
	SSIMWindow    int     `json:"ssimWindow"`

	EdgeDensity   bool    `json:"edgeDensity"`
	EdgeThreshold float64 `json:"edgeThreshold"` // fraction of pixels
	EdgeMagnitude float64 `json:"edgeMagnitude"` // Sobel magnitude that counts as an edge

	Tint          bool    `json:"tint"`
	TintThreshold float64 `json:"tintThreshold"` // intensity levels

	TextContrast      bool    `json:"textContrast"`
	ContrastThreshold float64 `json:"contrastThreshold"` // WCAG ratio
	ContrastWindow    int     `json:"contrastWindow"`
}

// DefaultConfig enables every check with the stock thresholds.
func DefaultConfig() Config {
	return Config{
		Clipping:          true,
		ClippingThreshold: 0.005,
		SSIM:              true,
		SSIMThreshold:     0.92,
		SSIMWindow:        8,
		EdgeDensity:       true,
		EdgeThreshold:     0.25,
		EdgeMagnitude:     128,
		Tint:              true,
		TintThreshold:     10,
		TextContrast:      true,
		ContrastThreshold: 7.0,
		ContrastWindow:    32,
	}
}

// Validate rejects any value outside its documented range.
func (c Config) Validate() error {
	return ir.FirstError(
		ir.CheckRange("clippingThreshold", c.ClippingThreshold, 0, 1),
		ir.CheckRange("ssimThreshold", c.SSIMThreshold, 0, 1),
		ir.CheckRange("ssimWindow", float64(c.SSIMWindow), 2, 64),
		ir.CheckRange("edgeThreshold", c.EdgeThreshold, 0, 1),
		ir.CheckRange("edgeMagnitude", c.EdgeMagnitude, 1, 1443),
		ir.CheckRange("tintThreshold", c.TintThreshold, 0, 255),
		ir.CheckRange("contrastThreshold", c.ContrastThreshold, 1, 21),
		ir.CheckRange("contrastWindow", float64(c.ContrastWindow), 4, 1024),
	)
}
