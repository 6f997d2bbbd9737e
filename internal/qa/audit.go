package qa

import (
	"fmt"

	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

var channelNames = [3]string{"red", "green", "blue"}

// Audit runs every enabled check on processed. original is only needed for
// SSIM and may be nil when that check is disabled. Both buffers must be RGB
// with identical dimensions.
func Audit(original, processed *ir.PixelBuffer, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := processed.RequireChannels(ir.RGB); err != nil {
		return nil, fmt.Errorf("processed: %w", err)
	}
	if cfg.SSIM || original != nil {
		if err := original.RequireChannels(ir.RGB); err != nil {
			return nil, fmt.Errorf("original: %w", err)
		}
		if !original.SameShape(processed) {
			return nil, fmt.Errorf("%w: original %dx%d, processed %dx%d", ir.ErrInvalidDimensions,
				original.Width, original.Height, processed.Width, processed.Height)
		}
	}

	var warnings []Warning
	luma := color.LumaPlane(processed.Data)

	if cfg.Clipping {
		shadows, highlights := Clipping(processed)
		if c := worstChannel(highlights); highlights[c] > cfg.ClippingThreshold {
			warnings = append(warnings, Warning{
				Code:    CodeHighlightClipping,
				Message: fmt.Sprintf("%.2f%% of %s samples are clipped at 255", highlights[c]*100, channelNames[c]),
				Metric:  highlights[c],
			})
		}
		if c := worstChannel(shadows); shadows[c] > cfg.ClippingThreshold {
			warnings = append(warnings, Warning{
				Code:    CodeShadowClipping,
				Message: fmt.Sprintf("%.2f%% of %s samples are crushed to 0", shadows[c]*100, channelNames[c]),
				Metric:  shadows[c],
			})
		}
	}

	if cfg.SSIM {
		score := ssimLuma(color.LumaPlane(original.Data), luma, processed.Width, processed.Height, cfg.SSIMWindow)
		if score < cfg.SSIMThreshold {
			warnings = append(warnings, Warning{
				Code:    CodeLowSSIM,
				Message: fmt.Sprintf("structural similarity %.4f is below %.2f, page may be overprocessed", score, cfg.SSIMThreshold),
				Metric:  score,
			})
		}
	}

	if cfg.EdgeDensity {
		density := edgeDensity(luma, processed.Width, processed.Height, cfg.EdgeMagnitude)
		if density > cfg.EdgeThreshold {
			warnings = append(warnings, Warning{
				Code:    CodeEdgeDensity,
				Message: fmt.Sprintf("%.1f%% of pixels are edges, page may be oversharpened", density*100),
				Metric:  density,
			})
		}
	}

	if cfg.Tint {
		if tint, ok := DetectTint(processed, cfg.TintThreshold); ok {
			warnings = append(warnings, Warning{
				Code:    CodeColorTint,
				Message: fmt.Sprintf("page has a %s tint (%.1f levels)", tint.Name, tint.Difference),
				Metric:  tint.Difference,
			})
		}
	}

	if cfg.TextContrast {
		tc := textContrast(processed, luma, cfg.ContrastWindow, cfg.ContrastThreshold)
		if tc.Flagged > 0 {
			warnings = append(warnings, Warning{
				Code: CodeLowTextContrast,
				Message: fmt.Sprintf("%d of %d text windows are below %.1f:1 (worst %.2f:1)",
					tc.Flagged, tc.Windows, cfg.ContrastThreshold, tc.Worst),
				Metric: tc.Worst,
			})
		}
	}

	return &Report{Passed: len(warnings) == 0, Warnings: warnings}, nil
}

// worstChannel returns the index of the largest clipped fraction.
func worstChannel(fractions [3]float64) int {
	worst := 0
	for c := 1; c < 3; c++ {
		if fractions[c] > fractions[worst] {
			worst = c
		}
	}
	return worst
}
