// Package stats computes per-channel statistics over pixel buffers.
package stats

import (
	"fmt"
	"image"
	"math"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// DefaultBorderFraction is the width of the paper-sampling band as a
// fraction of the shorter image dimension.
const DefaultBorderFraction = 0.05

// ChannelStats holds the mean and population standard deviation of one channel.
type ChannelStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Region selects which pixels of a buffer are sampled.
type Region struct {
	kind     regionKind
	fraction float64
	rect     image.Rectangle
}

type regionKind int

const (
	regionWhole regionKind = iota
	regionBorder
	regionRect
)

// Whole samples every pixel.
func Whole() Region { return Region{kind: regionWhole} }

// Border samples an outer band whose width is fraction of the shorter
// dimension, rounded, and at least one pixel.
func Border(fraction float64) Region { return Region{kind: regionBorder, fraction: fraction} }

// Rect samples the pixels inside r, clipped to the buffer.
func Rect(r image.Rectangle) Region { return Region{kind: regionRect, rect: r} }

func (r Region) String() string {
	switch r.kind {
	case regionBorder:
		return fmt.Sprintf("border(%.3f)", r.fraction)
	case regionRect:
		return "rect" + r.rect.String()
	default:
		return "whole"
	}
}

// welford accumulates a running mean and sum of squared deviations.
type welford struct {
	n    float64
	mean float64
	m2   float64
}

func (w *welford) add(x float64) {
	w.n++
	d := x - w.mean
	w.mean += d / w.n
	w.m2 += d * (x - w.mean)
}

func (w *welford) stats() ChannelStats {
	if w.n == 0 {
		return ChannelStats{}
	}
	return ChannelStats{Mean: w.mean, StdDev: math.Sqrt(w.m2 / w.n)}
}

// Sample returns one ChannelStats per channel of buf over region.
func Sample(buf *ir.PixelBuffer, region Region) ([]ChannelStats, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	acc := make([]welford, buf.Channels)
	visit := func(x, y int) {
		off := buf.Offset(x, y)
		for c := range acc {
			acc[c].add(float64(buf.Data[off+c]))
		}
	}

	switch region.kind {
	case regionWhole:
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				visit(x, y)
			}
		}
	case regionBorder:
		if !(region.fraction > 0 && region.fraction <= 0.5) {
			return nil, fmt.Errorf("%w: border fraction %g", ir.ErrInvalidRegion, region.fraction)
		}
		band := BandWidth(buf.Width, buf.Height, region.fraction)
		for y := 0; y < buf.Height; y++ {
			inRow := y < band || y >= buf.Height-band
			for x := 0; x < buf.Width; x++ {
				if inRow || x < band || x >= buf.Width-band {
					visit(x, y)
				}
			}
		}
	case regionRect:
		r := region.rect.Intersect(image.Rect(0, 0, buf.Width, buf.Height))
		if r.Empty() {
			return nil, fmt.Errorf("%w: %v does not overlap %dx%d", ir.ErrInvalidRegion, region.rect, buf.Width, buf.Height)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				visit(x, y)
			}
		}
	}

	if acc[0].n == 0 {
		return nil, fmt.Errorf("%w: %v is empty", ir.ErrInvalidRegion, region)
	}
	out := make([]ChannelStats, len(acc))
	for c := range acc {
		out[c] = acc[c].stats()
	}
	return out, nil
}

// BandWidth returns the border band width in pixels for the given fraction.
func BandWidth(width, height int, fraction float64) int {
	short := min(width, height)
	band := int(math.Round(fraction * float64(short)))
	return max(band, 1)
}
