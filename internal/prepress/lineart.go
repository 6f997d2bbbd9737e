package prepress

import (
	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// Line art thresholds on the 0-255 scale.
const (
	lineArtContrast = 96  // min luma range in the 3x3 neighborhood
	lineArtChroma   = 40  // max spread between RGB channels
	lineArtDark     = 110 // max luma of the pixel itself
)

// DetectLineArt flags dark, near-neutral pixels that sit on a strong local
// edge, which is how inked lines and lettering look after restoration. Only
// the dark side of an edge is flagged, so paper next to a line is left alone.
func DetectLineArt(src *ir.PixelBuffer) ([]bool, error) {
	if err := src.RequireChannels(ir.RGB); err != nil {
		return nil, err
	}
	w, h := src.Width, src.Height
	luma := color.LumaPlane(src.Data)
	mask := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if luma[i] > lineArtDark {
				continue
			}
			off := i * 3
			r, g, b := src.Data[off], src.Data[off+1], src.Data[off+2]
			if int(max(r, g, b))-int(min(r, g, b)) > lineArtChroma {
				continue
			}
			lo, hi := luma[i], luma[i]
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					v := luma[yy*w+xx]
					lo = min(lo, v)
					hi = max(hi, v)
				}
			}
			mask[i] = hi-lo >= lineArtContrast
		}
	}
	return mask, nil
}

// largeFills marks pixels that belong to a 4-connected region of at least
// minArea candidate pixels.
func largeFills(candidate []bool, w, h, minArea int) []bool {
	out := make([]bool, len(candidate))
	seen := make([]bool, len(candidate))
	var queue, region []int
	for start := range candidate {
		if !candidate[start] || seen[start] {
			continue
		}
		queue = append(queue[:0], start)
		region = region[:0]
		seen[start] = true
		for len(queue) > 0 {
			i := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			region = append(region, i)
			x, y := i%w, i/w
			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				if n[0] < 0 || n[0] >= w || n[1] < 0 || n[1] >= h {
					continue
				}
				j := n[1]*w + n[0]
				if candidate[j] && !seen[j] {
					seen[j] = true
					queue = append(queue, j)
				}
			}
		}
		if len(region) >= minArea {
			for _, i := range region {
				out[i] = true
			}
		}
	}
	return out
}
