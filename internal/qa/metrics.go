package qa

import (
	"math"
	"sort"

	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// Clipping returns, per RGB channel, the fraction of samples at exactly 0
// and at exactly 255.
func Clipping(buf *ir.PixelBuffer) (shadows, highlights [3]float64) {
	var lo, hi [3]int
	for i := 0; i < len(buf.Data); i += 3 {
		for c := 0; c < 3; c++ {
			switch buf.Data[i+c] {
			case 0:
				lo[c]++
			case 255:
				hi[c]++
			}
		}
	}
	n := float64(buf.Pixels())
	for c := 0; c < 3; c++ {
		shadows[c] = float64(lo[c]) / n
		highlights[c] = float64(hi[c]) / n
	}
	return shadows, highlights
}

// SSIM stabilizing constants for 8-bit data.
var (
	ssimC1 = math.Pow(0.01*255, 2)
	ssimC2 = math.Pow(0.03*255, 2)
)

// SSIM returns the mean structural similarity of the luminance of two RGB
// buffers of the same shape, using square windows of the given size moved
// by half a window.
func SSIM(a, b *ir.PixelBuffer, window int) (float64, error) {
	if err := ir.FirstError(a.RequireChannels(ir.RGB), b.RequireChannels(ir.RGB)); err != nil {
		return 0, err
	}
	if !a.SameShape(b) {
		return 0, ir.ErrInvalidDimensions
	}
	if err := ir.CheckRange("ssimWindow", float64(window), 2, 64); err != nil {
		return 0, err
	}
	return ssimLuma(color.LumaPlane(a.Data), color.LumaPlane(b.Data), a.Width, a.Height, window), nil
}

func ssimLuma(x, y []float64, w, h, window int) float64 {
	ws := min(window, w, h)
	step := max(ws/2, 1)
	n := float64(ws * ws)
	var total float64
	var count int
	for wy := 0; wy+ws <= h; wy += step {
		for wx := 0; wx+ws <= w; wx += step {
			var sx, sy float64
			for j := wy; j < wy+ws; j++ {
				for i := wx; i < wx+ws; i++ {
					sx += x[j*w+i]
					sy += y[j*w+i]
				}
			}
			mx, my := sx/n, sy/n
			var vx, vy, cov float64
			for j := wy; j < wy+ws; j++ {
				for i := wx; i < wx+ws; i++ {
					dx := x[j*w+i] - mx
					dy := y[j*w+i] - my
					vx += dx * dx
					vy += dy * dy
					cov += dx * dy
				}
			}
			vx, vy, cov = vx/n, vy/n, cov/n
			total += ((2*mx*my + ssimC1) * (2*cov + ssimC2)) /
				((mx*mx + my*my + ssimC1) * (vx + vy + ssimC2))
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return total / float64(count)
}

// edgeDensity returns the fraction of interior pixels whose Sobel gradient
// magnitude reaches threshold.
func edgeDensity(luma []float64, w, h int, threshold float64) float64 {
	if w < 3 || h < 3 {
		return 0
	}
	at := func(x, y int) float64 { return luma[y*w+x] }
	var edges int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			if math.Hypot(gx, gy) >= threshold {
				edges++
			}
		}
	}
	return float64(edges) / float64((w-2)*(h-2))
}

// EdgeDensity is the exported form of the Sobel edge fraction of an RGB buffer.
func EdgeDensity(buf *ir.PixelBuffer, magnitude float64) (float64, error) {
	if err := buf.RequireChannels(ir.RGB); err != nil {
		return 0, err
	}
	return edgeDensity(color.LumaPlane(buf.Data), buf.Width, buf.Height, magnitude), nil
}

// Tint names a dominant color cast.
type Tint struct {
	Name       string
	Difference float64 // largest pairwise channel mean difference
}

var pairTints = map[[2]int]string{
	{0, 1}: "yellow",
	{1, 2}: "cyan",
	{0, 2}: "magenta",
}

// DetectTint compares the channel means pairwise (R-G, G-B, R-B) and names
// the cast when any difference exceeds threshold. Two channels within half
// the threshold of each other that both lead the third name a secondary
// color.
func DetectTint(buf *ir.PixelBuffer, threshold float64) (Tint, bool) {
	var sum [3]float64
	for i := 0; i < len(buf.Data); i += 3 {
		sum[0] += float64(buf.Data[i])
		sum[1] += float64(buf.Data[i+1])
		sum[2] += float64(buf.Data[i+2])
	}
	n := float64(buf.Pixels())
	mean := [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}

	diff := math.Max(math.Abs(mean[0]-mean[1]), math.Max(math.Abs(mean[1]-mean[2]), math.Abs(mean[0]-mean[2])))
	if diff <= threshold {
		return Tint{}, false
	}

	order := []int{0, 1, 2}
	sort.Slice(order, func(i, j int) bool { return mean[order[i]] > mean[order[j]] })
	top, second := order[0], order[1]
	name := channelNames[top]
	if mean[top]-mean[second] < threshold/2 {
		pair := [2]int{min(top, second), max(top, second)}
		name = pairTints[pair]
	}
	return Tint{Name: name, Difference: diff}, true
}

type contrastResult struct {
	Windows int
	Flagged int
	Worst   float64
}

// Ink-on-paper windows need a dark cluster at or below contrastInkMax, a
// light cluster at or above contrastPaperMin, and this much separation.
const (
	contrastInkMax    = 128
	contrastPaperMin  = 160
	contrastMinSpread = 48
	clusterFraction   = 0.1
)

// textContrast splits the page into square windows, keeps the ones that
// look like ink on paper and measures the WCAG contrast between the mean
// colors of the darkest and lightest tenth of their pixels. Clusters are
// picked by luma; the ratio uses the relative luminance of their RGB means.
func textContrast(buf *ir.PixelBuffer, luma []float64, window int, threshold float64) contrastResult {
	res := contrastResult{Worst: 21}
	w, h := buf.Width, buf.Height
	ws := min(window, w, h)
	var hist levelHistogram
	for wy := 0; wy+ws <= h; wy += ws {
		for wx := 0; wx+ws <= w; wx += ws {
			hist = levelHistogram{}
			for j := wy; j < wy+ws; j++ {
				for i := wx; i < wx+ws; i++ {
					p := j*w + i
					hist.add(color.ClampByte(luma[p]), buf.Data[p*3:p*3+3])
				}
			}
			take := max(int(float64(ws*ws)*clusterFraction), 1)
			dark := hist.mean(take, false)
			light := hist.mean(take, true)
			if dark.luma > contrastInkMax || light.luma < contrastPaperMin || light.luma-dark.luma < contrastMinSpread {
				continue
			}
			res.Windows++
			ratio := color.ContrastRatio(light.luminance(), dark.luminance())
			if ratio < threshold {
				res.Flagged++
			}
			res.Worst = min(res.Worst, ratio)
		}
	}
	return res
}

// levelHistogram counts pixels per luma level and sums their RGB.
type levelHistogram struct {
	count [256]int
	rgb   [256][3]float64
}

func (h *levelHistogram) add(level byte, px []byte) {
	h.count[level]++
	for c := 0; c < 3; c++ {
		h.rgb[level][c] += float64(px[c])
	}
}

type cluster struct {
	luma float64
	rgb  [3]float64
}

func (c cluster) luminance() float64 {
	return color.RelativeLuminance(c.rgb[0], c.rgb[1], c.rgb[2])
}

// mean averages the take darkest (or lightest) pixels. A level that is
// only partly taken contributes its mean color.
func (h *levelHistogram) mean(take int, fromTop bool) cluster {
	var out cluster
	got := 0
	for k := 0; k < 256 && got < take; k++ {
		v := k
		if fromTop {
			v = 255 - k
		}
		if h.count[v] == 0 {
			continue
		}
		n := min(h.count[v], take-got)
		out.luma += float64(n * v)
		for c := 0; c < 3; c++ {
			out.rgb[c] += h.rgb[v][c] * float64(n) / float64(h.count[v])
		}
		got += n
	}
	if got == 0 {
		return cluster{}
	}
	out.luma /= float64(got)
	for c := 0; c < 3; c++ {
		out.rgb[c] /= float64(got)
	}
	return out
}
