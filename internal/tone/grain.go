package tone

import (
	"errors"
	"image"
	"math/rand/v2"

	"golang.org/x/image/draw"

	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// MaxGrainTile caps the edge of a generated grain tile. Pages up to this
// size get a tile covering the whole page; larger pages repeat it.
const MaxGrainTile = 512

// Generated grain only darkens by up to this much before opacity is applied.
const grainDepth = 0.25

// Grain is a tileable paper texture holding multiply factors in [0,1].
type Grain struct {
	w, h int
	tile []float64
}

// GrainTileSize returns the generated tile edge for a width x height page.
func GrainTileSize(width, height int) int {
	return max(min(max(width, height), MaxGrainTile), 4)
}

// NewGrain generates a deterministic tileable grain texture. Smoothing wraps
// around the tile edges, so neighboring tiles join without seams.
func NewGrain(size int, seed uint64) *Grain {
	if size < 4 {
		size = 4
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	noise := make([]float64, size*size)
	for i := range noise {
		noise[i] = rng.Float64()
	}
	for pass := 0; pass < 2; pass++ {
		noise = wrapBoxBlur(noise, size)
	}

	lo, hi := noise[0], noise[0]
	for _, v := range noise {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	tile := make([]float64, len(noise))
	for i, v := range noise {
		tile[i] = 1 - grainDepth*(1-(v-lo)/span)
	}
	return &Grain{w: size, h: size, tile: tile}
}

func wrapBoxBlur(src []float64, size int) []float64 {
	out := make([]float64, len(src))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var acc float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					yy := (y + dy + size) % size
					xx := (x + dx + size) % size
					acc += src[yy*size+xx]
				}
			}
			out[y*size+x] = acc / 9
		}
	}
	return out
}

// GrainFromImage builds grain from a scanned paper texture rescaled to
// width x height, normally the page itself, so one texture pixel lands on
// one page pixel.
func GrainFromImage(img image.Image, width, height int) (*Grain, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty grain image")
	}
	if width < 1 || height < 1 {
		return nil, ir.ErrInvalidDimensions
	}
	gray := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)
	tile := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tile[y*width+x] = float64(gray.Pix[y*gray.Stride+x]) / 255
		}
	}
	return &Grain{w: width, h: height, tile: tile}, nil
}

// Bounds returns the texture dimensions.
func (g *Grain) Bounds() (width, height int) { return g.w, g.h }

// At returns the multiply factor at image coordinate (x, y).
func (g *Grain) At(x, y int) float64 {
	return g.tile[(y%g.h)*g.w+x%g.w]
}

// ApplyGrain multiply-composites the tiled grain over src at the given
// opacity: out = in * lerp(1, grain, strength).
func ApplyGrain(src *ir.PixelBuffer, grain *Grain, strength float64) (*ir.PixelBuffer, error) {
	if err := requireRGB(src); err != nil {
		return nil, err
	}
	if err := ir.CheckRange("grainStrength", strength, 0, 0.1); err != nil {
		return nil, err
	}
	if grain == nil {
		return nil, errors.New("nil grain")
	}
	dst := src.Like()
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			f := color.Lerp(1, grain.At(x, y), strength)
			off := src.Offset(x, y)
			for c := 0; c < 3; c++ {
				dst.Data[off+c] = color.ClampByte(float64(src.Data[off+c]) * f)
			}
		}
	}
	return dst, nil
}
