package qa

import (
	"fmt"
	"image"
	"math/bits"
	"sort"
	"strconv"

	"golang.org/x/image/draw"

	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

const hashGrid = 8

// boxKernel averages every source pixel that falls inside a destination
// cell when downscaling.
var boxKernel = &draw.Kernel{Support: 0.5, At: func(float64) float64 { return 1 }}

// Hash is a 64-bit perceptual fingerprint. Bit 63 is the top-left grid cell.
type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// Distance returns the Hamming distance between two hashes.
func (h Hash) Distance(o Hash) int {
	return bits.OnesCount64(uint64(h ^ o))
}

// ParseHash parses the 16-digit hex form produced by String.
func ParseHash(s string) (Hash, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing hash %q: %w", s, err)
	}
	return Hash(v), nil
}

// PerceptualHash box-averages the luminance of buf onto an 8x8 grid and sets
// one bit per cell brighter than the grid median. Comparing hashes of
// successive pages finds outliers; that comparison is left to the caller.
func PerceptualHash(buf *ir.PixelBuffer) (Hash, error) {
	if err := buf.Validate(); err != nil {
		return 0, err
	}
	gray := image.NewGray(image.Rect(0, 0, buf.Width, buf.Height))
	switch buf.Channels {
	case ir.RGB:
		for i := 0; i < buf.Pixels(); i++ {
			gray.Pix[i] = color.ClampByte(color.Luma(buf.Data[i*3], buf.Data[i*3+1], buf.Data[i*3+2]))
		}
	case ir.Gray:
		copy(gray.Pix, buf.Data)
	default:
		return 0, fmt.Errorf("%w: perceptual hash needs RGB or gray, got %d channels", ir.ErrInvalidDimensions, buf.Channels)
	}

	grid := image.NewGray16(image.Rect(0, 0, hashGrid, hashGrid))
	boxKernel.Scale(grid, grid.Bounds(), gray, gray.Bounds(), draw.Src, nil)

	cells := make([]uint16, hashGrid*hashGrid)
	for y := 0; y < hashGrid; y++ {
		for x := 0; x < hashGrid; x++ {
			cells[y*hashGrid+x] = grid.Gray16At(x, y).Y
		}
	}
	sorted := append([]uint16(nil), cells...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	median := (float64(sorted[len(sorted)/2-1]) + float64(sorted[len(sorted)/2])) / 2

	var h Hash
	for i, v := range cells {
		if float64(v) > median {
			h |= 1 << (63 - i)
		}
	}
	return h, nil
}
