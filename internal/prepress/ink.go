package prepress

import (
	"math"

	"github.com/Desmondshah/Comic-restor-sub000/internal/color"
)

// Ink is the coverage of each process ink at one pixel, 0-1 per channel.
type Ink struct {
	C, M, Y, K float64
}

// RichBlack is the canonical rich black recipe.
var RichBlack = Ink{C: 0.6, M: 0.4, Y: 0.4, K: 1.0}

// Solid K, used for line art.
var lineArtInk = Ink{K: 1.0}

// Total returns the total area coverage in percent (0-400).
func (i Ink) Total() float64 {
	return (i.C + i.M + i.Y + i.K) * 100
}

// Separate converts an RGB sample to CMY and applies gray component
// replacement. The gray component k = min(C,M,Y) becomes the base K, and gcr
// of it is moved out of C, M and Y on top of that: K' = k + gcr*k (at most
// 1) and each of C, M, Y loses gcr*k. With gcr=0 K still carries the gray
// component and CMY are unchanged.
func Separate(r, g, b byte, gcr float64) Ink {
	c := 1 - float64(r)/255
	m := 1 - float64(g)/255
	y := 1 - float64(b)/255
	k := math.Min(c, math.Min(m, y))
	shift := gcr * k
	return Ink{
		C: math.Max(c-shift, 0),
		M: math.Max(m-shift, 0),
		Y: math.Max(y-shift, 0),
		K: math.Min(k+shift, 1),
	}
}

// LimitTAC scales C, M and Y (never K) so that the total coverage does not
// exceed limit percent. It reports whether the ink was changed.
func LimitTAC(ink Ink, limit float64) (Ink, bool) {
	if ink.Total() <= limit {
		return ink, false
	}
	cmy := ink.C + ink.M + ink.Y
	remaining := limit/100 - ink.K
	if remaining <= 0 || cmy == 0 {
		return Ink{K: math.Min(ink.K, limit/100)}, true
	}
	s := remaining / cmy
	return Ink{C: ink.C * s, M: ink.M * s, Y: ink.Y * s, K: ink.K}, true
}

// GainCurve is a coverage transfer sampled at the 256 8-bit levels.
type GainCurve [256]float64

// DotGainCurve returns the pre-compensation transfer v^(1/(1+amount/100)).
// The curve is monotonic and keeps 0 and 1 fixed.
func DotGainCurve(amount float64) GainCurve {
	var t GainCurve
	exp := 1 / (1 + amount/100)
	for i := range t {
		t[i] = math.Pow(float64(i)/255, exp)
	}
	return t
}

// Apply maps coverage v (0-1) through the curve.
func (t *GainCurve) Apply(v float64) float64 {
	return t[int(math.Round(color.Clamp(v, 0, 1)*255))]
}

// Quantize converts ink coverage to bytes (255 = 100%) and guarantees the
// byte total stays within limit percent by trimming the largest of C, M, Y.
func Quantize(ink Ink, limit float64) [4]byte {
	q := [4]byte{
		color.ClampByte(ink.C * 255),
		color.ClampByte(ink.M * 255),
		color.ClampByte(ink.Y * 255),
		color.ClampByte(ink.K * 255),
	}
	allowed := int(math.Floor(limit * 255 / 100))
	sum := int(q[0]) + int(q[1]) + int(q[2]) + int(q[3])
	for sum > allowed {
		i := 0
		for j := 1; j < 3; j++ {
			if q[j] > q[i] {
				i = j
			}
		}
		if q[i] == 0 {
			q[3]--
		} else {
			q[i]--
		}
		sum--
	}
	return q
}
