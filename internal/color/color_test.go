package color

import (
	"math"
	"testing"
)

func TestHSVRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 17 {
				h, s, v := RGBToHSV(float64(r)/255, float64(g)/255, float64(b)/255)
				rr, gg, bb := HSVToRGB(h, s, v)
				if ClampByte(rr*255) != byte(r) || ClampByte(gg*255) != byte(g) || ClampByte(bb*255) != byte(b) {
					t.Fatalf("round trip (%d,%d,%d) -> h=%.2f s=%.3f v=%.3f -> (%.2f,%.2f,%.2f)",
						r, g, b, h, s, v, rr*255, gg*255, bb*255)
				}
			}
		}
	}
}

func TestRGBToHSVKnownHues(t *testing.T) {
	cases := []struct {
		r, g, b float64
		hue     float64
	}{
		{1, 0, 0, 0},
		{1, 1, 0, 60},
		{0, 1, 0, 120},
		{0, 1, 1, 180},
		{0, 0, 1, 240},
		{1, 0, 1, 300},
	}
	for _, c := range cases {
		h, s, v := RGBToHSV(c.r, c.g, c.b)
		if math.Abs(h-c.hue) > 1e-9 || s != 1 || v != 1 {
			t.Errorf("(%v,%v,%v): got h=%v s=%v v=%v, want hue %v", c.r, c.g, c.b, h, s, v, c.hue)
		}
	}
}

func TestAdjustSaturationLeavesGrayAlone(t *testing.T) {
	src := []byte{128, 128, 128, 200, 50, 50}
	dst := make([]byte, len(src))
	AdjustSaturation(dst, src, func(h, s float64) float64 { return 0 })
	if dst[0] != 128 || dst[1] != 128 || dst[2] != 128 {
		t.Errorf("gray changed: %v", dst[:3])
	}
	if dst[3] != dst[4] || dst[4] != dst[5] {
		t.Errorf("desaturated red is not gray: %v", dst[3:])
	}
}

func TestCurveThen(t *testing.T) {
	inv := NewCurve(func(v float64) float64 { return 255 - v })
	id := Identity()
	twice := inv.Then(&inv)
	if twice != id {
		t.Fatal("inverting twice is not the identity")
	}
	buf := []byte{0, 10, 255}
	inv.Apply(buf, buf)
	if buf[0] != 255 || buf[1] != 245 || buf[2] != 0 {
		t.Errorf("Apply in place: %v", buf)
	}
}

func TestClampByte(t *testing.T) {
	if ClampByte(-3) != 0 || ClampByte(300) != 255 || ClampByte(127.5) != 128 || ClampByte(math.NaN()) != 0 {
		t.Fatal("ClampByte bounds")
	}
}

func TestContrastRatio(t *testing.T) {
	white := RelativeLuminance(255, 255, 255)
	black := RelativeLuminance(0, 0, 0)
	if got := ContrastRatio(black, white); math.Abs(got-21) > 1e-9 {
		t.Errorf("black/white contrast = %v, want 21", got)
	}
	if got := ContrastRatio(white, white); got != 1 {
		t.Errorf("self contrast = %v, want 1", got)
	}
}
