package tone

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
)

func solid(t *testing.T, w, h int, r, g, b byte) *ir.PixelBuffer {
	t.Helper()
	buf, err := ir.New(w, h, ir.RGB)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < len(buf.Data); i += 3 {
		buf.Data[i], buf.Data[i+1], buf.Data[i+2] = r, g, b
	}
	return buf
}

// page returns an off-white page with a dark ink block and a red panel.
func page(t *testing.T) *ir.PixelBuffer {
	t.Helper()
	buf := solid(t, 64, 48, 232, 224, 200)
	for y := 10; y < 38; y++ {
		for x := 10; x < 54; x++ {
			off := buf.Offset(x, y)
			switch {
			case x < 30:
				buf.Data[off], buf.Data[off+1], buf.Data[off+2] = 20, 18, 25
			default:
				buf.Data[off], buf.Data[off+1], buf.Data[off+2] = byte(150+x), 40, byte(30+y)
			}
		}
	}
	return buf
}

func meanRGB(t *testing.T, buf *ir.PixelBuffer) [3]float64 {
	t.Helper()
	s, err := stats.Sample(buf, stats.Whole())
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	return [3]float64{s[0].Mean, s[1].Mean, s[2].Mean}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg := DefaultConfig()
	cfg.ClarityAmount = 1.5
	if err := cfg.Validate(); !errors.Is(err, ir.ErrParameterOutOfRange) {
		t.Fatalf("clarityAmount 1.5: expected ErrParameterOutOfRange, got %v", err)
	}
	cfg = DefaultConfig()
	cfg.WhitePoint = 200
	if err := cfg.Validate(); !errors.Is(err, ir.ErrParameterOutOfRange) {
		t.Fatalf("whitePoint 200: expected ErrParameterOutOfRange, got %v", err)
	}
}

func TestRemoveCastUniformPaperBecomesWhite(t *testing.T) {
	for _, paper := range [][3]byte{{200, 200, 200}, {230, 220, 190}} {
		src := solid(t, 20, 20, paper[0], paper[1], paper[2])
		out, err := RemoveCast(src, 1.0, stats.DefaultBorderFraction)
		if err != nil {
			t.Fatalf("RemoveCast: %v", err)
		}
		m := meanRGB(t, out)
		for c, v := range m {
			if v < 254 {
				t.Errorf("paper %v: channel %d mean %.2f, want ~255", paper, c, v)
			}
		}
		if src.Data[0] != paper[0] {
			t.Fatal("RemoveCast modified its input")
		}
	}
}

func TestRemoveCastProtectsInk(t *testing.T) {
	src := page(t)
	out, err := RemoveCast(src, 1.0, stats.DefaultBorderFraction)
	if err != nil {
		t.Fatalf("RemoveCast: %v", err)
	}
	off := src.Offset(15, 15)
	for c := 0; c < 3; c++ {
		before, after := int(src.Data[off+c]), int(out.Data[off+c])
		if after-before > 2 {
			t.Errorf("ink channel %d lifted from %d to %d", c, before, after)
		}
	}
	corner := out.Offset(0, 0)
	if out.Data[corner+2] < 250 {
		t.Errorf("paper blue = %d, expected near white", out.Data[corner+2])
	}
}

func TestRemoveCastZeroStrengthIsIdentity(t *testing.T) {
	src := page(t)
	out, err := RemoveCast(src, 0, stats.DefaultBorderFraction)
	if err != nil {
		t.Fatalf("RemoveCast: %v", err)
	}
	for i := range src.Data {
		if src.Data[i] != out.Data[i] {
			t.Fatalf("sample %d changed: %d -> %d", i, src.Data[i], out.Data[i])
		}
	}
}

func TestLevelsCurveEndpoints(t *testing.T) {
	c := LevelsCurve(12, 245)
	if c[0] != 0 || c[12] != 0 || c[245] != 255 || c[255] != 255 {
		t.Fatalf("endpoints: c[0]=%d c[12]=%d c[245]=%d c[255]=%d", c[0], c[12], c[245], c[255])
	}
	for i := 1; i < 256; i++ {
		if c[i] < c[i-1] {
			t.Fatalf("curve not monotonic at %d", i)
		}
	}
}

func TestLevelsIdempotentOnFixedPoints(t *testing.T) {
	full := LevelsCurve(0, 255)
	twice := full.Then(&full)
	if twice != full {
		t.Fatal("full-range levels not idempotent")
	}

	c := LevelsCurve(12, 245)
	twice = c.Then(&c)
	for v := 0; v < 256; v++ {
		if (v <= 12 || v >= 245) && twice[v] != c[v] {
			t.Errorf("clipped input %d: once=%d twice=%d", v, c[v], twice[v])
		}
	}
}

func TestLevelsRejectsOutOfRange(t *testing.T) {
	src := solid(t, 2, 2, 1, 2, 3)
	if _, err := Levels(src, 50, 245); !errors.Is(err, ir.ErrParameterOutOfRange) {
		t.Fatalf("expected ErrParameterOutOfRange, got %v", err)
	}
}

func TestSaturationFactorBands(t *testing.T) {
	cases := []struct {
		hue  float64
		want float64
	}{
		{0, 1.2},
		{10, 1.2},
		{25, 1},
		{44.9, 1},
		{45, 1.2},
		{59.9, 1.2},
		{60, 1},
		{120, 1},
		{180, 0.8},
		{269, 0.8},
		{270, 1},
		{330, 1},
	}
	for _, c := range cases {
		if got := SaturationFactor(c.hue, 1.2, 0.8); got != c.want {
			t.Errorf("hue %v: factor %v, want %v", c.hue, got, c.want)
		}
	}
}

func TestSelectiveSaturation(t *testing.T) {
	// red (hue 0), skin (hue ~30), blue (hue 240)
	src := solid(t, 3, 1, 0, 0, 0)
	copy(src.Data, []byte{200, 100, 100, 220, 170, 120, 100, 100, 200})
	out, err := SelectiveSaturation(src, 1.3, 0.7)
	if err != nil {
		t.Fatalf("SelectiveSaturation: %v", err)
	}
	if !(out.Data[1] < src.Data[1]) {
		t.Errorf("red not boosted: %v -> %v", src.Data[0:3], out.Data[0:3])
	}
	for i := 3; i < 6; i++ {
		if out.Data[i] != src.Data[i] {
			t.Errorf("skin tone changed: %v -> %v", src.Data[3:6], out.Data[3:6])
			break
		}
	}
	if !(out.Data[6] > src.Data[6]) {
		t.Errorf("blue not muted: %v -> %v", src.Data[6:9], out.Data[6:9])
	}
}

func TestClarityFlatImageUnchanged(t *testing.T) {
	src := solid(t, 16, 16, 90, 120, 200)
	out, err := Clarity(src, 2, 1)
	if err != nil {
		t.Fatalf("Clarity: %v", err)
	}
	for i := range src.Data {
		if src.Data[i] != out.Data[i] {
			t.Fatalf("flat image changed at %d: %d -> %d", i, src.Data[i], out.Data[i])
		}
	}
}

func TestClarityClampsOvershoot(t *testing.T) {
	src := solid(t, 16, 4, 255, 255, 255)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			off := src.Offset(x, y)
			src.Data[off], src.Data[off+1], src.Data[off+2] = 5, 5, 5
		}
	}
	out, err := Clarity(src, 2, 1)
	if err != nil {
		t.Fatalf("Clarity: %v", err)
	}
	dark := out.Data[out.Offset(7, 1)]
	light := out.Data[out.Offset(8, 1)]
	if dark != 0 || light != 255 {
		t.Errorf("edge pixels = %d / %d, want clamped 0 / 255", dark, light)
	}
	if _, err := Clarity(src, 2, 1.01); !errors.Is(err, ir.ErrParameterOutOfRange) {
		t.Errorf("amount 1.01: expected ErrParameterOutOfRange, got %v", err)
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{1, 2.5, 8} {
		var sum float64
		for _, w := range gaussianKernel(sigma) {
			sum += w
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("sigma %v: kernel sums to %v", sigma, sum)
		}
	}
}

func TestNewGrainTiles(t *testing.T) {
	g := NewGrain(32, 7)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := g.At(x, y)
			if v < 1-grainDepth-1e-12 || v > 1 {
				t.Fatalf("grain value %v out of range at (%d,%d)", v, x, y)
			}
			if g.At(x+32, y+64) != v {
				t.Fatalf("tile does not repeat at (%d,%d)", x, y)
			}
		}
	}
	if NewGrain(32, 7).At(3, 5) != g.At(3, 5) {
		t.Fatal("grain is not deterministic for a seed")
	}
}

func TestApplyGrainDarkensSlightly(t *testing.T) {
	src := solid(t, 40, 40, 255, 255, 255)
	out, err := ApplyGrain(src, NewGrain(16, 1), 0.1)
	if err != nil {
		t.Fatalf("ApplyGrain: %v", err)
	}
	floor := byte(math.Floor(255 * (1 - 0.1*grainDepth)))
	var darker int
	for _, v := range out.Data {
		if v < floor {
			t.Fatalf("grain darkened to %d, floor %d", v, floor)
		}
		if v < 255 {
			darker++
		}
	}
	if darker == 0 {
		t.Error("grain had no visible effect")
	}
	if _, err := ApplyGrain(src, NewGrain(16, 1), 0.2); !errors.Is(err, ir.ErrParameterOutOfRange) {
		t.Errorf("strength 0.2: expected ErrParameterOutOfRange, got %v", err)
	}
}

func TestGrainFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 50, 30))
	for i := range img.Pix {
		img.Pix[i] = 204
	}
	g, err := GrainFromImage(img, 120, 80)
	if err != nil {
		t.Fatalf("GrainFromImage: %v", err)
	}
	if w, h := g.Bounds(); w != 120 || h != 80 {
		t.Errorf("bounds %dx%d, want the page size 120x80", w, h)
	}
	if math.Abs(g.At(119, 79)-0.8) > 1.0/255 || math.Abs(g.At(3, 3)-0.8) > 1.0/255 {
		t.Errorf("value=%v, want 0.8", g.At(119, 79))
	}
	if _, err := GrainFromImage(image.NewGray(image.Rect(0, 0, 0, 0)), 8, 8); err == nil {
		t.Error("empty image accepted")
	}
	if _, err := GrainFromImage(img, 0, 8); !errors.Is(err, ir.ErrInvalidDimensions) {
		t.Errorf("zero width: got %v", err)
	}
}

func TestGrainTileSize(t *testing.T) {
	for _, tc := range []struct{ w, h, want int }{
		{300, 200, 300},
		{40, 90, 90},
		{2000, 3000, MaxGrainTile},
		{1, 2, 4},
	} {
		if got := GrainTileSize(tc.w, tc.h); got != tc.want {
			t.Errorf("GrainTileSize(%d, %d) = %d, want %d", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestMatchReferenceSelfIsIdentity(t *testing.T) {
	src := page(t)
	ref, err := stats.BuildReference(src)
	if err != nil {
		t.Fatalf("BuildReference: %v", err)
	}
	out, err := MatchReference(src, ref, 1.0)
	if err != nil {
		t.Fatalf("MatchReference: %v", err)
	}
	for i := range src.Data {
		if d := int(src.Data[i]) - int(out.Data[i]); d < -1 || d > 1 {
			t.Fatalf("sample %d moved from %d to %d", i, src.Data[i], out.Data[i])
		}
	}
}

func TestMatchReferenceMovesMean(t *testing.T) {
	hero := solid(t, 8, 8, 200, 200, 200)
	ref, _ := stats.BuildReference(hero)
	src := solid(t, 8, 8, 100, 100, 100)
	out, err := MatchReference(src, ref, 0.5)
	if err != nil {
		t.Fatalf("MatchReference: %v", err)
	}
	if out.Data[0] != 150 {
		t.Errorf("flat channel matched to %d, want 150", out.Data[0])
	}
}

func TestMatchReferenceNotReady(t *testing.T) {
	src := solid(t, 2, 2, 1, 2, 3)
	if _, err := MatchReference(src, nil, 1); !errors.Is(err, ir.ErrReferenceNotReady) {
		t.Errorf("nil reference: expected ErrReferenceNotReady, got %v", err)
	}
	if _, err := MatchReference(src, &stats.Reference{}, 1); !errors.Is(err, ir.ErrReferenceNotReady) {
		t.Errorf("zero reference: expected ErrReferenceNotReady, got %v", err)
	}
}
