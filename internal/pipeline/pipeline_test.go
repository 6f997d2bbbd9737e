package pipeline

import (
	"bytes"
	"errors"
	"image"
	"reflect"
	"testing"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
	"github.com/Desmondshah/Comic-restor-sub000/internal/observability"
	"github.com/Desmondshah/Comic-restor-sub000/internal/prepress"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
)

// testPage is a yellowed page with a black panel border, flat color fills
// and a line of lettering.
func testPage(t *testing.T) *ir.PixelBuffer {
	t.Helper()
	buf, err := ir.New(96, 96, ir.RGB)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			r, g, b := byte(236), byte(226), byte(196)
			switch {
			case x >= 12 && x < 84 && (y == 12 || y == 83 || x == 12 || x == 83):
				r, g, b = 10, 10, 12
			case x > 20 && x < 50 && y > 20 && y < 60:
				r, g, b = 200, 40, 36
			case x >= 50 && x < 76 && y > 20 && y < 60:
				r, g, b = 40, 90, 170
			case y == 70 && x > 20 && x < 76 && x%3 != 0:
				r, g, b = 20, 20, 20
			}
			off := buf.Offset(x, y)
			buf.Data[off], buf.Data[off+1], buf.Data[off+2] = r, g, b
		}
	}
	return buf
}

type recordingLogger struct {
	observability.NopLogger
	debug, info []string
}

func (l *recordingLogger) Debug(msg string, _ ...observability.Field) { l.debug = append(l.debug, msg) }
func (l *recordingLogger) Info(msg string, _ ...observability.Field)  { l.info = append(l.info, msg) }
func (l *recordingLogger) With(...observability.Field) observability.Logger {
	return l
}

func TestRunDefault(t *testing.T) {
	src := testPage(t)
	before := append([]byte(nil), src.Data...)
	log := &recordingLogger{}

	res, err := Run(src, DefaultConfig(), Options{Logger: log})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !bytes.Equal(src.Data, before) {
		t.Fatal("Run modified its input")
	}
	if !res.Output.SameShape(src) {
		t.Fatalf("output shape %dx%dx%d", res.Output.Width, res.Output.Height, res.Output.Channels)
	}
	if res.CMYK != nil || res.Preview != nil || res.Separation != nil {
		t.Error("prepress output present with prepress disabled")
	}
	if res.Report == nil {
		t.Fatal("no report")
	}
	want := []string{StepCastRemoval, StepLevels, StepSaturation, StepClarity, StepMatteCompensation}
	if !reflect.DeepEqual(res.Steps, want) {
		t.Errorf("steps = %v, want %v", res.Steps, want)
	}
	if len(log.debug) < len(want) {
		t.Errorf("expected a debug record per step, got %v", log.debug)
	}
	if len(log.info) != len(res.Report.Warnings) {
		t.Errorf("%d info records for %d warnings", len(log.info), len(res.Report.Warnings))
	}

	// cast removal should pull the yellowed paper toward white
	off := res.Output.Offset(2, 2)
	if p := res.Output.Data[off : off+3]; p[2] < 230 {
		t.Errorf("paper after correction = %v", p)
	}
	t.Logf("report: passed=%v warnings=%+v hash=%s", res.Report.Passed, res.Report.Warnings, res.Hash)
}

func TestPlanOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tone.MatchReference = true
	cfg.Tone.PaperGrain = true
	pc := prepress.DefaultConfig()
	cfg.Prepress = &pc

	ref, err := stats.BuildReference(testPage(t))
	if err != nil {
		t.Fatalf("BuildReference: %v", err)
	}
	steps, err := Plan(cfg, Options{Reference: ref})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	var names []string
	for _, s := range steps {
		names = append(names, s.Name())
	}
	want := []string{
		StepCastRemoval, StepLevels, StepSaturation, StepClarity,
		StepMatchReference, StepPaperGrain, StepMatteCompensation, StepSeparate,
	}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("plan = %v, want %v", names, want)
	}
	if g := steps[5].(PaperGrain); g.Texture != nil || g.Strength != cfg.Tone.GrainStrength {
		t.Errorf("paper grain step = %+v", g)
	}
}

func TestPlanSkipsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tone.CastStrength = 0
	cfg.Tone.ClarityAmount = 0
	cfg.Matte = nil
	steps, err := Plan(cfg, Options{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(steps) != 2 || steps[0].Name() != StepLevels || steps[1].Name() != StepSaturation {
		t.Errorf("plan = %v", steps)
	}
}

func TestMatchWithoutReference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tone.MatchReference = true
	if _, err := Run(testPage(t), cfg, Options{}); !errors.Is(err, ir.ErrReferenceNotReady) {
		t.Fatalf("expected ErrReferenceNotReady, got %v", err)
	}
	if _, err := Plan(cfg, Options{Reference: &stats.Reference{}}); !errors.Is(err, ir.ErrReferenceNotReady) {
		t.Fatalf("zero reference: expected ErrReferenceNotReady, got %v", err)
	}
}

func TestMatchSelfReference(t *testing.T) {
	src := testPage(t)
	cfg := DefaultConfig()
	cfg.Tone.MatchReference = true
	cfg.Tone.MatchStrength = 1
	ref, _ := stats.BuildReference(src)
	res, err := Run(src, cfg, Options{Reference: ref})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Steps[4] != StepMatchReference {
		t.Errorf("steps = %v", res.Steps)
	}
}

func TestPaperGrainTextureAtPageSize(t *testing.T) {
	// a 10x10 texture with one dark quadrant, stretched over the 96x96 page
	tex := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range tex.Pix {
		tex.Pix[i] = 255
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			tex.Pix[y*tex.Stride+x] = 0
		}
	}
	src, _ := ir.New(96, 96, ir.RGB)
	for i := range src.Data {
		src.Data[i] = 200
	}
	out, err := PaperGrain{Texture: tex, Strength: 0.1}.run(src)
	if err != nil {
		t.Fatalf("PaperGrain: %v", err)
	}
	// dark texture only in the top-left quarter of the page, never tiled
	if v := out.Data[out.Offset(5, 5)]; v < 179 || v > 181 {
		t.Errorf("top-left = %d, want 180", v)
	}
	for _, pt := range [][2]int{{90, 5}, {5, 90}, {90, 90}} {
		if v := out.Data[out.Offset(pt[0], pt[1])]; v < 199 {
			t.Errorf("(%d,%d) = %d, want untouched 200", pt[0], pt[1], v)
		}
	}

	gen, err := PaperGrain{Seed: 3, Strength: 0.1}.run(src)
	if err != nil {
		t.Fatalf("generated PaperGrain: %v", err)
	}
	if bytes.Equal(gen.Data, src.Data) {
		t.Error("generated grain had no effect")
	}
}

func (s PaperGrain) run(src *ir.PixelBuffer) (*ir.PixelBuffer, error) {
	st := &state{rgb: src}
	if err := s.apply(st); err != nil {
		return nil, err
	}
	return st.rgb, nil
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tone.WhitePoint = 300
	var rangeErr *ir.RangeError
	_, err := Run(testPage(t), cfg, Options{})
	if !errors.Is(err, ir.ErrParameterOutOfRange) || !errors.As(err, &rangeErr) {
		t.Fatalf("expected RangeError, got %v", err)
	}
	if rangeErr.Field != "whitePoint" {
		t.Errorf("field = %q", rangeErr.Field)
	}

	cfg = DefaultConfig()
	pc := prepress.DefaultConfig()
	pc.DotGain = 45
	cfg.Prepress = &pc
	if _, err := Run(testPage(t), cfg, Options{}); !errors.Is(err, ir.ErrParameterOutOfRange) {
		t.Fatalf("dot gain 45: got %v", err)
	}
}

func TestRunRejectsCMYKInput(t *testing.T) {
	cmyk, _ := ir.New(4, 4, ir.CMYK)
	if _, err := Run(cmyk, DefaultConfig(), Options{}); !errors.Is(err, ir.ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestRunWithPrepress(t *testing.T) {
	cfg := DefaultConfig()
	pc := prepress.DefaultConfig()
	pc.TACLimit = 260
	cfg.Prepress = &pc

	res, err := Run(testPage(t), cfg, Options{Planes: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.CMYK == nil || res.CMYK.Channels != ir.CMYK {
		t.Fatal("no CMYK output")
	}
	if res.Preview == nil || res.Preview.Channels != ir.RGB {
		t.Fatal("no preview")
	}
	if res.Separation.LineArtPixels == 0 {
		t.Error("panel border not detected as line art")
	}
	for p := 0; p < len(res.CMYK.Data); p += 4 {
		d := res.CMYK.Data[p : p+4]
		if total := float64(int(d[0])+int(d[1])+int(d[2])+int(d[3])) * 100 / 255; total > 260 {
			t.Fatalf("pixel %d total %.2f%% over limit", p/4, total)
		}
	}
	for i, plane := range res.Planes {
		if plane == nil || plane.Channels != ir.Gray {
			t.Fatalf("plane %d missing", i)
		}
	}
	if got := res.Steps[len(res.Steps)-1]; got != StepSeparate {
		t.Errorf("last step = %s", got)
	}
}
