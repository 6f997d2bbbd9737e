package pipeline

import (
	"fmt"
	"image"
	"time"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
	"github.com/Desmondshah/Comic-restor-sub000/internal/matte"
	"github.com/Desmondshah/Comic-restor-sub000/internal/observability"
	"github.com/Desmondshah/Comic-restor-sub000/internal/prepress"
	"github.com/Desmondshah/Comic-restor-sub000/internal/qa"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
	"github.com/Desmondshah/Comic-restor-sub000/internal/tone"
)

// Config is the composed engine configuration. A nil Matte or Prepress
// disables that stage.
type Config struct {
	Tone     tone.Config      `json:"tone"`
	Matte    *matte.Config    `json:"matte,omitempty"`
	Prepress *prepress.Config `json:"prepress,omitempty"`
	QA       qa.Config        `json:"qa"`
}

// DefaultConfig enables tone correction, matte compensation and every QA
// check. CMYK separation is off.
func DefaultConfig() Config {
	m := matte.DefaultConfig()
	return Config{
		Tone:  tone.DefaultConfig(),
		Matte: &m,
		QA:    qa.DefaultConfig(),
	}
}

// Validate checks every sub-config.
func (c Config) Validate() error {
	if err := c.Tone.Validate(); err != nil {
		return fmt.Errorf("tone: %w", err)
	}
	if c.Matte != nil {
		if err := c.Matte.Validate(); err != nil {
			return fmt.Errorf("matte: %w", err)
		}
	}
	if c.Prepress != nil {
		if err := c.Prepress.Validate(); err != nil {
			return fmt.Errorf("prepress: %w", err)
		}
	}
	if err := c.QA.Validate(); err != nil {
		return fmt.Errorf("qa: %w", err)
	}
	return nil
}

// Options carries the per-batch inputs that are not configuration.
type Options struct {
	Reference *stats.Reference     // required when Tone.MatchReference is set
	Grain     image.Image          // optional scanned paper texture; generated when nil
	GrainSeed uint64               // seed for the generated texture
	Planes    bool                 // also split the separation into C, M, Y, K planes
	Logger    observability.Logger // optional
}

// Result holds the output of a pipeline run.
type Result struct {
	Output     *ir.PixelBuffer // corrected RGB page
	CMYK       *ir.PixelBuffer // nil unless prepress ran
	Preview    *ir.PixelBuffer // RGB rendering of CMYK, nil unless prepress ran
	Planes     [4]*ir.PixelBuffer
	Separation *prepress.Separation
	Report     *qa.Report
	Hash       qa.Hash // perceptual hash of the audited page
	Steps      []string
}

// Run executes the plan for cfg on src and audits the result. src is not
// modified. When prepress runs, the audit is done on the CMYK preview so the
// report reflects what will be printed.
func Run(src *ir.PixelBuffer, cfg Config, opts Options) (*Result, error) {
	log := observability.OrNop(opts.Logger)

	if err := src.RequireChannels(ir.RGB); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	steps, err := Plan(cfg, opts)
	if err != nil {
		return nil, err
	}
	log.Debug("pipeline start",
		observability.Int(observability.KeyWidth, src.Width),
		observability.Int(observability.KeyHeight, src.Height),
		observability.Int("steps", len(steps)))

	res := &Result{}
	st := &state{rgb: src}
	for _, s := range steps {
		start := time.Now()
		if err := s.apply(st); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		res.Steps = append(res.Steps, s.Name())
		log.Debug("step done",
			observability.String(observability.KeyStep, s.Name()),
			observability.Duration(observability.KeyDuration, time.Since(start)))
	}
	res.Output = st.rgb

	audited := res.Output
	if st.sep != nil {
		res.Separation = st.sep
		res.CMYK = st.sep.CMYK
		if res.Preview, err = prepress.Preview(res.CMYK); err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		if opts.Planes {
			if res.Planes, err = prepress.Planes(res.CMYK); err != nil {
				return nil, fmt.Errorf("planes: %w", err)
			}
		}
		log.Debug("separation",
			observability.Int("lineArt", st.sep.LineArtPixels),
			observability.Int("richBlack", st.sep.RichBlackPixels),
			observability.Int("tacLimited", st.sep.LimitedPixels),
			observability.Float("maxTAC", st.sep.MaxTAC))
		audited = res.Preview
	}

	if res.Report, err = qa.Audit(src, audited, cfg.QA); err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	if res.Hash, err = qa.PerceptualHash(audited); err != nil {
		return nil, fmt.Errorf("hash: %w", err)
	}
	for _, w := range res.Report.Warnings {
		log.Info("qa warning",
			observability.String("code", w.Code),
			observability.Float("metric", w.Metric),
			observability.String("message", w.Message))
	}
	return res, nil
}
