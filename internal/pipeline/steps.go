package pipeline

import (
	"fmt"
	"image"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
	"github.com/Desmondshah/Comic-restor-sub000/internal/matte"
	"github.com/Desmondshah/Comic-restor-sub000/internal/prepress"
	"github.com/Desmondshah/Comic-restor-sub000/internal/stats"
	"github.com/Desmondshah/Comic-restor-sub000/internal/tone"
)

// Step names as they appear in logs.
const (
	StepCastRemoval       = "cast_removal"
	StepLevels            = "levels"
	StepSaturation        = "saturation"
	StepClarity           = "clarity"
	StepMatchReference    = "match_reference"
	StepPaperGrain        = "paper_grain"
	StepMatteCompensation = "matte_compensation"
	StepSeparate          = "separate"
)

// Step is one enabled stage of a plan. The set of steps is closed; each
// carries its own parameters.
type Step interface {
	Name() string
	apply(st *state) error
}

// state is threaded through the steps of a single run.
type state struct {
	rgb *ir.PixelBuffer
	sep *prepress.Separation
}

func (st *state) replace(buf *ir.PixelBuffer, err error) error {
	if err != nil {
		return err
	}
	st.rgb = buf
	return nil
}

type CastRemoval struct {
	Strength       float64
	BorderFraction float64
}

func (CastRemoval) Name() string { return StepCastRemoval }
func (s CastRemoval) apply(st *state) error {
	return st.replace(tone.RemoveCast(st.rgb, s.Strength, s.BorderFraction))
}

type Levels struct {
	Black, White float64
}

func (Levels) Name() string { return StepLevels }
func (s Levels) apply(st *state) error {
	return st.replace(tone.Levels(st.rgb, s.Black, s.White))
}

type Saturation struct {
	RedYellowBoost  float64
	BlueGreenReduce float64
}

func (Saturation) Name() string { return StepSaturation }
func (s Saturation) apply(st *state) error {
	return st.replace(tone.SelectiveSaturation(st.rgb, s.RedYellowBoost, s.BlueGreenReduce))
}

type Clarity struct {
	Radius, Amount float64
}

func (Clarity) Name() string { return StepClarity }
func (s Clarity) apply(st *state) error {
	return st.replace(tone.Clarity(st.rgb, s.Radius, s.Amount))
}

type MatchReference struct {
	Reference *stats.Reference
	Strength  float64
}

func (MatchReference) Name() string { return StepMatchReference }
func (s MatchReference) apply(st *state) error {
	return st.replace(tone.MatchReference(st.rgb, s.Reference, s.Strength))
}

// PaperGrain overlays Texture rescaled to the page, or a generated tile
// sized from the page when Texture is nil.
type PaperGrain struct {
	Texture  image.Image
	Seed     uint64
	Strength float64
}

func (PaperGrain) Name() string { return StepPaperGrain }
func (s PaperGrain) apply(st *state) error {
	w, h := st.rgb.Width, st.rgb.Height
	grain := tone.NewGrain(tone.GrainTileSize(w, h), s.Seed)
	if s.Texture != nil {
		var err error
		if grain, err = tone.GrainFromImage(s.Texture, w, h); err != nil {
			return err
		}
	}
	return st.replace(tone.ApplyGrain(st.rgb, grain, s.Strength))
}

type MatteCompensation struct {
	Config matte.Config
}

func (MatteCompensation) Name() string { return StepMatteCompensation }
func (s MatteCompensation) apply(st *state) error {
	return st.replace(matte.Compensate(st.rgb, s.Config))
}

// Separate ends the RGB chain; the RGB buffer is kept as the run's output.
type Separate struct {
	Config prepress.Config
}

func (Separate) Name() string { return StepSeparate }
func (s Separate) apply(st *state) error {
	sep, err := prepress.Convert(st.rgb, s.Config)
	if err != nil {
		return err
	}
	st.sep = sep
	return nil
}

// Plan validates cfg and returns the enabled steps in execution order:
// cast removal, levels, saturation, clarity, reference match, paper grain,
// matte compensation, CMYK separation.
func Plan(cfg Config, opts Options) ([]Step, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := cfg.Tone

	var steps []Step
	if t.CastStrength > 0 {
		steps = append(steps, CastRemoval{Strength: t.CastStrength, BorderFraction: t.BorderFraction})
	}
	steps = append(steps,
		Levels{Black: t.BlackPoint, White: t.WhitePoint},
		Saturation{RedYellowBoost: t.RedYellowBoost, BlueGreenReduce: t.BlueGreenReduce},
	)
	if t.ClarityAmount > 0 {
		steps = append(steps, Clarity{Radius: t.ClarityRadius, Amount: t.ClarityAmount})
	}
	if t.MatchReference {
		if !opts.Reference.Ready() {
			return nil, fmt.Errorf("%s: %w", StepMatchReference, ir.ErrReferenceNotReady)
		}
		steps = append(steps, MatchReference{Reference: opts.Reference, Strength: t.MatchStrength})
	}
	if t.PaperGrain && t.GrainStrength > 0 {
		steps = append(steps, PaperGrain{Texture: opts.Grain, Seed: opts.GrainSeed, Strength: t.GrainStrength})
	}
	if cfg.Matte != nil {
		steps = append(steps, MatteCompensation{Config: *cfg.Matte})
	}
	if cfg.Prepress != nil {
		steps = append(steps, Separate{Config: *cfg.Prepress})
	}
	return steps, nil
}
