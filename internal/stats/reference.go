package stats

import (
	"encoding/json"
	"fmt"

	"github.com/Desmondshah/Comic-restor-sub000/internal/ir"
)

// Reference holds the per-channel RGB statistics of a designated hero page.
// It is built once per batch and never mutated afterwards, so a single value
// may be shared by concurrent pipeline runs. The zero value is not ready.
type Reference struct {
	channels [3]ChannelStats
	ready    bool
}

// BuildReference samples the whole of an RGB hero buffer.
func BuildReference(hero *ir.PixelBuffer) (*Reference, error) {
	if err := hero.RequireChannels(ir.RGB); err != nil {
		return nil, err
	}
	s, err := Sample(hero, Whole())
	if err != nil {
		return nil, err
	}
	ref := &Reference{ready: true}
	copy(ref.channels[:], s)
	return ref, nil
}

// Ready reports whether the reference was built from pixel data.
func (r *Reference) Ready() bool {
	return r != nil && r.ready
}

// Channel returns the statistics of channel c (0=R, 1=G, 2=B).
func (r *Reference) Channel(c int) ChannelStats {
	return r.channels[c]
}

type referenceJSON struct {
	R ChannelStats `json:"r"`
	G ChannelStats `json:"g"`
	B ChannelStats `json:"b"`
}

func (r *Reference) MarshalJSON() ([]byte, error) {
	if !r.Ready() {
		return nil, ir.ErrReferenceNotReady
	}
	return json.Marshal(referenceJSON{R: r.channels[0], G: r.channels[1], B: r.channels[2]})
}

// UnmarshalJSON restores a reference saved by MarshalJSON. Decoding into an
// already-ready Reference is refused to keep built references immutable.
func (r *Reference) UnmarshalJSON(data []byte) error {
	if r.ready {
		return fmt.Errorf("reference already built")
	}
	var v referenceJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	for i, cs := range []ChannelStats{v.R, v.G, v.B} {
		if err := ir.FirstError(
			ir.CheckRange(fmt.Sprintf("reference[%d].mean", i), cs.Mean, 0, 255),
			ir.CheckRange(fmt.Sprintf("reference[%d].stddev", i), cs.StdDev, 0, 255),
		); err != nil {
			return err
		}
	}
	r.channels = [3]ChannelStats{v.R, v.G, v.B}
	r.ready = true
	return nil
}
