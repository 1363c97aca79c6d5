package gauge

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrDecode indicates a raw register block could not be decoded into a
// full sample under the active profile.
var ErrDecode = errors.New("gauge: decode error")

// Side selects which of the channel's two register blocks a field is read from.
type Side uint8

const (
	// Left is the block described by ChannelConfig.Left.
	Left Side = iota
	// Right is the block described by ChannelConfig.Right.
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// FieldSpec describes how one parameter is derived from a raw read.
//
// A register-backed field takes the register at Index within the block
// named by Side and multiplies it by Scale. A fixed field (Fixed == true)
// publishes Value directly; the device profile declares it explicitly so a
// constant in the output is always traceable to the profile, never an
// accident of decoding.
type FieldSpec struct {
	Fixed bool
	Value float64

	Side  Side
	Index int
	Scale float64

	// Target is the nominal process center, used to derive the range value.
	Target float64
}

// DecodeProfile is a versioned register-to-parameter decode table for one
// device profile.
//
// Every parameter of the closed set must be mapped; decoding fails with
// ErrDecode when a mapping is absent or points past the end of its register
// block. The true field layout of the gauge heads is undocumented, so
// profiles are deliberately replaceable: when the authoritative register
// map becomes available it becomes a new profile version.
type DecodeProfile struct {
	Name   string
	Fields map[Parameter]FieldSpec
}

// rangeFactor derives the published range value from the deviation of the
// average from its target, mirroring the historical behavior.
const rangeFactor = 0.1

// LegacyProfile returns the historical decode layout ("legacy-v1"):
// left[0]/100 → P1, left[1]/100 → P5U, right[0]/100 → P5L,
// right[1]/100 → P3, and P4 pinned at 1.0 because the legacy frames carry
// no register for it.
func LegacyProfile() *DecodeProfile {
	return &DecodeProfile{
		Name: "legacy-v1",
		Fields: map[Parameter]FieldSpec{
			P1:  {Side: Left, Index: 0, Scale: 0.01, Target: 220.0},
			P5U: {Side: Left, Index: 1, Scale: 0.01, Target: 425.0},
			P5L: {Side: Right, Index: 0, Scale: 0.01, Target: 425.0},
			P3:  {Side: Right, Index: 1, Scale: 0.01, Target: 645.0},
			P4:  {Fixed: true, Value: 1.0, Target: 1.0},
		},
	}
}

// Decode maps a pair of raw register blocks onto a full Sample.
//
// It returns ErrDecode when any parameter of the closed set has no mapping
// or its mapped register index is out of range for the supplied block.
func (p *DecodeProfile) Decode(left, right []uint16, ts time.Time) (Sample, error) {
	var sample Sample

	for _, param := range Parameters() {
		spec, ok := p.Fields[param]
		if !ok {
			return Sample{}, fmt.Errorf("%w: profile %q has no mapping for %s", ErrDecode, p.Name, param)
		}

		avg := spec.Value
		if !spec.Fixed {
			block := left
			if spec.Side == Right {
				block = right
			}
			if spec.Index >= len(block) {
				return Sample{}, fmt.Errorf("%w: profile %q maps %s to %s[%d], block has %d registers",
					ErrDecode, p.Name, param, spec.Side, spec.Index, len(block))
			}
			avg = float64(block[spec.Index]) * spec.Scale
		}

		sample.setReading(param, Reading{
			Average: avg,
			Range:   math.Abs(avg-spec.Target) * rangeFactor,
		})
	}

	sample.Timestamp = ts

	return sample, nil
}
