package models

import (
	"fmt"
	"math"
	"strings"
)

// ThresholdScale states how a threshold value must be read.
type ThresholdScale string

const (
	// ScaleUnit thresholds are in [0,1] whatever scorer is active.
	ScaleUnit ThresholdScale = "unit"
	// ScaleNative thresholds use the active scorer's own range, e.g. 80 for a
	// 0-100 lexical ratio.
	ScaleNative ThresholdScale = "native"
)

func ParseThresholdScale(s string) (ThresholdScale, error) {
	switch ThresholdScale(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScaleUnit:
		return ScaleUnit, nil
	case ScaleNative:
		return ScaleNative, nil
	}
	return "", InvalidThreshold(fmt.Sprintf("threshold scale must be unit or native, got %q", s))
}

// Threshold is the minimum score a candidate needs to be reported.
type Threshold struct {
	Value float64
	Scale ThresholdScale
}

// Resolve validates the threshold against the active scorer's range and returns
// it on the unit scale. Values outside the declared scale are rejected rather
// than reinterpreted, as are native values in the clamped region below a
// scorer's baseline.
func (t Threshold) Resolve(r ScoreRange) (float64, error) {
	if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
		return 0, InvalidThreshold("threshold must be a finite number")
	}
	switch t.Scale {
	case "", ScaleUnit:
		if t.Value < 0 || t.Value > 1 {
			return 0, InvalidThreshold(fmt.Sprintf("unit threshold %g is outside [0, 1]", t.Value))
		}
		return t.Value, nil
	case ScaleNative:
		if !r.Contains(t.Value) {
			return 0, InvalidThreshold(fmt.Sprintf("native threshold %g is outside scorer range %s", t.Value, r))
		}
		// Scores at or below the baseline all map to 0, so a threshold there
		// could not tell them apart on the unit scale.
		if r.Min < r.Baseline && t.Value <= r.Baseline {
			return 0, InvalidThreshold(fmt.Sprintf("native threshold %g must be above the scorer baseline %g", t.Value, r.Baseline))
		}
		return r.Normalize(t.Value), nil
	}
	return 0, InvalidThreshold(fmt.Sprintf("unknown threshold scale %q", t.Scale))
}
