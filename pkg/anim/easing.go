package anim

import (
	"slices"

	"github.com/matzehuels/spiderweb/pkg/errors"
)

// Easing names a timing curve. Every curve maps 0 to 0 and 1 to 1 exactly.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutCubic   Easing = "ease-out"
	EaseInOut      Easing = "ease-in-out"
	EaseSmoothstep Easing = "smoothstep"
)

// Easings lists the supported timing curves.
var Easings = []Easing{EaseLinear, EaseOutCubic, EaseInOut, EaseSmoothstep}

// Func returns the timing function for e. An empty name falls back to def.
func (e Easing) Func(def Easing) (func(float64) float64, error) {
	if e == "" {
		e = def
	}
	switch e {
	case EaseLinear:
		return linear, nil
	case EaseOutCubic:
		return easeOutCubic, nil
	case EaseInOut:
		return easeInOutCubic, nil
	case EaseSmoothstep:
		return smoothstep, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidState, "unknown easing %q (want one of %v)", e, Easings)
}

// Valid reports whether e names a supported curve.
func (e Easing) Valid() bool {
	return e == "" || slices.Contains(Easings, e)
}

func linear(t float64) float64 { return t }

func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2 - 2*t
	return 1 - u*u*u/2
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func clamp01(t float64) float64 {
	return max(0, min(t, 1))
}
