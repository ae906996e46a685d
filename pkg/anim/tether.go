package anim

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
)

// Strand is a single thread layered alongside the web.
type Strand struct {
	From  geom.Vec3    `json:"from"`
	To    geom.Vec3    `json:"to"`
	Curve geom.QuadBez `json:"curve"`
	Sag   float64      `json:"sag"`
}

// Points samples the strand into n segments.
func (s Strand) Points(n int) []geom.Vec3 {
	return s.Curve.Sample(n)
}

// Length returns the chord length of the strand.
func (s Strand) Length() float64 {
	return s.From.Distance(s.To)
}

func (p TetherParams) validate() error {
	for _, v := range []geom.Vec3{p.Shooter, p.Anchor, p.Down} {
		if v.IsNaN() || v.IsInf() {
			return errors.New(errors.ErrCodeInvalidState, "tether vectors must be finite")
		}
	}
	if !p.Ease.Valid() {
		return errors.New(errors.ErrCodeInvalidState, "unknown easing %q", p.Ease)
	}
	if !(p.Slack >= 0 && p.Slack <= 1) {
		return errors.New(errors.ErrCodeInvalidState, "slack must be in [0, 1], got %g", p.Slack)
	}
	for _, v := range []float64{p.Frequency, p.Damping, p.Duration} {
		if !(v >= 0) || math.IsInf(v, 1) {
			return errors.New(errors.ErrCodeInvalidState, "tether spring settings must be finite and not negative")
		}
	}
	if p.FPS < 0 {
		return errors.New(errors.ErrCodeInvalidState, "tether fps must not be negative, got %d", p.FPS)
	}
	d := p.withDefaults()
	if steps := d.Duration * float64(d.FPS); steps > MaxTetherSteps {
		return errors.New(errors.ErrCodeInvalidState,
			"tether spans %.0f spring steps (duration %gs at %d fps), limit is %d", steps, d.Duration, d.FPS, MaxTetherSteps)
	}
	return nil
}

// MaxTetherSteps caps Duration·FPS, the number of spring steps a tether
// simulates to reach t=1.
const MaxTetherSteps = 10000

func (p TetherParams) withDefaults() TetherParams {
	if p.Down == geom.Zero {
		p.Down = geom.UnitZ.Neg()
	}
	if p.Frequency == 0 {
		p.Frequency = DefaultTetherFrequency
	}
	if p.Damping == 0 {
		p.Damping = DefaultTetherDamping
	}
	if p.Duration == 0 {
		p.Duration = DefaultTetherDuration
	}
	if p.FPS == 0 {
		p.FPS = DefaultFPS
	}
	return p
}

// tension returns the remaining slack fraction at time t. The strand starts
// fully slack and a damped spring pulls it toward taut; the spring is stepped
// from rest once per tick up to t, so the same t always gives the same value.
func (p TetherParams) tension(t float64) float64 {
	spring := harmonica.NewSpring(harmonica.FPS(p.FPS), p.Frequency, p.Damping)
	steps := int(math.Round(t * p.Duration * float64(p.FPS)))
	pos, vel := 1.0, 0.0
	for range steps {
		pos, vel = spring.Update(pos, vel, 0)
	}
	return pos
}

// tether builds the strand from the shooter to the moving tip.
func tether(p TetherParams, t float64) (*Strand, error) {
	ease, err := p.Ease.Func(EaseLinear)
	if err != nil {
		return nil, err
	}
	p = p.withDefaults()

	tip := p.Shooter.Lerp(p.Anchor, ease(t))
	length := p.Shooter.Distance(tip)
	sag := p.Slack * length * p.tension(t)

	mid := p.Shooter.Midpoint(tip)
	curve := geom.QuadBez{P0: p.Shooter, P1: mid, P2: tip}
	if sag != 0 {
		curve.P1 = mid.Add(p.Down.Normalize().Mul(2 * sag))
	}
	return &Strand{From: p.Shooter, To: tip, Curve: curve, Sag: sag}, nil
}
