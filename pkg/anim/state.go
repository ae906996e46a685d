package anim

import (
	"fmt"

	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// Behavior is the kind of animation a State drives.
type Behavior int

const (
	BehaviorSpread Behavior = iota + 1
	BehaviorShot
	BehaviorTether
)

func (b Behavior) String() string {
	switch b {
	case BehaviorSpread:
		return "spread"
	case BehaviorShot:
		return "shot"
	case BehaviorTether:
		return "tether"
	}
	return fmt.Sprintf("Behavior(%d)", int(b))
}

// ParseBehavior maps a behavior name to its value.
func ParseBehavior(s string) (Behavior, bool) {
	for _, b := range []Behavior{BehaviorSpread, BehaviorShot, BehaviorTether} {
		if b.String() == s {
			return b, true
		}
	}
	return 0, false
}

// Phase is the position of a State in its behavior's state machine.
//
//	spread: Idle → Spreading → Settled
//	shot:   Idle → InFlight  → Landed
//	tether: Idle → Attaching → Anchored
//
// Any state may be Cancelled.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpreading
	PhaseSettled
	PhaseInFlight
	PhaseLanded
	PhaseAttaching
	PhaseAnchored
	PhaseCancelled
)

var phaseNames = [...]string{
	PhaseIdle:      "idle",
	PhaseSpreading: "spreading",
	PhaseSettled:   "settled",
	PhaseInFlight:  "in-flight",
	PhaseLanded:    "landed",
	PhaseAttaching: "attaching",
	PhaseAnchored:  "anchored",
	PhaseCancelled: "cancelled",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Terminal reports whether p ends its state machine.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseSettled, PhaseLanded, PhaseAnchored, PhaseCancelled:
		return true
	}
	return false
}

// SpreadParams configure the spread behavior.
type SpreadParams struct {
	// Ease shapes the growth over time. Defaults to ease-out.
	Ease Easing
	// Stagger in [0, 1) delays outer rings: ring j starts growing at
	// Stagger·j/(Rings−1) and every ring still finishes at t=1.
	Stagger float64
}

// ShotParams configure the shot behavior.
type ShotParams struct {
	Origin geom.Vec3
	Target geom.Vec3
	// Gravity bends the path into a ballistic arc; zero flies straight.
	Gravity geom.Vec3
	// Ease remaps time along the path. Defaults to linear.
	Ease Easing
	// Orient turns Facing toward the direction of travel each tick.
	Orient bool
	// Facing is the mesh axis aimed along the path. Defaults to +Z.
	Facing geom.Vec3
	// TrailLength is the span of normalized time the trail lags behind the
	// web; zero disables the trail.
	TrailLength  float64
	TrailSamples int
}

// TetherParams configure the tether behavior.
type TetherParams struct {
	// Shooter is the fixed end of the strand.
	Shooter geom.Vec3
	// Anchor is where the free end lands at t=1.
	Anchor geom.Vec3
	// Ease remaps the tip's travel. Defaults to linear.
	Ease Easing
	// Slack is the initial sag as a fraction of strand length.
	Slack float64
	// Down is the direction the strand sags. Defaults to −Z.
	Down geom.Vec3
	// Frequency and Damping drive the spring that pulls the strand taut.
	Frequency float64
	Damping   float64
	// Duration is the animation length in seconds and FPS its tick rate;
	// together they fix the number of spring steps simulated.
	Duration float64
	FPS      int
}

// Defaults for behavior parameters left at their zero value.
const (
	DefaultTrailSamples    = 8
	DefaultTetherFrequency = 6.0
	DefaultTetherDamping   = 0.3
	DefaultTetherDuration  = 1.0
	DefaultFPS             = 24
)

// State is one running animation. It is bound to a single behavior for its
// lifetime and is mutated by every Step. A State is not safe for concurrent
// use.
type State struct {
	Behavior Behavior
	Spread   SpreadParams
	Shot     ShotParams
	Tether   TetherParams

	bound Behavior
	phase Phase
	t     float64
	final *Frame
}

// NewSpread returns an idle spread animation.
func NewSpread(p SpreadParams) *State {
	return &State{Behavior: BehaviorSpread, Spread: p}
}

// NewShot returns an idle shot animation.
func NewShot(p ShotParams) *State {
	return &State{Behavior: BehaviorShot, Shot: p}
}

// NewTether returns an idle tether animation.
func NewTether(p TetherParams) *State {
	return &State{Behavior: BehaviorTether, Tether: p}
}

// Phase returns the current phase.
func (s *State) Phase() Phase { return s.phase }

// T returns the time of the last successful step.
func (s *State) T() float64 { return s.t }

// Done reports whether the animation reached a terminal phase.
func (s *State) Done() bool { return s.phase.Terminal() }

// Cancel ends the animation. Further steps fail.
func (s *State) Cancel() {
	s.phase = PhaseCancelled
	s.final = nil
}

// Frame is one animated snapshot. Mesh is a fresh copy owned by the caller.
type Frame struct {
	Behavior Behavior
	Phase    Phase
	T        float64
	Mesh     *web.Mesh
	// Reference is the web's reference point in this frame.
	Reference geom.Vec3
	// Tether is set for the tether behavior.
	Tether *Strand
	// Trail holds past reference positions of a shot, oldest first.
	Trail []geom.Vec3
}

func (f Frame) clone() Frame {
	c := f
	if f.Mesh != nil {
		c.Mesh = f.Mesh.Clone()
	}
	if f.Tether != nil {
		s := *f.Tether
		c.Tether = &s
	}
	c.Trail = append([]geom.Vec3(nil), f.Trail...)
	return c
}
