package io

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// Config is the on-disk description of a web and how to animate and draw it.
//
//	[web]
//	size = 2.0
//	shape = "irregular"
//	spokes = 9
//	ribs = 5
//	curvature = 0.4
//
//	[animation]
//	behavior = "shot"
//	origin = [0.0, -6.0, 1.0]
//	target = [0.0, 0.0, 0.0]
//	gravity = [0.0, 0.0, -9.81]
//
//	[render]
//	formats = ["svg", "png"]
type Config struct {
	Web       web.Params      `toml:"web"`
	Animation AnimationConfig `toml:"animation"`
	Render    RenderConfig    `toml:"render"`
}

// AnimationConfig selects a behavior and its parameters. Fields that do not
// apply to the chosen behavior are ignored.
type AnimationConfig struct {
	Behavior string `toml:"behavior"`
	Frames   int    `toml:"frames"`
	Ease     string `toml:"ease,omitempty"`

	// spread
	Stagger float64 `toml:"stagger,omitempty"`

	// shot
	Origin  [3]float64 `toml:"origin"`
	Target  [3]float64 `toml:"target"`
	Gravity [3]float64 `toml:"gravity"`
	Orient  bool       `toml:"orient,omitempty"`
	Trail   float64    `toml:"trail,omitempty"`

	// tether (Origin is the shooter, Target the anchor)
	Slack     float64 `toml:"slack,omitempty"`
	Frequency float64 `toml:"frequency,omitempty"`
	Damping   float64 `toml:"damping,omitempty"`
	Duration  float64 `toml:"duration,omitempty"`
	FPS       int     `toml:"fps,omitempty"`
}

// RenderConfig controls output artifacts.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Width      float64  `toml:"width"`
	Height     float64  `toml:"height"`
	Stroke     float64  `toml:"stroke"`
	Color      string   `toml:"color"`
	Background string   `toml:"background"`
	Resolution int      `toml:"resolution"`
	View       string   `toml:"view"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Web: web.DefaultParams(),
		Animation: AnimationConfig{
			Behavior: "spread",
			Frames:   24,
			Origin:   [3]float64{0, -4, 0},
			Slack:    0.05,
		},
		Render: RenderConfig{
			Formats:    []string{"svg"},
			Width:      800,
			Height:     800,
			Stroke:     1.5,
			Color:      "#333333",
			Background: "#ffffff",
			Resolution: 12,
			View:       "top",
		},
	}
}

// ReadConfig decodes a TOML configuration from r on top of [DefaultConfig].
// Unknown keys are rejected so typos do not silently fall back to defaults.
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Web.Validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "[web]")
	}
	if cfg.Animation.Behavior != "" {
		if _, ok := anim.ParseBehavior(cfg.Animation.Behavior); !ok {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown behavior %q", cfg.Animation.Behavior)
		}
	}
	return cfg, nil
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Config{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(cfg Config, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// SaveConfig writes cfg to a TOML file at path.
func SaveConfig(cfg Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteConfig(cfg, f)
}

// State builds an idle animation state from the [animation] section.
func (c AnimationConfig) State() (*anim.State, error) {
	b, ok := anim.ParseBehavior(c.Behavior)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown behavior %q", c.Behavior)
	}
	origin, target := vec(c.Origin).geom(), vec(c.Target).geom()
	ease := anim.Easing(c.Ease)
	switch b {
	case anim.BehaviorSpread:
		return anim.NewSpread(anim.SpreadParams{Ease: ease, Stagger: c.Stagger}), nil
	case anim.BehaviorShot:
		return anim.NewShot(anim.ShotParams{
			Origin:      origin,
			Target:      target,
			Gravity:     vec(c.Gravity).geom(),
			Ease:        ease,
			Orient:      c.Orient,
			TrailLength: c.Trail,
		}), nil
	default:
		return anim.NewTether(anim.TetherParams{
			Shooter:   origin,
			Anchor:    target,
			Ease:      ease,
			Slack:     c.Slack,
			Frequency: c.Frequency,
			Damping:   c.Damping,
			Duration:  c.Duration,
			FPS:       c.FPS,
		}), nil
	}
}
