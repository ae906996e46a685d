package web

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"

	"github.com/matzehuels/spiderweb/pkg/errors"
)

// Shape selects how spoke anchors are laid out around the hub.
type Shape string

const (
	ShapeCircular  Shape = "circular"
	ShapePolygonal Shape = "polygonal"
	ShapeIrregular Shape = "irregular"
)

// Shapes lists every supported shape kind in display order.
var Shapes = []Shape{ShapeCircular, ShapePolygonal, ShapeIrregular}

// Spacing selects how ring radii are distributed between hub and rim.
type Spacing string

const (
	// SpacingLinear places ring j at (j+1)/Rings of the spoke length.
	SpacingLinear Spacing = "linear"
	// SpacingGeometric packs rings toward the hub, each ring a constant
	// ratio of the next, the outermost at full length.
	SpacingGeometric Spacing = "geometric"
)

// Parameter bounds.
const (
	MinSpokes    = 3
	MaxSpokes    = 64
	MinRibs      = 1
	MaxRibs      = 32
	MaxCurvature = 4.0
)

// Params describes a single web instance. It is a plain value: copy it
// freely, a generated mesh keeps its own copy.
type Params struct {
	Size           float64 `json:"size" toml:"size"`
	Shape          Shape   `json:"shape" toml:"shape"`
	Spokes         int     `json:"spokes" toml:"spokes"`
	Ribs           int     `json:"ribs" toml:"ribs"`
	Curvature      float64 `json:"curvature" toml:"curvature"`
	Sides          int     `json:"sides,omitempty" toml:"sides,omitempty"`
	Jitter         float64 `json:"jitter" toml:"jitter"`
	InteriorJitter float64 `json:"interior_jitter" toml:"interior_jitter"`
	Seed           uint64  `json:"seed,omitempty" toml:"seed,omitempty"`
	Height         float64 `json:"height,omitempty" toml:"height,omitempty"`
	Spacing        Spacing `json:"spacing" toml:"spacing"`
	OpenHub        bool    `json:"open_hub,omitempty" toml:"open_hub,omitempty"`
	Taper          float64 `json:"taper" toml:"taper"`
}

// DefaultParams returns the parameters of a small five-spoke web.
func DefaultParams() Params {
	return Params{
		Size:           1,
		Shape:          ShapeCircular,
		Spokes:         5,
		Ribs:           3,
		Curvature:      0.1,
		Jitter:         0.1,
		InteriorJitter: 0.05,
		Spacing:        SpacingLinear,
		Taper:          0.5,
	}
}

// Validate reports the first rule p violates as an INVALID_PARAMETER error.
// Empty Shape and Spacing are accepted and mean circular and linear.
func (p Params) Validate() error {
	if err := errors.CheckFinite("size", p.Size); err != nil {
		return err
	}
	if p.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "size must be positive, got %g", p.Size)
	}
	if err := errors.CheckIntRange("spokes", p.Spokes, MinSpokes, MaxSpokes); err != nil {
		return err
	}
	if err := errors.CheckIntRange("ribs", p.Ribs, MinRibs, MaxRibs); err != nil {
		return err
	}
	if err := errors.CheckRange("curvature", p.Curvature, 0, MaxCurvature); err != nil {
		return err
	}
	switch p.shape() {
	case ShapeCircular, ShapePolygonal, ShapeIrregular:
	default:
		return errors.New(errors.ErrCodeInvalidParameter, "unknown shape %q", p.Shape)
	}
	switch p.spacing() {
	case SpacingLinear, SpacingGeometric:
	default:
		return errors.New(errors.ErrCodeInvalidParameter, "unknown spacing %q", p.Spacing)
	}
	if p.Sides != 0 && p.Sides < 3 {
		return errors.New(errors.ErrCodeInvalidParameter, "sides must be 0 or at least 3, got %d", p.Sides)
	}
	if err := errors.CheckRange("jitter", p.Jitter, 0, 1); err != nil {
		return err
	}
	if err := errors.CheckRange("interior_jitter", p.InteriorJitter, 0, 1); err != nil {
		return err
	}
	if err := errors.CheckFinite("height", p.Height); err != nil {
		return err
	}
	if p.Height < 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "height must not be negative, got %g", p.Height)
	}
	return errors.CheckRange("taper", p.Taper, 0, 1)
}

func (p Params) shape() Shape {
	if p.Shape == "" {
		return ShapeCircular
	}
	return p.Shape
}

func (p Params) spacing() Spacing {
	if p.Spacing == "" {
		return SpacingLinear
	}
	return p.Spacing
}

// PolygonSides returns the number of sides of the outline polygon.
func (p Params) PolygonSides() int {
	if p.Sides == 0 {
		return p.Spokes
	}
	return p.Sides
}

// Fingerprint returns the hex SHA-256 of the canonical JSON encoding of p.
// Equal parameter sets always share a fingerprint.
func (p Params) Fingerprint() string {
	sum := p.digest()
	return hex.EncodeToString(sum[:])
}

// EffectiveSeed returns Seed, or a seed derived from the fingerprint when
// Seed is zero.
func (p Params) EffectiveSeed() uint64 {
	if p.Seed != 0 {
		return p.Seed
	}
	sum := p.digest()
	return binary.BigEndian.Uint64(sum[:8])
}

func (p Params) digest() [32]byte {
	p.Shape = p.shape()
	p.Spacing = p.spacing()
	if p.Curvature == 0 {
		p.Curvature = math.Abs(p.Curvature) // fold -0
	}
	// Struct field order is fixed, so the encoding is canonical.
	data, _ := json.Marshal(p)
	return sha256.Sum256(data)
}
