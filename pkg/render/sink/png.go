package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/render"
)

// MaxScale bounds the PNG scale factor.
const MaxScale = 8.0

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale   float64
	showHub bool
}

// WithScale sets the PNG scale factor (default 1). A scale of 2 produces an
// image twice the canvas size for high-DPI displays.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGHub marks the hub with a dot.
func WithPNGHub() PNGOption {
	return func(r *pngRenderer) { r.showHub = true }
}

// RenderPNG rasterizes d. Unlike PDF export it needs no external tools.
func RenderPNG(d render.Drawing, s render.Style, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0 && r.scale <= MaxScale) {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "png scale must be in (0, %g], got %g", MaxScale, r.scale)
	}

	k := r.scale
	dc := gg.NewContext(int(math.Ceil(d.Width*k)), int(math.Ceil(d.Height*k)))
	dc.SetHexColor(s.Background)
	dc.Clear()
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.SetLineWidth(s.Stroke * k)

	for _, c := range d.Curves {
		color := s.Color
		if c.Kind == render.CurveTether {
			color = s.Tether()
		}
		dc.SetHexColor(color)
		dc.MoveTo(c.P0.X*k, c.P0.Y*k)
		if c.Straight {
			dc.LineTo(c.P2.X*k, c.P2.Y*k)
		} else {
			dc.QuadraticTo(c.P1.X*k, c.P1.Y*k, c.P2.X*k, c.P2.Y*k)
		}
		dc.Stroke()
	}

	if len(d.Trail) > 1 {
		dc.SetHexColor(s.Trail())
		dc.SetDash(4*k, 4*k)
		for i, p := range d.Trail {
			if i == 0 {
				dc.MoveTo(p.X*k, p.Y*k)
			} else {
				dc.LineTo(p.X*k, p.Y*k)
			}
		}
		dc.Stroke()
		dc.SetDash()
	}

	if r.showHub {
		dc.SetHexColor(s.Color)
		dc.DrawCircle(d.Hub.X*k, d.Hub.Y*k, max(2, 2*s.Stroke)*k)
		dc.Fill()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
