package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/web"
)

func previewMesh(t *testing.T) *web.Mesh {
	t.Helper()
	m, err := web.Generate(web.Params{Size: 1, Spokes: 8, Ribs: 3})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestASCIICanvas(t *testing.T) {
	m := previewMesh(t)
	s := render.DefaultStyle()
	// Odd sizes put the hub in the middle of a cell.
	s.Width, s.Height, s.Margin = 41, 42, 1
	d, err := render.Project(render.Item{Mesh: m}, s)
	if err != nil {
		t.Fatal(err)
	}

	lines := asciiCanvas(d, 41, 21, false)
	if len(lines) != 21 {
		t.Fatalf("rows = %d, want 21", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 41 {
			t.Fatalf("row %d has %d cells, want 41", i, n)
		}
	}
	if got := []rune(lines[10])[20]; got != glyphHub {
		t.Errorf("center cell = %q, want hub %q", got, glyphHub)
	}
	joined := strings.Join(lines, "\n")
	for _, g := range []rune{glyphSpoke, glyphRib} {
		if !strings.ContainsRune(joined, g) {
			t.Errorf("canvas has no %q:\n%s", g, joined)
		}
	}
	if strings.ContainsRune(joined, glyphTether) {
		t.Error("static web drew a tether")
	}
}

func TestASCIICanvasTether(t *testing.T) {
	m := previewMesh(t)
	st := anim.NewTether(anim.TetherParams{Shooter: geom.V(0, -4, 0), Anchor: m.Center})
	f, err := anim.Step(m, st, 1)
	if err != nil {
		t.Fatal(err)
	}
	s := render.DefaultStyle()
	s.Width, s.Height, s.Margin = 40, 40, 1
	d, err := render.Project(render.FromFrame(f), s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.ContainsRune(strings.Join(asciiCanvas(d, 40, 20, false), ""), glyphTether) {
		t.Error("tether frame drew no tether")
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func feed(t *testing.T, m previewModel, msgs ...tea.Msg) previewModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(previewModel)
	}
	return m
}

func settle(t *testing.T, m previewModel) previewModel {
	t.Helper()
	for range 600 {
		m = feed(t, m, previewTick{})
	}
	return m
}

func newTestPreview(t *testing.T, behavior string) previewModel {
	t.Helper()
	a := pkgio.DefaultConfig().Animation
	a.Behavior = behavior
	pm, err := newPreviewModel(previewMesh(t), a, render.ViewTop)
	if err != nil {
		t.Fatal(err)
	}
	return pm
}

func TestPreviewScrub(t *testing.T) {
	m := newTestPreview(t, "spread")
	if m.frame.Phase != anim.PhaseSpreading {
		t.Fatalf("initial phase = %s, want spreading", m.frame.Phase)
	}

	m = feed(t, m, keyPress("right"), keyPress("right"), keyPress("left"))
	if m.target != previewStep {
		t.Errorf("target = %v, want %v", m.target, previewStep)
	}
	m = feed(t, m, keyPress("left"), keyPress("left"))
	if m.target != 0 {
		t.Errorf("target = %v, want clamped to 0", m.target)
	}

	m = settle(t, feed(t, m, keyPress("end")))
	if m.pos != 1 || m.frame.Phase != anim.PhaseSettled {
		t.Errorf("after end: pos %v phase %s, want 1 settled", m.pos, m.frame.Phase)
	}
	if !strings.Contains(m.View(), "settled") {
		t.Error("view does not show the phase")
	}

	m = settle(t, feed(t, m, keyPress("home")))
	if m.pos != 0 || m.frame.T != 0 {
		t.Errorf("after home: pos %v t %v, want 0", m.pos, m.frame.T)
	}
}

func TestPreviewPlay(t *testing.T) {
	m := newTestPreview(t, "shot")
	m = feed(t, m, keyPress(" "))
	if !m.playing {
		t.Fatal("space did not start playback")
	}
	m = settle(t, m)
	if m.playing || m.target != 1 {
		t.Errorf("playback should stop at the end: playing %v target %v", m.playing, m.target)
	}
	if m.frame.Phase != anim.PhaseLanded {
		t.Errorf("phase = %s, want landed", m.frame.Phase)
	}

	// Space at the end restarts from zero.
	m = feed(t, m, keyPress(" "))
	if !m.playing || m.pos != 0 {
		t.Errorf("restart: playing %v pos %v", m.playing, m.pos)
	}
}

func TestPreviewViewsAndQuit(t *testing.T) {
	m := newTestPreview(t, "tether")
	for i := range len(previewViews) {
		if m.view != i {
			t.Fatalf("view = %d, want %d", m.view, i)
		}
		if m.View() == "" {
			t.Fatal("empty view")
		}
		m = feed(t, m, keyPress("v"))
	}
	if m.view != 0 {
		t.Errorf("views should cycle back to top, got %d", m.view)
	}

	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestPreviewWindowSize(t *testing.T) {
	m := feed(t, newTestPreview(t, "spread"), tea.WindowSizeMsg{Width: 4, Height: 2})
	if m.cols != render.MinCanvas || m.rows != render.MinCanvas/2 {
		t.Errorf("size = %dx%d, want clamped to the minimum canvas", m.cols, m.rows)
	}
	if strings.Contains(m.View(), iconError) {
		t.Error("minimum size view failed to render")
	}
}

func TestNewPreviewModelRejectsBehavior(t *testing.T) {
	a := pkgio.DefaultConfig().Animation
	a.Behavior = "wobble"
	_, err := newPreviewModel(previewMesh(t), a, render.ViewTop)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
