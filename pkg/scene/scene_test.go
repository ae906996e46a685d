package scene

import (
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

const tol = 1e-9

func testParams() web.Params {
	return web.Params{Size: 1, Spokes: 6, Ribs: 3, Curvature: 0.4, Height: 0.5, Taper: 0.5}
}

func TestAddGetRemove(t *testing.T) {
	s := New()
	id, err := s.Add("porch", testParams(), Placement{})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("Add returned nil handle")
	}

	o, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if o.Name != "porch" || o.Local == nil || o.World == nil {
		t.Errorf("Get = %+v", o)
	}
	if err := o.World.Check(); err != nil {
		t.Errorf("placed mesh broken: %v", err)
	}

	if err := s.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Remove = %v, want NOT_FOUND", err)
	}
	if err := s.Remove(id); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Remove = %v, want NOT_FOUND", err)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s := New()
	bad := testParams()
	bad.Spokes = 2
	if _, err := s.Add("web", bad, Placement{}); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("Add(spokes=2) = %v, want INVALID_PARAMETER", err)
	}
	if _, err := s.Add("", testParams(), Placement{}); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("Add(empty name) = %v, want INVALID_PARAMETER", err)
	}
	if s.Len() != 0 {
		t.Errorf("failed adds left %d objects", s.Len())
	}
}

func TestListKeepsInsertionOrder(t *testing.T) {
	s := New()
	names := []string{"a", "b", "c"}
	ids := make([]uuid.UUID, len(names))
	for i, n := range names {
		ids[i], _ = s.Add(n, testParams(), Placement{})
	}
	_ = s.Remove(ids[1])

	got := s.List()
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("List = %v", got)
	}
}

func TestRegenerate(t *testing.T) {
	s := New()
	id, _ := s.Add("web", testParams(), Placement{})
	before, _ := s.Get(id)

	p := testParams()
	p.Spokes = 9
	if err := s.Regenerate(id, p); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	after, _ := s.Get(id)
	if after.Local.Spokes != 9 || after.Params.Spokes != 9 {
		t.Errorf("spokes after edit = %d", after.Local.Spokes)
	}
	if before.Local.Spokes != 6 {
		t.Error("earlier snapshot changed by edit")
	}

	p.Spokes = 100
	if err := s.Regenerate(id, p); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("Regenerate(spokes=100) = %v", err)
	}
	kept, _ := s.Get(id)
	if kept.Local.Spokes != 9 {
		t.Errorf("failed edit replaced mesh: spokes %d", kept.Local.Spokes)
	}

	if err := s.Regenerate(uuid.New(), testParams()); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Regenerate(unknown) = %v", err)
	}
}

func TestRegenerateMatchesFreshGenerate(t *testing.T) {
	s := New()
	id, _ := s.Add("web", web.DefaultParams(), Placement{})
	p := testParams()
	_ = s.Regenerate(id, p)

	o, _ := s.Get(id)
	want, _ := web.Generate(p)
	if !o.Local.Equal(want, 0) {
		t.Error("edited mesh differs from a fresh generate with the same params")
	}
}

func TestPlacementLandsRimOnTarget(t *testing.T) {
	tests := []struct {
		name string
		pl   Placement
	}{
		{"along z", Placement{Origin: geom.V(0, 0, -5), Target: geom.Zero}},
		{"along x", Placement{Origin: geom.V(-5, 0, 0), Target: geom.V(3, 0, 0)}},
		{"oblique", Placement{Origin: geom.V(1, 2, 3), Target: geom.V(-2, 4, 0.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, _ := web.Generate(testParams())
			world := tt.pl.Apply(local)
			dir := tt.pl.Dir()

			outer := world.Ring(world.Rings - 1)
			for _, i := range outer {
				if d := world.Vertices[i].Pos.Sub(tt.pl.Target).Dot(dir); math.Abs(d) > tol {
					t.Errorf("rim vertex %d off target plane by %g", i, d)
				}
			}
			hub := tt.pl.Hub(local.Params.Height)
			if !world.Reference().ApproxEqual(hub, tol) {
				t.Errorf("hub = %v, want %v", world.Reference(), hub)
			}
			if err := world.Check(); err != nil {
				t.Errorf("placed mesh broken: %v", err)
			}
		})
	}
}

func TestPlacementDegenerateDirection(t *testing.T) {
	pl := Placement{Origin: geom.V(1, 1, 1), Target: geom.V(1, 1, 1)}
	if pl.Dir() != geom.UnitZ {
		t.Errorf("Dir() = %v, want +Z", pl.Dir())
	}
	local, _ := web.Generate(testParams())
	world := pl.Apply(local)
	want := local.Vertices[3].Pos.Add(geom.V(1, 1, 1-local.Params.Height))
	if !world.Vertices[3].Pos.ApproxEqual(want, tol) {
		t.Errorf("vertex 3 = %v, want %v", world.Vertices[3].Pos, want)
	}
}

func TestShotFromPlacement(t *testing.T) {
	s := New()
	pl := Placement{Origin: geom.V(0, -4, 0), Target: geom.V(0, 2, 1)}
	id, _ := s.Add("web", testParams(), pl)
	if err := s.AnimateBehavior(id, anim.BehaviorShot); err != nil {
		t.Fatalf("AnimateBehavior: %v", err)
	}

	f0, err := s.Step(id, 0)
	if err != nil {
		t.Fatalf("Step(0): %v", err)
	}
	if !f0.Reference.ApproxEqual(pl.Origin, tol) {
		t.Errorf("t=0 reference = %v, want origin %v", f0.Reference, pl.Origin)
	}

	f1, err := s.Step(id, 1)
	if err != nil {
		t.Fatalf("Step(1): %v", err)
	}
	o, _ := s.Get(id)
	if f1.Phase != anim.PhaseLanded || o.Phase != anim.PhaseLanded {
		t.Errorf("phase = %s / %s, want landed", f1.Phase, o.Phase)
	}
	if !f1.Mesh.Equal(o.World, 1e-9) {
		t.Error("landed web differs from its placed mesh")
	}
}

func TestTetherFromPlacement(t *testing.T) {
	s := New()
	pl := Placement{Origin: geom.V(0, 0, -3), Target: geom.Zero}
	id, _ := s.Add("web", testParams(), pl)
	_ = s.AnimateBehavior(id, anim.BehaviorTether)

	f, err := s.Step(id, 1)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if f.Tether == nil {
		t.Fatal("tether frame without strand")
	}
	if f.Tether.From != pl.Origin {
		t.Errorf("strand from %v, want %v", f.Tether.From, pl.Origin)
	}
	if !f.Tether.To.ApproxEqual(pl.Hub(0.5), tol) {
		t.Errorf("strand to %v, want hub %v", f.Tether.To, pl.Hub(0.5))
	}
}

func TestStepWithoutAnimation(t *testing.T) {
	s := New()
	id, _ := s.Add("web", testParams(), Placement{})
	if _, err := s.Step(id, 0.5); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Step without animation = %v, want INVALID_STATE", err)
	}
	if _, err := s.Step(uuid.New(), 0.5); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Step(unknown) = %v, want NOT_FOUND", err)
	}
}

func TestRegenerateCancelsAnimation(t *testing.T) {
	s := New()
	id, _ := s.Add("web", testParams(), Placement{})
	st := anim.NewSpread(anim.SpreadParams{})
	_ = s.Animate(id, st)
	if _, err := s.Step(id, 0.3); err != nil {
		t.Fatal(err)
	}
	_ = s.Regenerate(id, testParams())
	if st.Phase() != anim.PhaseCancelled {
		t.Errorf("old state phase = %s, want cancelled", st.Phase())
	}
	if _, err := s.Step(id, 0.5); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Step after edit = %v, want INVALID_STATE", err)
	}
}

func TestCancel(t *testing.T) {
	s := New()
	id, _ := s.Add("web", testParams(), Placement{})
	if err := s.Cancel(id); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Cancel without animation = %v", err)
	}
	_ = s.AnimateBehavior(id, anim.BehaviorSpread)
	_, _ = s.Step(id, 0.2)
	if err := s.Cancel(id); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Step(id, 0.4); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Step after Cancel = %v", err)
	}
}

func TestConcurrentSteps(t *testing.T) {
	s := New()
	ids := make([]uuid.UUID, 4)
	for i := range ids {
		ids[i], _ = s.Add("web", testParams(), Placement{})
		_ = s.AnimateBehavior(ids[i], anim.BehaviorSpread)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 11 {
				if _, err := s.Step(id, float64(i)/10); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	for _, o := range s.List() {
		if o.Phase != anim.PhaseSettled {
			t.Errorf("%s phase = %s, want settled", o.ID, o.Phase)
		}
	}
}

func TestAnimateBehaviorDuringMoves(t *testing.T) {
	s := New()
	near := Placement{Origin: geom.V(0, 0, -3), Target: geom.Zero}
	far := Placement{Origin: geom.V(4, 0, 0), Target: geom.V(0, 5, 0)}
	id, _ := s.Add("web", testParams(), near)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			pl := near
			if i%2 == 1 {
				pl = far
			}
			if err := s.Move(id, pl); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for range 200 {
		if err := s.AnimateBehavior(id, anim.BehaviorTether); err != nil {
			t.Fatal(err)
		}
		f, err := s.Step(id, 1)
		if err != nil {
			t.Fatal(err)
		}
		// Origin and hub must come from the same placement.
		switch f.Tether.From {
		case near.Origin:
			if !f.Tether.To.ApproxEqual(near.Hub(0.5), tol) {
				t.Fatalf("near tether to %v, want %v", f.Tether.To, near.Hub(0.5))
			}
		case far.Origin:
			if !f.Tether.To.ApproxEqual(far.Hub(0.5), tol) {
				t.Fatalf("far tether to %v, want %v", f.Tether.To, far.Hub(0.5))
			}
		default:
			t.Fatalf("tether from %v matches no placement", f.Tether.From)
		}
	}
	close(done)
	wg.Wait()

	o, _ := s.Get(id)
	if err := s.AnimateBehavior(id, anim.BehaviorTether); err != nil {
		t.Fatal(err)
	}
	f, _ := s.Step(id, 1)
	if f.Tether.From != o.Placement.Origin || !f.Tether.To.ApproxEqual(o.World.Reference(), tol) {
		t.Errorf("tether %v→%v, want %v→%v", f.Tether.From, f.Tether.To, o.Placement.Origin, o.World.Reference())
	}
}
