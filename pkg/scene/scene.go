// Package scene is a minimal host for generated webs.
//
// A [Scene] owns placed web objects behind opaque handles. Hosts add a web
// from parameters, keep the returned [uuid.UUID], and pass it back to edit,
// animate or remove the object. Editing parameters regenerates the mesh from
// scratch; the generator itself holds no state between calls.
//
// A Scene is safe for concurrent use. Meshes handed out are never modified
// after creation and may be shared; animation frames are fresh copies.
package scene

import (
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// Object is a snapshot of one web in the scene.
type Object struct {
	ID        uuid.UUID
	Name      string
	Params    web.Params
	Placement Placement
	// Local is the mesh in its own frame; World is Local after placement.
	Local *web.Mesh
	World *web.Mesh
	// Behavior and Phase describe the attached animation, if any.
	Behavior anim.Behavior
	Phase    anim.Phase
}

type object struct {
	Object
	state *anim.State
}

func (o *object) snapshot() Object {
	s := o.Object
	if o.state != nil {
		s.Behavior = o.state.Behavior
		s.Phase = o.state.Phase()
	}
	return s
}

// Scene is a set of web objects addressed by handle.
type Scene struct {
	mu      sync.RWMutex
	objects map[uuid.UUID]*object
	order   []uuid.UUID
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{objects: make(map[uuid.UUID]*object)}
}

// Add generates a web and places it. It fails with INVALID_PARAMETER for bad
// parameters or names, leaving the scene unchanged.
func (s *Scene) Add(name string, p web.Params, pl Placement) (uuid.UUID, error) {
	if err := errors.ValidateObjectName(name); err != nil {
		return uuid.Nil, err
	}
	local, err := web.Generate(p)
	if err != nil {
		return uuid.Nil, err
	}
	o := &object{Object: Object{
		ID:        uuid.New(),
		Name:      name,
		Params:    p,
		Placement: pl,
		Local:     local,
		World:     pl.Apply(local),
	}}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[o.ID] = o
	s.order = append(s.order, o.ID)
	return o.ID, nil
}

// Get returns a snapshot of an object.
func (s *Scene) Get(id uuid.UUID) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[id]
	if !ok {
		return Object{}, notFound(id)
	}
	return o.snapshot(), nil
}

// List returns snapshots of all objects in insertion order.
func (s *Scene) List() []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.objects[id].snapshot())
	}
	return out
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Remove deletes an object and its animation.
func (s *Scene) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return notFound(id)
	}
	delete(s.objects, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Regenerate replaces an object's parameters and rebuilds its mesh. On
// error the object keeps its previous mesh. Any attached animation is
// cancelled, since it was set up for the old geometry.
func (s *Scene) Regenerate(id uuid.UUID, p web.Params) error {
	local, err := web.Generate(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[id]
	if !ok {
		return notFound(id)
	}
	o.Params = p
	o.Local = local
	o.World = o.Placement.Apply(local)
	if o.state != nil {
		o.state.Cancel()
		o.state = nil
	}
	return nil
}

// Move changes an object's placement.
func (s *Scene) Move(id uuid.UUID, pl Placement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[id]
	if !ok {
		return notFound(id)
	}
	o.Placement = pl
	o.World = pl.Apply(o.Local)
	return nil
}

// Animate attaches an idle animation to an object, replacing any previous
// one. A nil state detaches the animation.
func (s *Scene) Animate(id uuid.UUID, st *anim.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[id]
	if !ok {
		return notFound(id)
	}
	o.attach(st)
	return nil
}

// AnimateBehavior attaches the default animation of kind b derived from the
// object's placement: spread in place, shot from the origin, or a tether
// from the origin to the hub. The placement is read under the same lock
// that attaches the animation, so a concurrent Move cannot leave it aimed
// at a stale hub.
func (s *Scene) AnimateBehavior(id uuid.UUID, b anim.Behavior) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[id]
	if !ok {
		return notFound(id)
	}
	var st *anim.State
	switch b {
	case anim.BehaviorSpread:
		st = anim.NewSpread(anim.SpreadParams{})
	case anim.BehaviorShot:
		st = o.Placement.Shot(o.World, anim.ShotParams{})
	case anim.BehaviorTether:
		st = o.Placement.Tether(o.World, anim.TetherParams{Slack: 0.05})
	default:
		return errors.New(errors.ErrCodeInvalidState, "unknown behavior %v", b)
	}
	o.attach(st)
	return nil
}

// attach replaces o's animation, cancelling the old one. Callers hold the
// scene lock.
func (o *object) attach(st *anim.State) {
	if o.state != nil && o.state != st {
		o.state.Cancel()
	}
	o.state = st
}

// Step advances the object's animation to t.
func (s *Scene) Step(id uuid.UUID, t float64) (anim.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[id]
	if !ok {
		return anim.Frame{}, notFound(id)
	}
	if o.state == nil {
		return anim.Frame{}, errors.New(errors.ErrCodeInvalidState, "object %s has no animation", id)
	}
	return anim.Step(o.World, o.state, t)
}

// Cancel stops the object's animation.
func (s *Scene) Cancel(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[id]
	if !ok {
		return notFound(id)
	}
	if o.state == nil {
		return errors.New(errors.ErrCodeInvalidState, "object %s has no animation", id)
	}
	o.state.Cancel()
	return nil
}

func notFound(id uuid.UUID) error {
	return errors.New(errors.ErrCodeNotFound, "no object %s", id)
}
