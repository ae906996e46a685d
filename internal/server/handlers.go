package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/errors"
	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/render/sink"
	"github.com/matzehuels/spiderweb/pkg/scene"
	"github.com/matzehuels/spiderweb/pkg/web"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWeb renders a static web described by the query.
func (s *Server) handleWeb(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := s.requestOptions(r.URL.Query(), format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx := r.Context()
	m, err := s.runner.Synthesize(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, render.Item{Mesh: m}, nil, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeArtifact(w, format, artifacts[format], hit)
}

// handleFrame renders the web animated to time ?t=.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := s.requestOptions(r.URL.Query(), format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := &query{v: r.URL.Query()}
	opts.Animation = q.animation(opts.Animation)
	t := -1.0
	q.floatVar("t", &t)
	if q.err != nil {
		s.writeError(w, q.err)
		return
	}
	if t < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidParameter, "query t is required"))
		return
	}

	ctx := r.Context()
	m, err := s.runner.Synthesize(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := opts.Animation.State()
	if err != nil {
		s.writeError(w, err)
		return
	}
	f, err := anim.Step(m, st, t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, render.FromFrame(f), &f, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Phase", f.Phase.String())
	writeArtifact(w, format, artifacts[format], hit)
}

// =============================================================================
// Scene
// =============================================================================

type objectResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Params    web.Params `json:"params"`
	Origin    [3]float64 `json:"origin"`
	Target    [3]float64 `json:"target"`
	Behavior  string     `json:"behavior,omitempty"`
	Phase     string     `json:"phase,omitempty"`
	Vertices  int        `json:"vertices"`
	Edges     int        `json:"edges"`
	Reference [3]float64 `json:"reference"`
}

func newObjectResponse(o scene.Object) objectResponse {
	resp := objectResponse{
		ID:        o.ID,
		Name:      o.Name,
		Params:    o.Params,
		Origin:    arr(o.Placement.Origin),
		Target:    arr(o.Placement.Target),
		Vertices:  len(o.World.Vertices),
		Edges:     len(o.World.Edges),
		Reference: arr(o.World.Reference()),
	}
	if o.Behavior != 0 {
		resp.Behavior = o.Behavior.String()
		resp.Phase = o.Phase.String()
	}
	return resp
}

type addRequest struct {
	Name   string      `json:"name"`
	Params *web.Params `json:"params,omitempty"`
	Origin [3]float64  `json:"origin"`
	Target [3]float64  `json:"target"`
}

type updateRequest struct {
	Params *web.Params `json:"params,omitempty"`
	Origin *[3]float64 `json:"origin,omitempty"`
	Target *[3]float64 `json:"target,omitempty"`
}

type animateRequest struct {
	Behavior string `json:"behavior"`
}

type stepRequest struct {
	T float64 `json:"t"`
}

func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	objs := s.scene.List()
	out := make([]objectResponse, len(objs))
	for i, o := range objs {
		out[i] = newObjectResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddObject(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	p := s.defaults.Web
	if req.Params != nil {
		p = *req.Params
	}
	id, err := s.scene.Add(req.Name, p, placement(req.Origin, req.Target))
	if err != nil {
		s.writeError(w, err)
		return
	}
	o, err := s.scene.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("added object", "id", id, "name", req.Name)
	writeJSON(w, http.StatusCreated, newObjectResponse(o))
}

func (s *Server) handleGetObject(w http.ResponseWriter, r *http.Request) {
	o, err := s.object(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newObjectResponse(o))
}

func (s *Server) handleUpdateObject(w http.ResponseWriter, r *http.Request) {
	o, err := s.object(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Params != nil {
		if err := s.scene.Regenerate(o.ID, *req.Params); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Origin != nil || req.Target != nil {
		pl := o.Placement
		if req.Origin != nil {
			pl.Origin = vec(*req.Origin)
		}
		if req.Target != nil {
			pl.Target = vec(*req.Target)
		}
		if err := s.scene.Move(o.ID, pl); err != nil {
			s.writeError(w, err)
			return
		}
	}
	o, err = s.scene.Get(o.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newObjectResponse(o))
}

func (s *Server) handleRemoveObject(w http.ResponseWriter, r *http.Request) {
	o, err := s.object(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.scene.Remove(o.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleObjectWeb renders an object's world-space mesh.
func (s *Server) handleObjectWeb(w http.ResponseWriter, r *http.Request) {
	o, err := s.object(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := chi.URLParam(r, "format")
	opts, err := s.requestOptions(r.URL.Query(), format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if opts.Title == "" {
		opts.Title = o.Name
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), render.Item{Mesh: o.World}, nil, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeArtifact(w, format, artifacts[format], hit)
}

func (s *Server) handleAnimate(w http.ResponseWriter, r *http.Request) {
	o, err := s.object(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req animateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	b, ok := anim.ParseBehavior(req.Behavior)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeInvalidState, "unknown behavior %q", req.Behavior))
		return
	}
	if err := s.scene.AnimateBehavior(o.ID, b); err != nil {
		s.writeError(w, err)
		return
	}
	o, err = s.scene.Get(o.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newObjectResponse(o))
}

// handleStep advances the object's animation and returns the frame as JSON.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	o, err := s.object(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req stepRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	f, err := s.scene.Step(o.ID, req.T)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := sink.RenderJSON(render.FromFrame(f), sink.WithJSONFrame(f))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Phase", f.Phase.String())
	writeArtifact(w, "json", data, false)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	o, err := s.object(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.scene.Cancel(o.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// object resolves the {id} URL parameter.
func (s *Server) object(r *http.Request) (scene.Object, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return scene.Object{}, errors.Wrap(errors.ErrCodeInvalidParameter, err, "object id %s", strconv.Quote(raw))
	}
	return s.scene.Get(id)
}

func placement(origin, target [3]float64) scene.Placement {
	return scene.Placement{Origin: vec(origin), Target: vec(target)}
}

func vec(a [3]float64) geom.Vec3 { return geom.V(a[0], a[1], a[2]) }
func arr(v geom.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
