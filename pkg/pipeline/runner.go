package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spiderweb/pkg/anim"
	"github.com/matzehuels/spiderweb/pkg/cache"
	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/observability"
	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/render/sink"
	"github.com/matzehuels/spiderweb/pkg/web"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete synthesize → animate → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{Fingerprint: opts.Web.Fingerprint()}

	// Stage 1: Synthesize
	start := time.Now()
	m, hit, err := r.SynthesizeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	result.Mesh = m
	result.Stats.SynthesizeTime = time.Since(start)
	result.Stats.Vertices = len(m.Vertices)
	result.Stats.Edges = len(m.Edges)
	result.CacheInfo.MeshHit = hit

	r.Logger.Info("synthesized web",
		"vertices", len(m.Vertices),
		"edges", len(m.Edges),
		"cached", hit,
		"duration", result.Stats.SynthesizeTime)

	// Stage 2: Render the static web
	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, render.Item{Mesh: m}, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	// Stage 3: Animate and render each frame
	if opts.Animating() {
		start = time.Now()
		frames, hits, err := r.AnimateAndRender(ctx, m, opts)
		if err != nil {
			return nil, fmt.Errorf("animate: %w", err)
		}
		result.Frames = frames
		result.Stats.Frames = len(frames)
		result.Stats.AnimateTime = time.Since(start)
		result.CacheInfo.FrameHits = hits

		r.Logger.Info("animated web",
			"behavior", opts.Animation.Behavior,
			"frames", len(frames),
			"cached", hits,
			"duration", result.Stats.AnimateTime)
	}

	return result, nil
}

// SynthesizeWithCacheInfo builds the mesh with caching and returns cache hit info.
func (r *Runner) SynthesizeWithCacheInfo(ctx context.Context, opts Options) (*web.Mesh, bool, error) {
	if err := opts.ValidateForSynthesize(); err != nil {
		return nil, false, err
	}
	fp := opts.Web.Fingerprint()
	cacheKey := r.Keyer.MeshKey(fp)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			m, err := pkgio.ReadMesh(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "mesh")
				return m, true, nil
			}
			r.Logger.Debug("discarding unreadable cached mesh", "key", cacheKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "mesh")
	}

	hooks := observability.Pipeline()
	hooks.OnSynthesizeStart(ctx, fp)
	start := time.Now()
	m, err := web.Generate(opts.Web)
	vertices := 0
	if m != nil {
		vertices = len(m.Vertices)
	}
	hooks.OnSynthesizeComplete(ctx, fp, vertices, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteMesh(m, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLMesh); err == nil {
			observability.Cache().OnCacheSet(ctx, "mesh", buf.Len())
		}
	}
	return m, false, nil
}

// Synthesize is a convenience wrapper that calls SynthesizeWithCacheInfo and discards the cache hit info.
func (r *Runner) Synthesize(ctx context.Context, opts Options) (*web.Mesh, error) {
	m, _, err := r.SynthesizeWithCacheInfo(ctx, opts)
	return m, err
}

// Animate steps the configured behavior through opts.Animation.Frames+1
// evenly spaced times. Frames are computed concurrently, each from a fresh
// state, which yields the same snapshots as stepping one state in order.
func (r *Runner) Animate(ctx context.Context, m *web.Mesh, opts Options) ([]anim.Frame, error) {
	if err := opts.ValidateForAnimate(); err != nil {
		return nil, err
	}
	times := FrameTimes(opts.Animation.Frames)

	hooks := observability.Pipeline()
	hooks.OnAnimateStart(ctx, opts.Animation.Behavior, len(times))
	start := time.Now()

	frames := make([]anim.Frame, len(times))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, t := range times {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := r.step(m, opts, t)
			if err != nil {
				return err
			}
			frames[i] = f
			return nil
		})
	}
	err := g.Wait()
	hooks.OnAnimateComplete(ctx, opts.Animation.Behavior, len(times), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// AnimateAndRender animates the web and renders every frame, reusing cached
// frames and artifacts where possible. It returns the frames in time order
// and the number served entirely from cache.
func (r *Runner) AnimateAndRender(ctx context.Context, m *web.Mesh, opts Options) ([]FrameResult, int, error) {
	if err := opts.ValidateForAnimate(); err != nil {
		return nil, 0, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, 0, err
	}
	times := FrameTimes(opts.Animation.Frames)
	fp := m.Params.Fingerprint()
	stateHash := animationHash(opts.Animation)

	out := make([]FrameResult, len(times))
	hits := make([]bool, len(times))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, t := range times {
		g.Go(func() error {
			key := r.Keyer.FrameKey(fp, cache.FrameKeyOpts{
				Behavior: opts.Animation.Behavior,
				State:    stateHash,
				T:        t,
			})
			if artifacts, ok := r.cachedFrame(gctx, key, opts); ok {
				out[i] = FrameResult{Index: i, T: t, Artifacts: artifacts}
				hits[i] = true
				return nil
			}

			f, err := r.step(m, opts, t)
			if err != nil {
				return err
			}
			content, err := sink.RenderJSON(render.FromFrame(f), sink.WithJSONFrame(f))
			if err != nil {
				return err
			}
			_ = r.Cache.Set(gctx, key, content, cache.TTLFrame)

			artifacts, _, err := r.renderContent(gctx, render.FromFrame(f), &f, cache.Hash(content), opts)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			out[i] = FrameResult{Index: i, T: t, Artifacts: artifacts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	n := 0
	for _, h := range hits {
		if h {
			n++
		}
	}
	return out, n, nil
}

// cachedFrame returns the artifacts of a frame when the frame and every
// requested format are cached.
func (r *Runner) cachedFrame(ctx context.Context, key string, opts Options) (map[string][]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	content, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "frame")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "frame")
	return r.cachedArtifacts(ctx, cache.Hash(content), opts)
}

func (r *Runner) step(m *web.Mesh, opts Options, t float64) (anim.Frame, error) {
	st, err := opts.Animation.State()
	if err != nil {
		return anim.Frame{}, err
	}
	return anim.Step(m, st, t)
}

// RenderWithCacheInfo renders it in every requested format with caching and
// returns whether all artifacts came from cache. frame, if set, is the
// animation snapshot it was taken from.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, it render.Item, frame *anim.Frame, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	var jsonOpts []sink.JSONOption
	if frame != nil {
		jsonOpts = append(jsonOpts, sink.WithJSONFrame(*frame))
	}
	content, err := sink.RenderJSON(it, jsonOpts...)
	if err != nil {
		return nil, false, err
	}
	return r.renderContent(ctx, it, frame, cache.Hash(content), opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, it render.Item, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, it, nil, opts)
	return artifacts, err
}

func (r *Runner) renderContent(ctx context.Context, it render.Item, frame *anim.Frame, contentHash string, opts Options) (map[string][]byte, bool, error) {
	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, contentHash, opts); ok {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderItem(ctx, it, frame, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, contentHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		artifacts[format] = data
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func animationHash(c pkgio.AnimationConfig) string {
	// Frames only changes which times are sampled, not any snapshot.
	c.Frames = 0
	data, _ := json.Marshal(c)
	return cache.Hash(data)
}
