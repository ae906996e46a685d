// Package cache stores generated meshes and rendered artifacts.
//
// Web synthesis is cheap but rendering (rasterizing PNGs, converting PDFs,
// laying out Graphviz topology) is not, and the preview server sees the same
// parameter sets over and over. Entries are keyed by the parameter
// fingerprint plus the options that affect the output.
//
// Three backends implement [Cache]:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps JSON entries on disk for the CLI
//   - [RedisCache] shares entries between preview server instances
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLMesh     = 7 * 24 * time.Hour
	TTLFrame    = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	MeshKey(fingerprint string) string
	FrameKey(fingerprint string, opts FrameKeyOpts) string
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts identifies one animation snapshot.
type FrameKeyOpts struct {
	Behavior string  `json:"behavior"`
	State    string  `json:"state"` // hash of the behavior parameters
	T        float64 `json:"t"`
}

// ArtifactKeyOpts identifies one rendered output.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	VizType    string  `json:"viz_type"`
	View       string  `json:"view"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Margin     float64 `json:"margin"`
	Stroke     float64 `json:"stroke"`
	Color      string  `json:"color"`
	Background string  `json:"background"`
	Resolution int     `json:"resolution"`
	Scale      float64 `json:"scale"`
	Title      string  `json:"title,omitempty"`
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MeshKey returns the key of a synthesized mesh.
func (DefaultKeyer) MeshKey(fingerprint string) string {
	return "mesh:" + fingerprint
}

// FrameKey returns the key of an animation snapshot.
func (DefaultKeyer) FrameKey(fingerprint string, opts FrameKeyOpts) string {
	return hashKey("frame", fingerprint, opts)
}

// ArtifactKey returns the key of a rendered artifact.
func (DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", contentHash, opts)
}
