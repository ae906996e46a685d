package cache

// ScopedKeyer prefixes every key of an inner Keyer. The preview server uses
// it to keep its entries apart from CLI runs sharing the same Redis.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) MeshKey(fingerprint string) string {
	return k.prefix + k.inner.MeshKey(fingerprint)
}

func (k *ScopedKeyer) FrameKey(fingerprint string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(fingerprint, opts)
}

func (k *ScopedKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(contentHash, opts)
}
