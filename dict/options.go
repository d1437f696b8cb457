package dict

import (
	"github.com/gomdict/mdict/format"
	"github.com/gomdict/mdict/internal/cache"
	"github.com/gomdict/mdict/internal/options"
	"github.com/gomdict/mdict/metrics"
)

type lookupMode uint8

const (
	modeExpress lookupMode = iota
	modeScan
)

type openConfig struct {
	kind      format.Kind
	mode      lookupMode
	cacheSize int
	recorder  *metrics.Recorder
}

func defaultOpenConfig() openConfig {
	return openConfig{
		kind:      format.KindMDX,
		mode:      modeExpress,
		cacheSize: cache.DefaultCapacity,
	}
}

// OpenOption configures an Open call. Built on the same generic functional
// option the blob decoders' encoder configs use, rather than a bespoke
// option type for this one constructor.
type OpenOption = options.Option[*openConfig]

// WithKind selects whether source holds mdx definitions or mdd resources.
// Defaults to format.KindMDX; the wire format carries no self-describing
// kind, so callers (or the mdx/mdd pairing collaborator) must supply it.
func WithKind(k format.Kind) OpenOption {
	return options.NoError[*openConfig](func(c *openConfig) { c.kind = k })
}

// WithScanMode defers key-block decoding to lookup time instead of eagerly
// building the in-memory keyword hash table at Open.
func WithScanMode() OpenOption {
	return options.NoError[*openConfig](func(c *openConfig) { c.mode = modeScan })
}

// WithExpressMode eagerly decodes every key block at Open to build the
// keyword hash table. This is the default.
func WithExpressMode() OpenOption {
	return options.NoError[*openConfig](func(c *openConfig) { c.mode = modeExpress })
}

// WithCacheSize overrides the block cache's capacity. A size of 1 reproduces
// a single last-block slot exactly.
func WithCacheSize(n int) OpenOption {
	return options.NoError[*openConfig](func(c *openConfig) { c.cacheSize = n })
}

// WithMetrics wires a metrics.Recorder into the lookup engine. When omitted,
// observations are no-ops.
func WithMetrics(r *metrics.Recorder) OpenOption {
	return options.NoError[*openConfig](func(c *openConfig) { c.recorder = r })
}
