// Package metrics provides optional Prometheus instrumentation for the
// lookup engine, grounded on the histogram/counter-vec style the retrieval
// corpus's yellowstone-faithful metrics package uses for its own index and
// car-file lookup latencies.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder wraps a prometheus.Registerer with the handful of observations
// the lookup engine makes. A nil *Recorder is valid and every method on it
// is a no-op, so dict can call these unconditionally without a Recorder
// having been configured via dict.WithMetrics.
type Recorder struct {
	lookupLatency     *prometheus.HistogramVec
	decompressLatency *prometheus.HistogramVec
}

// NewRecorder registers the lookup engine's metrics against reg and returns
// a Recorder wired to them.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		lookupLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mdict_lookup_latency_seconds",
			Help:    "Lookup latency by mode (express/scan) and cache outcome.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 10, 8),
		}, []string{"mode", "hit"}),
		decompressLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mdict_decompress_latency_seconds",
			Help:    "Block decompression latency by codec.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 10, 8),
		}, []string{"codec"}),
	}

	reg.MustRegister(r.lookupLatency, r.decompressLatency)

	return r
}

// ObserveLookup records the latency of one Lookup call, tagged with
// the mode used ("express" or "scan") and whether the block cache was hit.
func (r *Recorder) ObserveLookup(mode string, hit bool, duration time.Duration) {
	if r == nil {
		return
	}

	r.lookupLatency.WithLabelValues(mode, hitLabel(hit)).Observe(duration.Seconds())
}

// ObserveDecompress records the latency of one block decompression, tagged
// with the codec name ("none", "lzo", "deflate").
func (r *Recorder) ObserveDecompress(codec string, duration time.Duration) {
	if r == nil {
		return
	}

	r.decompressLatency.WithLabelValues(codec).Observe(duration.Seconds())
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}

	return "miss"
}
