// Package metrics exposes the diagnostic counts of a run as Prometheus
// metrics, written in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/crimson-sun/vectrace/internal/engine"
)

// Recorder holds the metrics of one process. Each Recorder has its own
// registry so tests and library callers do not share state.
type Recorder struct {
	reg *prometheus.Registry

	streams     prometheus.Counter
	declSkipped prometheus.Counter
	sampleLines prometheus.Counter
	samples     *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	matches     *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	records     prometheus.Counter
	lastRecords prometheus.Gauge
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		streams: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrace_streams_indexed_total",
			Help: "Vector declarations indexed for the selected module path.",
		}),
		declSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrace_declarations_skipped_total",
			Help: "Declaration lines that failed the vector grammar.",
		}),
		sampleLines: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrace_sample_lines_total",
			Help: "Non-header lines considered as samples.",
		}),
		samples: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vectrace_samples_extracted_total",
			Help: "Samples retained, by stream group.",
		}, []string{"stream"}),
		dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vectrace_samples_dropped_total",
			Help: "Sample lines discarded, by reason.",
		}, []string{"reason"}),
		matches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vectrace_matches_total",
			Help: "Primary samples with a secondary sample inside the window.",
		}, []string{"stream"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vectrace_fallbacks_total",
			Help: "Primary samples that used the fallback value.",
		}, []string{"stream"}),
		records: f.NewCounter(prometheus.CounterOpts{
			Name: "vectrace_records_emitted_total",
			Help: "Communication records produced.",
		}),
		lastRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "vectrace_last_run_records",
			Help: "Communication records produced by the most recent run.",
		}),
	}
}

// Observe adds the counts of one engine run.
func (r *Recorder) Observe(res engine.Result) {
	ix, c := res.Index, res.Correlation

	r.streams.Add(float64(ix.Indexed))
	r.declSkipped.Add(float64(ix.Skipped))
	r.sampleLines.Add(float64(c.SampleLines))

	r.samples.WithLabelValues("primary").Add(float64(c.Primary))
	r.samples.WithLabelValues("size").Add(float64(c.Size))
	r.samples.WithLabelValues("inter_arrival").Add(float64(c.InterArrival))

	r.dropped.WithLabelValues("malformed").Add(float64(c.Malformed))
	r.dropped.WithLabelValues("unresolved").Add(float64(c.Unresolved))
	r.dropped.WithLabelValues("out_of_interest").Add(float64(c.OutOfInterest))

	r.matches.WithLabelValues("size").Add(float64(c.SizeMatched))
	r.matches.WithLabelValues("inter_arrival").Add(float64(c.InterArrivalMatched))
	r.fallbacks.WithLabelValues("size").Add(float64(c.Primary - c.SizeMatched))
	r.fallbacks.WithLabelValues("inter_arrival").Add(float64(c.Primary - c.InterArrivalMatched))

	r.records.Add(float64(len(res.Records)))
	r.lastRecords.Set(float64(len(res.Records)))
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
