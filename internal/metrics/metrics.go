// Package metrics records run outcomes and pad counts in a private
// Prometheus registry and writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/padconv/internal/sensor"
)

// Artifact labels for ObserveArtifact.
const (
	ArtifactUSD  = "usd"
	ArtifactYAML = "yaml"
)

// Recorder holds the padconv collectors.
type Recorder struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	contactPoints *prometheus.GaugeVec
	artifactBytes *prometheus.GaugeVec
	duration      *prometheus.GaugeVec
}

// New returns a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padconv_runs_total",
			Help: "Conversion runs by profile and final state.",
		}, []string{"profile", "status"}),
		contactPoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "padconv_contact_points",
			Help: "Contact points per sensor group of the emitted profile.",
		}, []string{"profile", "group"}),
		artifactBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "padconv_artifact_bytes",
			Help: "Size of the last written artifact.",
		}, []string{"artifact"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "padconv_run_duration_seconds",
			Help: "Wall time of the last run.",
		}, []string{"profile"}),
	}
	r.registry.MustRegister(r.runs, r.contactPoints, r.artifactBytes, r.duration)
	return r
}

// Registry exposes the underlying registry, for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveProfile sets one contact point gauge per group of p.
func (r *Recorder) ObserveProfile(p sensor.Profile) {
	for _, g := range p.Groups {
		r.contactPoints.WithLabelValues(p.Name, g.Name).Set(float64(g.SensorCount))
	}
}

// ObserveRun counts a finished run.
func (r *Recorder) ObserveRun(profile, status string, d time.Duration) {
	r.runs.WithLabelValues(profile, status).Inc()
	r.duration.WithLabelValues(profile).Set(d.Seconds())
}

// ObserveArtifact records the size of a written artifact.
func (r *Recorder) ObserveArtifact(artifact string, size int64) {
	r.artifactBytes.WithLabelValues(artifact).Set(float64(size))
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
