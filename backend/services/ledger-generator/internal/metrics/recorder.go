package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"lremanager/backend/services/ledger-generator/internal/models"
)

const (
	namespace = "ledgergen"
	// PushJob is the Pushgateway job name.
	PushJob = "ledger_generator"
)

// Recorder collects submission metrics in its own registry.
type Recorder struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	lastRun     *prometheus.GaugeVec
	runSeconds  prometheus.Gauge
}

// NewRecorder creates and registers the generator metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Ledger submissions by program and outcome.",
		}, []string{"program", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent submitting one ledger entry.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"program"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_entries",
			Help:      "Entries of the last run by result.",
		}, []string{"result"}),
		runSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
	r.registry.MustRegister(r.submissions, r.latency, r.lastRun, r.runSeconds)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSubmission counts one submission and its latency.
func (r *Recorder) ObserveSubmission(programID int64, outcome string, elapsed time.Duration) {
	program := strconv.FormatInt(programID, 10)
	r.submissions.WithLabelValues(program, outcome).Inc()
	r.latency.WithLabelValues(program).Observe(elapsed.Seconds())
}

// ObserveRun records totals of a finished run.
func (r *Recorder) ObserveRun(summary *models.RunSummary) {
	attempted, created, failed := summary.Totals()
	r.lastRun.WithLabelValues("attempted").Set(float64(attempted))
	r.lastRun.WithLabelValues("created").Set(float64(created))
	r.lastRun.WithLabelValues("failed").Set(float64(failed))
	r.runSeconds.Set(summary.FinishedAt.Sub(summary.StartedAt).Seconds())
}

// Push sends the registry to a Pushgateway, grouped by run id.
func (r *Recorder) Push(ctx context.Context, gatewayURL, runID string) error {
	pusher := push.New(gatewayURL, PushJob).Gatherer(r.registry)
	if runID != "" {
		pusher = pusher.Grouping("run_id", runID)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("metrics: push: %w", err)
	}
	return nil
}
