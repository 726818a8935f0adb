package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// Collector records ingestion metrics in its own registry
type Collector struct {
	registry *prometheus.Registry

	eventsApplied       *prometheus.CounterVec
	eventDuration       *prometheus.HistogramVec
	eventsSkipped       *prometheus.CounterVec
	consistencyWarnings *prometheus.CounterVec
	checkpointBlock     prometheus.Gauge
	lastApplied         prometheus.Gauge
}

// NewCollector creates a Collector with all govindex metrics registered
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		eventsApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "govindex_events_applied_total", Help: "Events applied to the entity store"},
			[]string{"event"},
		),
		eventDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "govindex_event_apply_duration_seconds", Help: "Time to apply one event", Buckets: prometheus.DefBuckets},
			[]string{"event"},
		),
		eventsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "govindex_events_skipped_total", Help: "Logs skipped by the pipeline"},
			[]string{"reason"},
		),
		consistencyWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "govindex_consistency_warnings_total", Help: "Stored values that disagreed with an event"},
			[]string{"kind"},
		),
		checkpointBlock: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "govindex_checkpoint_block", Help: "Block number of the last applied event"},
		),
		lastApplied: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "govindex_last_applied_timestamp_seconds", Help: "Wall clock time of the last applied event"},
		),
	}
	c.registry.MustRegister(
		c.eventsApplied,
		c.eventDuration,
		c.eventsSkipped,
		c.consistencyWarnings,
		c.checkpointBlock,
		c.lastApplied,
	)
	return c
}

// Registry exposes the collector's registry for serving
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) EventApplied(name string, took time.Duration) {
	c.eventsApplied.WithLabelValues(name).Inc()
	c.eventDuration.WithLabelValues(name).Observe(took.Seconds())
	c.lastApplied.SetToCurrentTime()
}

func (c *Collector) EventSkipped(reason string) {
	c.eventsSkipped.WithLabelValues(reason).Inc()
}

func (c *Collector) ConsistencyWarning(kind string) {
	c.consistencyWarnings.WithLabelValues(kind).Inc()
}

func (c *Collector) CheckpointAdvanced(pos domain.Position) {
	c.checkpointBlock.Set(float64(pos.BlockNumber))
}

// Ensure Collector implements usecase.IngestMetrics
var _ usecase.IngestMetrics = (*Collector)(nil)
