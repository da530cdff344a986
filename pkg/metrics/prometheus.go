package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver exports pipeline events as counters and the turn
// latency event as a histogram.
type PrometheusObserver struct {
	events  *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shivaay",
		Name:      "events_total",
		Help:      "Assistant pipeline events by name.",
	}, []string{"event", "language", "provider"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shivaay",
		Name:      "turn_duration_milliseconds",
		Help:      "End to end turn latency.",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}, []string{"language", "voice"})
	for _, c := range []prometheus.Collector{events, latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return &PrometheusObserver{events: events, latency: latency}, nil
}

func (p *PrometheusObserver) RecordEvent(ev MetricsEvent) {
	if p == nil {
		return
	}
	if ev.Name == EventTurnLatency {
		p.latency.WithLabelValues(ev.Tags["language"], ev.Tags["voice"]).Observe(ev.Value)
		return
	}
	p.events.WithLabelValues(ev.Name, ev.Tags["language"], ev.Tags["provider"]).Inc()
}
