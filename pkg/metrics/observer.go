package metrics

import "time"

// MetricsEvent is one observation. Tags become Prometheus labels; Fields are
// only logged.
type MetricsEvent struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev MetricsEvent)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(MetricsEvent)

func (f ObserverFunc) RecordEvent(ev MetricsEvent) { f(ev) }

type NoopObserver struct{}

func (NoopObserver) RecordEvent(MetricsEvent) {}

// MultiObserver fans each event out in order, skipping nil entries.
type MultiObserver []Observer

func NewMultiObserver(list ...Observer) MultiObserver { return MultiObserver(list) }

func (m MultiObserver) RecordEvent(ev MetricsEvent) {
	for _, obs := range m {
		if obs != nil {
			obs.RecordEvent(ev)
		}
	}
}

// Event stamps a new event with the current time.
func Event(name string, value float64, tags map[string]string) MetricsEvent {
	return MetricsEvent{Name: name, Time: time.Now(), Value: value, Tags: tags}
}
