// Package metrics counts lookups, predictions and geocoding requests on a
// private Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
)

const namespace = "burden_map"

// Metrics holds the process counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Registry *prometheus.Registry

	TractLookups    *prometheus.CounterVec
	BurdenLookups   *prometheus.CounterVec
	Predictions     *prometheus.CounterVec
	GeocodeRequests *prometheus.CounterVec
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		TractLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tract_lookups_total",
			Help:      "Point-to-tract resolutions by result",
		}, []string{"result"}),
		BurdenLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "burden_lookups_total",
			Help:      "Observed-burden lookups by result",
		}, []string{"result"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Burden predictions by whether both labels were known",
		}, []string{"labels"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding provider requests by provider and outcome",
		}, []string{"provider", "outcome"}),
	}
	m.Registry.MustRegister(m.TractLookups, m.BurdenLookups, m.Predictions, m.GeocodeRequests)
	return m
}

func hitMiss(ok bool) string {
	if ok {
		return "hit"
	}
	return "miss"
}

// ObserveTract records a point-to-tract resolution.
func (m *Metrics) ObserveTract(found bool) {
	if m == nil {
		return
	}
	m.TractLookups.WithLabelValues(hitMiss(found)).Inc()
}

// ObserveBurden records an observed-burden lookup.
func (m *Metrics) ObserveBurden(found bool) {
	if m == nil {
		return
	}
	m.BurdenLookups.WithLabelValues(hitMiss(found)).Inc()
}

// ObservePrediction records a prediction; known is false when a label fell
// back to a zero coefficient.
func (m *Metrics) ObservePrediction(known bool) {
	if m == nil {
		return
	}
	labels := "known"
	if !known {
		labels = "unknown"
	}
	m.Predictions.WithLabelValues(labels).Inc()
}

// ObserveGeocode records one provider request. Its signature matches
// geocode.Observer.
func (m *Metrics) ObserveGeocode(provider, outcome string) {
	if m == nil {
		return
	}
	m.GeocodeRequests.WithLabelValues(provider, outcome).Inc()
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return eris.Wrapf(err, "metrics: write textfile %s", path)
	}
	return nil
}
