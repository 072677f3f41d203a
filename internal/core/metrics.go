package core

import (
	"errors"
	"net/http"

	"github.com/jo-hoe/photogallery/internal/gallery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeSuccess       = "success"
	outcomeNoPhoto       = "no_photo"
	outcomeAborted       = "aborted"
	outcomeWriteFailed   = "write_failed"
	outcomePersistFailed = "persist_failed"
	outcomeReadFailed    = "read_failed"
	outcomeUnavailable   = "store_unavailable"
	outcomeError         = "error"
)

// Metrics holds the Prometheus metrics of the gallery service
type Metrics struct {
	registry *prometheus.Registry

	Captures    *prometheus.CounterVec
	Restores    *prometheus.CounterVec
	GallerySize prometheus.Gauge
}

// NewMetrics creates the metrics on their own registry so several services can coexist in tests
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		Captures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photogallery_captures_total",
				Help: "Total number of capture attempts by outcome",
			},
			[]string{"outcome"},
		),
		Restores: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photogallery_restores_total",
				Help: "Total number of gallery restores by outcome",
			},
			[]string{"outcome"},
		),
		GallerySize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "photogallery_entries",
				Help: "Number of photos currently in the gallery",
			},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) recordCapture(entry *gallery.Entry, err error) {
	outcome := outcomeSuccess
	switch {
	case errors.Is(err, gallery.ErrCaptureAborted):
		outcome = outcomeAborted
	case errors.Is(err, gallery.ErrStorageWriteFailed):
		outcome = outcomeWriteFailed
	case errors.Is(err, gallery.ErrPersistFailed):
		outcome = outcomePersistFailed
	case errors.Is(err, gallery.ErrPersistedStateUnavailable):
		outcome = outcomeUnavailable
	case err != nil:
		outcome = outcomeError
	case entry == nil:
		outcome = outcomeNoPhoto
	}
	m.Captures.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordRestore(err error) {
	outcome := outcomeSuccess
	switch {
	case errors.Is(err, gallery.ErrPerEntryReadFailed):
		outcome = outcomeReadFailed
	case errors.Is(err, gallery.ErrPersistedStateUnavailable):
		outcome = outcomeUnavailable
	case err != nil:
		outcome = outcomeError
	}
	m.Restores.WithLabelValues(outcome).Inc()
}
