// Package metrics exports Prometheus metrics for the conversation core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// EventsTotal counts dispatched events by type.
	EventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docshelf",
		Name:      "events_total",
		Help:      "Number of conversation events dispatched, by event type.",
	}, []string{"type"})

	// FilesSaved counts successfully persisted uploads.
	FilesSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "docshelf",
		Name:      "files_saved_total",
		Help:      "Number of files saved to the store.",
	})

	// DuplicateFiles counts uploads rejected by the uniqueness invariant.
	DuplicateFiles = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "docshelf",
		Name:      "duplicate_files_total",
		Help:      "Number of uploads rejected because the owner already stored the content.",
	})

	// StorageFaults counts unexpected storage-layer failures.
	StorageFaults = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "docshelf",
		Name:      "storage_faults_total",
		Help:      "Number of unexpected storage failures surfaced to users as a generic notice.",
	})

	// SessionsEvicted counts sessions discarded by the idle-eviction loop.
	SessionsEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "docshelf",
		Name:      "sessions_evicted_total",
		Help:      "Number of abandoned sessions evicted after the idle timeout.",
	})
)

func init() {
	registry.MustRegister(EventsTotal, FilesSaved, DuplicateFiles, StorageFaults, SessionsEvicted)
}

// Handler returns the HTTP handler serving the metrics registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
