// Package metrics exposes Prometheus instrumentation for the sync core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteCalls tracks every call against the remote store
	// Labels allow filtering by method (list/insert/update/upsert/delete)
	// and outcome (ok/connectivity/rejected)
	RemoteCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoponto_remote_calls_total",
		Help: "Total remote store calls by method and outcome",
	}, []string{"method", "outcome"})

	// CacheFallbacks counts reads served from the local cache because the
	// remote store was unreachable. A rising rate means degraded mode.
	CacheFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecoponto_cache_fallback_total",
		Help: "Total reads served from the local cache after a remote failure",
	})

	// QueueDepth is the primary indicator of buffered offline work
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ecoponto_queue_depth",
		Help: "Current number of operations buffered in the offline queue",
	})

	// DrainOperations tracks replayed queue entries by operation kind and
	// result (replayed/failed)
	DrainOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoponto_drain_operations_total",
		Help: "Total queued operations processed during drains",
	}, []string{"operation", "result"})

	// Drains counts drain passes by final status (complete/stopped/noop)
	Drains = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoponto_drains_total",
		Help: "Total drain passes by final status",
	}, []string{"status"})

	// Connectivity provides a binary 0/1 signal for the monitor state
	// 1 = online, 0 = offline
	Connectivity = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ecoponto_online",
		Help: "Current connectivity state (1 online, 0 offline)",
	})
)
