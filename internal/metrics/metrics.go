// Package metrics exposes Prometheus instrumentation for the reconciler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dockerup_scans_total",
		Help: "Total number of sync cycles performed.",
	})
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dockerup_scan_duration_seconds",
		Help:    "Duration of a full sync cycle.",
		Buckets: prometheus.DefBuckets,
	})
	PullsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dockerup_pulls_total",
		Help: "Total number of image pull attempts by outcome.",
	}, []string{"outcome"})
	ContainersLaunched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dockerup_containers_launched_total",
		Help: "Total number of containers created and started.",
	})
	ContainersReplaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dockerup_containers_replaced_total",
		Help: "Total number of containers replaced, by strategy.",
	}, []string{"strategy"})
	ContainersStopped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dockerup_containers_stopped_total",
		Help: "Total number of containers stopped, by reason.",
	}, []string{"reason"})
	OrphansReaped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dockerup_orphans_reaped_total",
		Help: "Total number of orphaned containers stopped by the pre-pass.",
	})
	DanglingImagesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dockerup_dangling_images_removed_total",
		Help: "Total number of dangling images removed after a cycle.",
	})
	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dockerup_cache_entries",
		Help: "Number of fingerprints currently tracked in the cache store.",
	})
	DependencyCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dockerup_dependency_cycles_total",
		Help: "Total number of sync cycles aborted by a dependency cycle.",
	})
)
