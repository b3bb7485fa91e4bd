package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_messages_received_total",
			Help: "Number of messages received by consumer workers",
		},
		[]string{"destination"},
	)
	ReceiveEmpty = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_receive_empty_total",
			Help: "Number of receive calls that returned no message",
		},
		[]string{"destination"},
	)
	Commits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_commits_total",
			Help: "Number of transaction commits issued by consumer workers",
		},
		[]string{"destination"},
	)
	WorkerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_worker_failures_total",
			Help: "Number of workers stopped by a messaging failure",
		},
		[]string{"destination", "phase"}, // receive|commit|create|session|panic
	)
)

var (
	WorkersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "consumer_workers_active",
			Help: "Number of consumer workers currently running",
		},
	)
	ReceiveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "consumer_receive_duration_seconds",
			Help:    "Latency of a single receive call",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_runs_total",
			Help: "Number of finished consumer runs by outcome",
		},
		[]string{"outcome"}, // ok|partial
	)
)

var (
	ReportCacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumer_report_cache_ops_total",
			Help: "Run report cache operations",
		},
		[]string{"result"}, // hit|miss|expired|evicted
	)
	ReportCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "consumer_report_cache_size",
			Help: "Number of run reports held in memory",
		},
	)
)

// MustRegister — регистрирует метрики в глобальном реестре; повторный вызов безопасен.
func MustRegister() {
	for _, c := range []prometheus.Collector{
		MessagesReceived, ReceiveEmpty, Commits, WorkerFailures, WorkersActive, ReceiveDuration,
		RunsTotal, ReportCacheOps, ReportCacheSize,
	} {
		if err := prometheus.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			panic(err)
		}
	}
}
