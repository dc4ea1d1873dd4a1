package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "HTTP response size in bytes",
		Buckets: prometheus.ExponentialBuckets(100, 10, 5),
	}, []string{"method", "path"})

	// метрики хранилища
	StoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Snapshot store operation duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"driver", "operation"})

	DBActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_active_connections",
		Help: "Number of active database connections",
	})

	DBIdleConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_idle_connections",
		Help: "Number of idle database connections",
	})

	// метрики снапшота
	SnapshotWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_writes_total",
		Help: "Snapshot write attempts by result",
	}, []string{"result"})

	SnapshotReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_reads_total",
		Help: "Snapshot read attempts by result",
	}, []string{"result"})

	SnapshotSizeBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snapshot_size_bytes",
		Help: "Size of the last stored snapshot document",
	})

	// метрики коллектора
	CollectorFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collector_files_total",
		Help: "CSV files aggregated by result",
	}, []string{"result"})

	CollectorFileProcessingTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "collector_file_processing_seconds",
		Help:    "Time spent aggregating a single CSV file",
		Buckets: prometheus.DefBuckets,
	})

	CollectorActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "collector_active_workers",
		Help: "Number of active CSV aggregation workers",
	})
)
