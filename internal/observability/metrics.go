package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	threadsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bootctl",
			Subsystem: "kernel",
			Name:      "threads_created_total",
			Help:      "Threads admitted to the scheduler table.",
		},
		[]string{"thread"},
	)
	threadCreateFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bootctl",
			Subsystem: "kernel",
			Name:      "thread_create_failures_total",
			Help:      "Fatal configuration errors at thread creation.",
		},
		[]string{"thread"},
	)
	threadsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bootctl",
			Subsystem: "kernel",
			Name:      "threads_running",
			Help:      "Threads currently dispatched and not yet finished.",
		},
	)
	threadStackBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bootctl",
			Subsystem: "kernel",
			Name:      "thread_stack_bytes",
			Help:      "Execution stack bytes accounted per thread.",
		},
		[]string{"thread"},
	)
	threadRuntime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bootctl",
			Subsystem: "kernel",
			Name:      "thread_runtime_seconds",
			Help:      "Wall time from dispatch to thread-body return.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"thread"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bootctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bootctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			threadsCreated, threadCreateFailures, threadsRunning,
			threadStackBytes, threadRuntime, httpRequests, httpDuration,
		)
	})
}

func RecordThreadCreated(thread string, stackBytes int) {
	RegisterMetrics()
	threadsCreated.WithLabelValues(thread).Inc()
	threadStackBytes.WithLabelValues(thread).Set(float64(stackBytes))
}

func RecordThreadCreateFailure(thread string) {
	RegisterMetrics()
	threadCreateFailures.WithLabelValues(thread).Inc()
}

func RecordThreadStart(thread string) {
	RegisterMetrics()
	threadsRunning.Inc()
}

func RecordThreadExit(thread string, runtime time.Duration) {
	RegisterMetrics()
	threadsRunning.Dec()
	threadRuntime.WithLabelValues(thread).Observe(runtime.Seconds())
}
