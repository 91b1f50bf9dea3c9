package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tick results used as the "result" label of TicksTotal.
const (
	TickApplied = "applied"
	TickIdle    = "idle"
	TickFailed  = "failed"
)

var (
	// Indexing metrics
	LastCheckpointBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "logindexor_last_checkpoint_block",
			Help: "The last observed block committed for a filter",
		},
		[]string{"filter_id"},
	)

	FinalizedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logindexor_finalized_block",
			Help: "The latest finalized block reported by the node",
		},
	)

	TicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logindexor_ticks_total",
			Help: "Total number of indexer ticks by result",
		},
		[]string{"result"},
	)

	WakeupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logindexor_wakeups_total",
			Help: "Total number of tick triggers by source",
		},
		[]string{"source"},
	)

	BlocksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logindexor_blocks_processed_total",
			Help: "Total number of blocks covered by committed ticks",
		},
		[]string{"filter_id"},
	)

	LogsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logindexor_logs_applied_total",
			Help: "Total number of logs handed to the processor",
		},
		[]string{"filter_id"},
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logindexor_tick_duration_seconds",
			Help:    "Time taken by a tick that applied a range",
			Buckets: prometheus.DefBuckets,
		},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logindexor_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logindexor_errors_total",
			Help: "Total number of errors by component and severity",
		},
		[]string{"component", "severity"},
	)

	ComponentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "logindexor_component_health",
			Help: "Component health status (1=healthy, 0=unhealthy)",
		},
		[]string{"component"},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logindexor_goroutines",
			Help: "Number of active goroutines",
		},
	)

	MemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "logindexor_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func TickInc(result string) {
	TicksTotal.WithLabelValues(result).Inc()
}

func WakeupInc(source string) {
	WakeupsTotal.WithLabelValues(source).Inc()
}

func TickDurationLog(duration time.Duration) {
	TickDuration.Observe(duration.Seconds())
}

func LastCheckpointBlockSet(filterID string, blockNum uint64) {
	LastCheckpointBlock.WithLabelValues(filterID).Set(float64(blockNum))
}

func FinalizedBlockSet(blockNum uint64) {
	FinalizedBlock.Set(float64(blockNum))
}

func BlocksProcessedInc(filterID string, count uint64) {
	BlocksProcessed.WithLabelValues(filterID).Add(float64(count))
}

func LogsAppliedInc(filterID string, count int) {
	LogsApplied.WithLabelValues(filterID).Add(float64(count))
}

func ErrorInc(component, severity string) {
	Errors.WithLabelValues(component, severity).Inc()
}

func ComponentHealthSet(component string, healthy bool) {
	boolAsFloat := float64(1)
	if !healthy {
		boolAsFloat = 0
	}

	ComponentHealth.WithLabelValues(component).Set(boolAsFloat)
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges.
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())
	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	MemoryUsage.WithLabelValues("total_alloc").Set(float64(m.TotalAlloc))
	MemoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	MemoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
