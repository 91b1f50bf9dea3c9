package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	maintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logindexor_maintenance_runs_total",
			Help: "Total number of database maintenance runs by outcome",
		},
		[]string{"status"},
	)

	maintenanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logindexor_maintenance_duration_seconds",
			Help:    "Duration of database maintenance runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	maintenanceLastRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logindexor_maintenance_last_run_timestamp",
			Help: "Unix timestamp of the last maintenance run",
		},
	)

	maintenanceReclaimed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logindexor_maintenance_space_reclaimed_bytes",
			Help: "Bytes reclaimed by the last maintenance run",
		},
	)

	walCheckpoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logindexor_wal_checkpoint_total",
			Help: "Total number of WAL checkpoints by mode",
		},
		[]string{"mode"},
	)

	dbSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "logindexor_db_size_bytes",
			Help: "SQLite database size in bytes including WAL and shared memory files",
		},
	)
)

func maintenanceFinished(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	maintenanceRuns.WithLabelValues(status).Inc()
	maintenanceDuration.Observe(time.Since(start).Seconds())
	maintenanceLastRun.Set(float64(time.Now().UTC().Unix()))
}

func maintenanceSizeLog(before, after int64) {
	dbSize.Set(float64(after))
	if before > after {
		maintenanceReclaimed.Set(float64(before - after))
	} else {
		maintenanceReclaimed.Set(0)
	}
}

func walCheckpointInc(mode string) {
	walCheckpoints.WithLabelValues(mode).Inc()
}
