package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records probe activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	connectAttempts *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	tables          *prometheus.GaugeVec
	lastRunSuccess  prometheus.Gauge
	lastRunDuration prometheus.Gauge
	lastRunTime     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		connectAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dbprobe_connect_attempts_total",
			Help: "Number of connection attempts by database and result",
		}, []string{"database", "result"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dbprobe_query_duration_seconds",
			Help:    "Duration of introspection queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"query"}),
		tables: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dbprobe_tables",
			Help: "Number of tables found in the public schema of a database",
		}, []string{"database"}),
		lastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dbprobe_last_run_success",
			Help: "Whether the last probe run succeeded (1) or failed (0)",
		}),
		lastRunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dbprobe_last_run_duration_seconds",
			Help: "Duration of the last probe run in seconds",
		}),
		lastRunTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dbprobe_last_run_timestamp_seconds",
			Help: "Unix time the last probe run finished",
		}),
	}
}

// ObserveConnect counts a connection attempt. The result label is "ok" or the
// failure reason.
func (m *Metrics) ObserveConnect(database string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(ReasonOf(err))
	}
	m.connectAttempts.WithLabelValues(database, result).Inc()
}

func (m *Metrics) ObserveQuery(query string, d time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(query).Observe(d.Seconds())
}

func (m *Metrics) SetTables(database string, n int) {
	if m == nil {
		return
	}
	m.tables.WithLabelValues(database).Set(float64(n))
}

func (m *Metrics) ObserveRun(d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.lastRunSuccess.Set(0)
	} else {
		m.lastRunSuccess.Set(1)
	}
	m.lastRunDuration.Set(d.Seconds())
	m.lastRunTime.SetToCurrentTime()
}
