// Package metrics provides Prometheus observability metrics for the call center generator.
// It includes volume counters for business visibility and timings for operational health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// VOLUME METRICS - Generated Data
// =============================================================================

// CallsTotal counts emitted call records.
var CallsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "simulator",
	Name:      "calls_total",
	Help:      "Total call records emitted",
})

// CRMTotal counts emitted CRM records. Always equal to CallsTotal.
var CRMTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "simulator",
	Name:      "crm_total",
	Help:      "Total CRM records emitted",
})

// SurveysTotal counts emitted survey responses.
var SurveysTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "simulator",
	Name:      "surveys_total",
	Help:      "Total survey responses emitted",
})

// CallbacksScheduledTotal counts callbacks promised inside the horizon.
var CallbacksScheduledTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "simulator",
	Name:      "callbacks_scheduled_total",
	Help:      "Callbacks scheduled for a later day inside the horizon",
})

// CallbacksOutOfHorizonTotal counts callbacks that would have landed after the horizon.
var CallbacksOutOfHorizonTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "simulator",
	Name:      "callbacks_out_of_horizon_total",
	Help:      "Callbacks not scheduled because their day falls after the horizon",
})

// CallbacksCompletedTotal counts callbacks that turned into calls.
var CallbacksCompletedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "simulator",
	Name:      "callbacks_completed_total",
	Help:      "Callbacks that were placed on their due day",
})

// CallbacksDroppedTotal counts due callbacks lost to the end-of-day cutoff.
var CallbacksDroppedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "simulator",
	Name:      "callbacks_dropped_total",
	Help:      "Due callbacks discarded because the owing agent's day ended first",
})

// DaysSimulated tracks progress through the horizon.
var DaysSimulated = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "simulator",
	Name:      "days_simulated",
	Help:      "Number of days simulated in the current run",
})

// =============================================================================
// OPERATIONAL METRICS - Health
// =============================================================================

// CustomerSearchAttempts tracks how many draws it took to find a free customer.
// A distribution creeping toward the limit means the customer pool is saturated.
var CustomerSearchAttempts = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "simulator",
	Name:      "customer_search_attempts",
	Help:      "Draws needed to find an available customer for a new call",
	Buckets:   []float64{1, 2, 3, 5, 8, 12, 15},
})

// DayDurationSeconds tracks wall time spent per simulated day, including writes.
var DayDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "simulator",
	Name:      "day_duration_seconds",
	Help:      "Time taken to simulate and write one day",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
})

// FilesWrittenTotal counts partition files by table and format.
var FilesWrittenTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "writer",
	Name:      "files_total",
	Help:      "Files written by table and format",
}, []string{"table", "format"})

// RowsWrittenTotal counts rows landed per table, counted once per batch regardless of formats.
var RowsWrittenTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "writer",
	Name:      "rows_total",
	Help:      "Rows written by table",
}, []string{"table"})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetSimulatorGauges resets all simulator gauges before a new run.
// Call this at the start of Simulator.Run.
func ResetSimulatorGauges() {
	DaysSimulated.Set(0)
}
