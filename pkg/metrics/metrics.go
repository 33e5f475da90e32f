package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CalculationsTotal counts completed margin calculations by role and outcome
var CalculationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "marginengine_calculations_total",
		Help: "Total number of margin calculations run",
	},
	[]string{"role", "result"},
)

// CalculationDuration records latency distribution for full calculations
var CalculationDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "marginengine_calculation_duration_seconds",
		Help:    "Latency in seconds of one margin calculation",
		Buckets: prometheus.DefBuckets,
	},
)

// RecordsProcessed counts input risk records consumed, by record type
var RecordsProcessed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "marginengine_records_processed_total",
		Help: "Total number of risk records consumed by the engine",
	},
	[]string{"type"},
)

func init() {
	prometheus.MustRegister(CalculationsTotal, CalculationDuration)
	prometheus.MustRegister(RecordsProcessed)
}
