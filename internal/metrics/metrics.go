// Package metrics defines the Prometheus instruments for the screening
// and scoring pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ScreeningsTotal counts sanctions screenings by outcome (match/clear).
	ScreeningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskscreen",
			Name:      "screenings_total",
			Help:      "Total sanctions screenings performed, by outcome.",
		},
		[]string{"outcome"},
	)

	// ScreeningMatches observes how many watchlist matches each screening produced.
	ScreeningMatches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "riskscreen",
			Name:      "screening_matches",
			Help:      "Number of watchlist matches per screening.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25},
		},
	)

	// ScreeningLatency observes full-scan screening latency in seconds.
	ScreeningLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "riskscreen",
			Name:      "screening_duration_seconds",
			Help:      "Sanctions screening latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// RiskScores observes computed risk scores by check type (aml/kyc/combined).
	RiskScores = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "riskscreen",
			Name:      "risk_score",
			Help:      "Computed risk scores, by check type.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"check"},
	)

	// WatchlistRecords tracks the record count of the active watchlist generation.
	WatchlistRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "riskscreen",
			Name:      "watchlist_records",
			Help:      "Records in the active watchlist generation.",
		},
	)
)

// Register registers every instrument with the given registerer.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		ScreeningsTotal,
		ScreeningMatches,
		ScreeningLatency,
		RiskScores,
		WatchlistRecords,
	)
}
