package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Outcome of every completed prediction request cycle
	PredictionRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_requests_total",
		Help: "Completed prediction requests by outcome (success, failure, stale).",
	}, []string{"outcome"})

	// Time spent waiting on the prediction backend
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prediction_latency_seconds",
		Help:    "Latency of the prediction backend",
		Buckets: []float64{0.5, 1, 2, 2.5, 3, 3.5, 5, 10},
	})

	// Rejected predict actions (no selection, already loading, retry unavailable)
	PredictionRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_rejected_total",
		Help: "Predict actions rejected before reaching the backend.",
	}, []string{"reason"})

	PlayerSearchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "player_search_total",
		Help: "Player searches by outcome (hit, empty).",
	}, []string{"outcome"})

	DashboardSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_sessions_active",
		Help: "Dashboard sessions currently held in the session store.",
	})
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			PredictionRequestsTotal,
			PredictionLatency,
			PredictionRejectedTotal,
			PlayerSearchTotal,
			DashboardSessionsActive,
		)
	})
}
