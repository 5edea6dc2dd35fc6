package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneya_gateway_calls_total",
			Help: "Total number of gateway calls by result",
		},
		[]string{"gateway", "result"},
	)

	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moneya_gateway_duration_seconds",
			Help:    "Duration of gateway upstream calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"gateway"},
	)

	RAGSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneya_rag_searches_total",
			Help: "Total number of retrieval searches by caller and hit state",
		},
		[]string{"caller", "hit"},
	)

	CorpusChunks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moneya_corpus_chunks",
			Help: "Number of knowledge chunks loaded at startup",
		},
	)

	RealtimeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moneya_realtime_sessions_active",
			Help: "Number of connected realtime client sessions",
		},
	)

	RealtimeUpstreamEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneya_realtime_upstream_events_total",
			Help: "Total number of upstream realtime events by type",
		},
		[]string{"type"},
	)

	SpeechCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moneya_speech_cache_lookups_total",
			Help: "Speech audio cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveGateway records one upstream gateway call.
func ObserveGateway(gateway string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	GatewayCalls.WithLabelValues(gateway, result).Inc()
	GatewayDuration.WithLabelValues(gateway).Observe(time.Since(start).Seconds())
}

func ObserveSearch(caller string, hits int) {
	hit := "miss"
	if hits > 0 {
		hit = "hit"
	}
	RAGSearches.WithLabelValues(caller, hit).Inc()
}
