package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campusride"

var (
	RidesBookedTotal    = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rides_booked_total", Help: "Total number of passenger bookings"})
	RidesAcceptedTotal  = promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "rides_accepted_total", Help: "Rides that reached ACCEPTED, by role"}, []string{"role"})
	RidesCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "rides_completed_total", Help: "Rides that reached COMPLETED, by role"}, []string{"role"})
	RidesCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rides_cancelled_total", Help: "Total number of cancelled rides"})
	BookingsRejected    = promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "bookings_rejected_total", Help: "Bookings rejected by a guard"}, []string{"reason"})
	MatchLatency        = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "match_latency_seconds", Help: "Time from booking to rider match"})

	WalletTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "wallet_transactions_total", Help: "Wallet transactions posted, by type"}, []string{"type"})
	WalletBalance           = promauto.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "wallet_balance", Help: "Current wallet balance of the local user"})

	AssistantFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "assistant_fallbacks_total", Help: "Assistant calls answered with a fallback"}, []string{"call"})
	ChatMessagesTotal       = promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "chat_messages_total", Help: "Chat messages appended, by sender role"}, []string{"sender"})

	PersistErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "persist_errors_total", Help: "Failed session state saves"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
