package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets sold per event",
		},
		[]string{"event_id"},
	)

	scanAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_scans_total",
			Help: "QR scan attempts by outcome",
		},
		[]string{"outcome"},
	)

	codeLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_code_lookup_seconds",
			Help:    "Latency of resolving a secure code through the index",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	activeSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_subscriptions_active",
			Help: "Live realtime subscriptions",
		},
	)
)

// Scan outcomes.
const (
	ScanFound    = "found"
	ScanNotFound = "not_found"
	ScanDenied   = "denied"
	ScanError    = "error"
)

func TrackTicketIssued(eventID string) {
	ticketsIssued.WithLabelValues(eventID).Inc()
}

func TrackScan(outcome string) {
	scanAttempts.WithLabelValues(outcome).Inc()
}

func ObserveCodeLookup(d time.Duration) {
	codeLookupDuration.Observe(d.Seconds())
}

func SubscriptionOpened() {
	activeSubscriptions.Inc()
}

func SubscriptionClosed() {
	activeSubscriptions.Dec()
}
