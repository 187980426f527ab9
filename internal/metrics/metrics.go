package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelops",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	ticketsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelops",
			Name:      "tickets_closed_total",
			Help:      "Closed tickets by SLA outcome.",
		},
		[]string{"outcome"},
	)

	alertsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelops",
			Name:      "ops_alerts_total",
			Help:      "Ops monitor alerts by kind.",
		},
		[]string{"kind"},
	)

	vouchersIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotelops",
			Name:      "vouchers_issued_total",
			Help:      "Vouchers issued from reward balances.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, ticketsClosed, alertsEmitted, vouchersIssued)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncTicketClosed records a closure outcome ("on_time" or "late").
func IncTicketClosed(onTime bool) {
	outcome := "late"
	if onTime {
		outcome = "on_time"
	}
	ticketsClosed.WithLabelValues(outcome).Inc()
}

// IncAlert records an emitted alert ("budget" or "late_closure").
func IncAlert(kind string) {
	alertsEmitted.WithLabelValues(kind).Inc()
}

// IncVoucherIssued records one successful claim.
func IncVoucherIssued() {
	vouchersIssued.Inc()
}
