package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	ContactsSubmitted    prometheus.Counter
	StatusUpdates        prometheus.Counter
	StoreErrors          *prometheus.CounterVec
	NotificationFailures prometheus.Counter
	TotalContacts        prometheus.Gauge
	NewContacts          prometheus.Gauge
	RequestDuration      *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ContactsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_contacts_submitted_total",
			Help: "Total number of contact messages stored",
		}),
		StatusUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_contact_status_updates_total",
			Help: "Total number of contact status updates applied",
		}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_store_errors_total",
			Help: "Total number of failed store operations",
		}, []string{"operation"}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_notification_failures_total",
			Help: "Total number of new-contact notifications that could not be sent",
		}),
		TotalContacts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portfolio_contacts",
			Help: "Number of stored contact messages at the last refresh",
		}),
		NewContacts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portfolio_contacts_new",
			Help: "Number of contact messages with status new at the last refresh",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}
