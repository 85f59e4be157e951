package metrics

import (
	"alumninet/backend/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestCounter counts HTTP requests by method, path and status code.
	HTTPRequestCounter *prometheus.CounterVec

	// HTTPRequestDuration observes HTTP request latencies.
	HTTPRequestDuration *prometheus.HistogramVec

	// ExternalLookupFailures counts failed calls to the external people
	// lookup. Lookup failures are swallowed by the search endpoint, so this
	// counter is the only place they stay visible.
	ExternalLookupFailures prometheus.Counter

	// EmailSendCounter counts outbound email attempts by result.
	EmailSendCounter *prometheus.CounterVec

	// AppInfo exposes build information.
	AppInfo *prometheus.GaugeVec

	AppVersion = "unknown"
)

func init() {
	if config.Cfg.AppVersion != "" {
		AppVersion = config.Cfg.AppVersion
	}

	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumninet_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alumninet_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ExternalLookupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alumninet_external_lookup_failures_total",
			Help: "Total number of failed external people lookup calls.",
		},
	)

	EmailSendCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumninet_email_send_total",
			Help: "Total number of outbound email send attempts.",
		},
		[]string{"result"},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "alumninet_app_info",
			Help: "Information about the AlumniNet backend.",
		},
		[]string{"version"},
	)
	AppInfo.With(prometheus.Labels{"version": AppVersion}).Set(1)
}
