package httpclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeDecode    = "decode_error"
	outcomeProtocol  = "protocol_error"
)

// Metrics counts calls per resource and outcome. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pivoadmin_client",
				Name:      "requests_total",
				Help:      "Admin API calls by method, resource and outcome.",
			},
			[]string{"method", "resource", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pivoadmin_client",
				Name:      "request_duration_seconds",
				Help:      "Admin API call latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "resource"},
		),
	}
}

func (m *Metrics) observe(method, resource, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, resource, outcome).Inc()
	m.duration.WithLabelValues(method, resource).Observe(d.Seconds())
}
