package usersapi

import "github.com/prometheus/client_golang/prometheus"

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) (*clientMetrics, error) {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usersapi_client_requests_total",
				Help: "Total number of requests sent to the Users API.",
			},
			[]string{"code", "method"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "usersapi_client_request_duration_seconds",
				Help:    "Latency of Users API requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}
