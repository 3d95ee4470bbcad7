package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects admin API request and stage metrics in its own registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	stageItems      *prometheus.GaugeVec
	Counters        *RunCounters
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "shopkeeper",
				Name:      "admin_requests_total",
				Help:      "Total number of admin API requests.",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "shopkeeper",
				Name:      "admin_request_duration_seconds",
				Help:      "Histogram of admin API request durations.",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "endpoint", "status"},
		),
		stageItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "shopkeeper",
				Name:      "stage_items",
				Help:      "Items processed by the last run of a stage.",
			},
			[]string{"store", "stage", "type"},
		),
		Counters: &RunCounters{},
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.stageItems)
	return m
}

// RecordRequest records one admin API call. A zero status means the request never got a response.
func (m *Metrics) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	m.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.requestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())

	m.Counters.Requests.Add(1)
	if status != "2xx" {
		m.Counters.Failed.Add(1)
	}
}

func (m *Metrics) RecordStage(store, stage string, counts map[string]int) {
	total := 0
	for typ, n := range counts {
		m.stageItems.WithLabelValues(store, stage, typ).Set(float64(n))
		total += n
	}
	m.Counters.Items.Add(int32(total))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func classifyStatus(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		return "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		return "4xx"
	} else if statusCode >= 500 && statusCode < 600 {
		return "5xx"
	}
	return "unknown"
}
