package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of the client. All methods are nil-safe so
// components can run without metrics in tests.
type Metrics struct {
	gatherer prometheus.Gatherer

	apiRequests     *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	favoriteToggles *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	wsClients       prometheus.Gauge
}

// New registers the collectors in reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sixcities_api_requests_total",
			Help: "Requests sent to the six-cities REST API.",
		}, []string{"endpoint", "status"}),
		apiDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sixcities_api_request_duration_seconds",
			Help:    "Latency of six-cities REST API calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		favoriteToggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sixcities_favorite_toggles_total",
			Help: "Favorite toggles by outcome.",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sixcities_http_requests_total",
			Help: "Requests served by the local HTTP surface.",
		}, []string{"method", "route", "status"}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "sixcities_ws_clients",
			Help: "Connected websocket clients.",
		}),
	}
}

// ObserveAPI records one REST call. status 0 means no response arrived.
func (m *Metrics) ObserveAPI(endpoint string, status int, took time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.apiRequests.WithLabelValues(endpoint, label).Inc()
	m.apiDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

func (m *Metrics) FavoriteToggled(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.favoriteToggles.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) WSClientConnected() {
	if m != nil {
		m.wsClients.Inc()
	}
}

func (m *Metrics) WSClientDisconnected() {
	if m != nil {
		m.wsClients.Dec()
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
