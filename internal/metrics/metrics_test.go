package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAPI("/offers", 200, 10*time.Millisecond)
	m.ObserveAPI("/offers", 200, 10*time.Millisecond)
	m.ObserveAPI("/offers", 0, time.Millisecond)
	m.FavoriteToggled(true)
	m.FavoriteToggled(false)
	m.ObserveHTTP("GET", "", 404)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("/offers", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("/offers", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.favoriteToggles.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAPI("/offers", 200, time.Millisecond)
		m.FavoriteToggled(true)
		m.ObserveHTTP("GET", "/", 200)
		m.WSClientConnected()
		m.WSClientDisconnected()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.WSClientConnected()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sixcities_ws_clients 1")
}
