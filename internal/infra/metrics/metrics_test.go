package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.ObserveBackend("/chat", "ok", 20*time.Millisecond)
	m.ObserveBackend("/chat", "ok", 10*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, 200)
	m.Superseded("chat")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("/chat", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.superseded.WithLabelValues("chat")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "lms_backend_requests_total")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveBackend("/chat", "ok", time.Second)
	m.ObserveHTTP(http.MethodGet, 200)
	m.Superseded("chat")
	assert.Nil(t, m.Registry())
}
