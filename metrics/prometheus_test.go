package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	for code, want := range map[int]string{
		200: "2xx",
		201: "2xx",
		301: "3xx",
		404: "4xx",
		429: "4xx",
		503: "5xx",
		0:   "unknown",
		700: "unknown",
	} {
		assert.Equal(t, want, classifyStatus(code), "status %d", code)
	}
}

func TestMetrics_RecordRequest(t *testing.T) {
	m := New()

	m.RecordRequest("GET", "products.json", 200, 120*time.Millisecond)
	m.RecordRequest("GET", "products.json", 200, 80*time.Millisecond)
	m.RecordRequest("GET", "shop.json", 401, 10*time.Millisecond)
	m.RecordRequest("GET", "pages.json", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "products.json", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "shop.json", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "pages.json", "unknown")))

	assert.Equal(t, int32(4), m.Counters.Requests.Load())
	assert.Equal(t, int32(2), m.Counters.Failed.Load())
}

func TestMetrics_RecordStage(t *testing.T) {
	m := New()
	m.RecordStage("dev", "0", map[string]int{"Products": 2, "Shop": 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stageItems.WithLabelValues("dev", "0", "Products")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageItems.WithLabelValues("dev", "0", "Shop")))
	assert.Equal(t, int32(3), m.Counters.Items.Load())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordRequest("GET", "shop.json", 200, time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `shopkeeper_admin_requests_total{endpoint="shop.json",method="GET",status="2xx"} 1`)
}
