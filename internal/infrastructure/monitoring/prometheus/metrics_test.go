package prometheus

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
)

func newAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "roofsight"}, logging.NewNopLogger())
	require.NoError(t, err)
	return NewAppMetrics(c), c
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newAppMetrics(t)

	RecordHTTPRequest(m, "GET", "/api/v1/properties/:propertyID/risk", 200, 30*time.Millisecond)
	RecordHTTPRequest(m, "GET", "/api/v1/properties/:propertyID/risk", 404, 5*time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, `status_code="200"`)
	assert.Contains(t, body, `status_code="404"`)
}

func TestRecordSweep(t *testing.T) {
	m, c := newAppMetrics(t)

	RecordSweep(m, "kafka", "completed", 118, 42*time.Second)

	body := scrape(t, c)
	assert.Contains(t, body, `roofsight_portfolio_sweeps_total{status="completed",trigger="kafka"} 1`)
	assert.Contains(t, body, "roofsight_portfolio_sweep_properties_sum")
}

func TestRecordStoreQuery(t *testing.T) {
	m, c := newAppMetrics(t)

	RecordStoreQuery(m, "list_properties", 12*time.Millisecond, nil)
	RecordStoreQuery(m, "list_properties", 2*time.Millisecond, fmt.Errorf("connection reset"))

	body := scrape(t, c)
	assert.Contains(t, body, `roofsight_store_query_duration_seconds_count{operation="list_properties"} 2`)
	assert.Contains(t, body, `roofsight_errors_total{component="store",error_type="query_error"} 1`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newAppMetrics(t)

	RecordCacheAccess(m, "seasonal", true)
	RecordCacheAccess(m, "seasonal", true)
	RecordCacheAccess(m, "seasonal", false)

	body := scrape(t, c)
	assert.Contains(t, body, `roofsight_cache_hits_total{cache="seasonal"} 2`)
	assert.Contains(t, body, `roofsight_cache_misses_total{cache="seasonal"} 1`)
}
