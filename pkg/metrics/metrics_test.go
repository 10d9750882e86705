package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOracleRequest(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordOracleRequest("classify", StatusSuccess, 120*time.Millisecond)
	m.RecordOracleRequest("classify", StatusError, time.Second)
	m.RecordOracleRequest("classify", StatusSuccess, 80*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.oracleRequestsTotal.WithLabelValues("classify", StatusSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.oracleRequestsTotal.WithLabelValues("classify", StatusError)))
}

func TestRecordCounters(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordNormalizerOutcome("fallback")
	m.RecordPostIngested("analyze")
	m.RecordProductCreated()
	m.RecordProductCreated()
	m.RecordJobRun("price_refresh", StatusSuccess)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.normalizerOutcomes.WithLabelValues("fallback")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.postsIngestedTotal.WithLabelValues("analyze")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.productsCreatedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.jobRunsTotal.WithLabelValues("price_refresh", StatusSuccess)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordOracleRequest("price", StatusError, time.Second)
		m.RecordNormalizerOutcome("parsed")
		m.RecordPostIngested("ingest")
		m.RecordProductCreated()
		m.RecordJobRun("retention", StatusSuccess)
	})
}

func TestHandler(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	m.RecordProductCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "products_created_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNew_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := New(registry)
	require.NoError(t, err)

	_, err = New(registry)
	assert.Error(t, err)
}
