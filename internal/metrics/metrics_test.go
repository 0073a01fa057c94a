package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndScrape(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordCheck("http", "ok", 0.42)
	m.RecordChunks(3)
	m.RecordAnnotatorRequest("openai", "ok", 1.2)
	m.RecordAnnotatorRequest("rules", "error", 0.001)
	m.RecordResolveOutcome("cursor")
	m.RecordResolveOutcome("cursor")
	m.RecordResolveOutcome("collapsed")
	m.RecordErrorsReported(map[string]int{"spelling": 2, "grammar": 1})

	assert.Equal(t, float64(3), testutil.ToFloat64(m.chunksTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.checksTotal.WithLabelValues("http", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.resolveOutcomesTotal.WithLabelValues("cursor")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.errorsReportedTotal.WithLabelValues("spelling")))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "prosecheck_checks_total")
	assert.Contains(t, body, "prosecheck_annotator_request_seconds")
	assert.Contains(t, body, "prosecheck_check_seconds")
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordCheck("http", "ok", 1)
		m.RecordChunks(1)
		m.RecordAnnotatorRequest("openai", "ok", 1)
		m.RecordResolveOutcome("rescan")
		m.RecordErrorsReported(map[string]int{"style": 1})
	})
}

func TestIndependentRegistries(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	b, err := New()
	require.NoError(t, err)

	a.RecordChunks(5)
	assert.Equal(t, float64(5), testutil.ToFloat64(a.chunksTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.chunksTotal))
}
