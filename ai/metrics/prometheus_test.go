package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordIntentAndContextual(t *testing.T) {
	e := NewExporter(DefaultConfig())

	e.RecordIntent("summary_request")
	e.RecordIntent("summary_request")
	e.RecordIntent("new_research")
	e.RecordContextualResponse()

	assert.Equal(t, 2.0, testutil.ToFloat64(e.intentDetected.WithLabelValues("summary_request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.intentDetected.WithLabelValues("new_research")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.contextualHits))
}

func TestRecordResearchRun(t *testing.T) {
	e := NewExporter(DefaultConfig())

	e.RecordResearchRun(3*time.Second, true)
	e.RecordResearchRun(time.Second, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.researchRuns.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.researchRuns.WithLabelValues("error")))
	// Failed runs are kept out of the latency histogram.
	assert.Equal(t, uint64(1), histogramSamples(t, e, "scholard_research_duration_seconds"))
}

func TestRecordSourceMetrics(t *testing.T) {
	e := NewExporter(DefaultConfig())

	e.RecordSourceResults("arxiv", 5)
	e.RecordSourceResults("arxiv", 3)
	e.RecordSourceError("semantic_scholar")

	assert.Equal(t, 8.0, testutil.ToFloat64(e.sourceResults.WithLabelValues("arxiv")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.sourceErrors.WithLabelValues("semantic_scholar")))
}

func TestRecordLLMUsage(t *testing.T) {
	e := NewExporter(DefaultConfig())

	e.RecordLLMUsage(120, 45, 2*time.Second)
	e.RecordLLMUsage(80, 20, time.Second)

	assert.Equal(t, 200.0, testutil.ToFloat64(e.llmTokens.WithLabelValues("prompt")))
	assert.Equal(t, 65.0, testutil.ToFloat64(e.llmTokens.WithLabelValues("completion")))
	assert.Equal(t, uint64(2), histogramSamples(t, e, "scholard_llm_latency_seconds"))
}

// histogramSamples returns the observation count of a histogram family.
func histogramSamples(t *testing.T, e *Exporter, name string) uint64 {
	t.Helper()
	families, err := e.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			require.Len(t, f.GetMetric(), 1)
			return f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("metric family %s not found", name)
	return 0
}

func TestHandlerServesRecordedFamilies(t *testing.T) {
	e := NewExporter(DefaultConfig())
	e.RecordIntent("methodology_request")
	e.RecordLLMUsage(10, 5, 100*time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	e.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `scholard_routing_intent_total{intent="methodology_request"} 1`)
	assert.Contains(t, body, `scholard_llm_tokens_total{token_type="prompt"} 10`)
}
