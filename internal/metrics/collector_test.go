package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewCollectorWith("test", reg, zap.NewNop()), reg
}

func metricNames(t *testing.T, reg *prometheus.Registry) map[string]bool {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	return names
}

func TestRecordHTTPRequest(t *testing.T) {
	c, reg := newTestCollector(t)

	c.RecordHTTPRequest("GET", "/use_cases", 200, 10*time.Millisecond, 512)
	c.RecordHTTPRequest("POST", "/use_cases", 422, 5*time.Millisecond, 128)

	names := metricNames(t, reg)
	assert.True(t, names["test_http_requests_total"])
	assert.True(t, names["test_http_request_duration_seconds"])
	assert.True(t, names["test_http_response_size_bytes"])
}

func TestRecordLLMRequest(t *testing.T) {
	c, reg := newTestCollector(t)

	c.RecordLLMRequest("openai", "gpt-4o-mini", "success", 300*time.Millisecond, 120, 8)

	names := metricNames(t, reg)
	assert.True(t, names["test_llm_requests_total"])
	assert.True(t, names["test_llm_request_duration_seconds"])
	assert.True(t, names["test_llm_tokens_used_total"])
}

func TestRecordConversationAndRouting(t *testing.T) {
	c, reg := newTestCollector(t)

	c.RecordConversation("terminated", 2)
	c.RecordConversation("failed", 20)
	c.RecordRoutingDecision("Scheduler")
	c.RecordRoutingDecision("FINISH")
	c.RecordRoutingFailure()

	names := metricNames(t, reg)
	assert.True(t, names["test_conversations_total"])
	assert.True(t, names["test_conversation_turns"])
	assert.True(t, names["test_routing_decisions_total"])
	assert.True(t, names["test_routing_failures_total"])
}

func TestRecordCacheAndDB(t *testing.T) {
	c, reg := newTestCollector(t)

	c.RecordCacheHit("roster")
	c.RecordCacheMiss("roster")
	c.RecordDBConnections("sqlite", 4)
	c.RecordDBQuery("sqlite", "insert", 2*time.Millisecond)

	names := metricNames(t, reg)
	assert.True(t, names["test_cache_hits_total"])
	assert.True(t, names["test_cache_misses_total"])
	assert.True(t, names["test_db_connections_open"])
	assert.True(t, names["test_db_query_duration_seconds"])
}

func TestStatusCodeBuckets(t *testing.T) {
	assert.Equal(t, "2xx", statusCode(200))
	assert.Equal(t, "2xx", statusCode(204))
	assert.Equal(t, "4xx", statusCode(422))
	assert.Equal(t, "5xx", statusCode(502))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	// two collectors with the same namespace must be able to coexist when
	// each owns its registry
	a := NewCollectorWith("test", prometheus.NewRegistry(), zap.NewNop())
	b := NewCollectorWith("test", prometheus.NewRegistry(), zap.NewNop())
	a.RecordRoutingFailure()
	b.RecordRoutingFailure()
}
