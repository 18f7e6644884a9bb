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

func TestObserveAction(t *testing.T) {
	before := testutil.ToFloat64(actionRequests.WithLabelValues("get_movie", "success"))
	ObserveAction("get_movie", true, 3*time.Millisecond)
	ObserveAction("get_movie", false, 0)

	assert.Equal(t, before+1, testutil.ToFloat64(actionRequests.WithLabelValues("get_movie", "success")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(actionRequests.WithLabelValues("get_movie", "failure")), 1.0)
}

func TestCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))
	CacheLookup(true)
	CacheLookup(false)
	CacheLookup(false)
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RequestStarted()
	RequestFinished(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	RateLimited()
	EventPublished(true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, name := range []string{
		"mbs_http_requests_total",
		"mbs_http_inflight_requests",
		"mbs_ratelimit_rejected_total",
		"mbs_events_published_total",
	} {
		assert.Contains(t, body, name)
	}
}
