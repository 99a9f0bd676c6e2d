package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWakeRequestsTotal_ByOutcome(t *testing.T) {
	before := testutil.ToFloat64(WakeRequestsTotal.WithLabelValues(OutcomeUnauthorized))

	WakeRequestsTotal.WithLabelValues(OutcomeUnauthorized).Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(WakeRequestsTotal.WithLabelValues(OutcomeUnauthorized)))
}

func TestHandler_ExposesCounters(t *testing.T) {
	MagicPacketsSentTotal.Inc()
	WakeRequestsTotal.WithLabelValues(OutcomeSuccess).Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "wakegate_magic_packets_sent_total")
	assert.Contains(t, string(body), `wakegate_wake_requests_total{outcome="success"}`)
	assert.Contains(t, string(body), "wakegate_transmission_errors_total")
}
