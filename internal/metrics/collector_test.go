package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollector_RecordRequest(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry(), zap.NewNop())

	c.RecordRequest("get", "/pet/{petId}", 200, 10*time.Millisecond)
	c.RecordRequest("get", "/pet/{petId}", 200, 20*time.Millisecond)
	c.RecordRequest("get", "/pet/{petId}", 404, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("get", "/pet/{petId}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("get", "/pet/{petId}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.requestDuration))
}

func TestCollector_TransportErrorsAndDowngrades(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry(), zap.NewNop())

	c.RecordTransportError("post", "/pet", time.Millisecond)
	c.RecordTLSDowngrade("localhost:8443")
	c.RecordTLSDowngrade("localhost:8443")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.transportErrors.WithLabelValues("post", "/pet")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.tlsDowngrades.WithLabelValues("localhost:8443")))
}

func TestCollector_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, nil)
	c.RecordTLSDowngrade("example.com")

	expected := `
# HELP swagger_tls_downgrades_total Total number of retries sent with TLS certificate verification disabled
# TYPE swagger_tls_downgrades_total counter
swagger_tls_downgrades_total{host="example.com"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "swagger_tls_downgrades_total"))
}

func TestCollector_SeparateRegistries(t *testing.T) {
	// Two collectors on private registries must not collide.
	assert.NotPanics(t, func() {
		NewCollector(nil, nil)
		NewCollector(nil, nil)
	})
}
