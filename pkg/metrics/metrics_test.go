package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe("login", nil)
	m.Observe("login", errors.New("boom"))
	m.Observe("login", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthOperations.WithLabelValues("login", ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthOperations.WithLabelValues("login", ResultFailure)))
}

func TestObserveNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe("login", nil) })
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Observe("register", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `auth_operations_total{operation="register",result="success"} 1`)
}
