package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerLabelsByOperation(t *testing.T) {
	m := New()

	h := m.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetOperation(r.Context(), "supplier-by-id")
		w.WriteHeader(http.StatusTeapot)
	}))

	for range 3 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/supplier/1", nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "supplier-by-id", "418")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestInstrumentHandlerDefaultsToOther(t *testing.T) {
	m := New()

	h := m.InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/elsewhere", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "other", "200")))
}

func TestMetricsPathIsNotCounted(t *testing.T) {
	m := New()

	h := m.InstrumentHandler(m.Handler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, Path, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Equal(t, 0, testutil.CollectAndCount(m.requests))
}

func TestRecordOperation(t *testing.T) {
	m := New()

	m.RecordOperation("list-suppliers", "ok", 2*time.Millisecond)
	m.RecordOperation("list-suppliers", "query", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("list-suppliers", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("list-suppliers", "query")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.queryDuration))
}

func TestSetOperationOutsideRequest(t *testing.T) {
	assert.NotPanics(t, func() {
		SetOperation(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "x")
	})
}
