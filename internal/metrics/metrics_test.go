package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/wilayah/internal/metrics"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.QueriesTotal.WithLabelValues("provinces").Inc()
	m.QueryDuration.WithLabelValues("provinces").Observe(0.002)
	m.ResultsTotal.WithLabelValues("provinces").Add(4)
	m.FetchMisses.WithLabelValues("city").Inc()
	m.StoreEntities.WithLabelValues("village").Set(12)

	n, err := testutil.GatherAndCount(reg,
		"wilayah_queries_total",
		"wilayah_query_duration_seconds",
		"wilayah_results_total",
		"wilayah_fetch_misses_total",
		"wilayah_store_entities",
	)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.ResultsTotal.WithLabelValues("provinces")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.StoreEntities.WithLabelValues("village")))
}

func TestNew_NilRegisterer(t *testing.T) {
	m := metrics.New(nil)
	require.NotNil(t, m)

	m.QueriesTotal.WithLabelValues("cities").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("cities")))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)

	assert.Panics(t, func() { metrics.New(reg) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.QueriesTotal.WithLabelValues("province").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `wilayah_queries_total{op="province"} 1`))
}
