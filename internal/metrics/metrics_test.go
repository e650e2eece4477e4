package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	runsBefore := testutil.ToFloat64(RunsTotal.WithLabelValues(StatusOK))
	featuresBefore := testutil.ToFloat64(FeaturesTotal)

	ObserveRun(StatusOK, 150*time.Millisecond, 8)
	ObserveRun(StatusFatal, time.Millisecond, 0)

	assert.Equal(t, runsBefore+1, testutil.ToFloat64(RunsTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, featuresBefore+8, testutil.ToFloat64(FeaturesTotal))
	assert.GreaterOrEqual(t, testutil.ToFloat64(RunsTotal.WithLabelValues(StatusFatal)), 1.0)
}

func TestObserveLayer(t *testing.T) {
	before := testutil.ToFloat64(LayersTotal.WithLabelValues(LayerSkipped))
	ObserveLayer(LayerSkipped)
	ObserveLayer(LayerSkipped)
	assert.Equal(t, before+2, testutil.ToFloat64(LayersTotal.WithLabelValues(LayerSkipped)))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveLayer(LayerProcessed)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "carproc_layers_total"))
	assert.True(t, strings.Contains(body, "carproc_process_duration_seconds"))
}
