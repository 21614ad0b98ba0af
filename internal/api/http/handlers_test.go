package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GalacticDynamics/vector/internal/api/middleware"
	"github.com/GalacticDynamics/vector/internal/codec"
	"github.com/GalacticDynamics/vector/internal/convert"
	"github.com/GalacticDynamics/vector/internal/monitoring"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

func setup(t *testing.T) (*gin.Engine, *monitoring.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	router := gin.New()
	router.Use(middleware.RequestID())
	NewHandlers(convert.New(convert.WithObserver(metrics)), metrics, nil).Register(router)
	return router, metrics
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const cartesian = `{"type": "CartesianPos3D", "components": {
  "x": {"value": [1], "unit": "km"},
  "y": {"value": [2], "unit": "km"},
  "z": {"value": [3], "unit": "km"}}}`

func TestHealth(t *testing.T) {
	router, _ := setup(t)
	w := do(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "warn", body["lossy_policy"])
	assert.Greater(t, body["rules"], 0.0)
}

func TestTypes(t *testing.T) {
	router, _ := setup(t)
	w := do(router, http.MethodGet, "/api/v1/types", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Types []codec.TypeInfo `json:"types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Types)
	assert.Equal(t, "CartesianAcc1D", body.Types[0].ID)
}

func TestConvert(t *testing.T) {
	router, metrics := setup(t)
	w := do(router, http.MethodPost, "/api/v1/convert", `{"target": "SphericalPos", "vector": `+cartesian+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp codec.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SphericalPos", resp.Vector.Type)
	assert.InDelta(t, 3.7416573867739413, resp.Vector.Components["r"].Value[0], 1e-12)
	assert.Empty(t, resp.Warnings)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Conversions.WithLabelValues("position", "direct")))
}

func TestConvertLossyWarning(t *testing.T) {
	router, _ := setup(t)
	w := do(router, http.MethodPost, "/api/v1/convert", `{"target": "CartesianPos1D", "vector": `+cartesian+`}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp codec.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []float64{1}, resp.Vector.Components["x"].Value)
	require.Len(t, resp.Warnings, 1)
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		category string
	}{
		{"malformed", `{"target":`, http.StatusBadRequest, "bad_request"},
		{"unknown target", `{"target": "Nope", "vector": ` + cartesian + `}`, http.StatusBadRequest, "unsupported"},
		{
			"lossy refused",
			`{"target": "RadialPos", "vector": ` + cartesian + `, "context": {"lossy": "error"}}`,
			http.StatusConflict, "lossy",
		},
		{
			"domain",
			`{"target": "CartesianPos3D", "vector": {"type": "RadialPos", "components": {"r": {"value": [-1], "unit": "km"}}}}`,
			http.StatusUnprocessableEntity, "domain",
		},
		{
			"missing position",
			`{"target": "SphericalVel", "vector": {"array": {"value": [1, 2, 3], "unit": "km / s"}}}`,
			http.StatusUnprocessableEntity, "missing_component",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setup(t)
			w := do(router, http.MethodPost, "/api/v1/convert", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.category, resp.Category)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), resp.RequestID)
		})
	}
}

func TestJacobian(t *testing.T) {
	router, metrics := setup(t)
	w := do(router, http.MethodPost, "/api/v1/jacobian",
		`{"from": "CartesianPos3D", "to": "SphericalPos", "position": `+cartesian+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp codec.JacobianResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Matrices, 1)
	assert.Len(t, resp.Matrices[0], 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Jacobians))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(&vecerr.ShapeError{}))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(&vecerr.UnitError{}))
	assert.Equal(t, http.StatusBadRequest, StatusOf(&vecerr.UnsupportedConversionError{}))
	assert.Equal(t, http.StatusConflict, StatusOf(&vecerr.LossyConversionWarning{}))
	assert.Equal(t, http.StatusBadRequest, StatusOf(errors.New("bad document")))
}
