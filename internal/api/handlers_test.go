package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goprofile/adapters/csvio"
	"goprofile/app"
	"goprofile/internal/cache"
	"goprofile/internal/config"
	"goprofile/internal/engine"
	"goprofile/internal/sampling"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.Server{Port: "0", Environment: "test"},
		Limits: config.Limits{
			MaxBodyBytes:   50 * 1024 * 1024,
			RateLimit:      1000,
			RateWindow:     time.Minute,
			RequestTimeout: 10 * time.Second,
		},
		Engine: config.Engine{MaxWorkers: 2, ChunkSize: 4, ParallelThreshold: 24, PoolTimeout: 5 * time.Second},
	}

	eng := engine.New(nil, cfg.Engine)
	service := app.NewAnalysisService(csvio.NewReader(), store, eng, sampling.NewService())
	return NewServer(cfg, service)
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, Version, health.Version)
	assert.Equal(t, "test", health.Environment)
	assert.NotEmpty(t, health.RequestID)
	assert.Greater(t, health.Memory.AllocMB, 0.0)
	assert.Equal(t, health.RequestID, rec.Header().Get("X-Request-ID"))
}

func TestProfileEndpoint(t *testing.T) {
	srv := newTestServer(t)

	csv := "x,y\n1,2\n2,4\n3,6\n4,8\n5,10\n"
	rec := postJSON(t, srv.Handler(), "/api/profile", ProfileRequest{CSV: &csv})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.FromCache)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 5, resp.Data.Summary.TotalRows)
	require.Len(t, resp.Data.Correlations.All, 1)
	assert.InDelta(t, 1.0, resp.Data.Correlations.All[0].R, 1e-9)

	// Identical request comes back from the cache
	rec = postJSON(t, srv.Handler(), "/api/profile", ProfileRequest{CSV: &csv})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.FromCache)
}

func TestProfileEndpointMissingCSV(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/profile", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "csv")
	assert.NotEmpty(t, resp.RequestID)
}

func TestProfileEndpointNonStringCSV(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/profile", map[string]interface{}{"csv": 12345})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileEndpointInvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/profile", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileEndpointTooSmall(t *testing.T) {
	srv := newTestServer(t)

	csv := "a,b\n"
	rec := postJSON(t, srv.Handler(), "/api/profile", ProfileRequest{CSV: &csv})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "small")
}

func TestProfileEndpointOptions(t *testing.T) {
	srv := newTestServer(t)

	csv := "x;y\n1;2\n2;4\n3;6\n"
	delimiter := ";"
	rec := postJSON(t, srv.Handler(), "/api/profile", ProfileRequest{
		CSV:     &csv,
		Options: &OptionsPayload{Delimiter: &delimiter},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Summary.TotalColumns)
}

func TestProfileUsageEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "/api/profile", doc["endpoint"])
	assert.Equal(t, "POST", doc["method"])
}

func TestCompareEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/compare", map[string]interface{}{
		"dataset1": []map[string]interface{}{
			{"v": 1, "label": "a"}, {"v": 2, "label": "b"}, {"v": 3, "label": "a"},
		},
		"dataset2": []map[string]interface{}{
			{"v": 10, "label": "a"}, {"v": 20, "label": "c"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CompareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 3, resp.Data.Profile1.Summary.TotalRows)
	assert.Equal(t, 2, resp.Data.Profile2.Summary.TotalRows)
	assert.Equal(t, -1, resp.Data.Comparison.RowCount.Diff)
}

func TestCompareEndpointEmptyDataset(t *testing.T) {
	srv := newTestServer(t)

	rec := postJSON(t, srv.Handler(), "/api/compare", map[string]interface{}{
		"dataset1": []map[string]interface{}{},
		"dataset2": []map[string]interface{}{{"v": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)
	handler := rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client has its own budget
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied-id", rec.Header().Get("X-Request-ID"))

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "caller-supplied-id", health.RequestID)
}

func TestOptionsPayloadResolve(t *testing.T) {
	var nilPayload *OptionsPayload
	opts := nilPayload.Resolve()
	assert.Equal(t, ",", opts.Delimiter)
	assert.True(t, opts.EnableSampling)
	assert.True(t, opts.UseCache)

	sampleSize := 250
	useCache := false
	opts = (&OptionsPayload{SampleSize: &sampleSize, UseCache: &useCache}).Resolve()
	assert.Equal(t, 250, opts.SampleSize)
	assert.False(t, opts.UseCache)
	assert.Equal(t, ",", opts.Delimiter)
}
