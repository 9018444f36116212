package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/camilodvr/censopueblos/internal/dataset"
	"github.com/camilodvr/censopueblos/internal/platform/metrics"
	"github.com/camilodvr/censopueblos/internal/report"
	"github.com/camilodvr/censopueblos/internal/runtime"
	"github.com/camilodvr/censopueblos/internal/service"
	"github.com/camilodvr/censopueblos/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	tbl := &dataset.Table{Rows: []dataset.Record{
		{Department: "META", Municipality: "Puerto López", Key: "META|Puerto López", PeopleCode: "570", PeopleName: "Sikuani", Population: 100},
		{Department: "META", Municipality: "Puerto López", Key: "META|Puerto López", PeopleCode: "571", PeopleName: "Piapoco", Population: 50},
	}}
	path := filepath.Join(t.TempDir(), "base.csv")
	require.NoError(t, store.SaveTable(tbl, path))

	reg := prometheus.NewRegistry()
	h := NewHandler(service.New(path, zerolog.Nop()), zerolog.Nop(), metrics.New(reg))
	ctrl := runtime.NewController(runtime.NewLimits(0))
	return NewRouter(h, ctrl, reg)
}

func TestOptionsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/options", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var opts dataset.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	require.Equal(t, []string{"Piapoco", "Sikuani"}, opts.Peoples)
	require.Equal(t, []string{"META"}, opts.Departments)
}

func TestAggregateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/aggregate?peoples=570&peoples=571", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		TotalPopulation int      `json:"total_population"`
		PeopleCount     int      `json:"people_count"`
		HHI             *float64 `json:"hhi"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, 150, out.TotalPopulation)
	require.Equal(t, 2, out.PeopleCount)
	require.NotNil(t, out.HHI)
	require.InDelta(t, 0.5556, *out.HHI, 1e-4)
}

func TestAggregateEndpoint_EmptySelectionIs404(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/aggregate?departments=AMAZONAS", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "selection contains no rows", body["error"])
}

func TestByPeopleEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/by_people", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var shares []struct {
		PeopleName string  `json:"people_name"`
		Population int     `json:"population"`
		Share      float64 `json:"share"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shares))
	require.Len(t, shares, 2)
	require.Equal(t, "Sikuani", shares[0].PeopleName)
	require.InDelta(t, 100.0/150, shares[0].Share, 1e-12)
}

func TestDownloadReportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download_report?peoples=Sikuani", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, report.MIMEType, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), report.Filename)
	require.NotEmpty(t, rec.Body.Bytes())
}

func TestHealthzEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint_CountsServedRequests(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "censopueblos_requests_total")
}

func TestRequestIDEchoedAndGenerated(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/options", nil)
	req.Header.Set("X-Request-Id", "req-123")
	router.ServeHTTP(rec, req)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/options", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
