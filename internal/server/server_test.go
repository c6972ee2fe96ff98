package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodesic-labs/arealens/internal/config"
	"github.com/geodesic-labs/arealens/internal/model"
	"github.com/geodesic-labs/arealens/internal/store"
	"github.com/geodesic-labs/arealens/internal/synth"
)

func testConfig() *config.Config {
	return &config.Config{
		Synth: synth.Default(),
		Grid: config.GridConfig{
			MinSize:      5,
			MaxSize:      20,
			DefaultSize:  10,
			CompareSizes: []int{5, 10, 20},
		},
		Server: config.ServerConfig{
			Port:           0,
			AllowedOrigins: []string{"*"},
			RateLimit:      0, // unlimited in tests
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	points, err := synth.Generate(cfg.Synth)
	require.NoError(t, err)

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	srv := New(cfg, points, synth.DepartmentStats(points), st)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestDataset(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Count int `json:"count"`
	}
	resp := getJSON(t, ts.URL+"/api/dataset", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, synth.DefaultCount, body.Count)
}

func TestIndicators_French(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Language   string `json:"language"`
		Indicators []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"indicators"`
	}
	resp := getJSON(t, ts.URL+"/api/indicators?lang=fr", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fr", body.Language)
	require.Len(t, body.Indicators, 4)
	assert.Equal(t, "Densité d'Entrepôts", body.Indicators[0].Name)
}

func TestDepartments(t *testing.T) {
	ts := newTestServer(t)

	var depts []model.Department
	resp := getJSON(t, ts.URL+"/api/departments", &depts)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, depts, 8)
}

func TestAggregate_DefaultSize(t *testing.T) {
	ts := newTestServer(t)

	var set model.AggregateSet
	resp := getJSON(t, ts.URL+"/api/aggregate", &set)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, set.Granularity.GridSize)
	assert.Len(t, set.Records, 100)

	total := 0
	for _, r := range set.Records {
		total += r.Count
	}
	assert.Equal(t, synth.DefaultCount, total)
}

func TestAggregate_SizeOutOfBounds(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/aggregate?size=50", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = getJSON(t, ts.URL+"/api/aggregate?size=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAggregate_Zones(t *testing.T) {
	ts := newTestServer(t)

	var set model.AggregateSet
	resp := getJSON(t, ts.URL+"/api/aggregate?zones=departements", &set)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.GranularityZones, set.Granularity.Kind)
}

func TestChoropleth(t *testing.T) {
	ts := newTestServer(t)

	var fc map[string]interface{}
	resp := getJSON(t, ts.URL+"/api/choropleth?size=5&indicator=median_income", &fc)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "FeatureCollection", fc["type"])
	assert.Len(t, fc["features"], 25)
}

func TestChoropleth_BadIndicator(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/choropleth?indicator=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompare_Defaults(t *testing.T) {
	ts := newTestServer(t)

	var res model.ComparisonResult
	resp := getJSON(t, ts.URL+"/api/compare", &res)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, res.Reports, 3)
	assert.Len(t, res.Shifts, 2)
	assert.Equal(t, model.AttrMedianIncome, res.XAttr)
}

func TestCompare_WithZones(t *testing.T) {
	ts := newTestServer(t)

	var res model.ComparisonResult
	resp := getJSON(t, ts.URL+"/api/compare?sizes=5,10&zones=departements", &res)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, res.Reports, 3)
	assert.Equal(t, model.GranularityZones, res.Reports[2].Granularity.Kind)
}

func TestCompare_BadSizes(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/compare?sizes=5,99", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRuns_CreateGetList(t *testing.T) {
	ts := newTestServer(t)

	body := bytes.NewBufferString(`{"sizes":[5,20],"x":"median_income","y":"employees"}`)
	resp, err := http.Post(ts.URL+"/api/runs", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created model.Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, int64(synth.DefaultSeed), created.Params.Seed)

	var fetched model.Run
	getResp := getJSON(t, ts.URL+"/api/runs/"+created.ID, &fetched)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.Equal(t, created.ID, fetched.ID)

	var runs []model.Run
	listResp := getJSON(t, ts.URL+"/api/runs", &runs)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	assert.Len(t, runs, 1)
}

func TestRuns_GetMissing(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/runs/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRuns_NoStore(t *testing.T) {
	cfg := testConfig()
	points, err := synth.Generate(cfg.Synth)
	require.NoError(t, err)

	srv := New(cfg, points, synth.DepartmentStats(points), nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	resp := getJSON(t, ts.URL+"/api/runs", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = 1
	cfg.Server.RateBurst = 1

	points, err := synth.Generate(cfg.Synth)
	require.NoError(t, err)

	srv := New(cfg, points, nil, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	first := getJSON(t, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := getJSON(t, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
