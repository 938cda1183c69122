package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siteselect/internal/cache"
	"github.com/sells-group/siteselect/internal/catalog"
	"github.com/sells-group/siteselect/internal/catchment"
	"github.com/sells-group/siteselect/internal/config"
	"github.com/sells-group/siteselect/internal/engine"
	"github.com/sells-group/siteselect/internal/recommend"
	"github.com/sells-group/siteselect/internal/refdata"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	uniform := func(v float64) map[catalog.Criterion]float64 {
		criteria := make(map[catalog.Criterion]float64)
		for _, c := range catalog.Criteria() {
			criteria[c] = v
		}
		return criteria
	}

	areas := []refdata.Area{
		{Name: "Harbor", Lat: 40.70, Lng: -74.00, Criteria: uniform(70)},
		{Name: "Uptown", Lat: 40.85, Lng: -73.93, Criteria: uniform(55)},
	}
	var pois []refdata.POI
	for i := 0; i < 5; i++ {
		pois = append(pois, refdata.POI{
			Name: "harbor cafe", Super: catalog.CategoryFood,
			Lat: 40.70 + float64(i)*0.0002, Lng: -74.00,
		})
	}

	eng := engine.New(
		catalog.Default(),
		refdata.NewMemorySource(areas, pois),
		catchment.NewResolver(nil, 0),
		cache.NewTiers(cache.TiersConfig{}),
		recommend.Options{},
	)
	return newRouter(eng, config.ClusterConfig{EpsKM: 0.5, MinSamples: 3})
}

func TestServeHealth(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeRecommendLocations(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/recommend/locations?category=Food+%26+Beverages&radius_km=1.0", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SuperCategory   string           `json:"super_category"`
		Recommendations []map[string]any `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Food & Beverages", body.SuperCategory)
	assert.NotEmpty(t, body.Recommendations)
}

func TestServeRecommendValidation(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/recommend/locations?category=Nightlife", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/recommend/locations?category=Food+%26+Beverages&radius_km=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeAreaOpportunities(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/areas/harbor/opportunities", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Area      string `json:"area"`
		TotalPOIs int    `json:"total_pois"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Harbor", body.Area)
	assert.Equal(t, 5, body.TotalPOIs)
}

func TestServeAreaNotFound(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/areas/atlantis/opportunities", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeAreaEmptyResult(t *testing.T) {
	router := testRouter(t)

	// Uptown exists but has no POIs nearby.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/areas/uptown/opportunities", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServeClusters(t *testing.T) {
	router := testRouter(t)

	payload := map[string]any{
		"points": []map[string]float64{
			{"lat": 40.7000, "lon": -74.00},
			{"lat": 40.7005, "lon": -74.00},
			{"lat": 40.7010, "lon": -74.00},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze/clusters", bytes.NewReader(raw)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Clusters []struct {
			Count int `json:"count"`
		} `json:"clusters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Clusters, 1)
	assert.Equal(t, 3, body.Clusters[0].Count)
}

func TestServeClustersBadBody(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze/clusters",
		bytes.NewReader([]byte("not json"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeCompetitorClusters(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/competitors/clusters?category=Food+%26+Beverages&lat=40.70&lng=-74.00&radius_km=1.0", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Clusters []struct {
			Count int `json:"count"`
		} `json:"clusters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Clusters, 1)
	assert.Equal(t, 5, body.Clusters[0].Count)
}

func TestServeCompetitorClustersValidation(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/competitors/clusters?category=Food+%26+Beverages&lat=abc&lng=-74.00", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeCacheStats(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cache/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 4)
	assert.Contains(t, body, "viewport")
}
