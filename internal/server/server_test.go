package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-quake/internal/app"
	"github.com/joeblew999/plat-quake/internal/feed"
	"github.com/joeblew999/plat-quake/internal/observability"
	"github.com/joeblew999/plat-quake/internal/quake"
	"github.com/joeblew999/plat-quake/internal/templates"
)

type staticFetcher struct{ features []quake.Feature }

func (f staticFetcher) Fetch(context.Context) (*feed.Batch, error) {
	return &feed.Batch{Features: f.features, Source: "test"}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	a := app.New(staticFetcher{features: []quake.Feature{{ID: "a", Magnitude: 2, Depth: 15}}},
		observability.NopLogger(), observability.NewMetrics(reg))
	require.NoError(t, app.InitMap(a))
	app.InitLegend(a)

	renderer, err := templates.Default()
	require.NoError(t, err)

	return New(Config{Host: "localhost", Port: "8086", Version: "test"}, a, renderer, reg)
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRootServesMapPage(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `id="map"`)
	assert.Contains(t, body, `id="quake-status"`)
	assert.Contains(t, body, "L.circleMarker")
	assert.Contains(t, body, `<i style="background:#fc4903"></i> 70km – 90km<br>`)
	assert.Contains(t, body, "Earthquake Data")
	assert.Contains(t, body, "alidade_smooth")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(s, "/nope").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, get(s, "/api/v1/earthquakes").Code)

	rec := get(s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quake_markers_rendered_total 1")
	assert.Contains(t, rec.Body.String(), "quake_last_render_markers 1")
}

func TestOpenAPI(t *testing.T) {
	s := newTestServer(t)

	doc := s.OpenAPI()
	require.NotNil(t, doc.Paths)
	for _, p := range []string{"/health", "/api/v1/info", "/api/v1/map", "/api/v1/basemaps/{id}",
		"/api/v1/legend", "/api/v1/style", "/api/v1/earthquakes", "/api/v1/events"} {
		assert.Contains(t, doc.Paths, p)
	}
}
