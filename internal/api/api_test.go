package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-quake/internal/app"
	"github.com/joeblew999/plat-quake/internal/feed"
	"github.com/joeblew999/plat-quake/internal/observability"
	"github.com/joeblew999/plat-quake/internal/service"
	"github.com/joeblew999/plat-quake/internal/templates"
)

const feedBody = `{"type":"FeatureCollection","features":[
	{"type":"Feature","id":"a","properties":{"mag":3,"place":"Test"},"geometry":{"type":"Point","coordinates":[-118.2,34.1,20]}},
	{"type":"Feature","id":"b","properties":{"mag":5,"place":"Deep"},"geometry":{"type":"Point","coordinates":[-117,36,95]}}
]}`

type testEnv struct {
	mux *http.ServeMux
	app *app.App
}

func newTestEnv(t *testing.T, feedHandler http.HandlerFunc) *testEnv {
	t.Helper()

	upstream := httptest.NewServer(feedHandler)
	t.Cleanup(upstream.Close)

	logger := observability.NopLogger()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	client := feed.NewClient(upstream.URL, 5*time.Second, metrics, logger)

	a := app.New(client, logger, metrics)
	require.NoError(t, app.InitMap(a))
	app.InitLegend(a)

	renderer, err := templates.Default()
	require.NoError(t, err)

	mux := http.NewServeMux()
	cfg := huma.DefaultConfig("plat-quake API", "1.0.0")
	cfg.CreateHooks = []func(huma.Config) huma.Config{}
	cfg.Transformers = append(cfg.Transformers, LinkTransformer())
	humaAPI := humago.New(mux, cfg)
	RegisterRoutes(humaAPI, a, renderer, NewInfoHandler("test", upstream.URL))

	return &testEnv{mux: mux, app: a}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func okFeed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(feedBody))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, okFeed)

	rec := env.get(t, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"1.0.0"}`, rec.Body.String())
	assert.Contains(t, rec.Header().Values("Link"), `</api/v1/map>; rel="map"`)
}

func TestInfo(t *testing.T) {
	env := newTestEnv(t, okFeed)

	rec := env.get(t, "/api/v1/info")
	require.Equal(t, http.StatusOK, rec.Code)

	var body InfoBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "plat-quake", body.Name)
	assert.Equal(t, "test", body.Version)
}

func TestGetMap(t *testing.T) {
	env := newTestEnv(t, okFeed)

	rec := env.get(t, "/api/v1/map")
	require.Equal(t, http.StatusOK, rec.Code)

	var body MapBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5.9, body.View.Zoom)
	require.Len(t, body.Basemaps, 2)
	assert.Equal(t, "default", body.Basemaps[0].ID)
	assert.Equal(t, "default", body.DefaultBasemap)
	require.Len(t, body.Overlays, 1)
	assert.Equal(t, "/api/v1/earthquakes", body.Overlays[0].Source)
}

func TestGetBasemap(t *testing.T) {
	env := newTestEnv(t, okFeed)

	rec := env.get(t, "/api/v1/basemaps/smooth")
	require.Equal(t, http.StatusOK, rec.Code)

	var tl service.TileLayer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tl))
	assert.Equal(t, "Smooth", tl.Name)
	assert.Contains(t, rec.Header().Values("Link"), `</api/v1/basemaps/smooth>; rel="self"`)

	assert.Equal(t, http.StatusNotFound, env.get(t, "/api/v1/basemaps/nope").Code)
}

func TestGetLegend(t *testing.T) {
	env := newTestEnv(t, okFeed)

	rec := env.get(t, "/api/v1/legend")
	require.Equal(t, http.StatusOK, rec.Code)

	var body LegendBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Entries, 6)
	assert.Equal(t, "90+", body.Entries[5].Label)
	assert.Nil(t, body.Entries[5].Upper)
	assert.Contains(t, body.HTML, `<i style="background:green"></i>`)
}

func TestGetStyle(t *testing.T) {
	env := newTestEnv(t, okFeed)

	rec := env.get(t, "/api/v1/style?depth=20&magnitude=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "#cafc03", body["fillColor"])
	assert.Equal(t, 15.0, body["radius"])

	assert.Equal(t, http.StatusUnprocessableEntity, env.get(t, "/api/v1/style?depth=abc&magnitude=1").Code)
}

func TestGetEarthquakes(t *testing.T) {
	env := newTestEnv(t, okFeed)

	rec := env.get(t, "/api/v1/earthquakes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, GeoJSONContentType, rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("X-Feed-Error"))
	assert.Equal(t, "2", rec.Header().Get("X-Feature-Count"))

	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "#cafc03", fc.Features[0].Properties.MustString("fillColor"))
	assert.Equal(t, "red", fc.Features[1].Properties.MustString("fillColor"))
	assert.Equal(t, 25.0, fc.Features[1].Properties.MustFloat64("radius"))

	ev, ok := env.app.Bus.Last()
	require.True(t, ok)
	assert.Equal(t, "rendered", ev.Action)
	assert.Equal(t, 2, ev.Count)
}

func TestGetEarthquakes_FeedFailureRendersEmptyLayer(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	rec := env.get(t, "/api/v1/earthquakes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, GeoJSONContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("X-Feed-Error"), "502")
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, rec.Body.String())

	ev, ok := env.app.Bus.Last()
	require.True(t, ok)
	assert.Equal(t, "failed", ev.Action)
}

func TestEvents_SendsLastStatus(t *testing.T) {
	env := newTestEnv(t, okFeed)
	env.app.Bus.Publish(service.Event{
		Resource: app.EarthquakeOverlayID,
		Action:   "rendered",
		Count:    3,
		Message:  "3 earthquakes",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)
	env.mux.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, StatusSelector)
	assert.Contains(t, body, "3 earthquakes")
	assert.Contains(t, body, "quakeCount")
}
