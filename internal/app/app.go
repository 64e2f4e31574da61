// Package app holds the application context: everything the map page needs,
// constructed once at startup and passed to the init functions explicitly.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joeblew999/plat-quake/internal/feed"
	"github.com/joeblew999/plat-quake/internal/legend"
	"github.com/joeblew999/plat-quake/internal/observability"
	"github.com/joeblew999/plat-quake/internal/render"
	"github.com/joeblew999/plat-quake/internal/service"
)

// Overlay and endpoint names shared with the page.
const (
	EarthquakeOverlayID   = "earthquakes"
	EarthquakeOverlayName = "Earthquake Data"
	EarthquakeSource      = "/api/v1/earthquakes"
)

// Fetcher performs one feed fetch.
type Fetcher interface {
	Fetch(ctx context.Context) (*feed.Batch, error)
}

// App is the application context.
type App struct {
	Basemaps *service.BasemapService
	View     service.MapView
	Overlays []service.Overlay
	Legend   legend.Legend
	Bus      *service.EventBus

	Feed    Fetcher
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// New creates an application context. Call InitMap and InitLegend before
// serving.
func New(fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics) *App {
	return &App{
		Basemaps: service.NewBasemapService(),
		Bus:      service.NewEventBus(),
		Feed:     fetcher,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// InitMap configures the basemaps, the initial view and the overlays.
func InitMap(a *App) error {
	for _, tl := range DefaultBasemaps() {
		if _, err := a.Basemaps.Register(tl); err != nil {
			return fmt.Errorf("register basemap: %w", err)
		}
	}
	a.View = service.MapView{Center: [2]float64{37.16, -119.45}, Zoom: 5.9}
	a.Overlays = []service.Overlay{{
		ID:     EarthquakeOverlayID,
		Name:   EarthquakeOverlayName,
		Source: EarthquakeSource,
	}}
	return nil
}

// InitLegend builds the static legend. It runs once and does not depend on
// feed data.
func InitLegend(a *App) {
	a.Legend = legend.Build()
}

// DefaultBasemaps returns the OpenStreetMap and Stadia smooth tile layers.
func DefaultBasemaps() []service.TileLayer {
	return []service.TileLayer{
		{
			ID:          "default",
			Name:        "Default",
			URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		},
		{
			ID:      "smooth",
			Name:    "Smooth",
			URL:     "https://tiles.stadiamaps.com/tiles/alidade_smooth/{z}/{x}/{y}{r}.{ext}",
			MinZoom: 0,
			MaxZoom: 20,
			Ext:     "png",
			Attribution: `&copy; <a href="https://www.stadiamaps.com/" target="_blank">Stadia Maps</a> ` +
				`&copy; <a href="https://openmaptiles.org/" target="_blank">OpenMapTiles</a> ` +
				`&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		},
	}
}

// LoadEarthquakes fetches the feed once and renders the whole batch into a
// fresh layer. The returned layer is never nil: when the fetch fails it is
// empty and the error is returned alongside it, so the map still renders
// without earthquakes.
func LoadEarthquakes(ctx context.Context, a *App) (*render.Collection, error) {
	layer := render.NewCollection(EarthquakeOverlayName)

	batch, err := a.Feed.Fetch(ctx)
	if err != nil {
		a.Logger.Error("earthquake feed fetch failed", "error", err)
		a.Metrics.LastRenderCount.Set(0)
		a.Bus.Publish(service.Event{
			Resource: EarthquakeOverlayID,
			Action:   "failed",
			Message:  err.Error(),
		})
		return layer, err
	}

	for _, f := range batch.Features {
		if verr := f.Validate(); verr != nil {
			a.Metrics.FeatureWarnings.Inc()
			a.Logger.Warn("feature has missing fields", "error", verr)
		}
	}

	n := render.Render(batch.Features, layer)
	a.Metrics.MarkersRendered.Add(float64(n))
	a.Metrics.LastRenderCount.Set(float64(n))

	a.Logger.Info("earthquake layer rendered",
		"markers", n,
		"source", batch.Source,
		"fetched_at", batch.FetchedAt,
		"duration", batch.Duration,
	)
	a.Bus.Publish(service.Event{
		Resource: EarthquakeOverlayID,
		Action:   "rendered",
		Count:    n,
		Message:  fmt.Sprintf("%d earthquakes as of %s", n, batch.FetchedAt.UTC().Format("2006-01-02 15:04 MST")),
	})
	return layer, nil
}
