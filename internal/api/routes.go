// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-quake/internal/app"
	"github.com/joeblew999/plat-quake/internal/humastar"
	"github.com/joeblew999/plat-quake/internal/legend"
	"github.com/joeblew999/plat-quake/internal/service"
	"github.com/joeblew999/plat-quake/internal/style"
	"github.com/joeblew999/plat-quake/internal/templates"
)

// GeoJSONContentType is the media type of the earthquake layer.
const GeoJSONContentType = "application/geo+json"

// StatusSelector is the page element the event stream patches.
const StatusSelector = "#quake-status"

// Types

type IDInput struct {
	ID string `path:"id" doc:"Basemap ID" example:"default"`
}

type StyleInput struct {
	Depth     float64 `query:"depth" required:"true" doc:"Hypocenter depth in km" example:"20"`
	Magnitude float64 `query:"magnitude" required:"true" doc:"Event magnitude" example:"3"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// MapBody is everything the page needs to build the map before any
// earthquake data arrives.
type MapBody struct {
	View           service.MapView     `json:"view"`
	DefaultBasemap string              `json:"defaultBasemap" doc:"ID of the basemap shown on load" example:"default"`
	Basemaps       []service.TileLayer `json:"basemaps"`
	Overlays       []service.Overlay   `json:"overlays"`
}

// NewMapBody snapshots the map surface of a.
func NewMapBody(a *app.App) MapBody {
	body := MapBody{
		View:     a.View,
		Basemaps: a.Basemaps.List(),
		Overlays: a.Overlays,
	}
	if tl, ok := a.Basemaps.Default(); ok {
		body.DefaultBasemap = tl.ID
	}
	return body
}

type LegendBody struct {
	Entries legend.Legend `json:"entries" doc:"Depth intervals, shallowest first"`
	HTML    string        `json:"html" doc:"Rendered legend block"`
}

// EarthquakesOutput carries the rendered layer as raw GeoJSON. FeedError is
// set when the feed could not be loaded; the body is then an empty
// FeatureCollection.
type EarthquakesOutput struct {
	ContentType string `header:"Content-Type"`
	FeedError   string `header:"X-Feed-Error" doc:"Reason the feed could not be loaded"`
	Count       int    `header:"X-Feature-Count" doc:"Markers in the layer"`
	Body        []byte
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	app      *app.App
	renderer *templates.Renderer
}

func NewAPIHandler(a *app.App, renderer *templates.Renderer) *APIHandler {
	return &APIHandler{app: a, renderer: renderer}
}

// RegisterRoutes registers every API route on api.
func RegisterRoutes(api huma.API, a *app.App, renderer *templates.Renderer, info *InfoHandler) {
	huma.AutoRegister(api, NewAPIHandler(a, renderer))
	if info != nil {
		info.RegisterRoutes(api)
	}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterMap registers the map configuration routes.
func (h *APIHandler) RegisterMap(api huma.API) {
	huma.Get(api, "/api/v1/map", h.GetMap, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/basemaps", h.GetBasemaps, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/basemaps/{id}", h.GetBasemap, huma.OperationTags("map"))
}

// RegisterLegend registers the legend and style resolver routes.
func (h *APIHandler) RegisterLegend(api huma.API) {
	huma.Get(api, "/api/v1/legend", h.GetLegend, huma.OperationTags("legend"))
	huma.Get(api, "/api/v1/style", h.GetStyle, huma.OperationTags("legend"))
}

// RegisterEarthquakes registers the earthquake layer and its event stream.
func (h *APIHandler) RegisterEarthquakes(api huma.API) {
	huma.Get(api, "/api/v1/earthquakes", h.GetEarthquakes, huma.OperationTags("earthquakes"))
	huma.Get(api, "/api/v1/events", h.Events, huma.OperationTags("earthquakes"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetMap(ctx context.Context, input *struct{}) (*struct{ Body MapBody }, error) {
	return &struct{ Body MapBody }{Body: NewMapBody(h.app)}, nil
}

func (h *APIHandler) GetBasemaps(ctx context.Context, input *struct{}) (*struct{ Body []service.TileLayer }, error) {
	return &struct{ Body []service.TileLayer }{Body: h.app.Basemaps.List()}, nil
}

func (h *APIHandler) GetBasemap(ctx context.Context, input *IDInput) (*struct{ Body service.TileLayer }, error) {
	tl, ok := h.app.Basemaps.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("basemap not found")
	}
	return &struct{ Body service.TileLayer }{Body: tl}, nil
}

func (h *APIHandler) GetLegend(ctx context.Context, input *struct{}) (*struct{ Body LegendBody }, error) {
	return &struct{ Body LegendBody }{Body: LegendBody{
		Entries: h.app.Legend,
		HTML:    string(h.app.Legend.HTML()),
	}}, nil
}

func (h *APIHandler) GetStyle(ctx context.Context, input *StyleInput) (*struct{ Body style.Style }, error) {
	return &struct{ Body style.Style }{Body: style.Resolve(input.Depth, input.Magnitude)}, nil
}

// GetEarthquakes fetches the feed and returns the rendered layer. A failed
// fetch still answers 200 with an empty layer so the page draws the map
// without earthquakes.
func (h *APIHandler) GetEarthquakes(ctx context.Context, input *struct{}) (*EarthquakesOutput, error) {
	layer, ferr := app.LoadEarthquakes(ctx, h.app)

	body, err := json.Marshal(layer)
	if err != nil {
		return nil, huma.Error500InternalServerError("encode earthquake layer", err)
	}

	out := &EarthquakesOutput{
		ContentType: GeoJSONContentType,
		Count:       layer.Len(),
		Body:        body,
	}
	if ferr != nil {
		out.FeedError = strings.Join(strings.Fields(ferr.Error()), " ")
	}
	return out, nil
}

// Events streams render outcomes to the page. The latest known status is
// sent on connect.
func (h *APIHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return humastar.Stream(func(sse humastar.SSE) {
		ch := h.app.Bus.Subscribe()
		defer h.app.Bus.Unsubscribe(ch)

		if ev, ok := h.app.Bus.Last(); ok {
			if err := h.patchStatus(sse, ev); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				if ev.Resource != app.EarthquakeOverlayID {
					continue
				}
				if err := h.patchStatus(sse, ev); err != nil {
					return
				}
			}
		}
	}), nil
}

func (h *APIHandler) patchStatus(sse humastar.SSE, ev service.Event) error {
	html, err := h.renderer.Render("status", ev)
	if err != nil {
		h.app.Logger.Error("render status fragment", "error", err)
		return sse.Error(fmt.Sprintf("render status: %v", err))
	}
	if err := sse.Patch(html, StatusSelector); err != nil {
		return err
	}
	return sse.Signals(map[string]any{
		"quakeCount":  ev.Count,
		"quakeStatus": ev.Action,
	})
}
