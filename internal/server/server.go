// Package server wires the HTTP surface: the Huma API, the map page and the
// Prometheus endpoint.
package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joeblew999/plat-quake/internal/api"
	"github.com/joeblew999/plat-quake/internal/app"
	"github.com/joeblew999/plat-quake/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	Version string
	FeedURL string
}

// Server is the quake HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	app      *app.App
	renderer *templates.Renderer
	gatherer prometheus.Gatherer
}

// New creates a server for an initialized application context. gatherer
// backs /metrics and should be the registry the app's metrics were
// registered with.
func New(cfg Config, a *app.App, renderer *templates.Renderer, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("plat-quake API", cfg.Version)
	humaConfig.Info.Description = "Earthquake map API: map configuration, depth legend, marker styles and the styled USGS earthquake layer."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humago.New(mux, humaConfig),
		app:      a,
		renderer: renderer,
		gatherer: gatherer,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) routes() {
	// Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.app, s.renderer, api.NewInfoHandler(s.config.Version, s.config.FeedURL))

	s.mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("/", s.handleRoot)
}

// pageData is the model of the map page template.
type pageData struct {
	Title     string
	EventsURL string
	Legend    any
	Config    api.MapBody
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		Title:     "Earthquakes, past week",
		EventsURL: "/api/v1/events",
		Legend:    s.app.Legend.HTML(),
		Config:    api.NewMapBody(s.app),
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderToBuffer(&buf, "page", data); err != nil {
		s.app.Logger.Error("render page", "error", err)
		http.Error(w, "render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
