package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-quake/internal/app"
	"github.com/joeblew999/plat-quake/internal/feed"
	"github.com/joeblew999/plat-quake/internal/legend"
	"github.com/joeblew999/plat-quake/internal/observability"
	"github.com/joeblew999/plat-quake/internal/server"
	"github.com/joeblew999/plat-quake/internal/templates"
)

const version = "0.1.0"

// Options defines all CLI flags and env vars for the quake server.
// Flags: --host, --port, --feed-url, --feed-timeout, --feed-rpm, --feed-burst, --log-level, --log-format
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_FEED_URL, SERVICE_FEED_TIMEOUT, SERVICE_FEED_RPM, ...
type Options struct {
	Host        string `doc:"Host to bind to" default:"0.0.0.0"`
	Port        int    `doc:"Port to listen on" short:"p" default:"8086"`
	FeedURL     string `doc:"Earthquake GeoJSON feed URL" default:"https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"`
	FeedTimeout int    `doc:"Feed request timeout in seconds" default:"30"`
	FeedRPM     int    `doc:"Maximum upstream feed requests per minute, 0 for unlimited" default:"60"`
	FeedBurst   int    `doc:"Feed requests allowed in a burst" default:"5"`
	LogLevel    string `doc:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat   string `doc:"Log format (json, text)" default:"text"`
}

type runtime struct {
	app      *app.App
	registry *prometheus.Registry
	feed     *feed.Client
}

func newRuntime(opts *Options) (*runtime, error) {
	logger := observability.NewLogger(os.Stderr, opts.LogLevel, opts.LogFormat)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	client := feed.NewClient(opts.FeedURL, time.Duration(opts.FeedTimeout)*time.Second, metrics, logger,
		feed.WithRateLimit(float64(opts.FeedRPM)/60, opts.FeedBurst))

	a := app.New(client, logger, metrics)
	if err := app.InitMap(a); err != nil {
		return nil, err
	}
	app.InitLegend(a)

	return &runtime{app: a, registry: reg, feed: client}, nil
}

func newServer(opts *Options) (*server.Server, *runtime, error) {
	rt, err := newRuntime(opts)
	if err != nil {
		return nil, nil, err
	}
	renderer, err := templates.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("load templates: %w", err)
	}
	srv := server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		Version: version,
		FeedURL: rt.feed.URL(),
	}, rt.app, renderer, rt.registry)
	return srv, rt, nil
}

func marshal(v any, useYAML bool) ([]byte, error) {
	if useYAML {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv, rt, err := newServer(opts)
		if err != nil {
			log.Fatalf("Startup error: %v", err)
		}

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("plat-quake server starting...\n")
			fmt.Printf("  Map:     %s/\n", baseURL)
			fmt.Printf("  Feed:    %s\n", rt.feed.URL())
			fmt.Println()
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Printf("  Metrics: %s/metrics\n", baseURL)
			fmt.Println()

			rt.app.Logger.Info("listening", "addr", addr)
			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
	})

	cli.Root().Use = "quake"
	cli.Root().Short = "Map of recent earthquakes styled by depth and magnitude"
	cli.Root().Version = version

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, _, err := newServer(opts)
			if err != nil {
				fail("Error creating server: %v", err)
			}
			useYAML, _ := cmd.Flags().GetBool("yaml")
			output, err := marshal(srv.OpenAPI(), useYAML)
			if err != nil {
				fail("Error marshaling spec: %v", err)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// legend subcommand: print the depth legend
	legendCmd := &cobra.Command{
		Use:   "legend",
		Short: "Print the depth legend (JSON by default, --yaml for YAML, --html for the map block)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			l := legend.Build()
			if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
				fmt.Println(string(l.HTML()))
				return
			}
			useYAML, _ := cmd.Flags().GetBool("yaml")
			output, err := marshal(l, useYAML)
			if err != nil {
				fail("Error marshaling legend: %v", err)
			}
			fmt.Println(string(output))
		}),
	}
	legendCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	legendCmd.Flags().Bool("html", false, "Output the legend HTML block")
	cli.Root().AddCommand(legendCmd)

	// render subcommand: fetch the feed once and print the styled layer
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch the feed once and print the styled earthquake layer as GeoJSON",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			rt, err := newRuntime(opts)
			if err != nil {
				fail("Error initializing: %v", err)
			}
			layer, err := app.LoadEarthquakes(cmd.Context(), rt.app)
			if err != nil {
				fail("Error loading earthquakes: %v", err)
			}
			output, err := json.MarshalIndent(layer, "", "  ")
			if err != nil {
				fail("Error marshaling layer: %v", err)
			}
			fmt.Println(string(output))
		}),
	}
	cli.Root().AddCommand(renderCmd)

	cli.Run()
}
