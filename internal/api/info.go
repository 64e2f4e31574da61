package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type InfoHandler struct {
	version string
	feedURL string
}

func NewInfoHandler(version, feedURL string) *InfoHandler {
	return &InfoHandler{version: version, feedURL: feedURL}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	FeedURL  string   `json:"feed_url" doc:"Earthquake GeoJSON feed"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "plat-quake",
		Version:  h.version,
		FeedURL:  h.feedURL,
		Features: []string{"geojson", "legend", "style", "sse", "metrics"},
	}}, nil
}
