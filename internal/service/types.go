// Package service holds the map control surface: basemaps, the initial view,
// overlays, and the event bus.
package service

// TileLayer is a raster basemap the page can switch between.
type TileLayer struct {
	ID          string `json:"id,omitempty" doc:"Unique basemap identifier" example:"default"`
	Name        string `json:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name in the layer control" example:"Default"`
	URL         string `json:"url" required:"true" doc:"Tile URL template" example:"https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"`
	Attribution string `json:"attribution,omitempty" doc:"Attribution HTML"`
	MinZoom     int    `json:"minZoom,omitempty" minimum:"0" maximum:"22" doc:"Minimum zoom level" example:"0"`
	MaxZoom     int    `json:"maxZoom,omitempty" minimum:"0" maximum:"22" doc:"Maximum zoom level" example:"20"`
	Ext         string `json:"ext,omitempty" doc:"Tile image extension substituted for {ext}" example:"png"`
}

// MapView is the initial center and zoom of the map.
type MapView struct {
	Center [2]float64 `json:"center" doc:"Initial center as [lat, lon]" example:"[37.16,-119.45]"`
	Zoom   float64    `json:"zoom" minimum:"0" maximum:"22" doc:"Initial zoom" example:"5.9"`
}

// Overlay is a toggleable data layer listed in the layer control.
type Overlay struct {
	ID     string `json:"id" doc:"Overlay identifier" example:"earthquakes"`
	Name   string `json:"name" doc:"Display name in the layer control" example:"Earthquake Data"`
	Source string `json:"source" doc:"GeoJSON endpoint the page loads the overlay from" example:"/api/v1/earthquakes"`
}
