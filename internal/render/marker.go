// Package render turns earthquake features into styled map markers.
package render

import (
	"fmt"
	"html"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-quake/internal/quake"
	"github.com/joeblew999/plat-quake/internal/style"
)

// Marker describes one circle marker: where it goes, how it looks, and the
// popup bound to it.
type Marker struct {
	ID       string
	Position orb.Point
	Style    style.Style
	Popup    string

	// Source values, kept for the GeoJSON properties.
	Magnitude float64
	Depth     float64
	Place     string
}

// Layer is the display layer markers are appended to.
type Layer interface {
	Add(m Marker)
}

// MarkerFor builds the marker for a single feature.
func MarkerFor(f quake.Feature) Marker {
	return Marker{
		ID:        f.ID,
		Position:  f.Point,
		Style:     style.Resolve(f.Depth, f.Magnitude),
		Popup:     PopupText(f),
		Magnitude: f.Magnitude,
		Depth:     f.Depth,
		Place:     f.Place,
	}
}

// PopupText formats the three-line popup: magnitude, depth, place.
// Values the feed did not supply are left empty.
func PopupText(f quake.Feature) string {
	mag, depth := "", ""
	if f.Has(quake.FieldMagnitude) {
		mag = formatNumber(f.Magnitude)
	}
	if f.Has(quake.FieldDepth) {
		depth = formatNumber(f.Depth)
	}
	return fmt.Sprintf("Magnitude: <b>%s</b><br>Depth: <b>%s</b><br>Location: <b>%s</b>",
		mag, depth, html.EscapeString(f.Place))
}

// Render appends one marker per feature to layer, in input order, and
// returns the number of markers added.
func Render(features []quake.Feature, layer Layer) int {
	for _, f := range features {
		layer.Add(MarkerFor(f))
	}
	return len(features)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
