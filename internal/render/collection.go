package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Collection is an in-memory display layer. It is filled once per batch and
// is not safe for concurrent use.
type Collection struct {
	Name    string
	markers []Marker
}

// NewCollection creates an empty layer.
func NewCollection(name string) *Collection {
	return &Collection{Name: name}
}

// Add implements Layer.
func (c *Collection) Add(m Marker) {
	c.markers = append(c.markers, m)
}

// Markers returns the markers in insertion order.
func (c *Collection) Markers() []Marker {
	return c.markers
}

// Len returns the number of markers.
func (c *Collection) Len() int {
	return len(c.markers)
}

// Bound returns the bounding box of all marker positions. An empty layer
// has a zero bound.
func (c *Collection) Bound() orb.Bound {
	if len(c.markers) == 0 {
		return orb.Bound{}
	}
	mp := make(orb.MultiPoint, len(c.markers))
	for i, m := range c.markers {
		mp[i] = m.Position
	}
	return mp.Bound()
}

// FeatureCollection converts the layer to GeoJSON. Each point carries the
// Leaflet path options and popup text as properties so the page can draw it
// without any styling logic of its own.
func (c *Collection) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range c.markers {
		f := geojson.NewFeature(m.Position)
		if m.ID != "" {
			f.ID = m.ID
		}
		f.Properties["mag"] = m.Magnitude
		f.Properties["depth"] = m.Depth
		f.Properties["place"] = m.Place
		f.Properties["popup"] = m.Popup
		f.Properties["fillColor"] = m.Style.FillColor
		f.Properties["color"] = m.Style.StrokeColor
		f.Properties["radius"] = m.Style.Radius
		f.Properties["opacity"] = m.Style.Opacity
		f.Properties["fillOpacity"] = m.Style.FillOpacity
		f.Properties["weight"] = m.Style.StrokeWeight
		f.Properties["stroke"] = m.Style.Stroke
		fc.Append(f)
	}
	if len(c.markers) > 0 {
		fc.BBox = geojson.NewBBox(c.Bound())
	}
	return fc
}

// MarshalJSON encodes the layer as a GeoJSON FeatureCollection.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return c.FeatureCollection().MarshalJSON()
}
