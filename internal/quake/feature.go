// Package quake defines the earthquake record read from the GeoJSON feed.
package quake

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/tidwall/gjson"
)

// GeoJSON paths read from each feed feature.
const (
	FieldMagnitude = "properties.mag"
	FieldPlace     = "properties.place"
	FieldTime      = "properties.time"
	FieldURL       = "properties.url"
	FieldLongitude = "geometry.coordinates.0"
	FieldLatitude  = "geometry.coordinates.1"
	FieldDepth     = "geometry.coordinates.2"
)

// Feature is one earthquake event. It is read-only input: nothing in this
// module mutates a Feature after decoding.
type Feature struct {
	ID        string
	Magnitude float64
	Depth     float64 // km, may be negative
	Place     string
	Point     orb.Point // lon, lat
	Time      time.Time
	URL       string

	missing []string
}

// Has reports whether the feed supplied the field at path.
func (f Feature) Has(path string) bool {
	for _, m := range f.missing {
		if m == path {
			return false
		}
	}
	return true
}

// Missing returns the paths of required fields absent from the feed.
func (f Feature) Missing() []string {
	return append([]string(nil), f.missing...)
}

// Validate reports missing required fields as a *FieldError. Callers use it
// for diagnostics only; a feature that fails validation is still rendered.
func (f Feature) Validate() error {
	if len(f.missing) == 0 {
		return nil
	}
	return &FieldError{ID: f.ID, Fields: f.Missing()}
}

// FieldError lists required fields missing from a feature.
type FieldError struct {
	ID     string
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("feature %q missing %s", e.ID, strings.Join(e.Fields, ", "))
}

// DecodeError is returned when a document is not a GeoJSON FeatureCollection.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode feature collection: " + e.Reason
}

// DecodeCollection decodes every feature of a GeoJSON FeatureCollection.
// Only a malformed document is an error. Missing per-feature values decode
// to zero values and are recorded so Has and Validate can report them.
func DecodeCollection(body []byte) ([]Feature, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Reason: "invalid JSON"}
	}
	doc := gjson.ParseBytes(body)
	if t := doc.Get("type").String(); t != "FeatureCollection" {
		return nil, &DecodeError{Reason: fmt.Sprintf("unexpected type %q", t)}
	}

	raw := doc.Get("features")
	if !raw.IsArray() {
		return nil, &DecodeError{Reason: "features is not an array"}
	}

	features := make([]Feature, 0, int(doc.Get("features.#").Int()))
	raw.ForEach(func(_, value gjson.Result) bool {
		features = append(features, decodeFeature(value))
		return true
	})
	return features, nil
}

func decodeFeature(v gjson.Result) Feature {
	f := Feature{ID: v.Get("id").String()}

	if r := v.Get(FieldMagnitude); isNumber(r) {
		f.Magnitude = r.Float()
	} else {
		f.missing = append(f.missing, FieldMagnitude)
	}
	if r := v.Get(FieldDepth); isNumber(r) {
		f.Depth = r.Float()
	} else {
		f.missing = append(f.missing, FieldDepth)
	}
	if r := v.Get(FieldPlace); r.Exists() && r.Type != gjson.Null {
		f.Place = r.String()
	} else {
		f.missing = append(f.missing, FieldPlace)
	}

	f.Point = orb.Point{v.Get(FieldLongitude).Float(), v.Get(FieldLatitude).Float()}
	if ms := v.Get(FieldTime); isNumber(ms) {
		f.Time = time.UnixMilli(ms.Int()).UTC()
	}
	f.URL = v.Get(FieldURL).String()

	return f
}

func isNumber(r gjson.Result) bool {
	return r.Type == gjson.Number
}
