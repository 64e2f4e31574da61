// Package style resolves the visual style of an earthquake marker from its
// depth and magnitude.
package style

// Depth colors, shallowest to deepest.
const (
	ColorShallow   = "green"
	ColorMidLow    = "#cafc03"
	ColorMid       = "#fcad03"
	ColorMidHigh   = "#fc8403"
	ColorDeep      = "#fc4903"
	ColorDeepest   = "red"
	ColorStroke    = "#000000"
	DefaultOpacity = 0.5
	DefaultWeight  = 0.5

	// MinRadius is used for zero-magnitude events so they stay visible.
	MinRadius = 1.0
	// RadiusScale multiplies magnitude into a marker radius in pixels.
	RadiusScale = 5.0
)

// Band pairs the lower bound of a depth interval (km) with its color.
// A depth belongs to a band when it is strictly greater than the band's lower
// bound and not greater than the next band's lower bound.
type Band struct {
	Lower float64 `json:"lower" doc:"Lower bound of the depth interval in km" example:"30"`
	Color string  `json:"color" doc:"Fill color (CSS)" example:"#fcad03"`
}

// Bands is the fixed depth table, ascending. The first lower bound is only a
// display value for the legend: every depth at or below the second bound maps
// to the first band, including negative depths.
var Bands = [...]Band{
	{Lower: -10, Color: ColorShallow},
	{Lower: 10, Color: ColorMidLow},
	{Lower: 30, Color: ColorMid},
	{Lower: 50, Color: ColorMidHigh},
	{Lower: 70, Color: ColorDeep},
	{Lower: 90, Color: ColorDeepest},
}

// Style is the derived display style of one marker. It is recomputed for
// every render and never cached.
type Style struct {
	FillColor    string  `json:"fillColor" doc:"Fill color (CSS)" example:"#cafc03"`
	StrokeColor  string  `json:"color" doc:"Stroke color (CSS)" example:"#000000"`
	Radius       float64 `json:"radius" doc:"Marker radius in pixels" example:"15"`
	Opacity      float64 `json:"opacity" doc:"Stroke opacity (0-1)" example:"0.5"`
	FillOpacity  float64 `json:"fillOpacity" doc:"Fill opacity (0-1)" example:"0.5"`
	StrokeWeight float64 `json:"weight" doc:"Stroke width in pixels" example:"0.5"`
	Stroke       bool    `json:"stroke" doc:"Whether the stroke is drawn" example:"true"`
}

// ColorForDepth returns the color of the band depth falls into.
func ColorForDepth(depth float64) string {
	for i := len(Bands) - 1; i > 0; i-- {
		if depth > Bands[i].Lower {
			return Bands[i].Color
		}
	}
	return Bands[0].Color
}

// RadiusForMagnitude returns the marker radius for a magnitude.
//
// Negative magnitudes are not clamped and produce a negative radius.
func RadiusForMagnitude(mag float64) float64 {
	if mag == 0 {
		return MinRadius
	}
	return mag * RadiusScale
}

// Resolve computes the full marker style for a depth and magnitude.
func Resolve(depth, mag float64) Style {
	return Style{
		FillColor:    ColorForDepth(depth),
		StrokeColor:  ColorStroke,
		Radius:       RadiusForMagnitude(mag),
		Opacity:      DefaultOpacity,
		FillOpacity:  DefaultOpacity,
		StrokeWeight: DefaultWeight,
		Stroke:       true,
	}
}
