// Package legend builds the static depth key shown next to the map.
package legend

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/joeblew999/plat-quake/internal/style"
)

// Entry is one row of the legend.
type Entry struct {
	Lower float64  `json:"lower" doc:"Lower bound of the depth interval in km" example:"10"`
	Upper *float64 `json:"upper,omitempty" doc:"Upper bound in km, absent for the open last interval" example:"30"`
	Color string   `json:"color" doc:"Swatch color (CSS)" example:"#cafc03"`
	Label string   `json:"label" doc:"Display label" example:"10km – 30km"`
}

// Legend is the ordered list of entries, shallowest first.
type Legend []Entry

// Build derives the legend from the style bands. It uses the same thresholds
// as the resolver so the key always matches the markers.
func Build() Legend {
	entries := make(Legend, 0, len(style.Bands))
	for i, b := range style.Bands {
		e := Entry{Lower: b.Lower, Color: b.Color}
		if i+1 < len(style.Bands) {
			upper := style.Bands[i+1].Lower
			e.Upper = &upper
			e.Label = formatKM(b.Lower) + "km – " + formatKM(upper) + "km"
		} else {
			e.Label = formatKM(b.Lower) + "+"
		}
		entries = append(entries, e)
	}
	return entries
}

// HTML renders the legend block: a colored swatch followed by the label,
// one line per entry.
func (l Legend) HTML() template.HTML {
	var b strings.Builder
	for _, e := range l {
		b.WriteString(`<i style="background:`)
		b.WriteString(template.HTMLEscapeString(e.Color))
		b.WriteString(`"></i> `)
		b.WriteString(template.HTMLEscapeString(e.Label))
		b.WriteString("<br>")
	}
	return template.HTML(b.String())
}

func formatKM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
