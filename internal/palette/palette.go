// Package palette defines the eight selectable color families of the site
// and validates visitor selections before they reach the generators. The
// filter table mirrors the HSV ranges the generation scripts apply to the
// printer gamut, so a selection that passes here always maps to a non-empty
// family downstream.
package palette

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Filter is one selectable color family, expressed as HSV acceptance ranges.
// Hue bounds are in degrees [0,360); saturation and value in [0,1].
type Filter struct {
	Name      string
	HueRanges [][2]float64
	SatMin    float64
	SatMax    float64
	ValMin    float64
	ValMax    float64
}

// Filters lists every selectable family. Order matters: it is the priority
// order used when classifying a sample, chosen so that desaturated and dark
// samples land in gris/marron before the chromatic families claim them.
var Filters = []Filter{
	{Name: "gris", HueRanges: [][2]float64{{0, 360}}, SatMin: 0.0, SatMax: 0.18, ValMin: 0.08, ValMax: 0.92},
	{Name: "marron", HueRanges: [][2]float64{{0, 32.4}}, SatMin: 0.20, SatMax: 0.65, ValMin: 0.12, ValMax: 0.48},
	{Name: "rouge", HueRanges: [][2]float64{{342, 360}, {0, 7.2}}, SatMin: 0.22, SatMax: 1.0, ValMin: 0.12, ValMax: 1.0},
	{Name: "orange", HueRanges: [][2]float64{{7.2, 43.2}}, SatMin: 0.25, SatMax: 1.0, ValMin: 0.48, ValMax: 1.0},
	{Name: "jaune", HueRanges: [][2]float64{{43.2, 64.8}}, SatMin: 0.18, SatMax: 1.0, ValMin: 0.20, ValMax: 1.0},
	{Name: "vert", HueRanges: [][2]float64{{64.8, 180}}, SatMin: 0.12, SatMax: 1.0, ValMin: 0.08, ValMax: 1.0},
	{Name: "bleu", HueRanges: [][2]float64{{180, 259.2}}, SatMin: 0.12, SatMax: 1.0, ValMin: 0.08, ValMax: 1.0},
	{Name: "violet", HueRanges: [][2]float64{{259.2, 342}}, SatMin: 0.12, SatMax: 1.0, ValMin: 0.08, ValMax: 1.0},
}

// MaxSelection is the most families one composition can combine.
const MaxSelection = 8

var byName = func() map[string]*Filter {
	m := make(map[string]*Filter, len(Filters))
	for i := range Filters {
		m[Filters[i].Name] = &Filters[i]
	}
	return m
}()

// Names returns the selectable family names in priority order.
func Names() []string {
	names := make([]string, len(Filters))
	for i, f := range Filters {
		names[i] = f.Name
	}
	return names
}

// Known reports whether name is a selectable family.
func Known(name string) bool {
	_, ok := byName[name]
	return ok
}

// Validate checks a visitor selection: 1 to MaxSelection families, all
// known, no duplicates.
func Validate(selection []string) error {
	if len(selection) == 0 {
		return fmt.Errorf("selection is empty")
	}
	if len(selection) > MaxSelection {
		return fmt.Errorf("selection has %d colors, maximum is %d", len(selection), MaxSelection)
	}
	seen := make(map[string]bool, len(selection))
	for _, name := range selection {
		if !Known(name) {
			return fmt.Errorf("unknown color %q (choices: %v)", name, Names())
		}
		if seen[name] {
			return fmt.Errorf("color %q selected twice", name)
		}
		seen[name] = true
	}
	return nil
}

// Matches reports whether an HSV sample falls inside the filter's ranges.
func (f *Filter) Matches(h, s, v float64) bool {
	if s < f.SatMin || s > f.SatMax || v < f.ValMin || v > f.ValMax {
		return false
	}
	for _, r := range f.HueRanges {
		if h >= r[0] && h <= r[1] {
			return true
		}
	}
	return false
}

// Classify assigns an RGB sample to the first matching family in priority
// order, returning "" when no family claims it (out-of-gamut for the site).
func Classify(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	h, s, v := cf.Hsv()
	for i := range Filters {
		if Filters[i].Matches(h, s, v) {
			return Filters[i].Name
		}
	}
	return ""
}
