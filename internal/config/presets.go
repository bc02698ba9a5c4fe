package config

import (
	"sort"
	"strings"
)

// Presets holds classic unit-spacing stencils, keyed by family then name.
var Presets = map[string]map[string]StencilSpec{
	"central": {
		"d1-2": {Name: "central/d1-2", Order: 1, Points: []float64{-1, 0, 1}},
		"d1-4": {Name: "central/d1-4", Order: 1, Points: []float64{-2, -1, 0, 1, 2}},
		"d1-6": {Name: "central/d1-6", Order: 1, Points: []float64{-3, -2, -1, 0, 1, 2, 3}},
		"d2-2": {Name: "central/d2-2", Order: 2, Points: []float64{-1, 0, 1}},
		"d2-4": {Name: "central/d2-4", Order: 2, Points: []float64{-2, -1, 0, 1, 2}},
		"d4-2": {Name: "central/d4-2", Order: 4, Points: []float64{-2, -1, 0, 1, 2}},
	},
	"forward": {
		"d1-1": {Name: "forward/d1-1", Order: 1, Points: []float64{0, 1}},
		"d1-2": {Name: "forward/d1-2", Order: 1, Points: []float64{0, 1, 2}},
		"d2-1": {Name: "forward/d2-1", Order: 2, Points: []float64{0, 1, 2}},
	},
	"backward": {
		"d1-1": {Name: "backward/d1-1", Order: 1, Points: []float64{-1, 0}},
		"d1-2": {Name: "backward/d1-2", Order: 1, Points: []float64{-2, -1, 0}},
		"d2-1": {Name: "backward/d2-1", Order: 2, Points: []float64{-2, -1, 0}},
	},
	"staggered": {
		"d1-2": {Name: "staggered/d1-2", Order: 1, Points: []float64{-0.5, 0.5}},
		"d1-4": {Name: "staggered/d1-4", Order: 1, Points: []float64{-1.5, -0.5, 0.5, 1.5}},
		"i0-4": {Name: "staggered/i0-4", Order: 0, Points: []float64{-1.5, -0.5, 0.5, 1.5}},
	},
}

// GetPreset looks up "family/name". The returned spec owns its points.
func GetPreset(ref string) (StencilSpec, bool) {
	family, name, ok := strings.Cut(ref, "/")
	if !ok {
		return StencilSpec{}, false
	}
	fam, ok := Presets[family]
	if !ok {
		return StencilSpec{}, false
	}
	s, ok := fam[name]
	if !ok {
		return StencilSpec{}, false
	}
	s.Points = append([]float64(nil), s.Points...)
	return s, true
}

// ListPresets returns the sorted preset references of a family, or of all
// families when family is empty.
func ListPresets(family string) []string {
	var refs []string
	for fam, names := range Presets {
		if family != "" && fam != family {
			continue
		}
		for name := range names {
			refs = append(refs, fam+"/"+name)
		}
	}
	sort.Strings(refs)
	return refs
}

func Families() []string {
	out := make([]string, 0, len(Presets))
	for fam := range Presets {
		out = append(out, fam)
	}
	sort.Strings(out)
	return out
}
