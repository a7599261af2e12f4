// Package choropleth turns a classification result into map-ready artifacts:
// class colors from named ramps, legend labels, GeoJSON feature properties,
// a self-contained Leaflet HTML page, and an XLSX attribute table.
package choropleth

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrInvalidArgument is returned for unknown palette names and class counts a
// ramp cannot cover. Check with eris.Is.
var ErrInvalidArgument = eris.New("choropleth: invalid argument")

// palettes holds the full ramp per name; Colors subsets them for smaller k.
// Sequential ramps are ColorBrewer 9-class, qualitative ones keep their
// native size.
var palettes = map[string][]string{
	"YlOrRd": {
		"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c",
		"#fc4e2a", "#e31a1c", "#bd0026", "#800026",
	},
	"BuGn": {
		"#f7fcfd", "#e5f5f9", "#ccece6", "#99d8c9", "#66c2a4",
		"#41ae76", "#238b45", "#006d2c", "#00441b",
	},
	"GnBu": {
		"#f7fcf0", "#e0f3db", "#ccebc5", "#a8ddb5", "#7bccc4",
		"#4eb3d3", "#2b8cbe", "#0868ac", "#084081",
	},
	"Purples": {
		"#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8",
		"#807dba", "#6a51a3", "#54278f", "#3f007d",
	},
	"Viridis": {
		"#440154", "#472d7b", "#3b528b", "#2c728e", "#21918c",
		"#28ae80", "#5ec962", "#addc30", "#fde725",
	},
	"Set3": {
		"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3",
		"#fdb462", "#b3de69", "#fccde5", "#d9d9d9", "#bc80bd",
		"#ccebc5", "#ffed6f",
	},
}

// DefaultPalette is used when no palette is configured.
const DefaultPalette = "YlOrRd"

// PaletteNames lists the available ramp names.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	return names
}

// Colors returns k colors from the named ramp, evenly spread across its full
// range so small k keeps the ramp's contrast. Fails for unknown names and for
// k larger than the ramp.
func Colors(name string, k int) ([]string, error) {
	ramp, ok := palettes[name]
	if !ok {
		return nil, eris.Wrapf(ErrInvalidArgument, "unknown palette %q", name)
	}
	if k <= 0 || k > len(ramp) {
		return nil, eris.Wrapf(ErrInvalidArgument,
			"palette %s supports 1-%d classes, got %d", name, len(ramp), k)
	}

	if k == 1 {
		return []string{ramp[len(ramp)/2]}, nil
	}

	out := make([]string, k)
	for i := 0; i < k; i++ {
		pos := float64(i) * float64(len(ramp)-1) / float64(k-1)
		out[i] = ramp[int(math.Round(pos))]
	}
	return out, nil
}
