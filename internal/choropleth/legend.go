package choropleth

import (
	"fmt"
	"math"

	"github.com/sells-group/geostat-cli/internal/classify"
)

// Legend renders one interval label per class: the first class covers
// [min, bins[0]] and each later class (bins[j-1], bins[j]]. For unique-value
// classifications every class is a single value.
func Legend(r *classify.Result, sampleMin float64) []string {
	labels := make([]string, r.K)

	if r.Scheme == classify.UniqueValues {
		for j, b := range r.Bins {
			labels[j] = trim(b)
		}
		return labels
	}

	lo := sampleMin
	for j, b := range r.Bins {
		if j == 0 {
			labels[j] = fmt.Sprintf("[%s, %s]", trim(lo), trim(b))
		} else {
			labels[j] = fmt.Sprintf("(%s, %s]", trim(lo), trim(b))
		}
		lo = b
	}
	return labels
}

// trim formats a bound compactly, dropping noise digits.
func trim(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4g", v)
}

// FeatureProperties merges the classification into per-record GeoJSON
// properties: the raw value, class id, class color, and legend label.
func FeatureProperties(field string, values []float64, r *classify.Result, colors, labels []string) []map[string]any {
	props := make([]map[string]any, len(values))
	for i, v := range values {
		c := r.ClassOf[i]
		props[i] = map[string]any{
			field:    v,
			"class":  c,
			"color":  colors[c],
			"legend": labels[c],
		}
	}
	return props
}
