package classify

import "sort"

// gap is a candidate break between consecutive distinct sorted values.
type gap struct {
	index int // index of the lower value in uniq
	width float64
}

// maximumBreakBins selects the k-1 widest gaps between consecutive distinct
// values and returns k upper bounds: the midpoint of each chosen gap plus the
// sample maximum. uniq must be sorted ascending with len(uniq) >= k.
func maximumBreakBins(uniq []float64, k int) []float64 {
	if k == 1 {
		return []float64{uniq[len(uniq)-1]}
	}

	gaps := make([]gap, 0, len(uniq)-1)
	for i := 0; i+1 < len(uniq); i++ {
		gaps = append(gaps, gap{index: i, width: uniq[i+1] - uniq[i]})
	}

	// Widest first; equal widths keep the leftmost gap.
	sort.SliceStable(gaps, func(a, b int) bool {
		if gaps[a].width != gaps[b].width {
			return gaps[a].width > gaps[b].width
		}
		return gaps[a].index < gaps[b].index
	})

	chosen := gaps[:k-1]
	sort.Slice(chosen, func(a, b int) bool { return chosen[a].index < chosen[b].index })

	bins := make([]float64, 0, k)
	for _, g := range chosen {
		bins = append(bins, (uniq[g.index]+uniq[g.index+1])/2)
	}
	bins = append(bins, uniq[len(uniq)-1])
	return bins
}
