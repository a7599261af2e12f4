package classify

import "github.com/rotisserie/eris"

// NewFisherJenks computes the globally optimal partition of the sample into k
// classes minimizing the within-class sum of squared deviations from class
// means (Jenks natural breaks), using the standard two-matrix dynamic program.
//
// Cost is O(n^2 * k) time and O(n * k) space, which gets noticeable past a few
// tens of thousands of observations; prefer quantiles for very large samples.
// Ties between equally optimal partitions resolve to the smallest split index,
// so results are deterministic on repeated values. Fails when k <= 0 or k > n.
func NewFisherJenks(sample []float64, k int) (*Result, error) {
	if err := validateSample(sample); err != nil {
		return nil, err
	}
	n := len(sample)
	if k <= 0 || k > n {
		return nil, eris.Wrapf(ErrInvalidArgument, "fisher_jenks: k=%d out of range for n=%d", k, n)
	}

	sorted := sortedCopy(sample)

	// Prefix sums of x and x^2 let ssq(lo, hi) evaluate in O(1).
	sum := make([]float64, n+1)
	sumSq := make([]float64, n+1)
	for i, v := range sorted {
		sum[i+1] = sum[i] + v
		sumSq[i+1] = sumSq[i] + v*v
	}
	ssq := func(lo, hi int) float64 { // inclusive sorted indices
		cnt := float64(hi - lo + 1)
		s := sum[hi+1] - sum[lo]
		s2 := sumSq[hi+1] - sumSq[lo]
		return s2 - s*s/cnt
	}

	// cost[c][i]: minimal within-class SSQ partitioning sorted[0..i] into c+1
	// classes. split[c][i]: first index of the last class in that optimum.
	cost := make([][]float64, k)
	split := make([][]int, k)
	for c := range cost {
		cost[c] = make([]float64, n)
		split[c] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		cost[0][i] = ssq(0, i)
	}
	for c := 1; c < k; c++ {
		for i := c; i < n; i++ {
			best := -1.0
			bestSplit := c
			for m := c; m <= i; m++ {
				v := cost[c-1][m-1] + ssq(m, i)
				if best < 0 || v < best {
					best = v
					bestSplit = m
				}
			}
			cost[c][i] = best
			split[c][i] = bestSplit
		}
	}

	// Backtrack: bin c's upper bound is the last sorted value in class c.
	bins := make([]float64, k)
	hi := n - 1
	for c := k - 1; c >= 0; c-- {
		bins[c] = sorted[hi]
		if c > 0 {
			hi = split[c][hi] - 1
		}
	}

	return newResult(FisherJenks, sample, bins)
}
