// Package weights builds spatial weights matrices from point coordinates and
// computes spatially lagged variables over them.
package weights

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidArgument is returned for out-of-range neighbor counts, non-finite
// coordinates, or mismatched vector lengths. Check with eris.Is.
var ErrInvalidArgument = eris.New("weights: invalid argument")

// W is a sparse spatial weights matrix: for each observation, the indices of
// its neighbors and the weight attached to each.
type W struct {
	Neighbors [][]int
	Weights   [][]float64

	standardized bool
}

// N returns the number of observations.
func (w *W) N() int { return len(w.Neighbors) }

// KNN builds a k-nearest-neighbor weights matrix from point coordinates using
// Euclidean distance in the input coordinate units. Each observation gets
// exactly k neighbors with unit weight; distance ties resolve by ascending
// observation index. The relation is not symmetric in general.
//
// The search is brute force, O(n^2 log n); fine for the sample sizes the
// workflows here handle.
func KNN(coords [][2]float64, k int) (*W, error) {
	n := len(coords)
	if n == 0 {
		return nil, eris.Wrap(ErrInvalidArgument, "knn: empty coordinates")
	}
	if k <= 0 || k >= n {
		return nil, eris.Wrapf(ErrInvalidArgument, "knn: k=%d out of range for n=%d", k, n)
	}
	for i, c := range coords {
		if !isFinite(c[0]) || !isFinite(c[1]) {
			return nil, eris.Wrapf(ErrInvalidArgument, "knn: non-finite coordinate at index %d", i)
		}
	}

	w := &W{
		Neighbors: make([][]int, n),
		Weights:   make([][]float64, n),
	}

	type candidate struct {
		index int
		dist  float64
	}
	cands := make([]candidate, 0, n-1)

	for i := range coords {
		cands = cands[:0]
		for j := range coords {
			if j == i {
				continue
			}
			dx := coords[i][0] - coords[j][0]
			dy := coords[i][1] - coords[j][1]
			cands = append(cands, candidate{index: j, dist: dx*dx + dy*dy})
		}
		sort.Slice(cands, func(a, b int) bool {
			if cands[a].dist != cands[b].dist {
				return cands[a].dist < cands[b].dist
			}
			return cands[a].index < cands[b].index
		})

		nbrs := make([]int, k)
		wts := make([]float64, k)
		for m := 0; m < k; m++ {
			nbrs[m] = cands[m].index
			wts[m] = 1
		}
		w.Neighbors[i] = nbrs
		w.Weights[i] = wts
	}

	return w, nil
}

// RowStandardize scales each observation's weights to sum to one, so a
// spatial lag becomes the average over neighbors. Idempotent.
func (w *W) RowStandardize() {
	for i, wts := range w.Weights {
		var sum float64
		for _, v := range wts {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for m := range wts {
			w.Weights[i][m] = wts[m] / sum
		}
	}
	w.standardized = true
}

// Lag returns the spatially lagged variable Wx: for each observation, the
// weighted sum (average, after RowStandardize) of x at its neighbors.
func (w *W) Lag(x []float64) ([]float64, error) {
	if len(x) != w.N() {
		return nil, eris.Wrapf(ErrInvalidArgument, "lag: len(x)=%d, want %d", len(x), w.N())
	}
	out := make([]float64, w.N())
	for i, nbrs := range w.Neighbors {
		var sum float64
		for m, j := range nbrs {
			sum += w.Weights[i][m] * x[j]
		}
		out[i] = sum
	}
	return out, nil
}

// Dense materializes the full n x n weights matrix for linear-algebra
// consumers.
func (w *W) Dense() *mat.Dense {
	n := w.N()
	d := mat.NewDense(n, n, nil)
	for i, nbrs := range w.Neighbors {
		for m, j := range nbrs {
			d.Set(i, j, w.Weights[i][m])
		}
	}
	return d
}

// Stats summarizes the connectivity of a weights matrix.
type Stats struct {
	N               int     `json:"n"`
	MinNeighbors    int     `json:"min_neighbors"`
	MaxNeighbors    int     `json:"max_neighbors"`
	MeanNeighbors   float64 `json:"mean_neighbors"`
	AsymmetricPairs int     `json:"asymmetric_pairs"`
}

// Summary computes connectivity statistics, including the number of ordered
// pairs (i, j) where j neighbors i but not the reverse.
func (w *W) Summary() Stats {
	s := Stats{N: w.N(), MinNeighbors: math.MaxInt}

	inSet := make([]map[int]bool, w.N())
	for i, nbrs := range w.Neighbors {
		inSet[i] = make(map[int]bool, len(nbrs))
		for _, j := range nbrs {
			inSet[i][j] = true
		}
	}

	var total int
	for i, nbrs := range w.Neighbors {
		card := len(nbrs)
		total += card
		if card < s.MinNeighbors {
			s.MinNeighbors = card
		}
		if card > s.MaxNeighbors {
			s.MaxNeighbors = card
		}
		for _, j := range nbrs {
			if !inSet[j][i] {
				s.AsymmetricPairs++
			}
		}
	}
	if s.N > 0 {
		s.MeanNeighbors = float64(total) / float64(s.N)
	} else {
		s.MinNeighbors = 0
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
