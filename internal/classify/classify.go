// Package classify partitions a numeric sample into k ordered classes for
// choropleth color assignment. All schemes are pure functions: they take an
// immutable sample and return a freshly allocated Result, so independent
// calls are safe from multiple goroutines without coordination.
package classify

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidArgument is returned when k is out of range for the sample, the
// sample contains non-finite values, or a scheme cannot produce k
// well-defined classes. Check with eris.Is.
var ErrInvalidArgument = eris.New("classify: invalid argument")

// Scheme identifies a classification scheme.
type Scheme int

// Supported classification schemes.
const (
	Quantiles Scheme = iota
	EqualInterval
	FisherJenks
	MaximumBreaks
	UniqueValues
)

var schemeNames = map[Scheme]string{
	Quantiles:     "quantiles",
	EqualInterval: "equal_interval",
	FisherJenks:   "fisher_jenks",
	MaximumBreaks: "maximum_breaks",
	UniqueValues:  "unique_values",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseScheme converts a scheme name (as used in config and CLI flags) to a
// Scheme value.
func ParseScheme(name string) (Scheme, error) {
	for s, n := range schemeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, eris.Wrapf(ErrInvalidArgument, "unknown scheme %q", name)
}

// AllSchemes lists every scheme that takes a class count, in a stable order.
// UniqueValues is excluded because its class count is data-derived.
func AllSchemes() []Scheme {
	return []Scheme{Quantiles, EqualInterval, FisherJenks, MaximumBreaks}
}

// Result holds a classification of a sample into K ordered classes. It is
// immutable after construction.
type Result struct {
	Scheme Scheme
	K      int

	// Bins are the K upper-bound thresholds, non-decreasing. An observation
	// belongs to the smallest class whose bin is >= its value.
	Bins []float64

	// ClassOf maps each observation, by original index, to its class id.
	ClassOf []int

	// Counts is the number of observations per class.
	Counts []int

	// FitMeasure is the absolute deviation around class means: the sum over
	// classes of sum |value - class mean|. Lower is better; comparable
	// across schemes on the same sample.
	FitMeasure float64

	// GVF is the goodness of variance fit, 1 - within-class SSQ / total SSQ.
	// Higher is better; 1.0 means every class is internally constant.
	GVF float64
}

// Classify dispatches to the scheme's constructor. For UniqueValues the k
// argument is ignored; every other scheme requires 1 <= k as documented on
// its constructor.
func Classify(sample []float64, scheme Scheme, k int) (*Result, error) {
	switch scheme {
	case Quantiles:
		return NewQuantiles(sample, k)
	case EqualInterval:
		return NewEqualInterval(sample, k)
	case FisherJenks:
		return NewFisherJenks(sample, k)
	case MaximumBreaks:
		return NewMaximumBreaks(sample, k)
	case UniqueValues:
		return NewUniqueValues(sample)
	default:
		return nil, eris.Wrapf(ErrInvalidArgument, "unknown scheme %d", int(scheme))
	}
}

// NewQuantiles splits the sorted sample into k groups of as-equal-as-possible
// size. The upper bound of class j is the sorted value at boundary rank
// ceil((j+1)*n/k) - 1. Fails when k <= 0 or k > n.
func NewQuantiles(sample []float64, k int) (*Result, error) {
	if err := validateSample(sample); err != nil {
		return nil, err
	}
	n := len(sample)
	if k <= 0 || k > n {
		return nil, eris.Wrapf(ErrInvalidArgument, "quantiles: k=%d out of range for n=%d", k, n)
	}

	sorted := sortedCopy(sample)
	bins := make([]float64, k)
	for j := 0; j < k; j++ {
		rank := int(math.Ceil(float64(j+1)*float64(n)/float64(k))) - 1
		bins[j] = sorted[rank]
	}

	return newResult(Quantiles, sample, bins)
}

// NewEqualInterval partitions the value range [min, max] into k intervals of
// width (max-min)/k; the upper bound of class j is min + (j+1)*width. When
// max == min the sample degenerates to a single class. Fails when k <= 0.
func NewEqualInterval(sample []float64, k int) (*Result, error) {
	if err := validateSample(sample); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, eris.Wrapf(ErrInvalidArgument, "equal_interval: k=%d must be positive", k)
	}

	lo := floats.Min(sample)
	hi := floats.Max(sample)
	if lo == hi {
		return newResult(EqualInterval, sample, []float64{hi})
	}

	width := (hi - lo) / float64(k)
	bins := make([]float64, k)
	for j := 0; j < k; j++ {
		bins[j] = lo + float64(j+1)*width
	}
	// Rounding in the width multiplication must not push the maximum into a
	// phantom class past the last bin.
	bins[k-1] = hi

	return newResult(EqualInterval, sample, bins)
}

// NewMaximumBreaks places class boundaries in the k-1 widest gaps between
// consecutive distinct sorted values, at the midpoint of each gap. Equal-width
// gaps are resolved in favor of the leftmost (lowest-valued) gaps. Fails when
// k <= 0 or the sample has fewer than k distinct values.
func NewMaximumBreaks(sample []float64, k int) (*Result, error) {
	if err := validateSample(sample); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, eris.Wrapf(ErrInvalidArgument, "maximum_breaks: k=%d must be positive", k)
	}

	uniq := sortedUnique(sample)
	if len(uniq) < k {
		return nil, eris.Wrapf(ErrInvalidArgument,
			"maximum_breaks: sample has %d distinct values, need at least %d", len(uniq), k)
	}

	bins := maximumBreakBins(uniq, k)
	return newResult(MaximumBreaks, sample, bins)
}

// NewUniqueValues assigns one class per distinct value; the class count is
// derived from the data rather than supplied.
func NewUniqueValues(sample []float64) (*Result, error) {
	if err := validateSample(sample); err != nil {
		return nil, err
	}
	bins := sortedUnique(sample)
	return newResult(UniqueValues, sample, bins)
}

// newResult assigns every observation to the smallest class whose bin upper
// bound is >= its value, and computes the fit statistics.
func newResult(scheme Scheme, sample, bins []float64) (*Result, error) {
	k := len(bins)
	r := &Result{
		Scheme:  scheme,
		K:       k,
		Bins:    bins,
		ClassOf: make([]int, len(sample)),
		Counts:  make([]int, k),
	}

	for i, v := range sample {
		c := sort.SearchFloat64s(bins, v)
		if c >= k {
			c = k - 1
		}
		r.ClassOf[i] = c
		r.Counts[c]++
	}

	r.FitMeasure = absoluteDeviationFit(sample, r.ClassOf, k)
	r.GVF = goodnessOfVarianceFit(sample, r.ClassOf, k)
	return r, nil
}

// absoluteDeviationFit is the sum over classes of sum |value - class mean|.
func absoluteDeviationFit(sample []float64, classOf []int, k int) float64 {
	means, counts := classMeans(sample, classOf, k)
	var fit float64
	for i, v := range sample {
		c := classOf[i]
		if counts[c] == 0 {
			continue
		}
		fit += math.Abs(v - means[c])
	}
	return fit
}

// goodnessOfVarianceFit is 1 - within-class SSQ / total SSQ. A sample with
// zero total variance fits perfectly by definition.
func goodnessOfVarianceFit(sample []float64, classOf []int, k int) float64 {
	grand := stat.Mean(sample, nil)
	var tss float64
	for _, v := range sample {
		d := v - grand
		tss += d * d
	}
	if tss == 0 {
		return 1
	}

	means, counts := classMeans(sample, classOf, k)
	var wss float64
	for i, v := range sample {
		c := classOf[i]
		if counts[c] == 0 {
			continue
		}
		d := v - means[c]
		wss += d * d
	}
	return 1 - wss/tss
}

// SSQ returns the within-class sum of squared deviations from class means,
// the objective minimized by Fisher-Jenks.
func (r *Result) SSQ(sample []float64) float64 {
	means, counts := classMeans(sample, r.ClassOf, r.K)
	var wss float64
	for i, v := range sample {
		c := r.ClassOf[i]
		if counts[c] == 0 {
			continue
		}
		d := v - means[c]
		wss += d * d
	}
	return wss
}

func classMeans(sample []float64, classOf []int, k int) (means []float64, counts []int) {
	means = make([]float64, k)
	counts = make([]int, k)
	for i, v := range sample {
		c := classOf[i]
		means[c] += v
		counts[c]++
	}
	for c := range means {
		if counts[c] > 0 {
			means[c] /= float64(counts[c])
		}
	}
	return means, counts
}

// validateSample rejects empty samples and non-finite values.
func validateSample(sample []float64) error {
	if len(sample) == 0 {
		return eris.Wrap(ErrInvalidArgument, "empty sample")
	}
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return eris.Wrapf(ErrInvalidArgument, "non-finite value %v at index %d", v, i)
		}
	}
	return nil
}

func sortedCopy(sample []float64) []float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	return sorted
}

// sortedUnique returns the distinct sample values in ascending order.
func sortedUnique(sample []float64) []float64 {
	sorted := sortedCopy(sample)
	uniq := sorted[:1]
	for _, v := range sorted[1:] {
		if v != uniq[len(uniq)-1] {
			uniq = append(uniq, v)
		}
	}
	out := make([]float64, len(uniq))
	copy(out, uniq)
	return out
}
