package montecarlo

import "math"

// emaDecay controls how quickly AdaptiveSampler's importance weights
// track newly observed contributions; higher decay means slower
// adaptation.
const emaDecay = 0.9

// AdaptiveSampler tracks an exponential-moving-average importance weight
// per domain index plus a set of stratum boundaries, supporting the
// importance-sampling and stratified variance-reduction strategies.
type AdaptiveSampler struct {
	weights          []float64
	strataBoundaries []int
	observations     int
}

// NewAdaptiveSampler returns a sampler over a domain of the given size,
// with uniform initial weights.
func NewAdaptiveSampler(domainSize int) *AdaptiveSampler {
	weights := make([]float64, domainSize)
	for i := range weights {
		weights[i] = 1.0
	}
	return &AdaptiveSampler{weights: weights}
}

// Observe folds |value| into index's importance weight via an EMA
// update: w[i] = decay*w[i] + (1-decay)*|value|.
func (s *AdaptiveSampler) Observe(index int, value float64) {
	if index < 0 || index >= len(s.weights) {
		return
	}
	s.weights[index] = emaDecay*s.weights[index] + (1-emaDecay)*math.Abs(value)
	s.observations++
}

// Weight returns index's current importance weight.
func (s *AdaptiveSampler) Weight(index int) float64 {
	if index < 0 || index >= len(s.weights) {
		return 1.0
	}
	return s.weights[index]
}

// RebuildStrata partitions [0, domainSize) into numStrata contiguous
// strata of roughly equal width, recording the boundaries for
// StratifiedSampleIndex. Called once per chooseNextVertex call with
// domainSize set to the current vertex's degree, so the domain being
// stratified is that vertex's neighbor list, not the whole matrix.
func (s *AdaptiveSampler) RebuildStrata(domainSize, numStrata int) {
	if numStrata <= 0 {
		numStrata = 1
	}
	s.strataBoundaries = make([]int, numStrata+1)
	for k := 0; k <= numStrata; k++ {
		s.strataBoundaries[k] = int(float64(k) / float64(numStrata) * float64(domainSize))
	}
}

// StratifiedSampleIndex draws an index uniformly within stratum
// (stratum mod len(strataBoundaries)-1), guaranteeing even domain
// coverage across repeated calls with increasing stratum indices.
func (s *AdaptiveSampler) StratifiedSampleIndex(stratum int, u float64) int {
	if len(s.strataBoundaries) < 2 {
		return int(u * float64(s.strataBoundaries[len(s.strataBoundaries)-1]))
	}
	numStrata := len(s.strataBoundaries) - 1
	idx := stratum % numStrata
	lo, hi := s.strataBoundaries[idx], s.strataBoundaries[idx+1]
	if hi <= lo {
		return lo
	}
	return lo + int(u*float64(hi-lo))
}
