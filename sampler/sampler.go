// Package sampler provides the approximate-BC source selector. It is an
// out-of-scope external collaborator per spec.md's PURPOSE & SCOPE -- this
// package supplies only an interface and one reference implementation,
// uniform sampling, matching the spec's "sampled uniformly from the
// vertex set" description.
package sampler

import (
	"math"

	"github.com/aldergraph/hybridbc/utils"
)

// Sampler selects a set of source vertices (raw, engine-wide ids) for
// approximate betweenness centrality.
type Sampler interface {
	Sample(numVertices int, count int) []int
}

// UniformSampler draws sources uniformly at random, without replacement.
type UniformSampler struct{}

func (UniformSampler) Sample(numVertices int, count int) []int {
	all := make([]int, numVertices)
	for i := range all {
		all[i] = i
	}
	if count >= numVertices {
		return all
	}
	utils.Shuffle(all)
	return append([]int(nil), all[:count]...)
}

// SampleCount returns the number of sources to sample for a given vertex
// count and accuracy target epsilon, using a Hoeffding-style bound: the
// sample count grows with ln(V)/epsilon^2, matching the spec's f(V,
// epsilon) description in section 3's global state (num_samples).
func SampleCount(v int, epsilon float64) int {
	if v <= 1 {
		return v
	}
	if epsilon <= 0 {
		return v
	}
	const c = 0.5 // folds ln(2/delta) for a fixed confidence level
	n := c * math.Log(float64(v)) / (epsilon * epsilon)
	count := int(n) + 1
	if count > v {
		count = v
	}
	if count < 1 {
		count = 1
	}
	return count
}
