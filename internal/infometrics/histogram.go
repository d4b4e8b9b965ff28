package infometrics

import (
	"math"

	"github.com/triadlab/triadsim/internal/resonance"
)

// histogram bins every sample of a trajectory along each field axis.
// Bin edges span each field's observed range; a field with zero range
// collapses into a single bin and contributes zero entropy.
type histogram struct {
	bins   int
	n      int
	counts [resonance.NumFields][]int
	joint  map[[resonance.NumFields]int]int
}

func newHistogram(traj resonance.Trajectory, bins int) *histogram {
	h := &histogram{
		bins:  bins,
		n:     len(traj),
		joint: make(map[[resonance.NumFields]int]int),
	}
	for i := range h.counts {
		h.counts[i] = make([]int, bins)
	}

	var lo, hi [resonance.NumFields]float64
	for i := 0; i < resonance.NumFields; i++ {
		lo[i], hi[i] = traj[0].Fields[i], traj[0].Fields[i]
	}
	for _, s := range traj {
		for i := 0; i < resonance.NumFields; i++ {
			lo[i] = math.Min(lo[i], s.Fields[i])
			hi[i] = math.Max(hi[i], s.Fields[i])
		}
	}

	for _, s := range traj {
		var key [resonance.NumFields]int
		for i := 0; i < resonance.NumFields; i++ {
			key[i] = h.binIndex(s.Fields[i], lo[i], hi[i])
			h.counts[i][key[i]]++
		}
		h.joint[key]++
	}

	return h
}

func (h *histogram) binIndex(v, lo, hi float64) int {
	width := hi - lo
	if width == 0 {
		return 0
	}
	idx := int((v - lo) / width * float64(h.bins))
	if idx >= h.bins {
		idx = h.bins - 1
	}
	return idx
}

// marginalEntropy is the Shannon entropy of one field's bin
// distribution, in bits.
func (h *histogram) marginalEntropy(i int) float64 {
	return entropy(h.counts[i], h.n)
}

// jointEntropy is the Shannon entropy of the joint bin distribution,
// in bits.
func (h *histogram) jointEntropy() float64 {
	e := 0.0
	n := float64(h.n)
	for _, c := range h.joint {
		p := float64(c) / n
		e -= p * math.Log2(p)
	}
	return e
}

func entropy(counts []int, total int) float64 {
	e := 0.0
	n := float64(total)
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		e -= p * math.Log2(p)
	}
	return e
}
