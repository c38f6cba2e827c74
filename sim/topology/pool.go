package topology

import (
	"sort"
)

// pairPool holds the fidelities of the entangled pairs shared over one link.
// Pairs are consumed best first.
type pairPool struct {
	fidelities []float64
}

func (p *pairPool) fill(n int, fidelity float64) {
	p.fidelities = p.fidelities[:0]
	for i := 0; i < n; i++ {
		p.fidelities = append(p.fidelities, fidelity)
	}
}

func (p *pairPool) len() int { return len(p.fidelities) }

// decay scales every fidelity by (1 - factor) and drops the pairs that fall
// below threshold. Returns the number of pairs dropped.
func (p *pairPool) decay(factor, threshold float64) int {
	kept := p.fidelities[:0]
	for _, f := range p.fidelities {
		f -= f * factor
		if f >= threshold {
			kept = append(kept, f)
		}
	}
	dropped := len(p.fidelities) - len(kept)
	p.fidelities = kept
	return dropped
}

// take removes the n best pairs and returns their fidelities, best first.
// The caller must check len() first.
func (p *pairPool) take(n int) []float64 {
	sort.Sort(sort.Reverse(sort.Float64Slice(p.fidelities)))
	taken := append([]float64(nil), p.fidelities[:n]...)
	p.fidelities = append(p.fidelities[:0], p.fidelities[n:]...)
	return taken
}
