// Package rng is the run's only source of randomness for gameplay decisions.
//
// The generator is splitmix64: the whole state is one uint64, so
// SetState(State()) followed by N draws reproduces the original N draws.
package rng

// RNG is a deterministic pseudo-random source. Not safe for concurrent use;
// it lives on the simulation goroutine like everything else in the core.
type RNG struct {
	state uint64
}

// New seeds a generator. Seed 0 is valid.
func New(seed uint64) *RNG {
	return &RNG{state: seed}
}

// State returns the opaque internal state for save data.
func (r *RNG) State() uint64 { return r.state }

// SetState restores a state previously returned by State.
func (r *RNG) SetState(s uint64) { r.state = s }

func (r *RNG) next64() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Next returns a float64 in [0, 1).
func (r *RNG) Next() float64 {
	return float64(r.next64()>>11) / (1 << 53)
}

// Intn returns an int in [0, n). n <= 0 yields 0 without consuming a draw.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(r.Next() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Range returns a float64 in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	return lo + r.Next()*(hi-lo)
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Next() < p
}

// WeightedSelect returns an index chosen by weight. Non-positive weights are
// never picked; if every weight is non-positive it returns 0.
func (r *RNG) WeightedSelect(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	roll := r.Next() * total
	cumulative := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if roll < cumulative {
			return i
		}
	}
	return last
}

// Shuffle permutes n elements with Fisher-Yates using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}
