package antihabit

// The weekly schedule is never persisted: it is recomputed on demand from a
// seed string, so the hash and generator below only have to be stable within
// this codebase, not compatible with anything external.

// fnv1a32 hashes a seed string (FNV-1a, 32 bit).
func fnv1a32(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// mulberry32 is a tiny 32-bit-state generator; successive calls return
// values in [0, 1).
type mulberry32 struct {
	state uint32
}

func (m *mulberry32) next() float64 {
	m.state += 0x6d2b79f5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64((t^(t>>14))) / 4294967296.0
}

// shuffled returns a Fisher–Yates permutation of [0..n) driven by the seed
// string. Identical seeds always yield identical permutations.
func shuffled(n int, seed string) []int {
	a := make([]int, n)
	for i := range a {
		a[i] = i
	}
	rnd := &mulberry32{state: fnv1a32(seed)}
	for i := n - 1; i > 0; i-- {
		j := int(rnd.next() * float64(i+1))
		a[i], a[j] = a[j], a[i]
	}
	return a
}
