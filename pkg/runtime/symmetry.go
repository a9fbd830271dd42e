package runtime

// ScalarsetField describes one state-vector field whose value is a
// scalarset member (spec's symmetric, uninterpreted type): Offset/Width
// locate it in the packed state, and Members is the scalarset's
// cardinality. The canonicaliser permutes these fields' values together
// across every enumerated relabelling and keeps the lexicographically
// smallest encoding, so two states differing only by a scalarset
// permutation collapse to one explored state.
//
// Scalarset-indexed arrays (where the permutation must also move which
// array slot a value lives in, not just relabel the value) are not
// canonicalised by this pass; rumur still explores such states correctly,
// it simply does not fold their symmetric instances together.
type ScalarsetField struct {
	Offset, Width uint
	Members       int
}

// Canonicalize returns the lexicographically smallest encoding of s across
// every permutation of each distinct member count appearing in fields,
// without mutating s.
func Canonicalize(s *State, fields []ScalarsetField) *State {
	if len(fields) == 0 {
		return s
	}
	byMembers := map[int][]ScalarsetField{}
	for _, f := range fields {
		byMembers[f.Members] = append(byMembers[f.Members], f)
	}

	best := s
	bestBytes := s.Bytes()
	for members, group := range byMembers {
		permute(members, func(perm []int) {
			candidate := s.Clone()
			for _, f := range group {
				v := candidate.GetUint(f.Offset, f.Width)
				if int(v) < len(perm) {
					candidate.SetUint(f.Offset, f.Width, uint64(perm[v]))
				}
			}
			cb := candidate.Bytes()
			if lessBytes(cb, bestBytes) {
				best = candidate
				bestBytes = cb
			}
		})
	}
	return best
}

// permute enumerates every permutation of [0,n) via Heap's algorithm,
// invoking visit once per permutation with perm[i] giving the relabelling
// of original member i.
func permute(n int, visit func(perm []int)) {
	if n <= 0 {
		return
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			visit(append([]int(nil), perm...))
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				perm[i], perm[k-1] = perm[k-1], perm[i]
			} else {
				perm[0], perm[k-1] = perm[k-1], perm[0]
			}
		}
	}
	generate(n)
}

func lessBytes(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
