// Package runtime is the support library the code generator's output links
// against (spec §4.G): the packed state representation, the concurrent
// explored-set and work queue the explicit-state search uses, the
// scalarset symmetry canonicaliser, and counterexample trace
// reconstruction. Unlike pkg/codegen's output, this package is ordinary,
// hand-written Go compiled once and reused by every generated checker.
package runtime

import (
	"encoding/binary"
	"hash/maphash"
)

// wordBits is the width of one storage word in a State's packed bit vector.
const wordBits = 64

// State is a packed, fixed-width bit vector holding one generated program's
// entire state: value bits laid out at the offsets pkg/layout computed,
// plus one "defined" bit per leaf scalar slot (DESIGN.md's undefined-value
// encoding decision), tracked in a second, separately-sized bitset since
// definedness is per-slot rather than per-value-bit. States are value-like
// (Clone before mutating a shared instance) so they can be safely handed
// between explorer goroutines.
type State struct {
	words        []uint64
	width        uint
	defined      []uint64
	definedCount uint
}

// NewState allocates a zeroed State wide enough for width value bits and
// definedCount leaf-scalar defined-bits. Every slot starts undefined,
// matching Murphi's semantics for a freshly allocated state.
func NewState(width, definedCount uint) *State {
	return &State{
		words:        make([]uint64, (width+wordBits-1)/wordBits),
		width:        width,
		defined:      make([]uint64, (definedCount+wordBits-1)/wordBits),
		definedCount: definedCount,
	}
}

// Width returns the number of value bits this state packs.
func (s *State) Width() uint { return s.width }

// Clone returns an independent copy of s.
func (s *State) Clone() *State {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	def := make([]uint64, len(s.defined))
	copy(def, s.defined)
	return &State{words: words, width: s.width, defined: def, definedCount: s.definedCount}
}

// GetUint reads a width-bit unsigned field starting at bit offset.
func (s *State) GetUint(offset, width uint) uint64 {
	var v uint64
	for i := uint(0); i < width; i++ {
		if testBit(s.words, offset+i) {
			v |= 1 << i
		}
	}
	return v
}

// SetUint writes the low width bits of v at bit offset.
func (s *State) SetUint(offset, width uint, v uint64) {
	for i := uint(0); i < width; i++ {
		setBit(s.words, offset+i, v&(1<<i) != 0)
	}
}

// GetBool reads a single-bit boolean field.
func (s *State) GetBool(offset uint) bool { return testBit(s.words, offset) }

// SetBool writes a single-bit boolean field.
func (s *State) SetBool(offset uint, v bool) { setBit(s.words, offset, v) }

// IsDefined reports whether the leaf scalar slot at defined-bit index i
// currently holds a value (spec's `isundefined` tests the negation of
// this).
func (s *State) IsDefined(i uint) bool { return testBit(s.defined, i) }

// SetDefined marks leaf scalar slot i as holding (or no longer holding, for
// `clear`) a value.
func (s *State) SetDefined(i uint, v bool) { setBit(s.defined, i, v) }

func testBit(words []uint64, i uint) bool {
	return words[i/wordBits]&(1<<(i%wordBits)) != 0
}

func setBit(words []uint64, i uint, v bool) {
	word := i / wordBits
	mask := uint64(1) << (i % wordBits)
	if v {
		words[word] |= mask
	} else {
		words[word] &^= mask
	}
}

// Equal reports whether s and other encode the same bits, including
// definedness: two states differing only in which slots are undefined are
// distinct states.
func (s *State) Equal(other *State) bool {
	if s.width != other.width || len(s.words) != len(other.words) {
		return false
	}
	for i := range s.words {
		if s.words[i] != other.words[i] {
			return false
		}
	}
	for i := range s.defined {
		if s.defined[i] != other.defined[i] {
			return false
		}
	}
	return true
}

// Bytes returns s's packed representation (value bits then defined bits),
// used as a hash-set/canonical key.
func (s *State) Bytes() []byte {
	buf := make([]byte, (len(s.words)+len(s.defined))*8)
	for i, w := range s.words {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	base := len(s.words) * 8
	for i, w := range s.defined {
		binary.LittleEndian.PutUint64(buf[base+i*8:], w)
	}
	return buf
}

var seed = maphash.MakeSeed()

// Hash64 returns a 64-bit hash of s suitable for sharding and hash-set
// lookup; it is not cryptographic and is only stable within one process.
func (s *State) Hash64() uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	_, _ = h.Write(s.Bytes())
	return h.Sum64()
}
