// Package ast defines the in-memory representation of a Murphi model: types,
// symbols, scopes, statements and expressions (spec §3). Nodes are owned by a
// single mutable tree; canonical passes (resolver, folder, layout planner)
// rewrite nodes in place rather than producing new IR levels.
package ast

import (
	"math/big"

	"github.com/Smattr/rumur/pkg/source"
)

// Node is embedded by every AST type and carries its originating source
// position, used for diagnostics throughout the pipeline.
type Node struct {
	Pos source.Position
}

// Position returns the source position of this node.
func (n *Node) Position() source.Position {
	return n.Pos
}

// Type represents a Murphi type expression.  Until resolved, a TypeRef may
// refer to a user-declared alias by name; after resolution every TypeRef's
// Target field points directly at the aliased Type.
type Type interface {
	// Width returns the number of bits needed to represent one value of
	// this type in the packed state vector.  Only valid after layout.
	Width() uint
	// Cardinality returns the number of distinct values this type admits,
	// or nil if unbounded (Murphi disallows unbounded types in state, but
	// intermediate expressions may have none).
	Cardinality() *big.Int
	typeNode()
}

// Boolean is Murphi's built-in two-valued type.
type Boolean struct {
	Node
}

func (*Boolean) typeNode()             {}
func (*Boolean) Width() uint           { return 1 }
func (*Boolean) Cardinality() *big.Int { return big.NewInt(2) }

// Range is an inclusive integer subrange [Low, High].
type Range struct {
	Node
	Low, High *big.Int
	width     uint
}

func (*Range) typeNode() {}

// Width returns the bit width assigned by the layout planner; zero until set.
func (r *Range) Width() uint { return r.width }

// SetWidth is called by the layout planner once bit widths are assigned.
func (r *Range) SetWidth(w uint) { r.width = w }

// Cardinality returns High - Low + 1.
func (r *Range) Cardinality() *big.Int {
	card := new(big.Int).Sub(r.High, r.Low)
	return card.Add(card, big.NewInt(1))
}

// Enum is an enumerated type: an ordered list of distinct identifier values.
type Enum struct {
	Node
	Values []string
	width  uint
}

func (*Enum) typeNode()      {}
func (e *Enum) Width() uint  { return e.width }
func (e *Enum) SetWidth(w uint) { e.width = w }

// Cardinality returns the number of enumerators.
func (e *Enum) Cardinality() *big.Int {
	return big.NewInt(int64(len(e.Values)))
}

// IndexOf returns the ordinal of a given enumerator, or -1 if absent.
func (e *Enum) IndexOf(name string) int {
	for i, v := range e.Values {
		if v == name {
			return i
		}
	}
	return -1
}

// Scalarset is an enum-like type of symmetric, otherwise-uninterpreted
// values; its cardinality is an integer constant giving the number of
// members.  Permutations of a scalarset's members are interchangeable,
// which the runtime's symmetry canonicaliser exploits.
type Scalarset struct {
	Node
	Size  *big.Int
	width uint
}

func (*Scalarset) typeNode()         {}
func (s *Scalarset) Width() uint     { return s.width }
func (s *Scalarset) SetWidth(w uint) { s.width = w }

// Cardinality returns Size.
func (s *Scalarset) Cardinality() *big.Int { return s.Size }

// Array is an indexed collection of elements, indexed by Index and holding
// values of type Elem.  Index must be a bounded, enumerable type.
type Array struct {
	Node
	Index, Elem Type
}

func (*Array) typeNode() {}

// Width is the per-element width times the index cardinality.
func (a *Array) Width() uint {
	card := a.Index.Cardinality()
	if card == nil || !card.IsUint64() {
		return 0
	}
	return uint(card.Uint64()) * a.Elem.Width()
}

// Cardinality is Elem's cardinality raised to the power of Index's.
func (a *Array) Cardinality() *big.Int {
	ec, ic := a.Elem.Cardinality(), a.Index.Cardinality()
	if ec == nil || ic == nil || !ic.IsUint64() {
		return nil
	}
	return new(big.Int).Exp(ec, ic, nil)
}

// RecordField is one named, typed member of a Record.
type RecordField struct {
	Name   string
	Type   Type
	Offset uint // bit offset within the record, assigned by layout
	// DefinedOffset is this field's leaf-scalar defined-bit offset within
	// its enclosing variable's DefinedOffset, assigned by layout.
	DefinedOffset uint
}

// Record is a fixed collection of named, heterogeneously-typed fields.  The
// layout planner reorders Fields by descending width (stable on declaration
// order) and records each field's bit Offset; all other references to this
// Record see the same reordering, since there is exactly one Record node
// shared by every reference.
type Record struct {
	Node
	Fields []RecordField
	width  uint
}

func (*Record) typeNode()         {}
func (r *Record) Width() uint     { return r.width }
func (r *Record) SetWidth(w uint) { r.width = w }

// Cardinality is the product of every field's cardinality (the spec's
// resolution of the corresponding Open Question).
func (r *Record) Cardinality() *big.Int {
	card := big.NewInt(1)
	for _, f := range r.Fields {
		fc := f.Type.Cardinality()
		if fc == nil {
			return nil
		}
		card.Mul(card, fc)
	}
	return card
}

// FieldByName returns the field with the given name, or nil.
func (r *Record) FieldByName(name string) *RecordField {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i]
		}
	}
	return nil
}

// TypeRef is an as-yet-unresolved reference to a named type alias; the
// resolver replaces every use of the alias's Target, so after resolution a
// TypeRef is transparent to Width/Cardinality.
type TypeRef struct {
	Node
	Name   string
	Target Type
}

func (*TypeRef) typeNode() {}

// Width delegates to the resolved Target.
func (t *TypeRef) Width() uint {
	if t.Target == nil {
		return 0
	}
	return t.Target.Width()
}

// Cardinality delegates to the resolved Target.
func (t *TypeRef) Cardinality() *big.Int {
	if t.Target == nil {
		return nil
	}
	return t.Target.Cardinality()
}
