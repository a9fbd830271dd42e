// Package layout implements the Murphi state layout planner (spec §4.E):
// it assigns bit widths to every type, reorders each Record's fields by
// descending width, and assigns each state-resident variable a bit offset
// within the packed state vector.
package layout

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/bits-and-blooms/bitset"
	log "github.com/sirupsen/logrus"

	"github.com/Smattr/rumur/pkg/ast"
)

// Stats summarises what Plan did. Plan returns it to its caller; the rumur
// command in pkg/cmd discards it.
type Stats struct {
	RecordsReordered int
	StateWidth       uint
}

// Plan computes bit widths for every type reachable from model, reorders
// every Record's fields by descending width, and assigns each top-level
// state variable a bit offset in declaration order. It is safe to call more
// than once; re-running it is a no-op beyond re-emitting its debug log
// lines (spec §8 scenario 5 expects the reordering diagnostic once per
// variable whose type reaches the same Record, even when that Record is
// shared by several variables).
func Plan(model *ast.Model) (Stats, error) {
	p := &planner{}
	for _, alias := range model.Types {
		p.planType(alias.Type)
	}
	for _, v := range model.Vars {
		p.planType(v.Type)
	}
	for _, proc := range model.Procedures {
		p.planParams(proc.Params)
	}
	for _, fn := range model.Functions {
		p.planParams(fn.Params)
		if fn.ResultType != nil {
			p.planType(fn.ResultType)
		}
	}

	if err := p.assignStateOffsets(model); err != nil {
		return p.stats, err
	}
	return p.stats, nil
}

type planner struct {
	stats Stats
}

func (p *planner) planParams(params []ast.Param) {
	for _, param := range params {
		p.planType(param.Type)
	}
}

// planType computes bit widths bottom-up for t's whole structure, assigning
// them via each type's SetWidth. Boolean, TypeRef and Array carry no stored
// width (Boolean.Width is constant 1; Array.Width/TypeRef.Width are
// computed on the fly from their constituents), so only Range, Enum,
// Scalarset and Record are mutated here.
func (p *planner) planType(t ast.Type) {
	switch ut := t.(type) {
	case *ast.Range:
		ut.SetWidth(bitsFor(ut.Cardinality()))
	case *ast.Enum:
		ut.SetWidth(bitsFor(ut.Cardinality()))
	case *ast.Scalarset:
		ut.SetWidth(bitsFor(ut.Cardinality()))
	case *ast.Array:
		p.planType(ut.Index)
		p.planType(ut.Elem)
	case *ast.Record:
		p.planRecord(ut)
	case *ast.TypeRef:
		if ut.Target != nil {
			p.planType(ut.Target)
		}
	case *ast.Boolean:
		// fixed width, nothing to compute
	}
}

// planRecord sorts fields by descending width (ties broken by declaration
// order), assigns each field's bit Offset, and logs the reordering (spec
// §4.E: "sorted fields {a,b,c} -> {a,c,b}", reported once per occurrence).
func (p *planner) planRecord(r *ast.Record) {
	for i := range r.Fields {
		p.planType(r.Fields[i].Type)
	}

	before := fieldNames(r.Fields)
	order := make([]int, len(r.Fields))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return r.Fields[order[i]].Type.Width() > r.Fields[order[j]].Type.Width()
	})
	sorted := make([]ast.RecordField, len(r.Fields))
	for newIdx, oldIdx := range order {
		sorted[newIdx] = r.Fields[oldIdx]
	}
	r.Fields = sorted

	after := fieldNames(r.Fields)
	if before != after {
		p.stats.RecordsReordered++
	}
	log.Debugf("sorted fields %s -> %s", before, after)

	assigned := bitset.New(totalWidth(r.Fields) + 1)
	var offset, definedOffset uint
	for i := range r.Fields {
		w := r.Fields[i].Type.Width()
		for b := uint(0); b < w; b++ {
			if assigned.Test(offset + b) {
				panic(fmt.Sprintf("layout: record field %q overlaps a previously assigned bit", r.Fields[i].Name))
			}
			assigned.Set(offset + b)
		}
		r.Fields[i].Offset = offset
		r.Fields[i].DefinedOffset = definedOffset
		offset += w
		definedOffset += LeafCount(r.Fields[i].Type)
	}
	r.SetWidth(offset)
}

// LeafCount returns the number of leaf scalar slots t's value decomposes
// into, used to size and index the defined-bit companion bitset
// (DESIGN.md's undefined-value encoding): one bit per Boolean/Range/
// Enum/Scalarset leaf, summed across a Record's fields or an array's
// (bounded) elements. An array whose index cardinality is too large to
// enumerate (the same bound pkg/fold's clear expansion uses) is treated as
// a single leaf: definedness is tracked for the array as a whole rather
// than per element.
func LeafCount(t ast.Type) uint {
	switch ut := underlying(t).(type) {
	case *ast.Record:
		var n uint
		for _, f := range ut.Fields {
			n += LeafCount(f.Type)
		}
		return n
	case *ast.Array:
		card := ut.Index.Cardinality()
		if card == nil || !card.IsInt64() || card.Int64() > 4096 {
			return 1
		}
		return uint(card.Int64()) * LeafCount(ut.Elem)
	default:
		return 1
	}
}

func underlying(t ast.Type) ast.Type {
	for {
		ref, ok := t.(*ast.TypeRef)
		if !ok || ref.Target == nil {
			return t
		}
		t = ref.Target
	}
}

func totalWidth(fields []ast.RecordField) uint {
	var w uint
	for _, f := range fields {
		w += f.Type.Width()
	}
	return w
}

func fieldNames(fields []ast.RecordField) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	s := "{"
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s + "}"
}

// assignStateOffsets lays out every StateSlot variable in declaration order
// using its now-final type width, overwriting the provisional offsets the
// parser's scope assigned (which were computed before widths were known).
// A bitset tracks which state bits are claimed so overlapping slots (a
// layout bug, not a user error) are caught immediately rather than
// silently corrupting generated state accesses.
func (p *planner) assignStateOffsets(model *ast.Model) error {
	var total uint
	for _, v := range model.Vars {
		if v.Kind == ast.StateSlot {
			total += v.Type.Width()
		}
	}
	claimed := bitset.New(total + 1)

	var offset, definedOffset uint
	for _, v := range model.Vars {
		if v.Kind != ast.StateSlot {
			continue
		}
		w := v.Type.Width()
		for b := uint(0); b < w; b++ {
			if claimed.Test(offset + b) {
				return fmt.Errorf("layout: state slot for %q overlaps a previously assigned bit", v.Ident)
			}
			claimed.Set(offset + b)
		}
		v.BitOffset = offset
		v.DefinedOffset = definedOffset
		offset += w
		definedOffset += LeafCount(v.Type)
	}
	model.StateWidth = offset
	model.DefinedCount = definedOffset
	p.stats.StateWidth = offset
	return nil
}

func bitsFor(n *big.Int) uint {
	if n == nil || n.Sign() <= 0 {
		return 0
	}
	if n.Cmp(big.NewInt(1)) == 0 {
		return 0
	}
	m := new(big.Int).Sub(n, big.NewInt(1))
	return uint(m.BitLen())
}
