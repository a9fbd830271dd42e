package ast

import (
	"math/big"
	"testing"

	"github.com/Smattr/rumur/pkg/util/assert"
)

func Test_Range_Cardinality_00(t *testing.T) {
	r := &Range{Low: big.NewInt(0), High: big.NewInt(7)}
	assert.Equal(t, int64(8), r.Cardinality().Int64())
}

func Test_Enum_IndexOf_00(t *testing.T) {
	e := &Enum{Values: []string{"red", "green", "blue"}}
	assert.Equal(t, 1, e.IndexOf("green"))
	assert.Equal(t, -1, e.IndexOf("purple"))
}

func Test_Array_WidthAndCardinality_00(t *testing.T) {
	index := &Range{Low: big.NewInt(0), High: big.NewInt(3)}
	elem := &Boolean{}
	arr := &Array{Index: index, Elem: elem}

	// 4 elements, 1 bit each.
	assert.Equal(t, uint(4), arr.Width())
	// 2^4 distinct array values.
	assert.Equal(t, int64(16), arr.Cardinality().Int64())
}

func Test_Record_CardinalityIsProductOfFields_00(t *testing.T) {
	rec := &Record{Fields: []RecordField{
		{Name: "a", Type: &Range{Low: big.NewInt(0), High: big.NewInt(1)}},
		{Name: "b", Type: &Range{Low: big.NewInt(0), High: big.NewInt(2)}},
	}}
	// Cardinalities 2 * 3 = 6.
	assert.Equal(t, int64(6), rec.Cardinality().Int64())
}

func Test_Record_FieldByName_00(t *testing.T) {
	rec := &Record{Fields: []RecordField{
		{Name: "x", Type: &Boolean{}},
		{Name: "y", Type: &Boolean{}},
	}}
	f := rec.FieldByName("y")
	if f == nil {
		t.Fatalf("expected to find field y")
	}
	if rec.FieldByName("missing") != nil {
		t.Fatalf("expected FieldByName to return nil for an absent field")
	}
}

func Test_TypeRef_DelegatesToTarget_00(t *testing.T) {
	target := &Range{Low: big.NewInt(0), High: big.NewInt(9)}
	target.SetWidth(4)
	ref := &TypeRef{Name: "t", Target: target}
	assert.Equal(t, uint(4), ref.Width())
	assert.Equal(t, int64(10), ref.Cardinality().Int64())
}

func Test_TypeRef_UnresolvedTargetIsZeroValue_00(t *testing.T) {
	ref := &TypeRef{Name: "t"}
	assert.Equal(t, uint(0), ref.Width())
	if ref.Cardinality() != nil {
		t.Fatalf("expected an unresolved TypeRef's Cardinality to be nil")
	}
}
