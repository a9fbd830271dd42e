package smt

import (
	"testing"

	"github.com/Smattr/rumur/pkg/util/assert"
)

func Test_Solver_AbsentNeverUnsat_00(t *testing.T) {
	s := New(Config{})
	assert.False(t, s.Available())
	assert.False(t, s.IsUnsat("(= 1 1)"))
}

func Test_Solver_MissingExecutableFailsOpenNotFatal_00(t *testing.T) {
	s := New(Config{Path: "/nonexistent/rumur-smt-solver-binary"})
	assert.True(t, s.Available())
	// spec: solver absence/failure is never fatal, and it must not prune.
	assert.False(t, s.IsUnsat("(= 1 1)"))
}

func Test_Solver_CachesQueries_00(t *testing.T) {
	s := New(Config{})
	first := s.IsUnsat("(= x y)")
	second := s.IsUnsat("(= x y)")
	assert.Equal(t, first, second)
	if _, ok := s.cache["(= x y)"]; !ok {
		t.Fatalf("expected the query to be memoized in the solver's cache")
	}
}
