package runtime

import (
	"context"
	"testing"

	"github.com/Smattr/rumur/pkg/util/assert"
)

// counterModel builds a tiny hand-wired model: a single boolean bit, a
// startstate setting it false, and one rule flipping it. No invariant, so
// the checker should explore exactly the two reachable states.
func counterModel() Model {
	return Model{
		Width: 1,
		StartStates: []RuleFunc{
			{
				Name: "init",
				Fire: func(s *State) (*State, *ModelError) {
					s = NewState(1, 1)
					s.SetBool(0, false)
					s.SetDefined(0, true)
					return s, nil
				},
			},
		},
		Transitions: []RuleFunc{
			{
				Name: "flip",
				Fire: func(s *State) (*State, *ModelError) {
					next := s.Clone()
					next.SetBool(0, !s.GetBool(0))
					return next, nil
				},
			},
		},
	}
}

func Test_Checker_ExploresAllReachableStates_00(t *testing.T) {
	checker := NewChecker(counterModel(), 2, false, nil)
	result, err := checker.Run(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, result.Error)
	assert.Equal(t, int64(2), result.StatesExplored)
	if result.RulesFired < 2 {
		t.Fatalf("expected at least 2 rule firings (1 start + 1 flip), got %d", result.RulesFired)
	}
}

// faultyModel's single rule always errors, so the checker must report it
// along with a one-step trace back to the start state.
func faultyModel() Model {
	return Model{
		Width: 1,
		StartStates: []RuleFunc{
			{
				Name: "init",
				Fire: func(s *State) (*State, *ModelError) {
					s = NewState(1, 1)
					return s, nil
				},
			},
		},
		Transitions: []RuleFunc{
			{
				Name: "bad",
				Fire: func(s *State) (*State, *ModelError) {
					return nil, &ModelError{RuleName: "bad", Message: "invariant violated"}
				},
			},
		},
	}
}

func Test_Checker_ReportsErrorAndTrace_00(t *testing.T) {
	checker := NewChecker(faultyModel(), 1, false, nil)
	result, err := checker.Run(context.Background())
	assert.Equal(t, nil, err)
	if result.Error == nil {
		t.Fatalf("expected an error result")
	}
	assert.Equal(t, "bad", result.Error.RuleName)
	if len(result.Trace) == 0 {
		t.Fatalf("expected a non-empty counterexample trace")
	}
}

func Test_State_GetSetUint_RoundTrips_00(t *testing.T) {
	s := NewState(8, 1)
	s.SetUint(0, 8, 0xab)
	assert.Equal(t, uint64(0xab), s.GetUint(0, 8))
}

func Test_State_UndefinedUntilSet_00(t *testing.T) {
	s := NewState(4, 1)
	assert.False(t, s.IsDefined(0))
	s.SetDefined(0, true)
	assert.True(t, s.IsDefined(0))
}
