package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ModelError is raised by a generated rule/invariant body that executed an
// `error "..."` statement (spec §4.F/§4.D: invariants compile to a rule
// that errors when the invariant's negation holds).
type ModelError struct {
	RuleName string
	Message  string
}

func (e *ModelError) Error() string { return fmt.Sprintf("%s: %s", e.RuleName, e.Message) }

// RuleFunc is one generated rule, startstate or (folded) invariant: Guard
// reports whether the rule may fire in state s (nil Guard always fires);
// Fire computes the successor state, or reports a ModelError if the rule's
// body hit an explicit error.
type RuleFunc struct {
	Name  string
	Guard func(s *State) bool
	Fire  func(s *State) (*State, *ModelError)
}

// Model is the generated program's exploration surface: pkg/codegen emits
// one literal of this shape per input specification.
type Model struct {
	Width           uint
	StartStates     []RuleFunc
	Transitions     []RuleFunc
	ScalarsetFields []ScalarsetField // non-nil enables symmetry reduction
}

// step records how a state was reached, letting the checker reconstruct a
// counterexample trace once an error is found.
type step struct {
	predecessor *State
	ruleName    string
}

// Result summarises one exploration run.
type Result struct {
	StatesExplored int64
	RulesFired     int64
	Error          *ModelError
	// Trace is the sequence of rule names fired from a start state to the
	// state that violated Error, inclusive of the start state's name first.
	Trace []TraceStep
}

// TraceStep is one state transition in a counterexample.
type TraceStep struct {
	RuleName string
	State    *State
}

// Checker performs a concurrent explicit-state search over a Model using
// WorkQueue and StateSet (spec §4.G). Each worker pops its own most recently
// pushed state first, so states are not visited in breadth-first order.
type Checker struct {
	model   Model
	workers int
	log     *zap.SugaredLogger
	symm    bool

	set   *StateSet
	queue *WorkQueue

	tracemu sync.Mutex
	trace   map[uint64]step

	errOnce sync.Once
	found   atomic.Pointer[ModelError]
	errAt   atomic.Pointer[State]

	rulesFired atomic.Int64
}

// NewChecker constructs a Checker running model across workers goroutines.
// symmetryReduction enables Model.ScalarsetFields-based canonicalisation.
func NewChecker(model Model, workers int, symmetryReduction bool, log *zap.SugaredLogger) *Checker {
	if workers < 1 {
		workers = 1
	}
	return &Checker{
		model:   model,
		workers: workers,
		log:     log,
		symm:    symmetryReduction,
		set:     NewStateSet(),
		queue:   NewWorkQueue(workers),
		trace:   make(map[uint64]step),
	}
}

func (c *Checker) canonical(s *State) *State {
	if !c.symm || len(c.model.ScalarsetFields) == 0 {
		return s
	}
	return Canonicalize(s, c.model.ScalarsetFields)
}

// Run explores the model's reachable state space until exhaustion, an
// error is found, or ctx is cancelled.
func (c *Checker) Run(ctx context.Context) (*Result, error) {
	for _, start := range c.model.StartStates {
		c.rulesFired.Add(1)
		s, merr := callFire(start, nil)
		if merr != nil {
			return &Result{Error: merr, Trace: []TraceStep{{RuleName: start.Name, State: s}}}, nil
		}
		if s == nil {
			continue
		}
		canon := c.canonical(s)
		if c.set.Add(canon) {
			c.recordStep(canon, nil, start.Name)
			c.queue.Push(0, canon)
		}
	}

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go c.worker(ctx, w, &wg)
	}
	wg.Wait()

	result := &Result{StatesExplored: c.set.Len(), RulesFired: c.rulesFired.Load()}
	if found := c.found.Load(); found != nil {
		result.Error = found
		result.Trace = c.reconstructTrace(c.errAt.Load(), found.RuleName)
	}
	return result, nil
}

func (c *Checker) worker(ctx context.Context, id int, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if c.found.Load() != nil {
			return
		}
		s, ok := c.queue.Pop(id)
		if !ok {
			if c.queue.Quiescent() {
				return
			}
			continue
		}
		c.explore(id, s)
		c.queue.Done()
	}
}

func (c *Checker) explore(worker int, s *State) {
	for _, rule := range c.model.Transitions {
		if c.found.Load() != nil {
			return
		}
		if rule.Guard != nil && !rule.Guard(s) {
			continue
		}
		c.rulesFired.Add(1)
		succ, merr := callFire(rule, s)
		if merr != nil {
			c.errOnce.Do(func() {
				c.found.Store(merr)
				c.errAt.Store(s)
			})
			return
		}
		if succ == nil {
			// An `assume` inside the rule body excluded this firing (spec's
			// assume: "prunes states ... without reporting an error"); there
			// is no successor to record.
			continue
		}
		canon := c.canonical(succ)
		if c.set.Add(canon) {
			c.recordStep(canon, s, rule.Name)
			c.queue.Push(worker, canon)
		}
	}
	if c.log != nil && c.set.Len()%100000 == 0 {
		c.log.Infow("exploration progress", "states", c.set.Len())
	}
}

// callFire invokes rule.Fire, converting a panic raised by Maybe[T].Require
// (an undefined-value read) into the same ModelError shape Fire can return
// directly, so callers only ever need one error path.
func callFire(rule RuleFunc, s *State) (succ *State, merr *ModelError) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*ModelError); ok {
				merr = e
				return
			}
			panic(r)
		}
	}()
	return rule.Fire(s)
}

func (c *Checker) recordStep(s, predecessor *State, ruleName string) {
	c.tracemu.Lock()
	c.trace[s.Hash64()] = step{predecessor: predecessor, ruleName: ruleName}
	c.tracemu.Unlock()
}

// reconstructTrace walks predecessor links from the error state back to a
// start state, returning the path in firing order.
func (c *Checker) reconstructTrace(errAt *State, errRule string) []TraceStep {
	reversed := []TraceStep{{RuleName: errRule, State: errAt}}

	cur := errAt
	for {
		c.tracemu.Lock()
		st, ok := c.trace[cur.Hash64()]
		c.tracemu.Unlock()
		if !ok {
			break
		}
		reversed = append(reversed, TraceStep{RuleName: st.ruleName, State: cur})
		if st.predecessor == nil {
			break
		}
		cur = st.predecessor
	}

	trace := make([]TraceStep, len(reversed))
	for i, t := range reversed {
		trace[len(reversed)-1-i] = t
	}
	return trace
}
