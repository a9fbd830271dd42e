package ast

import (
	"math/big"

	"github.com/Smattr/rumur/pkg/source"
)

// Storage classifies where a Variable's value lives at runtime.
type Storage uint

const (
	// StateSlot variables are part of the packed state vector and persist
	// across rule firings.
	StateSlot Storage = iota
	// Local variables live on the interpreter/generated-code stack frame
	// of the enclosing rule, procedure or function body.
	Local
	// ByValueParam variables are procedure/function parameters passed by
	// value: callee mutations are not visible to the caller.
	ByValueParam
	// ByReferenceParam variables alias a caller's state-slot or local
	// storage: callee mutations are visible to the caller (Murphi's "var"
	// parameters).
	ByReferenceParam
)

// Symbol is anything nameable in scope: a constant, a type alias, or a
// variable.
type Symbol interface {
	Name() string
	symbolNode()
}

// Constant is a named, typed integer or boolean value bound at compile time.
type Constant struct {
	Node
	Ident string
	Type  Type
	Value *big.Int // nil for boolean constants; see BoolValue
	Bool  bool
	IsBool bool
}

func (*Constant) symbolNode()   {}
func (c *Constant) Name() string { return c.Ident }

// TypeAlias binds a name to a type definition (spec: "type T: <typeexpr>").
type TypeAlias struct {
	Node
	Ident string
	Type  Type
}

func (*TypeAlias) symbolNode()    {}
func (t *TypeAlias) Name() string { return t.Ident }

// Variable is a named, typed storage location: state variable, local,
// by-value or by-reference parameter, depending on Kind.
type Variable struct {
	Node
	Ident string
	Type  Type
	Kind  Storage
	// BitOffset is this variable's offset within the packed state vector.
	// Only meaningful when Kind == StateSlot, and only valid after layout.
	BitOffset uint
	// DefinedOffset is the index of this variable's first leaf-scalar
	// defined-bit (DESIGN.md's undefined-value encoding); consecutive
	// leaves of a compound type occupy DefinedOffset..DefinedOffset+N-1 in
	// the same structural order pkg/layout used to assign BitOffset. Only
	// meaningful when Kind == StateSlot, and only valid after layout.
	DefinedOffset uint
}

func (*Variable) symbolNode()    {}
func (v *Variable) Name() string { return v.Ident }

// Scope is a lexical binding frame: const/type/var declarations nest inside
// enclosing scopes (module, ruleset quantifiers, procedure/function bodies,
// for/exists/forall binders), shadowing outer bindings of the same name.
type Scope struct {
	parent *Scope
	consts map[string]*Constant
	types  map[string]*TypeAlias
	vars   map[string]*Variable
	// nextBitOffset tracks the next free bit in the enclosing state vector;
	// only meaningful for the root (module) scope and propagated to child
	// StateSlot declarations made while descending into rulesets, which
	// share the single global state layout.
	nextBitOffset *uint
}

// NewRootScope creates the outermost scope for a model, from which all
// others descend.
func NewRootScope() *Scope {
	zero := uint(0)
	return &Scope{nil, map[string]*Constant{}, map[string]*TypeAlias{}, map[string]*Variable{}, &zero}
}

// Open creates a child scope nested within this one.
func (s *Scope) Open() *Scope {
	return &Scope{s, map[string]*Constant{}, map[string]*TypeAlias{}, map[string]*Variable{}, s.nextBitOffset}
}

// Close returns this scope's parent, or nil at the root.
func (s *Scope) Close() *Scope {
	return s.parent
}

// DeclareConst binds a constant in this scope. Returns false if the name is
// already bound in this (not an enclosing) scope.
func (s *Scope) DeclareConst(c *Constant) bool {
	if _, ok := s.consts[c.Ident]; ok {
		return false
	}
	s.consts[c.Ident] = c
	return true
}

// DeclareType binds a type alias in this scope.
func (s *Scope) DeclareType(t *TypeAlias) bool {
	if _, ok := s.types[t.Ident]; ok {
		return false
	}
	s.types[t.Ident] = t
	return true
}

// DeclareVar binds a variable in this scope.  If Kind is StateSlot, it is
// also assigned the next free bit offset in the shared state layout (the
// true per-type width is substituted later by the layout planner; this
// provisional offset only establishes declaration order).
func (s *Scope) DeclareVar(v *Variable) bool {
	if _, ok := s.vars[v.Ident]; ok {
		return false
	}
	s.vars[v.Ident] = v
	if v.Kind == StateSlot && s.nextBitOffset != nil {
		v.BitOffset = *s.nextBitOffset
		*s.nextBitOffset += v.Type.Width()
	}
	return true
}

// LookupConst searches this scope and its ancestors for a constant.
func (s *Scope) LookupConst(name string) (*Constant, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if c, ok := sc.consts[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// LookupType searches this scope and its ancestors for a type alias.
func (s *Scope) LookupType(name string) (*TypeAlias, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// LookupVar searches this scope and its ancestors for a variable.
func (s *Scope) LookupVar(name string) (*Variable, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Lookup searches for any symbol (constant, type, or variable) bound to
// name, in that precedence order, matching Murphi's single shared
// identifier namespace.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	if c, ok := s.LookupConst(name); ok {
		return c, true
	}
	if t, ok := s.LookupType(name); ok {
		return t, true
	}
	if v, ok := s.LookupVar(name); ok {
		return v, true
	}
	return nil, false
}

// UndeclaredError builds a syntax error for a reference to an unbound name.
func UndeclaredError(pos source.Position, name string) *source.SyntaxError {
	return pos.SyntaxError("undeclared identifier '" + name + "'")
}
