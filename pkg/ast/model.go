package ast

// Param is one formal parameter of a procedure or function.
type Param struct {
	Ident   string
	Type    Type
	ByRef   bool
	Variable *Variable // bound once the body's scope is opened
}

// ProcedureDecl is a user-defined procedure: a named, parameterised sequence
// of statements with no return value.
type ProcedureDecl struct {
	Node
	Ident  string
	Params []Param
	Body   []Stmt
	Scope  *Scope
}

// FunctionDecl is a user-defined function: a named, parameterised sequence
// of statements that must terminate in a Return with a value.
type FunctionDecl struct {
	Node
	Ident      string
	Params     []Param
	ResultType Type
	Body       []Stmt
	Scope      *Scope
}

// RuleKind distinguishes the different top-level rule forms (spec §3).
type RuleKind uint

const (
	StartstateRule RuleKind = iota
	SimpleRule
	InvariantRule
	LivenessRule
	CoverRule
	RuleSetRule
	AliasRule
)

// Rule is one top-level rule/startstate/invariant/liveness/cover/ruleset/
// alias declaration.  Guard is the rule's optional enabling condition
// (non-nil only for SimpleRule/RuleSetRule); Body is its effect.
type Rule struct {
	Node
	Kind  RuleKind
	Ident string
	// Quantifiers binds the ruleset's `for`-style parameters, each ranging
	// over a finite Domain; empty outside a RuleSetRule.
	Quantifiers []Param
	Guard       Expr
	Body        []Stmt
	// Nested holds the rules contained in a RuleSetRule or an alias block
	// wrapping further rules.
	Nested []*Rule
	// AliasTarget is set for AliasRule.
	AliasTarget *VarRead
	AliasIdent  string
	Scope       *Scope
}

// Model is the root of a parsed-and-resolved Murphi specification: every
// top-level declaration plus the scope they were declared in.  There is
// exactly one Model per compiled file set, and every pass after parsing
// rewrites this tree in place.
type Model struct {
	Consts     []*Constant
	Types      []*TypeAlias
	Vars       []*Variable
	Procedures []*ProcedureDecl
	Functions  []*FunctionDecl
	Rules      []*Rule
	Scope      *Scope
	// StateWidth is the total bit width of the packed state vector, set by
	// the layout planner.
	StateWidth uint
	// DefinedCount is the total number of leaf-scalar defined-bit slots
	// across every state variable, set by the layout planner (DESIGN.md's
	// undefined-value encoding: one defined bit per leaf scalar, tracked
	// separately from the value bits).
	DefinedCount uint
}
