package ast

import "math/big"

// Expr is any Murphi expression.  Every concrete expression type also
// implements AsConstant, returning a non-nil value iff the folder has
// determined (or could immediately see) the expression is a compile-time
// constant — mirroring the teacher's constant-folding contract.
type Expr interface {
	// ResultType returns this expression's type.  Only valid after
	// resolution.
	ResultType() Type
	// SetResultType is called by the resolver once the expression's type
	// is known.
	SetResultType(Type)
	exprNode()
}

type ExprBase struct {
	Node
	rtype Type
}

func (e *ExprBase) ResultType() Type        { return e.rtype }
func (e *ExprBase) SetResultType(t Type) { e.rtype = t }

// Lit is a literal integer, boolean, enum value, or the undefined value.
type Lit struct {
	ExprBase
	Int *big.Int
	Bool bool
	Kind LitKind
	// EnumType/EnumIndex are set for EnumLit: a bare reference to one of
	// EnumType's member identifiers, which the parser cannot distinguish
	// from a variable reference until the resolver knows every type's
	// member list (spec §3: scalarset/enum values are never literals in
	// the source text itself, but enum member names are).
	EnumType  *Enum
	EnumIndex int
}

// LitKind distinguishes the different literal forms.
type LitKind uint

const (
	IntLit LitKind = iota
	BoolLit
	UndefinedLit
	EnumLit
)

func (*Lit) exprNode() {}

// VarRead reads a variable's (possibly partially-indexed/selected) value.
// Sym is the variable being read; Path records any trailing array
// index/field selections/dereferences applied to it, left to right. Ident is
// the identifier text the parser saw, retained even when Sym could not be
// bound at parse time (either a genuine undeclared name, or a bare
// enum-member reference that pkg/resolve recovers once every type is known).
type VarRead struct {
	ExprBase
	Sym   *Variable
	Path  []Selector
	Ident string
}

func (*VarRead) exprNode() {}

// Selector is one array-index or record-field-selection step applied to an
// l-value designator.
type Selector interface {
	selectorNode()
}

// IndexSelector is array indexing: expr[Index].
type IndexSelector struct {
	Index Expr
}

func (*IndexSelector) selectorNode() {}

// FieldSelector is record field selection: expr.Field.
type FieldSelector struct {
	Field string
}

func (*FieldSelector) selectorNode() {}

// BinOp is one of Murphi's binary operators (spec §4.A/§4.C): arithmetic
// (+ - * / %), comparisons (= != < <= > >=), and boolean connectives (& |).
type BinOp struct {
	ExprBase
	Op          BinaryOperator
	Left, Right Expr
}

func (*BinOp) exprNode() {}

// BinaryOperator enumerates the binary operator kinds.
type BinaryOperator uint

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	// OpImplies is Murphi's boolean implication (a -> b); strength reduction
	// rewrites it to ¬a∨b (spec §4.D) so it never reaches the code generator.
	OpImplies
	// OpBoolEq/OpBoolNeq and OpIntEq/OpIntNeq are the type-specialised forms
	// the resolver rewrites OpEq/OpNeq into once operand types are known
	// (spec §4.C); strength reduction only ever sees these, never the
	// generic OpEq/OpNeq.
	OpBoolEq
	OpBoolNeq
	OpIntEq
	OpIntNeq
)

// Not is boolean negation.
type Not struct {
	ExprBase
	Operand Expr
}

func (*Not) exprNode() {}

// Ternary is Murphi's conditional expression: Cond ? Then : Else.
type Ternary struct {
	ExprBase
	Cond, Then, Else Expr
}

func (*Ternary) exprNode() {}

// Quantifier is shared structure for forall/exists expressions: a bound
// variable ranging over Domain, with Body evaluated once per binding.
type Quantifier struct {
	ExprBase
	Bound  *Variable
	Domain Type
	Body   Expr
	Exists bool // false = forall, true = exists
}

func (*Quantifier) exprNode() {}

// IsUndefined tests whether a designator currently holds the undefined
// value.
type IsUndefined struct {
	ExprBase
	Operand *VarRead
}

func (*IsUndefined) exprNode() {}

// FuncCall is a call to a user-defined function in expression position.
// CalleeName is what the parser saw; Callee is filled in by pkg/resolve once
// every function declaration in the model is known (a call may textually
// precede its callee's declaration).
type FuncCall struct {
	ExprBase
	CalleeName string
	Callee     *FunctionDecl
	Args       []Expr
}

func (*FuncCall) exprNode() {}
