package ast

// Expr represents an expression simple or complex.  The expressions produced
// by the front end are untyped: types are only assigned during generation.
type Expr interface {
	ASTNode

	exprNode()
}

func (*Literal) exprNode()    {}
func (*Identifier) exprNode() {}
func (*UnaryOp) exprNode()    {}
func (*BinaryOp) exprNode()   {}
func (*Range) exprNode()      {}
func (*ExprList) exprNode()   {}

// Enumeration of literal kinds.
const (
	LitInt = iota
	LitReal
	LitBool
)

// Literal represents a single literal value.  The value is stored exactly as
// it appeared in source text.
type Literal struct {
	ASTBase

	Kind  int
	Value string
}

// Identifier represents a named value such as an enum constant.
type Identifier struct {
	ASTBase

	Name string
}

// -----------------------------------------------------------------------------

// Enumeration of operator kinds.
const (
	OpAdd = iota
	OpSub
	OpMul
	OpDiv
	OpNot
)

// OpString returns the source text of an operator kind.
func OpString(op int) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpNot:
		return "NOT"
	}

	return "?"
}

// UnaryOp represents a unary operator application.
type UnaryOp struct {
	ASTBase

	Op      int
	Operand Expr
}

// BinaryOp represents a binary operator application.
type BinaryOp struct {
	ASTBase

	Op       int
	Lhs, Rhs Expr
}

// -----------------------------------------------------------------------------

// Range represents an inclusive range expression: `start..end`.
type Range struct {
	ASTBase

	Start, End Expr
}

// ExprList represents a comma separated list of expressions.
type ExprList struct {
	ASTBase

	Exprs []Expr
}

// AsList returns the expressions of an expression list or, for any other
// expression, a list containing only that expression.
func AsList(expr Expr) []Expr {
	if list, ok := expr.(*ExprList); ok {
		return list.Exprs
	}

	return []Expr{expr}
}
