package ast

import "strings"

// ExprString renders an expression back to source text.  It is used to
// describe expressions in error messages.
func ExprString(expr Expr) string {
	sb := &strings.Builder{}
	writeExpr(sb, expr)
	return sb.String()
}

func writeExpr(sb *strings.Builder, expr Expr) {
	switch v := expr.(type) {
	case nil:
		sb.WriteString("<nothing>")
	case *Literal:
		sb.WriteString(v.Value)
	case *Identifier:
		sb.WriteString(v.Name)
	case *UnaryOp:
		sb.WriteString(OpString(v.Op))
		if v.Op == OpNot {
			sb.WriteRune(' ')
		}
		writeExpr(sb, v.Operand)
	case *BinaryOp:
		sb.WriteRune('(')
		writeExpr(sb, v.Lhs)
		sb.WriteString(" " + OpString(v.Op) + " ")
		writeExpr(sb, v.Rhs)
		sb.WriteRune(')')
	case *Range:
		writeExpr(sb, v.Start)
		sb.WriteString("..")
		writeExpr(sb, v.End)
	case *ExprList:
		for i, e := range v.Exprs {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, e)
		}
	}
}
