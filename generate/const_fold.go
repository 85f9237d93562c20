package generate

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"plcc/ast"
)

// EvaluateConstantInt folds an array bound to an integer.  Only integer
// literals and chains of unary sign operators applied to them are supported:
// each `-` negates and each `+` is the identity, so `--5` folds to 5.  Any
// other expression, or a value that does not fit in 32 bits, fails to fold.
func EvaluateConstantInt(expr ast.Expr) (int32, bool) {
	val, ok := foldSignedLiteral(expr)
	if !ok {
		return 0, false
	}

	result, err := safecast.Conv[int32](val)
	if err != nil {
		return 0, false
	}

	return result, true
}

// foldSignedLiteral evaluates a sign chain in 64 bits so that intermediate
// negations of the minimum 32 bit value do not overflow.
func foldSignedLiteral(expr ast.Expr) (int64, bool) {
	switch v := expr.(type) {
	case *ast.Literal:
		if v.Kind != ast.LitInt {
			return 0, false
		}

		n, err := strconv.ParseInt(strings.ReplaceAll(v.Value, "_", ""), 10, 64)
		if err != nil {
			return 0, false
		}

		return n, true
	case *ast.UnaryOp:
		operand, ok := foldSignedLiteral(v.Operand)
		if !ok {
			return 0, false
		}

		switch v.Op {
		case ast.OpAdd:
			return operand, true
		case ast.OpSub:
			return -operand, true
		}
	}

	return 0, false
}
