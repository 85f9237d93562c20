package generate

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"

	"plcc/ast"
	"plcc/report"
	"plcc/typeindex"
)

// ConstExprGenerator is an ExpressionGenerator for constant initializers.  It
// supports literals, the unary operators `+`, `-` and `NOT`, integer and real
// arithmetic, and references to enumeration constants.  The result is always
// converted to the expected type.
type ConstExprGenerator struct {
	index *typeindex.Index
}

// NewConstExprGenerator creates a constant expression generator which looks
// up enumeration constants in the given index.
func NewConstExprGenerator(index *typeindex.Index) *ConstExprGenerator {
	return &ConstExprGenerator{index: index}
}

// Enumeration of the kinds of constant values.
const (
	cvInt = iota
	cvReal
	cvBool
)

// constValue is an intermediate constant computed before it is converted to
// its target type.
type constValue struct {
	kind int
	i    int64
	f    float64
	b    bool
}

func (cv constValue) asFloat() float64 {
	if cv.kind == cvInt {
		return float64(cv.i)
	}

	return cv.f
}

// GenerateExpression evaluates expr and converts the result to the expected
// type, which is also the type returned.  Expected aliases are resolved first.
// The scope is unused since constants are never generated into a block.
func (ceg *ConstExprGenerator) GenerateExpression(expr ast.Expr, expected typeindex.DataTypeInformation, scope *ir.Block) (typeindex.DataTypeInformation, value.Value, error) {
	if alias, ok := expected.(*typeindex.AliasInfo); ok {
		resolved, err := ceg.index.ResolveType(alias.Name)
		if err != nil {
			return nil, nil, err
		}

		expected = resolved
	}

	// `NOT` is logical rather than bitwise when initializing a boolean
	ii, ok := expected.(*typeindex.IntegerInfo)
	logical := ok && ii.Size == 1

	cv, err := ceg.eval(expr, logical)
	if err != nil {
		return nil, nil, err
	}

	c, err := convertConst(cv, expected, expr.Span())
	if err != nil {
		return nil, nil, err
	}

	return expected, c, nil
}

// eval computes the value of a constant expression.
func (ceg *ConstExprGenerator) eval(expr ast.Expr, logical bool) (constValue, error) {
	switch v := expr.(type) {
	case *ast.Literal:
		return evalLiteral(v)
	case *ast.Identifier:
		return ceg.evalConstantRef(v)
	case *ast.UnaryOp:
		operand, err := ceg.eval(v.Operand, logical)
		if err != nil {
			return constValue{}, err
		}

		return evalUnary(v, operand, logical)
	case *ast.BinaryOp:
		lhs, err := ceg.eval(v.Lhs, logical)
		if err != nil {
			return constValue{}, err
		}

		rhs, err := ceg.eval(v.Rhs, logical)
		if err != nil {
			return constValue{}, err
		}

		return evalBinary(v, lhs, rhs)
	}

	return constValue{}, report.Raise(
		report.InitializerError,
		expr.Span(),
		"`%s` is not a constant expression",
		ast.ExprString(expr),
	)
}

func evalLiteral(lit *ast.Literal) (constValue, error) {
	text := strings.ReplaceAll(lit.Value, "_", "")

	switch lit.Kind {
	case ast.LitInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return constValue{}, report.Raise(report.InitializerError, lit.Span(), "invalid integer literal `%s`", lit.Value)
		}

		return constValue{kind: cvInt, i: n}, nil
	case ast.LitReal:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return constValue{}, report.Raise(report.InitializerError, lit.Span(), "invalid real literal `%s`", lit.Value)
		}

		return constValue{kind: cvReal, f: f}, nil
	default:
		return constValue{kind: cvBool, b: strings.EqualFold(text, "TRUE")}, nil
	}
}

// evalConstantRef evaluates a reference to an enumeration constant.
func (ceg *ConstExprGenerator) evalConstantRef(id *ast.Identifier) (constValue, error) {
	glob, ok := ceg.index.FindGlobalVariable(id.Name)
	if !ok {
		return constValue{}, report.Raise(report.LookupFailure, id.Span(), "unknown constant '%s'", id.Name)
	}

	c, ok := glob.Init.(*constant.Int)
	if !ok || !glob.Immutable {
		return constValue{}, report.Raise(report.InitializerError, id.Span(), "'%s' is not an integer constant", id.Name)
	}

	return constValue{kind: cvInt, i: c.X.Int64()}, nil
}

func evalUnary(uop *ast.UnaryOp, operand constValue, logical bool) (constValue, error) {
	switch uop.Op {
	case ast.OpAdd:
		if operand.kind != cvBool {
			return operand, nil
		}
	case ast.OpSub:
		switch operand.kind {
		case cvInt:
			return checkedInt(new(big.Int).Neg(big.NewInt(operand.i)), uop)
		case cvReal:
			return constValue{kind: cvReal, f: -operand.f}, nil
		}
	case ast.OpNot:
		switch operand.kind {
		case cvBool:
			return constValue{kind: cvBool, b: !operand.b}, nil
		case cvInt:
			if logical {
				return constValue{kind: cvBool, b: operand.i == 0}, nil
			}

			return constValue{kind: cvInt, i: ^operand.i}, nil
		}
	}

	return constValue{}, report.Raise(
		report.InitializerError,
		uop.Span(),
		"operator `%s` cannot be applied to `%s`",
		ast.OpString(uop.Op),
		ast.ExprString(uop.Operand),
	)
}

func evalBinary(bop *ast.BinaryOp, lhs, rhs constValue) (constValue, error) {
	if lhs.kind == cvBool || rhs.kind == cvBool || bop.Op == ast.OpNot {
		return constValue{}, report.Raise(
			report.InitializerError,
			bop.Span(),
			"operator `%s` cannot be applied to `%s`",
			ast.OpString(bop.Op),
			ast.ExprString(bop),
		)
	}

	if lhs.kind == cvReal || rhs.kind == cvReal {
		x, y := lhs.asFloat(), rhs.asFloat()

		switch bop.Op {
		case ast.OpAdd:
			return constValue{kind: cvReal, f: x + y}, nil
		case ast.OpSub:
			return constValue{kind: cvReal, f: x - y}, nil
		case ast.OpMul:
			return constValue{kind: cvReal, f: x * y}, nil
		default:
			return constValue{kind: cvReal, f: x / y}, nil
		}
	}

	x, y := big.NewInt(lhs.i), big.NewInt(rhs.i)

	switch bop.Op {
	case ast.OpAdd:
		return checkedInt(x.Add(x, y), bop)
	case ast.OpSub:
		return checkedInt(x.Sub(x, y), bop)
	case ast.OpMul:
		return checkedInt(x.Mul(x, y), bop)
	default:
		if rhs.i == 0 {
			return constValue{}, report.Raise(report.InitializerError, bop.Span(), "division by zero in `%s`", ast.ExprString(bop))
		}

		// Quo truncates toward zero like integer division in the target
		return checkedInt(x.Quo(x, y), bop)
	}
}

// checkedInt converts the exact result of an integer operation to a constant
// value, failing if it does not fit in 64 bits.
func checkedInt(n *big.Int, expr ast.Expr) (constValue, error) {
	if !n.IsInt64() {
		return constValue{}, report.Raise(report.InitializerError, expr.Span(), "integer overflow in `%s`", ast.ExprString(expr))
	}

	return constValue{kind: cvInt, i: n.Int64()}, nil
}

// -----------------------------------------------------------------------------

// convertConst converts a computed value to a constant of the expected type.
func convertConst(cv constValue, expected typeindex.DataTypeInformation, span *report.TextSpan) (constant.Constant, error) {
	switch v := expected.(type) {
	case *typeindex.IntegerInfo:
		var n int64
		switch cv.kind {
		case cvInt:
			n = cv.i
		case cvBool:
			if cv.b {
				n = 1
			}
		default:
			return nil, report.Raise(report.InitializerError, span, "cannot initialize %s with a real value", v.Name)
		}

		if !fitsInt(n, v.Size, v.Signed) {
			return nil, report.Raise(report.InitializerError, span, "value %d is out of range for %s", n, v.Name)
		}

		return constant.NewInt(v.Type, n), nil
	case *typeindex.FloatInfo:
		if cv.kind == cvBool {
			return nil, report.Raise(report.InitializerError, span, "cannot initialize %s with a boolean value", v.Name)
		}

		return constant.NewFloat(v.Type, cv.asFloat()), nil
	case *typeindex.PointerInfo:
		if cv.kind == cvInt && cv.i == 0 {
			return constant.NewNull(v.Type), nil
		}
	}

	name := "<unknown>"
	if expected != nil {
		name = expected.TypeName()
	}

	return nil, report.Raise(report.InitializerError, span, "cannot initialize %s with a scalar constant", name)
}

// fitsInt returns whether n is representable in an integer of the given size
// and signedness.  Booleans (size 1) accept 0 and 1.
func fitsInt(n int64, size uint64, signed bool) bool {
	if size >= 64 {
		return signed || n >= 0
	}

	if size == 1 || !signed {
		return n >= 0 && uint64(n) < uint64(1)<<size
	}

	limit := int64(1) << (size - 1)
	return -limit <= n && n < limit
}
