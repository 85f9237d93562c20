package generate

import (
	"math"
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"plcc/ast"
	"plcc/report"
	"plcc/typeindex"
)

func lowerConst(t *testing.T, idx *typeindex.Index, expr ast.Expr, expectedName string) (constant.Constant, error) {
	t.Helper()

	expected, ok := idx.FindTypeInformation(expectedName)
	if !ok {
		t.Fatalf("no type %s", expectedName)
	}

	ceg := NewConstExprGenerator(idx)
	_, val, err := ceg.GenerateExpression(expr, expected, nil)
	if err != nil {
		return nil, err
	}

	return val.(constant.Constant), nil
}

const maxLint = "9223372036854775807"

// minLint builds an expression evaluating to the smallest LINT.
func minLint() ast.Expr {
	return binary(ast.OpSub, unary(ast.OpSub, intLit(maxLint)), intLit("1"))
}

func TestConstExprIntegers(t *testing.T) {
	idx := typeindex.NewWithBuiltins()

	tests := []struct {
		expr ast.Expr
		typ  string
		want int64
	}{
		{intLit("42"), "INT", 42},
		{unary(ast.OpSub, intLit("5")), "INT", -5},
		{unary(ast.OpSub, unary(ast.OpSub, intLit("5"))), "SINT", 5},
		{binary(ast.OpAdd, binary(ast.OpMul, intLit("2"), intLit("3")), intLit("1")), "DINT", 7},
		{binary(ast.OpDiv, intLit("7"), intLit("2")), "DINT", 3},
		{binary(ast.OpSub, intLit("1"), intLit("4")), "LINT", -3},
		{unary(ast.OpNot, intLit("0")), "SINT", -1},
		{intLit("255"), "USINT", 255},
		{&ast.Literal{Kind: ast.LitBool, Value: "TRUE"}, "BOOL", 1},
		{unary(ast.OpNot, &ast.Literal{Kind: ast.LitBool, Value: "TRUE"}), "BOOL", 0},
		{&ast.Literal{Kind: ast.LitBool, Value: "TRUE"}, "INT", 1},
		{unary(ast.OpNot, intLit("0")), "BOOL", 1},
		{unary(ast.OpNot, intLit("3")), "BOOL", 0},
		{minLint(), "LINT", math.MinInt64},
	}

	for _, test := range tests {
		c, err := lowerConst(t, idx, test.expr, test.typ)
		if err != nil {
			t.Errorf("%s as %s: %v", ast.ExprString(test.expr), test.typ, err)
			continue
		}

		if got := intValue(t, c); got != test.want {
			t.Errorf("%s as %s = %d, want %d", ast.ExprString(test.expr), test.typ, got, test.want)
		}
	}
}

func TestConstExprReals(t *testing.T) {
	idx := typeindex.NewWithBuiltins()

	tests := []struct {
		expr ast.Expr
		want float64
	}{
		{realLit("1.5"), 1.5},
		{intLit("2"), 2},
		{binary(ast.OpDiv, intLit("1"), realLit("4.0")), 0.25},
		{unary(ast.OpSub, realLit("0.5")), -0.5},
	}

	for _, test := range tests {
		c, err := lowerConst(t, idx, test.expr, "LREAL")
		if err != nil {
			t.Errorf("%s: %v", ast.ExprString(test.expr), err)
			continue
		}

		cf, ok := c.(*constant.Float)
		if !ok {
			t.Errorf("%s: expected a float constant, got %T", ast.ExprString(test.expr), c)
			continue
		}
		if cf.Typ != types.Double {
			t.Errorf("%s: got type %s, want double", ast.ExprString(test.expr), cf.Typ)
		}
		if got, _ := cf.X.Float64(); got != test.want {
			t.Errorf("%s = %v, want %v", ast.ExprString(test.expr), got, test.want)
		}
	}
}

func TestConstExprErrors(t *testing.T) {
	idx := typeindex.NewWithBuiltins()

	tests := []struct {
		name string
		expr ast.Expr
		typ  string
		kind report.ErrorKind
	}{
		{"out of range", intLit("40000"), "INT", report.InitializerError},
		{"negative unsigned", unary(ast.OpSub, intLit("1")), "UINT", report.InitializerError},
		{"bool out of range", intLit("2"), "BOOL", report.InitializerError},
		{"real as integer", realLit("1.5"), "DINT", report.InitializerError},
		{"bool as real", &ast.Literal{Kind: ast.LitBool, Value: "FALSE"}, "REAL", report.InitializerError},
		{"division by zero", binary(ast.OpDiv, intLit("1"), intLit("0")), "DINT", report.InitializerError},
		{"bool arithmetic", binary(ast.OpAdd, &ast.Literal{Kind: ast.LitBool, Value: "TRUE"}, intLit("1")), "DINT", report.InitializerError},
		{"unknown constant", &ast.Identifier{Name: "NOWHERE"}, "DINT", report.LookupFailure},
		{"range", rangeOf(intLit("1"), intLit("2")), "DINT", report.InitializerError},
		{"bad literal", intLit("12abc"), "DINT", report.InitializerError},
		{"addition overflow", binary(ast.OpAdd, intLit(maxLint), intLit("1")), "LINT", report.InitializerError},
		{"subtraction overflow", binary(ast.OpSub, minLint(), intLit("1")), "LINT", report.InitializerError},
		{"multiplication overflow", binary(ast.OpMul, intLit(maxLint), intLit("2")), "LINT", report.InitializerError},
		{"negation overflow", unary(ast.OpSub, minLint()), "LINT", report.InitializerError},
		{"division overflow", binary(ast.OpDiv, minLint(), unary(ast.OpSub, intLit("1"))), "LINT", report.InitializerError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := lowerConst(t, idx, test.expr, test.typ)
			if !report.IsKind(err, test.kind) {
				t.Fatalf("expected a %s error, got %v", test.kind, err)
			}
		})
	}
}

func TestConstExprResolvesExpectedAlias(t *testing.T) {
	idx := typeindex.NewWithBuiltins()
	idx.AssociateTypeAlias("Small", "SINT")

	c, err := lowerConst(t, idx, intLit("100"), "Small")
	if err != nil {
		t.Fatal(err)
	}
	if c.Type() != types.I8 {
		t.Fatalf("expected an i8 constant, got %s", c.Type())
	}

	if _, err := lowerConst(t, idx, intLit("200"), "Small"); !report.IsKind(err, report.InitializerError) {
		t.Fatalf("expected 200 to be out of range for Small, got %v", err)
	}
}

func TestConstExprNullReference(t *testing.T) {
	idx := typeindex.NewWithBuiltins()
	ref, err := resolveTypeRef(idx, &ast.TypeRef{Name: "DINT", IsRef: true})
	if err != nil {
		t.Fatal(err)
	}

	ceg := NewConstExprGenerator(idx)
	_, val, err := ceg.GenerateExpression(intLit("0"), ref, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := val.(*constant.Null); !ok {
		t.Fatalf("expected null, got %T", val)
	}

	if _, _, err := ceg.GenerateExpression(intLit("1"), ref, nil); !report.IsKind(err, report.InitializerError) {
		t.Fatalf("expected a non-zero reference initializer to fail, got %v", err)
	}
}
