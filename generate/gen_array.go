package generate

import (
	"fortio.org/safecast"
	"github.com/llir/llvm/ir/types"

	"plcc/ast"
	"plcc/report"
	"plcc/typeindex"
)

// GetArrayDimensions converts the bounds of an array declaration into its
// dimensions.  The bounds must be a range or a list of ranges: any other shape
// is an error.  Bounds which cannot be folded to an integer default to 0 and a
// warning is emitted.
func (g *Generator) GetArrayDimensions(bounds ast.Expr) ([]typeindex.Dimension, error) {
	if bounds == nil {
		return nil, report.Raise(report.ShapeMismatch, nil, "array declaration is missing its bounds")
	}

	exprs := ast.AsList(bounds)
	if len(exprs) == 0 {
		return nil, report.Raise(report.ShapeMismatch, bounds.Span(), "array must have at least one dimension")
	}

	dims := make([]typeindex.Dimension, 0, len(exprs))
	for _, expr := range exprs {
		dim, err := g.getSingleArrayDimension(expr)
		if err != nil {
			return nil, err
		}

		dims = append(dims, dim)
	}

	return dims, nil
}

// getSingleArrayDimension converts a single range expression to a dimension.
func (g *Generator) getSingleArrayDimension(expr ast.Expr) (typeindex.Dimension, error) {
	rng, ok := expr.(*ast.Range)
	if !ok {
		return typeindex.Dimension{}, report.Raise(
			report.ShapeMismatch,
			expr.Span(),
			"unexpected expression `%s`, expected range",
			ast.ExprString(expr),
		)
	}

	return typeindex.Dimension{
		StartOffset: g.foldBound(rng.Start),
		EndOffset:   g.foldBound(rng.End),
	}, nil
}

// foldBound folds a single array bound, defaulting to 0 on failure.
func (g *Generator) foldBound(expr ast.Expr) int32 {
	if val, ok := EvaluateConstantInt(expr); ok {
		return val
	}

	g.warnings.Warn(expr.Span(), "array bound `"+ast.ExprString(expr)+"` is not a constant integer: using 0")
	return 0
}

// CreateNestedArrayType builds the LLVM type of a multi-dimensional array.
// The dimensions are wrapped from last to first so that the first declared
// dimension is the outermost: `[1..2, 1..3] OF INT` is `[2 x [3 x i16]]`.
func CreateNestedArrayType(elemType types.Type, dims []typeindex.Dimension) (*types.ArrayType, error) {
	if len(dims) == 0 {
		return nil, report.Raise(report.ShapeMismatch, nil, "array must have at least one dimension")
	}

	var result *types.ArrayType
	current := elemType
	for i := len(dims) - 1; i >= 0; i-- {
		length, err := safecast.Conv[uint64](dims[i].Length())
		if err != nil {
			return nil, report.Raise(
				report.ShapeMismatch,
				nil,
				"dimension %d (%d..%d) has a negative length",
				i+1,
				dims[i].StartOffset,
				dims[i].EndOffset,
			)
		}

		result = types.NewArray(length, current)
		current = result
	}

	return result, nil
}
