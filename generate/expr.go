package generate

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"plcc/ast"
	"plcc/report"
	"plcc/typeindex"
)

// ExpressionGenerator lowers expressions to LLVM values.  The data type
// generators only use it to lower initializers: expected is the type the
// initializer is assigned to and scope is the block the value is generated in,
// which is nil for type-level initializers.  It returns the type the value was
// actually generated as along with the value.
type ExpressionGenerator interface {
	GenerateExpression(expr ast.Expr, expected typeindex.DataTypeInformation, scope *ir.Block) (typeindex.DataTypeInformation, value.Value, error)
}

// lowerInitializer lowers an initializer and checks that it is a constant.
func lowerInitializer(eg ExpressionGenerator, expr ast.Expr, expected typeindex.DataTypeInformation, scope *ir.Block, owner string) (typeindex.DataTypeInformation, constant.Constant, error) {
	resolved, val, err := eg.GenerateExpression(expr, expected, scope)
	if err != nil {
		return nil, nil, err
	}

	c, ok := val.(constant.Constant)
	if !ok {
		return nil, nil, report.Raise(
			report.InitializerError,
			expr.Span(),
			"initializer of %s is not a constant expression",
			owner,
		)
	}

	if resolved == nil || resolved.LLType() == nil {
		resolved = expected
	}

	return resolved, c, nil
}

// resolveTypeRef finds the type information a type reference denotes.
// References to a named type resolve through the global index; `REF_TO`
// references wrap the named type in a pointer.
func resolveTypeRef(index *typeindex.Index, ref *ast.TypeRef) (typeindex.DataTypeInformation, error) {
	if ref == nil {
		return nil, report.Raise(report.LookupFailure, nil, "missing datatype")
	}

	info, err := index.ResolveType(ref.Name)
	if err != nil {
		return nil, report.WithSpan(err, ref.Span())
	}

	if !ref.IsRef {
		return info, nil
	}

	return &typeindex.PointerInfo{
		Name:  "REF_TO " + info.TypeName(),
		Inner: info,
		Type:  types.NewPointer(info.LLType()),
	}, nil
}
