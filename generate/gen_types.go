package generate

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"plcc/ast"
	"plcc/report"
	"plcc/typeindex"
)

// GenerateDataTypeStubs runs the stub pass over a list of declarations.  Every
// declared name is registered in the index: structs as opaque types, enums as
// 32 bit integers and sub-ranges as aliases.  Arrays are generated completely
// since they never need to refer to themselves.  Declarations are processed in
// source order and the first failure aborts the pass.
func (g *Generator) GenerateDataTypeStubs(decls []ast.DataType) error {
	for _, decl := range decls {
		decl := decl
		if err := g.beginStub(decl.TypeName(), decl.Span()); err != nil {
			return err
		}

		if err := g.genTypeStub(decl); err != nil {
			return err
		}

		g.pending[stateKey(decl.TypeName())] = func() error {
			return g.genTypeBody(decl)
		}
	}

	return nil
}

// genTypeStub generates the stub of a single declaration.
func (g *Generator) genTypeStub(decl ast.DataType) error {
	switch v := decl.(type) {
	case *ast.StructType:
		g.index.AssociateType(v.Name, &typeindex.StructInfo{
			Name: v.Name,
			Type: g.newOpaqueStruct(v.Name),
		})
	case *ast.EnumType:
		g.index.AssociateType(v.Name, &typeindex.IntegerInfo{
			Name:   v.Name,
			Signed: true,
			Size:   32,
			Type:   types.I32,
		})
	case *ast.SubRangeType:
		g.index.AssociateTypeAlias(v.Name, v.ReferencedType)
	case *ast.ArrayType:
		return g.genArrayType(v)
	default:
		return report.ICE("stub pass received unsupported declaration `%s`", decl.TypeName())
	}

	return nil
}

// genArrayType generates an array type: its dimensions, its element type and
// the nested LLVM array type.
func (g *Generator) genArrayType(at *ast.ArrayType) error {
	dims, err := g.GetArrayDimensions(at.Bounds)
	if err != nil {
		return err
	}

	elemInfo, err := resolveTypeRef(g.index, at.ReferencedType)
	if err != nil {
		return err
	}

	arrType, err := CreateNestedArrayType(elemInfo.LLType(), dims)
	if err != nil {
		return report.WithSpan(err, at.Span())
	}

	g.index.AssociateType(at.Name, &typeindex.ArrayInfo{
		Name:                    at.Name,
		InternalTypeInformation: elemInfo.Clone(),
		Dimensions:              dims,
		Type:                    arrType,
	})

	return nil
}

// -----------------------------------------------------------------------------

// GenerateDataTypes runs the body pass over a list of declarations.  The stub
// pass must already have run over the same declarations.  A struct member whose
// type is declared later has that type's body generated first so that it can
// take on the type's default value.
func (g *Generator) GenerateDataTypes(decls []ast.DataType) error {
	for _, decl := range decls {
		if err := g.genBody(decl.TypeName(), func() error {
			return g.genTypeBody(decl)
		}); err != nil {
			return err
		}
	}

	return nil
}

// genTypeBody generates the body of a single declaration.
func (g *Generator) genTypeBody(decl ast.DataType) error {
	switch v := decl.(type) {
	case *ast.StructType:
		isg := NewInstanceStructGenerator(g)
		if _, err := isg.GenerateStructType(v.Members, v.Name, nil); err != nil {
			return err
		}

		g.index.Merge(isg.LocalIndex)
	case *ast.EnumType:
		return g.genEnumConstants(v)
	case *ast.SubRangeType:
		return g.genSubRangeBody(v)
	case *ast.ArrayType:
		// arrays are complete after the stub pass
	default:
		return report.ICE("body pass received unsupported declaration `%s`", decl.TypeName())
	}

	return nil
}

// genEnumConstants creates one integer constant per enum element equal to the
// element's position in the declaration.  Element names share one namespace
// across all enums.
func (g *Generator) genEnumConstants(et *ast.EnumType) error {
	for _, elem := range et.Elements {
		if err := g.claimGlobal(elem, et.Span()); err != nil {
			return err
		}
	}

	for i, elem := range et.Elements {
		glob := createGlobalConstant(g.mod, elem, constant.NewInt(types.I32, int64(i)))
		g.index.AssociateGlobalVariable(elem, glob)
	}

	return nil
}

// genSubRangeBody re-records the alias and attaches its default value if it
// has one.
func (g *Generator) genSubRangeBody(srt *ast.SubRangeType) error {
	g.index.AssociateTypeAlias(srt.Name, srt.ReferencedType)

	if srt.Initializer == nil {
		return nil
	}

	target, err := g.index.ResolveType(srt.ReferencedType)
	if err != nil {
		return report.WithSpan(err, srt.Span())
	}

	_, init, err := lowerInitializer(g.exprGen, srt.Initializer, target, nil, srt.Name)
	if err != nil {
		return err
	}

	g.index.AssociateTypeInitialValue(srt.Name, init)
	return nil
}
