package generate

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"plcc/ast"
	"plcc/report"
	"plcc/typeindex"
)

// InstanceStructGenerator generates the layout and default value of a single
// struct type: either a declared struct or the instance struct of a POU.  The
// default value is stored in LocalIndex rather than the global index: it is up
// to the caller to merge it once generation has succeeded.
type InstanceStructGenerator struct {
	gen         *Generator
	globalIndex *typeindex.Index
	exprGen     ExpressionGenerator

	// LocalIndex is the staging index holding the generated default value.
	LocalIndex *typeindex.Index
}

// NewInstanceStructGenerator creates a new instance struct generator resolving
// types through the generator's index and lowering initializers with its
// expression generator.
func NewInstanceStructGenerator(g *Generator) *InstanceStructGenerator {
	return &InstanceStructGenerator{
		gen:         g,
		globalIndex: g.index,
		exprGen:     g.exprGen,
		LocalIndex:  typeindex.New(),
	}
}

// variableDeclarationInformation is the generated form of a single member.
type variableDeclarationInformation struct {
	name        string
	typ         types.Type
	info        typeindex.DataTypeInformation
	initializer constant.Constant
}

// GenerateStructType fills in the body of the struct stub registered under
// name with the given members and computes its default value.  Members which
// have neither an initializer nor a type default are zero initialized.
func (isg *InstanceStructGenerator) GenerateStructType(members []*ast.Variable, name string, scope *ir.Block) (*types.StructType, error) {
	stub, ok := isg.globalIndex.FindTypeInformation(name)
	if !ok {
		return nil, report.ICE("no stub generated for struct `%s`", name)
	}

	sinfo, ok := stub.(*typeindex.StructInfo)
	if !ok {
		return nil, report.ICE("`%s` was stubbed as %s, not a struct", name, stub.TypeName())
	}

	vars := make([]variableDeclarationInformation, len(members))
	for i, member := range members {
		vdi, err := isg.genMember(member, name, scope)
		if err != nil {
			return nil, err
		}

		vars[i] = vdi
	}

	fieldTypes := make([]types.Type, len(vars))
	fieldValues := make([]constant.Constant, len(vars))
	for i, vdi := range vars {
		fieldTypes[i] = vdi.typ

		if vdi.initializer == nil {
			fieldValues[i] = DefaultValueFor(vdi.typ)
		} else {
			fieldValues[i] = vdi.initializer
		}
	}

	st := sinfo.Type
	st.Fields = fieldTypes
	st.Opaque = false

	isg.LocalIndex.AssociateTypeInitialValue(name, constant.NewStruct(st, fieldValues...))
	return st, nil
}

// genMember resolves the type of a member and computes its initial value.  The
// member takes the type its initializer was generated as.
func (isg *InstanceStructGenerator) genMember(member *ast.Variable, owner string, scope *ir.Block) (variableDeclarationInformation, error) {
	info, err := resolveTypeRef(isg.globalIndex, member.Type)
	if err != nil {
		return variableDeclarationInformation{}, report.WithSpan(err, member.Span())
	}

	vdi := variableDeclarationInformation{
		name: member.Name,
		typ:  info.LLType(),
		info: info,
	}

	if member.Initializer != nil {
		resolved, init, err := lowerInitializer(isg.exprGen, member.Initializer, info, scope, owner+"."+member.Name)
		if err != nil {
			return variableDeclarationInformation{}, err
		}

		if !init.Type().Equal(resolved.LLType()) {
			return variableDeclarationInformation{}, report.Raise(
				report.InitializerError,
				member.Initializer.Span(),
				"initializer of %s.%s was generated as %s but has type %s",
				owner,
				member.Name,
				resolved.LLType(),
				init.Type(),
			)
		}

		vdi.typ = resolved.LLType()
		vdi.info = resolved
		vdi.initializer = init
	} else if !member.Type.IsRef {
		// references always start out null, whatever the default of the
		// referenced type
		if err := isg.demandDefault(member.Type.Name, member.Span()); err != nil {
			return variableDeclarationInformation{}, err
		}

		if init, ok := isg.globalIndex.FindInitialValue(member.Type.Name); ok {
			vdi.initializer = init
		}
	}

	return vdi, nil
}

// demandDefault makes sure the default value of the named type and of every
// type along its alias chain has been generated.
func (isg *InstanceStructGenerator) demandDefault(name string, span *report.TextSpan) error {
	// the chain is known to be acyclic since the member type resolved
	for current := name; ; {
		if err := isg.gen.demandBody(current, span); err != nil {
			return err
		}

		alias, ok := isg.globalIndex.FindTypeInformation(current)
		if !ok {
			return nil
		}

		ai, ok := alias.(*typeindex.AliasInfo)
		if !ok {
			return nil
		}

		current = ai.ReferencedType
	}
}

// -----------------------------------------------------------------------------

// StructInstanceName returns the name of the instance allocated for a callable.
func StructInstanceName(callableName string) string {
	return callableName + "_instance"
}

// AllocateStructInstance allocates an instance of the struct type registered
// for callableName in block.  The type must already have been generated.
func (isg *InstanceStructGenerator) AllocateStructInstance(block *ir.Block, callableName string) (*ir.InstAlloca, error) {
	info, ok := isg.globalIndex.FindType(callableName)
	if !ok {
		return nil, report.Raise(report.LookupFailure, nil, "No type associated to %s", callableName)
	}

	sinfo, ok := info.(*typeindex.StructInfo)
	if !ok {
		return nil, report.Raise(report.LookupFailure, nil, "No type associated to %s", callableName)
	}

	return createLocalVariable(block, StructInstanceName(callableName), sinfo.Type), nil
}
