package generate

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"plcc/ast"
	"plcc/typeindex"
)

// GeneratePouStubs registers an opaque instance struct for each POU.  POUs
// share the namespace of data types.
func (g *Generator) GeneratePouStubs(pous []*ast.Pou) error {
	for _, pou := range pous {
		pou := pou
		if err := g.beginStub(pou.Name, pou.Span()); err != nil {
			return err
		}

		g.index.AssociateType(pou.Name, &typeindex.StructInfo{
			Name: pou.Name,
			Type: g.newOpaqueStruct(pou.Name),
		})

		g.pending[stateKey(pou.Name)] = func() error {
			return g.genPouBody(pou)
		}
	}

	return nil
}

// GeneratePouInstanceTypes generates the instance struct of each POU from its
// variables.  Programs have exactly one instance which is stored in a global
// initialized with the default value of the instance struct.
func (g *Generator) GeneratePouInstanceTypes(pous []*ast.Pou) error {
	for _, pou := range pous {
		if err := g.genBody(pou.Name, func() error {
			return g.genPouBody(pou)
		}); err != nil {
			return err
		}
	}

	return nil
}

// genPouBody generates the instance struct of a single POU.
func (g *Generator) genPouBody(pou *ast.Pou) error {
	if pou.Kind == ast.PouProgram {
		if err := g.claimGlobal(StructInstanceName(pou.Name), pou.Span()); err != nil {
			return err
		}
	}

	isg := NewInstanceStructGenerator(g)
	st, err := isg.GenerateStructType(pou.Variables, pou.Name, nil)
	if err != nil {
		return err
	}

	g.index.Merge(isg.LocalIndex)

	if pou.Kind == ast.PouProgram {
		init, _ := g.index.FindInitialValue(pou.Name)
		glob := createGlobalVariable(g.mod, StructInstanceName(pou.Name), st, init)
		g.index.AssociateGlobalVariable(StructInstanceName(pou.Name), glob)
	}

	return nil
}

// GenerateCallFrame generates an internal function `<callee>_frame` whose
// entry block allocates a fresh instance of the callee's instance struct: the
// activation record a call to the callee is given.  The function is only added
// to the module if the allocation succeeds.
func (g *Generator) GenerateCallFrame(callee string) (*ir.Func, error) {
	fn := ir.NewFunc(callee+"_frame", types.Void)
	fn.Linkage = enum.LinkageInternal

	entry := fn.NewBlock("entry")

	isg := NewInstanceStructGenerator(g)
	if _, err := isg.AllocateStructInstance(entry, callee); err != nil {
		return nil, err
	}

	entry.NewRet(nil)

	fn.Parent = g.mod
	g.mod.Funcs = append(g.mod.Funcs, fn)
	return fn, nil
}
