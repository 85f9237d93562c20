package generate

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

// createGlobalVariable adds a global variable to the module.  If no initial
// value is given, the type's generic default is used.
func createGlobalVariable(mod *ir.Module, name string, typ types.Type, init constant.Constant) *ir.Global {
	if init == nil {
		init = DefaultValueFor(typ)
	}

	return mod.NewGlobalDef(name, init)
}

// createGlobalConstant adds an immutable, module-local global to the module.
func createGlobalConstant(mod *ir.Module, name string, init constant.Constant) *ir.Global {
	glob := mod.NewGlobalDef(name, init)
	glob.Immutable = true
	glob.Linkage = enum.LinkageInternal
	return glob
}

// createLocalVariable allocates a named local storage slot in the block.
func createLocalVariable(block *ir.Block, name string, typ types.Type) *ir.InstAlloca {
	alloca := block.NewAlloca(typ)
	alloca.SetName(name)
	return alloca
}
