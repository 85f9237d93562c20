package generate

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// DefaultValueFor returns the generic default value of an LLVM type: zero for
// scalars, null for pointers and a zero initializer for aggregates.
func DefaultValueFor(t types.Type) constant.Constant {
	switch v := t.(type) {
	case *types.IntType:
		return constant.NewInt(v, 0)
	case *types.FloatType:
		return constant.NewFloat(v, 0)
	case *types.PointerType:
		return constant.NewNull(v)
	}

	return constant.NewZeroInitializer(t)
}
