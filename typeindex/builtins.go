package typeindex

import "github.com/llir/llvm/ir/types"

// builtinIntegers lists the elementary integral types.
var builtinIntegers = []struct {
	name   string
	signed bool
	typ    *types.IntType
}{
	{"BOOL", false, types.I1},
	{"SINT", true, types.I8},
	{"INT", true, types.I16},
	{"DINT", true, types.I32},
	{"LINT", true, types.I64},
	{"USINT", false, types.I8},
	{"UINT", false, types.I16},
	{"UDINT", false, types.I32},
	{"ULINT", false, types.I64},
	{"BYTE", false, types.I8},
	{"WORD", false, types.I16},
	{"DWORD", false, types.I32},
	{"LWORD", false, types.I64},
}

// NewWithBuiltins creates a new index with all the elementary types already
// registered.
func NewWithBuiltins() *Index {
	idx := New()

	for _, bi := range builtinIntegers {
		idx.AssociateType(bi.name, &IntegerInfo{
			Name:   bi.name,
			Signed: bi.signed,
			Size:   bi.typ.BitSize,
			Type:   bi.typ,
		})
	}

	idx.AssociateType("REAL", &FloatInfo{Name: "REAL", Size: 32, Type: types.Float})
	idx.AssociateType("LREAL", &FloatInfo{Name: "LREAL", Size: 64, Type: types.Double})

	return idx
}
