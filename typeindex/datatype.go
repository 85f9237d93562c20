package typeindex

import (
	"github.com/llir/llvm/ir/types"
)

// DataTypeInformation describes a named data type: its category, the details
// particular to that category, and the LLVM type generated for it.  The set of
// implementations is closed: StructInfo, IntegerInfo, FloatInfo, PointerInfo,
// AliasInfo and ArrayInfo.
type DataTypeInformation interface {
	// TypeName returns the name the type was declared with.
	TypeName() string

	// LLType returns the generated LLVM type.  Aliases return nil: they must be
	// resolved through the index first.
	LLType() types.Type

	// Clone returns a deep copy of the information.  Generated LLVM types are
	// handles and are shared, not copied.
	Clone() DataTypeInformation

	dataTypeInfo()
}

func (*StructInfo) dataTypeInfo()  {}
func (*IntegerInfo) dataTypeInfo() {}
func (*FloatInfo) dataTypeInfo()   {}
func (*PointerInfo) dataTypeInfo() {}
func (*AliasInfo) dataTypeInfo()   {}
func (*ArrayInfo) dataTypeInfo()   {}

// -----------------------------------------------------------------------------

// StructInfo is a structured type.  Its LLVM type is a named struct which is
// opaque until its body is generated.
type StructInfo struct {
	Name string
	Type *types.StructType
}

func (si *StructInfo) TypeName() string   { return si.Name }
func (si *StructInfo) LLType() types.Type { return si.Type }

func (si *StructInfo) Clone() DataTypeInformation {
	c := *si
	return &c
}

// IntegerInfo is an integral type.  Enumerations are signed 32 bit integers.
type IntegerInfo struct {
	Name   string
	Signed bool
	Size   uint64
	Type   *types.IntType
}

func (ii *IntegerInfo) TypeName() string   { return ii.Name }
func (ii *IntegerInfo) LLType() types.Type { return ii.Type }

func (ii *IntegerInfo) Clone() DataTypeInformation {
	c := *ii
	return &c
}

// FloatInfo is a floating point type.
type FloatInfo struct {
	Name string
	Size uint64
	Type *types.FloatType
}

func (fi *FloatInfo) TypeName() string   { return fi.Name }
func (fi *FloatInfo) LLType() types.Type { return fi.Type }

func (fi *FloatInfo) Clone() DataTypeInformation {
	c := *fi
	return &c
}

// PointerInfo is a reference to another type (`REF_TO T`).
type PointerInfo struct {
	Name  string
	Inner DataTypeInformation
	Type  *types.PointerType
}

func (pi *PointerInfo) TypeName() string   { return pi.Name }
func (pi *PointerInfo) LLType() types.Type { return pi.Type }

func (pi *PointerInfo) Clone() DataTypeInformation {
	c := *pi
	c.Inner = pi.Inner.Clone()
	return &c
}

// AliasInfo is a named alias of another type.  Only the name of the referenced
// type is stored: resolution happens in the index on lookup.
type AliasInfo struct {
	Name           string
	ReferencedType string
}

func (ai *AliasInfo) TypeName() string   { return ai.Name }
func (ai *AliasInfo) LLType() types.Type { return nil }

func (ai *AliasInfo) Clone() DataTypeInformation {
	c := *ai
	return &c
}

// ArrayInfo is a fixed size, possibly multi-dimensional, array.  It owns a copy
// of its element's type information so the element's shape is preserved even
// if the element's index entry is later overwritten.
type ArrayInfo struct {
	Name                    string
	InternalTypeInformation DataTypeInformation
	Dimensions              []Dimension
	Type                    *types.ArrayType
}

func (ai *ArrayInfo) TypeName() string   { return ai.Name }
func (ai *ArrayInfo) LLType() types.Type { return ai.Type }

func (ai *ArrayInfo) Clone() DataTypeInformation {
	c := *ai
	c.InternalTypeInformation = ai.InternalTypeInformation.Clone()
	c.Dimensions = append([]Dimension(nil), ai.Dimensions...)
	return &c
}

// -----------------------------------------------------------------------------

// Dimension is a single array axis with inclusive bounds.
type Dimension struct {
	StartOffset, EndOffset int32
}

// Length returns the number of elements along the dimension.  Well-formed
// programs always have a length of at least one, but this is not checked here.
func (d Dimension) Length() int64 {
	return int64(d.EndOffset) - int64(d.StartOffset) + 1
}
