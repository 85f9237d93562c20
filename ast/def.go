package ast

// DataType is a named data type declaration.
type DataType interface {
	ASTNode

	// TypeName returns the declared name of the type.
	TypeName() string
}

// TypeRef is a reference to a named data type, optionally through a
// reference (`REF_TO <name>`).
type TypeRef struct {
	ASTBase

	Name  string
	IsRef bool
}

// Variable is a struct member or POU variable declaration.
type Variable struct {
	ASTBase

	Name        string
	Type        *TypeRef
	Initializer Expr
}

// -----------------------------------------------------------------------------

// StructType is a structured type declaration.
type StructType struct {
	ASTBase

	Name    string
	Members []*Variable
}

func (st *StructType) TypeName() string {
	return st.Name
}

// EnumType is an enumerated type declaration.
type EnumType struct {
	ASTBase

	Name     string
	Elements []string
}

func (et *EnumType) TypeName() string {
	return et.Name
}

// SubRangeType is an alias of another type, optionally with a default value.
type SubRangeType struct {
	ASTBase

	Name           string
	ReferencedType string
	Initializer    Expr
}

func (srt *SubRangeType) TypeName() string {
	return srt.Name
}

// ArrayType is a fixed size array type declaration.  Bounds must be a list of
// range expressions, one for each dimension.
type ArrayType struct {
	ASTBase

	Name           string
	Bounds         Expr
	ReferencedType *TypeRef
}

func (at *ArrayType) TypeName() string {
	return at.Name
}

// -----------------------------------------------------------------------------

// Enumeration of POU kinds.
const (
	PouProgram = iota
	PouFunctionBlock
	PouFunction
)

// Pou is a program organization unit: a program, function block or function.
// Its variables form the members of its instance struct.
type Pou struct {
	ASTBase

	Name      string
	Kind      int
	Variables []*Variable
}
