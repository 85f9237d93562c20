package ast

import "plcc/report"

// The abstract interface for all AST nodes.
type ASTNode interface {
	// The text span of the AST.
	Span() *report.TextSpan
}

// A utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// CompilationUnit is the parsed contents of a single source file: the data
// types and callables (POUs) it declares.
type CompilationUnit struct {
	// The representative path of the file the unit was loaded from.  This is
	// used for error reporting.
	ReprPath string

	// The declared data types in source order.
	Types []DataType

	// The declared POUs in source order.
	Pous []*Pou
}
