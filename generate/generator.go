package generate

import (
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"plcc/report"
	"plcc/typeindex"
)

// Enumeration of the generation states of a named type.  A name with no state
// recorded is unregistered.  States only ever advance.
const (
	stateStub = iota + 1
	stateBodyInProgress
	stateBodyFilled
)

// Generator is responsible for converting data type and POU declarations into
// LLVM types and default values.  Generation happens in two passes over the
// same declarations: the stub pass registers every name in the index (structs
// as opaque types) and the body pass fills those stubs in.  Running all stubs
// first is what allows types to reference each other in any order.
type Generator struct {
	// mod is the LLVM module types and globals are added to.
	mod *ir.Module

	// index is the global type index.
	index *typeindex.Index

	// exprGen lowers initializer expressions.
	exprGen ExpressionGenerator

	// warnings receives non-fatal diagnostics such as failed bound folding.
	warnings report.WarningSink

	// states stores the generation state of every name seen by this
	// generator keyed by its upper-cased name.
	states map[string]int

	// pending stores the body generator of every stubbed name whose body has
	// not been generated yet.
	pending map[string]func() error

	// early marks the names whose body was generated on demand before their
	// turn in the body pass.
	early map[string]bool

	// globals stores the upper-cased names of the globals created by this
	// generator.
	globals map[string]bool
}

// NewGenerator creates a new generator adding to the given module and index.
// Initializers are lowered with a ConstExprGenerator unless another expression
// generator is set.
func NewGenerator(mod *ir.Module, index *typeindex.Index, warnings report.WarningSink) *Generator {
	if warnings == nil {
		warnings = report.DiscardWarnings
	}

	return &Generator{
		mod:      mod,
		index:    index,
		exprGen:  NewConstExprGenerator(index),
		warnings: warnings,
		states:   make(map[string]int),
		pending:  make(map[string]func() error),
		early:    make(map[string]bool),
		globals:  make(map[string]bool),
	}
}

// SetExpressionGenerator replaces the generator used to lower initializers.
func (g *Generator) SetExpressionGenerator(eg ExpressionGenerator) {
	g.exprGen = eg
}

// SetWarningSink replaces the sink receiving warnings.  A nil sink discards
// them.
func (g *Generator) SetWarningSink(warnings report.WarningSink) {
	if warnings == nil {
		warnings = report.DiscardWarnings
	}

	g.warnings = warnings
}

// Index returns the global index the generator populates.
func (g *Generator) Index() *typeindex.Index {
	return g.index
}

// Module returns the LLVM module being generated.
func (g *Generator) Module() *ir.Module {
	return g.mod
}

// -----------------------------------------------------------------------------

// newOpaqueStruct creates a named, opaque struct type in the module.
func (g *Generator) newOpaqueStruct(name string) *types.StructType {
	st := &types.StructType{Opaque: true}
	g.mod.NewTypeDef(name, st)
	return st
}

// beginStub marks name as having entered the stub pass.
func (g *Generator) beginStub(name string, span *report.TextSpan) error {
	key := stateKey(name)

	switch g.states[key] {
	case stateStub:
		return report.Raise(report.Redefinition, span, "type '%s' is declared more than once", name)
	case stateBodyFilled:
		return report.ICE("`%s` re-entered the stub pass after its body was generated", name)
	}

	g.states[key] = stateStub
	return nil
}

// checkBody verifies that name is ready to have its body generated.
func (g *Generator) checkBody(name string) error {
	switch g.states[stateKey(name)] {
	case stateStub:
		return nil
	case stateBodyInProgress:
		return report.ICE("body of `%s` re-entered while it was being generated", name)
	case stateBodyFilled:
		return report.ICE("body of `%s` generated twice", name)
	}

	return report.ICE("body of `%s` generated before its stub", name)
}

// finishBody marks name as having its body generated.
func (g *Generator) finishBody(name string) {
	g.states[stateKey(name)] = stateBodyFilled
}

// genBody runs gen as the body of name.  Bodies that were already generated on
// demand are skipped once.
func (g *Generator) genBody(name string, gen func() error) error {
	key := stateKey(name)
	if g.early[key] {
		delete(g.early, key)
		return nil
	}

	if err := g.checkBody(name); err != nil {
		return err
	}

	g.states[key] = stateBodyInProgress
	if err := gen(); err != nil {
		return err
	}

	g.finishBody(name)
	delete(g.pending, key)
	return nil
}

// demandBody generates the body of name ahead of its turn in the body pass so
// that its default value is known.  Names without a pending body are left
// alone.  Reaching a body that is still being generated means the type
// contains itself.
func (g *Generator) demandBody(name string, span *report.TextSpan) error {
	key := stateKey(name)

	switch g.states[key] {
	case stateBodyInProgress:
		return report.Raise(report.ShapeMismatch, span, "type '%s' contains itself", name)
	case stateStub:
	default:
		return nil
	}

	gen, ok := g.pending[key]
	if !ok {
		return nil
	}

	if err := g.genBody(name, gen); err != nil {
		return err
	}

	g.early[key] = true
	return nil
}

// claimGlobal reserves name for a global created by this generator.  Global
// names are case-insensitive like type names.
func (g *Generator) claimGlobal(name string, span *report.TextSpan) error {
	key := stateKey(name)
	if g.globals[key] {
		return report.Raise(report.Redefinition, span, "global '%s' is declared more than once", name)
	}

	g.globals[key] = true
	return nil
}

// stateKey normalizes a name for the state table: names are case-insensitive.
func stateKey(name string) string {
	return strings.ToUpper(name)
}
