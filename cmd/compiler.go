// Package cmd is the top-level "driver" package for plcc: it contains the
// functionality for parsing command-line arguments, managing compiler state,
// and running the phases of the compiler.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/llir/llvm/ir"
	"golang.org/x/sync/errgroup"

	"plcc/ast"
	"plcc/generate"
	"plcc/project"
	"plcc/report"
	"plcc/syntax"
	"plcc/typeindex"
)

// Compiler represents the overall state of the compilation of one project.
type Compiler struct {
	// proj is the project being compiled.
	proj *project.Project

	// units are the loaded declaration manifests in path order.
	units []*ast.CompilationUnit

	// index is the global type index shared by every unit.
	index *typeindex.Index

	// mod is the LLVM module being generated.
	mod *ir.Module
}

// NewCompiler creates a new compiler for the given project.
func NewCompiler(proj *project.Project) *Compiler {
	mod := ir.NewModule()
	mod.SourceFilename = proj.Name
	mod.TargetTriple = proj.TargetTriple

	return &Compiler{
		proj:  proj,
		index: typeindex.NewWithBuiltins(),
		mod:   mod,
	}
}

// Index returns the type index of the compiler.
func (c *Compiler) Index() *typeindex.Index {
	return c.index
}

// Module returns the LLVM module of the compiler.
func (c *Compiler) Module() *ir.Module {
	return c.mod
}

// -----------------------------------------------------------------------------

// SourceError is an error that occurred in a specific source file.
type SourceError struct {
	ReprPath string
	Err      error
}

func (se *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", se.ReprPath, se.Err.Error())
}

func (se *SourceError) Unwrap() error {
	return se.Err
}

// LoadSources loads all the project's declaration manifests concurrently.
// The first failure cancels the remaining loads.
func (c *Compiler) LoadSources(ctx context.Context) error {
	files, err := c.proj.SourceFiles()
	if err != nil {
		return err
	}

	units := make([]*ast.CompilationUnit, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.NumCPU(), len(files)))

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			unit, err := syntax.LoadManifest(file.AbsPath, file.ReprPath)
			if err != nil {
				return &SourceError{ReprPath: file.ReprPath, Err: err}
			}

			units[i] = unit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	c.units = units
	return nil
}

// Generate runs both generation passes over every loaded unit: all stubs are
// generated before any body so declarations may refer to each other across
// files.  Call frames are then generated for every function and function
// block, and the index is frozen.  Errors are reported as they occur; the
// return value indicates whether generation succeeded.
func (c *Compiler) Generate() bool {
	g := generate.NewGenerator(c.mod, c.index, nil)

	for _, unit := range c.units {
		g.SetWarningSink(c.warningSink(unit))

		if err := g.GenerateDataTypeStubs(unit.Types); err != nil {
			return c.reportError(unit, err)
		}

		if err := g.GeneratePouStubs(unit.Pous); err != nil {
			return c.reportError(unit, err)
		}
	}

	for _, unit := range c.units {
		g.SetWarningSink(c.warningSink(unit))

		if err := g.GenerateDataTypes(unit.Types); err != nil {
			return c.reportError(unit, err)
		}
	}

	for _, unit := range c.units {
		if err := g.GeneratePouInstanceTypes(unit.Pous); err != nil {
			return c.reportError(unit, err)
		}
	}

	for _, unit := range c.units {
		for _, pou := range unit.Pous {
			if pou.Kind == ast.PouProgram {
				continue
			}

			if _, err := g.GenerateCallFrame(pou.Name); err != nil {
				return c.reportError(unit, report.WithSpan(err, pou.Span()))
			}
		}
	}

	c.index.Freeze()
	return true
}

// warningSink returns the sink warnings about unit are sent to.
func (c *Compiler) warningSink(unit *ast.CompilationUnit) report.WarningSink {
	if !c.proj.WarnFoldFailures {
		return report.DiscardWarnings
	}

	return report.FileWarnings(unit.ReprPath)
}

// reportError reports an error which occurred while generating unit.  Internal
// errors abort compilation immediately.
func (c *Compiler) reportError(unit *ast.CompilationUnit, err error) bool {
	if report.IsInternal(err) {
		report.ReportICE("%s", err.Error())
	}

	report.ReportCompileError(unit.ReprPath, err)
	return false
}

// WriteOutput writes the generated module as LLVM IR text to the project's
// output path.
func (c *Compiler) WriteOutput() error {
	if err := os.MkdirAll(filepath.Dir(c.proj.OutputPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(c.proj.OutputPath, []byte(c.mod.String()), 0644)
}
