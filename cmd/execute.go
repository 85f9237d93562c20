package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/ComedicChimera/olive"

	"plcc/common"
	"plcc/project"
	"plcc/report"
)

// Execute is the main entry point for the `plcc` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("plcc", "plcc generates LLVM IR for structured text data types", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "generate and write the LLVM IR of a project", true)
	buildCmd.AddPrimaryArg("project-path", "the path to the project directory", true)
	buildCmd.AddFlag("dump", "d", "print the type index after generation")

	checkCmd := cli.AddSubcommand("check", "generate a project without writing output", true)
	checkCmd.AddPrimaryArg("project-path", "the path to the project directory", true)

	cli.AddSubcommand("version", "print the plcc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	report.InitReporter(report.ParseLogLevel(result.Arguments["loglevel"].(string)))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		os.Exit(execBuildCommand(subResult, true, subResult.HasFlag("dump")))
	case "check":
		os.Exit(execBuildCommand(subResult, false, false))
	case "version":
		report.DisplayInfoMessage("plcc Version", common.PlccVersion)
	}
}

// execBuildCommand executes the build and check subcommands and returns the
// process exit code.
func execBuildCommand(result *olive.ArgParseResult, writeOutput, dump bool) int {
	projPath, _ := result.PrimaryArg()

	proj, err := project.LoadProject(projPath, report.FileWarnings(projPath))
	if err != nil {
		report.ReportFatal("error loading project: %s", err.Error())
		return 1
	}

	report.ReportCompileHeader(proj.Name, proj.TargetTriple)

	c := NewCompiler(proj)

	report.ReportBeginPhase("Loading")
	if err := c.LoadSources(context.Background()); err != nil {
		var serr *SourceError
		if errors.As(err, &serr) {
			report.ReportCompileError(serr.ReprPath, serr.Err)
		} else {
			report.ReportCompileError(projPath, err)
		}

		report.ReportCompilationFinished("")
		return 1
	}
	report.ReportEndPhase()

	report.ReportBeginPhase("Generating")
	if !c.Generate() {
		report.ReportCompilationFinished("")
		return 1
	}
	report.ReportEndPhase()

	if dump {
		report.DumpValue("type index of "+proj.Name, c.Index().Describe())
	}

	outputPath := ""
	if writeOutput {
		report.ReportBeginPhase("Writing")
		if err := c.WriteOutput(); err != nil {
			report.ReportFatal("error writing output: %s", err.Error())
			return 1
		}
		report.ReportEndPhase()

		outputPath = proj.OutputPath
	}

	report.ReportCompilationFinished(outputPath)
	return 0
}
