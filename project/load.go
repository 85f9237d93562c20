package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml"

	"plcc/common"
	"plcc/report"
)

// tomlProjectFile represents the project file as it is encoded in TOML.
type tomlProjectFile struct {
	Project *tomlProject `toml:"project"`
}

// tomlProject represents a plcc project as it is encoded in TOML.
type tomlProject struct {
	Name             string   `toml:"name"`
	PlccVersion      string   `toml:"plcc-version"`
	Sources          []string `toml:"sources"`
	Output           string   `toml:"output,omitempty"`
	TargetTriple     string   `toml:"target-triple,omitempty"`
	WarnFoldFailures *bool    `toml:"warn-fold-failures"`
}

// Project is a loaded and validated plcc project.
type Project struct {
	// The name of the project.
	Name string

	// The absolute path to the project directory.
	AbsPath string

	// The glob patterns matching the project's declaration manifests.  They
	// are relative to the project directory.
	Sources []string

	// The absolute path the generated LLVM IR is written to.
	OutputPath string

	// The target triple of the generated module.
	TargetTriple string

	// Whether array bounds which fail to fold should produce warnings.
	WarnFoldFailures bool
}

// identRegex matches a valid project name.
var identRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-]*$`)

// LoadProject loads and validates the project in the directory at path.
// Non-fatal problems, such as a version mismatch, are sent to warnings.
func LoadProject(path string, warnings report.WarningSink) (*Project, error) {
	abspath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	buff, err := os.ReadFile(filepath.Join(abspath, common.ProjectFileName))
	if err != nil {
		return nil, fmt.Errorf("unable to open project file at `%s`: %w", abspath, err)
	}

	tpf := &tomlProjectFile{}
	if err := toml.Unmarshal(buff, tpf); err != nil {
		return nil, report.Raise(report.ConfigError, nil, "error parsing project file: %s", err.Error())
	}

	return validateProject(abspath, tpf.Project, warnings)
}

// validateProject checks that the project file contents are valid and fills
// in the defaults of any omitted fields.
func validateProject(abspath string, tp *tomlProject, warnings report.WarningSink) (*Project, error) {
	if tp == nil {
		return nil, report.Raise(report.ConfigError, nil, "missing [project] table")
	}

	if tp.Name == "" {
		return nil, report.Raise(report.ConfigError, nil, "missing project name")
	}

	if !identRegex.MatchString(tp.Name) {
		return nil, report.Raise(report.ConfigError, nil, "project name `%s` must be a valid identifier", tp.Name)
	}

	if len(tp.Sources) == 0 {
		return nil, report.Raise(report.ConfigError, nil, "project `%s` lists no sources", tp.Name)
	}

	for _, pattern := range tp.Sources {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, report.Raise(report.ConfigError, nil, "malformed source pattern `%s`", pattern)
		}
	}

	if tp.PlccVersion != common.PlccVersion && warnings != nil {
		warnings.Warn(nil, fmt.Sprintf(
			"version of project `%s` (v%s) does not match current plcc version (v%s)",
			tp.Name,
			tp.PlccVersion,
			common.PlccVersion,
		))
	}

	proj := &Project{
		Name:             tp.Name,
		AbsPath:          abspath,
		Sources:          tp.Sources,
		TargetTriple:     tp.TargetTriple,
		WarnFoldFailures: true,
	}

	if tp.Output == "" {
		proj.OutputPath = filepath.Join(abspath, "out", tp.Name+".ll")
	} else if filepath.IsAbs(tp.Output) {
		proj.OutputPath = tp.Output
	} else {
		proj.OutputPath = filepath.Join(abspath, tp.Output)
	}

	if proj.TargetTriple == "" {
		proj.TargetTriple = common.DefaultTargetTriple
	}

	if tp.WarnFoldFailures != nil {
		proj.WarnFoldFailures = *tp.WarnFoldFailures
	}

	return proj, nil
}

// -----------------------------------------------------------------------------

// SourceFile is a declaration manifest belonging to a project.
type SourceFile struct {
	// The absolute path to the file.
	AbsPath string

	// The path of the file relative to the project directory.  This is used
	// to refer to the file in diagnostics.
	ReprPath string
}

// SourceFiles expands the project's source patterns.  Every manifest is
// returned once, sorted by path.  It is an error for no file to match.
func (p *Project) SourceFiles() ([]SourceFile, error) {
	seen := make(map[string]struct{})
	var files []SourceFile

	for _, pattern := range p.Sources {
		matches, err := filepath.Glob(filepath.Join(p.AbsPath, pattern))
		if err != nil {
			return nil, report.Raise(report.ConfigError, nil, "malformed source pattern `%s`", pattern)
		}

		for _, match := range matches {
			if _, ok := seen[match]; ok || !strings.HasSuffix(match, common.ManifestFileExt) {
				continue
			}
			seen[match] = struct{}{}

			repr, err := filepath.Rel(p.AbsPath, match)
			if err != nil {
				repr = match
			}

			files = append(files, SourceFile{AbsPath: match, ReprPath: filepath.ToSlash(repr)})
		}
	}

	if len(files) == 0 {
		return nil, report.Raise(report.ConfigError, nil, "no declaration manifests (*%s) match the sources of `%s`", common.ManifestFileExt, p.Name)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].AbsPath < files[j].AbsPath
	})

	return files, nil
}
