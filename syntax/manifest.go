package syntax

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml"

	"plcc/ast"
	"plcc/report"
)

// A declaration manifest is a TOML file listing data type and POU
// declarations as arrays of tables:
//
//	[[struct]]
//	name = "Point"
//	members = [ { name = "x", type = "INT", init = "3" } ]
//
//	[[array]]
//	name = "Matrix"
//	type = "INT"
//	bounds = "1..2, 1..3"
//
// Declarations are returned in the order they appear in the file regardless
// of their kind.

type tomlMember struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	Init string `toml:"init"`
}

type tomlStruct struct {
	Name    string       `toml:"name"`
	Members []tomlMember `toml:"members"`
}

type tomlEnum struct {
	Name     string   `toml:"name"`
	Elements []string `toml:"elements"`
}

type tomlSubRange struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	Init string `toml:"init"`
}

type tomlArray struct {
	Name   string `toml:"name"`
	Type   string `toml:"type"`
	Bounds string `toml:"bounds"`
}

type tomlPou struct {
	Name      string       `toml:"name"`
	Kind      string       `toml:"kind"`
	Variables []tomlMember `toml:"variables"`
}

// pouKinds maps the `kind` field of a POU table to its POU kind.
var pouKinds = map[string]int{
	"program":        ast.PouProgram,
	"function_block": ast.PouFunctionBlock,
	"function-block": ast.PouFunctionBlock,
	"function":       ast.PouFunction,
}

// identRegex matches a valid declaration name.
var identRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// LoadManifest loads the declaration manifest at path.  The reprPath is the
// path used to refer to the file in diagnostics.
func LoadManifest(path, reprPath string) (*ast.CompilationUnit, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseManifest(reprPath, buf)
}

// manifestEntry is a table of the manifest along with its position.
type manifestEntry struct {
	kind string
	tree *toml.Tree
	span *report.TextSpan
}

// ParseManifest parses the contents of a declaration manifest.
func ParseManifest(reprPath string, buf []byte) (*ast.CompilationUnit, error) {
	tree, err := toml.LoadBytes(buf)
	if err != nil {
		return nil, report.Raise(report.ConfigError, nil, "error parsing manifest: %s", err.Error())
	}

	var entries []manifestEntry
	for _, kind := range tree.Keys() {
		tables, ok := tree.Get(kind).([]*toml.Tree)
		if !ok {
			return nil, report.Raise(
				report.ConfigError,
				positionSpan(tree.GetPosition(kind)),
				"`%s` must be an array of tables",
				kind,
			)
		}

		for _, table := range tables {
			entries = append(entries, manifestEntry{
				kind: kind,
				tree: table,
				span: positionSpan(table.Position()),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].span, entries[j].span
		return a.StartLine < b.StartLine || a.StartLine == b.StartLine && a.StartCol < b.StartCol
	})

	unit := &ast.CompilationUnit{ReprPath: reprPath}
	for _, entry := range entries {
		if err := loadEntry(unit, entry); err != nil {
			return nil, err
		}
	}

	return unit, nil
}

// positionSpan converts a one-indexed TOML position to a text span.
func positionSpan(pos toml.Position) *report.TextSpan {
	if pos.Invalid() {
		return nil
	}

	return &report.TextSpan{
		StartLine: pos.Line - 1,
		StartCol:  pos.Col - 1,
		EndLine:   pos.Line - 1,
		EndCol:    pos.Col - 1,
	}
}

// loadEntry converts a single manifest table into a declaration.
func loadEntry(unit *ast.CompilationUnit, entry manifestEntry) error {
	switch entry.kind {
	case "struct":
		var ts tomlStruct
		if err := decodeEntry(entry, &ts); err != nil {
			return err
		}

		decl, err := convertStruct(ts, entry.span)
		if err != nil {
			return err
		}

		unit.Types = append(unit.Types, decl)
	case "enum":
		var te tomlEnum
		if err := decodeEntry(entry, &te); err != nil {
			return err
		}

		decl, err := convertEnum(te, entry.span)
		if err != nil {
			return err
		}

		unit.Types = append(unit.Types, decl)
	case "subrange":
		var tsr tomlSubRange
		if err := decodeEntry(entry, &tsr); err != nil {
			return err
		}

		decl, err := convertSubRange(tsr, entry.span)
		if err != nil {
			return err
		}

		unit.Types = append(unit.Types, decl)
	case "array":
		var ta tomlArray
		if err := decodeEntry(entry, &ta); err != nil {
			return err
		}

		decl, err := convertArray(ta, entry.span)
		if err != nil {
			return err
		}

		unit.Types = append(unit.Types, decl)
	case "pou":
		var tp tomlPou
		if err := decodeEntry(entry, &tp); err != nil {
			return err
		}

		pou, err := convertPou(tp, entry.span)
		if err != nil {
			return err
		}

		unit.Pous = append(unit.Pous, pou)
	default:
		return report.Raise(report.ConfigError, entry.span, "unknown declaration kind `%s`", entry.kind)
	}

	return nil
}

// decodeEntry unmarshals a manifest table.
func decodeEntry(entry manifestEntry, v interface{}) error {
	if err := entry.tree.Unmarshal(v); err != nil {
		return report.Raise(report.ConfigError, entry.span, "invalid %s declaration: %s", entry.kind, err.Error())
	}

	return nil
}

// -----------------------------------------------------------------------------

// checkName validates the name of a declaration.
func checkName(kind, name string, span *report.TextSpan) error {
	if name == "" {
		return report.Raise(report.ConfigError, span, "%s declaration is missing a name", kind)
	} else if !identRegex.MatchString(name) {
		return report.Raise(report.ConfigError, span, "%s name `%s` is not a valid identifier", kind, name)
	}

	return nil
}

func convertStruct(ts tomlStruct, span *report.TextSpan) (*ast.StructType, error) {
	if err := checkName("struct", ts.Name, span); err != nil {
		return nil, err
	}

	members, err := convertMembers(ts.Name, ts.Members, span)
	if err != nil {
		return nil, err
	}

	return &ast.StructType{
		ASTBase: ast.NewASTBaseOn(span),
		Name:    ts.Name,
		Members: members,
	}, nil
}

func convertEnum(te tomlEnum, span *report.TextSpan) (*ast.EnumType, error) {
	if err := checkName("enum", te.Name, span); err != nil {
		return nil, err
	}

	if len(te.Elements) == 0 {
		return nil, report.Raise(report.ConfigError, span, "enum `%s` has no elements", te.Name)
	}

	for _, elem := range te.Elements {
		if err := checkName("enum element", elem, span); err != nil {
			return nil, err
		}
	}

	return &ast.EnumType{
		ASTBase:  ast.NewASTBaseOn(span),
		Name:     te.Name,
		Elements: te.Elements,
	}, nil
}

func convertSubRange(tsr tomlSubRange, span *report.TextSpan) (*ast.SubRangeType, error) {
	if err := checkName("subrange", tsr.Name, span); err != nil {
		return nil, err
	}

	if err := checkName("referenced type", tsr.Type, span); err != nil {
		return nil, err
	}

	decl := &ast.SubRangeType{
		ASTBase:        ast.NewASTBaseOn(span),
		Name:           tsr.Name,
		ReferencedType: tsr.Type,
	}

	if strings.TrimSpace(tsr.Init) != "" {
		init, err := ParseExpr(tsr.Init, span)
		if err != nil {
			return nil, err
		}

		decl.Initializer = init
	}

	return decl, nil
}

func convertArray(ta tomlArray, span *report.TextSpan) (*ast.ArrayType, error) {
	if err := checkName("array", ta.Name, span); err != nil {
		return nil, err
	}

	if strings.TrimSpace(ta.Bounds) == "" {
		return nil, report.Raise(report.ConfigError, span, "array `%s` is missing its bounds", ta.Name)
	}

	bounds, err := ParseExpr(ta.Bounds, span)
	if err != nil {
		return nil, err
	}

	elemType, err := ParseTypeRef(ta.Type, span)
	if err != nil {
		return nil, err
	}

	return &ast.ArrayType{
		ASTBase:        ast.NewASTBaseOn(span),
		Name:           ta.Name,
		Bounds:         bounds,
		ReferencedType: elemType,
	}, nil
}

func convertPou(tp tomlPou, span *report.TextSpan) (*ast.Pou, error) {
	if err := checkName("pou", tp.Name, span); err != nil {
		return nil, err
	}

	kind, ok := pouKinds[strings.ToLower(tp.Kind)]
	if !ok {
		return nil, report.Raise(report.ConfigError, span, "pou `%s` has unknown kind `%s`", tp.Name, tp.Kind)
	}

	vars, err := convertMembers(tp.Name, tp.Variables, span)
	if err != nil {
		return nil, err
	}

	return &ast.Pou{
		ASTBase:   ast.NewASTBaseOn(span),
		Name:      tp.Name,
		Kind:      kind,
		Variables: vars,
	}, nil
}

// convertMembers converts the members of a struct or the variables of a POU.
func convertMembers(owner string, tms []tomlMember, span *report.TextSpan) ([]*ast.Variable, error) {
	vars := make([]*ast.Variable, len(tms))
	seen := make(map[string]struct{}, len(tms))

	for i, tm := range tms {
		if err := checkName("member", tm.Name, span); err != nil {
			return nil, err
		}

		key := strings.ToUpper(tm.Name)
		if _, ok := seen[key]; ok {
			return nil, report.Raise(report.Redefinition, span, "member `%s` of `%s` is declared more than once", tm.Name, owner)
		}
		seen[key] = struct{}{}

		typ, err := ParseTypeRef(tm.Type, span)
		if err != nil {
			return nil, err
		}

		v := &ast.Variable{
			ASTBase: ast.NewASTBaseOn(span),
			Name:    tm.Name,
			Type:    typ,
		}

		if strings.TrimSpace(tm.Init) != "" {
			if v.Initializer, err = ParseExpr(tm.Init, span); err != nil {
				return nil, err
			}
		}

		vars[i] = v
	}

	return vars, nil
}
