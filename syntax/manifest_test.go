package syntax

import (
	"os"
	"path/filepath"
	"testing"

	"plcc/ast"
	"plcc/report"
)

const sampleManifest = `
[[enum]]
name = "Color"
elements = ["RED", "GREEN", "BLUE"]

[[struct]]
name = "Node"
members = [
  { name = "next", type = "REF_TO Node" },
  { name = "color", type = "Color", init = "GREEN" },
]

[[subrange]]
name = "Percent"
type = "INT"
init = "50"

[[array]]
name = "Matrix"
type = "INT"
bounds = "1..2, 1..3"

[[struct]]
name = "Empty"

[[pou]]
name = "main"
kind = "program"
variables = [ { name = "m", type = "Matrix" } ]
`

func TestParseManifest(t *testing.T) {
	unit, err := ParseManifest("types.types.toml", []byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}

	wantOrder := []string{"Color", "Node", "Percent", "Matrix", "Empty"}
	if len(unit.Types) != len(wantOrder) {
		t.Fatalf("got %d types, want %d", len(unit.Types), len(wantOrder))
	}
	for i, name := range wantOrder {
		if unit.Types[i].TypeName() != name {
			t.Errorf("type %d: got %s, want %s", i, unit.Types[i].TypeName(), name)
		}
	}

	node := unit.Types[1].(*ast.StructType)
	if len(node.Members) != 2 || !node.Members[0].Type.IsRef || node.Members[0].Type.Name != "Node" {
		t.Fatalf("unexpected members of Node: %+v", node.Members)
	}
	if id, ok := node.Members[1].Initializer.(*ast.Identifier); !ok || id.Name != "GREEN" {
		t.Fatalf("unexpected initializer of Node.color: %#v", node.Members[1].Initializer)
	}

	percent := unit.Types[2].(*ast.SubRangeType)
	if percent.ReferencedType != "INT" || ast.ExprString(percent.Initializer) != "50" {
		t.Fatalf("unexpected subrange %+v", percent)
	}

	matrix := unit.Types[3].(*ast.ArrayType)
	if ast.ExprString(matrix.Bounds) != "1..2, 1..3" || matrix.ReferencedType.Name != "INT" {
		t.Fatalf("unexpected array %+v", matrix)
	}

	if span := unit.Types[0].Span(); span == nil || span.StartLine != 1 {
		t.Fatalf("unexpected span for Color: %+v", span)
	}

	if len(unit.Pous) != 1 || unit.Pous[0].Kind != ast.PouProgram || len(unit.Pous[0].Variables) != 1 {
		t.Fatalf("unexpected pous %+v", unit.Pous)
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind report.ErrorKind
	}{
		{"bad toml", "[[struct]\nname = 1", report.ConfigError},
		{"plain table", "[struct]\nname = \"A\"", report.ConfigError},
		{"unknown kind", "[[union]]\nname = \"U\"", report.ConfigError},
		{"missing name", "[[enum]]\nelements = [\"A\"]", report.ConfigError},
		{"bad name", "[[enum]]\nname = \"1A\"\nelements = [\"A\"]", report.ConfigError},
		{"empty enum", "[[enum]]\nname = \"E\"\nelements = []", report.ConfigError},
		{"missing bounds", "[[array]]\nname = \"A\"\ntype = \"INT\"", report.ConfigError},
		{"bad bounds", "[[array]]\nname = \"A\"\ntype = \"INT\"\nbounds = \"1..\"", report.SyntaxError},
		{"bad member type", "[[struct]]\nname = \"S\"\nmembers = [ { name = \"x\", type = \"\" } ]", report.SyntaxError},
		{"duplicate member", "[[struct]]\nname = \"S\"\nmembers = [ { name = \"x\", type = \"INT\" }, { name = \"X\", type = \"INT\" } ]", report.Redefinition},
		{"bad pou kind", "[[pou]]\nname = \"p\"\nkind = \"task\"", report.ConfigError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseManifest("bad.types.toml", []byte(test.text)); !report.IsKind(err, test.kind) {
				t.Fatalf("expected a %s error, got %v", test.kind, err)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.types.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
		t.Fatal(err)
	}

	unit, err := LoadManifest(path, "demo.types.toml")
	if err != nil {
		t.Fatal(err)
	}
	if unit.ReprPath != "demo.types.toml" {
		t.Fatalf("unexpected repr path %s", unit.ReprPath)
	}

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.types.toml"), "missing"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
