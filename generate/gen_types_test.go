package generate

import (
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"plcc/ast"
	"plcc/report"
	"plcc/typeindex"
)

func member(name, typ string, init ast.Expr) *ast.Variable {
	return &ast.Variable{Name: name, Type: &ast.TypeRef{Name: typ}, Initializer: init}
}

func refMember(name, typ string) *ast.Variable {
	return &ast.Variable{Name: name, Type: &ast.TypeRef{Name: typ, IsRef: true}}
}

// generateAll runs both passes over decls, failing the test on error.
func generateAll(t *testing.T, g *Generator, decls ...ast.DataType) {
	t.Helper()

	if err := g.GenerateDataTypeStubs(decls); err != nil {
		t.Fatalf("stub pass: %v", err)
	}
	if err := g.GenerateDataTypes(decls); err != nil {
		t.Fatalf("body pass: %v", err)
	}
}

func intValue(t *testing.T, c constant.Constant) int64 {
	t.Helper()

	ci, ok := c.(*constant.Int)
	if !ok {
		t.Fatalf("expected an integer constant, got %T", c)
	}

	return ci.X.Int64()
}

func structDefault(t *testing.T, idx *typeindex.Index, name string) *constant.Struct {
	t.Helper()

	init, ok := idx.FindInitialValue(name)
	if !ok {
		t.Fatalf("no default value for %s", name)
	}

	cs, ok := init.(*constant.Struct)
	if !ok {
		t.Fatalf("expected a struct default for %s, got %T", name, init)
	}

	return cs
}

// -----------------------------------------------------------------------------

func TestEnumConstants(t *testing.T) {
	g, _ := newTestGenerator()
	generateAll(t, g, &ast.EnumType{Name: "Color", Elements: []string{"RED", "GREEN", "BLUE"}})

	info, ok := g.Index().FindType("Color")
	if !ok {
		t.Fatal("Color was not registered")
	}
	ii, ok := info.(*typeindex.IntegerInfo)
	if !ok || !ii.Signed || ii.Size != 32 || ii.Type != types.I32 {
		t.Fatalf("expected a signed 32 bit integer, got %#v", info)
	}

	for i, name := range []string{"RED", "GREEN", "BLUE"} {
		glob, ok := g.Index().FindGlobalVariable(name)
		if !ok {
			t.Fatalf("no global for %s", name)
		}

		if !glob.Immutable {
			t.Errorf("%s should be a constant", name)
		}
		if glob.ContentType != types.I32 {
			t.Errorf("%s has type %s, want i32", name, glob.ContentType)
		}
		if got := intValue(t, glob.Init); got != int64(i) {
			t.Errorf("%s = %d, want %d", name, got, i)
		}
	}
}

func TestStructMembersAndDefaults(t *testing.T) {
	g, _ := newTestGenerator()
	generateAll(t, g, &ast.StructType{
		Name: "Point",
		Members: []*ast.Variable{
			member("x", "INT", intLit("3")),
			member("y", "INT", nil),
			member("scale", "REAL", nil),
		},
	})

	info, _ := g.Index().FindType("Point")
	st := info.(*typeindex.StructInfo).Type
	if st.Opaque {
		t.Fatal("Point should no longer be opaque")
	}

	wantFields := []types.Type{types.I16, types.I16, types.Float}
	if len(st.Fields) != len(wantFields) {
		t.Fatalf("Point has %d fields, want %d", len(st.Fields), len(wantFields))
	}
	for i, want := range wantFields {
		if !st.Fields[i].Equal(want) {
			t.Errorf("field %d: got %s, want %s", i, st.Fields[i], want)
		}
	}

	def := structDefault(t, g.Index(), "Point")
	if got := intValue(t, def.Fields[0]); got != 3 {
		t.Errorf("x defaults to %d, want 3", got)
	}
	if got := intValue(t, def.Fields[1]); got != 0 {
		t.Errorf("y defaults to %d, want 0", got)
	}
	if _, ok := def.Fields[2].(*constant.Float); !ok {
		t.Errorf("scale should default to a float zero, got %T", def.Fields[2])
	}
}

func TestMutuallyReferentialStructs(t *testing.T) {
	nodeA := &ast.StructType{Name: "A", Members: []*ast.Variable{refMember("b", "B"), member("n", "DINT", nil)}}
	nodeB := &ast.StructType{Name: "B", Members: []*ast.Variable{refMember("a", "A")}}

	orders := map[string][]ast.DataType{
		"A first": {nodeA, nodeB},
		"B first": {nodeB, nodeA},
	}

	for name, bodyOrder := range orders {
		t.Run(name, func(t *testing.T) {
			g, _ := newTestGenerator()

			if err := g.GenerateDataTypeStubs([]ast.DataType{nodeA, nodeB}); err != nil {
				t.Fatal(err)
			}
			if err := g.GenerateDataTypes(bodyOrder); err != nil {
				t.Fatal(err)
			}

			a, _ := g.Index().FindType("A")
			b, _ := g.Index().FindType("B")
			aType := a.(*typeindex.StructInfo).Type
			bType := b.(*typeindex.StructInfo).Type

			ptr, ok := aType.Fields[0].(*types.PointerType)
			if !ok || ptr.ElemType != bType {
				t.Fatalf("A.b should point to B, got %s", aType.Fields[0])
			}
			ptr, ok = bType.Fields[0].(*types.PointerType)
			if !ok || ptr.ElemType != aType {
				t.Fatalf("B.a should point to A, got %s", bType.Fields[0])
			}

			def := structDefault(t, g.Index(), "A")
			if _, ok := def.Fields[0].(*constant.Null); !ok {
				t.Fatalf("A.b should default to null, got %T", def.Fields[0])
			}
		})
	}
}

func TestNestedStructUsesMemberDefault(t *testing.T) {
	g, _ := newTestGenerator()
	generateAll(t, g,
		&ast.StructType{Name: "Inner", Members: []*ast.Variable{member("v", "INT", intLit("7"))}},
		&ast.StructType{Name: "Outer", Members: []*ast.Variable{member("in", "Inner", nil)}},
	)

	outer := structDefault(t, g.Index(), "Outer")
	inner, ok := outer.Fields[0].(*constant.Struct)
	if !ok {
		t.Fatalf("Outer.in should use the default of Inner, got %T", outer.Fields[0])
	}
	if got := intValue(t, inner.Fields[0]); got != 7 {
		t.Fatalf("Outer.in.v = %d, want 7", got)
	}
}

func TestSubRangeInitializerFlowsThroughAliases(t *testing.T) {
	g, _ := newTestGenerator()
	generateAll(t, g,
		&ast.SubRangeType{Name: "Percent", ReferencedType: "INT", Initializer: intLit("50")},
		&ast.SubRangeType{Name: "Level", ReferencedType: "Percent"},
		&ast.StructType{Name: "Gauge", Members: []*ast.Variable{member("level", "Level", nil)}},
	)

	raw, _ := g.Index().FindTypeInformation("Level")
	if alias, ok := raw.(*typeindex.AliasInfo); !ok || alias.ReferencedType != "Percent" {
		t.Fatalf("Level should be stored as an alias of Percent, got %#v", raw)
	}

	resolved, ok := g.Index().FindType("Level")
	if !ok || resolved.TypeName() != "INT" {
		t.Fatalf("Level should resolve to INT, got %v", resolved)
	}

	init, ok := g.Index().FindInitialValue("Level")
	if !ok || intValue(t, init) != 50 {
		t.Fatalf("Level should inherit the default of Percent")
	}

	gauge := structDefault(t, g.Index(), "Gauge")
	if got := intValue(t, gauge.Fields[0]); got != 50 {
		t.Fatalf("Gauge.level = %d, want 50", got)
	}
}

func TestInitializerReferencingEnumConstant(t *testing.T) {
	g, _ := newTestGenerator()
	generateAll(t, g,
		&ast.EnumType{Name: "Color", Elements: []string{"RED", "GREEN", "BLUE"}},
		&ast.StructType{Name: "Lamp", Members: []*ast.Variable{member("color", "Color", &ast.Identifier{Name: "GREEN"})}},
	)

	lamp := structDefault(t, g.Index(), "Lamp")
	if got := intValue(t, lamp.Fields[0]); got != 1 {
		t.Fatalf("Lamp.color = %d, want 1", got)
	}
}

func TestArrayTypes(t *testing.T) {
	g, _ := newTestGenerator()
	generateAll(t, g,
		&ast.StructType{Name: "Cell", Members: []*ast.Variable{member("v", "INT", nil)}},
		&ast.ArrayType{
			Name: "Matrix",
			Bounds: &ast.ExprList{Exprs: []ast.Expr{
				rangeOf(intLit("1"), intLit("2")),
				rangeOf(intLit("1"), intLit("3")),
			}},
			ReferencedType: &ast.TypeRef{Name: "INT"},
		},
		&ast.ArrayType{
			Name:           "Grid",
			Bounds:         rangeOf(intLit("0"), intLit("3")),
			ReferencedType: &ast.TypeRef{Name: "Cell"},
		},
	)

	info, _ := g.Index().FindType("Matrix")
	arr := info.(*typeindex.ArrayInfo)
	if arr.Type.String() != "[2 x [3 x i16]]" {
		t.Fatalf("unexpected matrix type %s", arr.Type)
	}
	if arr.InternalTypeInformation.TypeName() != "INT" || len(arr.Dimensions) != 2 {
		t.Fatalf("unexpected matrix information %#v", arr)
	}

	info, _ = g.Index().FindType("Grid")
	if got := info.LLType().String(); got != "[4 x %Cell]" {
		t.Fatalf("unexpected grid type %s", got)
	}
}

func TestArrayOfUnknownType(t *testing.T) {
	g, _ := newTestGenerator()

	err := g.GenerateDataTypeStubs([]ast.DataType{&ast.ArrayType{
		Name:           "Bad",
		Bounds:         rangeOf(intLit("1"), intLit("2")),
		ReferencedType: &ast.TypeRef{Name: "NOPE"},
	}})

	if !report.IsKind(err, report.LookupFailure) || err.Error() != "Unknown datatype 'NOPE'" {
		t.Fatalf("expected an unknown datatype error, got %v", err)
	}
}

func TestUnknownMemberType(t *testing.T) {
	g, _ := newTestGenerator()
	decls := []ast.DataType{&ast.StructType{Name: "S", Members: []*ast.Variable{member("m", "X", nil)}}}

	if err := g.GenerateDataTypeStubs(decls); err != nil {
		t.Fatal(err)
	}

	err := g.GenerateDataTypes(decls)
	if !report.IsKind(err, report.LookupFailure) || err.Error() != "Unknown datatype 'X'" {
		t.Fatalf("expected an unknown datatype error, got %v", err)
	}
}

func TestBodyWithoutStubIsInternalError(t *testing.T) {
	g, _ := newTestGenerator()

	err := g.GenerateDataTypes([]ast.DataType{&ast.StructType{Name: "S"}})
	if !report.IsInternal(err) {
		t.Fatalf("expected an internal error, got %v", err)
	}
}

func TestBodyGeneratedTwiceIsInternalError(t *testing.T) {
	g, _ := newTestGenerator()
	decls := []ast.DataType{&ast.EnumType{Name: "E", Elements: []string{"ONE"}}}
	generateAll(t, g, decls...)

	if err := g.GenerateDataTypes(decls); !report.IsInternal(err) {
		t.Fatalf("expected an internal error, got %v", err)
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	g, _ := newTestGenerator()

	err := g.GenerateDataTypeStubs([]ast.DataType{
		&ast.StructType{Name: "Dup"},
		&ast.EnumType{Name: "DUP", Elements: []string{"X"}},
	})
	if !report.IsKind(err, report.Redefinition) {
		t.Fatalf("expected a redefinition error, got %v", err)
	}
}

func TestNestedStructDeclaredLater(t *testing.T) {
	g, _ := newTestGenerator()
	generateAll(t, g,
		&ast.StructType{Name: "Outer", Members: []*ast.Variable{member("in", "Inner", nil), member("lvl", "Level", nil)}},
		&ast.SubRangeType{Name: "Level", ReferencedType: "Percent"},
		&ast.StructType{Name: "Inner", Members: []*ast.Variable{member("v", "INT", intLit("7"))}},
		&ast.SubRangeType{Name: "Percent", ReferencedType: "INT", Initializer: intLit("50")},
	)

	outer := structDefault(t, g.Index(), "Outer")
	inner, ok := outer.Fields[0].(*constant.Struct)
	if !ok {
		t.Fatalf("Outer.in should use the default of Inner, got %T", outer.Fields[0])
	}
	if got := intValue(t, inner.Fields[0]); got != 7 {
		t.Fatalf("Outer.in.v = %d, want 7", got)
	}
	if got := intValue(t, outer.Fields[1]); got != 50 {
		t.Fatalf("Outer.lvl = %d, want 50", got)
	}

	// Inner was generated once, ahead of its turn
	if got := structDefault(t, g.Index(), "Inner"); got != inner {
		t.Fatal("Inner should keep the default generated for Outer")
	}
}

func TestStructContainingItself(t *testing.T) {
	g, _ := newTestGenerator()
	decls := []ast.DataType{
		&ast.StructType{Name: "A", Members: []*ast.Variable{member("b", "B", nil)}},
		&ast.StructType{Name: "B", Members: []*ast.Variable{member("a", "A", nil)}},
	}

	if err := g.GenerateDataTypeStubs(decls); err != nil {
		t.Fatal(err)
	}
	if err := g.GenerateDataTypes(decls); !report.IsKind(err, report.ShapeMismatch) {
		t.Fatalf("expected a shape error, got %v", err)
	}
}

func TestDuplicateEnumElement(t *testing.T) {
	g, _ := newTestGenerator()
	decls := []ast.DataType{
		&ast.EnumType{Name: "A", Elements: []string{"X", "Y"}},
		&ast.EnumType{Name: "B", Elements: []string{"y"}},
	}

	if err := g.GenerateDataTypeStubs(decls); err != nil {
		t.Fatal(err)
	}

	err := g.GenerateDataTypes(decls)
	if !report.IsKind(err, report.Redefinition) {
		t.Fatalf("expected a redefinition error, got %v", err)
	}

	if n := len(g.Module().Globals); n != 2 {
		t.Fatalf("expected only the globals of A, got %d", n)
	}
}
