// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"strings"
	"testing"

	"github.com/consensys/algol68/pkg/a68/ast"
	"github.com/consensys/algol68/pkg/a68/mode"
	"github.com/consensys/algol68/pkg/util/source"
)

// ============================================================================
// Lexing
// ============================================================================

func Test_Lexer_01(t *testing.T) {
	// Whitespace, comments and the end-of-file marker are all filtered out.
	tokens := tokenise(source.NewFile("test.a68", []byte("INT i := 1 # note #")))
	//
	kinds := []uint{BOLD, IDENT, BECOMES_SYMBOL, INT_LIT}
	//
	if len(tokens) != len(kinds) {
		t.Fatalf("got %d tokens, expected %d", len(tokens), len(kinds))
	}
	//
	for i, k := range kinds {
		if tokens[i].Kind != k {
			t.Errorf("token %d has kind %d, expected %d", i, tokens[i].Kind, k)
		}
	}
}

// ============================================================================
// Declarations
// ============================================================================

func Test_Parse_01(t *testing.T) {
	r := mode.NewRegistry()
	tree := parseValid(t, r, "INT i := 1")
	//
	decl := tree.Units[0].(*ast.VariableDeclaration)
	//
	if decl.Name != "i" || decl.Declarer != r.Standard().Int {
		t.Errorf("parsed as %s of %s", decl.Name, decl.Declarer)
	}
	//
	if _, ok := decl.Source.(*ast.Denotation); !ok {
		t.Errorf("source parsed as %T", decl.Source)
	}
}

func Test_Parse_02(t *testing.T) {
	r := mode.NewRegistry()
	tree := parseValid(t, r, "REAL pi = 3.14")
	//
	decl := tree.Units[0].(*ast.IdentityDeclaration)
	//
	if decl.Name != "pi" || decl.Declarer != r.Standard().Real {
		t.Errorf("parsed as %s of %s", decl.Name, decl.Declarer)
	}
}

func Test_Parse_03(t *testing.T) {
	// An uninitialised variable declaration.
	tree := parseValid(t, mode.NewRegistry(), "INT i")
	//
	decl := tree.Units[0].(*ast.VariableDeclaration)
	//
	if decl.Source != nil {
		t.Errorf("uninitialised declaration has source %T", decl.Source)
	}
}

func Test_Parse_04(t *testing.T) {
	// A mode declaration makes its indicant usable in later declarers.
	r := mode.NewRegistry()
	tree := parseValid(t, r, "MODE VEC = [3] REAL; VEC v")
	//
	decl := tree.Units[1].(*ast.VariableDeclaration)
	//
	if decl.Declarer != r.RowOf(1, r.Standard().Real) {
		t.Errorf("VEC resolved to %s", decl.Declarer)
	}
}

func Test_Parse_05(t *testing.T) {
	// A PROC declaration desugars to an identity declaration of routine mode.
	r := mode.NewRegistry()
	tree := parseValid(t, r, "PROC inc = (INT n) INT: n + 1")
	//
	decl := tree.Units[0].(*ast.IdentityDeclaration)
	routine := decl.Source.(*ast.RoutineText)
	//
	if !decl.Declarer.IsProc() || decl.Declarer.Sub() != r.Standard().Int {
		t.Errorf("declarer is %s", decl.Declarer)
	}
	//
	if len(routine.Parameters) != 1 || routine.Parameters[0].Name != "n" {
		t.Errorf("parameters parsed as %v", routine.Parameters)
	}
}

// ============================================================================
// Declarers
// ============================================================================

func Test_Declarer_01(t *testing.T) {
	r := mode.NewRegistry()
	std := r.Standard()
	//
	checkDeclarer(t, r, "INT", std.Int)
	checkDeclarer(t, r, "LONG INT", std.LongInt)
	checkDeclarer(t, r, "LONG LONG INT", std.LongLongInt)
	checkDeclarer(t, r, "REF INT", r.Ref(std.Int))
	checkDeclarer(t, r, "REF REF BOOL", r.Ref(r.Ref(std.Bool)))
}

func Test_Declarer_02(t *testing.T) {
	r := mode.NewRegistry()
	std := r.Standard()
	//
	checkDeclarer(t, r, "[] CHAR", r.RowOf(1, std.Char))
	checkDeclarer(t, r, "[10] INT", r.RowOf(1, std.Int))
	checkDeclarer(t, r, "[5, 5] REAL", r.RowOf(2, std.Real))
	checkDeclarer(t, r, "FLEX [] CHAR", std.String)
	checkDeclarer(t, r, "STRING", std.String)
}

func Test_Declarer_03(t *testing.T) {
	r := mode.NewRegistry()
	std := r.Standard()
	//
	pair := r.StructOf(mode.Pack{{Mode: std.Int, Tag: "x"}, {Mode: std.Int, Tag: "y"}})
	checkDeclarer(t, r, "STRUCT (INT x, INT y)", pair)
	//
	checkDeclarer(t, r, "UNION (INT, REAL)", r.UnionOf(std.Int, std.Real))
	checkDeclarer(t, r, "PROC VOID", r.ProcOf(nil, std.Void))
	//
	sig := mode.Pack{{Mode: std.Real}}
	checkDeclarer(t, r, "PROC (REAL) BOOL", r.ProcOf(sig, std.Bool))
}

func Test_Declarer_04(t *testing.T) {
	// An unknown indicant is a syntax error.
	_, _, errs := Parse(source.NewFile("test.a68", []byte("MATRIX m")), mode.NewRegistry())
	//
	if len(errs) == 0 || !strings.Contains(errs[0].Message(), "unknown mode indicant") {
		t.Errorf("unexpected errors %v", errs)
	}
}

// ============================================================================
// Formulas
// ============================================================================

func Test_Formula_01(t *testing.T) {
	// Multiplication binds tighter than addition.
	tree := parseValid(t, mode.NewRegistry(), "1 + 2 * 3")
	//
	sum := tree.Units[0].(*ast.Formula)
	//
	if sum.Symbol != "+" {
		t.Fatalf("outermost operator is %s", sum.Symbol)
	}
	//
	if product := sum.Rhs.(*ast.Formula); product.Symbol != "*" {
		t.Errorf("inner operator is %s", product.Symbol)
	}
}

func Test_Formula_02(t *testing.T) {
	// Operators of equal priority associate to the left.
	tree := parseValid(t, mode.NewRegistry(), "1 - 2 - 3")
	//
	outer := tree.Units[0].(*ast.Formula)
	inner := outer.Lhs.(*ast.Formula)
	//
	if outer.Symbol != "-" || inner.Symbol != "-" {
		t.Fatalf("parsed as %s over %s", outer.Symbol, inner.Symbol)
	}
	//
	if d := inner.Rhs.(*ast.Denotation); d.Text != "2" {
		t.Errorf("inner right operand is %s", d.Text)
	}
}

func Test_Formula_03(t *testing.T) {
	// Monadic operators bind more tightly than any dyadic one.
	tree := parseValid(t, mode.NewRegistry(), "ABS x + 1")
	//
	sum := tree.Units[0].(*ast.Formula)
	//
	if sum.Symbol != "+" {
		t.Fatalf("outermost operator is %s", sum.Symbol)
	}
	//
	monadic := sum.Lhs.(*ast.Formula)
	if monadic.Symbol != "ABS" || monadic.Rhs != nil {
		t.Errorf("monadic operand parsed as %s", monadic.Symbol)
	}
}

func Test_Formula_04(t *testing.T) {
	// A monadic spelling introduced by an OP declaration parses thereafter.
	tree := parseValid(t, mode.NewRegistry(), "OP DOUBLE = (INT n) INT: n + n; DOUBLE 3")
	//
	monadic := tree.Units[1].(*ast.Formula)
	//
	if monadic.Symbol != "DOUBLE" || monadic.Rhs != nil {
		t.Errorf("parsed as %s", monadic.Symbol)
	}
}

func Test_Formula_05(t *testing.T) {
	// A PRIO declaration fixes the priority of a new dyadic spelling.
	tree := parseValid(t, mode.NewRegistry(), "PRIO MAX = 6; 1 MAX 2 * 3")
	//
	prio := tree.Units[0].(*ast.PriorityDeclaration)
	if prio.Symbol != "MAX" || prio.Priority != 6 {
		t.Fatalf("parsed as %s = %d", prio.Symbol, prio.Priority)
	}
	// At priority 6, MAX binds more loosely than multiplication.
	formula := tree.Units[1].(*ast.Formula)
	//
	if formula.Symbol != "MAX" {
		t.Errorf("outermost operator is %s", formula.Symbol)
	}
}

func Test_Formula_06(t *testing.T) {
	// Without a PRIO declaration, a fresh dyadic spelling fails to parse.
	_, _, errs := Parse(source.NewFile("test.a68", []byte("1 MAX 2")), mode.NewRegistry())
	//
	if len(errs) == 0 {
		t.Errorf("expected a syntax error")
	}
}

// ============================================================================
// Primaries and secondaries
// ============================================================================

func Test_Slice_01(t *testing.T) {
	tree := parseValid(t, mode.NewRegistry(), "[10] INT x; x[2]")
	//
	slice := tree.Units[1].(*ast.Slice)
	//
	if len(slice.Indexers) != 1 || slice.Indexers[0].IsTrim() {
		t.Errorf("parsed indexers %v", slice.Indexers)
	}
}

func Test_Slice_02(t *testing.T) {
	tree := parseValid(t, mode.NewRegistry(), "[10] INT x; x[2:4]")
	//
	slice := tree.Units[1].(*ast.Slice)
	ix := slice.Indexers[0]
	//
	if !ix.IsTrim() || ix.Lower == nil || ix.Upper == nil {
		t.Errorf("parsed indexer %v", ix)
	}
}

func Test_Slice_03(t *testing.T) {
	// Open trimmer bounds, and mixing subscripts with trimmers.
	tree := parseValid(t, mode.NewRegistry(), "[5, 5] INT m; m[2, :4]")
	//
	slice := tree.Units[1].(*ast.Slice)
	//
	if len(slice.Indexers) != 2 {
		t.Fatalf("parsed %d indexers", len(slice.Indexers))
	}
	//
	if slice.Indexers[0].IsTrim() || !slice.Indexers[1].IsTrim() {
		t.Errorf("parsed indexers %v", slice.Indexers)
	}
	//
	if slice.Indexers[1].Lower != nil || slice.Indexers[1].Upper == nil {
		t.Errorf("open lower bound parsed as %v", slice.Indexers[1])
	}
}

func Test_Selection_01(t *testing.T) {
	tree := parseValid(t, mode.NewRegistry(),
		"MODE PAIR = STRUCT (INT x, INT y); PAIR p; x OF p")
	//
	sel := tree.Units[2].(*ast.Selection)
	//
	if sel.Field != "x" {
		t.Errorf("selected field %s", sel.Field)
	}
}

func Test_Call_01(t *testing.T) {
	tree := parseValid(t, mode.NewRegistry(), "PROC f = (INT a, INT b) INT: a; f(1, 2)")
	//
	call := tree.Units[1].(*ast.Call)
	//
	if len(call.Arguments) != 2 {
		t.Errorf("parsed %d arguments", len(call.Arguments))
	}
}

func Test_Cast_01(t *testing.T) {
	r := mode.NewRegistry()
	tree := parseValid(t, r, "REAL (1)")
	//
	cast := tree.Units[0].(*ast.Cast)
	//
	if cast.Declarer != r.Standard().Real {
		t.Errorf("cast declarer is %s", cast.Declarer)
	}
}

func Test_String_01(t *testing.T) {
	// Doubled quotes inside a string denotation collapse to one.
	tree := parseValid(t, mode.NewRegistry(), `y := "he""llo"`)
	//
	assign := tree.Units[0].(*ast.Assignation)
	d := assign.Source.(*ast.Denotation)
	//
	if d.Text != `he"llo` {
		t.Errorf("unquoted to %q", d.Text)
	}
}

// ============================================================================
// Enclosed clauses
// ============================================================================

func Test_Enclosed_01(t *testing.T) {
	// A single parenthesised unit is a closed clause; commas make a display;
	// a routine text is recognised by shape.
	tree := parseValid(t, mode.NewRegistry(), "(1); (1, 2); (INT a) INT: a")
	//
	if _, ok := tree.Units[0].(*ast.ClosedClause); !ok {
		t.Errorf("(1) parsed as %T", tree.Units[0])
	}
	//
	if display, ok := tree.Units[1].(*ast.Display); !ok || len(display.Elements) != 2 {
		t.Errorf("(1, 2) parsed as %T", tree.Units[1])
	}
	//
	if _, ok := tree.Units[2].(*ast.RoutineText); !ok {
		t.Errorf("routine text parsed as %T", tree.Units[2])
	}
}

func Test_Enclosed_02(t *testing.T) {
	// ELIF chains nest as the else part.
	tree := parseValid(t, mode.NewRegistry(), "IF TRUE THEN 1 ELIF FALSE THEN 2 ELSE 3 FI")
	//
	outer := tree.Units[0].(*ast.ConditionalClause)
	nested := outer.Else.(*ast.ConditionalClause)
	//
	if nested.Else == nil {
		t.Errorf("ELSE arm lost in the ELIF chain")
	}
}

func Test_Enclosed_03(t *testing.T) {
	// The shape of the first leg distinguishes the two case clauses.
	tree := parseValid(t, mode.NewRegistry(),
		"INT i := 1; CASE i IN 10, 20 ESAC; UNION (INT, REAL) u = 1; CASE u IN (INT n): n OUT 0 ESAC")
	//
	if c, ok := tree.Units[1].(*ast.IntegerCase); !ok || len(c.Legs) != 2 {
		t.Errorf("integral case parsed as %T", tree.Units[1])
	}
	//
	united, ok := tree.Units[3].(*ast.UnitedCase)
	if !ok || len(united.Legs) != 1 {
		t.Fatalf("united case parsed as %T", tree.Units[3])
	}
	//
	if united.Legs[0].Binding != "n" || united.Out == nil {
		t.Errorf("leg parsed as %v", united.Legs[0])
	}
}

func Test_Enclosed_04(t *testing.T) {
	tree := parseValid(t, mode.NewRegistry(),
		"INT s := 0; FOR i FROM 1 TO 10 DO s := s + i OD; WHILE FALSE DO SKIP OD")
	//
	counted := tree.Units[1].(*ast.Loop)
	//
	if counted.Counter != "i" || counted.From == nil || counted.To == nil || counted.By != nil {
		t.Errorf("loop parts parsed as %v", counted)
	}
	//
	conditional := tree.Units[2].(*ast.Loop)
	//
	if conditional.While == nil || conditional.Counter != "" {
		t.Errorf("while loop parsed as %v", conditional)
	}
}

func Test_Enclosed_05(t *testing.T) {
	// A unit followed by EXIT becomes a completer of its clause.
	tree := parseValid(t, mode.NewRegistry(), "(1; 2 EXIT 3)")
	//
	closed := tree.Units[0].(*ast.ClosedClause)
	//
	if len(closed.Body.Units) != 2 || len(closed.Body.Exits) != 1 {
		t.Errorf("parsed %d units and %d completers",
			len(closed.Body.Units), len(closed.Body.Exits))
	}
}

// ============================================================================
// Errors and spans
// ============================================================================

func Test_Error_01(t *testing.T) {
	for _, program := range []string{
		"IF TRUE THEN 1",
		"INT i := ",
		"x[1",
		"STRUCT (INT) s",
		"1 +",
	} {
		_, _, errs := Parse(source.NewFile("test.a68", []byte(program)), mode.NewRegistry())
		//
		if len(errs) == 0 {
			t.Errorf("no syntax error for %q", program)
		}
	}
}

func Test_Span_01(t *testing.T) {
	// Formula spans cover the whole formula, not just its last operand.
	program := "1 + 2 * 3"
	srcfile := source.NewFile("test.a68", []byte(program))
	//
	tree, srcmap, errs := Parse(srcfile, mode.NewRegistry())
	if len(errs) > 0 {
		t.Fatalf("parsing: %s", errs[0].Message())
	}
	//
	sum := tree.Units[0].(*ast.Formula)
	if !srcmap.Has(sum) {
		t.Fatalf("formula missing from the source map")
	}
	//
	span := srcmap.Get(sum)
	if span.Start() != 0 || span.End() != len(program) {
		t.Errorf("formula spans %d..%d", span.Start(), span.End())
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

func parseValid(t *testing.T, r *mode.Registry, program string) *ast.SerialClause {
	t.Helper()
	//
	tree, _, errs := Parse(source.NewFile("test.a68", []byte(program)), r)
	if len(errs) > 0 {
		t.Fatalf("parsing %q: %s", program, errs[0].Message())
	}
	//
	return tree
}

func checkDeclarer(t *testing.T, r *mode.Registry, declarer string, want *mode.Moid) {
	t.Helper()
	//
	tree := parseValid(t, r, declarer+" x")
	decl := tree.Units[0].(*ast.VariableDeclaration)
	//
	if decl.Declarer != want {
		t.Errorf("declarer %q parsed as %s, expected %s", declarer, decl.Declarer, want)
	}
}
