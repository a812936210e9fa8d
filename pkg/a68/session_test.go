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
package a68

import (
	"testing"

	"github.com/consensys/algol68/pkg/a68/ast"
	"github.com/consensys/algol68/pkg/util/source"
)

// ============================================================================
// Coercion insertion
// ============================================================================

func Test_Analyse_01(t *testing.T) {
	// The integral source of a REAL variable gains a widening wrapper.
	session, root := analyse(t, "REAL x := 1")
	//
	decl := root.Units[0].(*ast.VariableDeclaration)
	wrapper := checkCoercion(t, decl.Source, ast.WIDEN)
	//
	if wrapper.Mode() != session.Registry().Standard().Real {
		t.Errorf("widened to %s, expected REAL", wrapper.Mode())
	}
	//
	if _, ok := wrapper.Arg.(*ast.Denotation); !ok {
		t.Errorf("wrapped %T, expected the denotation", wrapper.Arg)
	}
}

func Test_Analyse_02(t *testing.T) {
	// A name source of a plain identity declaration gains a dereference.
	session, root := analyse(t, "INT i := 1; INT j = i")
	//
	decl := root.Units[1].(*ast.IdentityDeclaration)
	wrapper := checkCoercion(t, decl.Source, ast.DEREFERENCE)
	//
	if wrapper.Mode() != session.Registry().Standard().Int {
		t.Errorf("dereferenced to %s, expected INT", wrapper.Mode())
	}
}

func Test_Analyse_03(t *testing.T) {
	// Every unit of a serial clause other than the last is voided; here the
	// final assignation is voided too, since the program context is VOID.
	_, root := analyse(t, "INT i := 1; i := 2")
	//
	wrapper := checkCoercion(t, root.Units[1], ast.VOID)
	//
	if _, ok := wrapper.Arg.(*ast.Assignation); !ok {
		t.Errorf("voided %T, expected the assignation", wrapper.Arg)
	}
}

func Test_Analyse_04(t *testing.T) {
	// Balancing wraps only the arm which needs coercing: the integral THEN
	// arm widens, while the REAL ELSE arm is left alone.
	_, root := analyse(t, "REAL r = IF TRUE THEN 1 ELSE 2.0 FI")
	//
	decl := root.Units[0].(*ast.IdentityDeclaration)
	cond := decl.Source.(*ast.ConditionalClause)
	//
	checkCoercion(t, cond.Then.Units[0], ast.WIDEN)
	//
	alternative := cond.Else.(*ast.SerialClause)
	if _, ok := alternative.Units[0].(*ast.Denotation); !ok {
		t.Errorf("ELSE arm became %T, expected a bare denotation", alternative.Units[0])
	}
}

func Test_Analyse_05(t *testing.T) {
	// A united target unites its source.
	session, root := analyse(t, "UNION (INT, REAL) u = 1")
	//
	std := session.Registry().Standard()
	united := session.Registry().UnionOf(std.Int, std.Real)
	//
	decl := root.Units[0].(*ast.IdentityDeclaration)
	wrapper := checkCoercion(t, decl.Source, ast.UNITE)
	//
	if wrapper.Mode() != united {
		t.Errorf("united to %s, expected %s", wrapper.Mode(), united)
	}
}

func Test_Analyse_06(t *testing.T) {
	// A parameterless procedure source is deprocedured.
	session, root := analyse(t, "PROC one = INT: 1; INT n = one")
	//
	decl := root.Units[1].(*ast.IdentityDeclaration)
	wrapper := checkCoercion(t, decl.Source, ast.DEPROCEDURE)
	//
	if wrapper.Mode() != session.Registry().Standard().Int {
		t.Errorf("deprocedured to %s, expected INT", wrapper.Mode())
	}
}

func Test_Analyse_07(t *testing.T) {
	// A scalar source of a row target is rowed.
	_, root := analyse(t, "[] INT v = 1")
	//
	decl := root.Units[0].(*ast.IdentityDeclaration)
	checkCoercion(t, decl.Source, ast.ROW)
}

// ============================================================================
// Failure handling
// ============================================================================

func Test_Analyse_08(t *testing.T) {
	// Checking failures suppress the insertion pass: the tree comes back
	// annotated but unwrapped, along with the diagnostics.
	session := NewSession()
	tree, errs := session.Parse(source.NewFile("test.a68", []byte("INT i = 1.0")))
	//
	if len(errs) > 0 {
		t.Fatalf("parsing: %s", errs[0].Message())
	}
	//
	annotated, errs := session.Analyse(tree)
	//
	if source.CountErrors(errs) == 0 {
		t.Fatalf("expected a checking error")
	}
	//
	if annotated != ast.Node(tree) {
		t.Errorf("failed analysis returned a transformed tree")
	}
	//
	decl := tree.Units[0].(*ast.IdentityDeclaration)
	if _, ok := decl.Source.(*ast.Denotation); !ok {
		t.Errorf("source became %T despite the failure", decl.Source)
	}
}

func Test_Analyse_09(t *testing.T) {
	// Warnings do not suppress insertion.
	_, root := analyse(t, "INT i := LOC INT := 0")
	//
	if _, ok := root.Units[0].(*ast.VariableDeclaration); !ok {
		t.Errorf("unexpected unit %T", root.Units[0])
	}
}

func Test_AnalyseFile_01(t *testing.T) {
	session := NewSession()
	//
	annotated, errs := session.AnalyseFile(source.NewFile("test.a68", []byte("INT i := 0")))
	if source.CountErrors(errs) > 0 || annotated == nil {
		t.Fatalf("analysing a valid file: %v", errs)
	}
	// A syntax error aborts before analysis.
	annotated, errs = session.AnalyseFile(source.NewFile("bad.a68", []byte("IF TRUE THEN 1")))
	if len(errs) == 0 || annotated != nil {
		t.Fatalf("expected a syntax error, got %v", errs)
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

// analyse runs the full pipeline over a program, failing the test on any
// diagnostic other than a warning.
func analyse(t *testing.T, program string) (*Session, *ast.SerialClause) {
	t.Helper()
	//
	session := NewSession()
	//
	tree, errs := session.Parse(source.NewFile("test.a68", []byte(program)))
	if len(errs) > 0 {
		t.Fatalf("parsing %q: %s", program, errs[0].Message())
	}
	//
	annotated, errs := session.Analyse(tree)
	if source.CountErrors(errs) > 0 {
		t.Fatalf("analysing %q: %v", program, errs)
	}
	//
	return session, annotated.(*ast.SerialClause)
}

// checkCoercion asserts that a node is a coercion wrapper of a given kind,
// returning it for further inspection.
func checkCoercion(t *testing.T, n ast.Node, kind ast.CoercionKind) *ast.Coercion {
	t.Helper()
	//
	wrapper, ok := n.(*ast.Coercion)
	if !ok {
		t.Fatalf("expected a %s coercion, found %T", kind, n)
	}
	//
	if wrapper.Kind != kind {
		t.Fatalf("expected a %s coercion, found %s", kind, wrapper.Kind)
	}
	//
	return wrapper
}
