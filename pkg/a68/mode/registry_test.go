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
package mode

import (
	"testing"
)

// ============================================================================
// Interning
// ============================================================================

func Test_Intern_01(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	//
	checkSame(t, r.Ref(std.Int), r.Ref(std.Int))
	checkSame(t, r.RowOf(2, std.Real), r.RowOf(2, std.Real))
	checkSame(t, r.Flex(r.RowOf(1, std.Char)), std.String)
	checkSame(t, r.Primitive("INT", 1), std.LongInt)
}

func Test_Intern_02(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	//
	checkDistinct(t, r.Ref(std.Int), r.Ref(std.Real))
	checkDistinct(t, r.RowOf(1, std.Int), r.RowOf(2, std.Int))
	checkDistinct(t, std.Int, std.LongInt)
	checkDistinct(t, std.Bool, std.Void)
}

func Test_Intern_03(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Routine modes intern on parameters and result.
	p1 := r.ProcOf(NewPack(std.Real, std.Real), std.Bool)
	p2 := r.ProcOf(NewPack(std.Real, std.Real), std.Bool)
	p3 := r.ProcOf(NewPack(std.Real), std.Bool)
	//
	checkSame(t, p1, p2)
	checkDistinct(t, p1, p3)
}

func Test_Intern_04(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Structured modes intern on field tags as well as field modes.
	s1 := r.StructOf(Pack{{std.Real, "re", nil}, {std.Real, "im", nil}})
	s2 := r.StructOf(Pack{{std.Real, "re", nil}, {std.Real, "im", nil}})
	s3 := r.StructOf(Pack{{std.Real, "x", nil}, {std.Real, "y", nil}})
	//
	checkSame(t, s1, s2)
	checkDistinct(t, s1, s3)
}

func Test_Intern_05(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Flexing an already flexible mode changes nothing.
	checkSame(t, r.Flex(std.String), std.String)
	// Interning never re-registers.
	before := r.Count()
	r.Ref(std.Int)
	r.Ref(std.Int)
	after := r.Count()
	//
	if after != before+1 {
		t.Errorf("interned %d new modes, expected 1", after-before)
	}
}

// ============================================================================
// Union absorption
// ============================================================================

func Test_Union_01(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Member order is canonicalised.
	checkSame(t, r.UnionOf(std.Int, std.Real), r.UnionOf(std.Real, std.Int))
}

func Test_Union_02(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Nested unions flatten, duplicates collapse.
	u := r.UnionOf(std.Int, r.UnionOf(std.Int, std.Real))
	//
	checkSame(t, u, r.UnionOf(std.Int, std.Real))
}

func Test_Union_03(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// A singleton union degenerates to its member.
	checkSame(t, r.UnionOf(std.Int), std.Int)
	checkSame(t, r.UnionOf(std.Int, std.Int), std.Int)
}

func Test_Union_04(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// A member whose depreffed mode is a union already covered by the
	// surrounding members is absorbed into those members.
	u := r.UnionOf(std.Int, std.Real)
	v := r.UnionOf(std.Int, std.Real, r.Ref(u))
	//
	checkSame(t, v, u)
}

func Test_Union_05(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Absorption runs to a fixed point through chains of names.
	u := r.UnionOf(std.Int, std.Real)
	v := r.UnionOf(std.Int, std.Real, r.Ref(r.Ref(u)))
	//
	checkSame(t, v, u)
	// But a member union with outside members is not absorbed.
	w := r.UnionOf(std.Int, r.Ref(r.UnionOf(std.Real, std.Bool)))
	//
	if !w.IsUnion() || len(w.Pack()) != 2 {
		t.Errorf("expected a two-member union, got %s", w)
	}
}

func Test_Union_06(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Idempotence: uniting a union with itself changes nothing.
	u := r.UnionOf(std.Int, std.Real, std.Bool)
	//
	checkSame(t, r.UnionOf(u, u), u)
	checkSame(t, r.UnionOf(u, std.Int), u)
}

// ============================================================================
// Memoized derivations
// ============================================================================

func Test_Derived_01(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Slicing strips one dimension; the last strip yields the element.
	matrix := r.RowOf(2, std.Int)
	//
	checkSame(t, r.SliceOf(matrix), r.RowOf(1, std.Int))
	checkSame(t, r.SliceOf(r.RowOf(1, std.Int)), std.Int)
	// Slicing a flexible row loses the flexibility.
	checkSame(t, r.SliceOf(std.String), std.Char)
	//
	if r.SliceOf(std.Int) != nil {
		t.Errorf("sliced INT")
	}
}

func Test_Derived_02(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	//
	checkSame(t, r.NameOf(std.Int), r.Ref(std.Int))
	checkSame(t, r.NameOf(std.Int), r.NameOf(std.Int))
}

func Test_Derived_03(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Trimming retains dimensionality but fixes bounds, losing flexibility.
	checkSame(t, r.TrimOf(r.RowOf(2, std.Int)), r.RowOf(2, std.Int))
	checkSame(t, r.TrimOf(std.String), std.RowChar)
	checkSame(t, r.TrimOf(r.Flex(r.RowOf(2, std.Real))), r.RowOf(2, std.Real))
	//
	if r.TrimOf(std.Bool) != nil {
		t.Errorf("trimmed BOOL")
	}
}

func Test_Derived_04(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	//
	checkSame(t, r.DeflexedOf(std.String), std.RowChar)
	checkSame(t, r.DeflexedOf(r.Ref(std.String)), r.Ref(std.RowChar))
	checkSame(t, r.DeflexedOf(std.Int), std.Int)
	// Deflexing reaches through rows and structured fields.
	nested := r.RowOf(1, std.String)
	flat := r.RowOf(1, std.RowChar)
	//
	checkSame(t, r.DeflexedOf(nested), flat)
	//
	s := r.StructOf(Pack{{std.String, "name", nil}, {std.Int, "age", nil}})
	d := r.StructOf(Pack{{std.RowChar, "name", nil}, {std.Int, "age", nil}})
	//
	checkSame(t, r.DeflexedOf(s), d)
}

func Test_Derived_05(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Deflexing is idempotent.
	m := r.Ref(r.RowOf(1, std.String))
	//
	checkSame(t, r.DeflexedOf(r.DeflexedOf(m)), r.DeflexedOf(m))
	// Routine modes are untouched.
	p := r.ProcOf(NewPack(std.String), std.String)
	//
	checkSame(t, r.DeflexedOf(p), p)
}

// ============================================================================
// Registration of external graphs
// ============================================================================

func Test_Register_01(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// A non-recursive external descriptor resolves to its interned twin.
	m := &Moid{kind: REF, sub: std.Int}
	//
	checkSame(t, r.Register(m), r.Ref(std.Int))
}

func Test_Register_02(t *testing.T) {
	r := NewRegistry()
	// Two separately-built copies of the same recursive mode register as one.
	a := newListMode(r)
	b := newListMode(r)
	//
	a = r.Register(a)
	//
	checkSame(t, r.Register(b), a)
}

func Test_Register_03(t *testing.T) {
	r := NewRegistry()
	// Registering twice is a no-op.
	m := r.Register(newListMode(r))
	//
	checkSame(t, r.Register(m), m)
	//
	if m.Number() == 0 {
		t.Errorf("registered mode has no ordinal")
	}
	// The adopted graph is numbered throughout.
	if m.Pack()[1].Mode.Number() == 0 {
		t.Errorf("adopted submode has no ordinal")
	}
}

func Test_Register_04(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Adopting a graph folds children onto their interned twins, so the
	// external copy of REF INT below never becomes a second handle.
	refInt := r.Ref(std.Int)
	m := &Moid{kind: ROW, dims: 1, sub: &Moid{kind: REF, sub: std.Int}}
	//
	registered := r.Register(m)
	//
	checkSame(t, registered.Sub(), refInt)
	checkSame(t, r.RowOf(1, refInt), registered)
}

// ============================================================================
// Printing
// ============================================================================

func Test_ModeString_01(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	//
	checkString(t, std.Int, "INT")
	checkString(t, std.LongLongInt, "LONG LONG INT")
	checkString(t, r.Ref(r.RowOf(1, std.Int)), "REF [] INT")
	checkString(t, r.RowOf(3, std.Real), "[,,] REAL")
	checkString(t, std.String, "FLEX [] CHAR")
}

func Test_ModeString_02(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	//
	checkString(t, r.ProcOf(nil, std.Void), "PROC VOID")
	checkString(t, r.ProcOf(NewPack(std.Real, std.Real), std.Bool), "PROC (REAL, REAL) BOOL")
	checkString(t, r.UnionOf(std.Int, std.Real), "UNION (INT, REAL)")
	//
	s := r.StructOf(Pack{{std.Real, "re", nil}, {std.Real, "im", nil}})
	checkString(t, s, "STRUCT (REAL re, REAL im)")
}

func Test_ModeString_03(t *testing.T) {
	r := NewRegistry()
	// A self-referential mode prints finitely.
	m := r.Register(newListMode(r))
	//
	if m.String() == "" {
		t.Errorf("empty rendering for a recursive mode")
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

// newListMode builds (without registering) the classic self-referential list:
// STRUCT (INT head, REF list tail).
func newListMode(r *Registry) *Moid {
	std := r.Standard()
	list := &Moid{kind: STRUCT}
	tail := &Moid{kind: REF, sub: list}
	list.pack = Pack{{std.Int, "head", nil}, {tail, "tail", nil}}
	//
	return list
}

func checkSame(t *testing.T, got *Moid, want *Moid) {
	t.Helper()
	//
	if got != want {
		t.Errorf("got %s (#%d), expected %s (#%d)", got, got.Number(), want, want.Number())
	}
}

func checkDistinct(t *testing.T, a *Moid, b *Moid) {
	t.Helper()
	//
	if a == b {
		t.Errorf("%s and %s share a handle", a, b)
	}
}

func checkString(t *testing.T, m *Moid, want string) {
	t.Helper()
	//
	if m.String() != want {
		t.Errorf("got %q, expected %q", m.String(), want)
	}
}
