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

func Test_Equivalent_01(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	//
	checkEquivalent(t, std.Int, std.Int, true)
	checkEquivalent(t, std.Int, std.Real, false)
	checkEquivalent(t, std.Int, std.LongInt, false)
	checkEquivalent(t, r.Ref(std.Int), r.Ref(std.Int), true)
	checkEquivalent(t, r.Ref(std.Int), std.Int, false)
}

func Test_Equivalent_02(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Unregistered twins of registered modes.
	checkEquivalent(t, &Moid{kind: REF, sub: std.Int}, r.Ref(std.Int), true)
	checkEquivalent(t, &Moid{kind: ROW, dims: 2, sub: std.Int}, r.RowOf(2, std.Int), true)
	checkEquivalent(t, &Moid{kind: ROW, dims: 1, sub: std.Int}, r.RowOf(2, std.Int), false)
}

func Test_Equivalent_03(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Struct field tags are significant; proc parameter tags are not.
	s1 := &Moid{kind: STRUCT, pack: Pack{{std.Int, "x", nil}}}
	s2 := &Moid{kind: STRUCT, pack: Pack{{std.Int, "y", nil}}}
	//
	checkEquivalent(t, s1, s2, false)
	//
	p1 := &Moid{kind: PROC, sub: std.Void, pack: Pack{{std.Int, "a", nil}}}
	p2 := &Moid{kind: PROC, sub: std.Void, pack: Pack{{std.Int, "b", nil}}}
	//
	checkEquivalent(t, p1, p2, true)
}

func Test_Equivalent_04(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Union member order is not significant.
	u1 := &Moid{kind: UNION, pack: Pack{{std.Int, "", nil}, {std.Real, "", nil}}}
	u2 := &Moid{kind: UNION, pack: Pack{{std.Real, "", nil}, {std.Int, "", nil}}}
	u3 := &Moid{kind: UNION, pack: Pack{{std.Real, "", nil}, {std.Bool, "", nil}}}
	//
	checkEquivalent(t, u1, u2, true)
	checkEquivalent(t, u1, u3, false)
}

func Test_Equivalent_05(t *testing.T) {
	r := NewRegistry()
	// Separately-built recursive modes are equivalent.
	checkEquivalent(t, newListMode(r), newListMode(r), true)
}

func Test_Equivalent_06(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Two recursive modes differing below the knot are not equivalent.
	a := newListMode(r)
	//
	b := &Moid{kind: STRUCT}
	tail := &Moid{kind: REF, sub: b}
	b.pack = Pack{{std.Real, "head", nil}, {tail, "tail", nil}}
	//
	checkEquivalent(t, a, b, false)
}

func Test_Equivalent_07(t *testing.T) {
	r := NewRegistry()
	std := r.Standard()
	// Mutually recursive pairs: A = STRUCT (INT v, REF B next) and
	// B = STRUCT (INT v, REF A next) are equivalent to each other.
	a := &Moid{kind: STRUCT}
	b := &Moid{kind: STRUCT}
	a.pack = Pack{{std.Int, "v", nil}, {&Moid{kind: REF, sub: b}, "next", nil}}
	b.pack = Pack{{std.Int, "v", nil}, {&Moid{kind: REF, sub: a}, "next", nil}}
	//
	checkEquivalent(t, a, b, true)
}

// ============================================================================
// Test Helpers
// ============================================================================

func checkEquivalent(t *testing.T, a *Moid, b *Moid, want bool) {
	t.Helper()
	//
	if Equivalent(a, b) != want {
		t.Errorf("Equivalent(%s, %s) != %v", a, b, want)
	}
	// Equivalence is symmetric.
	if Equivalent(b, a) != want {
		t.Errorf("Equivalent(%s, %s) != %v", b, a, want)
	}
}
