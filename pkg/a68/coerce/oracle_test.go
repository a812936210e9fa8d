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
package coerce

import (
	"testing"

	"github.com/consensys/algol68/pkg/a68/mode"
)

var sorts = []Strength{SOFT, WEAK, MEEK, FIRM, STRONG}

// ============================================================================
// Reflexivity and the strength ladder
// ============================================================================

func Test_Oracle_01(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Every mode coerces to itself at every strength.
	modes := []*mode.Moid{
		std.Int, std.Real, std.Bool, std.String,
		r.Ref(std.Int), r.RowOf(2, std.Real),
		r.ProcOf(mode.NewPack(std.Int), std.Bool),
		r.UnionOf(std.Int, std.Real),
	}
	//
	for _, m := range modes {
		for _, sort := range sorts {
			checkCoercible(t, o, m, m, sort, SAFE_DEFLEXING, true)
		}
	}
}

func Test_Oracle_02(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Whatever a weaker position accepts, a stronger one accepts too.
	pairs := []struct{ p, q *mode.Moid }{
		{r.Ref(std.Int), std.Int},
		{r.ProcOf(nil, std.Real), std.Real},
		{std.Int, r.UnionOf(std.Int, std.Real)},
		{std.Int, std.Real},
		{r.Ref(r.Ref(std.Bool)), r.Ref(std.Bool)},
	}
	//
	for _, pair := range pairs {
		held := false
		//
		for _, sort := range sorts {
			now := o.Coercible(pair.p, pair.q, sort, SAFE_DEFLEXING)
			if held && !now {
				t.Errorf("%s -> %s holds below %s but not at it", pair.p, pair.q, sort)
			}
			//
			held = held || now
		}
		//
		if !held {
			t.Errorf("%s -> %s holds at no strength", pair.p, pair.q)
		}
	}
}

// ============================================================================
// Deproceduring and dereferencing
// ============================================================================

func Test_Oracle_03(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Deproceduring a parameterless routine applies even softly.
	proc := r.ProcOf(nil, std.Int)
	//
	checkCoercible(t, o, proc, std.Int, SOFT, SAFE_DEFLEXING, true)
	checkCoercible(t, o, r.ProcOf(nil, proc), std.Int, SOFT, SAFE_DEFLEXING, true)
	// A routine with parameters never deprocedures.
	with := r.ProcOf(mode.NewPack(std.Int), std.Int)
	//
	checkCoercible(t, o, with, std.Int, STRONG, SAFE_DEFLEXING, false)
}

func Test_Oracle_04(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	name := r.Ref(std.Int)
	// Dereferencing requires at least a weak position; a weak one still stops
	// short of removing the final name.
	checkCoercible(t, o, name, std.Int, SOFT, SAFE_DEFLEXING, false)
	checkCoercible(t, o, name, std.Int, WEAK, SAFE_DEFLEXING, false)
	checkCoercible(t, o, name, std.Int, MEEK, SAFE_DEFLEXING, true)
}

func Test_Oracle_05(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// A weak position keeps the final name; a meek one does not.
	name2 := r.Ref(r.Ref(std.Int))
	//
	checkCoercible(t, o, name2, r.Ref(std.Int), WEAK, SAFE_DEFLEXING, true)
	checkCoercible(t, o, name2, std.Int, WEAK, SAFE_DEFLEXING, false)
	checkCoercible(t, o, name2, std.Int, MEEK, SAFE_DEFLEXING, true)
}

// ============================================================================
// Uniting
// ============================================================================

func Test_Oracle_06(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	u := r.UnionOf(std.Int, std.Real)
	// Uniting requires at least a firm position.
	checkCoercible(t, o, std.Int, u, MEEK, SAFE_DEFLEXING, false)
	checkCoercible(t, o, std.Int, u, FIRM, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Real, u, FIRM, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Bool, u, FIRM, SAFE_DEFLEXING, false)
	// Dereferencing feeds uniting.
	checkCoercible(t, o, r.Ref(std.Int), u, FIRM, SAFE_DEFLEXING, true)
}

func Test_Oracle_07(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// A union coerces to a wider union, never to a narrower one.
	narrow := r.UnionOf(std.Int, std.Real)
	wide := r.UnionOf(std.Int, std.Real, std.Bool)
	//
	checkCoercible(t, o, narrow, wide, FIRM, SAFE_DEFLEXING, true)
	checkCoercible(t, o, wide, narrow, FIRM, SAFE_DEFLEXING, false)
	checkCoercible(t, o, wide, narrow, STRONG, SAFE_DEFLEXING, false)
}

// ============================================================================
// Widening
// ============================================================================

func Test_Oracle_08(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Widening requires a strong position and is one-directional.
	checkCoercible(t, o, std.Int, std.Real, FIRM, SAFE_DEFLEXING, false)
	checkCoercible(t, o, std.Int, std.Real, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Real, std.Int, STRONG, SAFE_DEFLEXING, false)
	checkCoercible(t, o, std.Real, std.Compl, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Compl, std.Real, STRONG, SAFE_DEFLEXING, false)
}

func Test_Oracle_09(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Widening chains through sizes and families.
	checkCoercible(t, o, std.Int, std.Compl, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Int, std.LongReal, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Int, std.LongLongCompl, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.LongInt, std.Real, STRONG, SAFE_DEFLEXING, false)
	// The chain feeds off a dereferenced name.
	checkCoercible(t, o, r.Ref(std.Int), std.Real, STRONG, SAFE_DEFLEXING, true)
}

func Test_Oracle_10(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// BITS widens to [] BOOL, BYTES to [] CHAR.
	checkCoercible(t, o, std.Bits, std.RowBool, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Bytes, std.RowChar, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.RowBool, std.Bits, STRONG, SAFE_DEFLEXING, false)
}

// ============================================================================
// Rowing and voiding
// ============================================================================

func Test_Oracle_11(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Rowing requires a strong position.
	checkCoercible(t, o, std.Int, r.RowOf(1, std.Int), FIRM, SAFE_DEFLEXING, false)
	checkCoercible(t, o, std.Int, r.RowOf(1, std.Int), STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Int, r.RowOf(2, std.Int), STRONG, SAFE_DEFLEXING, true)
	// Rowing composes with widening of the element.
	checkCoercible(t, o, std.Int, r.RowOf(1, std.Real), STRONG, SAFE_DEFLEXING, true)
}

func Test_Oracle_12(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Rowing a name yields a name: REF INT -> REF [] INT, but a plain value
	// never rows to a name.
	checkCoercible(t, o, r.Ref(std.Int), r.Ref(r.RowOf(1, std.Int)), STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Int, r.Ref(r.RowOf(1, std.Int)), STRONG, SAFE_DEFLEXING, false)
}

func Test_Oracle_13(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Anything can be voided in a strong position.
	checkCoercible(t, o, std.Int, std.Void, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, r.Ref(std.String), std.Void, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Int, std.Void, FIRM, SAFE_DEFLEXING, false)
}

// ============================================================================
// Sentinels and pseudo modes
// ============================================================================

func Test_Oracle_14(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// The error sentinel coerces both ways at any strength, so one fault
	// cannot cascade.
	for _, sort := range sorts {
		checkCoercible(t, o, std.Error, std.Int, sort, SAFE_DEFLEXING, true)
		checkCoercible(t, o, std.Int, std.Error, sort, SAFE_DEFLEXING, true)
	}
	// The bottom mode coerces to anything, but nothing coerces to it below
	// weak (where it matches as a wildcard target).
	for _, sort := range sorts {
		checkCoercible(t, o, std.Hip, r.Ref(std.String), sort, SAFE_DEFLEXING, true)
	}
	//
	checkCoercible(t, o, std.Int, std.Hip, SOFT, SAFE_DEFLEXING, false)
}

func Test_Oracle_15(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// ROWS accepts any row, firmly.
	checkCoercible(t, o, r.RowOf(1, std.Int), std.Rows, FIRM, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.String, std.Rows, FIRM, SAFE_DEFLEXING, true)
	checkCoercible(t, o, r.Ref(r.RowOf(2, std.Real)), std.Rows, FIRM, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Int, std.Rows, FIRM, SAFE_DEFLEXING, false)
}

func Test_Oracle_16(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// SIMPLOUT accepts printable values; SIMPLIN accepts names over them.
	checkCoercible(t, o, std.Int, std.Simplout, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.String, std.Simplout, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, r.Ref(std.Int), std.Simplout, STRONG, SAFE_DEFLEXING, true)
	//
	checkCoercible(t, o, r.Ref(std.Int), std.Simplin, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, std.Int, std.Simplin, STRONG, SAFE_DEFLEXING, false)
}

// ============================================================================
// Deflexing regimes
// ============================================================================

func Test_Deflex_01(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// Between plain values, flexibility never separates modes except under
	// NO_DEFLEXING.
	for _, dfx := range []Deflex{SKIP_DEFLEXING, FORCE_DEFLEXING, ALIAS_DEFLEXING, SAFE_DEFLEXING} {
		checkCoercible(t, o, std.String, std.RowChar, NO_SORT, dfx, true)
		checkCoercible(t, o, std.RowChar, std.String, NO_SORT, dfx, true)
	}
	//
	checkCoercible(t, o, std.String, std.RowChar, NO_SORT, NO_DEFLEXING, false)
}

func Test_Deflex_02(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	flexName := r.Ref(std.String)
	fixedName := r.Ref(std.RowChar)
	// Between names, FORCE permits both directions.
	checkCoercible(t, o, flexName, fixedName, NO_SORT, FORCE_DEFLEXING, true)
	checkCoercible(t, o, fixedName, flexName, NO_SORT, FORCE_DEFLEXING, true)
	// ALIAS permits a flexible name where a fixed one is expected, never the
	// reverse.
	checkCoercible(t, o, flexName, fixedName, NO_SORT, ALIAS_DEFLEXING, true)
	checkCoercible(t, o, fixedName, flexName, NO_SORT, ALIAS_DEFLEXING, false)
	// SAFE permits neither.
	checkCoercible(t, o, flexName, fixedName, NO_SORT, SAFE_DEFLEXING, false)
	checkCoercible(t, o, fixedName, flexName, NO_SORT, SAFE_DEFLEXING, false)
}

// ============================================================================
// Transient sources
// ============================================================================

func Test_Transient_01(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// A series coerces when every member does.
	series := r.SeriesOf(mode.NewPack(std.Int, r.Ref(std.Int)))
	//
	checkCoercible(t, o, series, std.Int, MEEK, SAFE_DEFLEXING, true)
	checkCoercible(t, o, series, std.Real, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, series, std.Bool, STRONG, SAFE_DEFLEXING, false)
}

func Test_Transient_02(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	stowed := r.StowedOf(mode.NewPack(std.Int, std.Int))
	// A stowed source coerces member-wise against a row target, strongly
	// only.
	checkCoercible(t, o, stowed, r.RowOf(1, std.Int), STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, stowed, r.RowOf(1, std.Real), STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, stowed, r.RowOf(1, std.Int), FIRM, SAFE_DEFLEXING, false)
	checkCoercible(t, o, stowed, r.RowOf(1, std.Bool), STRONG, SAFE_DEFLEXING, false)
}

func Test_Transient_03(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	// A stowed source matches a structured target field-wise, by arity.
	pair := r.StructOf(mode.Pack{{Mode: std.Int, Tag: "x"}, {Mode: std.Real, Tag: "y"}})
	stowed := r.StowedOf(mode.NewPack(std.Int, std.Int))
	short := r.StowedOf(mode.NewPack(std.Int))
	//
	checkCoercible(t, o, stowed, pair, STRONG, SAFE_DEFLEXING, true)
	checkCoercible(t, o, short, pair, STRONG, SAFE_DEFLEXING, false)
}

// ============================================================================
// Explanation rendering
// ============================================================================

func Test_Explain_01(t *testing.T) {
	r := mode.NewRegistry()
	o := NewOracle(r)
	std := r.Standard()
	//
	if msg := o.Explain(std.Real, std.Int, STRONG, SAFE_DEFLEXING); msg == "" {
		t.Errorf("empty explanation for an impossible coercion")
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

func checkCoercible(t *testing.T, o *Oracle, p *mode.Moid, q *mode.Moid, sort Strength, dfx Deflex, want bool) {
	t.Helper()
	//
	if o.Coercible(p, q, sort, dfx) != want {
		t.Errorf("Coercible(%s, %s, %s) != %v", p, q, sort, want)
	}
}
