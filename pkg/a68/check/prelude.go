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
package check

import (
	"github.com/consensys/algol68/pkg/a68/mode"
)

// StandardScope builds the outermost range, populated with the operators of
// the standard environment.  The table is intentionally a useful core rather
// than the full revised-report prelude: enough overloads that resolution,
// widened trials and augmented assignment are all reachable.
func StandardScope(reg *mode.Registry) *Scope {
	s := NewScope(nil)
	std := reg.Standard()
	//
	refInt := reg.Ref(std.Int)
	refReal := reg.Ref(std.Real)
	refCompl := reg.Ref(std.Compl)
	refString := reg.Ref(std.String)
	//
	dyad := func(symbol string, lhs, rhs, result *mode.Moid) {
		s.DeclareOperator(symbol, reg.ProcOf(mode.NewPack(lhs, rhs), result))
	}
	monad := func(symbol string, arg, result *mode.Moid) {
		s.DeclareOperator(symbol, reg.ProcOf(mode.NewPack(arg), result))
	}
	// Arithmetic.
	for _, symbol := range []string{"+", "-", "*"} {
		dyad(symbol, std.Int, std.Int, std.Int)
		dyad(symbol, std.Real, std.Real, std.Real)
		dyad(symbol, std.Int, std.Real, std.Real)
		dyad(symbol, std.Real, std.Int, std.Real)
		dyad(symbol, std.Compl, std.Compl, std.Compl)
		dyad(symbol, std.Real, std.Compl, std.Compl)
		dyad(symbol, std.Compl, std.Real, std.Compl)
		dyad(symbol, std.LongInt, std.LongInt, std.LongInt)
		dyad(symbol, std.LongReal, std.LongReal, std.LongReal)
		dyad(symbol, std.LongCompl, std.LongCompl, std.LongCompl)
	}
	//
	dyad("/", std.Int, std.Int, std.Real)
	dyad("/", std.Real, std.Real, std.Real)
	dyad("/", std.Int, std.Real, std.Real)
	dyad("/", std.Real, std.Int, std.Real)
	dyad("/", std.Compl, std.Compl, std.Compl)
	dyad("/", std.LongReal, std.LongReal, std.LongReal)
	//
	dyad("OVER", std.Int, std.Int, std.Int)
	dyad("MOD", std.Int, std.Int, std.Int)
	dyad("OVER", std.LongInt, std.LongInt, std.LongInt)
	dyad("MOD", std.LongInt, std.LongInt, std.LongInt)
	//
	dyad("**", std.Int, std.Int, std.Int)
	dyad("**", std.Real, std.Int, std.Real)
	dyad("**", std.Compl, std.Int, std.Compl)
	// Complex construction.
	dyad("I", std.Real, std.Real, std.Compl)
	dyad("I", std.Int, std.Int, std.Compl)
	// Comparison.
	for _, symbol := range []string{"=", "/="} {
		dyad(symbol, std.Int, std.Int, std.Bool)
		dyad(symbol, std.Real, std.Real, std.Bool)
		dyad(symbol, std.Int, std.Real, std.Bool)
		dyad(symbol, std.Real, std.Int, std.Bool)
		dyad(symbol, std.Compl, std.Compl, std.Bool)
		dyad(symbol, std.Bool, std.Bool, std.Bool)
		dyad(symbol, std.Char, std.Char, std.Bool)
		dyad(symbol, std.String, std.String, std.Bool)
		dyad(symbol, std.Bits, std.Bits, std.Bool)
	}
	//
	for _, symbol := range []string{"<", "<=", ">", ">="} {
		dyad(symbol, std.Int, std.Int, std.Bool)
		dyad(symbol, std.Real, std.Real, std.Bool)
		dyad(symbol, std.Int, std.Real, std.Bool)
		dyad(symbol, std.Real, std.Int, std.Bool)
		dyad(symbol, std.Char, std.Char, std.Bool)
		dyad(symbol, std.String, std.String, std.Bool)
	}
	// Boolean and bits algebra.
	dyad("AND", std.Bool, std.Bool, std.Bool)
	dyad("OR", std.Bool, std.Bool, std.Bool)
	dyad("AND", std.Bits, std.Bits, std.Bits)
	dyad("OR", std.Bits, std.Bits, std.Bits)
	dyad("ELEM", std.Int, std.Bits, std.Bool)
	monad("NOT", std.Bool, std.Bool)
	monad("NOT", std.Bits, std.Bits)
	// Text.
	dyad("+", std.String, std.String, std.String)
	dyad("+", std.String, std.Char, std.String)
	dyad("+", std.Char, std.String, std.String)
	dyad("+", std.Char, std.Char, std.String)
	dyad("*", std.String, std.Int, std.String)
	dyad("*", std.Char, std.Int, std.String)
	// Monadic arithmetic.
	for _, m := range []*mode.Moid{std.Int, std.Real, std.Compl, std.LongInt, std.LongReal} {
		monad("+", m, m)
		monad("-", m, m)
	}
	//
	monad("ABS", std.Int, std.Int)
	monad("ABS", std.Real, std.Real)
	monad("ABS", std.Compl, std.Real)
	monad("ABS", std.Char, std.Int)
	monad("ABS", std.Bool, std.Int)
	monad("SIGN", std.Int, std.Int)
	monad("SIGN", std.Real, std.Int)
	monad("ODD", std.Int, std.Bool)
	monad("ENTIER", std.Real, std.Int)
	monad("ROUND", std.Real, std.Int)
	monad("RE", std.Compl, std.Real)
	monad("IM", std.Compl, std.Real)
	monad("REPR", std.Int, std.Char)
	monad("LENG", std.Int, std.LongInt)
	monad("LENG", std.Real, std.LongReal)
	monad("SHORTEN", std.LongInt, std.Int)
	monad("SHORTEN", std.LongReal, std.Real)
	// Bounds interrogation accepts any row via the ROWS pseudo mode.
	monad("UPB", std.Rows, std.Int)
	monad("LWB", std.Rows, std.Int)
	// Augmented assignment.
	dyad("+:=", refInt, std.Int, refInt)
	dyad("-:=", refInt, std.Int, refInt)
	dyad("*:=", refInt, std.Int, refInt)
	dyad("+:=", refReal, std.Real, refReal)
	dyad("-:=", refReal, std.Real, refReal)
	dyad("*:=", refReal, std.Real, refReal)
	dyad("/:=", refReal, std.Real, refReal)
	dyad("+:=", refCompl, std.Compl, refCompl)
	dyad("+:=", refString, std.String, refString)
	dyad("+=:", std.String, refString, refString)
	//
	return s
}
