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
	"github.com/consensys/algol68/pkg/a68/ast"
	"github.com/consensys/algol68/pkg/a68/coerce"
	"github.com/consensys/algol68/pkg/a68/mode"
)

// A specification (a primary followed by a parenthesised or bracketed
// suffix) is disambiguated by the mode of its primary rather than by its
// syntax: a routine primary makes it a call, a row primary makes it a slice.
// The parser commits to one node kind, so each checker below delegates to the
// other when the primary turns out the other way around.

func (p *Checker) checkCall(v *ast.Call, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	y := p.checkUnit(v.Callee, coerce.Expect(coerce.MEEK, nil), coerce.SAFE_DEFLEXING)
	d := mode.DeprefAll(y.Mode)
	//
	switch {
	case d.IsError():
		return p.poison(v, ast.UNIT)
	case d.IsProc():
		return p.checkArguments(v, v.Arguments, d, x, dfx)
	}
	// Not a routine after all: perhaps a slice written with parentheses.
	indexable := weakTowards(y.Mode, isIndexable)
	//
	if isIndexable(indexable) {
		indexers := make([]ast.Indexer, len(v.Arguments))
		for i, arg := range v.Arguments {
			indexers[i] = ast.Indexer{Subscript: arg}
		}
		//
		return p.checkIndexing(v, indexable, indexers, x, dfx)
	}
	//
	p.errorAt(v, "cannot call a value of mode %s", y.Mode)
	//
	return p.poison(v, ast.UNIT)
}

// checkArguments validates a call against the parameter pack of its routine.
// An arity mismatch is reported but the call still assumes the routine's
// result mode, so checking can continue around it.
func (p *Checker) checkArguments(v ast.Node, args []ast.Node, proc *mode.Moid, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	params := proc.Pack()
	//
	if len(args) != len(params) {
		p.errorAt(v, "%d arguments for a routine expecting %d", len(args), len(params))
		//
		for _, arg := range args {
			p.checkUnit(arg, coerce.Expect(coerce.STRONG, nil), coerce.SAFE_DEFLEXING)
		}
	} else {
		// Argument binding may alias flexible rows as values, not as names.
		for i, arg := range args {
			p.checkUnit(arg, coerce.Expect(coerce.STRONG, params[i].Mode), coerce.ALIAS_DEFLEXING)
		}
	}
	//
	return p.conclude(v, x, proc.Sub(), ast.UNIT, coerce.FORCE_DEFLEXING)
}

func (p *Checker) checkSlice(v *ast.Slice, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	y := p.checkUnit(v.Source, coerce.Expect(coerce.WEAK, nil), coerce.SAFE_DEFLEXING)
	//
	if y.Mode.IsError() {
		return p.poison(v, ast.UNIT)
	}
	//
	r := weakTowards(y.Mode, isIndexable)
	if isIndexable(r) {
		return p.checkIndexing(v, r, v.Indexers, x, dfx)
	}
	// Perhaps a call written with brackets.
	if d := mode.DeprefAll(y.Mode); d.IsProc() {
		args := make([]ast.Node, 0, len(v.Indexers))
		//
		for i := range v.Indexers {
			if v.Indexers[i].IsTrim() {
				p.errorAt(v, "cannot call a routine with a trimmer")
				return p.poison(v, ast.UNIT)
			}
			//
			args = append(args, v.Indexers[i].Subscript)
		}
		//
		return p.checkArguments(v, args, d, x, dfx)
	}
	//
	p.errorAt(v, "cannot index a value of mode %s", y.Mode)
	//
	return p.poison(v, ast.UNIT)
}

// checkIndexing resolves a slice against the (possibly named) row mode of its
// source.  Each subscript removes a dimension; each trimmer keeps one but
// fixes its bounds, so the result of trimming is never flexible.  Slicing a
// name yields a name.
func (p *Checker) checkIndexing(v ast.Node, r *mode.Moid, indexers []ast.Indexer, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	std := p.reg.Standard()
	meekInt := coerce.Expect(coerce.MEEK, std.Int)
	named := r.IsRef()
	//
	row := r
	if named {
		row = row.Sub()
	}
	// Trimming fixes bounds, so the fixed row beneath any flexibility drives
	// the result.
	fixed := row
	if fixed.IsFlex() {
		fixed = fixed.Sub()
	}
	//
	if !fixed.IsRow() {
		p.errorAt(v, "cannot index a value of mode %s", r)
		return p.poison(v, ast.UNIT)
	}
	// Every dimension takes exactly one subscript or trimmer.
	trims := 0
	//
	for i := range indexers {
		ix := &indexers[i]
		//
		if ix.IsTrim() {
			trims++
			//
			if ix.Lower != nil {
				p.checkUnit(ix.Lower, meekInt, coerce.SAFE_DEFLEXING)
			}
			//
			if ix.Upper != nil {
				p.checkUnit(ix.Upper, meekInt, coerce.SAFE_DEFLEXING)
			}
		} else {
			p.checkUnit(ix.Subscript, meekInt, coerce.SAFE_DEFLEXING)
		}
	}
	//
	if len(indexers) != fixed.Dims() {
		p.errorAt(v, "%d indexers for a row with %d dimensions", len(indexers), fixed.Dims())
		return p.poison(v, ast.UNIT)
	}
	//
	result := fixed.Sub()
	if trims == len(indexers) {
		result = p.reg.TrimOf(row)
	} else if trims > 0 {
		result = p.reg.RowOf(trims, result)
	}
	//
	if named {
		result = p.reg.NameOf(result)
	}
	//
	return p.conclude(v, x, result, ast.UNIT, dfx)
}

func (p *Checker) checkSelection(v *ast.Selection, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	y := p.checkUnit(v.Source, coerce.Expect(coerce.WEAK, nil), coerce.SAFE_DEFLEXING)
	//
	if y.Mode.IsError() {
		return p.poison(v, ast.UNIT)
	}
	//
	r := weakTowards(y.Mode, isSelectable)
	if !isSelectable(r) {
		p.errorAt(v, "cannot select %s from a value of mode %s", v.Field, y.Mode)
		return p.poison(v, ast.UNIT)
	}
	//
	named := r.IsRef()
	st := r
	//
	if named {
		st = st.Sub()
	}
	//
	fields := st.Pack()
	i := fields.Find(v.Field)
	//
	if i < 0 {
		p.errorAt(v, "mode %s has no field %s", st, v.Field)
		return p.poison(v, ast.UNIT)
	}
	//
	result := fields[i].Mode
	if named {
		result = p.reg.NameOf(result)
	}
	//
	return p.conclude(v, x, result, ast.UNIT, dfx)
}

// checkDisplay types a collateral display, which only a strong context with
// a known row, structure or VOID destination can absorb.  In the absence of
// such a destination the members are packed into a transient stowed mode and
// handed to the oracle, whose explanation then lists the offending members.
func (p *Checker) checkDisplay(v *ast.Display, x coerce.Soid) coerce.Soid {
	std := p.reg.Standard()
	attr := ast.COLLATERAL_CLAUSE
	//
	if len(v.Elements) == 0 {
		// An empty display is EMPTY, i.e. VOID.
		return p.conclude(v, x, std.Void, attr, coerce.SAFE_DEFLEXING)
	}
	//
	if x.Sort == coerce.STRONG && x.Mode != nil {
		target := x.Mode
		//
		switch {
		case target.IsError():
			return p.poison(v, attr)
		case target.IsRow(), target.IsFlex():
			element := p.reg.SliceOf(target)
			//
			for _, e := range v.Elements {
				p.checkUnit(e, coerce.Expect(coerce.STRONG, element), coerce.SAFE_DEFLEXING)
			}
			//
			v.SetMode(target)
			return coerce.Yield(target, attr)
		case target.IsStruct():
			fields := target.Pack()
			//
			if len(v.Elements) != len(fields) {
				p.errorAt(v, "display of %d elements for %s, which has %d fields", len(v.Elements), target, len(fields))
				return p.poison(v, attr)
			}
			//
			for i, e := range v.Elements {
				p.checkUnit(e, coerce.Expect(coerce.STRONG, fields[i].Mode), coerce.SAFE_DEFLEXING)
			}
			//
			v.SetMode(target)
			return coerce.Yield(target, attr)
		case target.IsVoid():
			for _, e := range v.Elements {
				p.checkUnit(e, coerce.Expect(coerce.STRONG, std.Void), coerce.SAFE_DEFLEXING)
			}
			//
			v.SetMode(target)
			return coerce.Yield(target, attr)
		}
	}
	// No usable destination: pack the members and let the oracle judge (and,
	// on failure, explain).
	members := make(mode.Pack, len(v.Elements))
	for i, e := range v.Elements {
		y := p.checkUnit(e, coerce.Expect(coerce.STRONG, nil), coerce.SAFE_DEFLEXING)
		members[i] = mode.Member{Mode: y.Mode, Origin: e}
	}
	//
	stowed := p.reg.StowedOf(members)
	//
	if x.Mode == nil {
		if x.Sort != coerce.STRONG {
			p.errorAt(v, "a collateral display requires a strong context")
			return p.poison(v, attr)
		}
		// A nested display: the enclosing one judges it member-wise.
		v.SetMode(stowed)
		//
		return coerce.Yield(stowed, attr)
	}
	//
	return p.conclude(v, x, stowed, attr, coerce.SAFE_DEFLEXING)
}

// Check whether a mode can be indexed directly: a row, or a name referring to
// a row.
func isIndexable(m *mode.Moid) bool {
	if m.IsRef() {
		m = m.Sub()
	}
	//
	return m.IsRow() || m.IsFlex()
}

// Check whether a mode can be selected from directly: a structured value, or
// a name referring to one.
func isSelectable(m *mode.Moid) bool {
	if m.IsRef() {
		m = m.Sub()
	}
	//
	return m.IsStruct()
}

// weakTowards dereferences and deprocedures one step at a time until the
// predicate holds, retaining the final name as a weak context must.
func weakTowards(m *mode.Moid, want func(*mode.Moid) bool) *mode.Moid {
	for m != nil && !want(m) && m.Deprefable() {
		if m.IsRef() && !m.Sub().Deprefable() {
			break
		}
		//
		m = mode.DeprefOnce(m)
	}
	//
	return m
}
