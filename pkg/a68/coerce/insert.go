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
	"github.com/consensys/algol68/pkg/a68/ast"
	"github.com/consensys/algol68/pkg/a68/mode"
)

// Inserter performs the second pass over a checked tree: driven by the same
// grammar as the checker, but top down, it wraps constructs with coercion
// nodes so that every yield matches what its context requires.  All ambiguity
// was resolved during checking; this pass purely materialises the evidence of
// coercibility as tree structure.  Each call rewrites only the subtree rooted
// at its own node, returning the (possibly wrapped) replacement for the
// caller to link in.
type Inserter struct {
	oracle *Oracle
	reg    *mode.Registry
}

// NewInserter constructs an inserter sharing the checker's oracle.
func NewInserter(oracle *Oracle) *Inserter {
	return &Inserter{oracle, oracle.Registry()}
}

// Insert coerces a whole program tree: the outermost clause is elaborated in
// a STRONG VOID context.
func (p *Inserter) Insert(root ast.Node) ast.Node {
	return p.insertUnit(root, Expect(STRONG, p.reg.Standard().Void))
}

// InsertUnit coerces a single unit towards a given target.  This is the
// entry point used by tests and by embedding tools.
func (p *Inserter) InsertUnit(n ast.Node, target Soid) ast.Node {
	return p.insertUnit(n, target)
}

func (p *Inserter) insertUnit(n ast.Node, target Soid) ast.Node {
	std := p.reg.Standard()
	// Subtrees poisoned by a checking failure are left untouched.
	if m := n.Mode(); m != nil && m.IsError() {
		return n
	}
	//
	switch v := n.(type) {
	case *ast.Identifier, *ast.Denotation, *ast.Nihil, *ast.Generator:
		// Leaves: nothing inside to coerce.
	case *ast.Skip, *ast.Jump:
		// SKIP and jumps simply assume whatever mode the context requires.
		if target.Mode != nil {
			n.SetMode(target.Mode)
		}
		//
		return n
	case *ast.Assignation:
		p.insertAssignation(v)
	case *ast.IdentityRelation:
		// The common mode was fixed during checking; either side may need
		// deproceduring (or, exceptionally, rowing) to reach it.
		v.Lhs = p.insertUnit(v.Lhs, Expect(STRONG, v.Common))
		v.Rhs = p.insertUnit(v.Rhs, Expect(STRONG, v.Common))
	case *ast.Cast:
		cast := Expect(STRONG, v.Declarer)
		cast.Cast = true
		v.Enclosed = p.insertUnit(v.Enclosed, cast)
	case *ast.Formula:
		p.insertFormula(v)
	case *ast.Call:
		p.insertCall(v)
	case *ast.Slice:
		p.insertSlice(v)
	case *ast.Selection:
		src := weakTowards(v.Source.Mode(), isSelectable)
		v.Source = p.insertUnit(v.Source, Expect(WEAK, src))
	case *ast.Display:
		p.insertDisplay(v, target)
		return n
	case *ast.RoutineText:
		v.Body = p.insertUnit(v.Body, Expect(STRONG, v.Result))
	case *ast.Assertion:
		v.Condition = p.insertUnit(v.Condition, Expect(MEEK, std.Bool))
	case *ast.IdentityDeclaration:
		v.Source = p.insertUnit(v.Source, Expect(STRONG, v.Declarer))
		// Declarations yield nothing, so are never wrapped.
		return n
	case *ast.VariableDeclaration:
		if v.Source != nil {
			v.Source = p.insertUnit(v.Source, Expect(STRONG, v.Declarer))
		}
		//
		return n
	case *ast.ModeDeclaration, *ast.OperatorDeclaration, *ast.PriorityDeclaration:
		return n
	case *ast.SerialClause:
		p.insertSerial(v, target)
		return n
	case *ast.ClosedClause:
		p.insertSerial(v.Body, target)
		v.SetMode(v.Body.Mode())
		return n
	case *ast.ConditionalClause:
		p.insertConditional(v, target)
		return n
	case *ast.IntegerCase:
		p.insertIntegerCase(v, target)
		return n
	case *ast.UnitedCase:
		p.insertUnitedCase(v, target)
		return n
	case *ast.Loop:
		p.insertLoop(v)
		return n
	default:
		panic("unknown construct during coercion insertion")
	}
	//
	return p.coerceTo(n, target)
}

// Enclosed clauses push their coercions into their yield positions, so that
// balancing remains observable in the final tree (e.g. the widening of an
// integral THEN branch sits inside the branch, not around the whole
// conditional).

func (p *Inserter) insertSerial(v *ast.SerialClause, target Soid) {
	std := p.reg.Standard()
	voided := Expect(STRONG, std.Void)
	//
	for i, u := range v.Units {
		if i+1 == len(v.Units) {
			v.Units[i] = p.insertUnit(u, target)
		} else {
			v.Units[i] = p.insertUnit(u, voided)
		}
	}
	//
	for i, u := range v.Exits {
		v.Exits[i] = p.insertUnit(u, target)
	}
	//
	if target.Mode != nil {
		v.SetMode(target.Mode)
	}
}

func (p *Inserter) insertConditional(v *ast.ConditionalClause, target Soid) {
	std := p.reg.Standard()
	//
	p.insertSerial(v.Condition, Expect(MEEK, std.Bool))
	p.insertSerial(v.Then, target)
	//
	if v.Else != nil {
		v.Else = p.insertUnit(v.Else, target)
	}
	//
	if target.Mode != nil {
		v.SetMode(target.Mode)
	}
}

func (p *Inserter) insertIntegerCase(v *ast.IntegerCase, target Soid) {
	std := p.reg.Standard()
	//
	p.insertSerial(v.Selector, Expect(MEEK, std.Int))
	//
	for i, leg := range v.Legs {
		v.Legs[i] = p.insertUnit(leg, target)
	}
	//
	if v.Out != nil {
		v.Out = p.insertUnit(v.Out, target)
	}
	//
	if target.Mode != nil {
		v.SetMode(target.Mode)
	}
}

func (p *Inserter) insertUnitedCase(v *ast.UnitedCase, target Soid) {
	// The selector is elaborated down to its united value.
	united := mode.DeprefAll(v.Selector.Mode())
	p.insertSerial(v.Selector, Expect(MEEK, united))
	//
	for _, leg := range v.Legs {
		leg.Body = p.insertUnit(leg.Body, target)
		//
		if target.Mode != nil {
			leg.SetMode(target.Mode)
		}
	}
	//
	if v.Out != nil {
		v.Out = p.insertUnit(v.Out, target)
	}
	//
	if target.Mode != nil {
		v.SetMode(target.Mode)
	}
}

func (p *Inserter) insertLoop(v *ast.Loop) {
	std := p.reg.Standard()
	meekInt := Expect(MEEK, std.Int)
	//
	if v.From != nil {
		v.From = p.insertUnit(v.From, meekInt)
	}
	//
	if v.By != nil {
		v.By = p.insertUnit(v.By, meekInt)
	}
	//
	if v.To != nil {
		v.To = p.insertUnit(v.To, meekInt)
	}
	//
	if v.While != nil {
		p.insertSerial(v.While, Expect(MEEK, std.Bool))
	}
	//
	p.insertSerial(v.Body, Expect(STRONG, std.Void))
}

func (p *Inserter) insertAssignation(v *ast.Assignation) {
	// The destination was checked SOFT; its final mode is a name.
	name := v.Mode()
	//
	v.Destination = p.insertUnit(v.Destination, Expect(SOFT, name))
	//
	if name.IsRef() {
		v.Source = p.insertUnit(v.Source, Expect(STRONG, name.Sub()))
	}
}

func (p *Inserter) insertFormula(v *ast.Formula) {
	if v.Op == nil {
		// Unresolved operator: checking already failed here.
		return
	}
	//
	// Operands resolved through a widened trial need a widening step on top
	// of the firm coercions, so chains are derived at full strength.
	params := v.Op.Pack()
	//
	if v.Rhs == nil {
		v.Lhs = p.insertUnit(v.Lhs, Expect(STRONG, params[0].Mode))
	} else {
		v.Lhs = p.insertUnit(v.Lhs, Expect(STRONG, params[0].Mode))
		v.Rhs = p.insertUnit(v.Rhs, Expect(STRONG, params[1].Mode))
	}
}

func (p *Inserter) insertCall(v *ast.Call) {
	// Deprocedure/dereference the callee down to its routine mode.
	proc := v.Callee.Mode()
	for !proc.IsProc() && proc.Deprefable() {
		proc = mode.DeprefOnce(proc)
	}
	//
	if !proc.IsProc() {
		return
	}
	//
	v.Callee = p.insertUnit(v.Callee, Expect(MEEK, proc))
	//
	params := proc.Pack()
	for i, arg := range v.Arguments {
		if i < len(params) {
			v.Arguments[i] = p.insertUnit(arg, Expect(STRONG, params[i].Mode))
		}
	}
}

func (p *Inserter) insertSlice(v *ast.Slice) {
	std := p.reg.Standard()
	meekInt := Expect(MEEK, std.Int)
	// Weakly dereference the source down to the row (or row name) indexed.
	row := weakTowards(v.Source.Mode(), isIndexable)
	v.Source = p.insertUnit(v.Source, Expect(WEAK, row))
	//
	for i := range v.Indexers {
		ix := &v.Indexers[i]
		//
		if ix.Subscript != nil {
			ix.Subscript = p.insertUnit(ix.Subscript, meekInt)
		}
		//
		if ix.Lower != nil {
			ix.Lower = p.insertUnit(ix.Lower, meekInt)
		}
		//
		if ix.Upper != nil {
			ix.Upper = p.insertUnit(ix.Upper, meekInt)
		}
	}
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

// A display is itself the rowing/structuring construct, so it is never
// wrapped: its elements are coerced member-wise against the already-chosen
// slice or field modes, and the display assumes the target mode directly.
func (p *Inserter) insertDisplay(v *ast.Display, target Soid) {
	m := target.Mode
	if m == nil {
		m = v.Mode()
	}
	//
	switch {
	case m == nil, m.IsError():
		return
	case m.IsRow(), m.IsFlex():
		element := p.reg.SliceOf(m)
		//
		for i, e := range v.Elements {
			v.Elements[i] = p.insertUnit(e, Expect(STRONG, element))
		}
	case m.IsStruct():
		fields := m.Pack()
		//
		for i, e := range v.Elements {
			if i < len(fields) {
				v.Elements[i] = p.insertUnit(e, Expect(STRONG, fields[i].Mode))
			}
		}
	case m.IsVoid():
		voided := Expect(STRONG, m)
		//
		for i, e := range v.Elements {
			v.Elements[i] = p.insertUnit(e, voided)
		}
	}
	//
	v.SetMode(m)
}

// ============================================================================
// Wrapping
// ============================================================================

// step is one link of a coercion chain, innermost first.
type step struct {
	kind ast.CoercionKind
	mode *mode.Moid
}

// coerceTo wraps a checked node with the minimal chain of coercions reaching
// the target, as found by replaying the oracle's successful derivation.
func (p *Inserter) coerceTo(n ast.Node, target Soid) ast.Node {
	from := n.Mode()
	//
	if target.Mode == nil || from == nil {
		return n
	}
	//
	// FORCE is the most permissive regime for the equality tests terminating
	// a chain, so any position accepted during checking (under SAFE, ALIAS or
	// FORCE) yields a chain here.
	steps, ok := p.chain(from, target.Mode, target.Sort, FORCE_DEFLEXING)
	if !ok {
		// Checking accepted this position, so the chain must exist.
		panic("no coercion chain for a checked construct")
	}
	//
	for _, s := range steps {
		wrapper := &ast.Coercion{Kind: s.kind, Arg: n}
		wrapper.SetMode(s.mode)
		n = wrapper
	}
	//
	return n
}

// chain determines the coercion steps from one mode to another at a given
// strength, innermost first.  It mirrors the oracle's derivation exactly.
func (p *Inserter) chain(from *mode.Moid, to *mode.Moid, sort Strength, dfx Deflex) ([]step, bool) {
	o := p.oracle
	std := p.reg.Standard()
	//
	switch {
	case from == nil || to == nil:
		return nil, false
	case from.IsError() || to.IsError() || from.IsHip():
		// Sentinels are never wrapped.
		return nil, true
	case o.equal(from, to, dfx):
		return nil, true
	}
	// Voiding comes first: anything can be voided in a strong context.
	if to.IsVoid() && sort == STRONG {
		if from.IsProc() && len(from.Pack()) == 0 {
			return []step{{ast.DEPROCEDURE, from.Sub()}, {ast.VOID, to}}, true
		}
		//
		return []step{{ast.VOID, to}}, true
	}
	// Deproceduring applies from SOFT upwards.
	if sort >= SOFT && from.IsProc() && len(from.Pack()) == 0 {
		if steps, ok := p.chain(from.Sub(), to, sort, dfx); ok {
			return append([]step{{ast.DEPROCEDURE, from.Sub()}}, steps...), true
		}
	}
	// Dereferencing applies from WEAK upwards; in a WEAK context the final
	// name is retained.
	if sort >= WEAK && from.IsRef() {
		if sort > WEAK || from.Sub().Deprefable() {
			if steps, ok := p.chain(from.Sub(), to, sort, dfx); ok {
				return append([]step{{ast.DEREFERENCE, from.Sub()}}, steps...), true
			}
		}
	}
	// Uniting applies from FIRM upwards.
	if sort >= FIRM && to.IsUnion() && o.unitable(from, to, dfx) {
		return []step{{ast.UNITE, to}}, true
	}
	//
	if sort == STRONG {
		// Widening, one step at a time.
		if w := o.widensTo(from, to); w != nil {
			if steps, ok := p.chain(w, to, sort, dfx); ok {
				return append([]step{{ast.WIDEN, w}}, steps...), true
			}
		}
		// Transput pseudo unions.
		if to == std.Simplout && o.printable(from) {
			return []step{{ast.UNITE, to}}, true
		} else if to == std.Simplin && o.readable(from) {
			return []step{{ast.UNITE, to}}, true
		}
		// Rowing.
		if to.IsRow() || to.IsFlex() {
			if steps, ok := p.chain(from, p.reg.SliceOf(to), sort, dfx); ok {
				return append(steps, step{ast.ROW, to}), true
			}
		} else if to.IsRef() && (to.Sub().IsRow() || to.Sub().IsFlex()) && from.IsRef() {
			target := p.reg.NameOf(p.reg.SliceOf(to.Sub()))
			if steps, ok := p.chain(from, target, sort, dfx); ok {
				return append(steps, step{ast.ROW, to}), true
			}
		}
	}
	// ROWS pseudo mode requires no conversion beyond dereferencing.
	if sort >= FIRM && to == std.Rows && o.rowish(from) {
		return nil, true
	}
	//
	return nil, false
}
