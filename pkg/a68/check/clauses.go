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

// Enclosed clauses either receive a destination mode from their context, in
// which case every arm is validated against it directly, or they receive
// none and their arms must be balanced to one common mode (§ balance.go).

func (p *Checker) checkSerial(v *ast.SerialClause, x coerce.Soid) coerce.Soid {
	std := p.reg.Standard()
	attr := ast.SERIAL_CLAUSE
	// Declarations within the clause live in their own range.
	outer := p.scope
	p.scope = NewScope(outer)
	//
	defer func() { p.scope = outer }()
	//
	if len(v.Units) == 0 {
		return p.conclude(v, x, std.Void, attr, coerce.SAFE_DEFLEXING)
	}
	// All units but the last are voided.
	voided := coerce.Expect(coerce.STRONG, std.Void)
	for i := 0; i+1 < len(v.Units); i++ {
		p.checkUnit(v.Units[i], voided, coerce.SAFE_DEFLEXING)
	}
	//
	last := v.Units[len(v.Units)-1]
	// With a destination, the final unit and every completer must meet it.
	if x.Mode != nil {
		p.checkUnit(last, x, coerce.SAFE_DEFLEXING)
		//
		for _, e := range v.Exits {
			p.checkUnit(e, x, coerce.SAFE_DEFLEXING)
		}
		//
		v.SetMode(x.Mode)
		return coerce.Yield(x.Mode, attr)
	}
	// Otherwise the final unit balances against the completers.
	open := coerce.Expect(x.Sort, nil)
	cands := []coerce.Soid{p.checkUnit(last, open, coerce.SAFE_DEFLEXING)}
	//
	for _, e := range v.Exits {
		cands = append(cands, p.checkUnit(e, open, coerce.SAFE_DEFLEXING))
	}
	//
	return p.balanced(v, cands, x.Sort, attr)
}

func (p *Checker) checkConditional(v *ast.ConditionalClause, x coerce.Soid) coerce.Soid {
	std := p.reg.Standard()
	attr := ast.CONDITIONAL_CLAUSE
	//
	p.checkSerial(v.Condition, coerce.Expect(coerce.MEEK, std.Bool))
	// A missing ELSE part is EMPTY, so the clause can only yield VOID.
	if v.Else == nil {
		p.checkSerial(v.Then, coerce.Expect(coerce.STRONG, std.Void))
		return p.conclude(v, x, std.Void, attr, coerce.SAFE_DEFLEXING)
	}
	//
	if x.Mode != nil {
		p.checkSerial(v.Then, x)
		p.checkUnit(v.Else, x, coerce.SAFE_DEFLEXING)
		//
		v.SetMode(x.Mode)
		return coerce.Yield(x.Mode, attr)
	}
	//
	open := coerce.Expect(x.Sort, nil)
	cands := []coerce.Soid{
		p.checkSerial(v.Then, open),
		p.checkUnit(v.Else, open, coerce.SAFE_DEFLEXING),
	}
	//
	return p.balanced(v, cands, x.Sort, attr)
}

func (p *Checker) checkIntegerCase(v *ast.IntegerCase, x coerce.Soid) coerce.Soid {
	std := p.reg.Standard()
	attr := ast.INT_CASE_CLAUSE
	//
	p.checkSerial(v.Selector, coerce.Expect(coerce.MEEK, std.Int))
	//
	if x.Mode != nil {
		for _, leg := range v.Legs {
			p.checkUnit(leg, x, coerce.SAFE_DEFLEXING)
		}
		//
		if v.Out != nil {
			p.checkUnit(v.Out, x, coerce.SAFE_DEFLEXING)
		}
		//
		v.SetMode(x.Mode)
		return coerce.Yield(x.Mode, attr)
	}
	//
	open := coerce.Expect(x.Sort, nil)
	var cands []coerce.Soid
	//
	for _, leg := range v.Legs {
		cands = append(cands, p.checkUnit(leg, open, coerce.SAFE_DEFLEXING))
	}
	//
	if v.Out != nil {
		cands = append(cands, p.checkUnit(v.Out, open, coerce.SAFE_DEFLEXING))
	}
	//
	return p.balanced(v, cands, x.Sort, attr)
}

func (p *Checker) checkUnitedCase(v *ast.UnitedCase, x coerce.Soid) coerce.Soid {
	attr := ast.UNITED_CASE_CLAUSE
	// The selector is elaborated meekly down to its united value.
	s := p.checkSerial(v.Selector, coerce.Expect(coerce.MEEK, nil))
	united := mode.DeprefAll(s.Mode)
	//
	if united.IsError() {
		// Already reported within the selector.
	} else if !united.IsUnion() {
		p.errorAt(v, "united case selector yields %s, which is not a united value", united)
	} else {
		// Specifiers outside the selector's union are not rejected here:
		// absorbing them into a merged union defers the final judgement to
		// the coercion of each leg.
		merged := united
		for _, leg := range v.Legs {
			if leg.Specifier != nil {
				merged = p.reg.UnionOf(merged, leg.Specifier)
			}
		}
		//
		if merged != united {
			p.warnAt(v, "specifiers extend the selector union %s to %s", united, merged)
		}
	}
	// Each leg binds its specifier within its own range.
	checkLeg := func(leg *ast.UnitedLeg, expected coerce.Soid) coerce.Soid {
		outer := p.scope
		p.scope = NewScope(outer)
		//
		if leg.Binding != "" {
			p.scope.Declare(leg.Binding, leg.Specifier)
		}
		//
		y := p.checkUnit(leg.Body, expected, coerce.SAFE_DEFLEXING)
		leg.SetMode(y.Mode)
		p.scope = outer
		//
		return y
	}
	//
	if x.Mode != nil {
		for _, leg := range v.Legs {
			checkLeg(leg, x)
		}
		//
		if v.Out != nil {
			p.checkUnit(v.Out, x, coerce.SAFE_DEFLEXING)
		}
		//
		v.SetMode(x.Mode)
		return coerce.Yield(x.Mode, attr)
	}
	//
	open := coerce.Expect(x.Sort, nil)
	var cands []coerce.Soid
	//
	for _, leg := range v.Legs {
		cands = append(cands, checkLeg(leg, open))
	}
	//
	if v.Out != nil {
		cands = append(cands, p.checkUnit(v.Out, open, coerce.SAFE_DEFLEXING))
	}
	//
	return p.balanced(v, cands, x.Sort, attr)
}

func (p *Checker) checkLoop(v *ast.Loop, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	std := p.reg.Standard()
	meekInt := coerce.Expect(coerce.MEEK, std.Int)
	// The counter ranges over the loop parts and the body.
	outer := p.scope
	p.scope = NewScope(outer)
	//
	defer func() { p.scope = outer }()
	//
	if v.Counter != "" {
		p.scope.Declare(v.Counter, std.Int)
	}
	//
	if v.From != nil {
		p.checkUnit(v.From, meekInt, coerce.SAFE_DEFLEXING)
	}
	//
	if v.By != nil {
		p.checkUnit(v.By, meekInt, coerce.SAFE_DEFLEXING)
	}
	//
	if v.To != nil {
		p.checkUnit(v.To, meekInt, coerce.SAFE_DEFLEXING)
	}
	//
	if v.While != nil {
		p.checkSerial(v.While, coerce.Expect(coerce.MEEK, std.Bool))
	}
	//
	p.checkSerial(v.Body, coerce.Expect(coerce.STRONG, std.Void))
	// A loop never balances and always yields VOID.
	return p.conclude(v, x, std.Void, ast.LOOP_CLAUSE, dfx)
}

// balanced applies the balancer to the yields of a multi-armed clause and
// annotates the clause with the outcome.
func (p *Checker) balanced(v ast.Node, cands []coerce.Soid, sort coerce.Strength, attr ast.Attribute) coerce.Soid {
	m, ok := p.balance(cands, sort, coerce.SAFE_DEFLEXING)
	//
	if !ok {
		p.errorAt(v, "no unique mode among %s", enumerate(soidModes(cands)))
		return p.poison(v, attr)
	}
	//
	v.SetMode(m)
	//
	return coerce.Yield(m, attr)
}

func soidModes(soids []coerce.Soid) []*mode.Moid {
	modes := make([]*mode.Moid, len(soids))
	//
	for i, s := range soids {
		modes[i] = s.Mode
	}
	//
	return modes
}
