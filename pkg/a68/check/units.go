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

func (p *Checker) checkAssignation(v *ast.Assignation, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	soft := coerce.Expect(coerce.SOFT, nil)
	d := p.checkUnit(v.Destination, soft, coerce.SAFE_DEFLEXING)
	// A soft context permits deproceduring only; the result must be a name.
	name := deproc(d.Mode)
	//
	switch {
	case name.IsError():
		return p.poison(v, ast.UNIT)
	case !name.IsRef():
		p.errorAt(v, "destination of := yields %s, which is not a name", name)
		return p.poison(v, ast.UNIT)
	}
	// Initialising sources may freely alias flexible and fixed rows.
	p.checkUnit(v.Source, coerce.Expect(coerce.STRONG, name.Sub()), coerce.FORCE_DEFLEXING)
	// An assignation yields its destination.
	return p.conclude(v, x, name, ast.UNIT, dfx)
}

func (p *Checker) checkIdentityRelation(v *ast.IdentityRelation, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	std := p.reg.Standard()
	soft := coerce.Expect(coerce.SOFT, nil)
	//
	lhs := deproc(p.checkUnit(v.Lhs, soft, coerce.SAFE_DEFLEXING).Mode)
	rhs := deproc(p.checkUnit(v.Rhs, soft, coerce.SAFE_DEFLEXING).Mode)
	// Determine the common name mode both sides are compared at.
	var common *mode.Moid
	//
	switch {
	case lhs.IsError() || rhs.IsError():
		common = std.Error
	case lhs.IsHip() && rhs.IsHip():
		p.errorAt(v, "no unique mode in identity relation")
		common = std.Error
	case lhs.IsHip():
		common = rhs
	case rhs.IsHip():
		common = lhs
	case p.oracle.Coercible(lhs, rhs, coerce.STRONG, coerce.SAFE_DEFLEXING):
		common = rhs
	case p.oracle.Coercible(rhs, lhs, coerce.STRONG, coerce.SAFE_DEFLEXING):
		common = lhs
	default:
		p.errorAt(v, "%s and %s have no common mode for an identity relation", lhs, rhs)
		common = std.Error
	}
	//
	if !common.IsError() && !common.IsHip() && !common.IsRef() {
		p.errorAt(v, "identity relation compares names, but the common mode is %s", common)
		common = std.Error
	}
	//
	v.Common = common
	// The relation itself always yields BOOL.
	return p.conclude(v, x, std.Bool, ast.UNIT, dfx)
}

func (p *Checker) checkCast(v *ast.Cast, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	if v.Declarer == nil {
		p.errorAt(v, "cast without a declarer")
		return p.poison(v, ast.UNIT)
	}
	//
	expected := coerce.Expect(coerce.STRONG, v.Declarer)
	expected.Cast = true
	p.checkUnit(v.Enclosed, expected, coerce.SAFE_DEFLEXING)
	//
	return p.conclude(v, x, v.Declarer, ast.UNIT, dfx)
}

func (p *Checker) checkFormula(v *ast.Formula, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	firm := coerce.Expect(coerce.FIRM, nil)
	operands := []*mode.Moid{p.checkUnit(v.Lhs, firm, coerce.SAFE_DEFLEXING).Mode}
	//
	if v.Rhs != nil {
		operands = append(operands, p.checkUnit(v.Rhs, firm, coerce.SAFE_DEFLEXING).Mode)
	}
	//
	for _, m := range operands {
		if m.IsError() {
			return p.poison(v, ast.UNIT)
		} else if m.IsHip() {
			p.errorAt(v, "operand of %s has no unique mode", v.Symbol)
			return p.poison(v, ast.UNIT)
		}
	}
	//
	routine := p.resolveOperator(v.Symbol, operands)
	if routine.IsEmpty() {
		if len(operands) == 1 {
			p.errorAt(v, "no monadic operator %s defined for %s", v.Symbol, operands[0])
		} else {
			p.errorAt(v, "no dyadic operator %s defined for %s and %s", v.Symbol, operands[0], operands[1])
		}
		//
		return p.poison(v, ast.UNIT)
	}
	//
	v.Op = routine.Unwrap()
	// A formula yields the result mode of the chosen routine.
	return p.conclude(v, x, v.Op.Sub(), ast.UNIT, dfx)
}

func (p *Checker) checkRoutineText(v *ast.RoutineText, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	outer := p.scope
	p.scope = NewScope(outer)
	//
	params := make(mode.Pack, len(v.Parameters))
	for i, param := range v.Parameters {
		params[i] = mode.Member{Mode: param.Mode, Tag: param.Name}
		//
		if !p.scope.Declare(param.Name, param.Mode) {
			p.errorAt(v, "parameter %s declared twice", param.Name)
		}
	}
	//
	p.checkUnit(v.Body, coerce.Expect(coerce.STRONG, v.Result), coerce.FORCE_DEFLEXING)
	p.scope = outer
	//
	return p.conclude(v, x, p.reg.ProcOf(params, v.Result), ast.UNIT, dfx)
}

func (p *Checker) checkIdentityDeclaration(v *ast.IdentityDeclaration, x coerce.Soid) coerce.Soid {
	p.checkUnit(v.Source, coerce.Expect(coerce.STRONG, v.Declarer), coerce.SAFE_DEFLEXING)
	//
	if !p.scope.Declare(v.Name, v.Declarer) {
		p.errorAt(v, "identifier %s declared twice in this range", v.Name)
	}
	//
	v.SetMode(v.Declarer)
	//
	return p.declarationYield(v, x)
}

func (p *Checker) checkVariableDeclaration(v *ast.VariableDeclaration, x coerce.Soid) coerce.Soid {
	name := p.reg.NameOf(v.Declarer)
	//
	if v.Source != nil {
		y := p.checkUnit(v.Source, coerce.Expect(coerce.STRONG, v.Declarer), coerce.FORCE_DEFLEXING)
		// An initialising source which is itself an assignation yields a
		// name that gets dereferenced here, which usually means = was
		// intended rather than :=.
		if _, isAssign := v.Source.(*ast.Assignation); isAssign && y.Mode.IsRef() && !v.Declarer.IsRef() {
			p.warnAt(v, "initialising source of %s is an assignation and will be dereferenced", v.Name)
		}
	}
	//
	if !p.scope.Declare(v.Name, name) {
		p.errorAt(v, "identifier %s declared twice in this range", v.Name)
	}
	//
	v.SetMode(name)
	//
	return p.declarationYield(v, x)
}

func (p *Checker) checkOperatorDeclaration(v *ast.OperatorDeclaration, x coerce.Soid) coerce.Soid {
	y := p.checkUnit(v.Routine, coerce.Expect(coerce.STRONG, nil), coerce.SAFE_DEFLEXING)
	//
	if y.Mode.IsProc() {
		p.scope.DeclareOperator(v.Symbol, y.Mode)
	} else if !y.Mode.IsError() {
		p.errorAt(v, "body of operator %s is %s, not a routine", v.Symbol, y.Mode)
	}
	//
	v.SetMode(p.reg.Standard().Void)
	//
	return p.declarationYield(v, x)
}

// declarationYield validates that a declaration sits in a position where no
// value is required.  The node keeps its own annotation (the declared mode),
// while VOID travels upward.
func (p *Checker) declarationYield(n ast.Node, x coerce.Soid) coerce.Soid {
	std := p.reg.Standard()
	//
	if x.Mode != nil && !x.Mode.IsVoid() && !x.Mode.IsError() {
		p.errorAt(n, "a declaration yields no value, but %s is required", x.Mode)
	}
	//
	return coerce.Yield(std.Void, ast.UNIT)
}
