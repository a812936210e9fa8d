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
	"github.com/consensys/algol68/pkg/a68/coerce"
	"github.com/consensys/algol68/pkg/a68/mode"
	"github.com/consensys/algol68/pkg/util"
)

// resolveOperator searches the lexically nested operator tables for a routine
// matching the operand modes firmly.  When the plain search fails and all
// operands are numeric at heart, the search is retried with operands widened
// to trial modes of increasing reach (REAL, then LONG REAL, then COMPL, then
// LONG COMPL), so that e.g. mixed-size arithmetic finds the widest overload
// the standard environment declares.  A final retry dereferences the
// operands completely, which serves formulas whose overloads exist only for
// the underlying values.
func (p *Checker) resolveOperator(symbol string, operands []*mode.Moid) util.Option[*mode.Moid] {
	if routine := p.lookupOperator(symbol, operands, coerce.SAFE_DEFLEXING); routine != nil {
		return util.Some(routine)
	}
	//
	std := p.reg.Standard()
	//
	if numericOperands(operands) {
		trials := []*mode.Moid{std.Real, std.LongReal, std.Compl, std.LongCompl}
		//
		for _, t := range trials {
			widened := make([]*mode.Moid, len(operands))
			changed := false
			//
			for i, op := range operands {
				if d := mode.DeprefAll(op); d != t && p.oracle.Widens(d, t) {
					widened[i] = t
					changed = true
				} else {
					widened[i] = op
				}
			}
			//
			if !changed {
				continue
			}
			//
			if routine := p.lookupOperator(symbol, widened, coerce.ALIAS_DEFLEXING); routine != nil {
				return util.Some(routine)
			}
		}
	}
	// Last resort: the fully dereferenced operands.
	depreffed := make([]*mode.Moid, len(operands))
	changed := false
	//
	for i, op := range operands {
		depreffed[i] = mode.DeprefAll(op)
		changed = changed || depreffed[i] != op
	}
	//
	if changed {
		if routine := p.lookupOperator(symbol, depreffed, coerce.SAFE_DEFLEXING); routine != nil {
			return util.Some(routine)
		}
	}
	//
	return util.None[*mode.Moid]()
}

// lookupOperator walks the ranges outward, returning the first routine whose
// parameters are firmly coercible from the operand modes.  Inner declarations
// shadow outer ones; within one range, declaration order breaks ties.
func (p *Checker) lookupOperator(symbol string, operands []*mode.Moid, dfx coerce.Deflex) *mode.Moid {
	for s := p.scope; s != nil; s = s.parent {
		for _, routine := range s.Operators(symbol) {
			if p.matches(routine, operands, dfx) {
				return routine
			}
		}
	}
	// Failed
	return nil
}

func (p *Checker) matches(routine *mode.Moid, operands []*mode.Moid, dfx coerce.Deflex) bool {
	params := routine.Pack()
	//
	if len(params) != len(operands) {
		return false
	}
	//
	for i, param := range params {
		if !p.oracle.Coercible(operands[i], param.Mode, coerce.FIRM, dfx) {
			return false
		}
	}
	// Done
	return true
}

// numericOperands holds when every operand is, at heart, a numeric value or
// a row of numeric values (vector and matrix formulas included).
func numericOperands(operands []*mode.Moid) bool {
	for _, op := range operands {
		d := mode.DeprefAll(op)
		//
		for d.IsFlex() || d.IsRow() {
			d = d.Sub()
		}
		//
		if !d.IsNumeric() {
			return false
		}
	}
	//
	return true
}
