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
)

// balance selects one mode to which the yields of every arm of a multi-armed
// clause can be coerced at the given strength.  Candidates are tried at
// increasing dereferencing depth: at each depth every candidate (dereffed
// that many times) is offered as the common mode, and the shallowest depth
// with a viable offer wins.  Within one depth, a flexible offer displaces an
// earlier fixed one when both deflex to the same mode, since the flexible
// form carries strictly more information.  Yields of the bottom mode coerce
// to anything and never serve as the common mode themselves.
//
// When no depth produces a common mode, the united mode of the arms is
// returned with ok false; the caller decides whether that is a diagnostic
// (targetless balancing) or a deferral (a context which can absorb a union).
func (p *Checker) balance(cands []coerce.Soid, sort coerce.Strength, dfx coerce.Deflex) (m *mode.Moid, ok bool) {
	std := p.reg.Standard()
	//
	if len(cands) == 0 {
		return std.Void, true
	}
	// An arm already poisoned suppresses balancing altogether, rather than
	// compounding the fault with a "no unique mode" of its own.
	bottoms := 0
	//
	for _, c := range cands {
		if c.Mode.IsError() {
			return std.Error, true
		} else if c.Mode.IsHip() {
			bottoms++
		}
	}
	//
	if bottoms == len(cands) {
		return std.Hip, true
	}
	//
	for depth := 0; ; depth++ {
		deeper := false
		var found *mode.Moid
		//
		for _, c := range cands {
			if c.Mode.IsHip() {
				continue
			}
			//
			d := deprefN(c.Mode, depth)
			if d == nil {
				continue
			} else if d.Deprefable() {
				deeper = true
			}
			//
			viable := true
			for _, o := range cands {
				if !p.oracle.Coercible(o.Mode, d, sort, dfx) {
					viable = false
					break
				}
			}
			//
			switch {
			case !viable:
			case found == nil:
				found = d
			case flexible(d) && !flexible(found) && p.reg.DeflexedOf(d) == p.reg.DeflexedOf(found):
				found = d
			}
		}
		//
		if found != nil {
			return found, true
		} else if !deeper {
			break
		}
	}
	// No common mode at any depth.
	var modes []*mode.Moid
	//
	for _, c := range cands {
		if !c.Mode.IsHip() {
			modes = append(modes, c.Mode)
		}
	}
	//
	return p.reg.UnionOf(modes...), false
}

// deprefN dereferences/deprocedures a mode exactly n times, or reports that
// it cannot go that deep.
func deprefN(m *mode.Moid, n int) *mode.Moid {
	for ; n > 0; n-- {
		if !m.Deprefable() {
			return nil
		}
		//
		m = mode.DeprefOnce(m)
	}
	//
	return m
}

// flexible holds for a flexible row, or a name referring to one.
func flexible(m *mode.Moid) bool {
	if m.IsRef() {
		m = m.Sub()
	}
	//
	return m.IsFlex()
}
