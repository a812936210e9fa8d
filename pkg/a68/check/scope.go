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

// Scope is one range of the lexically nested symbol tables consulted during
// checking.  Identifiers map to their declared modes; operator symbols map to
// all routine modes declared for them in this range (overloading is per
// range, resolution searches outward).
type Scope struct {
	parent      *Scope
	identifiers map[string]*mode.Moid
	operators   map[string][]*mode.Moid
}

// NewScope constructs an empty range nested within a parent (which may be
// nil for the outermost, standard range).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent, make(map[string]*mode.Moid), make(map[string][]*mode.Moid)}
}

// Parent returns the enclosing range, or nil.
func (p *Scope) Parent() *Scope {
	return p.parent
}

// Declare binds an identifier to a mode in this range, returning false if the
// identifier is already declared here.
func (p *Scope) Declare(name string, m *mode.Moid) bool {
	if _, ok := p.identifiers[name]; ok {
		return false
	}
	//
	p.identifiers[name] = m
	// Done
	return true
}

// Lookup resolves an identifier outward through the enclosing ranges.
func (p *Scope) Lookup(name string) (*mode.Moid, bool) {
	for s := p; s != nil; s = s.parent {
		if m, ok := s.identifiers[name]; ok {
			return m, true
		}
	}
	// Failed
	return nil, false
}

// DeclareOperator adds a routine mode for an operator symbol in this range.
func (p *Scope) DeclareOperator(symbol string, routine *mode.Moid) {
	p.operators[symbol] = append(p.operators[symbol], routine)
}

// Operators returns the routine modes declared for a symbol in this range
// only (not the enclosing ones).
func (p *Scope) Operators(symbol string) []*mode.Moid {
	return p.operators[symbol]
}
