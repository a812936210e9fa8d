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
	"fmt"
	"strings"

	"github.com/consensys/algol68/pkg/a68/ast"
	"github.com/consensys/algol68/pkg/a68/coerce"
	"github.com/consensys/algol68/pkg/a68/mode"
	"github.com/consensys/algol68/pkg/util/source"
)

// Checker performs the first pass over a parsed tree: it assigns a mode to
// every construct, resolves operators, balances multi-armed clauses and
// reports every construct whose mode cannot be reconciled with its context.
// All diagnostics are non-fatal: a construct which fails is annotated with
// the error sentinel, which coerces to anything, so one fault does not
// cascade into hundreds of derived faults.  The tree's shape is never
// changed; only mode annotations are written.
type Checker struct {
	reg    *mode.Registry
	oracle *coerce.Oracle
	// Mapping of tree nodes to their spans in the original source files,
	// used to anchor diagnostics.  Unanchored nodes (e.g. trees built
	// directly by tests) still produce diagnostics, just without a span.
	srcmap *source.Maps[ast.Node]
	// Innermost range currently being checked.
	scope *Scope
	// Diagnostics (errors and warnings) accumulated so far.
	errors []source.SyntaxError
}

// NewChecker constructs a checker over a given registry, with the standard
// environment as its outermost range.  The source map may be nil when no
// source anchoring is available.
func NewChecker(reg *mode.Registry, srcmap *source.Maps[ast.Node]) *Checker {
	if srcmap == nil {
		srcmap = source.NewMaps[ast.Node]()
	}
	//
	return &Checker{reg, coerce.NewOracle(reg), srcmap, StandardScope(reg), nil}
}

// Oracle returns the coercibility oracle, for sharing with the inserter pass.
func (p *Checker) Oracle() *coerce.Oracle {
	return p.oracle
}

// Scope returns the innermost range, which after checking completes is the
// standard range again.
func (p *Checker) Scope() *Scope {
	return p.scope
}

// Check assigns modes throughout a whole program tree, whose outermost clause
// is elaborated in a strong VOID context, returning all diagnostics raised.
func (p *Checker) Check(root ast.Node) []source.SyntaxError {
	p.checkUnit(root, coerce.Expect(coerce.STRONG, p.reg.Standard().Void), coerce.SAFE_DEFLEXING)
	//
	return p.errors
}

// CheckUnit assigns modes below a single unit given an explicit expectation,
// returning what the unit in fact yields.
func (p *Checker) CheckUnit(n ast.Node, x coerce.Soid) coerce.Soid {
	return p.checkUnit(n, x, coerce.SAFE_DEFLEXING)
}

// Errors returns the diagnostics accumulated so far.
func (p *Checker) Errors() []source.SyntaxError {
	return p.errors
}

// checkUnit is the node-kind dispatched heart of the pass.  The expectation x
// travels top down; the returned Soid is what the construct in fact yields,
// after validating it against x under the deflexing regime dfx chosen by the
// caller for this position.
func (p *Checker) checkUnit(n ast.Node, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	std := p.reg.Standard()
	//
	switch v := n.(type) {
	case *ast.Identifier:
		return p.checkIdentifier(v, x, dfx)
	case *ast.Denotation:
		if v.Mode() == nil {
			p.errorAt(v, "denotation %s arrived without a mode", v.Text)
			return p.conclude(v, x, std.Error, ast.UNIT, dfx)
		}
		//
		return p.conclude(v, x, v.Mode(), ast.UNIT, dfx)
	case *ast.Nihil:
		return p.checkNihil(v, x, dfx)
	case *ast.Generator:
		return p.conclude(v, x, p.reg.NameOf(v.Declarer), ast.UNIT, dfx)
	case *ast.Skip:
		return p.conclude(v, x, std.Hip, ast.UNIT, dfx)
	case *ast.Jump:
		return p.conclude(v, x, std.Hip, ast.UNIT, dfx)
	case *ast.Assignation:
		return p.checkAssignation(v, x, dfx)
	case *ast.IdentityRelation:
		return p.checkIdentityRelation(v, x, dfx)
	case *ast.Cast:
		return p.checkCast(v, x, dfx)
	case *ast.Formula:
		return p.checkFormula(v, x, dfx)
	case *ast.Call:
		return p.checkCall(v, x, dfx)
	case *ast.Slice:
		return p.checkSlice(v, x, dfx)
	case *ast.Selection:
		return p.checkSelection(v, x, dfx)
	case *ast.Display:
		return p.checkDisplay(v, x)
	case *ast.RoutineText:
		return p.checkRoutineText(v, x, dfx)
	case *ast.Assertion:
		p.checkUnit(v.Condition, coerce.Expect(coerce.MEEK, std.Bool), coerce.SAFE_DEFLEXING)
		return p.conclude(v, x, std.Void, ast.UNIT, dfx)
	case *ast.IdentityDeclaration:
		return p.checkIdentityDeclaration(v, x)
	case *ast.VariableDeclaration:
		return p.checkVariableDeclaration(v, x)
	case *ast.ModeDeclaration:
		v.SetMode(std.Void)
		return p.declarationYield(v, x)
	case *ast.PriorityDeclaration:
		v.SetMode(std.Void)
		return p.declarationYield(v, x)
	case *ast.OperatorDeclaration:
		return p.checkOperatorDeclaration(v, x)
	case *ast.SerialClause:
		return p.checkSerial(v, x)
	case *ast.ClosedClause:
		y := p.checkSerial(v.Body, x)
		v.SetMode(y.Mode)
		//
		return coerce.Yield(y.Mode, ast.CLOSED_CLAUSE)
	case *ast.ConditionalClause:
		return p.checkConditional(v, x)
	case *ast.IntegerCase:
		return p.checkIntegerCase(v, x)
	case *ast.UnitedCase:
		return p.checkUnitedCase(v, x)
	case *ast.Loop:
		return p.checkLoop(v, x, dfx)
	default:
		panic(fmt.Sprintf("unknown construct %T during mode checking", n))
	}
}

func (p *Checker) checkIdentifier(v *ast.Identifier, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	// Leaves may arrive pre-resolved from an external symbol-table pass.
	m := v.Mode()
	//
	if m == nil {
		var ok bool
		//
		if m, ok = p.scope.Lookup(v.Name); !ok {
			p.errorAt(v, "identifier %s has not been declared", v.Name)
			m = p.reg.Standard().Error
		}
	}
	//
	return p.conclude(v, x, m, ast.UNIT, dfx)
}

// NIL has no mode of its own: it becomes a name (or a union holding one)
// through its context alone.
func (p *Checker) checkNihil(v *ast.Nihil, x coerce.Soid, dfx coerce.Deflex) coerce.Soid {
	std := p.reg.Standard()
	//
	if x.Mode == nil {
		return p.conclude(v, x, std.Hip, ast.UNIT, dfx)
	} else if !nameable(x.Mode) {
		p.errorAt(v, "NIL requires a name context, not %s", x.Mode)
		return p.poison(v, ast.UNIT)
	}
	//
	return p.conclude(v, x, x.Mode, ast.UNIT, dfx)
}

// Check whether a context mode can receive NIL: a name, or a union with at
// least one name among its members.
func nameable(m *mode.Moid) bool {
	switch {
	case m.IsRef(), m.IsHip(), m.IsError():
		return true
	case m.IsUnion():
		for _, member := range m.Pack() {
			if member.Mode.IsRef() {
				return true
			}
		}
	}
	//
	return false
}

// conclude validates a computed mode against the expectation and annotates
// the node.  On failure the node is poisoned with the error sentinel, so
// that neither the enclosing context nor the inserter pass trips over it
// again.
func (p *Checker) conclude(n ast.Node, x coerce.Soid, m *mode.Moid, attr ast.Attribute, dfx coerce.Deflex) coerce.Soid {
	if m == nil {
		m = p.reg.Standard().Error
	}
	//
	n.SetMode(m)
	//
	if x.Mode != nil && !p.oracle.Coercible(m, x.Mode, x.Sort, dfx) {
		p.errorAt(n, "%s", p.oracle.Explain(m, x.Mode, x.Sort, dfx))
		return p.poison(n, attr)
	}
	// Done
	return coerce.Yield(m, attr)
}

// poison annotates a failed node with the error sentinel and yields it.
func (p *Checker) poison(n ast.Node, attr ast.Attribute) coerce.Soid {
	err := p.reg.Standard().Error
	n.SetMode(err)
	//
	return coerce.Yield(err, attr)
}

// deproc strips any parameterless procedure layers from a mode.
func deproc(m *mode.Moid) *mode.Moid {
	for m.IsProc() && len(m.Pack()) == 0 {
		m = m.Sub()
	}
	//
	return m
}

func (p *Checker) errorAt(n ast.Node, msg string, args ...any) {
	p.errors = append(p.errors, *p.srcmap.SyntaxError(n, fmt.Sprintf(msg, args...)))
}

func (p *Checker) warnAt(n ast.Node, msg string, args ...any) {
	p.errors = append(p.errors, *p.srcmap.SyntaxWarning(n, fmt.Sprintf(msg, args...)))
}

// enumerate renders a list of modes for a diagnostic ("INT and REAL").
func enumerate(modes []*mode.Moid) string {
	var parts []string
	//
	for _, m := range modes {
		parts = append(parts, m.String())
	}
	//
	if n := len(parts); n > 1 {
		return strings.Join(parts[:n-1], ", ") + " and " + parts[n-1]
	}
	//
	return strings.Join(parts, "")
}
