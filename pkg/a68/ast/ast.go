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
package ast

import (
	"github.com/consensys/algol68/pkg/a68/mode"
)

// Node is implemented by every construct of the syntax tree.  The tree's
// shape is immutable after parsing; the only annotation a node carries is its
// mode, assigned during mode checking and final thereafter.
type Node interface {
	// Mode returns the mode assigned to this construct, or nil before mode
	// checking.
	Mode() *mode.Moid
	// SetMode assigns the mode of this construct.
	SetMode(*mode.Moid)
}

// Annotations holds the checking annotations common to every node, and is
// embedded by every concrete node type.
type Annotations struct {
	mode *mode.Moid
}

// Mode returns the mode assigned to this construct, or nil before mode
// checking.
func (p *Annotations) Mode() *mode.Moid {
	return p.mode
}

// SetMode assigns the mode of this construct.
func (p *Annotations) SetMode(m *mode.Moid) {
	p.mode = m
}

// ============================================================================
// Units
// ============================================================================

// Identifier is an applied occurrence of an identifier.  Its mode is either
// pre-resolved by the symbol-table pass, or looked up by the checker in the
// enclosing ranges.
type Identifier struct {
	Annotations
	Name string
}

// Denotation is a literal.  Its mode is pre-resolved by the parser (e.g. an
// integral denotation arrives with mode INT).
type Denotation struct {
	Annotations
	Text string
}

// Nihil is the NIL token, yielding the bottom mode; it only becomes a name
// through its context.
type Nihil struct {
	Annotations
}

// Skip is the SKIP token, yielding the bottom mode.
type Skip struct {
	Annotations
}

// Jump is a jump to a label.  Like SKIP, it yields the bottom mode.
type Jump struct {
	Annotations
	Label string
}

// Generator creates a fresh name referring to local (LOC) or heap (HEAP)
// storage of the declared mode.
type Generator struct {
	Annotations
	Heap     bool
	Declarer *mode.Moid
}

// Assignation assigns the yield of a source unit to a name.
type Assignation struct {
	Annotations
	Destination Node
	Source      Node
}

// IdentityRelation compares two names for identity (:=: or :/=:).
type IdentityRelation struct {
	Annotations
	// Negated is true for :/=:.
	Negated bool
	Lhs     Node
	Rhs     Node
	// Common name mode both sides coerce to, chosen during checking.
	Common *mode.Moid
}

// Cast forces an enclosed clause into a given mode under STRONG context.
type Cast struct {
	Annotations
	Declarer *mode.Moid
	Enclosed Node
}

// Formula applies a monadic or dyadic operator.  Rhs is nil for monadic
// formulas.  Op holds the routine mode of the resolved operator after
// checking.
type Formula struct {
	Annotations
	Symbol string
	Lhs    Node
	Rhs    Node
	// Routine mode of the operator chosen by overload resolution.
	Op *mode.Moid
}

// Call applies a procedure to zero or more arguments.
type Call struct {
	Annotations
	Callee    Node
	Arguments []Node
}

// Indexer is one position of a slice: either a subscript or a trimmer.
type Indexer struct {
	// Subscript unit, or nil if this position is a trimmer.
	Subscript Node
	// Optional trimmer bounds (each may be nil for an open bound).
	Lower Node
	Upper Node
}

// IsTrim reports whether this indexer is a trimmer.
func (p *Indexer) IsTrim() bool {
	return p.Subscript == nil
}

// Slice indexes a row with subscripts and/or trimmers.
type Slice struct {
	Annotations
	Source   Node
	Indexers []Indexer
}

// Selection selects a field from a structured value or name (field OF source).
type Selection struct {
	Annotations
	Field  string
	Source Node
}

// Display is a collateral clause yielding a row or structured value, or
// (in a VOID context) a set of collaterally elaborated units.
type Display struct {
	Annotations
	Elements []Node
}

// RoutineText denotes a routine with given parameters, result mode and body.
type RoutineText struct {
	Annotations
	Parameters []Parameter
	Result     *mode.Moid
	Body       Node
}

// Parameter of a routine text.
type Parameter struct {
	Name string
	Mode *mode.Moid
}

// Assertion checks a boolean enquiry (ASSERT unit).
type Assertion struct {
	Annotations
	Condition Node
}

// ============================================================================
// Enclosed clauses
// ============================================================================

// SerialClause elaborates units in sequence.  Its yield is the yield of the
// final unit, balanced with any completion units (those preceding EXIT).
type SerialClause struct {
	Annotations
	Units []Node
	// Completion units, each of which also yields the clause.
	Exits []Node
}

// ClosedClause encloses a serial clause in BEGIN/END or parentheses.
type ClosedClause struct {
	Annotations
	Body *SerialClause
}

// ConditionalClause is IF .. THEN .. ELSE .. FI, with ELIF chains parsed as
// nested conditionals.  Else may be nil.
type ConditionalClause struct {
	Annotations
	Condition *SerialClause
	Then      *SerialClause
	Else      Node
}

// IntegerCase is CASE .. IN .. OUT .. ESAC over an integral selector.  Out may
// be nil.
type IntegerCase struct {
	Annotations
	Selector *SerialClause
	Legs     []Node
	Out      Node
}

// UnitedCase is CASE .. IN (MODE name): .. OUT .. ESAC over a united selector.
// Out may be nil.
type UnitedCase struct {
	Annotations
	Selector *SerialClause
	Legs     []*UnitedLeg
	Out      Node
}

// UnitedLeg is one specifier leg of a united case clause.
type UnitedLeg struct {
	Annotations
	// Specifier mode of this leg.
	Specifier *mode.Moid
	// Optional identifier bound to the specified value within the leg.
	Binding string
	Body    Node
}

// Loop is the FROM/BY/TO/WHILE/DO/OD clause.  All parts other than the body
// are optional.  A loop always yields VOID and never balances.
type Loop struct {
	Annotations
	// Loop counter identifier, or "".
	Counter string
	From    Node
	By      Node
	To      Node
	While   *SerialClause
	Body    *SerialClause
}

// ============================================================================
// Declarations
// ============================================================================

// IdentityDeclaration declares an identifier as standing for the yield of a
// unit (e.g. REAL pi = 3.14).
type IdentityDeclaration struct {
	Annotations
	Name     string
	Declarer *mode.Moid
	Source   Node
}

// VariableDeclaration declares a variable, i.e. an identifier of mode REF
// declarer (e.g. INT i := 0).  Source may be nil.
type VariableDeclaration struct {
	Annotations
	Name     string
	Declarer *mode.Moid
	Source   Node
}

// ModeDeclaration declares a mode indicant.
type ModeDeclaration struct {
	Annotations
	Name   string
	Target *mode.Moid
}

// OperatorDeclaration declares an operator from a routine text.
type OperatorDeclaration struct {
	Annotations
	Symbol  string
	Routine *RoutineText
}

// PriorityDeclaration fixes the priority of a dyadic operator spelling
// (PRIO symbol = digit).
type PriorityDeclaration struct {
	Annotations
	Symbol   string
	Priority int
}
