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

// CoercionKind names one of the six coercions of the language.
type CoercionKind uint8

const (
	// DEREFERENCE yields the value referred to by a name.
	DEREFERENCE CoercionKind = iota
	// DEPROCEDURE calls a parameterless routine to obtain its yield.
	DEPROCEDURE
	// UNITE injects a value into a united mode.
	UNITE
	// WIDEN converts a value one step along a widening chain.
	WIDEN
	// ROW makes a multiple value of one element (or raises dimensionality).
	ROW
	// VOID discards a value.
	VOID
)

// String returns a human readable name for this coercion kind.
func (k CoercionKind) String() string {
	switch k {
	case DEREFERENCE:
		return "dereference"
	case DEPROCEDURE:
		return "deprocedure"
	case UNITE:
		return "unite"
	case WIDEN:
		return "widen"
	case ROW:
		return "row"
	case VOID:
		return "void"
	default:
		panic("unknown coercion kind")
	}
}

// Coercion wraps a construct whose yield must be converted before its context
// can consume it.  The wrapper's own mode is the target mode of the
// conversion; the source mode is that of the wrapped construct.  The executor
// performs the named conversion declaratively, without re-deriving legality.
type Coercion struct {
	Annotations
	Kind CoercionKind
	Arg  Node
}

// Uncoerced strips any coercion wrappers from a node, yielding the original
// construct.
func Uncoerced(n Node) Node {
	for {
		if c, ok := n.(*Coercion); ok {
			n = c.Arg
		} else {
			return n
		}
	}
}
