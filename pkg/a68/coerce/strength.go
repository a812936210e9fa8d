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

// Strength is the maximum coercion power a syntactic position allows, in
// increasing order of permissiveness.
type Strength uint8

const (
	// NO_SORT permits no coercion at all.
	NO_SORT Strength = iota
	// SOFT permits deproceduring only.
	SOFT
	// WEAK permits dereferencing short of losing the final name, and
	// deproceduring.
	WEAK
	// MEEK permits full dereferencing and deproceduring.
	MEEK
	// FIRM additionally permits uniting.
	FIRM
	// STRONG additionally permits widening, rowing and voiding.
	STRONG
)

// String returns the conventional lower-case name of this strength.
func (c Strength) String() string {
	switch c {
	case NO_SORT:
		return "no"
	case SOFT:
		return "soft"
	case WEAK:
		return "weak"
	case MEEK:
		return "meek"
	case FIRM:
		return "firm"
	case STRONG:
		return "strong"
	default:
		panic("unknown context strength")
	}
}

// Deflex is the regime governing when a flexible-bound row mode may stand for
// a fixed-bound one (and vice versa).
type Deflex uint8

const (
	// SKIP_DEFLEXING treats flexible and fixed rows as fully interchangeable.
	SKIP_DEFLEXING Deflex = iota
	// FORCE_DEFLEXING likewise treats them as fully interchangeable.
	FORCE_DEFLEXING
	// ALIAS_DEFLEXING forbids aliasing a fixed-bound name where a flexible one
	// is expected (the callee could then change bounds the caller does not
	// own as flexible), whilst permitting it for plain values.
	ALIAS_DEFLEXING
	// SAFE_DEFLEXING forbids any flexible/fixed interchange between names,
	// whilst permitting it for plain values.
	SAFE_DEFLEXING
	// NO_DEFLEXING requires exact mode identity.
	NO_DEFLEXING
)

// Soid is the unit of communication between tree levels during checking: top
// down it says "this subtree is expected to yield Mode under Sort"; bottom up
// it says "this subtree yields Mode, produced by a construct tagged
// Attribute".
type Soid struct {
	// Sort is the context strength in force.
	Sort Strength
	// Mode expected or produced.  A nil expected mode means the context
	// imposes no particular mode (e.g. operands before operator resolution).
	Mode *mode.Moid
	// Attribute of the construct which produced this yield.
	Attribute ast.Attribute
	// Cast marks the expectation of a cast, which permits voiding.
	Cast bool
}

// Expect builds the top-down form of a Soid.
func Expect(sort Strength, m *mode.Moid) Soid {
	return Soid{sort, m, ast.NO_ATTRIBUTE, false}
}

// Yield builds the bottom-up form of a Soid.
func Yield(m *mode.Moid, attribute ast.Attribute) Soid {
	return Soid{NO_SORT, m, attribute, false}
}
