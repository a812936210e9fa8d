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

// Attribute tags the syntactic shape which produced a yield.  The balancer
// uses it to decide whether balancing is permitted for that shape.
type Attribute uint8

const (
	// NO_ATTRIBUTE is the zero tag.
	NO_ATTRIBUTE Attribute = iota
	// UNIT tags the yield of a simple unit.
	UNIT
	// SERIAL_CLAUSE tags the yield of a serial clause.
	SERIAL_CLAUSE
	// CLOSED_CLAUSE tags the yield of a closed clause.
	CLOSED_CLAUSE
	// COLLATERAL_CLAUSE tags the yield of a collateral clause or display.
	COLLATERAL_CLAUSE
	// CONDITIONAL_CLAUSE tags the yield of a conditional clause.
	CONDITIONAL_CLAUSE
	// INT_CASE_CLAUSE tags the yield of an integer case clause.
	INT_CASE_CLAUSE
	// UNITED_CASE_CLAUSE tags the yield of a united case clause.
	UNITED_CASE_CLAUSE
	// LOOP_CLAUSE tags the yield of a loop clause.
	LOOP_CLAUSE
)

// Balanceable reports whether yields tagged with this attribute may be
// balanced against one another.  Loops and simple units propagate a single
// mode instead.
func (a Attribute) Balanceable() bool {
	switch a {
	case SERIAL_CLAUSE, CLOSED_CLAUSE, CONDITIONAL_CLAUSE, INT_CASE_CLAUSE, UNITED_CASE_CLAUSE:
		return true
	default:
		return false
	}
}
