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
package mode

// Standard collects the handles of the standard modes, as produced by the
// mode-table construction pass.  Multi-precision variants beyond those listed
// here can be obtained via Registry.Primitive.
type Standard struct {
	// Sentinels.
	Error *Moid
	Hip   *Moid
	// Plain primitives.
	Void   *Moid
	Int    *Moid
	Real   *Moid
	Bool   *Moid
	Char   *Moid
	Bits   *Moid
	Bytes  *Moid
	Compl  *Moid
	Format *Moid
	// Common multi-precision variants.
	LongInt       *Moid
	LongLongInt   *Moid
	LongReal      *Moid
	LongLongReal  *Moid
	LongBits      *Moid
	LongLongBits  *Moid
	LongBytes     *Moid
	LongCompl     *Moid
	LongLongCompl *Moid
	// Derived standard modes.
	RowBool *Moid
	RowChar *Moid
	String  *Moid
	// Pseudo modes of the transput and rowing machinery.
	Rows     *Moid
	Simplin  *Moid
	Simplout *Moid
}

func newStandard(r *Registry) Standard {
	var std Standard
	// Sentinels go in first: they are compared by handle everywhere.
	std.Error = r.intern(&Moid{kind: ERROR})
	std.Hip = r.intern(&Moid{kind: HIP})
	//
	std.Void = r.Primitive("VOID", 0)
	std.Int = r.Primitive("INT", 0)
	std.Real = r.Primitive("REAL", 0)
	std.Bool = r.Primitive("BOOL", 0)
	std.Char = r.Primitive("CHAR", 0)
	std.Bits = r.Primitive("BITS", 0)
	std.Bytes = r.Primitive("BYTES", 0)
	std.Compl = r.Primitive("COMPL", 0)
	std.Format = r.Primitive("FORMAT", 0)
	//
	std.LongInt = r.Primitive("INT", 1)
	std.LongLongInt = r.Primitive("INT", 2)
	std.LongReal = r.Primitive("REAL", 1)
	std.LongLongReal = r.Primitive("REAL", 2)
	std.LongBits = r.Primitive("BITS", 1)
	std.LongLongBits = r.Primitive("BITS", 2)
	std.LongBytes = r.Primitive("BYTES", 1)
	std.LongCompl = r.Primitive("COMPL", 1)
	std.LongLongCompl = r.Primitive("COMPL", 2)
	//
	std.RowBool = r.RowOf(1, std.Bool)
	std.RowChar = r.RowOf(1, std.Char)
	std.String = r.Flex(std.RowChar)
	// The pseudo modes are structureless: the coercibility oracle recognises
	// them by handle and applies its own membership rules.
	std.Rows = r.Primitive("ROWS", 0)
	std.Simplin = r.Primitive("SIMPLIN", 0)
	std.Simplout = r.Primitive("SIMPLOUT", 0)
	//
	return std
}

// IsNumeric reports whether a mode is INT, REAL or COMPL of any size.
func (p *Moid) IsNumeric() bool {
	if p.kind != PRIMITIVE {
		return false
	}
	//
	switch p.symbol {
	case "INT", "REAL", "COMPL":
		return true
	default:
		return false
	}
}
