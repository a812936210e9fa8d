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
	"github.com/consensys/algol68/pkg/a68/mode"
)

// Oracle answers whether one mode can be coerced to another under a given
// context strength and deflexing regime.  It is pure: the only state it
// carries is the mode registry, which it consults for standard handles and
// memoized derivations.
type Oracle struct {
	reg *mode.Registry
}

// NewOracle constructs an oracle over a given registry.
func NewOracle(reg *mode.Registry) *Oracle {
	return &Oracle{reg}
}

// Registry returns the underlying mode registry.
func (o *Oracle) Registry() *mode.Registry {
	return o.reg
}

// Coercible determines whether mode p can be coerced to mode q in a context
// of the given strength, under the given deflexing regime.  The error
// sentinel is universally coercible in both directions, so that one fault
// does not cascade; the bottom mode coerces to anything.
func (o *Oracle) Coercible(p *mode.Moid, q *mode.Moid, sort Strength, dfx Deflex) bool {
	if p == nil || q == nil {
		return false
	} else if p.IsError() || q.IsError() {
		return true
	} else if p.IsHip() {
		return true
	} else if p.IsSeries() {
		return o.coercibleSeries(p, q, sort, dfx)
	} else if p.IsStowed() {
		return o.coercibleStowed(p, q, sort, dfx)
	}
	//
	switch sort {
	case NO_SORT:
		return o.equal(p, q, dfx)
	case SOFT:
		return o.softly(p, q, dfx)
	case WEAK:
		return o.weakly(p, q, dfx)
	case MEEK:
		return o.meekly(p, q, dfx)
	case FIRM:
		return o.firmly(p, q, dfx)
	case STRONG:
		return o.strongly(p, q, dfx)
	default:
		panic("unknown context strength")
	}
}

// ============================================================================
// Mode equality under deflexing
// ============================================================================

// Equal determines whether two modes are interchangeable under a given
// deflexing regime, before any coercion is considered.
func (o *Oracle) Equal(p *mode.Moid, q *mode.Moid, dfx Deflex) bool {
	return o.equal(p, q, dfx)
}

func (o *Oracle) equal(p *mode.Moid, q *mode.Moid, dfx Deflex) bool {
	switch dfx {
	case SKIP_DEFLEXING, FORCE_DEFLEXING:
		return o.reg.DeflexedOf(p) == o.reg.DeflexedOf(q)
	case ALIAS_DEFLEXING:
		if p.IsRef() && q.IsRef() {
			// A flexible name may stand for a fixed one, but not vice versa.
			return p == q || o.reg.DeflexedOf(p.Sub()) == q.Sub()
		} else if !p.IsRef() && !q.IsRef() {
			return o.reg.DeflexedOf(p) == o.reg.DeflexedOf(q)
		}
		//
		return p == q
	case SAFE_DEFLEXING:
		if !p.IsRef() && !q.IsRef() {
			return o.reg.DeflexedOf(p) == o.reg.DeflexedOf(q)
		}
		//
		return p == q
	default:
		return p == q
	}
}

// ============================================================================
// Strength ladder
// ============================================================================

func (o *Oracle) softly(p *mode.Moid, q *mode.Moid, dfx Deflex) bool {
	if o.equal(p, q, dfx) {
		return true
	} else if p.IsProc() && len(p.Pack()) == 0 {
		return o.softly(p.Sub(), q, dfx)
	}
	//
	return false
}

func (o *Oracle) weakly(p *mode.Moid, q *mode.Moid, dfx Deflex) bool {
	if o.equal(p, q, dfx) || q.IsHip() {
		return true
	} else if p.IsProc() && len(p.Pack()) == 0 {
		return o.weakly(p.Sub(), q, dfx)
	} else if p.IsRef() && p.Sub().Deprefable() {
		// The final name is never removed: dereferencing stops at REF row,
		// REF struct, etc.
		return o.weakly(p.Sub(), q, dfx)
	}
	//
	return false
}

func (o *Oracle) meekly(p *mode.Moid, q *mode.Moid, dfx Deflex) bool {
	if o.equal(p, q, dfx) || q.IsHip() {
		return true
	} else if p.Deprefable() {
		return o.meekly(mode.DeprefOnce(p), q, dfx)
	}
	//
	return false
}

func (o *Oracle) firmly(p *mode.Moid, q *mode.Moid, dfx Deflex) bool {
	std := o.reg.Standard()
	//
	if o.meekly(p, q, dfx) {
		return true
	} else if q == std.Rows && o.rowish(mode.DeprefAll(p)) {
		return true
	}
	// Uniting applies to p or any firmly-depreffed p.
	for dp := p; ; dp = mode.DeprefOnce(dp) {
		if o.unitable(dp, q, dfx) {
			return true
		} else if !dp.Deprefable() {
			return false
		}
	}
}

func (o *Oracle) strongly(p *mode.Moid, q *mode.Moid, dfx Deflex) bool {
	std := o.reg.Standard()
	//
	if q.IsVoid() {
		// Voiding always succeeds; voiding VOID itself is caught earlier by
		// equality and is at most a warning at the point of use.
		return true
	} else if o.firmly(p, q, dfx) {
		return true
	}
	// Widening applies to the fully depreffed mode.
	if o.widensChain(mode.DeprefAll(p), q) {
		return true
	}
	// Transput pseudo unions accept any transput-capable mode.
	if q == std.Simplout && o.printable(mode.DeprefAll(p)) {
		return true
	} else if q == std.Simplin && o.readable(p) {
		return true
	}
	// Rowing: a value becomes a multiple of one element, recursively through
	// flexible and reference layers.
	if q.IsRow() || q.IsFlex() {
		return o.strongly(p, o.reg.SliceOf(q), dfx)
	} else if q.IsRef() && (q.Sub().IsRow() || q.Sub().IsFlex()) {
		target := o.reg.NameOf(o.reg.SliceOf(q.Sub()))
		return p.IsRef() && o.strongly(p, target, dfx)
	}
	//
	return false
}

// ============================================================================
// Uniting, widening, rowing helpers
// ============================================================================

// Check whether p can be united into union q without any other coercion.
func (o *Oracle) unitable(p *mode.Moid, q *mode.Moid, dfx Deflex) bool {
	if !q.IsUnion() || p.IsVoid() {
		return false
	} else if p.IsUnion() {
		// A union is unitable when its members form a subset of the target's.
		for _, m := range p.Pack() {
			if !o.unitable(m.Mode, q, dfx) {
				return false
			}
		}
		//
		return true
	}
	//
	for _, m := range q.Pack() {
		if o.equal(p, m.Mode, dfx) {
			return true
		}
	}
	//
	return false
}

// widensTo determines the next step of the widening chain from p towards q,
// or nil if no step applies.  The chain promotes sizes before crossing to the
// next numeric family, so INT widens to LONG INT on the way to LONG REAL but
// directly to REAL on the way to COMPL.
func (o *Oracle) widensTo(p *mode.Moid, q *mode.Moid) *mode.Moid {
	std := o.reg.Standard()
	//
	if p.Kind() != mode.PRIMITIVE {
		return nil
	}
	//
	switch p.Symbol() {
	case "INT":
		if isWiderNumeric(q, "INT", "REAL", "COMPL", p.Size()) {
			return o.reg.Primitive("INT", p.Size()+1)
		} else if isNumericOfSize(q, p.Size(), "REAL", "COMPL") {
			return o.reg.Primitive("REAL", p.Size())
		}
	case "REAL":
		if isWiderNumeric(q, "REAL", "COMPL", "", p.Size()) {
			return o.reg.Primitive("REAL", p.Size()+1)
		} else if isNumericOfSize(q, p.Size(), "COMPL") {
			return o.reg.Primitive("COMPL", p.Size())
		}
	case "COMPL":
		if isWiderNumeric(q, "COMPL", "", "", p.Size()) {
			return o.reg.Primitive("COMPL", p.Size()+1)
		}
	case "BITS":
		if q.IsPrimitive("BITS") && q.Size() > p.Size() {
			return o.reg.Primitive("BITS", p.Size()+1)
		}
		//
		return std.RowBool
	case "BYTES":
		return std.RowChar
	}
	//
	return nil
}

// Check whether q lies further along the widening chain than size n of the
// given numeric families.
func isWiderNumeric(q *mode.Moid, fst string, snd string, trd string, n int) bool {
	if q.Kind() != mode.PRIMITIVE || q.Size() <= n {
		return false
	}
	//
	return q.Symbol() == fst || q.Symbol() == snd || q.Symbol() == trd
}

// Check whether q is one of the given families at exactly size n.
func isNumericOfSize(q *mode.Moid, n int, families ...string) bool {
	if q.Kind() != mode.PRIMITIVE || q.Size() != n {
		return false
	}
	//
	for _, f := range families {
		if q.Symbol() == f {
			return true
		}
	}
	//
	return false
}

// Widens reports whether q is reachable from p by iterated widening alone.
// Operator resolution uses this to choose widened trial operand modes.
func (o *Oracle) Widens(p *mode.Moid, q *mode.Moid) bool {
	return o.widensChain(p, q)
}

// Check whether q is reachable from p by iterated widening.
func (o *Oracle) widensChain(p *mode.Moid, q *mode.Moid) bool {
	for w := o.widensTo(p, q); w != nil; w = o.widensTo(w, q) {
		if w == q {
			return true
		}
	}
	//
	return false
}

// Check whether a mode is acceptable where ROWS is expected.
func (o *Oracle) rowish(p *mode.Moid) bool {
	switch p.Kind() {
	case mode.ROW, mode.FLEX:
		return true
	case mode.UNION:
		for _, m := range p.Pack() {
			if !o.rowish(m.Mode) {
				return false
			}
		}
		//
		return true
	default:
		return false
	}
}

// Check whether a mode can be printed (accepted by SIMPLOUT).
func (o *Oracle) printable(p *mode.Moid) bool {
	switch p.Kind() {
	case mode.PRIMITIVE:
		switch p.Symbol() {
		case "INT", "REAL", "COMPL", "BOOL", "CHAR", "BITS", "BYTES":
			return true
		default:
			return false
		}
	case mode.ROW, mode.FLEX:
		return o.printable(p.Sub())
	case mode.STRUCT:
		for _, m := range p.Pack() {
			if !o.printable(m.Mode) {
				return false
			}
		}
		//
		return true
	default:
		return false
	}
}

// Check whether a mode can be read into (accepted by SIMPLIN): a name whose
// target is transput-capable.
func (o *Oracle) readable(p *mode.Moid) bool {
	return p.IsRef() && o.printable(o.reg.DeflexedOf(p.Sub()))
}

// ============================================================================
// Transient (series/stowed) sources
// ============================================================================

// A series coerces when every member coerces, under the same strength.
func (o *Oracle) coercibleSeries(p *mode.Moid, q *mode.Moid, sort Strength, dfx Deflex) bool {
	for _, m := range p.Pack() {
		if m.Mode == nil {
			continue
		} else if !o.Coercible(m.Mode, q, sort, dfx) {
			return false
		}
	}
	//
	return len(p.Pack()) > 0
}

// A stowed mode coerces under STRONG only, member-wise against the
// corresponding slice, field or parameter of the target.
func (o *Oracle) coercibleStowed(p *mode.Moid, q *mode.Moid, sort Strength, dfx Deflex) bool {
	if sort != STRONG {
		return false
	}
	//
	switch {
	case q.IsVoid():
		return true
	case q.IsRow(), q.IsFlex():
		element := o.reg.SliceOf(q)
		//
		for _, m := range p.Pack() {
			if !o.Coercible(m.Mode, element, STRONG, dfx) {
				return false
			}
		}
		//
		return true
	case q.IsStruct(), q.IsProc():
		if len(p.Pack()) != len(q.Pack()) {
			return false
		}
		//
		for i, m := range p.Pack() {
			if !o.Coercible(m.Mode, q.Pack()[i].Mode, STRONG, dfx) {
				return false
			}
		}
		//
		return true
	default:
		return false
	}
}
