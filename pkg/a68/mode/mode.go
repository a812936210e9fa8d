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

import (
	"fmt"
	"strings"
)

// Kind identifies the structural shape of a mode descriptor.
type Kind uint8

const (
	// PRIMITIVE modes are plain modes such as INT, REAL or VOID, possibly
	// carrying a multi-precision size adjustment (e.g. LONG INT).
	PRIMITIVE Kind = iota
	// REF describes the mode of a name referring to a value of the sub mode.
	REF
	// PROC describes the mode of a routine, with zero or more parameters and a
	// result (the sub mode).
	PROC
	// ROW describes a multiple value of one or more dimensions over the sub
	// mode.
	ROW
	// FLEX marks a row mode as having flexible bounds.
	FLEX
	// STRUCT describes a structured value with named fields.
	STRUCT
	// UNION describes a united mode over two or more constituent modes.
	UNION
	// SERIES is a transient mode representing the as-yet-unbalanced yields of
	// a multi-armed construct.  It never survives mode checking.
	SERIES
	// STOWED is a transient mode representing the unnamed tuple yielded by a
	// display or argument list.  It never survives mode checking.
	STOWED
	// ERROR is the sentinel mode of constructs whose mode could not be
	// determined.  It coerces to, and from, anything so that one fault does
	// not cascade into many.
	ERROR
	// HIP is the bottom mode, yielded by jumps, SKIP and NIL.  It coerces to
	// anything.
	HIP
)

// Moid is a mode descriptor.  Descriptors are interned by a Registry: after
// registration two structurally equivalent descriptors are the *same* object,
// and mode equality is handle equality.  Fields are immutable thereafter,
// except for the memoized derivations which the owning registry fills in
// lazily.
type Moid struct {
	kind Kind
	// Symbol of a primitive mode (e.g. "INT").  Also set for declared modes as
	// their indicant, which is then preferred when printing.
	symbol string
	// Multi-precision size adjustment: 0 for plain, +n for LONG..., -n for
	// SHORT... variants.
	size int
	// Number of dimensions of a ROW.
	dims int
	// Sub mode: target of a REF or FLEX, element of a ROW, result of a PROC.
	sub *Moid
	// Members of a STRUCT/UNION/SERIES/STOWED, or parameters of a PROC.
	pack Pack
	// Registration ordinal.  Zero means "not yet interned".
	number uint
	// Memoized derivations, owned by the registry.
	derived struct {
		slice    *Moid
		name     *Moid
		deflexed *Moid
		trim     *Moid
	}
}

// Kind returns the structural shape of this mode.
func (p *Moid) Kind() Kind {
	return p.kind
}

// Symbol returns the symbol of a primitive mode, or the indicant under which a
// declared mode was registered ("" if none).
func (p *Moid) Symbol() string {
	return p.symbol
}

// Size returns the multi-precision size adjustment of a primitive mode.
func (p *Moid) Size() int {
	return p.size
}

// Dims returns the number of dimensions of a ROW mode.
func (p *Moid) Dims() int {
	return p.dims
}

// Sub returns the sub mode (REF/FLEX target, ROW element, PROC result).
func (p *Moid) Sub() *Moid {
	return p.sub
}

// Pack returns the member pack of this mode.
func (p *Moid) Pack() Pack {
	return p.pack
}

// Number returns the registration ordinal of this mode, counting from 1.
func (p *Moid) Number() uint {
	return p.number
}

// IsRef reports whether this is a REF mode.
func (p *Moid) IsRef() bool { return p.kind == REF }

// IsProc reports whether this is a PROC mode.
func (p *Moid) IsProc() bool { return p.kind == PROC }

// IsRow reports whether this is a ROW mode.
func (p *Moid) IsRow() bool { return p.kind == ROW }

// IsFlex reports whether this is a FLEX mode.
func (p *Moid) IsFlex() bool { return p.kind == FLEX }

// IsStruct reports whether this is a STRUCT mode.
func (p *Moid) IsStruct() bool { return p.kind == STRUCT }

// IsUnion reports whether this is a UNION mode.
func (p *Moid) IsUnion() bool { return p.kind == UNION }

// IsSeries reports whether this is a transient SERIES mode.
func (p *Moid) IsSeries() bool { return p.kind == SERIES }

// IsStowed reports whether this is a transient STOWED mode.
func (p *Moid) IsStowed() bool { return p.kind == STOWED }

// IsError reports whether this is the error sentinel.
func (p *Moid) IsError() bool { return p.kind == ERROR }

// IsHip reports whether this is the bottom mode.
func (p *Moid) IsHip() bool { return p.kind == HIP }

// IsTransient reports whether this is a checker-internal mode which must never
// survive past balancing.
func (p *Moid) IsTransient() bool {
	return p.kind == SERIES || p.kind == STOWED
}

// IsPrimitive reports whether this is a primitive mode with the given symbol,
// of any size.
func (p *Moid) IsPrimitive(symbol string) bool {
	return p.kind == PRIMITIVE && p.symbol == symbol
}

// IsVoid reports whether this is the VOID mode.
func (p *Moid) IsVoid() bool {
	return p.IsPrimitive("VOID")
}

// Deprefable reports whether a single dereferencing or deproceduring step
// applies to this mode.  Only parameterless procedures can be deprocedured.
func (p *Moid) Deprefable() bool {
	switch p.kind {
	case REF:
		return true
	case PROC:
		return len(p.pack) == 0
	default:
		return false
	}
}

// DeprefOnce strips one REF or one parameterless PROC from a mode.  This will
// panic if no such step applies.
func DeprefOnce(p *Moid) *Moid {
	if !p.Deprefable() {
		panic("mode is not deprefable")
	}
	//
	return p.sub
}

// DeprefAll strips REFs and parameterless PROCs from a mode until no further
// step applies.
func DeprefAll(p *Moid) *Moid {
	for p.Deprefable() {
		p = p.sub
	}
	//
	return p
}

// String produces the Algol 68 notation for this mode, e.g. "REF [] INT" or
// "PROC (REAL, REAL) BOOL".
func (p *Moid) String() string {
	return p.text(8)
}

func (p *Moid) text(depth int) string {
	if p == nil {
		return "?"
	}
	// Recursive modes are printed via their indicant; the depth cap is a
	// backstop for anonymous recursive descriptors.
	if depth <= 0 {
		return "..."
	}
	//
	switch p.kind {
	case PRIMITIVE:
		return sizePrefix(p.size) + p.symbol
	case REF:
		return "REF " + p.sub.text(depth-1)
	case PROC:
		if len(p.pack) == 0 {
			return "PROC " + p.sub.text(depth-1)
		}
		//
		return fmt.Sprintf("PROC (%s) %s", p.pack.text(depth-1, false), p.sub.text(depth-1))
	case ROW:
		return fmt.Sprintf("[%s] %s", strings.Repeat(",", p.dims-1), p.sub.text(depth-1))
	case FLEX:
		return "FLEX " + p.sub.text(depth-1)
	case STRUCT:
		if p.symbol != "" {
			return p.symbol
		}
		//
		return fmt.Sprintf("STRUCT (%s)", p.pack.text(depth-1, true))
	case UNION:
		if p.symbol != "" {
			return p.symbol
		}
		//
		return fmt.Sprintf("UNION (%s)", p.pack.text(depth-1, false))
	case SERIES:
		return fmt.Sprintf("SERIES (%s)", p.pack.text(depth-1, false))
	case STOWED:
		return fmt.Sprintf("STOWED (%s)", p.pack.text(depth-1, false))
	case ERROR:
		return "ERROR"
	case HIP:
		return "HIP"
	default:
		panic("unknown mode kind")
	}
}

func sizePrefix(size int) string {
	if size > 0 {
		return strings.Repeat("LONG ", size)
	} else if size < 0 {
		return strings.Repeat("SHORT ", -size)
	}
	//
	return ""
}
