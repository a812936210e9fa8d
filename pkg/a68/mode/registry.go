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
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/consensys/algol68/pkg/util/collection/hash"
)

// Registry interns mode descriptors such that structurally equivalent
// descriptors become the *same* object, making mode equality a handle
// comparison.  The registry also owns the memoized derivations of each mode
// (slice, name, deflexed, trim).  Its lifetime equals that of one compilation;
// individual modes are never freed.
type Registry struct {
	// All interned modes, in registration order.
	modes []*Moid
	// Interning index from shallow structural keys to handles.  Shallow
	// suffices because the children of a key are themselves handles.
	index *hash.Map[key, *Moid]
	// Handles for the standard (primitive and pseudo) modes.
	std Standard
}

// NewRegistry constructs a fresh registry, pre-registering the standard modes.
func NewRegistry() *Registry {
	r := &Registry{nil, hash.NewMap[key, *Moid](256), Standard{}}
	r.std = newStandard(r)
	//
	return r
}

// Standard returns the handles of the standard modes.
func (r *Registry) Standard() *Standard {
	return &r.std
}

// Count returns the number of modes interned so far.
func (r *Registry) Count() uint {
	return uint(len(r.modes))
}

// Modes returns all interned modes, in registration order.
func (r *Registry) Modes() []*Moid {
	return r.modes
}

// ============================================================================
// Constructors
// ============================================================================

// Primitive interns the primitive mode with a given symbol and multi-precision
// size adjustment (e.g. Primitive("INT", 1) is LONG INT).
func (r *Registry) Primitive(symbol string, size int) *Moid {
	return r.intern(&Moid{kind: PRIMITIVE, symbol: symbol, size: size})
}

// Ref interns the mode of a name referring to a given mode.
func (r *Registry) Ref(target *Moid) *Moid {
	return r.intern(&Moid{kind: REF, sub: target})
}

// Flex interns the flexible-bounds variant of a given row mode.  Applying it
// to an already flexible mode is a no-op.
func (r *Registry) Flex(target *Moid) *Moid {
	if target.kind == FLEX {
		return target
	}
	//
	return r.intern(&Moid{kind: FLEX, sub: target})
}

// RowOf interns the row mode with a given number of dimensions over a given
// element mode.
func (r *Registry) RowOf(dims int, element *Moid) *Moid {
	if dims < 1 {
		panic("row mode requires at least one dimension")
	}
	//
	return r.intern(&Moid{kind: ROW, dims: dims, sub: element})
}

// ProcOf interns the routine mode with given parameters and result.
// Parameter names carry no structural identity, so they are stripped first:
// PROC (INT n) INT and PROC (INT) INT are the same mode.
func (r *Registry) ProcOf(params Pack, result *Moid) *Moid {
	stripped := make(Pack, len(params))
	for i, m := range params {
		stripped[i] = Member{Mode: m.Mode}
	}
	//
	return r.intern(&Moid{kind: PROC, sub: result, pack: stripped})
}

// StructOf interns the structured mode with a given field pack.
func (r *Registry) StructOf(fields Pack) *Moid {
	return r.intern(&Moid{kind: STRUCT, pack: fields})
}

// SeriesOf interns the transient series mode over a given member pack.
func (r *Registry) SeriesOf(members Pack) *Moid {
	return r.intern(&Moid{kind: SERIES, pack: members})
}

// StowedOf interns the transient stowed mode over a given member pack.
func (r *Registry) StowedOf(members Pack) *Moid {
	return r.intern(&Moid{kind: STOWED, pack: members})
}

// UnionOf interns the united mode over the given members, after absorption.
// Nested unions and series are flattened recursively; members whose
// depreffed mode is a union subsumed by the surrounding union are absorbed;
// duplicates are removed; and a union with a single remaining member
// degenerates to that member.  Member order is canonicalised, so the result
// does not depend on the order given.
func (r *Registry) UnionOf(members ...*Moid) *Moid {
	var pack Pack
	// Flatten nested unions and series.
	for _, m := range members {
		pack = flattenInto(pack, m)
	}
	//
	pack = dedup(pack)
	// Absorb related subsets to a fixed point.  For instance
	// UNION (PROC REF UNION (A, B), A, B) contracts to UNION (A, B).
	for changed := true; changed; {
		changed = false
		//
		var next Pack
		//
		for _, v := range pack {
			n := DeprefAll(v.Mode)
			//
			if n != v.Mode && n.IsUnion() && n.pack.SubsetOf(pack) {
				next = append(next, n.pack...)
				changed = true
			} else {
				next = append(next, v)
			}
		}
		//
		pack = dedup(next)
	}
	// Check for degenerate unions.
	switch len(pack) {
	case 0:
		return r.std.Error
	case 1:
		return pack[0].Mode
	}
	// Canonicalise member order.
	sort.SliceStable(pack, func(i, j int) bool {
		return pack[i].Mode.number < pack[j].Mode.number
	})
	//
	return r.intern(&Moid{kind: UNION, pack: pack})
}

// Flatten a member mode into a union pack, expanding nested unions and series.
// The bottom and error sentinels never become union members: the former
// matches anything anyway, whilst the latter must not propagate.
func flattenInto(pack Pack, m *Moid) Pack {
	switch {
	case m == nil, m.IsHip(), m.IsError():
		return pack
	case m.IsUnion(), m.IsSeries():
		for _, v := range m.pack {
			pack = flattenInto(pack, v.Mode)
		}
		//
		return pack
	default:
		return append(pack, Member{m, "", nil})
	}
}

// Remove duplicate members from a pack, by handle.
func dedup(pack Pack) Pack {
	var result Pack
	//
	for _, m := range pack {
		if !result.Contains(m.Mode) {
			result = append(result, m)
		}
	}
	//
	return result
}

// ============================================================================
// Registration of external descriptors
// ============================================================================

// Register interns a descriptor constructed outside this registry, such as a
// declared (possibly self-referential) mode built by the mode-table pass.  If
// an equivalent mode is already registered its handle is returned; otherwise
// the descriptor graph is adopted wholesale.
func (r *Registry) Register(m *Moid) *Moid {
	if m.number != 0 {
		// Already interned.
		return m
	}
	// Scan for an equivalent existing mode.  The postulate mechanism inside
	// Equivalent makes this safe for self-referential descriptors.
	for _, cand := range r.modes {
		if cand.kind == m.kind && Equivalent(cand, m) {
			return cand
		}
	}
	// None matched, so adopt the whole graph.
	r.adoptGraph(m)
	//
	return m
}

// Adopt every unregistered descriptor reachable from a given one, folding any
// child structurally equivalent to an already-interned mode onto its interned
// twin.  This cannot use intern directly since the graph may be cyclic: the
// node is numbered before its children are visited, and indexed only
// afterwards, so its key compares interned handles.
func (r *Registry) adoptGraph(m *Moid) {
	if m == nil || m.number != 0 {
		return
	}
	// Number the node first, breaking cycles.
	m.number = uint(len(r.modes)) + 1
	r.modes = append(r.modes, m)
	//
	m.sub = r.foldChild(m.sub)
	//
	for i, v := range m.pack {
		m.pack[i].Mode = r.foldChild(v.Mode)
	}
	//
	r.index.Insert(keyOf(m), m)
}

// foldChild resolves an unregistered child descriptor onto an equivalent
// interned mode when one exists, adopting its graph otherwise.
func (r *Registry) foldChild(m *Moid) *Moid {
	if m == nil || m.number != 0 {
		return m
	}
	//
	for _, cand := range r.modes {
		if cand.kind == m.kind && Equivalent(cand, m) {
			return cand
		}
	}
	//
	r.adoptGraph(m)
	//
	return m
}

// ============================================================================
// Memoized derivations
// ============================================================================

// SliceOf returns the mode resulting from stripping one dimension of a given
// row mode (flexible or not).  Slicing a one-dimensional row yields the
// element mode; slicing a flexible row loses the flexibility.  Returns nil if
// the mode is not a row.
func (r *Registry) SliceOf(m *Moid) *Moid {
	if m.derived.slice != nil {
		return m.derived.slice
	}
	//
	var slice *Moid
	//
	switch m.kind {
	case FLEX:
		slice = r.SliceOf(m.sub)
	case ROW:
		if m.dims > 1 {
			slice = r.RowOf(m.dims-1, m.sub)
		} else {
			slice = m.sub
		}
	default:
		return nil
	}
	//
	m.derived.slice = slice
	//
	return slice
}

// NameOf returns the mode of a name referring to a given mode.  This is the
// same handle as Ref, memoized on the mode itself.
func (r *Registry) NameOf(m *Moid) *Moid {
	if m.derived.name == nil {
		m.derived.name = r.Ref(m)
	}
	//
	return m.derived.name
}

// TrimOf returns the mode resulting from a slice made only of trimmers: the
// dimensionality is retained but the bounds become fixed, so any flexibility
// is lost.  Returns nil if the mode is not a row.
func (r *Registry) TrimOf(m *Moid) *Moid {
	if m.derived.trim != nil {
		return m.derived.trim
	}
	//
	var trim *Moid
	//
	switch m.kind {
	case FLEX:
		trim = r.TrimOf(m.sub)
	case ROW:
		trim = m
	default:
		return nil
	}
	//
	m.derived.trim = trim
	//
	return trim
}

// DeflexedOf returns a given mode with all flexibility removed, recursively
// through rows, references and structured fields.  Routine modes are left
// untouched, as deflexing laws concern multiple values only.
func (r *Registry) DeflexedOf(m *Moid) *Moid {
	return r.deflex(m, make(map[*Moid]bool))
}

func (r *Registry) deflex(m *Moid, visiting map[*Moid]bool) *Moid {
	if m.derived.deflexed != nil {
		return m.derived.deflexed
	}
	// Self-referential modes keep their own handle: a recursive knot through a
	// FLEX row cannot be rebuilt without a new knot, and such modes never
	// participate in deflexing laws anyway.
	if visiting[m] {
		return m
	}
	//
	visiting[m] = true
	//
	var deflexed *Moid
	//
	switch m.kind {
	case FLEX:
		deflexed = r.deflex(m.sub, visiting)
	case ROW:
		deflexed = r.RowOf(m.dims, r.deflex(m.sub, visiting))
	case REF:
		deflexed = r.Ref(r.deflex(m.sub, visiting))
	case STRUCT:
		fields := make(Pack, len(m.pack))
		for i, v := range m.pack {
			fields[i] = Member{r.deflex(v.Mode, visiting), v.Tag, v.Origin}
		}
		//
		deflexed = r.StructOf(fields)
	case UNION:
		members := make([]*Moid, len(m.pack))
		for i, v := range m.pack {
			members[i] = r.deflex(v.Mode, visiting)
		}
		//
		deflexed = r.UnionOf(members...)
	default:
		deflexed = m
	}
	//
	delete(visiting, m)
	//
	m.derived.deflexed = deflexed
	//
	return deflexed
}

// ============================================================================
// Interning
// ============================================================================

func (r *Registry) intern(m *Moid) *Moid {
	k := keyOf(m)
	//
	if existing, ok := r.index.Get(k); ok {
		return existing
	}
	//
	r.adopt(m)
	//
	return m
}

func (r *Registry) adopt(m *Moid) {
	m.number = uint(len(r.modes)) + 1
	r.modes = append(r.modes, m)
	r.index.Insert(keyOf(m), m)
}

// key is the shallow structural identity of a mode: the children of a key are
// interned handles, compared by pointer.  Member origins are deliberately
// excluded, as they carry no structural information.
type key struct {
	kind   Kind
	symbol string
	size   int
	dims   int
	sub    *Moid
	pack   Pack
}

func keyOf(m *Moid) key {
	return key{m.kind, m.symbol, m.size, m.dims, m.sub, m.pack}
}

// Equals implements hash.Hasher.
func (k key) Equals(o key) bool {
	if k.kind != o.kind || k.symbol != o.symbol || k.size != o.size ||
		k.dims != o.dims || k.sub != o.sub || len(k.pack) != len(o.pack) {
		return false
	}
	//
	for i := range k.pack {
		if k.pack[i].Mode != o.pack[i].Mode || k.pack[i].Tag != o.pack[i].Tag {
			return false
		}
	}
	//
	return true
}

// Hash implements hash.Hasher.
func (k key) Hash() uint64 {
	var buf [8]byte
	//
	h := fnv.New64a()
	h.Write([]byte{byte(k.kind)})
	h.Write([]byte(k.symbol))
	//
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(k.size)))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(k.dims)))
	h.Write(buf[:])
	//
	if k.sub != nil {
		binary.LittleEndian.PutUint64(buf[:], uint64(k.sub.number))
		h.Write(buf[:])
	}
	//
	for _, m := range k.pack {
		binary.LittleEndian.PutUint64(buf[:], uint64(m.Mode.number))
		h.Write(buf[:])
		h.Write([]byte(m.Tag))
	}
	// Done
	return h.Sum64()
}
