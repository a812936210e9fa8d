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

// postulate records a pair of modes which are assumed equivalent for the
// duration of one top-level equivalence test.  Postulates are what make the
// test terminate on recursive (self-referential) modes: when the same pair
// comes around again, the assumption stands and the recursion stops.
type postulate struct {
	left  *Moid
	right *Moid
}

// postulates is the visited-pair set threaded through one equivalence test.
// A fresh set is created per top-level comparison.
type postulates map[postulate]bool

// Equivalent determines whether two mode descriptors are structurally
// equivalent.  Interned descriptors compare by handle, so this only descends
// into descriptors which have not (yet) been interned.
func Equivalent(a *Moid, b *Moid) bool {
	return equivalent(a, b, make(postulates))
}

func equivalent(a *Moid, b *Moid, ps postulates) bool {
	if a == b {
		return true
	} else if a == nil || b == nil {
		return false
	} else if a.kind != b.kind || a.size != b.size || a.dims != b.dims {
		return false
	}
	// Check whether this pair is already postulated.
	if ps[postulate{a, b}] || ps[postulate{b, a}] {
		return true
	}
	// Postulate the pair before descending.
	ps[postulate{a, b}] = true
	//
	switch a.kind {
	case PRIMITIVE:
		return a.symbol == b.symbol
	case ERROR, HIP:
		return true
	case REF, FLEX:
		return equivalent(a.sub, b.sub, ps)
	case ROW:
		return equivalent(a.sub, b.sub, ps)
	case PROC:
		// Parameter tags are not semantically significant.
		return equivalent(a.sub, b.sub, ps) && equivalentPacks(a.pack, b.pack, false, ps)
	case STRUCT:
		// Field tags and their order are semantically significant.
		return equivalentPacks(a.pack, b.pack, true, ps)
	case UNION:
		// Member order is not semantically significant.
		return unionSubset(a.pack, b.pack, ps) && unionSubset(b.pack, a.pack, ps)
	case SERIES, STOWED:
		return equivalentPacks(a.pack, b.pack, false, ps)
	default:
		panic("unknown mode kind")
	}
}

// Check two packs for pairwise equivalence, optionally requiring matching
// tags.
func equivalentPacks(a Pack, b Pack, tagged bool, ps postulates) bool {
	if len(a) != len(b) {
		return false
	}
	//
	for i := range a {
		if tagged && a[i].Tag != b[i].Tag {
			return false
		} else if !equivalent(a[i].Mode, b[i].Mode, ps) {
			return false
		}
	}
	//
	return true
}

// Check every member of one union pack has an equivalent member in another.
func unionSubset(a Pack, b Pack, ps postulates) bool {
	for _, m := range a {
		matched := false
		//
		for _, n := range b {
			if equivalent(m.Mode, n.Mode, ps) {
				matched = true
				break
			}
		}
		//
		if !matched {
			return false
		}
	}
	//
	return true
}
