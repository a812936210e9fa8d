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

import "strings"

// Member associates a mode with an optional field or parameter tag, and with
// the tree node it originated from (if any).  The origin is held opaquely so
// that this package does not depend on any particular tree representation; it
// is only ever handed back for diagnostics.
type Member struct {
	// Mode of this member.
	Mode *Moid
	// Field or parameter tag, or "" if unnamed.
	Tag string
	// Originating tree node, or nil.
	Origin any
}

// Pack is an ordered sequence of members, used for struct fields, union
// constituents, procedure parameters and (transiently) series/stowed members.
// Order is semantically significant for structs and procedures, but not for
// unions.
type Pack []Member

// NewPack constructs an unnamed pack over the given modes.
func NewPack(modes ...*Moid) Pack {
	pack := make(Pack, len(modes))
	//
	for i, m := range modes {
		pack[i] = Member{m, "", nil}
	}
	//
	return pack
}

// Modes returns the modes of this pack, in order.
func (p Pack) Modes() []*Moid {
	modes := make([]*Moid, len(p))
	//
	for i, m := range p {
		modes[i] = m.Mode
	}
	//
	return modes
}

// Find returns the index of the first member carrying a given tag, or -1 if no
// member does.
func (p Pack) Find(tag string) int {
	for i, m := range p {
		if m.Tag == tag {
			return i
		}
	}
	//
	return -1
}

// Contains checks whether a given mode is a member of this pack, using handle
// equality.
func (p Pack) Contains(mode *Moid) bool {
	for _, m := range p {
		if m.Mode == mode {
			return true
		}
	}
	//
	return false
}

// SubsetOf checks whether every mode in this pack is also a member of another
// pack, using handle equality.
func (p Pack) SubsetOf(other Pack) bool {
	for _, m := range p {
		if !other.Contains(m.Mode) {
			return false
		}
	}
	//
	return true
}

func (p Pack) text(depth int, tagged bool) string {
	var builder strings.Builder
	//
	for i, m := range p {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(m.Mode.text(depth))
		//
		if tagged && m.Tag != "" {
			builder.WriteString(" ")
			builder.WriteString(m.Tag)
		}
	}
	//
	return builder.String()
}
