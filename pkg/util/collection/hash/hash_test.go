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
package hash

import "testing"

// ============================================================================
// Set
// ============================================================================

func Test_Set_01(t *testing.T) {
	set := NewSet[word](16)
	//
	if set.Insert(key("a", 1)) {
		t.Errorf("fresh item reported as already present")
	}
	//
	if !set.Insert(key("a", 1)) {
		t.Errorf("repeated item reported as fresh")
	}
	//
	if !set.Contains(key("a", 1)) || set.Contains(key("b", 2)) {
		t.Errorf("membership inconsistent after insertion")
	}
	//
	if set.Size() != 1 {
		t.Errorf("set has size %d", set.Size())
	}
}

func Test_Set_02(t *testing.T) {
	// Items sharing a hashcode land in one bucket, yet remain distinct.
	set := NewSet[word](16)
	//
	set.Insert(key("a", 1))
	set.Insert(key("b", 1))
	set.Insert(key("c", 1))
	//
	if set.Size() != 3 {
		t.Fatalf("set has size %d after colliding insertions", set.Size())
	}
	//
	for _, text := range []string{"a", "b", "c"} {
		if !set.Contains(key(text, 1)) {
			t.Errorf("colliding item %s lost", text)
		}
	}
}

func Test_Set_03(t *testing.T) {
	set := NewSet[word](16)
	//
	set.Insert(key("a", 1))
	set.Insert(key("b", 1))
	//
	if !set.Remove(key("a", 1)) {
		t.Errorf("failed to remove a present item")
	}
	//
	if set.Remove(key("a", 1)) {
		t.Errorf("removed an absent item")
	}
	// The bucket neighbour survives.
	if !set.Contains(key("b", 1)) || set.Size() != 1 {
		t.Errorf("bucket neighbour lost during removal")
	}
}

// ============================================================================
// Map
// ============================================================================

func Test_Map_01(t *testing.T) {
	m := NewMap[word, int](16)
	//
	if m.Insert(key("a", 1), 10) {
		t.Errorf("fresh key reported as already bound")
	}
	//
	if v, ok := m.Get(key("a", 1)); !ok || v != 10 {
		t.Errorf("bound %d, expected 10", v)
	}
	//
	if _, ok := m.Get(key("b", 2)); ok {
		t.Errorf("found a binding for an absent key")
	}
}

func Test_Map_02(t *testing.T) {
	// Re-insertion overwrites the existing binding.
	m := NewMap[word, int](16)
	//
	m.Insert(key("a", 1), 10)
	//
	if !m.Insert(key("a", 1), 20) {
		t.Errorf("rebinding reported as a fresh key")
	}
	//
	if v, _ := m.Get(key("a", 1)); v != 20 {
		t.Errorf("bound %d after overwrite, expected 20", v)
	}
	//
	if m.Size() != 1 {
		t.Errorf("map has size %d", m.Size())
	}
}

func Test_Map_03(t *testing.T) {
	// Colliding keys keep independent bindings.
	m := NewMap[word, int](16)
	//
	m.Insert(key("a", 1), 10)
	m.Insert(key("b", 1), 20)
	//
	if v, _ := m.Get(key("a", 1)); v != 10 {
		t.Errorf("collision clobbered a: %d", v)
	}
	//
	if v, _ := m.Get(key("b", 1)); v != 20 {
		t.Errorf("collision clobbered b: %d", v)
	}
	//
	if !m.ContainsKey(key("a", 1)) || m.ContainsKey(key("c", 1)) {
		t.Errorf("key membership inconsistent")
	}
}

// ============================================================================
// Test Helpers
// ============================================================================

// word is a test key whose hashcode is chosen freely, so that collisions can
// be forced at will.
type word struct {
	text string
	hash uint64
}

func key(text string, hash uint64) word {
	return word{text, hash}
}

// Equals implements hash.Hasher.
func (w word) Equals(o word) bool {
	return w.text == o.text
}

// Hash implements hash.Hasher.
func (w word) Hash() uint64 {
	return w.hash
}
