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

// A reasonably simple hashset implementation which permits collisions.  This
// matters for structural interning (e.g. of mode descriptors) where the hash
// function cannot be assumed to uniquely identify the data in question, and
// where collisions must fall back on a proper equality test.

// Hasher provides a generic definition of a hashing function suitable for use
// within the hashset and hashmap below.  Unlike hashing interfaces found
// elsewhere, this additionally includes equality.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

// ============================================================================
// Set
// ============================================================================

// Set defines a generic set implementation backed by a map.  This is a true
// hashtable in that collisions are handled gracefully using buckets, rather
// than simply discarding them.
type Set[T Hasher[T]] struct {
	// items maps hashcodes to *buckets* of items.
	items map[uint64]setBucket[T]
}

// NewSet creates a new Set with a given underlying capacity.
func NewSet[T Hasher[T]](size uint) *Set[T] {
	items := make(map[uint64]setBucket[T], size)
	return &Set[T]{items}
}

// Size returns the number of unique items stored in this Set.
func (p *Set[T]) Size() uint {
	count := uint(0)
	for _, b := range p.items {
		count += uint(len(b.items))
	}
	//
	return count
}

// Insert a new item into this set, returning true if it was already contained
// and false otherwise.
func (p *Set[T]) Insert(item T) bool {
	// Compute item's hashcode
	hash := item.Hash()
	// Lookup existing bucket
	b1 := p.items[hash]
	// Insert new item
	r := b1.insert(item)
	// Update map
	p.items[hash] = b1
	// Done
	return r
}

// Contains checks whether the given item is contained within this set, or not.
func (p *Set[T]) Contains(item T) bool {
	hash := item.Hash()
	//
	if bucket, ok := p.items[hash]; ok {
		return bucket.contains(item)
	}
	//
	return false
}

// Remove a given item from this set, returning true if it was contained and
// false otherwise.
func (p *Set[T]) Remove(item T) bool {
	hash := item.Hash()
	//
	if bucket, ok := p.items[hash]; ok {
		if bucket.remove(item) {
			p.items[hash] = bucket
			return true
		}
	}
	//
	return false
}

type setBucket[T Hasher[T]] struct {
	items []T
}

// Insert a new item into this bucket, returning true if it was already there.
func (b *setBucket[T]) insert(item T) bool {
	if b.contains(item) {
		// Item already present, so nothing to do.
		return true
	}
	// Append item
	b.items = append(b.items, item)
	// Item not present
	return false
}

// Check whether this bucket contains a given item, or not.
func (b *setBucket[T]) contains(item T) bool {
	for _, i := range b.items {
		if item.Equals(i) {
			return true
		}
	}
	//
	return false
}

// Remove a given item from this bucket, returning true if it was there.
func (b *setBucket[T]) remove(item T) bool {
	for j, i := range b.items {
		if item.Equals(i) {
			b.items = append(b.items[:j], b.items[j+1:]...)
			return true
		}
	}
	//
	return false
}

// ============================================================================
// Map
// ============================================================================

// Map defines a generic map implementation where keys are hashed structurally.
// As for Set, collisions are handled gracefully using buckets.
type Map[K Hasher[K], V any] struct {
	// buckets maps hashcodes to *buckets* of key/value pairs.
	buckets map[uint64]mapBucket[K, V]
}

// NewMap creates a new Map with a given underlying capacity.
func NewMap[K Hasher[K], V any](size uint) *Map[K, V] {
	buckets := make(map[uint64]mapBucket[K, V], size)
	return &Map[K, V]{buckets}
}

// Size returns the number of unique keys stored in this Map.
func (p *Map[K, V]) Size() uint {
	count := uint(0)
	for _, b := range p.buckets {
		count += uint(len(b.keys))
	}
	//
	return count
}

// Insert a new key/value pair into this map, returning true if the key was
// already bound and false otherwise.
func (p *Map[K, V]) Insert(key K, value V) bool {
	// Compute key's hashcode
	hash := key.Hash()
	// Lookup existing bucket
	b1 := p.buckets[hash]
	// Insert new item
	r := b1.insert(key, value)
	// Update map
	p.buckets[hash] = b1
	// Done
	return r
}

// ContainsKey checks whether the given key is bound within this map, or not.
func (p *Map[K, V]) ContainsKey(key K) bool {
	hash := key.Hash()
	//
	if bucket, ok := p.buckets[hash]; ok {
		return bucket.containsKey(key)
	}
	//
	return false
}

// Get the value bound to a given key, or return false otherwise.
func (p *Map[K, V]) Get(key K) (V, bool) {
	var empty V
	// Look for bucket
	if bucket, ok := p.buckets[key.Hash()]; ok {
		return bucket.get(key)
	}
	//
	return empty, false
}

type mapBucket[K Hasher[K], V any] struct {
	keys   []K
	values []V
}

// Insert a new key/value pair into this bucket, overwriting any existing
// binding for the same key.
func (b *mapBucket[K, V]) insert(key K, value V) bool {
	// Determine whether key already present
	for i, k := range b.keys {
		if key.Equals(k) {
			b.values[i] = value
			return true
		}
	}
	// Append item
	b.keys = append(b.keys, key)
	b.values = append(b.values, value)
	// Key not present
	return false
}

// Check whether this bucket contains a given key, or not.
func (b *mapBucket[K, V]) containsKey(key K) bool {
	for _, k := range b.keys {
		if key.Equals(k) {
			return true
		}
	}
	//
	return false
}

// Get the value for a given key from this bucket, or return false otherwise.
func (b *mapBucket[K, V]) get(key K) (V, bool) {
	var empty V
	//
	for i, k := range b.keys {
		if key.Equals(k) {
			return b.values[i], true
		}
	}
	//
	return empty, false
}
