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
package source

// Span represents a contiguous slice of the original string.  Instead of
// representing this as a string slice, however, it is useful to retain the
// physical indices.  This allows us to do certain things, such as determine the
// enclosing line, etc.
type Span struct {
	// The first character of this span in the original string.
	start int
	// One past the final character of this span in the original string.
	end int
}

// NewSpan constructs a new span whilst checking the internal invariants are
// maintained.
func NewSpan(start int, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Start returns the starting index of this span in the original string.
func (p *Span) Start() int {
	return p.start
}

// End returns one past the last index of this span in the original string.
func (p *Span) End() int {
	return p.end
}

// Length returns the number of characters covered by this span in the original
// string.
func (p *Span) Length() int {
	return p.end - p.start
}

// Maps provides a mechanism for mapping terms from an AST to multiple source
// files.  Nodes which are constructed synthetically (e.g. by tests, or during
// tree rewriting) may have no mapping at all; errors raised on such nodes are
// reported without a source highlight.
type Maps[T comparable] struct {
	// Array of known source maps.
	maps []Map[T]
}

// NewMaps constructs an (initially empty) set of source maps.  The intention
// is that this is populated as each file is parsed.
func NewMaps[T comparable]() *Maps[T] {
	return &Maps[T]{[]Map[T]{}}
}

// Has checks whether a given node has a mapping in one of the source maps
// embodied within.
func (p *Maps[T]) Has(node T) bool {
	for _, m := range p.maps {
		if m.Has(node) {
			return true
		}
	}
	//
	return false
}

// SyntaxError constructs a syntax error for a given node.  If the node is not
// contained within any of the source files managed by this set of source
// maps, an unanchored error is returned instead.
func (p *Maps[T]) SyntaxError(node T, msg string) *SyntaxError {
	return p.build(node, msg, SeverityError)
}

// SyntaxWarning constructs a syntax warning for a given node, in the same
// fashion as SyntaxError.
func (p *Maps[T]) SyntaxWarning(node T, msg string) *SyntaxError {
	return p.build(node, msg, SeverityWarning)
}

// SyntaxErrors is really just a helper that constructs a syntax error and then
// places it into an array of size one.  This is helpful for situations where
// sets of syntax errors are being passed around.
func (p *Maps[T]) SyntaxErrors(node T, msg string) []SyntaxError {
	err := p.SyntaxError(node, msg)
	return []SyntaxError{*err}
}

// Join a given source map into this set of source maps.  The effect of this is
// that nodes recorded in the given source map can be accessed from this set.
func (p *Maps[T]) Join(srcmap *Map[T]) {
	p.maps = append(p.maps, *srcmap)
}

// Copy copies the source mapping for one node to the source mapping for
// another.  The main use of this is when an existing node is wrapped by some
// other node (e.g. during coercion insertion).
func (p *Maps[T]) Copy(from T, to T) {
	for i := range p.maps {
		m := &p.maps[i]
		if m.Has(from) {
			span := m.Get(from)
			m.Put(to, span)
			// Done
			return
		}
	}
}

func (p *Maps[T]) build(node T, msg string, severity Severity) *SyntaxError {
	for _, m := range p.maps {
		if m.Has(node) {
			span := m.Get(node)
			err := m.srcfile.SyntaxError(span, msg)
			err.severity = severity
			//
			return err
		}
	}
	// Node has no originating source text.
	return &SyntaxError{nil, Span{0, 0}, msg, severity}
}

// Map maps terms from an AST to slices of their originating string.  This is
// important for error handling when we wish to highlight exactly where, in the
// original source file, a given error has arisen.
type Map[T comparable] struct {
	// Maps a given AST object to a span in the original string.
	mapping map[T]Span
	// Enclosing source file
	srcfile File
}

// NewMap constructs an initially empty source map for a given file.
func NewMap[T comparable](srcfile File) *Map[T] {
	mapping := make(map[T]Span)
	return &Map[T]{mapping, srcfile}
}

// Source returns the underlying source file on which this map operates.
func (p *Map[T]) Source() File {
	return p.srcfile
}

// Put registers a new AST item with a given span.  Note, if the item exists
// already, its mapping is simply overwritten.
func (p *Map[T]) Put(item T, span Span) {
	p.mapping[item] = span
}

// Has checks whether a given item is contained within this source map.
func (p *Map[T]) Has(item T) bool {
	_, ok := p.mapping[item]
	return ok
}

// Get determines the span associated with a given item.  This will panic if
// the item is not contained within this map.
func (p *Map[T]) Get(item T) Span {
	if span, ok := p.mapping[item]; ok {
		return span
	}
	//
	panic("missing mapping for source node")
}
