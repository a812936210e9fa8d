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

// Package a68 ties the front-end passes together: parsing, mode checking and
// coercion insertion, sharing one mode registry across all of them.
package a68

import (
	"github.com/consensys/algol68/pkg/a68/ast"
	"github.com/consensys/algol68/pkg/a68/check"
	"github.com/consensys/algol68/pkg/a68/coerce"
	"github.com/consensys/algol68/pkg/a68/mode"
	"github.com/consensys/algol68/pkg/a68/parser"
	"github.com/consensys/algol68/pkg/util/source"
)

// Session owns the state shared between analysis passes: the mode registry
// (so every pass sees the same interned descriptors) and the source maps of
// every file parsed so far.  A session is not safe for concurrent use;
// independent analyses should each construct their own.
type Session struct {
	registry *mode.Registry
	srcmaps  *source.Maps[ast.Node]
}

// NewSession constructs a fresh session with an empty registry.
func NewSession() *Session {
	return &Session{mode.NewRegistry(), source.NewMaps[ast.Node]()}
}

// Registry returns the session's mode registry.
func (p *Session) Registry() *mode.Registry {
	return p.registry
}

// SourceMaps returns the combined node-to-span mapping for every file parsed
// within this session.
func (p *Session) SourceMaps() *source.Maps[ast.Node] {
	return p.srcmaps
}

// Parse a source file into a syntax tree, recording the spans of its nodes
// for later diagnostics.
func (p *Session) Parse(srcfile *source.File) (*ast.SerialClause, []source.SyntaxError) {
	tree, srcmap, errs := parser.Parse(srcfile, p.registry)
	p.srcmaps.Join(srcmap)
	//
	return tree, errs
}

// Check runs the mode-assignment pass over a tree, returning its diagnostics
// and the checker itself (whose oracle a subsequent insertion pass must
// share).
func (p *Session) Check(root ast.Node) (*check.Checker, []source.SyntaxError) {
	checker := check.NewChecker(p.registry, p.srcmaps)
	errs := checker.Check(root)
	//
	return checker, errs
}

// Analyse runs the full pipeline below parsing: mode checking followed, when
// no errors (warnings aside) were raised, by coercion insertion.  The
// returned tree is the annotated and coercion-wrapped form of the input, or
// the merely annotated form when checking failed.
func (p *Session) Analyse(root ast.Node) (ast.Node, []source.SyntaxError) {
	checker, errs := p.Check(root)
	//
	if source.CountErrors(errs) > 0 {
		return root, errs
	}
	//
	inserter := coerce.NewInserter(checker.Oracle())
	//
	return inserter.Insert(root), errs
}

// AnalyseFile parses and analyses a single source file.
func (p *Session) AnalyseFile(srcfile *source.File) (ast.Node, []source.SyntaxError) {
	tree, errs := p.Parse(srcfile)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return p.Analyse(tree)
}
