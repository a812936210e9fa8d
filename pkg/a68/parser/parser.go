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

// Package parser turns source text into the syntax trees consumed by the
// mode checker.  It covers a practical subset of the language (declarations,
// declarers, formulas, conditional and case clauses, loops, displays, casts,
// calls, slices and selections), enough to drive the semantic passes from
// the command line and from end-to-end tests; it is not a conforming
// revised-report parser.
package parser

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/consensys/algol68/pkg/a68/ast"
	"github.com/consensys/algol68/pkg/a68/mode"
	"github.com/consensys/algol68/pkg/util/source"
)

// Parse a whole source file into its outermost serial clause, also returning
// the mapping from tree nodes back to source spans.
func Parse(srcfile *source.File, reg *mode.Registry) (*ast.SerialClause, *source.Map[ast.Node], []source.SyntaxError) {
	p := &Parser{
		srcfile: srcfile,
		tokens:  tokenise(srcfile),
		reg:     reg,
		modes:   make(map[string]*mode.Moid),
		monadic: maps.Clone(monadics),
		priors:  maps.Clone(priorities),
		srcmap:  source.NewMap[ast.Node](*srcfile),
	}
	//
	clause, err := p.parseSerial(map[string]bool{})
	//
	if err == nil && !p.done() {
		err = p.errorHere("unexpected %s", p.text(p.lookahead(0)))
	}
	//
	if err != nil {
		return nil, p.srcmap, []source.SyntaxError{*err}
	}
	//
	return clause, p.srcmap, nil
}

// Parser holds the token cursor and the mode indicants declared so far.
type Parser struct {
	srcfile *source.File
	tokens  []source.Token
	index   int
	reg     *mode.Registry
	// Declared mode indicants (MODE declarations seen so far).
	modes map[string]*mode.Moid
	// Monadic operator spellings, extended by OP declarations seen so far.
	monadic map[string]bool
	// Dyadic operator priorities, extended by PRIO declarations seen so far.
	priors map[string]int
	// Mapping of constructed nodes to their source spans.
	srcmap *source.Map[ast.Node]
}

// ============================================================================
// Token cursor
// ============================================================================

func (p *Parser) done() bool {
	return p.index >= len(p.tokens)
}

// lookahead returns the i'th upcoming token, or a synthetic end-of-file
// token beyond the last one.
func (p *Parser) lookahead(i int) source.Token {
	if p.index+i >= len(p.tokens) {
		end := len(p.srcfile.Contents())
		return source.Token{Kind: END_OF_FILE, Span: source.NewSpan(end, end)}
	}
	//
	return p.tokens[p.index+i]
}

func (p *Parser) advance() source.Token {
	t := p.lookahead(0)
	p.index++
	//
	return t
}

func (p *Parser) text(t source.Token) string {
	if t.Kind == END_OF_FILE {
		return "end of file"
	}
	//
	contents := p.srcfile.Contents()
	//
	return string(contents[t.Span.Start():t.Span.End()])
}

// at checks whether the next token has a given kind.
func (p *Parser) at(kind uint) bool {
	return p.lookahead(0).Kind == kind
}

// atBold checks whether the next token is a given bold word.
func (p *Parser) atBold(word string) bool {
	t := p.lookahead(0)
	return t.Kind == BOLD && p.text(t) == word
}

func (p *Parser) expect(kind uint, what string) (source.Token, *source.SyntaxError) {
	if !p.at(kind) {
		return source.Token{}, p.errorHere("expected %s, found %s", what, p.text(p.lookahead(0)))
	}
	//
	return p.advance(), nil
}

func (p *Parser) expectBold(word string) *source.SyntaxError {
	if !p.atBold(word) {
		return p.errorHere("expected %s, found %s", word, p.text(p.lookahead(0)))
	}
	//
	p.advance()
	//
	return nil
}

func (p *Parser) errorHere(msg string, args ...any) *source.SyntaxError {
	return p.srcfile.SyntaxError(p.lookahead(0).Span, fmt.Sprintf(msg, args...))
}

// mark remembers where a construct starts, so finish can map it to its span.
func (p *Parser) mark() int {
	t := p.lookahead(0)
	return t.Span.Start()
}

func (p *Parser) finish(n ast.Node, start int) ast.Node {
	end := start
	//
	if p.index > 0 && p.index <= len(p.tokens) {
		end = p.tokens[p.index-1].Span.End()
	}
	//
	p.srcmap.Put(n, source.NewSpan(start, end))
	//
	return n
}

// ============================================================================
// Clauses
// ============================================================================

// Bold words which terminate a serial clause without being part of it.
var closers = map[string]bool{
	"END": true, "FI": true, "ESAC": true, "OD": true,
	"THEN": true, "ELIF": true, "ELSE": true, "IN": true, "OUT": true,
	"DO": true,
}

// parseSerial parses units separated by semicolons, up to (not consuming) a
// closing bold word or end of file.  A unit followed by EXIT becomes a
// completer of the clause.
func (p *Parser) parseSerial(extra map[string]bool) (*ast.SerialClause, *source.SyntaxError) {
	start := p.mark()
	clause := &ast.SerialClause{}
	//
	for {
		unit, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		clause.Units = append(clause.Units, unit)
		// EXIT introduces a completer: the unit after it yields for the whole
		// clause.
		if p.atBold("EXIT") {
			p.advance()
			//
			exit, err := p.parseUnit()
			if err != nil {
				return nil, err
			}
			//
			clause.Exits = append(clause.Exits, exit)
		}
		//
		if p.at(SEMICOLON) {
			p.advance()
			continue
		}
		//
		break
	}
	//
	t := p.lookahead(0)
	if !p.done() && t.Kind != RPAREN && !(t.Kind == BOLD && (closers[p.text(t)] || extra[p.text(t)])) {
		return nil, p.errorHere("expected ; or a closing word, found %s", p.text(t))
	}
	//
	p.finish(clause, start)
	//
	return clause, nil
}

// ============================================================================
// Units and declarations
// ============================================================================

func (p *Parser) parseUnit() (ast.Node, *source.SyntaxError) {
	switch {
	case p.atBold("MODE"):
		return p.parseModeDeclaration()
	case p.atBold("OP"):
		return p.parseOperatorDeclaration()
	case p.atBold("PRIO"):
		return p.parsePrioDeclaration()
	case p.atBold("PROC") && p.lookahead(1).Kind == IDENT:
		return p.parseProcDeclaration()
	case p.atBold("ASSERT"):
		start := p.mark()
		p.advance()
		//
		cond, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.Assertion{Condition: cond}, start), nil
	}
	// A declarer followed by an identifier opens a declaration; anything
	// else (e.g. a cast) is left for the expression grammar.
	saved := p.index
	//
	if d, ok := p.tryDeclarer(); ok {
		if p.at(IDENT) {
			return p.parseDeclaration(d)
		}
		//
		p.index = saved
	}
	//
	return p.parseAssignation()
}

func (p *Parser) parseModeDeclaration() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	p.advance()
	//
	name, err := p.expect(BOLD, "a mode indicant")
	if err != nil {
		return nil, err
	}
	//
	if _, err := p.expect(EQ_SYMBOL, "="); err != nil {
		return nil, err
	}
	//
	target, ok := p.tryDeclarer()
	if !ok {
		return nil, p.errorHere("expected a declarer")
	}
	//
	p.modes[p.text(name)] = target
	//
	return p.finish(&ast.ModeDeclaration{Name: p.text(name), Target: target}, start), nil
}

func (p *Parser) parseOperatorDeclaration() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	p.advance()
	// An operator spelling is either a bold word or an operator symbol.
	symbol := p.advance()
	if symbol.Kind == END_OF_FILE {
		return nil, p.errorHere("expected an operator symbol")
	}
	//
	if _, err := p.expect(EQ_SYMBOL, "="); err != nil {
		return nil, err
	}
	//
	routine, err := p.parseRoutineText()
	if err != nil {
		return nil, err
	}
	// A freshly declared monadic spelling becomes usable from here on.  A
	// dyadic spelling needs a PRIO declaration before use, unless it is a
	// standard symbol whose priority is already known.
	if len(routine.Parameters) == 1 {
		p.monadic[p.text(symbol)] = true
	}
	//
	return p.finish(&ast.OperatorDeclaration{Symbol: p.text(symbol), Routine: routine}, start), nil
}

// parsePrioDeclaration handles PRIO symbol = digit, which fixes the priority
// of a dyadic operator spelling for the remainder of the program.
func (p *Parser) parsePrioDeclaration() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	p.advance()
	//
	symbol := p.advance()
	if symbol.Kind == END_OF_FILE {
		return nil, p.errorHere("expected an operator symbol")
	}
	//
	if _, err := p.expect(EQ_SYMBOL, "="); err != nil {
		return nil, err
	}
	//
	digit, err := p.expect(INT_LIT, "a priority between 1 and 9")
	if err != nil {
		return nil, err
	}
	//
	priority, err2 := strconv.Atoi(p.text(digit))
	if err2 != nil || priority < 1 || priority > 9 {
		return nil, p.srcfile.SyntaxError(digit.Span, "a priority must lie between 1 and 9")
	}
	//
	p.priors[p.text(symbol)] = priority
	//
	decl := &ast.PriorityDeclaration{Symbol: p.text(symbol), Priority: priority}
	//
	return p.finish(decl, start), nil
}

func (p *Parser) parseProcDeclaration() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	p.advance()
	//
	name, err := p.expect(IDENT, "an identifier")
	if err != nil {
		return nil, err
	}
	//
	if _, err := p.expect(EQ_SYMBOL, "="); err != nil {
		return nil, err
	}
	//
	routine, err := p.parseRoutineText()
	if err != nil {
		return nil, err
	}
	//
	params := make(mode.Pack, len(routine.Parameters))
	for i, param := range routine.Parameters {
		params[i] = mode.Member{Mode: param.Mode, Tag: param.Name}
	}
	//
	declarer := p.reg.ProcOf(params, routine.Result)
	decl := &ast.IdentityDeclaration{Name: p.text(name), Declarer: declarer, Source: routine}
	//
	return p.finish(decl, start), nil
}

// parseDeclaration handles identity (=) and variable (:= or uninitialised)
// declarations, after their declarer has been consumed.
func (p *Parser) parseDeclaration(declarer *mode.Moid) (ast.Node, *source.SyntaxError) {
	start := p.mark()
	name, _ := p.expect(IDENT, "an identifier")
	//
	switch {
	case p.at(EQ_SYMBOL):
		p.advance()
		//
		src, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.IdentityDeclaration{Name: p.text(name), Declarer: declarer, Source: src}, start), nil
	case p.at(BECOMES_SYMBOL):
		p.advance()
		//
		src, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.VariableDeclaration{Name: p.text(name), Declarer: declarer, Source: src}, start), nil
	default:
		return p.finish(&ast.VariableDeclaration{Name: p.text(name), Declarer: declarer}, start), nil
	}
}

// parseRoutineText parses (parameters) result : unit.
func (p *Parser) parseRoutineText() (*ast.RoutineText, *source.SyntaxError) {
	start := p.mark()
	routine := &ast.RoutineText{}
	//
	if p.at(LPAREN) {
		p.advance()
		//
		for {
			d, ok := p.tryDeclarer()
			if !ok {
				return nil, p.errorHere("expected a parameter declarer")
			}
			//
			name, err := p.expect(IDENT, "a parameter name")
			if err != nil {
				return nil, err
			}
			//
			routine.Parameters = append(routine.Parameters, ast.Parameter{Name: p.text(name), Mode: d})
			//
			if p.at(COMMA) {
				p.advance()
				continue
			}
			//
			break
		}
		//
		if _, err := p.expect(RPAREN, ")"); err != nil {
			return nil, err
		}
	}
	//
	result, ok := p.tryDeclarer()
	if !ok {
		return nil, p.errorHere("expected a result declarer")
	}
	//
	routine.Result = result
	//
	if _, err := p.expect(COLON, ":"); err != nil {
		return nil, err
	}
	//
	body, err := p.parseUnit()
	if err != nil {
		return nil, err
	}
	//
	routine.Body = body
	p.finish(routine, start)
	//
	return routine, nil
}

// ============================================================================
// Expressions
// ============================================================================

func (p *Parser) parseAssignation() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	//
	lhs, err := p.parseFormula(1)
	if err != nil {
		return nil, err
	}
	//
	switch {
	case p.at(BECOMES_SYMBOL):
		p.advance()
		//
		rhs, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.Assignation{Destination: lhs, Source: rhs}, start), nil
	case p.at(IS_SYMBOL), p.at(ISNT_SYMBOL):
		negated := p.advance().Kind == ISNT_SYMBOL
		//
		rhs, err := p.parseFormula(1)
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.IdentityRelation{Negated: negated, Lhs: lhs, Rhs: rhs}, start), nil
	}
	//
	return lhs, nil
}

// Dyadic operator priorities, in lieu of PRIO declarations.
var priorities = map[string]int{
	"+:=": 1, "-:=": 1, "*:=": 1, "/:=": 1, "+=:": 1,
	"OR": 2,
	"AND": 3,
	"=": 4, "/=": 4,
	"<": 5, "<=": 5, ">": 5, ">=": 5,
	"+": 6, "-": 6,
	"*": 7, "/": 7, "OVER": 7, "MOD": 7, "ELEM": 7,
	"**": 8, "I": 8,
}

// dyadic returns the priority of the upcoming token as a dyadic operator, or
// zero when it is none.
func (p *Parser) dyadic() (string, int) {
	t := p.lookahead(0)
	//
	switch t.Kind {
	case BOLD, PLUS_SYMBOL, MINUS_SYMBOL, TIMES_SYMBOL, DIV_SYMBOL, POW_SYMBOL,
		EQ_SYMBOL, NE_SYMBOL, LT_SYMBOL, LE_SYMBOL, GT_SYMBOL, GE_SYMBOL,
		PLUSAB_SYMBOL, MINUSAB_SYMBOL, TIMESAB_SYMBOL, DIVAB_SYMBOL, PLUSTO_SYMBOL:
		symbol := p.text(t)
		return symbol, p.priors[symbol]
	}
	//
	return "", 0
}

// parseFormula implements priority climbing over dyadic formulas.
func (p *Parser) parseFormula(min int) (ast.Node, *source.SyntaxError) {
	start := p.mark()
	//
	lhs, err := p.parseSecondary()
	if err != nil {
		return nil, err
	}
	//
	for {
		symbol, prio := p.dyadic()
		if prio < min {
			break
		}
		//
		p.advance()
		//
		rhs, err := p.parseFormula(prio + 1)
		if err != nil {
			return nil, err
		}
		//
		lhs = p.finish(&ast.Formula{Symbol: symbol, Lhs: lhs, Rhs: rhs}, start)
	}
	//
	return lhs, nil
}

// Bold words acting as monadic operators.
var monadics = map[string]bool{
	"NOT": true, "ABS": true, "SIGN": true, "ODD": true,
	"ENTIER": true, "ROUND": true, "RE": true, "IM": true, "REPR": true,
	"LENG": true, "SHORTEN": true, "UPB": true, "LWB": true,
}

func (p *Parser) parseSecondary() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	t := p.lookahead(0)
	// Monadic formulas.
	if t.Kind == PLUS_SYMBOL || t.Kind == MINUS_SYMBOL || (t.Kind == BOLD && p.monadic[p.text(t)]) {
		symbol := p.text(p.advance())
		//
		operand, err := p.parseSecondary()
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.Formula{Symbol: symbol, Lhs: operand}, start), nil
	}
	// Selections.
	if t.Kind == IDENT && p.lookahead(1).Kind == BOLD && p.text(p.lookahead(1)) == "OF" {
		field := p.text(p.advance())
		p.advance() // OF
		//
		src, err := p.parseSecondary()
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.Selection{Field: field, Source: src}, start), nil
	}
	//
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	//
	base, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	// Postfix suffixes: calls and slices.
	for {
		switch {
		case p.at(LPAREN):
			p.advance()
			//
			args, err := p.parseUnitList(RPAREN)
			if err != nil {
				return nil, err
			}
			//
			base = p.finish(&ast.Call{Callee: base, Arguments: args}, start)
		case p.at(LBRACKET):
			p.advance()
			//
			indexers, err := p.parseIndexers()
			if err != nil {
				return nil, err
			}
			//
			base = p.finish(&ast.Slice{Source: base, Indexers: indexers}, start)
		default:
			return base, nil
		}
	}
}

func (p *Parser) parseUnitList(close uint) ([]ast.Node, *source.SyntaxError) {
	var units []ast.Node
	//
	for {
		unit, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		units = append(units, unit)
		//
		if p.at(COMMA) {
			p.advance()
			continue
		}
		//
		break
	}
	//
	if _, err := p.expect(close, "a closing bracket"); err != nil {
		return nil, err
	}
	//
	return units, nil
}

func (p *Parser) parseIndexers() ([]ast.Indexer, *source.SyntaxError) {
	var indexers []ast.Indexer
	//
	for {
		var ix ast.Indexer
		// Either subscript, or [lower] : [upper].
		if !p.at(COLON) {
			unit, err := p.parseUnit()
			if err != nil {
				return nil, err
			}
			//
			if p.at(COLON) {
				ix.Lower = unit
			} else {
				ix.Subscript = unit
			}
		}
		//
		if ix.Subscript == nil {
			if _, err := p.expect(COLON, ":"); err != nil {
				return nil, err
			}
			//
			if !p.at(COMMA) && !p.at(RBRACKET) {
				upper, err := p.parseUnit()
				if err != nil {
					return nil, err
				}
				//
				ix.Upper = upper
			}
		}
		//
		indexers = append(indexers, ix)
		//
		if p.at(COMMA) {
			p.advance()
			continue
		}
		//
		break
	}
	//
	if _, err := p.expect(RBRACKET, "]"); err != nil {
		return nil, err
	}
	//
	return indexers, nil
}

// parseBase handles denotations, identifiers, generators, enclosed clauses,
// displays, casts and routine texts.
func (p *Parser) parseBase() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	std := p.reg.Standard()
	t := p.lookahead(0)
	//
	switch t.Kind {
	case INT_LIT:
		return p.denotation(std.Int, start), nil
	case REAL_LIT:
		return p.denotation(std.Real, start), nil
	case STRING_LIT:
		d := &ast.Denotation{Text: unquote(p.text(p.advance()))}
		d.SetMode(std.String)
		//
		return p.finish(d, start), nil
	case IDENT:
		name := p.text(p.advance())
		return p.finish(&ast.Identifier{Name: name}, start), nil
	case LPAREN:
		return p.parseParenthesised()
	case BOLD:
		// Handled below.
	default:
		return nil, p.errorHere("unexpected %s", p.text(t))
	}
	//
	switch p.text(t) {
	case "TRUE", "FALSE":
		return p.denotation(std.Bool, start), nil
	case "NIL":
		p.advance()
		return p.finish(&ast.Nihil{}, start), nil
	case "SKIP":
		p.advance()
		return p.finish(&ast.Skip{}, start), nil
	case "GOTO":
		p.advance()
		//
		label, err := p.expect(IDENT, "a label")
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.Jump{Label: p.text(label)}, start), nil
	case "LOC", "HEAP":
		heap := p.text(p.advance()) == "HEAP"
		//
		declarer, ok := p.tryDeclarer()
		if !ok {
			return nil, p.errorHere("expected a declarer after a generator")
		}
		//
		return p.finish(&ast.Generator{Heap: heap, Declarer: declarer}, start), nil
	case "BEGIN":
		p.advance()
		//
		body, err := p.parseSerial(nil)
		if err != nil {
			return nil, err
		}
		//
		if err := p.expectBold("END"); err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.ClosedClause{Body: body}, start), nil
	case "IF":
		return p.parseConditional()
	case "CASE":
		return p.parseCase()
	case "FOR", "FROM", "BY", "TO", "WHILE", "DO":
		return p.parseLoop()
	}
	// Either a cast (declarer followed by an enclosed clause), or nothing.
	if declarer, ok := p.tryDeclarer(); ok {
		if !p.at(LPAREN) {
			return nil, p.errorHere("expected an enclosed clause after a cast declarer")
		}
		//
		enclosed, err := p.parseParenthesised()
		if err != nil {
			return nil, err
		}
		//
		return p.finish(&ast.Cast{Declarer: declarer, Enclosed: enclosed}, start), nil
	}
	// An unreserved bold word at this position was meant as a mode indicant;
	// the declarer path names it in its diagnostic.
	if t.Kind == BOLD && !closers[p.text(t)] && p.text(t) != "EXIT" {
		if _, err := p.parseDeclarer(); err != nil {
			return nil, err
		}
	}
	//
	return nil, p.errorHere("unexpected %s", p.text(t))
}

func (p *Parser) denotation(m *mode.Moid, start int) ast.Node {
	d := &ast.Denotation{Text: p.text(p.advance())}
	d.SetMode(m)
	//
	return p.finish(d, start)
}

// parseParenthesised resolves the ambiguity behind an opening parenthesis: a
// routine text, a collateral display (two or more units separated by commas)
// or a closed clause.
func (p *Parser) parseParenthesised() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	// Routine texts are recognised by attempting to parse one.
	if routine, ok := p.tryRoutineText(); ok {
		return routine, nil
	}
	//
	p.advance() // (
	//
	unit, err := p.parseUnit()
	if err != nil {
		return nil, err
	}
	//
	if p.at(COMMA) {
		display := &ast.Display{Elements: []ast.Node{unit}}
		//
		for p.at(COMMA) {
			p.advance()
			//
			next, err := p.parseUnit()
			if err != nil {
				return nil, err
			}
			//
			display.Elements = append(display.Elements, next)
		}
		//
		if _, err := p.expect(RPAREN, ")"); err != nil {
			return nil, err
		}
		//
		return p.finish(display, start), nil
	}
	// A closed clause: keep parsing serially.
	clause := &ast.SerialClause{Units: []ast.Node{unit}}
	//
	for p.at(SEMICOLON) {
		p.advance()
		//
		next, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		if p.atBold("EXIT") {
			p.advance()
			clause.Exits = append(clause.Exits, next)
		} else {
			clause.Units = append(clause.Units, next)
		}
	}
	//
	if _, err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}
	//
	p.finish(clause, start)
	//
	return p.finish(&ast.ClosedClause{Body: clause}, start), nil
}

// tryRoutineText attempts to parse a routine text, rewinding on failure.
func (p *Parser) tryRoutineText() (*ast.RoutineText, bool) {
	saved := p.index
	//
	routine, err := p.parseRoutineText()
	if err != nil {
		p.index = saved
		return nil, false
	}
	//
	return routine, true
}

func (p *Parser) parseConditional() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	p.advance() // IF or ELIF
	//
	condition, err := p.parseSerial(nil)
	if err != nil {
		return nil, err
	}
	//
	if err := p.expectBold("THEN"); err != nil {
		return nil, err
	}
	//
	then, err := p.parseSerial(nil)
	if err != nil {
		return nil, err
	}
	//
	clause := &ast.ConditionalClause{Condition: condition, Then: then}
	//
	switch {
	case p.atBold("ELIF"):
		// An ELIF chain nests as the else part.
		nested, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		//
		clause.Else = nested
		return p.finish(clause, start), nil
	case p.atBold("ELSE"):
		p.advance()
		//
		alt, err := p.parseSerial(nil)
		if err != nil {
			return nil, err
		}
		//
		clause.Else = alt
	}
	//
	if err := p.expectBold("FI"); err != nil {
		return nil, err
	}
	//
	return p.finish(clause, start), nil
}

// parseCase handles both integral case clauses and united (conformity) case
// clauses; the two are told apart by the shape of the first leg.
func (p *Parser) parseCase() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	p.advance() // CASE
	//
	selector, err := p.parseSerial(nil)
	if err != nil {
		return nil, err
	}
	//
	if err := p.expectBold("IN"); err != nil {
		return nil, err
	}
	// A united leg opens with (declarer identifier):.
	if leg, ok := p.tryUnitedLeg(); ok {
		return p.parseUnitedCase(selector, leg, start)
	}
	//
	clause := &ast.IntegerCase{Selector: selector}
	//
	for {
		leg, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		clause.Legs = append(clause.Legs, leg)
		//
		if p.at(COMMA) {
			p.advance()
			continue
		}
		//
		break
	}
	//
	if out, err := p.parseOutPart(); err != nil {
		return nil, err
	} else {
		clause.Out = out
	}
	//
	if err := p.expectBold("ESAC"); err != nil {
		return nil, err
	}
	//
	return p.finish(clause, start), nil
}

func (p *Parser) parseUnitedCase(selector *ast.SerialClause, first *ast.UnitedLeg, start int) (ast.Node, *source.SyntaxError) {
	clause := &ast.UnitedCase{Selector: selector, Legs: []*ast.UnitedLeg{first}}
	//
	for p.at(COMMA) {
		p.advance()
		//
		leg, ok := p.tryUnitedLeg()
		if !ok {
			return nil, p.errorHere("expected a specifier leg")
		}
		//
		clause.Legs = append(clause.Legs, leg)
	}
	//
	if out, err := p.parseOutPart(); err != nil {
		return nil, err
	} else {
		clause.Out = out
	}
	//
	if err := p.expectBold("ESAC"); err != nil {
		return nil, err
	}
	//
	return p.finish(clause, start), nil
}

func (p *Parser) parseOutPart() (ast.Node, *source.SyntaxError) {
	if !p.atBold("OUT") {
		return nil, nil
	}
	//
	p.advance()
	//
	return p.parseUnit()
}

// tryUnitedLeg attempts (declarer [identifier]) : unit, rewinding when the
// opening does not fit.
func (p *Parser) tryUnitedLeg() (*ast.UnitedLeg, bool) {
	saved := p.index
	start := p.mark()
	//
	if !p.at(LPAREN) {
		return nil, false
	}
	//
	p.advance()
	//
	specifier, ok := p.tryDeclarer()
	if !ok {
		p.index = saved
		return nil, false
	}
	//
	leg := &ast.UnitedLeg{Specifier: specifier}
	//
	if p.at(IDENT) {
		leg.Binding = p.text(p.advance())
	}
	//
	if !p.at(RPAREN) || p.lookahead(1).Kind != COLON {
		p.index = saved
		return nil, false
	}
	//
	p.advance() // )
	p.advance() // :
	//
	body, err := p.parseUnit()
	if err != nil {
		p.index = saved
		return nil, false
	}
	//
	leg.Body = body
	p.finish(leg, start)
	//
	return leg, true
}

func (p *Parser) parseLoop() (ast.Node, *source.SyntaxError) {
	start := p.mark()
	loop := &ast.Loop{}
	//
	if p.atBold("FOR") {
		p.advance()
		//
		counter, err := p.expect(IDENT, "a loop counter")
		if err != nil {
			return nil, err
		}
		//
		loop.Counter = p.text(counter)
	}
	//
	for _, part := range []struct {
		word string
		slot *ast.Node
	}{{"FROM", &loop.From}, {"BY", &loop.By}, {"TO", &loop.To}} {
		if p.atBold(part.word) {
			p.advance()
			//
			unit, err := p.parseUnit()
			if err != nil {
				return nil, err
			}
			//
			*part.slot = unit
		}
	}
	//
	if p.atBold("WHILE") {
		p.advance()
		//
		while, err := p.parseSerial(nil)
		if err != nil {
			return nil, err
		}
		//
		loop.While = while
	}
	//
	if err := p.expectBold("DO"); err != nil {
		return nil, err
	}
	//
	body, err := p.parseSerial(nil)
	if err != nil {
		return nil, err
	}
	//
	loop.Body = body
	//
	if err := p.expectBold("OD"); err != nil {
		return nil, err
	}
	//
	return p.finish(loop, start), nil
}

// ============================================================================
// Declarers
// ============================================================================

// Bold words which can open a declarer.
var declarerOpeners = map[string]bool{
	"INT": true, "REAL": true, "BOOL": true, "CHAR": true, "STRING": true,
	"BITS": true, "BYTES": true, "COMPL": true, "VOID": true, "FORMAT": true,
	"LONG": true, "SHORT": true, "REF": true, "FLEX": true,
	"STRUCT": true, "UNION": true, "PROC": true,
}

// tryDeclarer attempts to parse a declarer, rewinding and reporting false
// when the upcoming tokens do not form one.
func (p *Parser) tryDeclarer() (*mode.Moid, bool) {
	saved := p.index
	//
	d, err := p.parseDeclarer()
	if err != nil {
		p.index = saved
		return nil, false
	}
	//
	return d, true
}

func (p *Parser) parseDeclarer() (*mode.Moid, *source.SyntaxError) {
	std := p.reg.Standard()
	t := p.lookahead(0)
	//
	if t.Kind == LBRACKET {
		return p.parseRowDeclarer(false)
	} else if t.Kind != BOLD {
		return nil, p.errorHere("expected a declarer")
	}
	//
	switch p.text(t) {
	case "LONG", "SHORT":
		return p.parseSizedDeclarer()
	case "INT":
		p.advance()
		return std.Int, nil
	case "REAL":
		p.advance()
		return std.Real, nil
	case "BOOL":
		p.advance()
		return std.Bool, nil
	case "CHAR":
		p.advance()
		return std.Char, nil
	case "STRING":
		p.advance()
		return std.String, nil
	case "BITS":
		p.advance()
		return std.Bits, nil
	case "BYTES":
		p.advance()
		return std.Bytes, nil
	case "COMPL":
		p.advance()
		return std.Compl, nil
	case "VOID":
		p.advance()
		return std.Void, nil
	case "FORMAT":
		p.advance()
		return std.Format, nil
	case "REF":
		p.advance()
		//
		target, err := p.parseDeclarer()
		if err != nil {
			return nil, err
		}
		//
		return p.reg.Ref(target), nil
	case "FLEX":
		p.advance()
		return p.parseRowDeclarer(true)
	case "STRUCT":
		return p.parseStructDeclarer()
	case "UNION":
		return p.parseUnionDeclarer()
	case "PROC":
		return p.parseProcDeclarer()
	default:
		// A declared mode indicant.
		if m, ok := p.modes[p.text(t)]; ok {
			p.advance()
			return m, nil
		}
		//
		return nil, p.errorHere("unknown mode indicant %s", p.text(t))
	}
}

// parseSizedDeclarer handles LONG and SHORT prefixes of the multi-precision
// primitives.
func (p *Parser) parseSizedDeclarer() (*mode.Moid, *source.SyntaxError) {
	size := 0
	//
	for p.atBold("LONG") || p.atBold("SHORT") {
		if p.text(p.advance()) == "LONG" {
			size++
		} else {
			size--
		}
	}
	//
	t := p.lookahead(0)
	if t.Kind != BOLD {
		return nil, p.errorHere("expected a primitive declarer")
	}
	//
	switch p.text(t) {
	case "INT", "REAL", "BITS", "BYTES", "COMPL":
		symbol := p.text(p.advance())
		return p.reg.Primitive(symbol, size), nil
	default:
		return nil, p.errorHere("%s cannot be sized", p.text(t))
	}
}

// parseRowDeclarer consumes [bounds] element, determining the number of
// dimensions from the commas between the brackets.  Bound expressions do not
// contribute to the mode, so they are skipped over.
func (p *Parser) parseRowDeclarer(flexible bool) (*mode.Moid, *source.SyntaxError) {
	if _, err := p.expect(LBRACKET, "["); err != nil {
		return nil, err
	}
	//
	dims := 1
	depth := 0
	//
	for {
		t := p.lookahead(0)
		//
		switch t.Kind {
		case END_OF_FILE:
			return nil, p.errorHere("unclosed bounds")
		case LBRACKET, LPAREN:
			depth++
		case RBRACKET:
			if depth == 0 {
				p.advance()
				//
				element, err := p.parseDeclarer()
				if err != nil {
					return nil, err
				}
				//
				row := p.reg.RowOf(dims, element)
				if flexible {
					row = p.reg.Flex(row)
				}
				//
				return row, nil
			}
			//
			depth--
		case RPAREN:
			depth--
		case COMMA:
			if depth == 0 {
				dims++
			}
		}
		//
		p.advance()
	}
}

func (p *Parser) parseStructDeclarer() (*mode.Moid, *source.SyntaxError) {
	p.advance() // STRUCT
	//
	if _, err := p.expect(LPAREN, "("); err != nil {
		return nil, err
	}
	//
	var fields mode.Pack
	//
	for {
		d, err := p.parseDeclarer()
		if err != nil {
			return nil, err
		}
		//
		name, err2 := p.expect(IDENT, "a field name")
		if err2 != nil {
			return nil, err2
		}
		//
		fields = append(fields, mode.Member{Mode: d, Tag: p.text(name)})
		//
		if p.at(COMMA) {
			p.advance()
			continue
		}
		//
		break
	}
	//
	if _, err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}
	//
	return p.reg.StructOf(fields), nil
}

func (p *Parser) parseUnionDeclarer() (*mode.Moid, *source.SyntaxError) {
	p.advance() // UNION
	//
	if _, err := p.expect(LPAREN, "("); err != nil {
		return nil, err
	}
	//
	var members []*mode.Moid
	//
	for {
		d, err := p.parseDeclarer()
		if err != nil {
			return nil, err
		}
		//
		members = append(members, d)
		//
		if p.at(COMMA) {
			p.advance()
			continue
		}
		//
		break
	}
	//
	if _, err := p.expect(RPAREN, ")"); err != nil {
		return nil, err
	}
	//
	return p.reg.UnionOf(members...), nil
}

func (p *Parser) parseProcDeclarer() (*mode.Moid, *source.SyntaxError) {
	p.advance() // PROC
	//
	var params mode.Pack
	//
	if p.at(LPAREN) {
		p.advance()
		//
		for {
			d, err := p.parseDeclarer()
			if err != nil {
				return nil, err
			}
			//
			params = append(params, mode.Member{Mode: d})
			//
			if p.at(COMMA) {
				p.advance()
				continue
			}
			//
			break
		}
		//
		if _, err := p.expect(RPAREN, ")"); err != nil {
			return nil, err
		}
	}
	//
	result, err := p.parseDeclarer()
	if err != nil {
		return nil, err
	}
	//
	return p.reg.ProcOf(params, result), nil
}

// unquote strips the quotes of a string denotation, collapsing doubled
// quotes.
func unquote(text string) string {
	text = strings.TrimPrefix(text, "\"")
	text = strings.TrimSuffix(text, "\"")
	//
	return strings.ReplaceAll(text, "\"\"", "\"")
}
