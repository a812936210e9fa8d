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
package parser

import (
	"github.com/consensys/algol68/pkg/util"
	"github.com/consensys/algol68/pkg/util/source"
)

// Token kinds produced by the lexer.
const (
	// WHITESPACE and COMMENT are filtered out before parsing.
	WHITESPACE uint = iota
	COMMENT
	// BOLD is an upper-case word: a reserved word, a mode indicant or a bold
	// operator.  The parser tells them apart by spelling.
	BOLD
	// IDENT is a lower-case identifier.
	IDENT
	// Denotations.
	REAL_LIT
	INT_LIT
	STRING_LIT
	// Symbols, longest spellings first.
	ISNT_SYMBOL    // :/=:
	IS_SYMBOL      // :=:
	PLUSAB_SYMBOL  // +:=
	MINUSAB_SYMBOL // -:=
	TIMESAB_SYMBOL // *:=
	DIVAB_SYMBOL   // /:=
	PLUSTO_SYMBOL  // +=:
	BECOMES_SYMBOL // :=
	POW_SYMBOL     // **
	LE_SYMBOL      // <=
	GE_SYMBOL      // >=
	NE_SYMBOL      // /=
	EQ_SYMBOL      // =
	LT_SYMBOL      // <
	GT_SYMBOL      // >
	PLUS_SYMBOL    // +
	MINUS_SYMBOL   // -
	TIMES_SYMBOL   // *
	DIV_SYMBOL     // /
	LPAREN         // (
	RPAREN         // )
	LBRACKET       // [
	RBRACKET       // ]
	COMMA          // ,
	SEMICOLON      // ;
	COLON          // :
	END_OF_FILE
)

// scanner recognising the token shapes above, one token at a time.
var scanner source.Scanner[rune] = source.Or(
	source.Many(WHITESPACE, ' ', '\t', '\n', '\r'),
	source.Fn(scanComment),
	source.Fn(scanString),
	source.Fn(scanNumber),
	source.ManyWith[rune](BOLD, 'A', 'Z'),
	source.Fn(scanIdentifier),
	source.Word(ISNT_SYMBOL, ':', '/', '=', ':'),
	source.Word(IS_SYMBOL, ':', '=', ':'),
	source.Word(PLUSAB_SYMBOL, '+', ':', '='),
	source.Word(MINUSAB_SYMBOL, '-', ':', '='),
	source.Word(TIMESAB_SYMBOL, '*', ':', '='),
	source.Word(DIVAB_SYMBOL, '/', ':', '='),
	source.Word(PLUSTO_SYMBOL, '+', '=', ':'),
	source.Word(BECOMES_SYMBOL, ':', '='),
	source.Word(POW_SYMBOL, '*', '*'),
	source.Word(LE_SYMBOL, '<', '='),
	source.Word(GE_SYMBOL, '>', '='),
	source.Word(NE_SYMBOL, '/', '='),
	source.One(EQ_SYMBOL, '='),
	source.One(LT_SYMBOL, '<'),
	source.One(GT_SYMBOL, '>'),
	source.One(PLUS_SYMBOL, '+'),
	source.One(MINUS_SYMBOL, '-'),
	source.One(TIMES_SYMBOL, '*'),
	source.One(DIV_SYMBOL, '/'),
	source.One(LPAREN, '('),
	source.One(RPAREN, ')'),
	source.One(LBRACKET, '['),
	source.One(RBRACKET, ']'),
	source.One(COMMA, ','),
	source.One(SEMICOLON, ';'),
	source.One(COLON, ':'),
	source.Eof[rune](END_OF_FILE),
)

// tokenise a whole source file, dropping whitespace and comments.  The
// trailing end-of-file marker is dropped too: the parser synthesises its own
// when the cursor runs off the end.
func tokenise(srcfile *source.File) []source.Token {
	lexer := source.NewLexer(srcfile.Contents(), scanner)
	//
	var tokens []source.Token
	//
	for _, t := range lexer.Collect() {
		if t.Kind != WHITESPACE && t.Kind != COMMENT && t.Kind != END_OF_FILE {
			tokens = append(tokens, t)
		}
	}
	//
	return tokens
}

// Comments run from one # to the next.
func scanComment(items []rune) util.Option[source.Token] {
	if len(items) == 0 || items[0] != '#' {
		return util.None[source.Token]()
	}
	//
	for i := 1; i < len(items); i++ {
		if items[i] == '#' {
			return util.Some(source.Token{Kind: COMMENT, Span: source.NewSpan(0, i+1)})
		}
	}
	// Unterminated comments swallow the rest of the file.
	return util.Some(source.Token{Kind: COMMENT, Span: source.NewSpan(0, len(items))})
}

// String denotations are doubly quoted, with "" denoting an embedded quote.
func scanString(items []rune) util.Option[source.Token] {
	if len(items) == 0 || items[0] != '"' {
		return util.None[source.Token]()
	}
	//
	for i := 1; i < len(items); i++ {
		if items[i] != '"' {
			continue
		} else if i+1 < len(items) && items[i+1] == '"' {
			i++
		} else {
			return util.Some(source.Token{Kind: STRING_LIT, Span: source.NewSpan(0, i+1)})
		}
	}
	//
	return util.None[source.Token]()
}

// Numbers are digit sequences, with an embedded point making them real.
func scanNumber(items []rune) util.Option[source.Token] {
	i := 0
	for i < len(items) && isDigit(items[i]) {
		i++
	}
	//
	if i == 0 {
		return util.None[source.Token]()
	}
	// Check for a fractional part.
	if i+1 < len(items) && items[i] == '.' && isDigit(items[i+1]) {
		for i++; i < len(items) && isDigit(items[i]); i++ {
		}
		//
		return util.Some(source.Token{Kind: REAL_LIT, Span: source.NewSpan(0, i)})
	}
	//
	return util.Some(source.Token{Kind: INT_LIT, Span: source.NewSpan(0, i)})
}

// Identifiers start with a lower-case letter, continuing with letters and
// digits.
func scanIdentifier(items []rune) util.Option[source.Token] {
	if len(items) == 0 || items[0] < 'a' || items[0] > 'z' {
		return util.None[source.Token]()
	}
	//
	i := 1
	for i < len(items) && (isDigit(items[i]) || (items[i] >= 'a' && items[i] <= 'z')) {
		i++
	}
	//
	return util.Some(source.Token{Kind: IDENT, Span: source.NewSpan(0, i)})
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
