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

// Package termio provides the small amount of terminal awareness needed for
// printing diagnostics: width detection (so highlights do not wrap) and ANSI
// colouring (degrading to plain text when output is not a terminal).
package termio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_BLUE represents blue
const TERM_BLUE = uint(4)

// TERM_MAGENTA represents magenta
const TERM_MAGENTA = uint(5)

// TERM_CYAN represents cyan
const TERM_CYAN = uint(6)

// TerminalWidth returns the width (in columns) of the terminal attached to
// standard output, or an error when output is not a terminal.
func TerminalWidth() (int, error) {
	fd := int(os.Stdout.Fd())
	//
	if !term.IsTerminal(fd) {
		return 0, errors.New("not a terminal")
	}
	//
	width, _, err := term.GetSize(fd)
	//
	return width, err
}

// Paint wraps a piece of text in the escapes for a given foreground colour,
// provided standard output is a terminal; otherwise the text is returned
// unchanged.
func Paint(colour uint, text string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	//
	return fmt.Sprintf("\033[%dm%s\033[0m", 30+colour, text)
}

// Bold wraps a piece of text in the escapes for bold rendering, under the
// same terminal proviso as Paint.
func Bold(text string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	//
	return fmt.Sprintf("\033[1m%s\033[0m", text)
}
