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
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/consensys/algol68/pkg/util/source"
	"github.com/consensys/algol68/pkg/util/termio"
	"github.com/spf13/cobra"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read a source file, exiting with an error message when it cannot be read.
func readSourceFile(filename string) *source.File {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return source.NewFile(filename, bytes)
}

// Print a diagnostic with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	var label = termio.Paint(termio.TERM_RED, "error")
	//
	if err.IsWarning() {
		label = termio.Paint(termio.TERM_YELLOW, "warning")
	}
	// Unanchored diagnostics (e.g. on synthetic nodes) have no source file.
	if err.SourceFile() == nil {
		fmt.Printf("%s: %s\n", label, err.Message())
		return
	}
	//
	span := err.Span()
	line := err.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	// Calculate length (ensures don't overflow line)
	length := max(1, min(line.Length()-lineOffset, span.Length()))
	// Print error + line number
	fmt.Printf("%s:%d:%d-%d %s: %s\n", err.SourceFile().Filename(),
		line.Number(), 1+lineOffset, 1+lineOffset+length, label, err.Message())
	// Print line
	fmt.Println(line.String())
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", lineOffset))
	// Print highlight
	fmt.Println(strings.Repeat("^", highlightWidth(length)))
}

// highlightWidth clamps a highlight to the terminal, so a span covering a
// long line does not wrap the underlining.
func highlightWidth(length int) int {
	if width, err := termio.TerminalWidth(); err == nil && width > 0 {
		return min(length, width)
	}
	//
	return length
}
