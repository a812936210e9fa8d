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

	"github.com/consensys/algol68/pkg/a68"
	"github.com/consensys/algol68/pkg/a68/ast"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// modesCmd represents the modes command
var modesCmd = &cobra.Command{
	Use:   "modes [flags] source_file",
	Short: "Print the mode-annotated tree of an Algol 68 program.",
	Long: `Print the mode-annotated tree of an Algol 68 program.
	The program is parsed, checked and coercion inserted; the resulting
	tree is dumped with the mode of every construct, including the
	coercions inserted between each construct and its context.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		session := a68.NewSession()
		srcfile := readSourceFile(args[0])
		//
		tree, errs := session.Parse(srcfile)
		if len(errs) == 0 {
			var annotated ast.Node
			annotated, errs = session.Analyse(tree)
			dumpNode(annotated, 0)
		}
		//
		for i := range errs {
			printSyntaxError(&errs[i])
		}
	},
}

// dumpNode prints one construct with its mode, then its descendants at the
// next indentation level.
func dumpNode(n ast.Node, depth int) {
	if n == nil {
		return
	}
	//
	text, children := describe(n)
	//
	fmt.Printf("%s%s :: %s\n", strings.Repeat("  ", depth), text, n.Mode())
	//
	for _, child := range children {
		dumpNode(child, depth+1)
	}
}

// describe gives a one-line rendering of a construct, along with its
// immediate descendants.
//
//nolint:gocyclo
func describe(n ast.Node) (string, []ast.Node) {
	switch v := n.(type) {
	case *ast.Coercion:
		return v.Kind.String(), []ast.Node{v.Arg}
	case *ast.Identifier:
		return fmt.Sprintf("identifier %s", v.Name), nil
	case *ast.Denotation:
		return fmt.Sprintf("denotation %s", v.Text), nil
	case *ast.Nihil:
		return "nihil", nil
	case *ast.Skip:
		return "skip", nil
	case *ast.Jump:
		return fmt.Sprintf("jump %s", v.Label), nil
	case *ast.Generator:
		if v.Heap {
			return "heap generator", nil
		}
		//
		return "local generator", nil
	case *ast.Assignation:
		return "assignation", []ast.Node{v.Destination, v.Source}
	case *ast.IdentityRelation:
		return "identity relation", []ast.Node{v.Lhs, v.Rhs}
	case *ast.Cast:
		return fmt.Sprintf("cast %s", v.Declarer), []ast.Node{v.Enclosed}
	case *ast.Formula:
		return fmt.Sprintf("formula %s", v.Symbol), formulaOperands(v)
	case *ast.Call:
		return "call", append([]ast.Node{v.Callee}, v.Arguments...)
	case *ast.Slice:
		return "slice", sliceParts(v)
	case *ast.Selection:
		return fmt.Sprintf("selection %s", v.Field), []ast.Node{v.Source}
	case *ast.Display:
		return "display", v.Elements
	case *ast.RoutineText:
		return "routine text", []ast.Node{v.Body}
	case *ast.Assertion:
		return "assertion", []ast.Node{v.Condition}
	case *ast.SerialClause:
		return "serial clause", append(append([]ast.Node{}, v.Units...), v.Exits...)
	case *ast.ClosedClause:
		return "closed clause", []ast.Node{v.Body}
	case *ast.ConditionalClause:
		children := []ast.Node{v.Condition, v.Then}
		if v.Else != nil {
			children = append(children, v.Else)
		}
		//
		return "conditional clause", children
	case *ast.IntegerCase:
		children := append([]ast.Node{v.Selector}, v.Legs...)
		if v.Out != nil {
			children = append(children, v.Out)
		}
		//
		return "integer case clause", children
	case *ast.UnitedCase:
		children := []ast.Node{v.Selector}
		for _, leg := range v.Legs {
			children = append(children, leg.Body)
		}
		//
		if v.Out != nil {
			children = append(children, v.Out)
		}
		//
		return "united case clause", children
	case *ast.Loop:
		return "loop clause", loopParts(v)
	case *ast.IdentityDeclaration:
		return fmt.Sprintf("identity declaration %s", v.Name), []ast.Node{v.Source}
	case *ast.VariableDeclaration:
		if v.Source != nil {
			return fmt.Sprintf("variable declaration %s", v.Name), []ast.Node{v.Source}
		}
		//
		return fmt.Sprintf("variable declaration %s", v.Name), nil
	case *ast.ModeDeclaration:
		return fmt.Sprintf("mode declaration %s = %s", v.Name, v.Target), nil
	case *ast.OperatorDeclaration:
		return fmt.Sprintf("operator declaration %s", v.Symbol), []ast.Node{v.Routine}
	case *ast.PriorityDeclaration:
		return fmt.Sprintf("priority declaration %s = %d", v.Symbol, v.Priority), nil
	default:
		return fmt.Sprintf("%T", n), nil
	}
}

func formulaOperands(v *ast.Formula) []ast.Node {
	if v.Rhs != nil {
		return []ast.Node{v.Lhs, v.Rhs}
	}
	//
	return []ast.Node{v.Lhs}
}

func sliceParts(v *ast.Slice) []ast.Node {
	parts := []ast.Node{v.Source}
	//
	for _, ix := range v.Indexers {
		for _, part := range []ast.Node{ix.Subscript, ix.Lower, ix.Upper} {
			if part != nil {
				parts = append(parts, part)
			}
		}
	}
	//
	return parts
}

func loopParts(v *ast.Loop) []ast.Node {
	var parts []ast.Node
	//
	for _, part := range []ast.Node{v.From, v.By, v.To} {
		if part != nil {
			parts = append(parts, part)
		}
	}
	//
	if v.While != nil {
		parts = append(parts, v.While)
	}
	//
	return append(parts, v.Body)
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
