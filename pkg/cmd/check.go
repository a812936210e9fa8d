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

	"github.com/consensys/algol68/pkg/a68"
	"github.com/consensys/algol68/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] source_file...",
	Short: "Check the modes of one or more Algol 68 programs.",
	Long: `Check the modes of one or more Algol 68 programs.
	Each file is parsed, mode checked and (when clean) coercion
	inserted; all diagnostics are reported against the source text.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		strict := getFlag(cmd, "strict")
		failed := false
		// Each file is an independent program with its own session.
		for _, filename := range args {
			errs := checkSourceFile(filename)
			//
			for i := range errs {
				printSyntaxError(&errs[i])
			}
			//
			count := source.CountErrors(errs)
			if strict {
				count = uint(len(errs))
			}
			//
			failed = failed || count > 0
		}
		//
		if failed {
			os.Exit(4)
		}
	},
}

// checkSourceFile runs the full analysis pipeline over a single file,
// returning every diagnostic raised.
func checkSourceFile(filename string) []source.SyntaxError {
	session := a68.NewSession()
	srcfile := readSourceFile(filename)
	//
	tree, errs := session.Parse(srcfile)
	if len(errs) > 0 {
		return errs
	}
	//
	log.Debugf("parsed %s (%d modes interned)", filename, session.Registry().Count())
	//
	_, errs = session.Analyse(tree)
	//
	log.Debugf("checked %s: %d errors, %d warnings", filename,
		source.CountErrors(errs), uint(len(errs))-source.CountErrors(errs))
	//
	return errs
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("strict", false, "treat warnings as errors")
}
