// Copyright Apotell Inc.
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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/session"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Preprocess, parse, compile, resolve, elaborate, and check the given SystemVerilog sources.",
	Long:  "compile runs the full front-end pipeline over the given files and reports any diagnostics raised along the way.",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCompile,
}

func init() {
	compileCmd.Flags().Bool("elaborate", false, "print the elaborated instance tree after a clean compile")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) {
	opts := session.CommandLineOptions{
		Files:                  args,
		IncludePaths:           GetStringArray(cmd, "include"),
		Defines:                parseDefines(GetStringArray(cmd, "define")),
		Library:                GetString(cmd, "library"),
		WorkerCount:            GetInt(cmd, "workers"),
		Verbose:                GetFlag(cmd, "verbose"),
		ComplainUndefinedMacro: GetFlag(cmd, "strict-macros"),
		MaxExpansionDepth:      GetInt(cmd, "max-expansion-depth"),
	}

	symbols := symtab.New()
	fs := session.NewOSFileSystem(symbols)
	s := session.New(symbols, fs, opts)

	h, err := s.StartCompiler()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	s.Errors.PrintAll(os.Stdout, false)

	if s.Errors.HasErrors() {
		os.Exit(1)
	}

	if GetFlag(cmd, "elaborate") {
		printTree(s, h)
	}

	log.Debug("compile finished cleanly")
}

// printTree renders an elaborated instance forest as indented instance
// names, exercising Walk the way a diagnostic `--elaborate` dump would.
func printTree(s *session.Session, h *session.CompilerHandle) {
	symbols := s.Symbols
	depth := 0

	s.Walk(h, &treePrinter{symbols: symbols, depth: &depth})
}

type treePrinter struct {
	symbols *symtab.Table
	depth   *int
}

func (p *treePrinter) EnterInstance(inst *design.ModuleInstance) {
	fmt.Printf("%*s%s\n", *p.depth*2, "", p.symbols.Lookup(inst.Name))
	*p.depth++
}

func (p *treePrinter) LeaveInstance(inst *design.ModuleInstance) {
	*p.depth--
}
