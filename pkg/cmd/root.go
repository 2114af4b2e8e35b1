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

// Package cmd implements the surelog CLI's command tree: a thin Cobra
// driver around pkg/session's Session API (spec.md section 6 names the
// CLI an "external collaborator, not specified here" -- this package is
// that collaborator).
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled in at build time via -ldflags; empty when built with
// a plain "go build".
var Version string

var rootCmd = &cobra.Command{
	Use:   "surelog",
	Short: "A SystemVerilog front-end compiler.",
	Long:  "surelog preprocesses, parses, compiles, resolves, and elaborates SystemVerilog source into a design tree.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("surelog ")

			switch {
			case Version != "":
				fmt.Print(Version)
			default:
				if info, ok := debug.ReadBuildInfo(); ok {
					fmt.Print(info.Main.Version)
				} else {
					fmt.Print("(unknown version)")
				}
			}

			fmt.Println()

			return
		}

		cmd.Help() //nolint:errcheck
	},
}

// Execute runs rootCmd; subcommands attach themselves to rootCmd in their
// own init functions. Called once from cmd/surelog's main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringArrayP("include", "I", []string{}, "add a directory to the include search path")
	rootCmd.PersistentFlags().StringArrayP("define", "D", []string{}, "define a macro (NAME or NAME=VALUE) before compilation")
	rootCmd.PersistentFlags().String("library", "work", "target library name for compiled components")
	rootCmd.PersistentFlags().Int("workers", 0, "worker pool size (0 selects runtime.NumCPU())")
	rootCmd.PersistentFlags().Bool("strict-macros", false, "report an error for every undefined macro reference instead of ignoring it")
	rootCmd.PersistentFlags().Int("max-expansion-depth", 0, "cap nested macro expansion depth (0 selects the preprocessor's default)")

	if os.Getenv("SURELOG_LOG_JSON") != "" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
