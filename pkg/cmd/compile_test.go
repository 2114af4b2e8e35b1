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
	"os"
	"path/filepath"
	"testing"
)

// runCLI executes rootCmd with args against files written under a fresh
// temp directory, capturing whatever it writes to stdout.
func runCLI(t *testing.T, files map[string]string, args ...string) (stdout string) {
	t.Helper()

	dir := t.TempDir()

	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}

	defer func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restoring cwd: %v", err)
		}
	}()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}

	realStdout := os.Stdout
	os.Stdout = w

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	os.Stdout = realStdout
	w.Close()

	buf := make([]byte, 64*1024)
	n, _ := r.Read(buf)
	r.Close()

	if execErr != nil {
		t.Fatalf("Execute: %v", execErr)
	}

	return string(buf[:n])
}

func TestCompileCommandReportsCleanRunWithSummaryOnly(t *testing.T) {
	out := runCLI(t, map[string]string{
		"top.sv": "module top(); endmodule\n",
	}, "compile", "top.sv")

	if out != "(errors=0, warnings=0)\n" {
		t.Fatalf("expected only the zero-count summary for a clean compile, got %q", out)
	}
}

func TestCompileCommandElaborateFlagPrintsInstanceTree(t *testing.T) {
	out := runCLI(t, map[string]string{
		"top.sv": "module leaf(); endmodule\nmodule top(); leaf u(); endmodule\n",
	}, "compile", "--elaborate", "top.sv")

	if out == "" {
		t.Fatalf("expected --elaborate to print the instance tree")
	}
}
