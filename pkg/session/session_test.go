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
package session

import (
	"testing"

	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// memFS is an in-memory FileSystem used so these tests never touch disk.
type memFS struct {
	symbols *symtab.Table
	files   map[string]string
}

func newMemFS(symbols *symtab.Table, files map[string]string) *memFS {
	return &memFS{symbols: symbols, files: files}
}

func (fs *memFS) Read(path symtab.PathId) ([]byte, error) {
	name := fs.symbols.LookupPath(path)
	if text, ok := fs.files[name]; ok {
		return []byte(text), nil
	}

	return nil, errNotFound(name)
}

func (fs *memFS) Locate(name string, searchPaths []string) (symtab.PathId, bool) {
	if _, ok := fs.files[name]; ok {
		return fs.symbols.RegisterPath(name), true
	}

	return symtab.BadPathId, false
}

func (fs *memFS) Sibling(path symtab.PathId, name string) symtab.PathId {
	return fs.symbols.RegisterPath(name)
}

func (fs *memFS) ToPlatformPath(path symtab.PathId) string {
	return fs.symbols.LookupPath(path)
}

type errNotFound string

func (e errNotFound) Error() string { return "file not found: " + string(e) }

func TestStartCompilerProducesElaboratedTree(t *testing.T) {
	symbols := symtab.New()
	fs := newMemFS(symbols, map[string]string{
		"top.sv": `
module leaf #(parameter W = 4) (input logic [W-1:0] a, output logic [W-1:0] b);
  assign b = a;
endmodule

module top();
  logic [3:0] x, y;
  leaf #(.W(4)) u(.a(x), .b(y));
endmodule
`,
	})

	s := New(symbols, fs, CommandLineOptions{Files: []string{"top.sv"}})

	h, err := s.StartCompiler()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Errors.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", s.Errors.Errors())
	}

	tree := s.GetIRDesign(h)
	if len(tree.Tops) != 1 {
		t.Fatalf("expected one top module, got %d", len(tree.Tops))
	}

	if symbols.Lookup(tree.Tops[0].Name) != "top" {
		t.Fatalf("expected the top instance to be named 'top', got %q", symbols.Lookup(tree.Tops[0].Name))
	}

	registry := s.GetDesign(h)
	if _, ok := registry.Lookup(design.QualifiedName{Library: "work", Name: symbols.Register("leaf")}); !ok {
		t.Fatalf("expected 'leaf' to be registered in the design")
	}

	s.ShutdownCompiler(h)
}

func TestStartCompilerWithNoFilesErrors(t *testing.T) {
	symbols := symtab.New()
	fs := newMemFS(symbols, map[string]string{})
	s := New(symbols, fs, CommandLineOptions{})

	if _, err := s.StartCompiler(); err == nil {
		t.Fatalf("expected an error when no files are configured")
	}
}

func TestSyntaxErrorInsideIncludeReportsIncludedFileAndLine(t *testing.T) {
	symbols := symtab.New()
	fs := newMemFS(symbols, map[string]string{
		// top.sv's own module is closed before the `include, so leaf.sv's
		// content is parsed at the top level, not as part of top's body.
		"top.sv": "module top(); endmodule\n`include \"leaf.sv\"\n",
		// Line 2 of leaf.sv is malformed (an identifier expected where a
		// number literal appears); the diagnostic must land on leaf.sv:2,
		// not top.sv at some coincidental preprocessed-stream line.
		"leaf.sv": "wire ok;\nmodule 123;\nendmodule\n",
	})

	s := New(symbols, fs, CommandLineOptions{Files: []string{"top.sv"}})

	if _, err := s.StartCompiler(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Errors.HasErrors() {
		t.Fatalf("expected a syntax error to be reported")
	}

	leafId := symbols.RegisterPath("leaf.sv")

	var found bool

	for _, e := range s.Errors.Errors() {
		if e.Primary.PathId == uint32(leafId) && e.Primary.Line == 2 {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected a diagnostic at leaf.sv:2, got: %v", s.Errors.Errors())
	}
}

func TestWalkVisitsEveryInstance(t *testing.T) {
	symbols := symtab.New()
	fs := newMemFS(symbols, map[string]string{
		"top.sv": `
module leaf(); endmodule

module top();
  leaf u1();
  leaf u2();
endmodule
`,
	})

	s := New(symbols, fs, CommandLineOptions{Files: []string{"top.sv"}})

	h, err := s.StartCompiler()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entered []string

	s.Walk(h, &recordingListener{symbols: symbols, entered: &entered})

	if len(entered) != 3 {
		t.Fatalf("expected 3 instances visited (top, u1, u2), got %d: %v", len(entered), entered)
	}
}

type recordingListener struct {
	symbols *symtab.Table
	entered *[]string
}

func (l *recordingListener) EnterInstance(inst *design.ModuleInstance) {
	*l.entered = append(*l.entered, l.symbols.Lookup(inst.Name))
}

func (l *recordingListener) LeaveInstance(inst *design.ModuleInstance) {}

// CompareTrees compares instances by symtab.SymbolId, which is only
// meaningful within one symbol table -- so both of the following tests
// run StartCompiler twice on the *same* Session (the real use case this
// method serves: checking whether recompiling after an edit produced an
// equivalent design), rather than across two independent sessions with
// unrelated symbol tables.
func TestCompareTreesMatchesIdenticalRuns(t *testing.T) {
	symbols := symtab.New()
	fs := newMemFS(symbols, map[string]string{
		"top.sv": `
module leaf #(parameter W = 4) (); endmodule

module top();
  leaf #(.W(8)) u();
endmodule
`,
	})

	s := New(symbols, fs, CommandLineOptions{Files: []string{"top.sv"}})

	h1, err := s.StartCompiler()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h2, err := s.StartCompiler()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.CompareTrees(h1, h2) {
		t.Fatalf("expected two compiler runs over identical input to produce equivalent trees")
	}
}

func TestCompareTreesDetectsParameterDivergence(t *testing.T) {
	symbols := symtab.New()
	fs := newMemFS(symbols, map[string]string{
		"top.sv": `
module leaf #(parameter W = 4) (); endmodule
module top(); leaf #(.W(8)) u(); endmodule
`,
	})

	s := New(symbols, fs, CommandLineOptions{Files: []string{"top.sv"}})

	h1, err := s.StartCompiler()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fs.files["top.sv"] = `
module leaf #(parameter W = 4) (); endmodule
module top(); leaf #(.W(16)) u(); endmodule
`

	h2, err := s.StartCompiler()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.CompareTrees(h1, h2) {
		t.Fatalf("expected trees with different parameter overrides (8 vs 16) to differ")
	}
}
