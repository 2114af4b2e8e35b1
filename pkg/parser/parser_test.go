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
package parser

import (
	"testing"

	"github.com/Apotell/surelog-core/pkg/ast"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

func parse(t *testing.T, text string) (*ast.FileContent, *symtab.Table, *diag.Container) {
	t.Helper()

	symbols := symtab.New()
	errs := diag.NewContainer(nil)
	path := symbols.RegisterPath("t.sv")

	fc := ParseFile(symbols, errs, "work", path, text, nil)

	return fc, symbols, errs
}

func TestParseSimpleModule(t *testing.T) {
	fc, symbols, errs := parse(t, `
module counter #(parameter W = 4) (
  input logic clk,
  input logic rst,
  output logic [W-1:0] q
);
  logic [W-1:0] next;
  assign next = q + 1;
  always @(posedge clk) q <= rst ? 0 : next;
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	tops := fc.Children(fc.Root)
	if len(tops) != 1 {
		t.Fatalf("expected one top-level declaration, got %d", len(tops))
	}

	mod := fc.Get(tops[0])
	if mod.Type != ast.KindModuleDecl {
		t.Fatalf("expected KindModuleDecl, got %v", mod.Type)
	}

	if symbols.Lookup(mod.Symbol) != "counter" {
		t.Fatalf("expected module name 'counter', got %q", symbols.Lookup(mod.Symbol))
	}

	var sawParam, sawPort, sawAssign, sawAlways bool

	for _, id := range fc.Children(tops[0]) {
		switch fc.Get(id).Type {
		case ast.KindParamDecl:
			sawParam = true
		case ast.KindPortDecl:
			sawPort = true
		case ast.KindContAssign:
			sawAssign = true
		case ast.KindAlwaysBlock:
			sawAlways = true
		}
	}

	if !sawParam || !sawPort || !sawAssign || !sawAlways {
		t.Fatalf("expected param/port/assign/always children, got param=%v port=%v assign=%v always=%v",
			sawParam, sawPort, sawAssign, sawAlways)
	}
}

func TestParseInstantiationWithParamOverride(t *testing.T) {
	fc, symbols, errs := parse(t, `
module top;
  counter #(.W(8)) u_counter (.clk(clk), .rst(rst), .q(q));
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	tops := fc.Children(fc.Root)
	mod := fc.Get(tops[0])

	var instId ast.Id

	for _, id := range fc.Children(tops[0]) {
		if fc.Get(id).Type == ast.KindInstantiation {
			instId = id
		}
	}

	if instId == ast.NoId {
		t.Fatalf("expected an instantiation child")
	}

	inst := fc.Get(instId)
	if symbols.Lookup(inst.Symbol) != "counter" {
		t.Fatalf("expected instantiation type name 'counter', got %q", symbols.Lookup(inst.Symbol))
	}

	_ = mod
}

func TestParseGenerateFor(t *testing.T) {
	fc, _, errs := parse(t, `
module arr;
  genvar i;
  generate
    for (i = 0; i < 4; i = i + 1) begin : g
      leaf u (.x(x[i]));
    end
  endgenerate
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	tops := fc.Children(fc.Root)

	var sawGenerate bool

	for _, id := range fc.Children(tops[0]) {
		if fc.Get(id).Type == ast.KindGenerateBlock {
			for _, gid := range fc.Children(id) {
				if fc.Get(gid).Type == ast.KindGenerateFor {
					sawGenerate = true
				}
			}
		}
	}

	if !sawGenerate {
		t.Fatalf("expected a KindGenerateFor node nested under the generate block")
	}
}

func TestParseInterfaceWithModport(t *testing.T) {
	fc, symbols, errs := parse(t, `
interface bus_if;
  logic [7:0] data;
  logic valid;
  modport master (output data, output valid);
  modport slave (input data, input valid);
endinterface
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	tops := fc.Children(fc.Root)
	ifc := fc.Get(tops[0])

	if ifc.Type != ast.KindInterfaceDecl {
		t.Fatalf("expected KindInterfaceDecl, got %v", ifc.Type)
	}

	var modports []string

	for _, id := range fc.Children(tops[0]) {
		if fc.Get(id).Type == ast.KindModportDecl {
			modports = append(modports, symbols.Lookup(fc.Get(id).Symbol))
		}
	}

	if len(modports) != 2 || modports[0] != "master" || modports[1] != "slave" {
		t.Fatalf("expected modports [master slave], got %v", modports)
	}
}

func TestParsePackageWithTypedefAndFunction(t *testing.T) {
	fc, symbols, errs := parse(t, `
package defs;
  typedef logic [3:0] nibble_t;
  function automatic int clog2(int value);
    return value;
  endfunction
endpackage
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	tops := fc.Children(fc.Root)
	pkg := fc.Get(tops[0])

	if pkg.Type != ast.KindPackageDecl {
		t.Fatalf("expected KindPackageDecl, got %v", pkg.Type)
	}

	var sawTypedef, sawFunction bool

	for _, id := range fc.Children(tops[0]) {
		switch fc.Get(id).Type {
		case ast.KindTypedefDecl:
			sawTypedef = true

			if symbols.Lookup(fc.Get(id).Symbol) != "nibble_t" {
				t.Fatalf("expected typedef name 'nibble_t'")
			}
		case ast.KindFunctionDecl:
			sawFunction = true
		}
	}

	if !sawTypedef || !sawFunction {
		t.Fatalf("expected typedef and function children")
	}
}

func TestArenaMonotonicity(t *testing.T) {
	fc, _, _ := parse(t, `module m; logic a; assign a = 1; endmodule`)

	for id := ast.Id(1); int(id) < len(fc.Children(fc.Root))+1; id++ {
		_ = id
	}

	tops := fc.Children(fc.Root)
	if len(tops) != 1 {
		t.Fatalf("expected one top-level module")
	}

	if tops[0] >= fc.Root {
		t.Fatalf("expected child id %d to precede parent id %d", tops[0], fc.Root)
	}
}
