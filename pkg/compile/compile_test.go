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
package compile

import (
	"testing"

	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/parser"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

func compileText(t *testing.T, text string) ([]design.DesignComponent, *symtab.Table, *diag.Container) {
	t.Helper()

	symbols := symtab.New()
	errs := diag.NewContainer(nil)
	path := symbols.RegisterPath("t.sv")

	fc := parser.ParseFile(symbols, errs, "work", path, text, nil)

	registry := design.NewRegistry()
	comp := NewCompiler(symbols, errs, registry, "work")

	return comp.CompileFile(fc), symbols, errs
}

// TestParameterFeedsPortWidth exercises the scenario where a parameter
// declared earlier in the same port list is folded immediately to size a
// later port's dimension, without waiting for the symbol resolver.
func TestParameterFeedsPortWidth(t *testing.T) {
	comps, symbols, errs := compileText(t, `
module counter #(parameter W = 4) (
  input logic clk,
  input logic rst,
  output logic [W-1:0] q
);
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	if len(comps) != 1 {
		t.Fatalf("expected one compiled component, got %d", len(comps))
	}

	mod, ok := comps[0].(*design.Module)
	if !ok {
		t.Fatalf("expected *design.Module, got %T", comps[0])
	}

	if len(mod.Params) != 1 || symbols.Lookup(mod.Params[0].Name) != "W" {
		t.Fatalf("expected parameter 'W', got %v", mod.Params)
	}

	if mod.Params[0].Value.Invalid || mod.Params[0].Value.Bits != 4 {
		t.Fatalf("expected W to fold to 4, got %+v", mod.Params[0].Value)
	}

	var q *design.Signal

	for _, p := range mod.Ports {
		if symbols.Lookup(p.Name) == "q" {
			q = p
		}
	}

	if q == nil {
		t.Fatalf("expected a port named 'q'")
	}

	if len(q.Packed) != 1 {
		t.Fatalf("expected one packed dimension on 'q', got %d", len(q.Packed))
	}

	msb := ConstantFold(q.Packed[0].MSB, map[symtab.SymbolId]*design.Parameter{mod.Params[0].Name: mod.Params[0]})
	if msb.Invalid || msb.Bits != 3 {
		t.Fatalf("expected q's MSB to fold to W-1=3, got %+v", msb)
	}
}

func TestConstantFoldArithmetic(t *testing.T) {
	comps, symbols, errs := compileText(t, `
package defs;
  parameter int A = 6;
  parameter int B = A / 2;
  parameter int C = A % 0;
endpackage
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	pkg, ok := comps[0].(*design.Package)
	if !ok {
		t.Fatalf("expected *design.Package, got %T", comps[0])
	}

	byName := map[string]*design.Parameter{}
	for _, p := range pkg.Params {
		byName[symbols.Lookup(p.Name)] = p
	}

	if byName["B"].Value.Invalid || byName["B"].Value.Bits != 3 {
		t.Fatalf("expected B to fold to 3, got %+v", byName["B"].Value)
	}

	if !byName["C"].Value.Invalid {
		t.Fatalf("expected C (mod by zero) to be invalid, got %+v", byName["C"].Value)
	}
}

func TestConstantFoldPartSelect(t *testing.T) {
	// 8'hB6 = 1011_0110; bits [5:2] = 1101 = 13.
	target := &design.Constant{Value: design.NewUnsigned(0xB6, 8)}
	sel := &design.Select{
		Target: target,
		High:   &design.Constant{Value: design.NewUnsigned(5, 32)},
		Low:    &design.Constant{Value: design.NewUnsigned(2, 32)},
	}

	got := ConstantFold(sel, nil)
	if got.Invalid {
		t.Fatalf("expected a valid part-select fold, got invalid")
	}

	if got.AsBigInt().Int64() != 13 {
		t.Fatalf("expected bits [5:2] of 0xB6 to fold to 13, got %d", got.AsBigInt().Int64())
	}

	if got.Width != 4 {
		t.Fatalf("expected a 4-bit wide result, got width %d", got.Width)
	}
}

func TestConstantFoldBitSelect(t *testing.T) {
	target := &design.Constant{Value: design.NewUnsigned(0b0100, 4)}
	sel := &design.Select{
		Target: target,
		High:   &design.Constant{Value: design.NewUnsigned(2, 32)},
	}

	got := ConstantFold(sel, nil)
	if got.Invalid || got.AsBigInt().Int64() != 1 {
		t.Fatalf("expected bit 2 of 0b0100 to fold to 1, got %+v", got)
	}
}

func TestGenerateForComponentCompiles(t *testing.T) {
	comps, _, errs := compileText(t, `
module arr;
  genvar i;
  generate
    for (i = 0; i < 4; i = i + 1) begin : g
      leaf u (.x(x));
    end
  endgenerate
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	mod, ok := comps[0].(*design.Module)
	if !ok {
		t.Fatalf("expected *design.Module, got %T", comps[0])
	}

	if len(mod.Generates) != 1 {
		t.Fatalf("expected one top-level generate node, got %d", len(mod.Generates))
	}

	block := mod.Generates[0]
	if block.Kind != design.GenerateBlock {
		t.Fatalf("expected the outer generate region to be a GenerateBlock, got %v", block.Kind)
	}

	if len(block.Body) != 1 || block.Body[0].Generate == nil {
		t.Fatalf("expected the block to contain one nested generate item, got %+v", block.Body)
	}

	forNode := block.Body[0].Generate
	if forNode.Kind != design.GenerateFor {
		t.Fatalf("expected GenerateFor, got %v", forNode.Kind)
	}

	// The for loop's `begin : g ... end` body nests one more GenerateBlock
	// level before reaching the leaf instantiation.
	if len(forNode.Body) != 1 || forNode.Body[0].Generate == nil {
		t.Fatalf("expected the for-body to contain one nested generate block, got %+v", forNode.Body)
	}

	innerBlock := forNode.Body[0].Generate
	if len(innerBlock.Body) != 1 || innerBlock.Body[0].Instantiation == nil {
		t.Fatalf("expected the nested block to contain one instantiation, got %+v", innerBlock.Body)
	}
}

func TestInstantiationRoundTripsNames(t *testing.T) {
	comps, symbols, errs := compileText(t, `
module top;
  counter #(.W(8)) u_counter (.clk(clk), .rst(rst), .q(q));
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	mod := comps[0].(*design.Module)
	if len(mod.Instances) != 1 {
		t.Fatalf("expected one instance, got %d", len(mod.Instances))
	}

	inst := mod.Instances[0]
	if symbols.Lookup(inst.DefinitionName) != "counter" {
		t.Fatalf("expected definition name 'counter', got %q", symbols.Lookup(inst.DefinitionName))
	}

	if symbols.Lookup(inst.InstanceName) != "u_counter" {
		t.Fatalf("expected instance name 'u_counter', got %q", symbols.Lookup(inst.InstanceName))
	}

	if len(inst.ParamBindings) != 1 || symbols.Lookup(inst.ParamBindings[0].Name) != "W" {
		t.Fatalf("expected one named param binding 'W', got %+v", inst.ParamBindings)
	}

	if len(inst.PortBindings) != 3 {
		t.Fatalf("expected three named port bindings, got %d", len(inst.PortBindings))
	}
}

func TestDuplicateTopLevelComponentIsDiagnosed(t *testing.T) {
	_, _, errs := compileText(t, `
module m; endmodule
module m; endmodule
`)

	if len(errs.Errors()) != 1 {
		t.Fatalf("expected exactly one diagnostic for the duplicate module, got %d: %v", len(errs.Errors()), errs.Errors())
	}

	if errs.Errors()[0].Kind != diag.ComponentMultiplyDefinedProperty {
		t.Fatalf("expected ComponentMultiplyDefinedProperty, got %v", errs.Errors()[0].Kind)
	}
}
