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
package elaborate

import (
	"testing"

	"github.com/Apotell/surelog-core/pkg/compile"
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/parser"
	"github.com/Apotell/surelog-core/pkg/resolve"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// elaborateText runs the full C6/C7/C8/C9 pipeline over text and returns
// the resulting instance tree, matching the shape a real driver would
// build once the worker-pool-parallel phases (C2/C3/C6) have all
// finished and C8 has resolved every component in the registry.
func elaborateText(t *testing.T, text string) (*design.InstanceTree, *symtab.Table, *diag.Container, *design.Registry) {
	t.Helper()

	symbols := symtab.New()
	errs := diag.NewContainer(nil)
	path := symbols.RegisterPath("t.sv")

	fc := parser.ParseFile(symbols, errs, "work", path, text, nil)

	registry := design.NewRegistry()
	comp := compile.NewCompiler(symbols, errs, registry, "work")
	comps := comp.CompileFile(fc)

	r := resolve.NewResolver(registry, symbols, errs, "work")
	for _, c := range comps {
		r.ResolveComponent(c)
	}

	elab := NewElaborator(registry, symbols, errs)

	return elab.Elaborate(), symbols, errs, registry
}

func TestElaborateTopModuleDetection(t *testing.T) {
	tree, symbols, errs, _ := elaborateText(t, `
module leaf();
endmodule

module top();
  leaf u();
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	if len(tree.Tops) != 1 {
		t.Fatalf("expected exactly one top module, got %d", len(tree.Tops))
	}

	if symbols.Lookup(tree.Tops[0].Name) != "top" {
		t.Fatalf("expected 'top' to be the only top module, got %q", symbols.Lookup(tree.Tops[0].Name))
	}

	if len(tree.Tops[0].Children) != 1 || symbols.Lookup(tree.Tops[0].Children[0].Name) != "u" {
		t.Fatalf("expected 'top' to have one child instance named 'u'")
	}
}

func TestElaborateParameterOverridePropagatesOnClone(t *testing.T) {
	tree, symbols, errs, registry := elaborateText(t, `
module counter #(parameter W = 4) (output logic [W-1:0] q);
endmodule

module top();
  counter #(.W(8)) u();
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	wName := symbols.Register("W")

	child := tree.Tops[0].Children[0]

	v, ok := child.ValueOf(wName)
	if !ok || v.Bits != 8 {
		t.Fatalf("expected overridden W=8 on the instance, got %+v (ok=%v)", v, ok)
	}

	def, _ := registry.Lookup(design.QualifiedName{Library: "work", Name: symbols.Register("counter")})
	counterDef := def.(*design.Module)

	if counterDef.Params[0].Default.(*design.Constant).Value.Bits != 4 {
		t.Fatalf("expected the unelaborated definition's default to remain 4")
	}

	if child.Definition == design.DesignComponent(counterDef) {
		t.Fatalf("expected an overridden instantiation to receive a clone, not the shared definition")
	}
}

func TestElaborateGenerateForProducesIndexedScopes(t *testing.T) {
	tree, symbols, errs, _ := elaborateText(t, `
module g #(parameter int N = 3) ();
  for (genvar i = 0; i < N; i = i + 1) begin
    wire [i:0] w;
  end
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	top := tree.Tops[0]
	if symbols.Lookup(top.Name) != "g" {
		t.Fatalf("expected 'g' to be the only top module")
	}

	if len(top.GenScopes) != 3 {
		t.Fatalf("expected 3 generate-for iterations, got %d", len(top.GenScopes))
	}

	for i, scope := range top.GenScopes {
		if scope.Index != int64(i) {
			t.Fatalf("scope %d: expected Index %d, got %d", i, i, scope.Index)
		}

		if len(scope.Signals) != 1 {
			t.Fatalf("scope %d: expected exactly one signal", i)
		}

		msb, ok := scope.Signals[0].Packed[0].MSB.(*design.Constant)
		if !ok {
			t.Fatalf("scope %d: expected w's msb to be folded to a constant", i)
		}

		if msb.Value.Bits != uint64(i) {
			t.Fatalf("scope %d: expected w's msb to equal %d, got %d", i, i, msb.Value.Bits)
		}
	}
}

func TestElaborateInterfacePortConnectsSiblingInstance(t *testing.T) {
	tree, symbols, errs, _ := elaborateText(t, `
interface bus(input clk);
  logic [7:0] data;
  modport slave(input clk, input data);
endinterface

module s(bus.slave b);
endmodule

module top(input clk);
  bus b(clk);
  s u(.b(b));
endmodule
`)

	if len(errs.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	top := tree.Tops[0]

	var busInst, sInst *design.ModuleInstance

	for _, child := range top.Children {
		switch child.Definition.(type) {
		case *design.Interface:
			busInst = child
		case *design.Module:
			sInst = child
		}
	}

	if busInst == nil || sInst == nil {
		t.Fatalf("expected both a 'bus' and an 's' child instance")
	}

	bName := symbols.Register("b")

	if sInst.InterfaceInstances[bName] != busInst {
		t.Fatalf("expected s's port 'b' to connect to the bus instance")
	}

	if symbols.Lookup(sInst.ModportBindings[bName]) != "slave" {
		t.Fatalf("expected s's port 'b' to carry the 'slave' modport")
	}
}

func TestElaborateUnknownParameterBindingIsDiagnosed(t *testing.T) {
	_, _, errs, _ := elaborateText(t, `
module leaf #(parameter W = 4) ();
endmodule

module top();
  leaf #(.BOGUS(1)) u();
endmodule
`)

	found := false

	for _, e := range errs.Errors() {
		if e.Kind == diag.ElabUnknownParameterBinding {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected ElabUnknownParameterBinding among: %v", errs.Errors())
	}
}
