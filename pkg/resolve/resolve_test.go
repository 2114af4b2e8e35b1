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
package resolve

import (
	"testing"

	"github.com/Apotell/surelog-core/pkg/ast"
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

func newFixture() (*symtab.Table, *design.Registry, *diag.Container) {
	symbols := symtab.New()
	registry := design.NewRegistry()
	errs := diag.NewContainer(func(uint32) string { return "" })

	return symbols, registry, errs
}

func TestResolveParameterFeedsPortWidth(t *testing.T) {
	symbols, registry, errs := newFixture()
	r := NewResolver(registry, symbols, errs, "work")

	wName := symbols.Register("W")
	portName := symbols.Register("data")

	mod := design.NewModule("work", symbols.Register("m"), ast.NoId)
	mod.Params = append(mod.Params, &design.Parameter{Name: wName, Default: &design.Constant{Value: design.NewUnsigned(8, 32)}})
	mod.Ports = append(mod.Ports, &design.Signal{
		Name:   portName,
		IsPort: true,
		Packed: []design.Dimension{{
			MSB: &design.Operation{Op: design.OpSub, Operands: []design.Expr{&design.RefObj{Name: wName}, &design.Constant{Value: design.NewUnsigned(1, 32)}}},
			LSB: &design.Constant{Value: design.NewUnsigned(0, 32)},
		}},
	})
	registry.Register(mod)

	r.ResolveComponent(mod)

	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	ref, ok := mod.Ports[0].Packed[0].MSB.(*design.Operation).Operands[0].(*design.RefObj)
	if !ok {
		t.Fatalf("expected RefObj operand")
	}

	if ref.Actual != mod.Params[0] {
		t.Fatalf("expected W reference to resolve to the module's own parameter")
	}
}

func TestResolveReportsUndefinedVariable(t *testing.T) {
	symbols, registry, errs := newFixture()
	r := NewResolver(registry, symbols, errs, "work")

	mod := design.NewModule("work", symbols.Register("m"), ast.NoId)
	mod.ContAssigns = append(mod.ContAssigns, &design.ContAssign{
		LHS: &design.RefObj{Name: symbols.Register("out")},
		RHS: &design.RefObj{Name: symbols.Register("ghost")},
	})
	registry.Register(mod)

	r.ResolveComponent(mod)

	if !errs.HasErrors() {
		t.Fatalf("expected an undefined-variable diagnostic")
	}

	found := false

	for _, e := range errs.Errors() {
		if e.Kind == diag.ElabUndefinedVariable {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected ElabUndefinedVariable among: %v", errs.Errors())
	}
}

func TestResolveClassInheritsBaseMember(t *testing.T) {
	symbols, registry, errs := newFixture()
	r := NewResolver(registry, symbols, errs, "work")

	baseName := symbols.Register("Base")
	memberName := symbols.Register("count")

	base := design.NewClassDefinition("work", baseName, ast.NoId)
	base.Members = append(base.Members, &design.Signal{Name: memberName})
	registry.Register(base)

	derived := design.NewClassDefinition("work", symbols.Register("Derived"), ast.NoId)
	derived.Extends = baseName
	derived.Subs = append(derived.Subs, &design.Subroutine{
		Name: symbols.Register("bump"),
		Body: []design.Statement{{
			Expr: &design.RefObj{Name: memberName},
		}},
	})
	registry.Register(derived)

	r.ResolveComponent(derived)

	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	ref := derived.Subs[0].Body[0].Expr.(*design.RefObj)
	if ref.Actual != base.Members[0] {
		t.Fatalf("expected 'count' to resolve through the base class chain")
	}

	if derived.BaseClass != base {
		t.Fatalf("expected BaseClass to be cached on first lookup")
	}
}

func TestResolveGenerateForGenvarInPortBinding(t *testing.T) {
	symbols, registry, errs := newFixture()
	r := NewResolver(registry, symbols, errs, "work")

	sub := design.NewModule("work", symbols.Register("leaf"), ast.NoId)
	registry.Register(sub)

	genvar := symbols.Register("i")

	inst := &design.Instantiation{
		DefinitionName: symbols.Register("leaf"),
		InstanceName:   symbols.Register("u"),
		PortBindings: []design.ParamOrPortBinding{
			{Name: symbols.Register("idx"), Value: &design.RefObj{Name: genvar}},
		},
	}

	mod := design.NewModule("work", symbols.Register("top"), ast.NoId)
	mod.Generates = append(mod.Generates, &design.GenerateNode{
		Kind:   design.GenerateFor,
		GenVar: genvar,
		Body:   []design.DeclarationItem{{Instantiation: inst}},
	})
	registry.Register(mod)

	r.ResolveComponent(mod)

	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	if inst.Definition != sub {
		t.Fatalf("expected instantiation to resolve to the leaf module")
	}

	ref := inst.PortBindings[0].Value.(*design.RefObj)

	binding, ok := ref.Actual.(*GenVarBinding)
	if !ok || binding.Name != genvar {
		t.Fatalf("expected genvar reference to resolve to a GenVarBinding, got %#v", ref.Actual)
	}
}

func TestResolveImportedPackageMember(t *testing.T) {
	symbols, registry, errs := newFixture()
	r := NewResolver(registry, symbols, errs, "work")

	pkgName := symbols.Register("util_pkg")
	constName := symbols.Register("DEPTH")

	pkg := design.NewPackage("work", pkgName, ast.NoId)
	pkg.Params = append(pkg.Params, &design.Parameter{Name: constName, Default: &design.Constant{Value: design.NewUnsigned(16, 32)}})
	registry.Register(pkg)

	outName := symbols.Register("out")

	mod := design.NewModule("work", symbols.Register("m"), ast.NoId)
	mod.Imports = append(mod.Imports, pkgName)
	mod.Nets = append(mod.Nets, &design.Signal{Name: outName})
	mod.ContAssigns = append(mod.ContAssigns, &design.ContAssign{
		LHS: &design.RefObj{Name: outName},
		RHS: &design.RefObj{Name: constName},
	})
	registry.Register(mod)

	r.ResolveComponent(mod)

	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	ref := mod.ContAssigns[0].RHS.(*design.RefObj)
	if ref.Actual != pkg.Params[0] {
		t.Fatalf("expected DEPTH to resolve through the imported package")
	}
}
