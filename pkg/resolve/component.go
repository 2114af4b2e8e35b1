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
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// ResolveComponent runs the full C8 pass over comp: every Default/dimension
// expression, every instantiation's bindings, every generate body, every
// typedef, and (for a class) the base-class chain. It is safe to call
// concurrently across distinct components sharing the same Registry, since
// Registry's own lookups are already synchronized; comp's own fields are
// only ever written by this call.
func (r *Resolver) ResolveComponent(comp design.DesignComponent) {
	scope := NewComponentScope(comp)

	r.resolveParams(comp.Parameters(), scope)
	r.resolveTypedefs(comp.Typedefs(), scope)
	r.resolveSubs(comp.Subroutines(), scope)

	switch c := comp.(type) {
	case *design.Module:
		r.resolveSignals(c.Ports, scope)
		r.resolveSignals(c.Nets, scope)
		r.resolveInstantiations(c.Instances, scope)
		r.resolveContAssigns(c.ContAssigns, scope)
		r.resolveProcesses(c.Processes, scope)
		r.resolveGenerates(c.Generates, scope)
		r.resolveBinds(c.Binds, scope)
		r.resolveAssertions(c.Assertions, scope)
	case *design.Interface:
		r.resolveSignals(c.Ports, scope)
		r.resolveSignals(c.Nets, scope)
		r.resolveInstantiations(c.Instances, scope)
		r.resolveContAssigns(c.ContAssigns, scope)
		r.resolveProcesses(c.Processes, scope)
		r.resolveGenerates(c.Generates, scope)
	case *design.Program:
		r.resolveSignals(c.Ports, scope)
		r.resolveSignals(c.Nets, scope)
		r.resolveInstantiations(c.Instances, scope)
		r.resolveProcesses(c.Processes, scope)
	case *design.ClassDefinition:
		if c.Extends != symtab.BadSymbolId {
			r.baseOf(c)
		}

		r.resolveSignals(c.Members, scope)
	case *design.UdpDefinition:
		r.resolveSignals(c.Ports, scope)

		if c.Initial != nil {
			r.resolveStatement(*c.Initial, scope)
		}
	case *design.Package:
		// Params/typedefs/subs already handled above; a package has
		// nothing else to resolve.
	}
}

func (r *Resolver) resolveParams(params []*design.Parameter, scope *Scope) {
	for _, p := range params {
		if p.IsType {
			r.ResolveTypespec(p.TypeDefault, scope)
			continue
		}

		r.ResolveExpr(p.Default, scope)
		r.ResolveTypespec(p.Typespec, scope)
	}
}

func (r *Resolver) resolveTypedefs(typedefs map[symtab.SymbolId]design.Typespec, scope *Scope) {
	for _, t := range typedefs {
		r.ResolveTypespec(t, scope)
	}
}

func (r *Resolver) resolveSubs(subs []*design.Subroutine, scope *Scope) {
	for _, sub := range subs {
		fnScope := scope.Push(ScopeFunction)

		for i := range sub.Args {
			fnScope.Declare(sub.Args[i].Name, &sub.Args[i])
			r.ResolveExpr(sub.Args[i].Default, fnScope)

			for _, d := range sub.Args[i].Packed {
				r.ResolveExpr(d.MSB, fnScope)
				r.ResolveExpr(d.LSB, fnScope)
			}
		}

		r.ResolveTypespec(sub.ReturnType, fnScope)

		for _, st := range sub.Body {
			r.resolveStatement(st, fnScope)
		}
	}
}

func (r *Resolver) resolveSignals(sigs []*design.Signal, scope *Scope) {
	for _, s := range sigs {
		r.ResolveExpr(s.Default, scope)
		r.ResolveTypespec(s.Typespec, scope)

		for _, d := range s.Packed {
			r.ResolveExpr(d.MSB, scope)
			r.ResolveExpr(d.LSB, scope)
		}

		for _, d := range s.Unpacked {
			r.ResolveExpr(d.MSB, scope)
			r.ResolveExpr(d.LSB, scope)
		}

		if s.Interface != nil {
			r.ResolveTypespec(s.Interface, scope)
		}
	}
}

func (r *Resolver) resolveInstantiations(insts []*design.Instantiation, scope *Scope) {
	for _, inst := range insts {
		if inst.Definition == nil {
			if comp, ok := r.registry.LookupByKey(design.QualifiedName{Library: r.library, Name: inst.DefinitionName}.Key()); ok {
				inst.Definition = comp
			} else {
				r.errAt(inst.Location, diag.ElabUndefinedType,
					"'"+r.symbols.Lookup(inst.DefinitionName)+"' is not a defined module or interface")
			}
		}

		for _, b := range inst.ParamBindings {
			r.ResolveExpr(b.Value, scope)
		}

		for _, b := range inst.PortBindings {
			r.ResolveExpr(b.Value, scope)
		}

		for _, d := range inst.UnpackedDims {
			r.ResolveExpr(d.MSB, scope)
			r.ResolveExpr(d.LSB, scope)
		}
	}
}

func (r *Resolver) resolveContAssigns(assigns []*design.ContAssign, scope *Scope) {
	for _, a := range assigns {
		r.ResolveExpr(a.LHS, scope)
		r.ResolveExpr(a.RHS, scope)
	}
}

func (r *Resolver) resolveProcesses(procs []*design.Process, scope *Scope) {
	for _, p := range procs {
		blockScope := scope.Push(ScopeBlock)

		for _, st := range p.Body {
			r.resolveStatement(st, blockScope)
		}
	}
}

func (r *Resolver) resolveStatement(st design.Statement, scope *Scope) {
	r.ResolveExpr(st.Expr, scope)

	for _, child := range st.Children {
		r.resolveStatement(child, scope)
	}
}

func (r *Resolver) resolveGenerates(gens []*design.GenerateNode, scope *Scope) {
	for _, g := range gens {
		r.resolveGenerate(g, scope)
	}
}

func (r *Resolver) resolveGenerate(g *design.GenerateNode, scope *Scope) {
	genScope := scope

	if g.Kind == design.GenerateFor {
		genScope = scope.Push(ScopeFor)
		genScope.Declare(g.GenVar, &GenVarBinding{Name: g.GenVar})

		r.ResolveExpr(g.Init, genScope)
		r.ResolveExpr(g.Condition, genScope)
		r.ResolveExpr(g.Step, genScope)
	} else if g.Condition != nil {
		r.ResolveExpr(g.Condition, genScope)
	}

	r.resolveDeclarationItems(g.Body, genScope)

	for _, branch := range g.Branches {
		r.ResolveExpr(branch.Condition, genScope)
		r.resolveDeclarationItems(branch.Body, genScope)
	}
}

func (r *Resolver) resolveDeclarationItems(items []design.DeclarationItem, scope *Scope) {
	for _, item := range items {
		switch {
		case item.Signal != nil:
			r.resolveSignals([]*design.Signal{item.Signal}, scope)
		case item.Instantiation != nil:
			r.resolveInstantiations([]*design.Instantiation{item.Instantiation}, scope)
		case item.Process != nil:
			r.resolveProcesses([]*design.Process{item.Process}, scope)
		case item.ContAssign != nil:
			r.resolveContAssigns([]*design.ContAssign{item.ContAssign}, scope)
		case item.Generate != nil:
			r.resolveGenerate(item.Generate, scope)
		case item.Bind != nil:
			r.resolveBinds([]*design.BindDirective{item.Bind}, scope)
		case item.Assertion != nil:
			r.resolveAssertions([]*design.AssertionDecl{item.Assertion}, scope)
		}
	}
}

func (r *Resolver) resolveBinds(binds []*design.BindDirective, scope *Scope) {
	for _, b := range binds {
		if b.Definition == nil {
			if comp, ok := r.registry.LookupByKey(design.QualifiedName{Library: r.library, Name: b.TargetName}.Key()); ok {
				b.Definition = comp
			} else {
				r.errAt(b.Location, diag.ElabUndefinedType,
					"bind target '"+r.symbols.Lookup(b.TargetName)+"' is not a defined module or interface")
			}
		}

		for _, binding := range b.Bindings {
			r.ResolveExpr(binding.Value, scope)
		}
	}
}

func (r *Resolver) resolveAssertions(assertions []*design.AssertionDecl, scope *Scope) {
	for _, a := range assertions {
		r.ResolveExpr(a.Body, scope)
	}
}
