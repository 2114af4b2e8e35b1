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

// Resolver holds the state a resolve pass needs beyond a single Scope:
// the design registry every cross-component lookup (levels 3-5 of the
// cascade) ultimately bottoms out at, the symbol table for diagnostic
// messages, and the library every unqualified registry lookup is
// performed against.
type Resolver struct {
	registry *design.Registry
	symbols  *symtab.Table
	errs     *diag.Container
	library  string
}

// NewResolver constructs a Resolver targeting registry for cross-component
// lookups and library for unqualified ones.
func NewResolver(registry *design.Registry, symbols *symtab.Table, errs *diag.Container, library string) *Resolver {
	return &Resolver{registry: registry, symbols: symbols, errs: errs, library: library}
}

// Resolve implements the five-level cascade of spec.md section 4.5:
//
//  1. Enclosing scope locals (function/for/foreach/block), innermost first.
//  2. The anchoring component's own symbol table (folded into the scope
//     chain as the root frame's locals, so level 1 and 2 share one walk).
//  3. The base class chain, for a class-anchored scope.
//  4. Imported packages, in import-statement order.
//  5. The design registry: modules/interfaces/packages by qualified name.
func (r *Resolver) Resolve(name symtab.SymbolId, scope *Scope) (interface{}, bool) {
	var anchor design.DesignComponent

	for s := scope; s != nil; s = s.parent {
		if v, ok := s.locals[name]; ok {
			return v, true
		}

		if s.component != nil {
			anchor = s.component
		}
	}

	if cls, ok := anchor.(*design.ClassDefinition); ok {
		for base := r.baseOf(cls); base != nil; base = r.baseOf(base) {
			if v, ok := componentMember(base, name); ok {
				return v, true
			}
		}
	}

	if mod, ok := anchor.(*design.Module); ok {
		for _, pkgName := range mod.Imports {
			if pkg, ok := r.lookupPackage(pkgName); ok {
				if v, ok := componentMember(pkg, name); ok {
					return v, true
				}
			}
		}
	}

	if comp, ok := r.registry.LookupByKey(design.QualifiedName{Library: r.library, Name: name}.Key()); ok {
		return comp, true
	}

	return nil, false
}

// baseOf returns cls's resolved base class, caching the result on
// cls.BaseClass so repeated lookups (e.g. a deep extends chain walked
// once per member reference) do not re-query the registry.
func (r *Resolver) baseOf(cls *design.ClassDefinition) *design.ClassDefinition {
	if cls.BaseClass != nil {
		return cls.BaseClass
	}

	if cls.Extends == symtab.BadSymbolId {
		return nil
	}

	comp, ok := r.registry.LookupByKey(design.QualifiedName{Library: r.library, Name: cls.Extends}.Key())
	if !ok {
		r.errAt(cls.Location, diag.ElabNoBaseClass,
			"base class '"+r.symbols.Lookup(cls.Extends)+"' is not defined")

		return nil
	}

	base, ok := comp.(*design.ClassDefinition)
	if !ok {
		r.errAt(cls.Location, diag.ElabNoBaseClass,
			"'"+r.symbols.Lookup(cls.Extends)+"' is not a class")

		return nil
	}

	cls.BaseClass = base

	return base
}

func (r *Resolver) lookupPackage(name symtab.SymbolId) (*design.Package, bool) {
	comp, ok := r.registry.LookupByKey(design.QualifiedName{Library: r.library, Name: name}.Key())
	if !ok {
		return nil, false
	}

	pkg, ok := comp.(*design.Package)

	return pkg, ok
}

// ResolveExpr walks e's full tree, filling RefObj.Actual, MethodCall.Actual
// and HierPath.Actual as each reference resolves against scope. Operand
// subtrees are always visited, even when the reference at this node
// fails to resolve, so a single bad identifier does not stop the rest of
// the expression from being bound.
func (r *Resolver) ResolveExpr(e design.Expr, scope *Scope) {
	if e == nil {
		return
	}

	switch n := e.(type) {
	case *design.Constant:
		// Nothing to resolve.
	case *design.RefObj:
		if v, ok := r.Resolve(n.Name, scope); ok {
			n.Actual = v
		} else {
			r.errAt(n.Location, diag.ElabUndefinedVariable,
				"'"+r.symbols.Lookup(n.Name)+"' is not defined in this scope")
		}
	case *design.Operation:
		for _, o := range n.Operands {
			r.ResolveExpr(o, scope)
		}
	case *design.MethodCall:
		r.ResolveExpr(n.Target, scope)

		for _, a := range n.Args {
			r.ResolveExpr(a, scope)
		}

		if n.Target == nil {
			if v, ok := r.Resolve(n.Name, scope); ok {
				if sub, ok := v.(*design.Subroutine); ok {
					n.Actual = sub
				}
			}
		}
	case *design.Select:
		r.ResolveExpr(n.Target, scope)
		r.ResolveExpr(n.High, scope)
		r.ResolveExpr(n.Low, scope)
	case *design.HierPath:
		r.resolveHierPath(n, scope)
	case *design.TaggedPattern:
		r.ResolveExpr(n.Inner, scope)
	case *design.AssignmentPattern:
		for _, p := range n.Positional {
			r.ResolveExpr(p, scope)
		}

		for _, p := range n.Named {
			r.ResolveExpr(p, scope)
		}
	case *design.UnsupportedExpr:
		// Nothing to resolve.
	}
}

// resolveHierPath resolves a hierarchical path segment by segment, per
// spec.md section 4.5: "each segment's resolution narrows the scope used
// for the next." Only the first segment can use the full cascade; later
// segments narrow to whatever component the previous segment resolved
// into, since a design component's own symbol table (not a nested local
// scope) is all that's left to search once the path has stepped outside
// the starting scope.
func (r *Resolver) resolveHierPath(n *design.HierPath, scope *Scope) {
	if len(n.Segments) == 0 {
		return
	}

	v, ok := r.Resolve(n.Segments[0], scope)
	if !ok {
		r.errAt(design.Loc{}, diag.ElabUndefinedVariable,
			"'"+r.symbols.Lookup(n.Segments[0])+"' is not defined in this scope")

		return
	}

	for _, seg := range n.Segments[1:] {
		comp, ok := asComponent(v)
		if !ok {
			break
		}

		v, ok = componentMember(comp, seg)
		if !ok {
			break
		}
	}

	n.Actual = v
}

func asComponent(v interface{}) (design.DesignComponent, bool) {
	switch t := v.(type) {
	case *design.Instantiation:
		if t.Definition != nil {
			return t.Definition, true
		}

		return nil, false
	case design.DesignComponent:
		return t, true
	default:
		return nil, false
	}
}

// ResolveTypespec fills the Actual/Definition pointer a TypedefAlias,
// ImportRef, ClassRef, or InterfaceRef carries after C6/C7 leaves it
// unresolved-by-name, and recurses into any nested typespec (array
// element, enum base type, struct members).
func (r *Resolver) ResolveTypespec(t design.Typespec, scope *Scope) {
	switch tt := t.(type) {
	case nil:
		return
	case *design.TypedefAlias:
		v, ok := r.Resolve(tt.Name, scope)
		if !ok {
			r.errAt(design.Loc{}, diag.ElabUndefinedType,
				"type '"+r.symbols.Lookup(tt.Name)+"' is not defined")

			return
		}

		switch actual := v.(type) {
		case design.Typespec:
			tt.Actual = actual
		case *design.ClassDefinition:
			tt.Actual = &design.ClassRef{Name: tt.Name, Definition: actual}
		case *design.Interface:
			tt.Actual = &design.InterfaceRef{Name: tt.Name, Definition: actual}
		case *design.Module:
			tt.Actual = &design.ModuleRef{Name: tt.Name, Definition: actual}
		}
	case *design.Array:
		r.ResolveTypespec(tt.Element, scope)
	case *design.Enum:
		r.ResolveTypespec(tt.BaseType, scope)
	case *design.Struct:
		for _, m := range tt.Members {
			r.ResolveTypespec(m.Typespec, scope)
		}
	case *design.ImportRef:
		if pkg, ok := r.lookupPackage(tt.PackageName); ok {
			if v, ok := componentMember(pkg, tt.MemberName); ok {
				if ts, ok := v.(design.Typespec); ok {
					tt.Actual = ts
				}
			}
		}
	case *design.ClassRef:
		if tt.Definition == nil {
			if v, ok := r.Resolve(tt.Name, scope); ok {
				if cls, ok := v.(*design.ClassDefinition); ok {
					tt.Definition = cls
				}
			}
		}
	case *design.InterfaceRef:
		if tt.Definition == nil {
			v, ok := r.Resolve(tt.Name, scope)
			if ifc, isIfc := v.(*design.Interface); ok && isIfc {
				tt.Definition = ifc
			} else {
				r.errAt(design.Loc{}, diag.ComponentUndefinedInterface,
					"interface '"+r.symbols.Lookup(tt.Name)+"' is not defined")
			}
		}
	}
}

// errAt reports a diagnostic at loc, which may be the zero value when
// the unresolved reference (a HierPath segment, a TypedefAlias) carries
// no Loc of its own -- the sort order degrades gracefully to "unknown
// position" in that case rather than needing every caller to thread one
// through.
func (r *Resolver) errAt(loc design.Loc, kind diag.Kind, msg string) {
	r.errs.Add(diag.Error{
		Kind:     kind,
		Severity: diag.SeverityError,
		Primary:  diag.Location{PathId: uint32(loc.File), Line: loc.Line, Column: loc.Column},
		Message:  msg,
	})
}
