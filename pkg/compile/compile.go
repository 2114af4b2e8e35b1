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

// Package compile implements the component compiler (C6) and the
// type/expression compiler (C7) of spec.md section 2. C6 walks a parsed
// file's VObject arena and produces design.DesignComponent shells filled
// with signals, parameters, typedefs, subroutines, instances, processes,
// and generate scaffolding. C7 is folded into the same walk: every
// typespec and expression node is compiled as its enclosing declaration
// is visited, with constant expressions folded to a design.Value
// immediately where possible (spec.md section 4.4).
package compile

import (
	"github.com/Apotell/surelog-core/pkg/ast"
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// Compiler holds the state shared across every declaration in one
// library: the interned symbol table, the diagnostic sink, and the
// design registry every compiled top-level component is registered
// into. One Compiler is safe to reuse across many files compiled
// concurrently by a worker pool (spec.md section 5), since its only
// mutable shared resource -- the Registry -- is already synchronized.
type Compiler struct {
	symbols  *symtab.Table
	errs     *diag.Container
	registry *design.Registry
	library  string
}

// NewCompiler constructs a Compiler targeting library, registering
// compiled top-level components into registry.
func NewCompiler(symbols *symtab.Table, errs *diag.Container, registry *design.Registry, library string) *Compiler {
	return &Compiler{symbols: symbols, errs: errs, registry: registry, library: library}
}

// CompileFile runs C6/C7 over every top-level declaration in fc,
// registers each compiled component, and returns them in declaration
// order.
func (c *Compiler) CompileFile(fc *ast.FileContent) []design.DesignComponent {
	var out []design.DesignComponent

	for _, id := range fc.Children(fc.Root) {
		comp := c.compileTop(fc, id)
		if comp == nil {
			continue
		}

		if !c.registry.Register(comp) {
			c.errAt(fc, id, diag.ComponentMultiplyDefinedProperty,
				"component '"+c.symbols.Lookup(comp.ComponentName())+"' already defined")

			continue
		}

		out = append(out, comp)
	}

	return out
}

func (c *Compiler) compileTop(fc *ast.FileContent, id ast.Id) design.DesignComponent {
	switch fc.Get(id).Type {
	case ast.KindModuleDecl:
		return c.compileModule(fc, id)
	case ast.KindInterfaceDecl:
		return c.compileInterface(fc, id)
	case ast.KindProgramDecl:
		return c.compileProgram(fc, id)
	case ast.KindPackageDecl:
		return c.compilePackage(fc, id)
	case ast.KindClassDecl:
		return c.compileClass(fc, id)
	case ast.KindUdpDecl:
		return c.compileUdp(fc, id)
	default:
		return nil
	}
}

func (c *Compiler) errAt(fc *ast.FileContent, id ast.Id, kind diag.Kind, msg string) {
	v := fc.Get(id)
	c.errs.Add(diag.Error{
		Kind:     kind,
		Severity: diag.SeverityError,
		Primary:  diag.Location{PathId: uint32(v.File), Line: v.Line, Column: v.Column},
		Message:  msg,
	})
}

func locOf(fc *ast.FileContent, id ast.Id) design.Loc {
	v := fc.Get(id)
	return design.Loc{File: v.File, Line: v.Line, Column: v.Column}
}

// bodyOut accumulates everything a component body can contain. Not every
// concrete component kind uses every field -- a Package only keeps
// Params/Typedefs/Subs, for instance -- but collecting all of them in one
// linear three-phase pass is simpler than writing one pass per kind.
type bodyOut struct {
	Params      []*design.Parameter
	Typedefs    map[symtab.SymbolId]design.Typespec
	Subs        []*design.Subroutine
	Ports       []*design.Signal
	Nets        []*design.Signal
	Modports    []*design.Modport
	Instances   []*design.Instantiation
	ContAssigns []*design.ContAssign
	Processes   []*design.Process
	Generates   []*design.GenerateNode
	Binds       []*design.BindDirective
	Assertions  []*design.AssertionDecl
	Imports     []symtab.SymbolId
}

func newBodyOut() *bodyOut {
	return &bodyOut{Typedefs: make(map[symtab.SymbolId]design.Typespec)}
}

// compileBody runs the three-phase visit of spec.md section 4.3 over one
// component's direct children (plus any ANSI port-list children already
// parsed into KindPortDecl nodes alongside the body):
//
//	Phase FUNCTION   -- task/function signatures (bodies deferred)
//	Phase DEFINITION -- parameters, ports, nets, typedefs, modports
//	Phase OTHER      -- instances, processes, generates, binds, assertions
//
// Each phase is one linear pass over the full child list so that
// document order is preserved within a phase -- a parameter referenced
// by a later port's dimension expression is compiled (and foldable)
// before that port is reached, matching spec.md scenario S3.
func (c *Compiler) compileBody(fc *ast.FileContent, children []ast.Id) *bodyOut {
	out := newBodyOut()
	localParams := make(map[symtab.SymbolId]*design.Parameter)

	// Phase FUNCTION.
	seenSubs := make(map[symtab.SymbolId]bool)

	for _, id := range children {
		v := fc.Get(id)

		switch v.Type {
		case ast.KindTaskDecl, ast.KindFunctionDecl:
			sub := c.compileSubroutine(fc, id)

			if seenSubs[sub.Name] {
				kind := diag.ComponentMultiplyDefinedTask
				if v.Type == ast.KindFunctionDecl {
					kind = diag.ComponentMultiplyDefinedFunction
				}

				c.errAt(fc, id, kind, "'"+c.symbols.Lookup(sub.Name)+"' is already defined in this scope")

				continue
			}

			seenSubs[sub.Name] = true
			out.Subs = append(out.Subs, sub)
		}
	}

	// Phase DEFINITION.
	for _, id := range children {
		v := fc.Get(id)

		switch v.Type {
		case ast.KindParamDecl:
			param := c.compileParameter(fc, id, localParams)
			out.Params = append(out.Params, param)
			localParams[param.Name] = param

		case ast.KindPortDecl:
			out.Ports = append(out.Ports, c.compileSignal(fc, id, true, localParams))

		case ast.KindNetDecl:
			out.Nets = append(out.Nets, c.compileSignal(fc, id, false, localParams))

		case ast.KindTypedefDecl:
			name := v.Symbol
			typeChild := fc.Children(id)[0]
			out.Typedefs[name] = c.compileTypespec(fc, typeChild, localParams)

		case ast.KindModportDecl:
			out.Modports = append(out.Modports, c.compileModport(fc, id))

		case ast.KindImportDecl:
			out.Imports = append(out.Imports, v.Symbol)

		case ast.KindStatementBlock:
			// A multi-declarator net/var statement (`logic a, b;`) is wrapped
			// in a KindStatementBlock by the parser; unwrap its children as
			// individual net declarations.
			for _, sub := range fc.Children(id) {
				if fc.Get(sub).Type == ast.KindNetDecl {
					out.Nets = append(out.Nets, c.compileSignal(fc, sub, false, localParams))
				}
			}
		}
	}

	// Phase OTHER.
	for _, id := range children {
		v := fc.Get(id)

		switch v.Type {
		case ast.KindInstantiation:
			out.Instances = append(out.Instances, c.compileInstantiation(fc, id, localParams))

		case ast.KindStatementBlock:
			// Either a multi-instance statement or an opaque nested block
			// left over from statement-body skipping; only the former
			// carries KindInstantiation children worth keeping.
			for _, sub := range fc.Children(id) {
				if fc.Get(sub).Type == ast.KindInstantiation {
					out.Instances = append(out.Instances, c.compileInstantiation(fc, sub, localParams))
				}
			}

		case ast.KindContAssign:
			out.ContAssigns = append(out.ContAssigns, c.compileContAssign(fc, id, localParams))

		case ast.KindAlwaysBlock, ast.KindInitialBlock, ast.KindFinalBlock:
			out.Processes = append(out.Processes, c.compileProcess(fc, id))

		case ast.KindGenerateBlock, ast.KindGenerateFor, ast.KindGenerateIf, ast.KindGenerateCase:
			out.Generates = append(out.Generates, c.compileGenerate(fc, id, localParams))

		case ast.KindBindDirective:
			out.Binds = append(out.Binds, c.compileBind(fc, id, localParams))

		case ast.KindAssertionDecl:
			out.Assertions = append(out.Assertions, c.compileAssertion(fc, id, localParams))
		}
	}

	return out
}

func (c *Compiler) compileModule(fc *ast.FileContent, id ast.Id) *design.Module {
	v := fc.Get(id)
	mod := design.NewModule(c.library, v.Symbol, id)
	mod.Location = locOf(fc, id)

	out := c.compileBody(fc, fc.Children(id))
	mod.Params = out.Params
	mod.TypedefMap = out.Typedefs
	mod.Subs = out.Subs
	mod.Ports = out.Ports
	mod.Nets = out.Nets
	mod.Modports = out.Modports
	mod.Instances = out.Instances
	mod.ContAssigns = out.ContAssigns
	mod.Processes = out.Processes
	mod.Generates = out.Generates
	mod.Binds = out.Binds
	mod.Assertions = out.Assertions
	mod.Imports = out.Imports

	return mod
}

func (c *Compiler) compileInterface(fc *ast.FileContent, id ast.Id) *design.Interface {
	v := fc.Get(id)
	ifc := design.NewInterface(c.library, v.Symbol, id)
	ifc.Location = locOf(fc, id)

	out := c.compileBody(fc, fc.Children(id))
	ifc.Params = out.Params
	ifc.TypedefMap = out.Typedefs
	ifc.Subs = out.Subs
	ifc.Ports = out.Ports
	ifc.Nets = out.Nets
	ifc.Modports = out.Modports
	ifc.Instances = out.Instances
	ifc.ContAssigns = out.ContAssigns
	ifc.Processes = out.Processes
	ifc.Generates = out.Generates

	return ifc
}

func (c *Compiler) compileProgram(fc *ast.FileContent, id ast.Id) *design.Program {
	v := fc.Get(id)
	prog := design.NewProgram(c.library, v.Symbol, id)
	prog.Location = locOf(fc, id)

	out := c.compileBody(fc, fc.Children(id))
	prog.Params = out.Params
	prog.TypedefMap = out.Typedefs
	prog.Subs = out.Subs
	prog.Ports = out.Ports
	prog.Nets = out.Nets
	prog.Instances = out.Instances
	prog.Processes = out.Processes

	return prog
}

func (c *Compiler) compilePackage(fc *ast.FileContent, id ast.Id) *design.Package {
	v := fc.Get(id)
	pkg := design.NewPackage(c.library, v.Symbol, id)
	pkg.Location = locOf(fc, id)

	out := c.compileBody(fc, fc.Children(id))
	pkg.Params = out.Params
	pkg.TypedefMap = out.Typedefs
	pkg.Subs = out.Subs

	return pkg
}

func (c *Compiler) compileClass(fc *ast.FileContent, id ast.Id) *design.ClassDefinition {
	v := fc.Get(id)
	cls := design.NewClassDefinition(c.library, v.Symbol, id)
	cls.Location = locOf(fc, id)

	var bodyChildren []ast.Id

	for _, child := range fc.Children(id) {
		if fc.Get(child).Type == ast.KindExtendsDecl {
			cls.Extends = fc.Get(child).Symbol
			continue
		}

		bodyChildren = append(bodyChildren, child)
	}

	out := c.compileBody(fc, bodyChildren)
	cls.Params = out.Params
	cls.TypedefMap = out.Typedefs
	cls.Subs = out.Subs

	for _, n := range out.Nets {
		cls.Members = append(cls.Members, n)
	}

	return cls
}

func (c *Compiler) compileUdp(fc *ast.FileContent, id ast.Id) *design.UdpDefinition {
	v := fc.Get(id)
	udp := design.NewUdpDefinition(c.library, v.Symbol, id)
	udp.Location = locOf(fc, id)

	out := c.compileBody(fc, fc.Children(id))
	udp.Ports = out.Ports

	return udp
}
