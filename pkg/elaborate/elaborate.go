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

// Package elaborate implements the elaborator (C9, spec.md section 4.6):
// a single-threaded walk from the design's top modules down, producing a
// design.InstanceTree by applying parameter/typedef overrides on clones,
// expanding generate constructs, and connecting interface ports.
package elaborate

import (
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// maxGenerateIterations bounds a single `for`-generate's expansion --
// spec.md's invariant is that the iterator bounds fold to integer
// literals, so any well-formed design terminates far below this; it only
// guards against a malformed design folding to a pathological or
// non-terminating bound.
const maxGenerateIterations = 1 << 20

// Elaborator holds the state a C9 pass needs: the registry every
// top-module/sub-instance definition comes from, the symbol table for
// synthesizing generate-scope names, and the diagnostic sink.
type Elaborator struct {
	registry *design.Registry
	symbols  *symtab.Table
	errs     *diag.Container
}

// NewElaborator constructs an Elaborator over registry. Call Elaborate
// only after every component in registry has been through C8 resolve --
// Registry.TopModules relies on Instantiation.Definition already being
// filled in to tell a genuine top module from an unresolved reference.
func NewElaborator(registry *design.Registry, symbols *symtab.Table, errs *diag.Container) *Elaborator {
	return &Elaborator{registry: registry, symbols: symbols, errs: errs}
}

// Elaborate runs spec.md section 4.6 steps 1-5 over every top module and
// returns the resulting instance tree, in registration order.
func (e *Elaborator) Elaborate() *design.InstanceTree {
	tree := &design.InstanceTree{}

	for _, m := range e.registry.TopModules() {
		tree.Tops = append(tree.Tops, e.elaborateTop(m))
	}

	return tree
}

func (e *Elaborator) elaborateTop(m *design.Module) *design.ModuleInstance {
	root := design.NewModuleInstance(m.Name, m)
	root.Location = m.Location

	values, types := e.defaultParamValues(m.Parameters(), nil)
	root.ParamValues = values
	root.TypeParamValues = types

	e.expandBody(root, m, values, nil)

	return root
}

// defaultParamValues folds every value parameter's own Default against
// the component's own preceding parameters (localValues accumulates as
// it goes, so a later parameter's default may reference an earlier one,
// per spec.md scenario S3 carried through to elaboration) and copies
// every type parameter's TypeDefault verbatim.
func (e *Elaborator) defaultParamValues(params []*design.Parameter, genvars map[symtab.SymbolId]int64) (map[symtab.SymbolId]design.Value, map[symtab.SymbolId]design.Typespec) {
	values := make(map[symtab.SymbolId]design.Value, len(params))
	types := make(map[symtab.SymbolId]design.Typespec)

	for _, p := range params {
		if p.IsType {
			types[p.Name] = p.TypeDefault
			continue
		}

		values[p.Name] = e.foldExpr(p.Default, values, genvars)
	}

	return values, types
}

func (e *Elaborator) expandBody(inst *design.ModuleInstance, comp design.DesignComponent, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) {
	switch c := comp.(type) {
	case *design.Module:
		e.expandInstances(inst, c.Instances, values, genvars)
		e.expandGenerates(inst, c.Generates, values, genvars)
		e.connectInterfacePorts(inst, c.Ports, values, genvars)
	case *design.Interface:
		e.expandInstances(inst, c.Instances, values, genvars)
		e.expandGenerates(inst, c.Generates, values, genvars)
		e.connectInterfacePorts(inst, c.Ports, values, genvars)
	case *design.Program:
		e.expandInstances(inst, c.Instances, values, genvars)
	}
}

func (e *Elaborator) errAt(loc design.Loc, kind diag.Kind, msg string) {
	e.errs.Add(diag.Error{
		Kind:     kind,
		Severity: diag.SeverityError,
		Primary:  diag.Location{PathId: uint32(loc.File), Line: loc.Line, Column: loc.Column},
		Message:  msg,
	})
}
