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
package design

import "github.com/Apotell/surelog-core/pkg/symtab"

// ModuleInstance is a single elaborated instance (spec.md section 3):
// "Owns instance name, definition pointer, file/line, parameter-value
// bindings, modport bindings, ordered children, and a link to an IR
// instance node."
type ModuleInstance struct {
	Name       symtab.SymbolId
	Definition DesignComponent
	// Parent is nil for a top-level instance.
	Parent   *ModuleInstance
	Location Loc

	// ParamValues holds the resolved (possibly overridden) value of every
	// value parameter declared on Definition, keyed by parameter name.
	ParamValues map[symtab.SymbolId]Value
	// TypeParamValues holds resolved type-parameter overrides.
	TypeParamValues map[symtab.SymbolId]Typespec

	// PortConnections maps a port name to the expression connected to it
	// in the enclosing scope (nil if unconnected).
	PortConnections map[symtab.SymbolId]Expr
	// ModportBindings maps an interface-port name to the modport name
	// selected at this instantiation site, if any (spec.md scenario S5).
	ModportBindings map[symtab.SymbolId]symtab.SymbolId
	// InterfaceInstances maps an interface-port name to the resolved
	// interface instance it is bound to.
	InterfaceInstances map[symtab.SymbolId]*ModuleInstance

	Children []*ModuleInstance

	// GenScopes holds the generate scopes produced directly under this
	// instance (spec.md scenario S6), in expansion order; each carries its
	// own Name (e.g. "genblk1[0]" for an unlabeled for-generate).
	GenScopes []*GenScope
}

// GenScope is one concrete scope produced by expanding a generate
// construct during elaboration (spec.md section 4.6 step 4).
type GenScope struct {
	Name     symtab.SymbolId
	Index    int64 // genvar value for a `for`-generate iteration, else -1
	Children []*ModuleInstance
	Signals  []*Signal
	// Nested holds scopes produced by a generate construct directly
	// inside this one's body (a generate-for containing a generate-if,
	// for instance).
	Nested   []*GenScope
	Location Loc
}

// NewModuleInstance constructs an instance with empty parameter/port
// binding maps, ready for the elaborator to populate.
func NewModuleInstance(name symtab.SymbolId, def DesignComponent) *ModuleInstance {
	return &ModuleInstance{
		Name:               name,
		Definition:          def,
		ParamValues:         make(map[symtab.SymbolId]Value),
		TypeParamValues:     make(map[symtab.SymbolId]Typespec),
		PortConnections:     make(map[symtab.SymbolId]Expr),
		ModportBindings:     make(map[symtab.SymbolId]symtab.SymbolId),
		InterfaceInstances:  make(map[symtab.SymbolId]*ModuleInstance),
	}
}

// ValueOf returns the elaborated value of parameter name on this
// instance, honoring spec.md section 8 property 5: overrides are visible
// on the instance while the unelaborated definition keeps seeing its
// default.
func (m *ModuleInstance) ValueOf(name symtab.SymbolId) (Value, bool) {
	v, ok := m.ParamValues[name]
	return v, ok
}

// InstanceTree is the root collection the elaborator produces: one
// ModuleInstance per top module, per spec.md section 4.6 step 2.
type InstanceTree struct {
	Tops []*ModuleInstance
}

// Clone produces a deep-enough copy of comp suitable for elaboration with
// parameter/typedef overrides applied, per spec.md's invariant
// ("Parameter and typedef overrides are applied on clones -- the
// unelaborated component keeps its original definition"). Only the
// parameter/typedef maps are deep-copied; nested task/function/process IR
// is shared by reference since those bodies are not mutated by
// elaboration.
func Clone(comp DesignComponent) DesignComponent {
	switch c := comp.(type) {
	case *Module:
		clone := *c
		clone.Params = cloneParams(c.Params)
		clone.TypedefMap = cloneTypedefs(c.TypedefMap)

		return &clone
	case *Interface:
		clone := *c
		clone.Params = cloneParams(c.Params)
		clone.TypedefMap = cloneTypedefs(c.TypedefMap)

		return &clone
	case *Program:
		clone := *c
		clone.Params = cloneParams(c.Params)
		clone.TypedefMap = cloneTypedefs(c.TypedefMap)

		return &clone
	case *ClassDefinition:
		clone := *c
		clone.Params = cloneParams(c.Params)
		clone.TypedefMap = cloneTypedefs(c.TypedefMap)

		return &clone
	default:
		return comp
	}
}

func cloneParams(params []*Parameter) []*Parameter {
	out := make([]*Parameter, len(params))
	for i, p := range params {
		cp := *p
		out[i] = &cp
	}

	return out
}

func cloneTypedefs(m map[symtab.SymbolId]Typespec) map[symtab.SymbolId]Typespec {
	out := make(map[symtab.SymbolId]Typespec, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
