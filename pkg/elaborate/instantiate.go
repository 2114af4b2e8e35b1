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
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

func (e *Elaborator) expandInstances(parent *design.ModuleInstance, insts []*design.Instantiation, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) {
	for _, di := range insts {
		if child := e.expandOne(parent, di, values, genvars); child != nil {
			parent.Children = append(parent.Children, child)
		}
	}
}

// expandOne implements spec.md section 4.6 step 3 for one sub-instance
// reference: clone the target only if an override applies, bind
// parameters/ports, and recurse into the (possibly cloned) definition's
// own body.
func (e *Elaborator) expandOne(parent *design.ModuleInstance, di *design.Instantiation, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) *design.ModuleInstance {
	if di.Definition == nil {
		// C8 already raised ElabUndefinedType for this site.
		return nil
	}

	target := di.Definition
	if len(di.ParamBindings) > 0 {
		target = design.Clone(di.Definition)
	}

	child := design.NewModuleInstance(di.InstanceName, target)
	child.Parent = parent
	child.Location = di.Location

	childValues, childTypes := e.bindParams(child, target, di, values, genvars)
	child.ParamValues = childValues
	child.TypeParamValues = childTypes

	e.bindPorts(child, target, di)

	e.expandBody(child, target, childValues, nil)

	return child
}

// bindParams implements spec.md section 4.6's parameter propagation
// rules: positional bindings match declaration order, named bindings
// match by identifier, and an override that corresponds to no declared
// parameter is ElabError::UnknownParameterBinding. Overrides are folded
// in the instantiating scope (values/genvars); a parameter's own default,
// when not overridden, is folded against target's own earlier parameters
// so later defaults still see an overridden earlier sibling.
func (e *Elaborator) bindParams(child *design.ModuleInstance, target design.DesignComponent, di *design.Instantiation, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) (map[symtab.SymbolId]design.Value, map[symtab.SymbolId]design.Typespec) {
	params := target.Parameters()

	overrides := make(map[symtab.SymbolId]design.Expr, len(di.ParamBindings))
	positional := 0

	for _, b := range di.ParamBindings {
		if b.Name == symtab.BadSymbolId {
			if positional >= len(params) {
				e.errAt(b.Location, diag.ElabUnknownParameterBinding, "too many positional parameter overrides")
				positional++

				continue
			}

			overrides[params[positional].Name] = b.Value
			positional++

			continue
		}

		if findParam(params, b.Name) == nil {
			e.errAt(b.Location, diag.ElabUnknownParameterBinding, "no parameter named in this instantiation")
			continue
		}

		overrides[b.Name] = b.Value
	}

	localValues := make(map[symtab.SymbolId]design.Value, len(params))
	localTypes := make(map[symtab.SymbolId]design.Typespec)

	for _, p := range params {
		if p.IsType {
			localTypes[p.Name] = p.TypeDefault

			if expr, ok := overrides[p.Name]; ok {
				if ts, ok := typespecFromExpr(expr); ok {
					localTypes[p.Name] = ts
				}
			}

			continue
		}

		if expr, ok := overrides[p.Name]; ok {
			localValues[p.Name] = e.foldExpr(expr, values, genvars)
		} else {
			localValues[p.Name] = e.foldExpr(p.Default, localValues, nil)
		}
	}

	return localValues, localTypes
}

func findParam(params []*design.Parameter, name symtab.SymbolId) *design.Parameter {
	for _, p := range params {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// bindPorts records every port-connection expression on child, matching
// positional bindings to target's port order and named bindings by
// identifier; an unmatched name is still recorded verbatim since the
// front end does not validate port names at this stage.
func (e *Elaborator) bindPorts(child *design.ModuleInstance, target design.DesignComponent, di *design.Instantiation) {
	ports := portsOf(target)
	positional := 0

	for _, b := range di.PortBindings {
		if b.Name == symtab.BadSymbolId {
			if positional >= len(ports) {
				positional++
				continue
			}

			child.PortConnections[ports[positional].Name] = b.Value
			positional++

			continue
		}

		child.PortConnections[b.Name] = b.Value
	}
}

func portsOf(comp design.DesignComponent) []*design.Signal {
	switch c := comp.(type) {
	case *design.Module:
		return c.Ports
	case *design.Interface:
		return c.Ports
	case *design.Program:
		return c.Ports
	default:
		return nil
	}
}
