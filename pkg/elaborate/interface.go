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
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// connectInterfacePorts implements spec.md section 4.6 step 5: for every
// port declared with an interface type, resolve the expression it was
// connected with (written in the *enclosing* instance's own scope, not
// child's) to an already-elaborated sibling interface instance, and
// record the modport selected at this instantiation site if any.
//
// The connection expression was compiled at C6/C7 time as a plain
// identifier and resolved by C8 against the enclosing component's own
// symbol table, so by elaboration time the only thing left to do is find
// which of the parent instance's already-built children (inst's siblings)
// is the interface instance that identifier names -- interface instances are themselves ordinary
// Instantiation entries, built by the same expandOne as any sub-module.
func (e *Elaborator) connectInterfacePorts(inst *design.ModuleInstance, ports []*design.Signal, values map[symtab.SymbolId]design.Value, genvars map[symtab.SymbolId]int64) {
	if inst.Parent == nil {
		return
	}

	for _, port := range ports {
		if port.Interface == nil {
			continue
		}

		connExpr, ok := inst.PortConnections[port.Name]
		if !ok {
			continue
		}

		ref, ok := connExpr.(*design.RefObj)
		if !ok {
			continue
		}

		sibling := findInterfaceChild(inst.Parent, ref.Name)
		if sibling == nil {
			continue
		}

		inst.InterfaceInstances[port.Name] = sibling

		if port.Interface.Modport != symtab.BadSymbolId {
			inst.ModportBindings[port.Name] = port.Interface.Modport
		}
	}
}

// findInterfaceChild looks for an already-elaborated child of parent
// whose instance name is name and whose definition is an Interface -- the
// sibling an interface-typed port connection names.
func findInterfaceChild(parent *design.ModuleInstance, name symtab.SymbolId) *design.ModuleInstance {
	for _, child := range parent.Children {
		if child.Name != name {
			continue
		}

		if _, ok := child.Definition.(*design.Interface); ok {
			return child
		}
	}

	return nil
}
