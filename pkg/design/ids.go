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

// Package design holds the data model of spec.md section 3: design
// components (modules, interfaces, packages, classes, programs, UDPs),
// their signals, typespecs, expression IR, constant values, the design
// registry (C5), and the elaborated instance tree (C9's output).
package design

import (
	"fmt"

	"github.com/Apotell/surelog-core/pkg/symtab"
)

// Kind distinguishes the polymorphic set of design components spec.md
// section 3 names: "{Module, Interface, Program, Package, UdpDefn,
// ClassDefinition, FileContent-as-package}".
type Kind uint8

// Recognized design-component kinds.
const (
	KindModule Kind = iota
	KindInterface
	KindProgram
	KindPackage
	KindClass
	KindUdp
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindInterface:
		return "interface"
	case KindProgram:
		return "program"
	case KindPackage:
		return "package"
	case KindClass:
		return "class"
	case KindUdp:
		return "primitive"
	default:
		return "unknown"
	}
}

// QualifiedName is a component's library-qualified name, spec.md section 3
// "lib@Name".
type QualifiedName struct {
	Library string
	Name    symtab.SymbolId
}

func (q QualifiedName) String(symbols *symtab.Table) string {
	return fmt.Sprintf("%s@%s", q.Library, symbols.Lookup(q.Name))
}

// Key returns a map-friendly key for this qualified name (library is
// already a plain string, so this just pairs it with the raw symbol id).
func (q QualifiedName) Key() string {
	return fmt.Sprintf("%s@%d", q.Library, q.Name)
}
