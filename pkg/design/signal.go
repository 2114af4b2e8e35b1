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

// Direction is a port's signal direction.
type Direction uint8

// Recognized directions.
const (
	DirNone Direction = iota
	DirInput
	DirOutput
	DirInout
	DirRef
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	case DirRef:
		return "ref"
	default:
		return "none"
	}
}

// NetType is the net-kind of a non-port signal declaration (`wire`,
// `logic`/variable, `reg`, `tri`, ...). The component compiler records
// NetLogic for every declared signal: neither the declared keyword nor
// the `default_nettype in effect (CompilationUnit.DefaultNettypeAt) is
// consulted.
type NetType uint8

// Recognized net types.
const (
	NetWire NetType = iota
	NetLogic
	NetReg
	NetTri
	NetTri0
	NetTri1
	NetTriand
	NetTrior
	NetWand
	NetWor
	NetUwire
	NetSupply0
	NetSupply1
	NetImplicit
	NetNone // `default_nettype none` in effect; an undeclared implicit net is illegal
)

// Dimension is one packed or unpacked dimension of a Signal
// (`[msb:lsb]`), expressed as constant-foldable expressions so unresolved
// parameter-dependent ranges can still be represented before elaboration.
type Dimension struct {
	MSB Expr
	LSB Expr
}

// Signal is a port or net, per spec.md section 3. Packed and unpacked
// dimensions are kept as two distinct slices (see SPEC_FULL.md section
// 10, "Packed vs. unpacked dimension lists") because SystemVerilog treats
// their bit-ordering semantics differently.
type Signal struct {
	Name      symtab.SymbolId
	Direction Direction
	NetType   NetType
	Packed    []Dimension
	Unpacked  []Dimension
	// Interface/Modport are set when this signal is an interface port
	// (spec.md scenario S5); nil/bad otherwise.
	Interface *InterfaceRef
	Default   Expr
	Typespec  Typespec
	Location  Loc
	Attributes []Attribute
	// IsPort distinguishes a module/interface port from a plain internal
	// net/variable declaration.
	IsPort bool
}
