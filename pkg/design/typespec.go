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

// TypespecKind tags the structural category of a Typespec, per spec.md
// section 3: "polymorphic over {logic, bit, int variants, real, string,
// chandle, void, enum, struct, union, array-of-T, packed-array-of-T,
// class, interface, module, typedef-alias, import, unsupported}".
type TypespecKind uint8

// Recognized typespec kinds.
const (
	TSLogic TypespecKind = iota
	TSBit
	TSInt
	TSShortInt
	TSLongInt
	TSByte
	TSInteger
	TSTime
	TSReal
	TSShortReal
	TSString
	TSChandle
	TSVoid
	TSEnum
	TSStruct
	TSUnion
	TSArray
	TSPackedArray
	TSClass
	TSInterface
	TSModule
	TSTypedefAlias
	TSImport
	TSUnsupported
)

// Typespec is a tagged-kind IR node describing a SystemVerilog data type.
// Every implementation satisfies this single interface rather than
// forming an open class hierarchy -- the closed Kind() switch is how
// downstream passes (the integrity checker in particular) dispatch on
// shape, matching the "tagged enum ... dispatch via pattern matching"
// design called for in spec.md section 9.
type Typespec interface {
	Kind() TypespecKind
	// Instance is the innermost enclosing component this typespec was
	// instantiated against -- e.g. when a typedef from package P is used
	// inside module M, Instance returns P's component, not M's (spec.md
	// section 4.4 "Typespec rules"). Built-in primitive typespecs (logic,
	// int, ...) return nil.
	Instance() DesignComponent
	SetInstance(DesignComponent)
}

// base carries the Instance pointer shared by every concrete typespec, so
// individual kinds only need to embed it.
type base struct {
	instance DesignComponent
}

func (b *base) Instance() DesignComponent       { return b.instance }
func (b *base) SetInstance(c DesignComponent)   { b.instance = c }

// Primitive is a built-in scalar/vector typespec (logic, bit, int, real,
// string, chandle, void, time, and friends). Packed/unpacked dimensions
// attached to a signal declaration live on Signal, not here -- a Primitive
// carries at most the single packed range of its own type (MSB/LSB).
type Primitive struct {
	base
	TKind  TypespecKind
	Signed bool
	// MSB/LSB describe a single packed range, e.g. logic [7:0] -> 7,0.
	// Zero-width (scalar) types leave both at 0.
	MSB, LSB int64
}

// Kind implements Typespec.
func (p *Primitive) Kind() TypespecKind { return p.TKind }

// Width returns the bit width implied by MSB/LSB (inclusive range).
func (p *Primitive) Width() uint32 {
	if p.MSB >= p.LSB {
		return uint32(p.MSB-p.LSB) + 1
	}

	return uint32(p.LSB-p.MSB) + 1
}

// EnumMember is one named value of an enum typespec.
type EnumMember struct {
	Name  symtab.SymbolId
	Value Value
}

// Enum is an enumerated typespec.
type Enum struct {
	base
	BaseType Typespec
	Members  []EnumMember
}

// Kind implements Typespec.
func (*Enum) Kind() TypespecKind { return TSEnum }

// StructMember is one field of a struct/union typespec.
type StructMember struct {
	Name     symtab.SymbolId
	Typespec Typespec
}

// Struct is a packed or unpacked struct/union typespec.
type Struct struct {
	base
	Union   bool
	Packed  bool
	Members []StructMember
}

// Kind implements Typespec.
func (s *Struct) Kind() TypespecKind {
	if s.Union {
		return TSUnion
	}

	return TSStruct
}

// Array is an array-of-T or packed-array-of-T typespec.
type Array struct {
	base
	Element Typespec
	Packed  bool
	MSB, LSB int64
}

// Kind implements Typespec.
func (a *Array) Kind() TypespecKind {
	if a.Packed {
		return TSPackedArray
	}

	return TSArray
}

// ClassRef is a typespec referring to a class (by resolved definition, or
// unresolved by name until C8 binds it).
type ClassRef struct {
	base
	Name       symtab.SymbolId
	Definition *ClassDefinition
	TypeArgs   []Typespec
}

// Kind implements Typespec.
func (*ClassRef) Kind() TypespecKind { return TSClass }

// InterfaceRef is a typespec referring to an interface (optionally with a
// modport), used for interface ports.
type InterfaceRef struct {
	base
	Name       symtab.SymbolId
	Modport    symtab.SymbolId
	Definition *Interface
}

// Kind implements Typespec.
func (*InterfaceRef) Kind() TypespecKind { return TSInterface }

// ModuleRef is a typespec naming a module (rare, but legal in some port
// contexts and in $typeof-style introspection).
type ModuleRef struct {
	base
	Name       symtab.SymbolId
	Definition *Module
}

// Kind implements Typespec.
func (*ModuleRef) Kind() TypespecKind { return TSModule }

// TypedefAlias is an unresolved or resolved reference to a typedef name;
// after C8 resolves it, Actual points at the aliased typespec.
type TypedefAlias struct {
	base
	Name   symtab.SymbolId
	Actual Typespec
}

// Kind implements Typespec.
func (*TypedefAlias) Kind() TypespecKind { return TSTypedefAlias }

// ImportRef models a `package::*` or `package::name` import typespec use.
type ImportRef struct {
	base
	PackageName symtab.SymbolId
	MemberName  symtab.SymbolId
	Actual      Typespec
}

// Kind implements Typespec.
func (*ImportRef) Kind() TypespecKind { return TSImport }

// Unsupported is emitted for AST shapes the type/expression compiler does
// not (yet) understand, per spec.md section 4.4: "emit an 'unsupported' IR
// node rather than a hard failure -- late passes can still traverse."
type Unsupported struct {
	base
	Reason string
}

// Kind implements Typespec.
func (*Unsupported) Kind() TypespecKind { return TSUnsupported }
