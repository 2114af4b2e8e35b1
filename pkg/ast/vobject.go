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

// Package ast holds the packed parse-tree representation (VObject arena)
// that the parser driver (pkg/parser) produces and every later pass reads.
//
// The arena is immutable after parse except for the Definition field,
// which is filled in once a declaration-level IR node exists for a VObject
// (spec.md section 3: "The AST is immutable after parse; definition may be
// filled later"). Edges between nodes are indices into the arena, not
// pointers, so the whole tree can be copied/shared cheaply and so the
// arena-monotonicity property (spec.md section 8 property 2) is a simple
// index comparison.
package ast

import "github.com/Apotell/surelog-core/pkg/symtab"

// Id is an index into a FileContent's VObject arena. Zero is reserved as
// "no node" (the arena's real root, if any, sits at a non-zero index
// because index 0 is never emitted by the builder below).
type Id uint32

// NoId marks the absence of a node reference.
const NoId Id = 0

// Kind enumerates VObject node kinds. Only the kinds this front end's
// parser subset actually emits are listed; unrecognized AST shapes that
// the type/expression compiler cannot classify become KindUnsupported
// rather than failing hard (spec.md section 4.4).
type Kind uint16

// Recognized VObject kinds.
const (
	KindInvalid Kind = iota
	KindDesign       // the synthetic root of a FileContent's arena
	KindModuleDecl
	KindInterfaceDecl
	KindProgramDecl
	KindPackageDecl
	KindClassDecl
	KindUdpDecl
	KindPortDecl
	KindPortlist
	KindParamDecl
	KindParamAssignment
	KindNetDecl
	KindVarDecl
	KindTypedefDecl
	KindModportDecl
	KindModportItem
	KindTaskDecl
	KindFunctionDecl
	KindArgDecl
	KindAlwaysBlock
	KindInitialBlock
	KindFinalBlock
	KindContAssign
	KindInstantiation
	KindNamedParamBinding
	KindPositionalParamBinding
	KindNamedPortBinding
	KindPositionalPortBinding
	KindGenerateBlock
	KindGenerateFor
	KindGenerateIf
	KindGenerateCase
	KindBindDirective
	KindAssertionDecl
	KindStatementBlock
	KindExprBinary
	KindExprUnary
	KindExprLiteral
	KindExprIdentifier
	KindExprHierPath
	KindExprSelect
	KindExprCall
	KindExprConditional
	KindExprConcat
	KindTypespecRef
	KindTypespecPacked
	KindTypespecEnum
	KindTypespecStruct
	KindAttribute
	KindImportDecl
	KindExtendsDecl
	KindDirectionMarker
	KindWhitespace
	KindPreprocMarker
	KindUnsupported
)

// VObject is one node in the packed AST. Fields mirror spec.md section 3
// exactly: symbol, file/line/col location, tree edges as indices, and an
// optional pointer (by id, since VObjects never hold live pointers) to the
// declaration-level IR node this syntax produced.
type VObject struct {
	Symbol   symtab.SymbolId
	File     symtab.PathId
	Line     uint32
	Column   uint32
	EndLine  uint32
	EndColumn uint32

	Parent  Id
	Child   Id
	Sibling Id

	// Definition, once non-nil, is an opaque handle to the declaration-level
	// IR node compiled from this VObject (a design.DesignComponent, a
	// design.Signal, etc). It is deliberately untyped here -- pkg/ast must
	// not import pkg/design, which would create an import cycle, since
	// design IR nodes point back at the VObjects they were compiled from.
	Definition interface{}

	Type Kind
}
