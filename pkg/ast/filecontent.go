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
package ast

import "github.com/Apotell/surelog-core/pkg/symtab"

// FileContent owns one file's VObject arena plus the lookup maps a later
// pass needs to find declarations by name, per spec.md section 3.
//
// The arena is append-only: Alloc returns the next monotonically
// increasing Id, and every edge (Parent/Child/Sibling) set afterwards must
// reference an Id strictly less than the node doing the pointing -- this
// is the "arena monotonicity" invariant from spec.md section 3 and the
// testable property in section 8 (property 2).
type FileContent struct {
	Library string
	Path    symtab.PathId
	// Parent links a chunk to the file it was split out of. The parser
	// never splits a file, so every FileContent it builds has a nil Parent.
	Parent *FileContent

	arena []VObject

	// Declarations maps a top-level declaration name to its VObject id.
	Declarations map[symtab.SymbolId]Id
	// Root is the id of the KindDesign root node.
	Root Id
}

// NewFileContent constructs an empty FileContent for the given library and
// path. Index 0 of the arena is left unused (reserved as NoId), matching
// symtab's convention of reserving zero as "bad".
func NewFileContent(library string, path symtab.PathId) *FileContent {
	fc := &FileContent{
		Library:      library,
		Path:         path,
		arena:        make([]VObject, 1), // index 0 == NoId, never addressed
		Declarations: make(map[symtab.SymbolId]Id),
	}

	return fc
}

// Alloc appends a new VObject to the arena and returns its Id. Because the
// arena only ever grows, the returned Id is guaranteed to be larger than
// any Id previously handed out by this FileContent.
func (fc *FileContent) Alloc(v VObject) Id {
	id := Id(len(fc.arena))
	fc.arena = append(fc.arena, v)

	return id
}

// Get returns the VObject at id. Panics on NoId or an out-of-range id --
// callers are expected to have checked for NoId already, matching the
// teacher's convention of panicking on invalid internal keys (see
// sexp.SourceMap.Get in the teacher repo).
func (fc *FileContent) Get(id Id) *VObject {
	if id == NoId || int(id) >= len(fc.arena) {
		panic("ast: invalid VObject id")
	}

	return &fc.arena[id]
}

// Len returns the number of live VObjects (excluding the unused index 0).
func (fc *FileContent) Len() int {
	return len(fc.arena) - 1
}

// SetDefinition records the declaration-level IR node compiled from id.
func (fc *FileContent) SetDefinition(id Id, def interface{}) {
	fc.Get(id).Definition = def
}

// AppendChild links child onto parent's child list, in sibling order. It
// enforces the arena-monotonicity invariant: child and its siblings must
// have smaller indices than parent, since parent was necessarily allocated
// after all its children were parsed (a bottom-up, append-only grammar).
func (fc *FileContent) AppendChild(parent, child Id) {
	if child >= parent {
		panic("ast: child id must precede parent id in an append-only arena")
	}

	fc.Get(child).Parent = parent

	p := fc.Get(parent)
	if p.Child == NoId {
		p.Child = child
		return
	}

	last := p.Child
	for fc.Get(last).Sibling != NoId {
		last = fc.Get(last).Sibling
	}

	fc.Get(last).Sibling = child
}

// Children returns the ordered list of direct children of id.
func (fc *FileContent) Children(id Id) []Id {
	var out []Id

	c := fc.Get(id).Child
	for c != NoId {
		out = append(out, c)
		c = fc.Get(c).Sibling
	}

	return out
}
