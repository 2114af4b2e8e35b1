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
package source

import "github.com/Apotell/surelog-core/pkg/symtab"

// Context classifies why an origin-map entry exists.
type Context uint8

// Recognized origin-map contexts.
const (
	ContextNone Context = iota
	ContextInclude
	ContextMacro
)

// Action marks whether an entry opens or closes a transformed region.
type Action uint8

// Push opens a region (an include or macro expansion begins); Pop closes
// the most recently opened region of the same context.
const (
	Push Action = iota
	Pop
)

// OriginEntry records one boundary of a transformed region in the
// preprocessed stream, per spec.md section 4.1 "Origin map". Push/Pop
// entries are paired by index so a later pass can reconstruct the true
// source span that produced any stretch of preprocessed text.
type OriginEntry struct {
	Context Context
	Action  Action
	// Section identifies the included file or macro whose expansion this
	// entry brackets.
	SectionFile   symtab.PathId
	SectionLine   uint32
	SectionSymbol symtab.SymbolId
	// Source* is the location in the *original* file that this boundary
	// corresponds to.
	SourceFile    symtab.PathId
	SourceLine    uint32
	SourceCol     uint32
	SourceEndLine uint32
	SourceEndCol  uint32
	// PairedIndex is the index, within the owning Map's Entries slice, of
	// the matching Push (if this is a Pop) or Pop (if this is a Push).
	// -1 until the pair is closed.
	PairedIndex int
}

// Map is the origin map for a single preprocessed file: an append-only,
// indexed sequence of OriginEntry records plus a line index used to answer
// "which original (file,line,col) produced preprocessed (line,col)"
// queries.
type Map struct {
	Entries []OriginEntry
	// lineOrigin[i] is the index into Entries of the innermost Push entry
	// active for preprocessed line i+1, or -1 if that line is untouched
	// (a direct pass-through of the original file).
	lineOrigin []int
	// PassthroughFile is the file this preprocessed stream originated
	// from outside of any push/pop region.
	PassthroughFile symtab.PathId
}

// NewMap constructs an empty origin map for the preprocessed output of
// originFile.
func NewMap(originFile symtab.PathId) *Map {
	return &Map{PassthroughFile: originFile}
}

// PushInclude records that an `include directive began at (line,col) of
// the expanding file, and the included file's text now begins at
// sectionLine of sectionFile.
func (m *Map) PushInclude(sectionFile symtab.PathId, sectionLine uint32,
	sourceFile symtab.PathId, sourceLine, sourceCol uint32) int {
	return m.push(ContextInclude, sectionFile, sectionLine, symtab.BadSymbolId,
		sourceFile, sourceLine, sourceCol)
}

// PushMacro records that a macro invocation named by symbol began at
// (sourceLine,sourceCol), and its expansion occupies sectionLine onward in
// the preprocessed stream.
func (m *Map) PushMacro(name symtab.SymbolId, sectionLine uint32,
	sourceFile symtab.PathId, sourceLine, sourceCol uint32) int {
	return m.push(ContextMacro, symtab.BadPathId, sectionLine, name,
		sourceFile, sourceLine, sourceCol)
}

func (m *Map) push(ctx Context, sectionFile symtab.PathId, sectionLine uint32,
	sym symtab.SymbolId, sourceFile symtab.PathId, sourceLine, sourceCol uint32) int {
	idx := len(m.Entries)
	m.Entries = append(m.Entries, OriginEntry{
		Context:       ctx,
		Action:        Push,
		SectionFile:   sectionFile,
		SectionLine:   sectionLine,
		SectionSymbol: sym,
		SourceFile:    sourceFile,
		SourceLine:    sourceLine,
		SourceCol:     sourceCol,
		PairedIndex:   -1,
	})

	return idx
}

// Pop closes the region opened at pushIndex, recording the end of the
// original-source span it corresponds to.
func (m *Map) Pop(pushIndex int, sourceEndLine, sourceEndCol uint32) {
	open := m.Entries[pushIndex]
	popIdx := len(m.Entries)
	m.Entries = append(m.Entries, OriginEntry{
		Context:       open.Context,
		Action:        Pop,
		SectionFile:   open.SectionFile,
		SectionLine:   open.SectionLine,
		SectionSymbol: open.SectionSymbol,
		SourceFile:    open.SourceFile,
		SourceLine:    open.SourceLine,
		SourceCol:     open.SourceCol,
		SourceEndLine: sourceEndLine,
		SourceEndCol:  sourceEndCol,
		PairedIndex:   pushIndex,
	})
	m.Entries[pushIndex].PairedIndex = popIdx
}

// MarkLine associates preprocessed line number (1-based) with the
// innermost currently-open Push entry, or -1 if nothing is open (a
// straight pass-through line).
func (m *Map) MarkLine(line uint32, openEntry int) {
	for uint32(len(m.lineOrigin)) < line {
		m.lineOrigin = append(m.lineOrigin, -1)
	}

	m.lineOrigin[line-1] = openEntry
}

// Lookup translates a (line, col) position in the preprocessed stream back
// to its origin in true source. If the line is a direct pass-through, the
// origin is PassthroughFile at the same line/col.
func (m *Map) Lookup(line, col uint32) Location {
	if line == 0 || int(line) > len(m.lineOrigin) {
		return Location{File: m.PassthroughFile, Span: NewSpan(
			Position{Line: line, Column: col}, Position{Line: line, Column: col})}
	}

	entryIdx := m.lineOrigin[line-1]
	if entryIdx < 0 {
		return Location{File: m.PassthroughFile, Span: NewSpan(
			Position{Line: line, Column: col}, Position{Line: line, Column: col})}
	}

	e := m.Entries[entryIdx]
	// Offset within the expanded/included region, relative to its start.
	lineOffset := line - e.SectionLine

	// An `include`d region's own lines are numbered from 1 within the
	// included file itself -- unlike a macro expansion, they do not sit at
	// the `include` directive's source position, they sit in a wholly
	// different file (SectionFile), so Source* (the `include` directive's
	// own position) isn't the answer here.
	if e.Context == ContextInclude {
		pos := Position{Line: 1 + lineOffset, Column: col}
		return Location{File: e.SectionFile, Span: NewSpan(pos, pos)}
	}

	srcLine := e.SourceLine + lineOffset
	srcCol := col

	if lineOffset == 0 {
		srcCol = e.SourceCol + col
	}

	pos := Position{Line: srcLine, Column: srcCol}

	return Location{File: e.SourceFile, Span: NewSpan(pos, pos)}
}
