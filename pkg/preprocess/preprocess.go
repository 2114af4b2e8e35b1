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
package preprocess

import (
	"strings"

	"github.com/Apotell/surelog-core/pkg/source"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// Loader resolves and reads source files for the preprocessor. It
// abstracts over pkg/session's FileSystem so this package has no
// dependency on session/OS details, matching spec.md section 6's
// "File system interface" collaborator boundary.
type Loader interface {
	// Read returns the full text of the file at path.
	Read(path string) (string, bool)
	// Locate searches includePaths (in order) for name, returning the
	// resolved path.
	Locate(name string, includePaths []string) (string, bool)
}

// Config carries the per-run options spec.md section 4.1 names.
type Config struct {
	IncludePaths           []string
	ComplainUndefinedMacro bool
	// MaxExpansionDepth bounds macro self-expansion chains that don't
	// directly recurse but could still blow the stack via mutual
	// expansion through many distinct names.
	MaxExpansionDepth int
}

// Result is the output of preprocessing a single file: preprocessed text,
// its origin map, and the macro table as it stood at EOF (merged back into
// the CompilationUnit by the caller).
type Result struct {
	Text      string
	OriginMap *source.Map
	Macros    *macroTable
}

// Preprocessor runs one file's preprocessing job. A fresh Preprocessor
// should be constructed per file -- per spec.md section 5, preprocessing
// is per-file and embarrassingly parallel, so no Preprocessor state is
// shared across files.
type Preprocessor struct {
	loader  Loader
	symbols *symtab.Table
	cu      *CompilationUnit
	cfg     Config

	macros *macroTable
	cond   *condStack

	includeStack   []string
	expansionStack []string

	errors []*Error

	originMap *source.Map
	outLine   uint32

	// openStack mirrors includeStack as indices into originMap.Entries:
	// openStack[len-1] is the Push entry for the innermost `include
	// currently being processed, or there is no entry at all (a direct
	// pass-through of the root file) when it's empty.
	openStack []int

	// expandedMacro/expandedCol record the first macro invocation expanded
	// by the most recent expandLine call, so the caller can bracket the
	// output line with a PushMacro/Pop pair. Reset before each call.
	expandedMacro symtab.SymbolId
	expandedCol   uint32
}

// currentOpen returns the originMap entry (if any) bracketing whatever
// `include is currently being expanded, or -1 for a direct pass-through.
func (p *Preprocessor) currentOpen() int {
	if len(p.openStack) == 0 {
		return -1
	}

	return p.openStack[len(p.openStack)-1]
}

// New constructs a Preprocessor for one file, snapshotting the shared
// CompilationUnit's macro table so local `define/`undef don't leak across
// files processed concurrently.
func New(loader Loader, symbols *symtab.Table, cu *CompilationUnit, cfg Config) *Preprocessor {
	if cfg.MaxExpansionDepth == 0 {
		cfg.MaxExpansionDepth = 64
	}

	return &Preprocessor{
		loader:  loader,
		symbols: symbols,
		cu:      cu,
		cfg:     cfg,
		macros:  cu.MacroTableSnapshot(),
		cond:    newCondStack(),
	}
}

// Run preprocesses the file at path (its PathId must already be
// registered in symbols), returning the preprocessed text, its origin
// map, and any diagnostics. Per spec.md section 4.1 "Failure semantics",
// preprocessing errors are accumulated, not fatal -- the caller decides
// whether to drop the file.
func (p *Preprocessor) Run(pathName string, fileId symtab.PathId) (*Result, []*Error) {
	p.originMap = source.NewMap(fileId)

	text, ok := p.loader.Read(pathName)
	if !ok {
		p.errors = append(p.errors, &Error{Kind: ErrUnresolvedInclude, Message: "cannot read root file: " + pathName})
		return nil, p.errors
	}

	p.includeStack = append(p.includeStack, pathName)

	var out strings.Builder

	p.processLines(&out, text, pathName, fileId)

	p.includeStack = p.includeStack[:len(p.includeStack)-1]

	if !p.cond.Empty() {
		p.errors = append(p.errors, &Error{Kind: ErrUnterminatedConditional, Message: "unterminated conditional at end of file"})
	}

	return &Result{Text: out.String(), OriginMap: p.originMap, Macros: p.macros}, p.errors
}

// processLines consumes every line of text (belonging to fileId/pathName)
// and appends preprocessed output to out, recursing into includes inline.
func (p *Preprocessor) processLines(out *strings.Builder, text, pathName string, fileId symtab.PathId) {
	lines := strings.Split(text, "\n")

	// strings.Split on text ending with "\n" yields a trailing "" element
	// representing no further line at all (not an empty final line); drop
	// it so output line counts match the source exactly (spec.md section
	// 8 property 1).
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for i, raw := range lines {
		srcLine := uint32(i + 1)
		trimmed := strings.TrimSpace(raw)

		if strings.HasPrefix(trimmed, "`") {
			p.handleDirective(out, trimmed, raw, pathName, fileId, srcLine)
			continue
		}

		if !p.cond.Active() {
			p.emitBlank(out)
			continue
		}

		p.emitExpandedLine(out, raw, fileId, srcLine)
	}
}

func (p *Preprocessor) emitBlank(out *strings.Builder) {
	p.outLine++
	p.originMap.MarkLine(p.outLine, p.currentOpen())
	out.WriteByte('\n')
}

// emitExpandedLine macro-expands raw (source line srcLine of fileId) and
// writes the result as one output line. If a macro actually expanded on
// this line, the line is bracketed with a PushMacro/Pop pair so Lookup can
// point a diagnostic back at the invocation site rather than the
// expansion's own (synthetic) position; otherwise the line is marked
// against whatever `include region (if any) currently encloses fileId.
func (p *Preprocessor) emitExpandedLine(out *strings.Builder, raw string, fileId symtab.PathId, srcLine uint32) {
	p.expandedMacro = symtab.BadSymbolId
	p.expandedCol = 0

	expanded := p.expandLine(raw, fileId, srcLine)
	p.outLine++

	if p.expandedMacro != symtab.BadSymbolId {
		pushIdx := p.originMap.PushMacro(p.expandedMacro, p.outLine, fileId, srcLine, p.expandedCol)
		p.originMap.Pop(pushIdx, srcLine, uint32(len(raw)))
		p.originMap.MarkLine(p.outLine, pushIdx)
	} else {
		p.originMap.MarkLine(p.outLine, p.currentOpen())
	}

	out.WriteString(expanded)
	out.WriteByte('\n')
}

// handleDirective dispatches a single backtick-led line. Directive lines
// never emit visible tokens, but still consume one output line so line
// counts between source and preprocessed text stay aligned (spec.md
// section 8 property 1).
func (p *Preprocessor) handleDirective(out *strings.Builder, trimmed, raw, pathName string, fileId symtab.PathId, srcLine uint32) {
	word, rest := splitFirstWord(trimmed[1:])

	switch word {
	case "define":
		if p.cond.Active() {
			p.handleDefine(rest, srcLine)
		}
	case "undef":
		if p.cond.Active() {
			p.macros.undef(strings.TrimSpace(rest))
		}
	case "undefineall":
		if p.cond.Active() {
			p.macros = newMacroTable()
		}
	case "ifdef":
		name := strings.TrimSpace(rest)
		p.cond.PushIfdef(name, p.macros.isDefined(name))
	case "ifndef":
		name := strings.TrimSpace(rest)
		p.cond.PushIfndef(name, p.macros.isDefined(name))
	case "elsif":
		name := strings.TrimSpace(rest)
		if !p.cond.Elsif(name, p.macros.isDefined(name)) {
			p.errors = append(p.errors, &Error{Kind: ErrUnterminatedConditional, Line: srcLine,
				Message: "`elsif without matching `ifdef/`ifndef"})
		}
	case "else":
		if !p.cond.Else() {
			p.errors = append(p.errors, &Error{Kind: ErrUnterminatedConditional, Line: srcLine,
				Message: "`else without matching `ifdef/`ifndef"})
		}
	case "endif":
		if !p.cond.Endif() {
			p.errors = append(p.errors, &Error{Kind: ErrUnterminatedConditional, Line: srcLine,
				Message: "`endif without matching `ifdef/`ifndef"})
		}
	case "include":
		if p.cond.Active() {
			p.handleInclude(out, rest, pathName, fileId, srcLine)
			return
		}
	case "timescale":
		if p.cond.Active() {
			p.cu.RecordTimescale(fileId, srcLine, strings.TrimSpace(rest))
		}
	case "default_nettype":
		if p.cond.Active() {
			p.cu.RecordDefaultNettype(fileId, srcLine, strings.TrimSpace(rest))
		}
	default:
		// Not a conditional/define/include keyword: treat the whole line
		// as a (possibly argumentless) macro invocation, if active.
		if p.cond.Active() {
			p.emitExpandedLine(out, raw, fileId, srcLine)
			return
		}
	}

	p.emitBlank(out)
}

func (p *Preprocessor) handleDefine(rest string, srcLine uint32) {
	rest = strings.TrimLeft(rest, " \t")

	name, afterName := splitMacroHead(rest)
	if name == "" {
		return
	}

	var params []string

	body := afterName

	if strings.HasPrefix(afterName, "(") {
		end := strings.IndexByte(afterName, ')')
		if end < 0 {
			p.errors = append(p.errors, &Error{Kind: ErrMacroArityMismatch, Line: srcLine,
				Message: "unterminated macro parameter list for `" + name})
			return
		}

		paramStr := afterName[1:end]
		for _, part := range strings.Split(paramStr, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				params = append(params, part)
			}
		}

		body = afterName[end+1:]
	}

	p.macros.define(&MacroDef{
		Name:    name,
		Params:  params,
		Body:    strings.TrimSpace(body),
		DefLine: srcLine,
	})
}

func (p *Preprocessor) handleInclude(out *strings.Builder, rest, fromPath string, fromFile symtab.PathId, srcLine uint32) {
	name := parseIncludeFilename(rest)
	if name == "" {
		p.errors = append(p.errors, &Error{Kind: ErrInvalidIncludeFilename, Line: srcLine,
			Message: "malformed `include filename: " + rest})
		p.emitBlank(out)

		return
	}

	resolved, ok := p.loader.Locate(name, p.cfg.IncludePaths)
	if !ok {
		p.errors = append(p.errors, &Error{Kind: ErrUnresolvedInclude, Line: srcLine,
			Message: "cannot locate include file: " + name})
		p.emitBlank(out)

		return
	}

	for _, active := range p.includeStack {
		if active == resolved {
			p.errors = append(p.errors, &Error{Kind: ErrRecursiveInclude, Line: srcLine,
				Message: "recursive `include of " + resolved})
			p.emitBlank(out)

			return
		}
	}

	text, ok := p.loader.Read(resolved)
	if !ok {
		p.errors = append(p.errors, &Error{Kind: ErrUnresolvedInclude, Line: srcLine,
			Message: "cannot read include file: " + resolved})
		p.emitBlank(out)

		return
	}

	includedFile := p.symbols.RegisterPath(resolved)
	sectionStart := p.outLine + 1

	pushIdx := p.originMap.PushInclude(includedFile, sectionStart, fromFile, srcLine, 1)

	p.includeStack = append(p.includeStack, resolved)
	p.openStack = append(p.openStack, pushIdx)
	p.processLines(out, text, resolved, includedFile)
	p.openStack = p.openStack[:len(p.openStack)-1]
	p.includeStack = p.includeStack[:len(p.includeStack)-1]

	p.originMap.Pop(pushIdx, srcLine, uint32(len(rest)))
}

// splitFirstWord splits s at the first run of non-identifier characters,
// returning the leading identifier word and the remainder.
func splitFirstWord(s string) (word, rest string) {
	i := 0
	for i < len(s) && isIdentChar(rune(s[i])) {
		i++
	}

	return s[:i], s[i:]
}

// splitMacroHead splits a `define body into the macro name and whatever
// follows immediately (which may be "(args)rest" or " body" or "").
func splitMacroHead(s string) (name, rest string) {
	i := 0
	for i < len(s) && isIdentChar(rune(s[i])) {
		i++
	}

	if i == 0 {
		return "", s
	}

	return s[:i], strings.TrimLeft(s[i:], "")
}

func isIdentChar(r rune) bool {
	return r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// parseIncludeFilename extracts the filename from `include "name" or
// `include <name>.
func parseIncludeFilename(rest string) string {
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 {
		return ""
	}

	open, close := rest[0], byte(0)

	switch open {
	case '"':
		close = '"'
	case '<':
		close = '>'
	default:
		return ""
	}

	end := strings.IndexByte(rest[1:], close)
	if end < 0 {
		return ""
	}

	return rest[1 : end+1]
}
