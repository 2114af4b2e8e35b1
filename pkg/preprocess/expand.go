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

	"github.com/Apotell/surelog-core/pkg/symtab"
)

// expandLine expands every backtick macro invocation in line. Expansion
// is textual at the token level: a parametric macro's body has each
// parameter name substituted with the corresponding argument text before
// the result is itself re-scanned for further invocations (so a macro can
// expand to another macro use).
func (p *Preprocessor) expandLine(line string, fileId symtab.PathId, srcLine uint32) string {
	var out strings.Builder

	i := 0
	for i < len(line) {
		if line[i] != '`' {
			out.WriteByte(line[i])
			i++

			continue
		}

		name, nameEnd := readIdent(line, i+1)
		if name == "" {
			out.WriteByte(line[i])
			i++

			continue
		}

		// Directive keywords are handled at line granularity by the
		// caller and should never reach here mid-line, but guard anyway.
		if isDirectiveKeyword(name) {
			out.WriteByte(line[i])
			i++

			continue
		}

		def, ok := p.macros.lookup(name)
		if !ok {
			if p.cfg.ComplainUndefinedMacro {
				p.errors = append(p.errors, &Error{Kind: ErrUnknownMacro, Line: srcLine,
					Message: "unknown macro `" + name})
			}
			// Leave the invocation untouched so downstream passes can
			// still see it. With ComplainUndefinedMacro off nothing is
			// reported; with it on, ErrUnknownMacro is recorded above
			// (no warning-level diagnostic exists for this case).
			out.WriteString(line[i:nameEnd])
			i = nameEnd

			continue
		}

		argsEnd := nameEnd
		var args []string

		if def.IsParametric() {
			if nameEnd >= len(line) || line[nameEnd] != '(' {
				p.errors = append(p.errors, &Error{Kind: ErrMacroArityMismatch, Line: srcLine,
					Message: "macro `" + name + " requires arguments but none were given (defined at line " +
						itoa(def.DefLine) + ")"})
				out.WriteString(line[i:nameEnd])
				i = nameEnd

				continue
			}

			var parsed bool
			args, argsEnd, parsed = parseArgs(line, nameEnd)

			if !parsed {
				p.errors = append(p.errors, &Error{Kind: ErrMacroArityMismatch, Line: srcLine,
					Message: "unterminated argument list for macro `" + name})
				out.WriteString(line[i:nameEnd])
				i = nameEnd

				continue
			}
		}

		expanded, recursive := p.expandInvocation(def, args, srcLine)
		if recursive {
			p.errors = append(p.errors, &Error{Kind: ErrMacroRecursion, Line: srcLine,
				Message: "recursive expansion of macro `" + name})
			out.WriteString(line[i:argsEnd])
			i = argsEnd

			continue
		}

		// Record only the first (outermost) invocation expanded on this
		// line -- the line-granularity origin map has room for one cause.
		if p.expandedMacro == symtab.BadSymbolId {
			p.expandedMacro = p.symbols.Register(name)
			p.expandedCol = uint32(i + 1)
		}

		out.WriteString(expanded)
		i = argsEnd
	}

	return out.String()
}

// expandInvocation substitutes args into def's body and recursively
// expands the result, guarding against self-recursive expansion via
// p.expansionStack (spec.md section 4.1 "Macro expansion" / "loop
// detection").
func (p *Preprocessor) expandInvocation(def *MacroDef, args []string, srcLine uint32) (string, bool) {
	for _, active := range p.expansionStack {
		if active == def.Name {
			return "", true
		}
	}

	if len(p.expansionStack) >= p.cfg.MaxExpansionDepth {
		return "", true
	}

	body := def.Body

	for idx, param := range def.Params {
		arg := ""
		if idx < len(args) {
			arg = args[idx]
		}

		body = substituteWord(body, param, arg)
	}

	p.expansionStack = append(p.expansionStack, def.Name)
	expanded := p.expandLine(body, symtab.BadPathId, srcLine)
	p.expansionStack = p.expansionStack[:len(p.expansionStack)-1]

	return expanded, false
}

// substituteWord replaces whole-word occurrences of name in s with value.
func substituteWord(s, name, value string) string {
	var out strings.Builder

	i := 0
	for i < len(s) {
		if isIdentChar(rune(s[i])) && (i == 0 || !isIdentChar(rune(s[i-1]))) {
			word, end := readIdent(s, i)
			if word == name {
				out.WriteString(value)
				i = end

				continue
			}

			out.WriteString(word)
			i = end

			continue
		}

		out.WriteByte(s[i])
		i++
	}

	return out.String()
}

func readIdent(s string, from int) (ident string, end int) {
	i := from
	for i < len(s) && isIdentChar(rune(s[i])) {
		i++
	}

	return s[from:i], i
}

// parseArgs parses a parenthesized, comma-separated argument list
// beginning at s[start] == '('. Nested parentheses within an argument are
// tolerated (not split on).
func parseArgs(s string, start int) (args []string, end int, ok bool) {
	depth := 0
	argStart := start + 1

	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--

			if depth == 0 {
				args = append(args, strings.TrimSpace(s[argStart:i]))
				return args, i + 1, true
			}
		case ',':
			if depth == 1 {
				args = append(args, strings.TrimSpace(s[argStart:i]))
				argStart = i + 1
			}
		}
	}

	return nil, len(s), false
}

func isDirectiveKeyword(name string) bool {
	switch name {
	case "define", "undef", "undefineall", "ifdef", "ifndef", "elsif", "else", "endif",
		"include", "timescale", "default_nettype":
		return true
	default:
		return false
	}
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}

	var digits [10]byte

	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}

	return string(digits[i:])
}
