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

// Package resolve implements the symbol resolver (C8, spec.md section
// 4.5): late binding of every reference in the IR C6/C7 left unresolved
// (RefObj, MethodCall, HierPath, TypedefAlias and friends) against a
// five-level lookup cascade.
package resolve

import (
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// ScopeKind distinguishes the nested-scope shapes spec.md section 4.5
// step 1 names: "function/task locals, then for-statement locals, then
// foreach-statement locals, then begin/fork block locals".
type ScopeKind uint8

// Recognized scope kinds.
const (
	ScopeComponent ScopeKind = iota
	ScopeFunction
	ScopeFor
	ScopeForeach
	ScopeBlock
)

// Scope is a linked lookup frame, grounded on the teacher's
// ModuleScope/LocalScope pair in pkg/corset/compiler/scope.go: an
// enclosing-scope chain of plain local bindings, rooted at the frame
// that anchors a design component's own symbol table. Nested
// function/for/foreach/begin scopes chain via parent without copying
// the component's bindings.
type Scope struct {
	parent *Scope
	kind   ScopeKind
	locals map[symtab.SymbolId]interface{}
	// component is set only on the frame anchoring a component's own
	// symbol table (spec.md section 4.5 step 2); nil on a pure nested
	// local scope.
	component design.DesignComponent
}

// GenVarBinding is the local binding a `for`-generate's genvar resolves
// to inside its body -- it has no backing Signal (the parser drops a
// bare `genvar i;` declaration entirely), so a reference to it needs its
// own marker rather than reusing Parameter or Signal.
type GenVarBinding struct {
	Name symtab.SymbolId
}

// NewComponentScope builds the root scope for comp: its own symbol
// table (parameters, typedefs, subroutines, and, for the component
// kinds that have them, ports/nets/members) populated as locals, per
// spec.md section 4.5 step 2.
func NewComponentScope(comp design.DesignComponent) *Scope {
	s := &Scope{kind: ScopeComponent, locals: componentLocals(comp), component: comp}
	return s
}

// Push returns a new nested scope of kind, chained to s.
func (s *Scope) Push(kind ScopeKind) *Scope {
	return &Scope{parent: s, kind: kind, locals: make(map[symtab.SymbolId]interface{})}
}

// Declare binds name to value in s directly (not in any enclosing
// scope) -- used for for/foreach/function-argument locals.
func (s *Scope) Declare(name symtab.SymbolId, value interface{}) {
	s.locals[name] = value
}

func componentLocals(comp design.DesignComponent) map[symtab.SymbolId]interface{} {
	locals := make(map[symtab.SymbolId]interface{})

	for _, p := range comp.Parameters() {
		locals[p.Name] = p
	}

	for name, t := range comp.Typedefs() {
		locals[name] = t
	}

	for _, sub := range comp.Subroutines() {
		locals[sub.Name] = sub
	}

	switch c := comp.(type) {
	case *design.Module:
		addSignals(locals, c.Ports)
		addSignals(locals, c.Nets)
	case *design.Interface:
		addSignals(locals, c.Ports)
		addSignals(locals, c.Nets)
	case *design.Program:
		addSignals(locals, c.Ports)
		addSignals(locals, c.Nets)
	case *design.ClassDefinition:
		addSignals(locals, c.Members)
	case *design.UdpDefinition:
		addSignals(locals, c.Ports)
	}

	return locals
}

func addSignals(locals map[symtab.SymbolId]interface{}, sigs []*design.Signal) {
	for _, s := range sigs {
		locals[s.Name] = s
	}
}

// componentMember looks up name directly in comp's own symbol table,
// without walking any enclosing scope -- used for the base-class-chain
// and imported-package cascade levels, where only the target
// component's own members are in play.
func componentMember(comp design.DesignComponent, name symtab.SymbolId) (interface{}, bool) {
	if comp == nil {
		return nil, false
	}

	for _, p := range comp.Parameters() {
		if p.Name == name {
			return p, true
		}
	}

	if t, ok := comp.Typedefs()[name]; ok {
		return t, true
	}

	for _, sub := range comp.Subroutines() {
		if sub.Name == name {
			return sub, true
		}
	}

	switch c := comp.(type) {
	case *design.Module:
		if s, ok := findSignal(c.Ports, name); ok {
			return s, true
		}

		if s, ok := findSignal(c.Nets, name); ok {
			return s, true
		}
	case *design.Interface:
		if s, ok := findSignal(c.Ports, name); ok {
			return s, true
		}

		if s, ok := findSignal(c.Nets, name); ok {
			return s, true
		}
	case *design.Program:
		if s, ok := findSignal(c.Ports, name); ok {
			return s, true
		}

		if s, ok := findSignal(c.Nets, name); ok {
			return s, true
		}
	case *design.ClassDefinition:
		if s, ok := findSignal(c.Members, name); ok {
			return s, true
		}
	case *design.UdpDefinition:
		if s, ok := findSignal(c.Ports, name); ok {
			return s, true
		}
	}

	return nil, false
}

func findSignal(sigs []*design.Signal, name symtab.SymbolId) (*design.Signal, bool) {
	for _, s := range sigs {
		if s.Name == name {
			return s, true
		}
	}

	return nil, false
}
