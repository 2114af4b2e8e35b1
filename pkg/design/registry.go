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

import "sync"

// Registry maps qualified names to design components (C5, spec.md section
// 2). It is the one other shared-mutable resource named in spec.md
// section 5 alongside the symbol table, guarded the same way: a
// single-writer-preferring RWMutex where the common case (lookup during
// parallel component compilation) takes a shared lock and the rarer
// insert path takes an exclusive one.
type Registry struct {
	mu sync.RWMutex

	byQualified map[string]DesignComponent
	modules     []*Module
	interfaces  []*Interface
	programs    []*Program
	packages    []*Package
	classes     []*ClassDefinition
	udps        []*UdpDefinition
}

// NewRegistry constructs an empty design registry.
func NewRegistry() *Registry {
	return &Registry{byQualified: make(map[string]DesignComponent)}
}

// Register inserts comp under its qualified name. Returns false (without
// overwriting the existing entry) if the name is already registered --
// the caller is expected to turn that into a diagnostic, since the
// registry itself holds no diagnostics container.
func (r *Registry) Register(comp DesignComponent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := comp.QualifiedName().Key()
	if _, exists := r.byQualified[key]; exists {
		return false
	}

	r.byQualified[key] = comp

	switch c := comp.(type) {
	case *Module:
		r.modules = append(r.modules, c)
	case *Interface:
		r.interfaces = append(r.interfaces, c)
	case *Program:
		r.programs = append(r.programs, c)
	case *Package:
		r.packages = append(r.packages, c)
	case *ClassDefinition:
		r.classes = append(r.classes, c)
	case *UdpDefinition:
		r.udps = append(r.udps, c)
	}

	return true
}

// Lookup returns the component registered under qn, matching spec.md
// section 8 property 4 ("round-trip registry lookup").
func (r *Registry) Lookup(qn QualifiedName) (DesignComponent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byQualified[qn.Key()]

	return c, ok
}

// LookupByKey is a convenience for callers that already have a
// library@symbol key string (e.g. from a diagnostic or test fixture).
func (r *Registry) LookupByKey(key string) (DesignComponent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byQualified[key]

	return c, ok
}

// Modules returns every registered module, in registration order.
func (r *Registry) Modules() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Module, len(r.modules))
	copy(out, r.modules)

	return out
}

// Interfaces returns every registered interface, in registration order.
func (r *Registry) Interfaces() []*Interface {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Interface, len(r.interfaces))
	copy(out, r.interfaces)

	return out
}

// Packages returns every registered package, in registration order.
func (r *Registry) Packages() []*Package {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Package, len(r.packages))
	copy(out, r.packages)

	return out
}

// Classes returns every registered class, in registration order.
func (r *Registry) Classes() []*ClassDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ClassDefinition, len(r.classes))
	copy(out, r.classes)

	return out
}

// TopModules computes the "top modules" set of spec.md section 4.6 step
// 1: modules declared at library root and not instantiated anywhere else
// in the registry. This is a pure query over already-registered/compiled
// components -- it does not mutate the registry.
func (r *Registry) TopModules() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instantiated := make(map[string]bool)

	for _, m := range r.modules {
		for _, inst := range m.Instances {
			if inst.Definition != nil {
				instantiated[inst.Definition.QualifiedName().Key()] = true
			}
		}

		for _, g := range m.Generates {
			markGenerateInstantiated(g, instantiated)
		}
	}

	var tops []*Module

	for _, m := range r.modules {
		if !instantiated[m.QualifiedName().Key()] {
			tops = append(tops, m)
		}
	}

	return tops
}

func markGenerateInstantiated(g *GenerateNode, instantiated map[string]bool) {
	mark := func(items []DeclarationItem) {
		for _, item := range items {
			if item.Instantiation != nil && item.Instantiation.Definition != nil {
				instantiated[item.Instantiation.Definition.QualifiedName().Key()] = true
			}

			if item.Generate != nil {
				markGenerateInstantiated(item.Generate, instantiated)
			}
		}
	}

	mark(g.Body)

	for _, b := range g.Branches {
		mark(b.Body)
	}
}
