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

import (
	"testing"

	"github.com/Apotell/surelog-core/pkg/symtab"
)

func TestRegistryRoundTrip(t *testing.T) {
	symbols := symtab.New()
	reg := NewRegistry()

	name := symbols.Register("m")
	mod := NewModule("work", name, 1)

	if !reg.Register(mod) {
		t.Fatalf("expected first registration to succeed")
	}

	if reg.Register(mod) {
		t.Fatalf("expected duplicate registration to fail")
	}

	got, ok := reg.Lookup(QualifiedName{Library: "work", Name: name})
	if !ok || got != mod {
		t.Fatalf("expected round-trip lookup to return the same component")
	}
}

func TestTopModulesExcludesInstantiated(t *testing.T) {
	symbols := symtab.New()
	reg := NewRegistry()

	leafName := symbols.Register("leaf")
	topName := symbols.Register("top")

	leaf := NewModule("work", leafName, 1)
	top := NewModule("work", topName, 2)
	top.Instances = append(top.Instances, &Instantiation{DefinitionName: leafName, Definition: leaf})

	reg.Register(leaf)
	reg.Register(top)

	tops := reg.TopModules()
	if len(tops) != 1 || tops[0] != top {
		t.Fatalf("expected exactly [top], got %v", tops)
	}
}

func TestCloneAppliesOverridesIndependently(t *testing.T) {
	symbols := symtab.New()
	wName := symbols.Register("W")

	mod := NewModule("work", symbols.Register("m"), 1)
	mod.Params = append(mod.Params, &Parameter{Name: wName, Value: NewUnsigned(4, 32)})

	clone := Clone(mod).(*Module)
	clone.Params[0].Value = NewUnsigned(8, 32)

	if mod.Params[0].Value.Bits != 4 {
		t.Fatalf("expected unelaborated definition to keep default, got %d", mod.Params[0].Value.Bits)
	}

	if clone.Params[0].Value.Bits != 8 {
		t.Fatalf("expected clone to see override, got %d", clone.Params[0].Value.Bits)
	}
}
