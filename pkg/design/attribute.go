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

// Attribute is one `(* name = value *)` attribute, per SPEC_FULL.md
// section 10's "Attribute lists" supplement (the original Surelog source
// carries these on every declaration; spec.md section 3 already names an
// "attribute list" field on Design Component -- this wires it).
type Attribute struct {
	Name  symtab.SymbolId
	Value Value // ValueNone when the attribute has no explicit value
}

// BindDirective models a `bind` statement (spec.md section 4.3 Phase
// OTHER names these but does not detail them further; see SPEC_FULL.md
// section 10). It is compiled during Phase OTHER and instantiated
// alongside regular sub-instances during elaboration.
type BindDirective struct {
	// TargetName names the module/interface definition (or instance path)
	// this bind applies to.
	TargetName symtab.SymbolId
	// InstanceName is the name the bound instance takes inside its
	// target, as if it had been written directly in the target's body.
	InstanceName symtab.SymbolId
	// Definition is the component being bound in (resolved by C8).
	Definition DesignComponent
	Bindings   []ParamOrPortBinding
	Location   Loc
}

// AssertionDecl is a structural (not evaluated) representation of an
// assertion/property/sequence declaration, per SPEC_FULL.md section 10.
// This front end compiles these only structurally -- it is not a formal
// verification engine.
type AssertionDecl struct {
	Name     symtab.SymbolId
	IsProperty bool
	IsSequence bool
	Body     Expr
	Location Loc
}
