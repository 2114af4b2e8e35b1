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
	"github.com/Apotell/surelog-core/pkg/ast"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// Parameter is a module/interface/class parameter declaration: a value
// parameter (Default carries a Value-producing expression) or a type
// parameter (TypeDefault carries a Typespec).
type Parameter struct {
	Name         symtab.SymbolId
	IsType       bool
	Default      Expr
	TypeDefault  Typespec
	Value        Value    // folded value, filled by C7/C9
	Typespec     Typespec // the parameter's own type, e.g. `parameter int W`
	Location     Loc
}

// Task or Function kind.
type SubroutineKind uint8

// Recognized subroutine kinds.
const (
	SubroutineTask SubroutineKind = iota
	SubroutineFunction
)

// Subroutine is a compiled task or function: spec.md section 4.3 "Phase
// FUNCTION: ... compile function and task signatures (bodies deferred)".
type Subroutine struct {
	Kind       SubroutineKind
	Name       symtab.SymbolId
	ReturnType Typespec // void for tasks
	Args       []Signal
	Body       []Statement // always empty: the parser skips task/function bodies
	Location   Loc
}

// Statement is a structural IR node for a procedural statement; the
// front end does not need full control-flow semantics for this subset
// (bodies are re-emitted as an opaque tree for downstream consumers), so
// Statement is deliberately thin.
type Statement struct {
	Kind     ast.Kind
	Expr     Expr
	Children []Statement
	Location Loc
}

// Process models an `always`/`initial`/`final` block.
type ProcessKind uint8

// Recognized process kinds.
const (
	ProcessAlways ProcessKind = iota
	ProcessInitial
	ProcessFinal
)

// Process is a procedural block attached directly to its defining
// component (SPEC_FULL.md section 9's resolution of the
// all_modules/top_modules Open Question: processes live only here, the
// elaborator reaches them by walking the instance tree).
type Process struct {
	Kind     ProcessKind
	Body     []Statement
	Location Loc
}

// ContAssign is a continuous assignment (`assign lhs = rhs;`).
type ContAssign struct {
	LHS      Expr
	RHS      Expr
	Location Loc
}

// ParamOrPortBinding is one actual argument in an instantiation, port
// connection, or bind statement -- positional (Name is bad) or named.
type ParamOrPortBinding struct {
	Name     symtab.SymbolId // BadSymbolId for a positional binding
	Value    Expr
	Location Loc
}

// Instantiation is an unelaborated sub-component instantiation site
// inside a module/interface body (`m #(...) u(...)`), compiled by C6 and
// consumed by C9.
type Instantiation struct {
	DefinitionName symtab.SymbolId
	Definition     DesignComponent // resolved by C8; nil until then
	InstanceName   symtab.SymbolId
	ParamBindings  []ParamOrPortBinding
	PortBindings   []ParamOrPortBinding
	// UnpackedDims supports instance arrays, e.g. `m u[3:0](...)`.
	UnpackedDims []Dimension
	Location     Loc
}

// GenerateKind distinguishes generate-construct shapes.
type GenerateKind uint8

// Recognized generate kinds.
const (
	GenerateBlock GenerateKind = iota
	GenerateFor
	GenerateIf
	GenerateCase
)

// GenerateNode is the unelaborated AST scaffolding for a generate
// construct, compiled twice per spec.md section 4.3: once here
// (structurally, as scaffolding) and again during elaboration once loop
// bounds/condition values are known constants.
type GenerateNode struct {
	Kind GenerateKind

	Label symtab.SymbolId

	// For: genvar name plus init/condition/step expressions.
	GenVar    symtab.SymbolId
	Init      Expr
	Condition Expr
	Step      Expr

	// If/Case: condition/selector plus branch bodies.
	Branches []GenerateBranch

	Body []DeclarationItem

	Location Loc
}

// GenerateBranch is one `if`/`else if`/`else`/`case item` arm of a
// conditional generate construct.
type GenerateBranch struct {
	Condition Expr // nil for a default/else arm
	Body      []DeclarationItem
}

// DeclarationItem is anything that can appear inside a component or
// generate body: a signal, an instantiation, a process, a continuous
// assign, a nested generate, a bind directive, or an assertion. It is
// deliberately a tagged union over pointers (at most one field set)
// rather than an interface, matching the closed, small set of shapes a
// generate body can directly contain.
type DeclarationItem struct {
	Signal        *Signal
	Instantiation *Instantiation
	Process       *Process
	ContAssign    *ContAssign
	Generate      *GenerateNode
	Bind          *BindDirective
	Assertion     *AssertionDecl
}

// DesignComponent is the interface every design-component kind
// implements: Module, Interface, Program, Package, ClassDefinition,
// UdpDefinition. Spec.md section 3: "Every component owns: name, source
// location, parameter list, typedef map, data-type map, task/function
// lists, sub-components, attribute list, and a backing IR node."
type DesignComponent interface {
	ComponentKind() Kind
	ComponentName() symtab.SymbolId
	QualifiedName() QualifiedName
	Loc() Loc
	Parameters() []*Parameter
	Typedefs() map[symtab.SymbolId]Typespec
	Subroutines() []*Subroutine
	SubComponents() []DesignComponent
	AttributeList() []Attribute
	// SourceNode is the VObject this component was compiled from.
	SourceNode() ast.Id
}

// common fields shared by every concrete component kind.
type common struct {
	Library    string
	Name       symtab.SymbolId
	Location   Loc
	Params     []*Parameter
	TypedefMap map[symtab.SymbolId]Typespec
	Subs       []*Subroutine
	Children   []DesignComponent
	Attrs      []Attribute
	Node       ast.Id
}

func newCommon(library string, name symtab.SymbolId, node ast.Id) common {
	return common{Library: library, Name: name, Node: node, TypedefMap: make(map[symtab.SymbolId]Typespec)}
}

func (c *common) ComponentName() symtab.SymbolId          { return c.Name }
func (c *common) QualifiedName() QualifiedName             { return QualifiedName{Library: c.Library, Name: c.Name} }
func (c *common) Loc() Loc                                  { return c.Location }
func (c *common) Parameters() []*Parameter                  { return c.Params }
func (c *common) Typedefs() map[symtab.SymbolId]Typespec    { return c.TypedefMap }
func (c *common) Subroutines() []*Subroutine                { return c.Subs }
func (c *common) SubComponents() []DesignComponent          { return c.Children }
func (c *common) AttributeList() []Attribute                { return c.Attrs }
func (c *common) SourceNode() ast.Id                         { return c.Node }

// Module is a `module ... endmodule` declaration.
type Module struct {
	common
	Ports        []*Signal
	Nets         []*Signal
	Instances    []*Instantiation
	ContAssigns  []*ContAssign
	Processes    []*Process
	Generates    []*GenerateNode
	Binds        []*BindDirective
	Assertions   []*AssertionDecl
	Modports     []*Modport
	Imports      []symtab.SymbolId
}

// ComponentKind implements DesignComponent.
func (*Module) ComponentKind() Kind { return KindModule }

// NewModule constructs an empty, unelaborated Module shell (spec.md
// section 3 "Design component: created on first encounter during parse as
// a shell, filled by C6").
func NewModule(library string, name symtab.SymbolId, node ast.Id) *Module {
	return &Module{common: newCommon(library, name, node)}
}

// Modport is an interface section naming signal directions from a
// connecting component's viewpoint (spec.md GLOSSARY).
type Modport struct {
	Name     symtab.SymbolId
	Items    []ModportItem
	Location Loc
}

// ModportItem binds one signal with a direction qualifier inside a
// modport body.
type ModportItem struct {
	SignalName symtab.SymbolId
	Direction  Direction
	Location   Loc
}

// Interface is an `interface ... endinterface` declaration.
type Interface struct {
	common
	Ports       []*Signal
	Nets        []*Signal
	Modports    []*Modport
	Instances   []*Instantiation
	ContAssigns []*ContAssign
	Processes   []*Process
	Generates   []*GenerateNode
}

// ComponentKind implements DesignComponent.
func (*Interface) ComponentKind() Kind { return KindInterface }

// NewInterface constructs an empty Interface shell.
func NewInterface(library string, name symtab.SymbolId, node ast.Id) *Interface {
	return &Interface{common: newCommon(library, name, node)}
}

// Program is a `program ... endprogram` declaration; structurally close
// to Module for this front end's purposes.
type Program struct {
	common
	Ports     []*Signal
	Nets      []*Signal
	Instances []*Instantiation
	Processes []*Process
}

// ComponentKind implements DesignComponent.
func (*Program) ComponentKind() Kind { return KindProgram }

// NewProgram constructs an empty Program shell.
func NewProgram(library string, name symtab.SymbolId, node ast.Id) *Program {
	return &Program{common: newCommon(library, name, node)}
}

// Package is a `package ... endpackage` declaration: a pure namespace of
// typedefs, parameters, and subroutines with no ports/instances.
type Package struct {
	common
}

// ComponentKind implements DesignComponent.
func (*Package) ComponentKind() Kind { return KindPackage }

// NewPackage constructs an empty Package shell.
func NewPackage(library string, name symtab.SymbolId, node ast.Id) *Package {
	return &Package{common: newCommon(library, name, node)}
}

// ClassDefinition is a `class ... endclass` declaration.
type ClassDefinition struct {
	common
	Extends      symtab.SymbolId // BadSymbolId if no base class
	BaseClass    *ClassDefinition
	Members      []*Signal
	Constraints  []symtab.SymbolId
	Covergroups  []symtab.SymbolId
}

// ComponentKind implements DesignComponent.
func (*ClassDefinition) ComponentKind() Kind { return KindClass }

// NewClassDefinition constructs an empty ClassDefinition shell.
func NewClassDefinition(library string, name symtab.SymbolId, node ast.Id) *ClassDefinition {
	return &ClassDefinition{common: newCommon(library, name, node)}
}

// UdpTableRow is one row of a primitive's state table, encoded as
// space-separated symbols per spec.md section 4.3 ("table-entry strings
// encoded as space-separated symbols").
type UdpTableRow struct {
	Text string
}

// UdpDefinition is a `primitive ... endprimitive` declaration (a
// User-Defined Primitive, spec.md GLOSSARY).
type UdpDefinition struct {
	common
	Ports      []*Signal
	Initial    *Statement
	TableRows  []UdpTableRow
	Sequential bool
}

// ComponentKind implements DesignComponent.
func (*UdpDefinition) ComponentKind() Kind { return KindUdp }

// NewUdpDefinition constructs an empty UdpDefinition shell.
func NewUdpDefinition(library string, name symtab.SymbolId, node ast.Id) *UdpDefinition {
	return &UdpDefinition{common: newCommon(library, name, node)}
}
