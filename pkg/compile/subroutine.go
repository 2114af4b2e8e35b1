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
package compile

import (
	"github.com/Apotell/surelog-core/pkg/ast"
	"github.com/Apotell/surelog-core/pkg/design"
)

// compileSubroutine converts a KindTaskDecl/KindFunctionDecl VObject into
// a design.Subroutine. Bodies are deferred by the parser (spec.md section
// 4.3 Phase FUNCTION: "compile function and task signatures, bodies
// deferred"), so Body stays empty here; only the signature is built.
func (c *Compiler) compileSubroutine(fc *ast.FileContent, id ast.Id) *design.Subroutine {
	v := fc.Get(id)

	kind := design.SubroutineTask
	if v.Type == ast.KindFunctionDecl {
		kind = design.SubroutineFunction
	}

	var args []design.Signal

	for _, argId := range fc.Children(id) {
		arg := c.compileSignal(fc, argId, true, nil)
		args = append(args, *arg)
	}

	return &design.Subroutine{
		Kind: kind,
		Name: v.Symbol,
		// The return-type keyword is consumed by the parser's lookahead
		// skip and not preserved on the node; functions without a tracked
		// return type default to void, same as a task.
		ReturnType: &design.Primitive{TKind: design.TSVoid},
		Args:       args,
		Location:   locOf(fc, id),
	}
}
