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

// compileModport converts a KindModportDecl VObject into a design.Modport.
func (c *Compiler) compileModport(fc *ast.FileContent, id ast.Id) *design.Modport {
	v := fc.Get(id)

	var items []design.ModportItem

	for _, itemId := range fc.Children(id) {
		iv := fc.Get(itemId)
		dir := design.DirNone

		for _, sub := range fc.Children(itemId) {
			sv := fc.Get(sub)
			if sv.Type == ast.KindDirectionMarker {
				dir = directionText[c.symbols.Lookup(sv.Symbol)]
			}
		}

		items = append(items, design.ModportItem{
			SignalName: iv.Symbol,
			Direction:  dir,
			Location:   locOf(fc, itemId),
		})
	}

	return &design.Modport{Name: v.Symbol, Items: items, Location: locOf(fc, id)}
}
