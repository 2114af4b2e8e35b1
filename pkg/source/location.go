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

// Location identifies a span of text within a specific file, by PathId.
// Diagnostics, AST nodes and IR nodes all carry a Location.
type Location struct {
	File symtab.PathId
	Span Span
}

// Less orders locations by (file, start line, start column) -- the sort
// key diagnostics are ordered by before being emitted (spec.md section 5
// ordering guarantee: "(path_id, line, column)").
func (l Location) Less(o Location) bool {
	if l.File != o.File {
		return l.File < o.File
	}

	return l.Span.Start.Less(o.Span.Start)
}

// IsZero reports whether this location was never set.
func (l Location) IsZero() bool {
	return l.File == symtab.BadPathId && l.Span == Span{}
}
