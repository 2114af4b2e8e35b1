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

// Package symtab interns strings and file paths into small opaque handles.
//
// Every symbolic name seen by the front end -- identifiers, qualified
// names, file paths -- passes through a Table so that later passes can
// compare handles instead of strings. Zero is reserved as the "bad" value
// for both handle kinds.
package symtab

import "sync"

// SymbolId is an interned string handle.
type SymbolId uint32

// PathId is an interned file-path handle.
type PathId uint32

// BadSymbolId is returned when a lookup fails.
const BadSymbolId SymbolId = 0

// BadPathId is returned when a lookup fails.
const BadPathId PathId = 0

// Table interns strings (SymbolId) and paths (PathId). It is safe for
// concurrent use: readers take a shared lock, the rarer insert path takes
// an exclusive one, and interning is idempotent -- registering the same
// string twice (even from different goroutines) yields the same id.
type Table struct {
	mu sync.RWMutex

	symbols   []string
	symbolIds map[string]SymbolId

	paths   []string
	pathIds map[string]PathId
}

// New constructs an empty symbol table. Index 0 of each backing slice is
// left unused so that the zero value of SymbolId/PathId stays "bad".
func New() *Table {
	return &Table{
		symbols:   []string{""},
		symbolIds: make(map[string]SymbolId),
		paths:     []string{""},
		pathIds:   make(map[string]PathId),
	}
}

// Register interns s and returns its (possibly pre-existing) SymbolId.
func (t *Table) Register(s string) SymbolId {
	t.mu.RLock()
	if id, ok := t.symbolIds[s]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	// Re-check: another writer may have inserted it between the
	// read-unlock above and this write-lock.
	if id, ok := t.symbolIds[s]; ok {
		return id
	}

	id := SymbolId(len(t.symbols))
	t.symbols = append(t.symbols, s)
	t.symbolIds[s] = id

	return id
}

// Lookup returns the string registered under id, or "" if id is bad or
// unknown.
func (t *Table) Lookup(id SymbolId) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(id) >= len(t.symbols) {
		return ""
	}

	return t.symbols[id]
}

// RegisterPath interns a file path and returns its PathId.
func (t *Table) RegisterPath(p string) PathId {
	t.mu.RLock()
	if id, ok := t.pathIds[p]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.pathIds[p]; ok {
		return id
	}

	id := PathId(len(t.paths))
	t.paths = append(t.paths, p)
	t.pathIds[p] = id

	return id
}

// LookupPath returns the path registered under id, or "" if unknown.
func (t *Table) LookupPath(id PathId) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(id) >= len(t.paths) {
		return ""
	}

	return t.paths[id]
}
