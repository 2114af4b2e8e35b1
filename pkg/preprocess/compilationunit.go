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
	"sync"

	"github.com/Apotell/surelog-core/pkg/symtab"
)

// directiveInterval records one `timescale or `default_nettype directive,
// keyed by the (file, line) at which it took effect (spec.md section 4.1
// "Timescale and default_nettype").
type directiveInterval struct {
	FromFile symtab.PathId
	FromLine uint32
	Value    string
}

// CompilationUnit is the process-wide accumulator of macro definitions and
// directive state described in spec.md section 2 (C4) and section 4.1. A
// Session owns exactly one CompilationUnit per library (or one shared
// across the whole run, depending on command-line scoping -- the core
// treats that as an external policy and just needs somewhere to record
// state keyed by file).
//
// Per spec.md's Open Question on `default_nettype none` lookup (see
// DESIGN.md), this implementation resolves lookups strictly
// last-before-line and scoped to the file the directive was recorded
// against -- a chunked/included file does not inherit directives recorded
// against its including parent beyond the point of inclusion, because each
// interval's FromFile is the *origin* file id (resolved via the origin
// map), not the preprocessed-stream's synthetic id.
type CompilationUnit struct {
	mu sync.RWMutex

	baseline *macroTable

	timescale      []directiveInterval
	defaultNettype []directiveInterval
}

// NewCompilationUnit constructs an empty unit with a given set of
// predefined macros.
func NewCompilationUnit(predefined map[string]string) *CompilationUnit {
	cu := &CompilationUnit{baseline: newMacroTable()}

	for name, body := range predefined {
		cu.baseline.define(&MacroDef{Name: name, Body: body})
	}

	return cu
}

// MacroTableSnapshot returns a private copy of the unit's current macro
// table, suitable for a single file's preprocessing job to mutate freely.
func (cu *CompilationUnit) MacroTableSnapshot() *macroTable {
	cu.mu.RLock()
	defer cu.mu.RUnlock()

	return cu.baseline.clone()
}

// MergeMacroTable folds a file's post-preprocessing macro table back into
// the unit's shared baseline, so macros defined in file A are visible when
// compiling file B in the same compilation unit (SystemVerilog macro
// scope is at least file-order-dependent within a unit).
func (cu *CompilationUnit) MergeMacroTable(t *macroTable) {
	cu.mu.Lock()
	defer cu.mu.Unlock()

	for k, v := range t.defs {
		cu.baseline.defs[k] = v
	}
}

// RecordTimescale records a `timescale directive taking effect at
// (file,line).
func (cu *CompilationUnit) RecordTimescale(file symtab.PathId, line uint32, value string) {
	cu.mu.Lock()
	defer cu.mu.Unlock()
	cu.timescale = append(cu.timescale, directiveInterval{file, line, value})
}

// RecordDefaultNettype records a `default_nettype directive taking effect
// at (file,line). An empty value represents `default_nettype none.
func (cu *CompilationUnit) RecordDefaultNettype(file symtab.PathId, line uint32, value string) {
	cu.mu.Lock()
	defer cu.mu.Unlock()
	cu.defaultNettype = append(cu.defaultNettype, directiveInterval{file, line, value})
}

// TimescaleAt returns the most recent `timescale value whose FromLine
// precedes (file,line), or ("", false) if none applies.
func (cu *CompilationUnit) TimescaleAt(file symtab.PathId, line uint32) (string, bool) {
	cu.mu.RLock()
	defer cu.mu.RUnlock()

	return lastBefore(cu.timescale, file, line)
}

// DefaultNettypeAt returns the most recent `default_nettype value whose
// FromLine precedes (file,line), or ("wire", false) if none applies --
// "wire" is the SystemVerilog default in the absence of any directive.
func (cu *CompilationUnit) DefaultNettypeAt(file symtab.PathId, line uint32) (string, bool) {
	cu.mu.RLock()
	defer cu.mu.RUnlock()

	if v, ok := lastBefore(cu.defaultNettype, file, line); ok {
		return v, true
	}

	return "wire", false
}

// lastBefore scans intervals for the one with the greatest FromLine <=
// line among those recorded against the same file -- "last-before-line,
// same-file-only" per the Open Question resolution in DESIGN.md.
func lastBefore(intervals []directiveInterval, file symtab.PathId, line uint32) (string, bool) {
	var (
		best    directiveInterval
		found   bool
	)

	for _, iv := range intervals {
		if iv.FromFile != file || iv.FromLine > line {
			continue
		}

		if !found || iv.FromLine > best.FromLine {
			best = iv
			found = true
		}
	}

	return best.Value, found
}
