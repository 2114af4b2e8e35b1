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
package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/term"
)

// PathResolver maps a PathId to its printable path. The container is kept
// decoupled from symtab.Table so it can be unit tested without a symbol
// table; Session wires a real resolver in.
type PathResolver func(uint32) string

// Container accumulates diagnostics from every pass and, once the run is
// done, sorts and prints them. Per spec.md section 6, it never aborts a
// pass on Add -- errors are data.
type Container struct {
	mu       sync.Mutex
	errors   []Error
	resolver PathResolver
}

// NewContainer constructs an empty diagnostic container.
func NewContainer(resolver PathResolver) *Container {
	if resolver == nil {
		resolver = func(id uint32) string { return fmt.Sprintf("<path#%d>", id) }
	}

	return &Container{resolver: resolver}
}

// Add appends a diagnostic. Safe for concurrent use from worker-pool
// goroutines (spec.md section 5: preprocessing/parsing/compiling are
// embarrassingly parallel per file).
func (c *Container) Add(e Error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, e)
}

// Errors returns a sorted snapshot of every diagnostic added so far,
// ordered by (path, line, column) per spec.md section 5's ordering
// guarantee.
func (c *Container) Errors() []Error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Error, len(c.errors))
	copy(out, c.errors)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Primary, out[j].Primary
		if a.PathId != b.PathId {
			return a.PathId < b.PathId
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		return a.Column < b.Column
	})

	return out
}

// HasErrors reports whether any SeverityError diagnostic was recorded.
func (c *Container) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.errors {
		if e.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Counts returns the number of errors and warnings recorded.
func (c *Container) Counts() (errors, warnings int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.errors {
		if e.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}

	return errors, warnings
}

// PrintAll writes every diagnostic to w in FILE:LINE:COL: kind: msg
// format, followed by a summary line, unless muteStdout is set (in which
// case only the summary is written).
func (c *Container) PrintAll(w io.Writer, muteStdout bool) {
	sorted := c.Errors()
	width := terminalWidth()

	for _, e := range sorted {
		if !muteStdout {
			line := fmt.Sprintf("%s:%d:%d: %s: %s",
				c.resolver(e.Primary.PathId), e.Primary.Line, e.Primary.Column, e.Kind, e.Message)
			fmt.Fprintln(w, wrapToWidth(line, width))
		}
	}

	errs, warns := c.Counts()
	fmt.Fprintf(w, "(errors=%d, warnings=%d)\n", errs, warns)
}

// terminalWidth probes the attached terminal, falling back to 120 columns
// when none is attached -- matching the teacher's perfstats.go width
// probe via golang.org/x/term.
func terminalWidth() int {
	if w, _, err := term.GetSize(0); err == nil && w > 0 {
		return w
	}

	return 120
}

// wrapToWidth performs a simple hard-wrap so very long diagnostic messages
// do not overrun narrow terminals; it never splits mid-word where a space
// is available.
func wrapToWidth(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}

	var b strings.Builder

	for len(s) > width {
		cut := strings.LastIndexByte(s[:width], ' ')
		if cut <= 0 {
			cut = width
		}

		b.WriteString(s[:cut])
		b.WriteByte('\n')
		s = strings.TrimLeft(s[cut:], " ")
	}

	b.WriteString(s)

	return b.String()
}
