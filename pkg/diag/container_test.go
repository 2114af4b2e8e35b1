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
	"bytes"
	"strings"
	"testing"
)

func TestErrorsSortedByLocation(t *testing.T) {
	c := NewContainer(nil)
	c.Add(Error{Kind: ParseSyntax, Severity: SeverityError, Primary: Location{PathId: 1, Line: 10, Column: 1}})
	c.Add(Error{Kind: ParseSyntax, Severity: SeverityError, Primary: Location{PathId: 1, Line: 2, Column: 5}})
	c.Add(Error{Kind: ParseSyntax, Severity: SeverityWarning, Primary: Location{PathId: 0, Line: 99, Column: 1}})

	sorted := c.Errors()
	if len(sorted) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(sorted))
	}

	if sorted[0].Primary.PathId != 0 {
		t.Fatalf("expected path 0 first, got %+v", sorted[0])
	}

	if sorted[1].Primary.Line != 2 || sorted[2].Primary.Line != 10 {
		t.Fatalf("errors not sorted by line within file: %+v", sorted)
	}
}

func TestCountsAndHasErrors(t *testing.T) {
	c := NewContainer(nil)
	c.Add(Error{Kind: PreprocUnknownMacro, Severity: SeverityWarning})

	if c.HasErrors() {
		t.Fatalf("expected no hard errors yet")
	}

	c.Add(Error{Kind: ParseSyntax, Severity: SeverityError})

	errs, warns := c.Counts()
	if errs != 1 || warns != 1 {
		t.Fatalf("expected 1 error/1 warning, got %d/%d", errs, warns)
	}

	if !c.HasErrors() {
		t.Fatalf("expected HasErrors true after adding an error")
	}
}

func TestPrintAllFormat(t *testing.T) {
	c := NewContainer(func(id uint32) string {
		if id == 1 {
			return "foo.sv"
		}
		return "?"
	})
	c.Add(Error{Kind: ParseSyntax, Severity: SeverityError, Primary: Location{PathId: 1, Line: 3, Column: 4}, Message: "bad token"})

	var buf bytes.Buffer
	c.PrintAll(&buf, false)

	out := buf.String()
	if !strings.Contains(out, "foo.sv:3:4: ParseError::Syntax: bad token") {
		t.Fatalf("unexpected output: %s", out)
	}

	if !strings.Contains(out, "(errors=1, warnings=0)") {
		t.Fatalf("missing summary: %s", out)
	}
}

func TestPrintAllMuted(t *testing.T) {
	c := NewContainer(nil)
	c.Add(Error{Kind: ParseSyntax, Severity: SeverityError})

	var buf bytes.Buffer
	c.PrintAll(&buf, true)

	out := buf.String()
	if strings.Contains(out, "ParseError") {
		t.Fatalf("expected diagnostics to be muted: %s", out)
	}

	if !strings.Contains(out, "(errors=1, warnings=0)") {
		t.Fatalf("summary should still print: %s", out)
	}
}
