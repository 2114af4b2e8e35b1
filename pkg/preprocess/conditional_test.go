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

import "testing"

func TestCondStackElsifElseChain(t *testing.T) {
	s := newCondStack()

	s.PushIfdef("A", false) // A undefined -> branch inactive
	if s.Active() {
		t.Fatalf("expected inactive after ifdef A (undefined)")
	}

	if !s.Elsif("B", true) { // B defined, no earlier branch taken -> active
		t.Fatalf("elsif should succeed")
	}

	if !s.Active() {
		t.Fatalf("expected active after elsif B (defined, first match)")
	}

	if !s.Elsif("C", true) { // a branch already taken -> inactive regardless
		t.Fatalf("elsif should succeed")
	}

	if s.Active() {
		t.Fatalf("expected inactive: earlier elsif branch already taken")
	}

	if !s.Else() {
		t.Fatalf("else should succeed")
	}

	if s.Active() {
		t.Fatalf("expected inactive: else after a branch already taken")
	}

	if !s.Endif() {
		t.Fatalf("endif should succeed")
	}

	if !s.Empty() {
		t.Fatalf("expected stack empty after endif")
	}
}

func TestCondStackNesting(t *testing.T) {
	s := newCondStack()

	s.PushIfdef("OUTER", true)
	if !s.Active() {
		t.Fatalf("expected active")
	}

	s.PushIfndef("INNER", false) // INNER undefined -> ifndef true
	if !s.Active() {
		t.Fatalf("expected nested active")
	}

	s.Endif() // closes INNER

	if !s.Active() {
		t.Fatalf("expected outer still active")
	}

	s.Endif() // closes OUTER

	if !s.Empty() {
		t.Fatalf("expected stack empty")
	}
}

func TestCondStackOuterInactiveSuppressesInner(t *testing.T) {
	s := newCondStack()

	s.PushIfdef("OUTER", false) // inactive
	s.PushIfdef("INNER", true)  // INNER itself defined, but outer inactive

	if s.Active() {
		t.Fatalf("expected inactive: outer branch not taken")
	}

	s.Endif()
	s.Endif()
}

func TestEndifWithoutOpenReturnsFalse(t *testing.T) {
	s := newCondStack()
	if s.Endif() {
		t.Fatalf("expected false: nothing open")
	}
}
