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

// condKind is the frame kind of a conditional-compilation stack entry, per
// spec.md section 4.1 "Conditional stack".
type condKind uint8

// Recognized conditional frame kinds.
const (
	condIfdef condKind = iota
	condIfndef
	condElsif
	condElse
)

// condFrame is one entry of the conditional stack. Active is derived, not
// stored redundantly elsewhere: Active() = Defined && PreviousActive.
type condFrame struct {
	Kind      condKind
	MacroName string
	// Defined records whether this frame's own condition (its macro's
	// presence/absence, or "no earlier branch in this chain fired" for
	// elsif/else) held at the time the frame was pushed.
	Defined bool
	// PreviousActive captures the active flag of the enclosing frame (or
	// true, if this is the outermost frame) at push time.
	PreviousActive bool
	// AnyBranchTaken tracks, across the whole ifdef/elsif/else chain
	// sharing this opening frame, whether some earlier branch already
	// fired -- elsif/else frames consult this to decide their own Defined.
	AnyBranchTaken bool
}

// Active reports whether text following this frame should be emitted.
func (f condFrame) Active() bool {
	return f.Defined && f.PreviousActive
}

// condStack implements the conditional-inclusion state machine of spec.md
// section 4.1: a stack of frames, entered on `ifdef/`ifndef, amended on
// `elsif/`else, and unwound on `endif.
type condStack struct {
	frames []condFrame
}

func newCondStack() *condStack {
	return &condStack{}
}

// activeBefore is the active flag in effect before pushing a new frame:
// true if the stack is empty (top level), else the current top frame's
// Active().
func (s *condStack) activeBefore() bool {
	if len(s.frames) == 0 {
		return true
	}

	return s.frames[len(s.frames)-1].Active()
}

// Active reports whether text at the current position of the stream
// should be emitted.
func (s *condStack) Active() bool {
	return s.activeBefore()
}

// Empty reports whether the stack has been fully unwound -- used at EOF to
// detect an unterminated `ifdef (spec.md section 4.1 "Terminal").
func (s *condStack) Empty() bool {
	return len(s.frames) == 0
}

// PushIfdef handles `ifdef NAME.
func (s *condStack) PushIfdef(name string, defined bool) {
	s.frames = append(s.frames, condFrame{
		Kind:           condIfdef,
		MacroName:      name,
		Defined:        defined,
		PreviousActive: s.activeBefore(),
		AnyBranchTaken: defined,
	})
}

// PushIfndef handles `ifndef NAME.
func (s *condStack) PushIfndef(name string, defined bool) {
	s.frames = append(s.frames, condFrame{
		Kind:           condIfndef,
		MacroName:      name,
		Defined:        !defined,
		PreviousActive: s.activeBefore(),
		AnyBranchTaken: !defined,
	})
}

// Elsif handles `elsif NAME: it pops no frames, but pushes a new ELSIF
// frame on top of the still-open chain, whose Defined is true only if no
// earlier branch in the same chain already fired.
func (s *condStack) Elsif(name string, defined bool) bool {
	if s.Empty() {
		return false
	}

	top := s.frames[len(s.frames)-1]
	own := defined && !top.AnyBranchTaken
	s.frames = append(s.frames, condFrame{
		Kind:           condElsif,
		MacroName:      name,
		Defined:        own,
		PreviousActive: top.PreviousActive,
		AnyBranchTaken: top.AnyBranchTaken || own,
	})

	return true
}

// Else handles `else, mirroring Elsif but with an unconditional Defined
// (true unless an earlier branch already fired).
func (s *condStack) Else() bool {
	if s.Empty() {
		return false
	}

	top := s.frames[len(s.frames)-1]
	own := !top.AnyBranchTaken
	s.frames = append(s.frames, condFrame{
		Kind:           condElse,
		PreviousActive: top.PreviousActive,
		Defined:        own,
		AnyBranchTaken: true,
	})

	return true
}

// Endif pops frames until it removes the opening IFDEF/IFNDEF, restoring
// the outer active flag. Returns false if there was nothing open.
func (s *condStack) Endif() bool {
	for len(s.frames) > 0 {
		top := len(s.frames) - 1
		kind := s.frames[top].Kind
		s.frames = s.frames[:top]

		if kind == condIfdef || kind == condIfndef {
			return true
		}
	}

	return false
}
