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

import "fmt"

// ErrorKind enumerates the PreprocError kinds of spec.md section 4.1/7.
type ErrorKind uint8

// Recognized preprocessor error kinds.
const (
	ErrUnresolvedInclude ErrorKind = iota
	ErrRecursiveInclude
	ErrMacroRecursion
	ErrMacroArityMismatch
	ErrUnterminatedConditional
	ErrUnknownMacro
	ErrInvalidIncludeFilename
	ErrInvalidTimescale
)

// Error is a preprocessing failure localized to a (line, column) of the
// file currently being processed.
type Error struct {
	Kind    ErrorKind
	Line    uint32
	Column  uint32
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
