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
package design

import "math/big"

// ValueKind enumerates the constant-folding representation variants named
// in spec.md section 3 ("Value: ... variants {None, Binary, Hex, Octal,
// Unsigned, Integer, Double, String, Scalar, LValue-multi-word}").
type ValueKind uint8

// Recognized value kinds.
const (
	ValueNone ValueKind = iota
	ValueBinary
	ValueHex
	ValueOctal
	ValueUnsigned
	ValueInteger
	ValueDouble
	ValueString
	ValueScalar
	ValueLValueMultiWord
)

// Value is the constant-folding representation spec.md section 3
// describes: it carries size, signedness, and an optional typespec,
// alongside the actual numeric payload. Values wider than 64 bits carry
// their magnitude in Wide (math/big.Int); everything else fits in Bits.
//
// Values are owned by a short-lived factory that is expected to reuse
// slots (spec.md section 3 "Lifecycles": "Values: short-lived"); this
// struct is deliberately small and copyable so a factory can pool it
// without extra indirection.
type Value struct {
	Kind     ValueKind
	Bits     uint64
	Wide     *big.Int
	Width    uint32
	Signed   bool
	Str      string
	Typespec Typespec
	// Invalid marks a value produced by an operation spec.md section 4.4
	// defines as yielding "an invalid value, not a crash" (division or
	// modulo by zero, $clog2 of a non-positive argument, etc). The invalid
	// flag propagates through any operation that consumes this value.
	Invalid bool
}

// InvalidValue constructs the sentinel invalid value.
func InvalidValue() Value {
	return Value{Kind: ValueNone, Invalid: true}
}

// IsWide reports whether this value's magnitude does not fit in 64 bits
// and must be read from Wide instead of Bits.
func (v Value) IsWide() bool {
	return v.Wide != nil
}

// NewUnsigned constructs a value from an unsigned 64-bit magnitude with
// the given bit width.
func NewUnsigned(bits uint64, width uint32) Value {
	return Value{Kind: ValueUnsigned, Bits: bits, Width: width}
}

// NewWide constructs a value whose magnitude exceeds 64 bits, per spec.md
// section 4.4: "bit widths over 64 are represented as string-carrying
// StValues" -- here carried as a big.Int rather than a raw string, which
// is the idiomatic Go equivalent and keeps arithmetic operations (used by
// the constant folder in pkg/compile) exact without re-parsing text.
func NewWide(magnitude *big.Int, width uint32, signed bool) Value {
	return Value{Kind: ValueUnsigned, Wide: new(big.Int).Set(magnitude), Width: width, Signed: signed}
}

// AsBigInt returns the value's magnitude as a big.Int regardless of
// whether it was stored inline or wide.
func (v Value) AsBigInt() *big.Int {
	if v.Wide != nil {
		return new(big.Int).Set(v.Wide)
	}

	if v.Signed {
		return big.NewInt(int64(v.Bits))
	}

	return new(big.Int).SetUint64(v.Bits)
}
