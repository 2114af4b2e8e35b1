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
	"math/big"
	"strconv"
	"strings"

	"github.com/Apotell/surelog-core/pkg/design"
)

// ParseLiteral converts a lexed number/string token's text into a
// design.Value, per spec.md section 4.4's literal rules: plain decimal
// integers, based literals (`8'hFF`, `4'b1010`, `'d5`, ...), reals, and
// bare strings. Magnitudes that do not fit in 64 bits are carried as
// math/big values (spec.md section 4.4: "bit widths over 64 ... carried
// wide"). Malformed literals degrade to an invalid value rather than a
// parse failure -- errors are data (spec.md section 6).
func ParseLiteral(text string) design.Value {
	if strings.ContainsAny(text, "'") {
		return parseBasedLiteral(text)
	}

	if strings.Contains(text, ".") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return design.Value{Kind: design.ValueDouble, Str: text, Bits: uint64(f)}
		}
	}

	clean := strings.ReplaceAll(text, "_", "")

	if n, ok := new(big.Int).SetString(clean, 10); ok {
		if n.IsUint64() {
			return design.NewUnsigned(n.Uint64(), 32)
		}

		return design.NewWide(n, uint32(n.BitLen()), false)
	}

	// Not a recognizable numeric literal -- treat as a bare string token
	// (this path also covers TokString text, which never contains a `'`).
	return design.Value{Kind: design.ValueString, Str: text}
}

// parseBasedLiteral handles `[size]'[s]<base><digits>` and the unsized
// `'<base><digits>` form.
func parseBasedLiteral(text string) design.Value {
	idx := strings.IndexByte(text, '\'')

	sizeStr := strings.TrimSpace(text[:idx])
	rest := text[idx+1:]

	width := uint32(32)

	if sizeStr != "" {
		if n, err := strconv.ParseUint(strings.ReplaceAll(sizeStr, "_", ""), 10, 32); err == nil {
			width = uint32(n)
		}
	}

	signed := false

	if len(rest) > 0 && (rest[0] == 's' || rest[0] == 'S') {
		signed = true
		rest = rest[1:]
	}

	if rest == "" {
		return design.InvalidValue()
	}

	baseCh := rest[0]
	digits := strings.ReplaceAll(rest[1:], "_", "")

	var base int

	var kind design.ValueKind

	switch baseCh {
	case 'b', 'B':
		base, kind = 2, design.ValueBinary
	case 'o', 'O':
		base, kind = 8, design.ValueOctal
	case 'd', 'D':
		base, kind = 10, design.ValueInteger
	case 'h', 'H':
		base, kind = 16, design.ValueHex
	default:
		return design.InvalidValue()
	}

	// 'x'/'z' digits collapse to 0 -- this front end does not model
	// 4-state propagation through constant folding, only 2-state values.
	digits = strings.Map(func(r rune) rune {
		switch r {
		case 'x', 'X', 'z', 'Z', '?':
			return '0'
		default:
			return r
		}
	}, digits)

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return design.InvalidValue()
	}

	if n.IsUint64() {
		return design.Value{Kind: kind, Bits: n.Uint64(), Width: width, Signed: signed}
	}

	return design.Value{Kind: kind, Wide: n, Width: width, Signed: signed}
}
