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

	"github.com/bits-and-blooms/bitset"

	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/symtab"
)

// ConstantFold evaluates e to a design.Value, per spec.md section 4.4's
// constant-folding rules. scope resolves a RefObj against parameters
// already compiled earlier in the same declaration list (spec.md
// scenario S3); a reference scope does not cover -- a signal, a
// not-yet-resolved hierarchical path, anything C8 alone can bind --
// yields an invalid value here, since full symbol resolution is C8's
// job, not C7's. Division/modulo by zero and $clog2 of a non-positive
// argument yield InvalidValue rather than panicking (spec.md section
// 4.4: "an invalid value, not a crash").
func ConstantFold(e design.Expr, scope map[symtab.SymbolId]*design.Parameter) design.Value {
	if e == nil {
		return design.InvalidValue()
	}

	switch n := e.(type) {
	case *design.Constant:
		return n.Value

	case *design.RefObj:
		if scope != nil {
			if p, ok := scope[n.Name]; ok {
				if !p.IsType {
					return ConstantFold(p.Default, scope)
				}
			}
		}

		return design.InvalidValue()

	case *design.Operation:
		return foldOperation(n, scope)

	case *design.MethodCall:
		return foldMethodCall(n, scope)

	case *design.Select:
		return foldSelect(n, scope)

	default:
		return design.InvalidValue()
	}
}

// foldSelect evaluates a constant bit-select or part-select (`x[hi:lo]`,
// `x[bit]`) against an already-folded target value. The target's
// magnitude is loaded bit-by-bit into a bitset.BitSet rather than shifted
// and masked with big.Int directly, since a part-select is exactly the
// "extract this contiguous run of set bits" operation the bitset package
// exists for -- the same structure-holding-a-bit-range role it plays in
// the teacher's schema/constraint bitmaps, just applied to a folded
// constant's bit pattern instead of a row selector.
func foldSelect(sel *design.Select, scope map[symtab.SymbolId]*design.Parameter) design.Value {
	target := ConstantFold(sel.Target, scope)
	if target.Invalid {
		return design.InvalidValue()
	}

	high := ConstantFold(sel.High, scope)
	if high.Invalid {
		return design.InvalidValue()
	}

	low := high
	if sel.Low != nil {
		low = ConstantFold(sel.Low, scope)
		if low.Invalid {
			return design.InvalidValue()
		}
	}

	hi, lo := high.AsBigInt().Int64(), low.AsBigInt().Int64()
	if hi < lo || lo < 0 {
		return design.InvalidValue()
	}

	width := uint(hi-lo) + 1

	srcWidth := uint(target.Width)
	if srcWidth == 0 {
		srcWidth = 32
	}

	src := bitset.New(srcWidth)

	mag := target.AsBigInt()
	for i := uint(0); i < srcWidth; i++ {
		if mag.Bit(int(i)) == 1 {
			src.Set(i)
		}
	}

	result := new(big.Int)

	for i := uint(0); i < width; i++ {
		srcBit := uint(lo) + i
		if srcBit < srcWidth && src.Test(srcBit) {
			result.SetBit(result, int(i), 1)
		}
	}

	return design.NewWide(result, uint32(width), false)
}

func foldOperation(op *design.Operation, scope map[symtab.SymbolId]*design.Parameter) design.Value {
	if op.Op == design.OpConditional {
		cond := ConstantFold(op.Operands[0], scope)
		if cond.Invalid {
			return design.InvalidValue()
		}

		if cond.AsBigInt().Sign() != 0 {
			return ConstantFold(op.Operands[1], scope)
		}

		return ConstantFold(op.Operands[2], scope)
	}

	operands := make([]design.Value, len(op.Operands))

	for i, o := range op.Operands {
		operands[i] = ConstantFold(o, scope)

		if operands[i].Invalid {
			return design.InvalidValue()
		}
	}

	if len(operands) == 1 {
		return foldUnary(op.Op, operands[0])
	}

	return foldBinary(op.Op, operands[0], operands[1])
}

func foldUnary(op design.Opcode, a design.Value) design.Value {
	av := a.AsBigInt()

	switch op {
	case design.OpSub:
		return fromBig(new(big.Int).Neg(av), a.Width, true)
	case design.OpLogNot:
		return boolValue(av.Sign() == 0)
	case design.OpBitNot:
		mask := bitMask(a.Width)

		return fromBig(new(big.Int).Xor(av, mask), a.Width, a.Signed)
	case design.OpRedAnd:
		return boolValue(allBitsSet(av, a.Width))
	case design.OpRedOr:
		return boolValue(av.Sign() != 0)
	case design.OpRedNand:
		return boolValue(!allBitsSet(av, a.Width))
	case design.OpRedNor:
		return boolValue(av.Sign() == 0)
	case design.OpRedXor:
		return boolValue(parity(av)%2 == 1)
	case design.OpRedXnor:
		return boolValue(parity(av)%2 == 0)
	default:
		return design.InvalidValue()
	}
}

func foldBinary(op design.Opcode, a, b design.Value) design.Value {
	av, bv := a.AsBigInt(), b.AsBigInt()
	width := a.Width

	if b.Width > width {
		width = b.Width
	}

	switch op {
	case design.OpAdd:
		return fromBig(new(big.Int).Add(av, bv), width+1, a.Signed || b.Signed)
	case design.OpSub:
		return fromBig(new(big.Int).Sub(av, bv), width+1, true)
	case design.OpMul:
		return fromBig(new(big.Int).Mul(av, bv), width*2, a.Signed || b.Signed)
	case design.OpDiv:
		if bv.Sign() == 0 {
			return design.InvalidValue()
		}

		return fromBig(new(big.Int).Quo(av, bv), width, a.Signed || b.Signed)
	case design.OpMod:
		if bv.Sign() == 0 {
			return design.InvalidValue()
		}

		return fromBig(new(big.Int).Rem(av, bv), width, a.Signed || b.Signed)
	case design.OpPow:
		if bv.Sign() < 0 {
			return design.InvalidValue()
		}

		return fromBig(new(big.Int).Exp(av, bv, nil), width, false)
	case design.OpShl, design.OpAShl:
		return fromBig(new(big.Int).Lsh(av, uint(bv.Int64())), width, a.Signed)
	case design.OpShr:
		return fromBig(new(big.Int).Rsh(av, uint(bv.Int64())), width, false)
	case design.OpAShr:
		return fromBig(new(big.Int).Rsh(av, uint(bv.Int64())), width, a.Signed)
	case design.OpBitAnd:
		return fromBig(new(big.Int).And(av, bv), width, false)
	case design.OpBitOr:
		return fromBig(new(big.Int).Or(av, bv), width, false)
	case design.OpBitXor:
		return fromBig(new(big.Int).Xor(av, bv), width, false)
	case design.OpBitXnor:
		return fromBig(new(big.Int).Xor(new(big.Int).Xor(av, bv), bitMask(width)), width, false)
	case design.OpLt:
		return boolValue(av.Cmp(bv) < 0)
	case design.OpLe:
		return boolValue(av.Cmp(bv) <= 0)
	case design.OpGt:
		return boolValue(av.Cmp(bv) > 0)
	case design.OpGe:
		return boolValue(av.Cmp(bv) >= 0)
	case design.OpEq, design.OpCaseEq, design.OpWildEq:
		return boolValue(av.Cmp(bv) == 0)
	case design.OpNe, design.OpCaseNe, design.OpWildNe:
		return boolValue(av.Cmp(bv) != 0)
	case design.OpLogAnd:
		return boolValue(av.Sign() != 0 && bv.Sign() != 0)
	case design.OpLogOr:
		return boolValue(av.Sign() != 0 || bv.Sign() != 0)
	case design.OpConcat:
		return foldConcat(av, bv, a.Width, b.Width)
	default:
		return design.InvalidValue()
	}
}

func foldConcat(av, bv *big.Int, aw, bw uint32) design.Value {
	shifted := new(big.Int).Lsh(av, uint(bw))
	combined := new(big.Int).Or(shifted, bv)

	return fromBig(combined, aw+bw, false)
}

func foldMethodCall(m *design.MethodCall, scope map[symtab.SymbolId]*design.Parameter) design.Value {
	// $clog2 is the only system function spec.md section 4.4 names
	// explicitly; any other call is not constant-foldable at this stage.
	if len(m.Args) != 1 {
		return design.InvalidValue()
	}

	arg := ConstantFold(m.Args[0], scope)
	if arg.Invalid {
		return design.InvalidValue()
	}

	n := arg.AsBigInt()
	if n.Sign() <= 0 {
		return design.InvalidValue()
	}

	result := 0
	limit := big.NewInt(1)

	for limit.Cmp(n) < 0 {
		limit.Lsh(limit, 1)
		result++
	}

	return design.NewUnsigned(uint64(result), 32)
}

func fromBig(n *big.Int, width uint32, signed bool) design.Value {
	if width == 0 {
		width = 32
	}

	if n.IsInt64() || n.IsUint64() {
		if n.Sign() < 0 {
			return design.Value{Kind: design.ValueInteger, Bits: uint64(n.Int64()), Width: width, Signed: true}
		}

		return design.Value{Kind: design.ValueUnsigned, Bits: n.Uint64(), Width: width, Signed: signed}
	}

	return design.Value{Kind: design.ValueUnsigned, Wide: new(big.Int).Set(n), Width: width, Signed: signed}
}

func boolValue(b bool) design.Value {
	if b {
		return design.NewUnsigned(1, 1)
	}

	return design.NewUnsigned(0, 1)
}

func bitMask(width uint32) *big.Int {
	if width == 0 {
		width = 32
	}

	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
}

func allBitsSet(v *big.Int, width uint32) bool {
	return new(big.Int).And(v, bitMask(width)).Cmp(bitMask(width)) == 0
}

func parity(v *big.Int) int {
	count := 0

	for _, w := range v.Bits() {
		for w != 0 {
			count += int(w & 1)
			w >>= 1
		}
	}

	return count
}
