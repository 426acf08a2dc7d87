// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package candid

import (
	"fmt"
	"math/big"

	"github.com/dotandev/canact/internal/value"
)

// EncodeArgs encodes a tuple of scalar arguments. Only the shapes the CLI
// needs are supported: text, bool, int/nat and principal. Zero arguments
// encode to the canonical empty tuple DIDL\x00\x00.
func EncodeArgs(args []value.Value) ([]byte, error) {
	out := []byte("DIDL")
	out = appendULEB(out, 0) // no composite types needed for scalars
	out = appendULEB(out, uint64(len(args)))

	for _, a := range args {
		switch a.Kind {
		case value.KindText:
			out = appendSLEB(out, typeText)
		case value.KindBool:
			out = appendSLEB(out, typeBool)
		case value.KindInt:
			if a.Int.Sign() < 0 {
				out = appendSLEB(out, typeInt)
			} else {
				out = appendSLEB(out, typeNat)
			}
		case value.KindPrincipal:
			out = appendSLEB(out, typePrincipal)
		case value.KindNull:
			out = appendSLEB(out, typeNull)
		default:
			return nil, fmt.Errorf("unsupported argument kind %s", a.Kind)
		}
	}

	for _, a := range args {
		switch a.Kind {
		case value.KindText:
			out = appendULEB(out, uint64(len(a.Text)))
			out = append(out, a.Text...)
		case value.KindBool:
			if a.Bool {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		case value.KindInt:
			if a.Int.Sign() < 0 {
				out = appendSLEBBig(out, a.Int)
			} else {
				out = appendULEBBig(out, a.Int)
			}
		case value.KindPrincipal:
			raw := a.Principal.Raw()
			out = append(out, 1)
			out = appendULEB(out, uint64(len(raw)))
			out = append(out, raw...)
		case value.KindNull:
			// null carries no bytes
		}
	}
	return out, nil
}

func appendULEBBig(dst []byte, n *big.Int) []byte {
	v := new(big.Int).Set(n)
	mask := big.NewInt(0x7F)
	for {
		b := byte(new(big.Int).And(v, mask).Int64())
		v.Rsh(v, 7)
		if v.Sign() != 0 {
			dst = append(dst, b|0x80)
		} else {
			return append(dst, b)
		}
	}
}

func appendSLEBBig(dst []byte, n *big.Int) []byte {
	if n.IsInt64() {
		return appendSLEB(dst, n.Int64())
	}
	// Arbitrary-precision signed LEB128. And on negatives follows two's
	// complement semantics, which is exactly what the encoding wants.
	v := new(big.Int).Set(n)
	mask := big.NewInt(0x7F)
	for {
		b := byte(new(big.Int).And(v, mask).Int64())
		v.Rsh(v, 7)
		done := (v.Sign() == 0 && b&0x40 == 0) ||
			(v.Cmp(big.NewInt(-1)) == 0 && b&0x40 != 0)
		if done {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}
