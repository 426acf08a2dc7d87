// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package candid

import (
	"math/big"
)

// reader is a cursor over a Candid binary message.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) byte() (byte, bool) {
	if r.pos >= len(r.buf) {
		return 0, false
	}
	b := r.buf[r.pos]
	r.pos++
	return b, true
}

func (r *reader) bytes(n int) ([]byte, bool) {
	if n < 0 || r.remaining() < n {
		return nil, false
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, true
}

// uleb reads an unsigned LEB128 value that must fit in 64 bits.
func (r *reader) uleb() (uint64, bool) {
	var result uint64
	var shift uint
	for {
		b, ok := r.byte()
		if !ok {
			return 0, false
		}
		if shift >= 64 {
			return 0, false
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, true
		}
		shift += 7
	}
}

// sleb reads a signed LEB128 value that must fit in 64 bits.
func (r *reader) sleb() (int64, bool) {
	var result int64
	var shift uint
	for {
		b, ok := r.byte()
		if !ok {
			return 0, false
		}
		if shift >= 64 {
			return 0, false
		}
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, true
		}
	}
}

// ulebBig reads an unsigned LEB128 value of arbitrary precision (nat).
func (r *reader) ulebBig() (*big.Int, bool) {
	result := new(big.Int)
	var shift uint
	for {
		b, ok := r.byte()
		if !ok {
			return nil, false
		}
		chunk := new(big.Int).Lsh(big.NewInt(int64(b&0x7F)), shift)
		result.Or(result, chunk)
		if b&0x80 == 0 {
			return result, true
		}
		shift += 7
	}
}

// slebBig reads a signed LEB128 value of arbitrary precision (int).
func (r *reader) slebBig() (*big.Int, bool) {
	result := new(big.Int)
	var shift uint
	for {
		b, ok := r.byte()
		if !ok {
			return nil, false
		}
		chunk := new(big.Int).Lsh(big.NewInt(int64(b&0x7F)), shift)
		result.Or(result, chunk)
		shift += 7
		if b&0x80 == 0 {
			if b&0x40 != 0 {
				// Sign-extend: subtract 2^shift.
				result.Sub(result, new(big.Int).Lsh(big.NewInt(1), shift))
			}
			return result, true
		}
	}
}

// appendULEB encodes an unsigned LEB128 value, used by the argument encoder.
func appendULEB(dst []byte, n uint64) []byte {
	for {
		b := byte(n & 0x7F)
		n >>= 7
		if n != 0 {
			dst = append(dst, b|0x80)
		} else {
			return append(dst, b)
		}
	}
}

// appendSLEB encodes a signed LEB128 value.
func appendSLEB(dst []byte, n int64) []byte {
	for {
		b := byte(n & 0x7F)
		n >>= 7
		if (n == 0 && b&0x40 == 0) || (n == -1 && b&0x40 != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}
