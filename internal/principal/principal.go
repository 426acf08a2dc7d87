// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package principal implements the Internet Computer principal identifier
// and its canonical textual representation: base32 (lowercase, unpadded) of
// the CRC32-prefixed raw bytes, grouped in fives with dashes.
package principal

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"
)

// MaxRawLen is the maximum length of a principal's raw form on the wire.
const MaxRawLen = 29

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is an opaque identity reference: a canister, a user, or one of
// the reserved identities (anonymous, management).
type Principal struct {
	raw []byte
}

// FromBytes constructs a Principal from its raw wire bytes.
func FromBytes(raw []byte) (Principal, error) {
	if len(raw) > MaxRawLen {
		return Principal{}, fmt.Errorf("principal too long: %d bytes (max %d)", len(raw), MaxRawLen)
	}
	return Principal{raw: bytes.Clone(raw)}, nil
}

// FromText parses the canonical textual form and validates its checksum.
func FromText(text string) (Principal, error) {
	cleaned := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), "-", "")
	data, err := encoding.DecodeString(strings.ToUpper(cleaned))
	if err != nil {
		return Principal{}, fmt.Errorf("malformed principal text: %w", err)
	}
	if len(data) < 4 {
		return Principal{}, fmt.Errorf("principal text too short")
	}
	sum := binary.BigEndian.Uint32(data[:4])
	raw := data[4:]
	if sum != crc32.ChecksumIEEE(raw) {
		return Principal{}, fmt.Errorf("principal checksum mismatch")
	}
	if len(raw) > MaxRawLen {
		return Principal{}, fmt.Errorf("principal too long: %d bytes (max %d)", len(raw), MaxRawLen)
	}
	return Principal{raw: raw}, nil
}

// Anonymous returns the anonymous principal (the single byte 0x04).
func Anonymous() Principal {
	return Principal{raw: []byte{0x04}}
}

// Management returns the management canister principal (zero bytes, "aaaaa-aa").
func Management() Principal {
	return Principal{raw: []byte{}}
}

// Raw returns a copy of the principal's wire bytes.
func (p Principal) Raw() []byte {
	return bytes.Clone(p.raw)
}

// String renders the canonical textual form.
func (p Principal) String() string {
	data := make([]byte, 4+len(p.raw))
	binary.BigEndian.PutUint32(data[:4], crc32.ChecksumIEEE(p.raw))
	copy(data[4:], p.raw)

	s := strings.ToLower(encoding.EncodeToString(data))

	var b strings.Builder
	for i, r := range s {
		if i > 0 && i%5 == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Equal reports whether two principals have identical raw bytes.
func (p Principal) Equal(other Principal) bool {
	return bytes.Equal(p.raw, other.raw)
}

// MarshalJSON renders the principal as its textual form.
func (p Principal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}
