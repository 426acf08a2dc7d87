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

// Package candid parses Candid interface text and decodes Candid binary
// replies. The wire format identifies record fields and variant alternatives
// by a 32-bit hash of their name, never by the name itself; this package
// recovers the names from the textual interface.
package candid

// FieldHash computes the Candid field-id hash of a name:
// h = foldl(h*223 + byte) mod 2^32 over the UTF-8 bytes.
//
// This must match the wire protocol exactly. The empty string hashes to 0.
func FieldHash(name string) uint32 {
	var h uint32
	for _, b := range []byte(name) {
		h = h*223 + uint32(b)
	}
	return h
}
