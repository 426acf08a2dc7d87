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

package value

import "strconv"

// HashedKey reports whether a map key is a hash-encoded placeholder: an
// underscore followed by decimal digits only. On success it returns the
// parsed 32-bit hash.
func HashedKey(key string) (uint32, bool) {
	if len(key) < 2 || key[0] != '_' {
		return 0, false
	}
	for i := 1; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	h, err := strconv.ParseUint(key[1:], 10, 32)
	if err != nil {
		// Digits overflowing 32 bits are not a field hash.
		return 0, false
	}
	return uint32(h), true
}

// Rehydrate renames hash-encoded map keys back to their declared names using
// the hash table, recursively. Keys whose hash is unknown stay verbatim so
// the caller still sees the raw value; nothing is ever dropped. The
// transform is pure and never fails.
func Rehydrate(v Value, table map[uint32]string) Value {
	switch v.Kind {
	case KindMap:
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			key := f.Key
			if h, ok := HashedKey(key); ok {
				if name, known := table[h]; known {
					key = name
				}
			}
			fields[i] = Field{Key: key, Val: Rehydrate(f.Val, table)}
		}
		return Value{Kind: KindMap, Fields: fields}
	case KindList:
		items := make([]Value, len(v.List))
		for i, item := range v.List {
			items[i] = Rehydrate(item, table)
		}
		return Value{Kind: KindList, List: items}
	default:
		return v
	}
}
