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

import (
	"encoding/hex"
	"strings"
)

// subaccountFields are the two field names carrying an optional byte blob
// that callers expect as an uppercase hex string.
var subaccountFields = map[string]bool{
	"icpDefaultSubaccount":      true,
	"businessDefaultSubaccount": true,
}

// SubaccountsToHex converts the optional-blob subaccount fields to uppercase
// hexadecimal text, recursively, wherever they appear. Shapes handled:
//
//	[]             -> ""        (absent optional)
//	[[96,252,...]] -> "60FC..." (present optional wrapping the byte list)
//	[96,252,...]   -> "60FC..." (already unwrapped byte list)
//
// Anything else is treated as absent and becomes "" rather than failing.
func SubaccountsToHex(v Value) Value {
	switch v.Kind {
	case KindMap:
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			if subaccountFields[f.Key] {
				fields[i] = Field{Key: f.Key, Val: Text(optBlobToHex(f.Val))}
			} else {
				fields[i] = Field{Key: f.Key, Val: SubaccountsToHex(f.Val)}
			}
		}
		return Value{Kind: KindMap, Fields: fields}
	case KindList:
		items := make([]Value, len(v.List))
		for i, item := range v.List {
			items[i] = SubaccountsToHex(item)
		}
		return Value{Kind: KindList, List: items}
	default:
		return v
	}
}

func optBlobToHex(v Value) string {
	switch v.Kind {
	case KindBytes:
		return upperHex(v.Bytes)
	case KindList:
		if len(v.List) == 0 {
			return ""
		}
		// One-element wrapper around the blob itself.
		if len(v.List) == 1 {
			inner := v.List[0]
			if inner.Kind == KindBytes {
				return upperHex(inner.Bytes)
			}
			if b, ok := byteList(inner); ok {
				return upperHex(b)
			}
		}
		// Flat list of byte-sized integers, already unwrapped.
		if b, ok := byteList(v); ok {
			return upperHex(b)
		}
		return ""
	default:
		return ""
	}
}

// byteList converts a list of integers 0..255 into bytes.
func byteList(v Value) ([]byte, bool) {
	if v.Kind != KindList {
		return nil, false
	}
	out := make([]byte, len(v.List))
	for i, item := range v.List {
		if item.Kind != KindInt || !item.Int.IsInt64() {
			return nil, false
		}
		n := item.Int.Int64()
		if n < 0 || n > 255 {
			return nil, false
		}
		out[i] = byte(n)
	}
	return out, true
}

func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// PrincipalsToText replaces every principal leaf with its canonical textual
// form so results are plainly serializable. Pure pass-through for all other
// kinds; this never fails.
func PrincipalsToText(v Value) Value {
	switch v.Kind {
	case KindPrincipal:
		return Text(v.Principal.String())
	case KindMap:
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = Field{Key: f.Key, Val: PrincipalsToText(f.Val)}
		}
		return Value{Kind: KindMap, Fields: fields}
	case KindList:
		items := make([]Value, len(v.List))
		for i, item := range v.List {
			items[i] = PrincipalsToText(item)
		}
		return Value{Kind: KindList, List: items}
	default:
		return v
	}
}
