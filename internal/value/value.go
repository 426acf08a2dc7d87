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

// Package value models decoded Candid results as a closed tagged sum so
// every transform is an exhaustive switch instead of duck-typed inspection.
// Trees are rebuilt, never mutated: each transform returns a new tree and
// callers never observe aliasing across calls.
package value

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/dotandev/canact/internal/principal"
)

// Kind discriminates the Value sum.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindBytes
	KindList
	KindMap
	KindPrincipal
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindPrincipal:
		return "principal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is one entry of a Map value. Order is preserved.
type Field struct {
	Key string
	Val Value
}

// Value is one node of a decoded result tree.
type Value struct {
	Kind      Kind
	Bool      bool
	Int       *big.Int
	Float     float64
	Text      string
	Bytes     []byte
	List      []Value
	Fields    []Field
	Principal principal.Principal
}

// Null is the absence marker: the payload of unit variants and the empty
// optional.
func Null() Value { return Value{Kind: KindNull} }

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func Int(i *big.Int) Value { return Value{Kind: KindInt, Int: i} }

func Int64(i int64) Value { return Value{Kind: KindInt, Int: big.NewInt(i)} }

func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

func Text(s string) Value { return Value{Kind: KindText, Text: s} }

func Bytes(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

func List(items ...Value) Value { return Value{Kind: KindList, List: items} }

func Map(fields ...Field) Value { return Value{Kind: KindMap, Fields: fields} }

func Principal(p principal.Principal) Value {
	return Value{Kind: KindPrincipal, Principal: p}
}

// IsNull reports whether the value is the absence marker.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Get returns the value under key in a Map, if present.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Val, true
		}
	}
	return Value{}, false
}

// Equal reports deep structural equality.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return v.Int.Cmp(other.Int) == 0
	case KindFloat:
		return v.Float == other.Float
	case KindText:
		return v.Text == other.Text
	case KindBytes:
		if len(v.Bytes) != len(other.Bytes) {
			return false
		}
		for i := range v.Bytes {
			if v.Bytes[i] != other.Bytes[i] {
				return false
			}
		}
		return true
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Fields) != len(other.Fields) {
			return false
		}
		for i := range v.Fields {
			if v.Fields[i].Key != other.Fields[i].Key || !v.Fields[i].Val.Equal(other.Fields[i].Val) {
				return false
			}
		}
		return true
	case KindPrincipal:
		return v.Principal.Equal(other.Principal)
	}
	return false
}

// MarshalJSON renders the tree in the shape callers of the original API saw:
// maps as objects (key order sorted for determinism), lists as arrays, bytes
// as arrays of integers, principals as their text form, null as JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInt:
		return []byte(v.Int.String()), nil
	case KindFloat:
		return json.Marshal(v.Float)
	case KindText:
		return json.Marshal(v.Text)
	case KindBytes:
		ints := make([]int, len(v.Bytes))
		for i, b := range v.Bytes {
			ints[i] = int(b)
		}
		return json.Marshal(ints)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case KindMap:
		fields := make([]Field, len(v.Fields))
		copy(fields, v.Fields)
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

		var b strings.Builder
		b.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(f.Val)
			if err != nil {
				return nil, err
			}
			b.Write(key)
			b.WriteByte(':')
			b.Write(val)
		}
		b.WriteByte('}')
		return []byte(b.String()), nil
	case KindPrincipal:
		return v.Principal.MarshalJSON()
	}
	return nil, fmt.Errorf("unknown value kind %d", int(v.Kind))
}
