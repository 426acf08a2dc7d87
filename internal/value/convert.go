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
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
)

// FromJSON parses a JSON array into argument values: strings become text,
// booleans booleans, integers arbitrary-precision integers, other numbers
// floats, null the absence marker. Arrays nest as lists. Objects become maps
// with fields sorted by key, since JSON decoding does not preserve member
// order.
func FromJSON(raw []byte) ([]Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON array: %w", err)
	}

	vals := make([]Value, len(items))
	for i, item := range items {
		v, err := fromInterface(item)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func fromInterface(item any) (Value, error) {
	switch x := item.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case json.Number:
		if n, ok := new(big.Int).SetString(x.String(), 10); ok {
			return Int(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("unparseable number %q", x.String())
		}
		return Float(f), nil
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			v, err := fromInterface(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return List(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			v, err := fromInterface(x[k])
			if err != nil {
				return Value{}, err
			}
			fields[i] = Field{Key: k, Val: v}
		}
		return Map(fields...), nil
	default:
		return Value{}, fmt.Errorf("unsupported argument type %T", item)
	}
}
