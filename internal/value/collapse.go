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

// CollapseUnitVariants replaces every one-entry map whose sole value is the
// absence marker with its bare key as a text scalar, at the position where
// the map was referenced. `{oneOnOne: null}` nested anywhere becomes
// "oneOnOne"; `{ok: 5}` stays intact because its payload is not null.
//
// Children are collapsed before the node itself is examined, so a unit map
// produced by collapsing deeper levels still folds. The transform rebuilds
// the tree and is idempotent: collapsing an already-collapsed tree is the
// identity.
func CollapseUnitVariants(v Value) Value {
	switch v.Kind {
	case KindMap:
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = Field{Key: f.Key, Val: CollapseUnitVariants(f.Val)}
		}
		out := Value{Kind: KindMap, Fields: fields}
		if tag, ok := unitTag(out); ok {
			return Text(tag)
		}
		return out
	case KindList:
		items := make([]Value, len(v.List))
		for i, item := range v.List {
			items[i] = CollapseUnitVariants(item)
		}
		return Value{Kind: KindList, List: items}
	default:
		return v
	}
}

// unitTag recognizes a one-entry map holding the absence marker.
func unitTag(v Value) (string, bool) {
	if v.Kind == KindMap && len(v.Fields) == 1 && v.Fields[0].Val.IsNull() {
		return v.Fields[0].Key, true
	}
	return "", false
}
