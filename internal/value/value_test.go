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
	"encoding/json"
	"testing"

	"github.com/dotandev/canact/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	m := Map(
		Field{Key: "a", Val: Text("one")},
		Field{Key: "b", Val: Int64(2)},
	)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, Text("one"), v)

	_, ok = m.Get("missing")
	assert.False(t, ok)

	_, ok = Text("not a map").Get("a")
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	a := Map(
		Field{Key: "list", Val: List(Int64(1), Bytes([]byte{2}))},
		Field{Key: "p", Val: Principal(principal.Anonymous())},
	)
	b := Map(
		Field{Key: "list", Val: List(Int64(1), Bytes([]byte{2}))},
		Field{Key: "p", Val: Principal(principal.Anonymous())},
	)
	assert.True(t, a.Equal(b))

	c := Map(Field{Key: "list", Val: List(Int64(1), Bytes([]byte{3}))})
	assert.False(t, a.Equal(c))
	assert.False(t, Null().Equal(Bool(false)))
}

func TestMarshalJSON(t *testing.T) {
	v := Map(
		Field{Key: "b", Val: List(Int64(1), Text("x"))},
		Field{Key: "a", Val: Null()},
		Field{Key: "blob", Val: Bytes([]byte{7, 255})},
		Field{Key: "who", Val: Principal(principal.Anonymous())},
	)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":[1,"x"],"blob":[7,255],"who":"2vxsx-fae"}`, string(data))
}

func TestMarshalJSONEmptyList(t *testing.T) {
	data, err := json.Marshal(List())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
