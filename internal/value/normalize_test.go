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
	"testing"

	"github.com/dotandev/canact/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubaccountsToHex(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want string
	}{
		{"absent optional", List(), ""},
		{"wrapped blob", List(Bytes([]byte{96, 252, 6, 143})), "60FC068F"},
		{"wrapped int list", List(List(Int64(96), Int64(252), Int64(6), Int64(143))), "60FC068F"},
		{"single byte", List(Bytes([]byte{7})), "07"},
		{"flat int list", List(Int64(96), Int64(252)), "60FC"},
		{"bare bytes", Bytes([]byte{0xAB}), "AB"},
		{"unexpected scalar", Text("nope"), ""},
		{"null", Null(), ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := Map(Field{Key: "icpDefaultSubaccount", Val: c.in})
			out := SubaccountsToHex(in)
			v, found := out.Get("icpDefaultSubaccount")
			require.True(t, found)
			assert.Equal(t, Text(c.want), v)
		})
	}
}

func TestSubaccountsToHexBothFieldNames(t *testing.T) {
	in := Map(
		Field{Key: "icpDefaultSubaccount", Val: List(Bytes([]byte{1, 2}))},
		Field{Key: "businessDefaultSubaccount", Val: List()},
		Field{Key: "other", Val: List(Bytes([]byte{3}))},
	)
	out := SubaccountsToHex(in)

	v, _ := out.Get("icpDefaultSubaccount")
	assert.Equal(t, Text("0102"), v)
	v, _ = out.Get("businessDefaultSubaccount")
	assert.Equal(t, Text(""), v)
	// Unrelated optional blobs keep their shape.
	v, _ = out.Get("other")
	assert.Equal(t, List(Bytes([]byte{3})), v)
}

func TestSubaccountsToHexRecursesThroughNesting(t *testing.T) {
	in := Map(Field{Key: "accounts", Val: List(
		Map(Field{Key: "icpDefaultSubaccount", Val: List(Bytes([]byte{0xFF}))}),
	)})
	out := SubaccountsToHex(in)

	list, found := out.Get("accounts")
	require.True(t, found)
	require.Len(t, list.List, 1)
	v, found := list.List[0].Get("icpDefaultSubaccount")
	require.True(t, found)
	assert.Equal(t, Text("FF"), v)
}

func TestPrincipalsToText(t *testing.T) {
	in := Map(
		Field{Key: "caller", Val: Principal(principal.Anonymous())},
		Field{Key: "peers", Val: List(Principal(principal.Management()))},
		Field{Key: "n", Val: Int64(3)},
	)
	out := PrincipalsToText(in)

	v, _ := out.Get("caller")
	assert.Equal(t, Text("2vxsx-fae"), v)
	peers, _ := out.Get("peers")
	require.Len(t, peers.List, 1)
	assert.Equal(t, Text("aaaaa-aa"), peers.List[0])
	v, _ = out.Get("n")
	assert.Equal(t, Int64(3), v)
}
