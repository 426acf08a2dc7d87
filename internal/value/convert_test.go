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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONScalars(t *testing.T) {
	vals, err := FromJSON([]byte(`["alice", true, 42, -7, 1.5, null]`))
	require.NoError(t, err)
	require.Len(t, vals, 6)

	assert.True(t, Text("alice").Equal(vals[0]))
	assert.True(t, Bool(true).Equal(vals[1]))
	assert.True(t, Int64(42).Equal(vals[2]))
	assert.True(t, Int64(-7).Equal(vals[3]))
	assert.True(t, Float(1.5).Equal(vals[4]))
	assert.True(t, vals[5].IsNull())
}

func TestFromJSONBigIntegerStaysExact(t *testing.T) {
	vals, err := FromJSON([]byte(`[123456789012345678901234567890]`))
	require.NoError(t, err)
	require.Len(t, vals, 1)

	want, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)
	assert.True(t, Int(want).Equal(vals[0]))
}

func TestFromJSONNestedObjectSortsKeys(t *testing.T) {
	vals, err := FromJSON([]byte(`[{"zeta": 1, "alpha": [2, 3]}]`))
	require.NoError(t, err)
	require.Len(t, vals, 1)

	want := Map(
		Field{Key: "alpha", Val: List(Int64(2), Int64(3))},
		Field{Key: "zeta", Val: Int64(1)},
	)
	assert.True(t, want.Equal(vals[0]))
}

func TestFromJSONRejectsNonArray(t *testing.T) {
	_, err := FromJSON([]byte(`{"canister": "chat"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON array")
}
