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

package candid

import (
	"encoding/hex"
	"testing"

	"github.com/dotandev/canact/internal/principal"
	"github.com/dotandev/canact/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// Reply for a method returning
// variant { ok : record { icpDefaultSubaccount : opt blob }; err : text }
// with the ok arm carrying blob [96, 252, 6, 143].
const loginReplyHex = "4449444c046d7b6e006c0198aea3bb0c016b029cc20102e58eb40271010300010460fc068f"

// Reply for a method returning
// variant { group : record { title : text }; oneOnOne } with the oneOnOne arm.
const chatReplyHex = "4449444c026c0198abec8101716b02bfe6d2cf0900c1a4f6950d7f010101"

// Reply carrying record { owner : principal; name : text } with the
// anonymous principal and name "alice".
const recordReplyHex = "4449444c016c02b3b0dac30368cbe4fdc70471010001010405616c696365"

const emptyReplyHex = "4449444c0000"

const textReplyHex = "4449444c000171026869"

func TestDecodeLoginReply(t *testing.T) {
	vals, err := Decode(mustHex(t, loginReplyHex))
	require.NoError(t, err)
	require.Len(t, vals, 1)

	top := vals[0]
	require.Equal(t, value.KindMap, top.Kind)
	require.Len(t, top.Fields, 1)
	assert.Equal(t, "_24860", top.Fields[0].Key) // hash("ok")

	rec := top.Fields[0].Val
	require.Equal(t, value.KindMap, rec.Kind)
	require.Len(t, rec.Fields, 1)
	assert.Equal(t, "_3345536792", rec.Fields[0].Key) // hash("icpDefaultSubaccount")

	opt := rec.Fields[0].Val
	require.Equal(t, value.KindList, opt.Kind)
	require.Len(t, opt.List, 1)
	assert.Equal(t, value.KindBytes, opt.List[0].Kind)
	assert.Equal(t, []byte{96, 252, 6, 143}, opt.List[0].Bytes)
}

func TestDecodeUnitVariantReply(t *testing.T) {
	vals, err := Decode(mustHex(t, chatReplyHex))
	require.NoError(t, err)
	require.Len(t, vals, 1)

	top := vals[0]
	require.Equal(t, value.KindMap, top.Kind)
	require.Len(t, top.Fields, 1)
	assert.Equal(t, "_3535639105", top.Fields[0].Key) // hash("oneOnOne")
	assert.True(t, top.Fields[0].Val.IsNull())
}

func TestDecodeRecordWithPrincipal(t *testing.T) {
	vals, err := Decode(mustHex(t, recordReplyHex))
	require.NoError(t, err)
	require.Len(t, vals, 1)

	top := vals[0]
	require.Equal(t, value.KindMap, top.Kind)
	require.Len(t, top.Fields, 2)

	owner, ok := top.Get("_947296307") // hash("owner")
	require.True(t, ok)
	require.Equal(t, value.KindPrincipal, owner.Kind)
	assert.True(t, owner.Principal.Equal(principal.Anonymous()))

	name, ok := top.Get("_1224700491") // hash("name")
	require.True(t, ok)
	assert.Equal(t, value.Text("alice"), name)
}

func TestDecodeEmptyTuple(t *testing.T) {
	vals, err := Decode(mustHex(t, emptyReplyHex))
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestDecodeScalarText(t *testing.T) {
	vals, err := Decode(mustHex(t, textReplyHex))
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, value.Text("hi"), vals[0])
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode([]byte("XXXX"))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindBadMagic, de.Kind)
	assert.False(t, IsSchemaMismatch(err))
}

func TestDecodeTruncated(t *testing.T) {
	full := mustHex(t, loginReplyHex)
	_, err := Decode(full[:len(full)-2])
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindTruncated, de.Kind)
}

func TestDecodeWithTypeAcceptsDeclaredArm(t *testing.T) {
	declared := `variant { ok : record { "icpDefaultSubaccount" : opt blob }; err : text }`
	vals, err := DecodeWithType(mustHex(t, loginReplyHex), declared)
	require.NoError(t, err)
	require.Len(t, vals, 1)
}

func TestDecodeWithTypeRejectsUndeclaredArm(t *testing.T) {
	declared := `variant { north; south }`
	_, err := DecodeWithType(mustHex(t, chatReplyHex), declared)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindUnknownField, de.Kind)
	assert.True(t, IsSchemaMismatch(err))
}

func TestDecodeWithTypeScalarPassesThrough(t *testing.T) {
	vals, err := DecodeWithType(mustHex(t, textReplyHex), "text")
	require.NoError(t, err)
	require.Len(t, vals, 1)
}

func TestProbeResultAcceptsOkArm(t *testing.T) {
	vals, err := ProbeResult(mustHex(t, loginReplyHex))
	require.NoError(t, err)
	require.Len(t, vals, 1)
}

func TestProbeResultRejectsForeignVariant(t *testing.T) {
	// chat reply's arm is oneOnOne, neither ok nor err.
	_, err := ProbeResult(mustHex(t, chatReplyHex))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindUnknownField, de.Kind)
}

func TestProbeResultRejectsScalar(t *testing.T) {
	_, err := ProbeResult(mustHex(t, textReplyHex))
	assert.Error(t, err)
}

func TestEncodeArgsEmpty(t *testing.T) {
	blob, err := EncodeArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, emptyReplyHex), blob)
}

func TestEncodeArgsText(t *testing.T) {
	blob, err := EncodeArgs([]value.Value{value.Text("hi")})
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, textReplyHex), blob)

	// Encoded arguments decode back.
	vals, err := Decode(blob)
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, value.Text("hi"), vals[0])
}

func TestEncodeArgsPrincipalRoundTrip(t *testing.T) {
	blob, err := EncodeArgs([]value.Value{value.Principal(principal.Anonymous())})
	require.NoError(t, err)

	vals, err := Decode(blob)
	require.NoError(t, err)
	require.Len(t, vals, 1)
	require.Equal(t, value.KindPrincipal, vals[0].Kind)
	assert.True(t, vals[0].Principal.Equal(principal.Anonymous()))
}
