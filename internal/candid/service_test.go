// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package candid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSignature(t *testing.T) {
	sig, ok := FindSignature(fixtureInterface, "login")
	require.True(t, ok)
	assert.Equal(t, "LoginResult", sig.ReturnType)
	assert.True(t, sig.Query)
	assert.Equal(t, "", sig.Args)

	sig, ok = FindSignature(fixtureInterface, "add_contact")
	require.True(t, ok)
	assert.Equal(t, "variant { ok : nat64; err : text }", sig.ReturnType)
	assert.False(t, sig.Query)
	assert.Equal(t, "text", sig.Args)
}

func TestFindSignatureMissing(t *testing.T) {
	_, ok := FindSignature(fixtureInterface, "no_such_method")
	assert.False(t, ok)
}

func TestFindSignatureQuotedName(t *testing.T) {
	src := `service : { "odd name" : (text) -> (nat) query; }`
	sig, ok := FindSignature(src, "odd name")
	require.True(t, ok)
	assert.True(t, sig.Query)
	assert.Equal(t, "nat", sig.ReturnType)
}

func TestIsQuery(t *testing.T) {
	assert.True(t, IsQuery(fixtureInterface, "login"))
	assert.True(t, IsQuery(fixtureInterface, "chat_kind"))
	assert.False(t, IsQuery(fixtureInterface, "add_contact"))
	assert.False(t, IsQuery(fixtureInterface, "ping"))
	// Unknown methods default to update, the safer mode.
	assert.False(t, IsQuery(fixtureInterface, "unknown"))
}

func TestIsQueryCompositeQuery(t *testing.T) {
	src := `service : { probe : () -> (nat) composite_query; }`
	assert.True(t, IsQuery(src, "probe"))
}

func TestReturnType(t *testing.T) {
	declared := `login : () -> (variant { ok : record { "icpDefaultSubaccount" : opt blob }; err : text }) query`
	got := ReturnType(declared, "login")
	assert.Equal(t, `variant { ok : record { "icpDefaultSubaccount" : opt blob }; err : text }`, got)

	assert.Equal(t, "", ReturnType(fixtureInterface, "missing"))
}

func TestParseService(t *testing.T) {
	methods := ParseService(fixtureInterface)
	require.Len(t, methods, 4)

	byName := make(map[string]Method, len(methods))
	for _, m := range methods {
		byName[m.Name] = m
	}

	login := byName["login"]
	assert.True(t, login.Query)
	assert.Equal(t, "LoginResult", login.ReturnType)

	add := byName["add_contact"]
	assert.False(t, add.Query)
	assert.Equal(t, "text", add.Args)

	ping := byName["ping"]
	assert.Equal(t, "", ping.ReturnType)
	assert.False(t, ping.Query)
}

func TestParseServiceNoServiceBlock(t *testing.T) {
	assert.Nil(t, ParseService("record { a : text }"))
}

func TestParseServiceWithInitArgs(t *testing.T) {
	src := `service : (principal) -> { whoami : () -> (principal) query; }`
	methods := ParseService(src)
	require.Len(t, methods, 1)
	assert.Equal(t, "whoami", methods[0].Name)
	assert.True(t, methods[0].Query)
}
