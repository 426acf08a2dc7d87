// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package candid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureInterface = `
// Contacts service interface.
type Contact = record {
	id : nat64;
	name : text;
	owner : principal;
	"icpDefaultSubaccount" : opt blob;
	"businessDefaultSubaccount" : opt blob;
};

type ChatKind = variant {
	oneOnOne;
	group : record { title : text };
};

type LoginResult = variant {
	ok : record { contacts : vec Contact };
	err : text;
};

service : {
	login : () -> (LoginResult) query;
	add_contact : (text) -> (variant { ok : nat64; err : text });
	chat_kind : (nat64) -> (ChatKind) query;
	ping : () -> () ;
}
`

func TestBuildFieldTable(t *testing.T) {
	table := BuildFieldTable(fixtureInterface)

	for _, name := range []string{
		"id", "name", "owner", "icpDefaultSubaccount", "businessDefaultSubaccount",
		"oneOnOne", "group", "title", "contacts", "ok", "err",
	} {
		got, found := table.Name(FieldHash(name))
		require.True(t, found, "missing %q", name)
		assert.Equal(t, name, got)
	}
}

func TestBuildFieldTableAlwaysHasResultArms(t *testing.T) {
	// ok/err are injected even when no variant declares them.
	table := BuildFieldTable("record { a : text }")

	name, found := table.Name(FieldHash("ok"))
	require.True(t, found)
	assert.Equal(t, "ok", name)

	name, found = table.Name(FieldHash("err"))
	require.True(t, found)
	assert.Equal(t, "err", name)
}

func TestBuildFieldTableIgnoresComments(t *testing.T) {
	src := `
		// record { ghost : text }
		/* variant { phantom } */
		record { real : nat }
	`
	table := BuildFieldTable(src)

	_, found := table.Name(FieldHash("ghost"))
	assert.False(t, found)
	_, found = table.Name(FieldHash("phantom"))
	assert.False(t, found)
	_, found = table.Name(FieldHash("real"))
	assert.True(t, found)
}

func TestFieldTableHashesConsistent(t *testing.T) {
	table := BuildFieldTable(fixtureInterface)
	for hash, name := range table {
		assert.Equal(t, hash, FieldHash(name), "entry %q", name)
	}
}

func TestFixtureInterfaceHasNoCollisions(t *testing.T) {
	table := BuildFieldTable(fixtureInterface)
	assert.Empty(t, Collisions(table.Names()))
}

func TestCollisionsDetected(t *testing.T) {
	// Distinct strings crafted to share a hash under the fold formula:
	// hash("\x01\x00") = 1*223+0 = 223 = hash("\xdf").
	colliding := []string{string([]byte{0x01, 0x00}), string([]byte{0xDF})}
	assert.Equal(t, uint32(223), FieldHash(colliding[0]))
	assert.Equal(t, uint32(223), FieldHash(colliding[1]))
	assert.Len(t, Collisions(colliding), 1)

	// Repeats of the same name are not collisions.
	assert.Empty(t, Collisions([]string{"ok", "ok"}))
}
