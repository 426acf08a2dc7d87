// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package candid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"line comment", "record { a : text; } // trailing\nnext", "record { a : text; } \nnext"},
		{"block comment", "a /* gone */ b", "a  b"},
		{"multiline block", "a /* one\ntwo */ b", "a  b"},
		{"comment containing brace", "record { // } not a close\n}", "record { \n}"},
		{"no comments", "variant { x }", "variant { x }"},
		{"unterminated block swallows rest", "a /* open", "a "},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.in))
		})
	}
}

func TestBlocksTopLevel(t *testing.T) {
	src := `
		type A = record { a : text; b : nat };
		type B = variant { x; y : int };
		type C = record { inner : record { deep : bool } };
	`

	records := Blocks(src, "record")
	require.Len(t, records, 2)
	assert.Equal(t, " a : text; b : nat ", records[0])
	assert.Contains(t, records[1], "inner : record { deep : bool }")

	variants := Blocks(src, "variant")
	require.Len(t, variants, 1)
	assert.Equal(t, " x; y : int ", variants[0])
}

func TestBlocksKeywordWithoutBrace(t *testing.T) {
	// `record` appearing as part of a field type reference, not a block
	// opener, is skipped and scanning resumes.
	src := "recorded : text; record { a : nat }"
	blocks := Blocks(src, "record")
	require.Len(t, blocks, 1)
	assert.Equal(t, " a : nat ", blocks[0])
}

func TestBlocksUnbalancedTruncates(t *testing.T) {
	src := "record { a : text; record { b : nat }"
	// The outer block never closes; the sequence ends silently.
	assert.Empty(t, Blocks(src, "record"))
}

func TestBlocksEmptyInput(t *testing.T) {
	assert.Empty(t, Blocks("", "record"))
	assert.Empty(t, Blocks("no keywords here", "variant"))
}

func TestHarvestRecordNames(t *testing.T) {
	body := ` "quoted name" : text; plain : nat; with-dash : bool; _lead : int `
	names := HarvestRecordNames(body)
	assert.ElementsMatch(t, []string{"quoted name", "plain", "with-dash", "_lead"}, names)
}

func TestHarvestRecordNamesIncludesNested(t *testing.T) {
	// Nested block field names appear lexically in the flat outer text and
	// are harvested without structural recursion.
	body := ` outer : record { inner : text } `
	names := HarvestRecordNames(body)
	assert.ElementsMatch(t, []string{"outer", "inner"}, names)
}

func TestHarvestVariantNames(t *testing.T) {
	body := ` oneOnOne; group : record { title : text }; "quoted alt"; last : nat `
	names := HarvestVariantNames(body)
	assert.Contains(t, names, "oneOnOne")
	assert.Contains(t, names, "group")
	assert.Contains(t, names, "quoted alt")
	assert.Contains(t, names, "last")
	// Keywords from the nested record body are not alternatives.
	assert.NotContains(t, names, "text")
	assert.NotContains(t, names, "record")
	assert.NotContains(t, names, "nat")
}

func TestHarvestVariantNamesSkipsReserved(t *testing.T) {
	body := ` null; bool; actual; principal `
	names := HarvestVariantNames(body)
	assert.Equal(t, []string{"actual"}, names)
}

func TestHarvestVariantQuotedReservedKept(t *testing.T) {
	// A quoted alternative may spell a reserved word.
	body := ` "null"; other; `
	names := HarvestVariantNames(body)
	assert.Contains(t, names, "null")
	assert.Contains(t, names, "other")
}
