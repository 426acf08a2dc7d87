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
	"sort"

	"github.com/dotandev/canact/internal/logger"
)

// FieldTable maps a Candid field-id hash back to the declared name. It is
// built once per interface and read-only afterward, so it may be shared
// across concurrent calls without locking.
type FieldTable map[uint32]string

// wellKnownNames are result-variant arms that may appear in shorthand usage
// without a lexical variant declaration.
var wellKnownNames = []string{"ok", "err"}

// BuildFieldTable collects every record field name and variant alternative
// name declared in the interface source and maps FieldHash(name) -> name.
//
// If two distinct names collide (the space is 2^32, so this is rare), the
// table keeps the one that sorts last; Collisions reports the losers. The
// collision policy is last-write-wins with no contextual resolution.
func BuildFieldTable(source string) FieldTable {
	src := StripComments(source)

	names := make(map[string]bool)
	for _, body := range Blocks(src, "record") {
		for _, name := range HarvestRecordNames(body) {
			names[name] = true
		}
	}
	for _, body := range Blocks(src, "variant") {
		for _, name := range HarvestVariantNames(body) {
			names[name] = true
		}
	}
	for _, name := range wellKnownNames {
		names[name] = true
	}

	// Deterministic insertion order so collision outcomes are stable.
	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	table := make(FieldTable, len(ordered))
	for _, name := range ordered {
		h := FieldHash(name)
		if prev, ok := table[h]; ok && prev != name {
			logger.Logger.Warn("field hash collision, keeping later name",
				"hash", h, "dropped", prev, "kept", name)
		}
		table[h] = name
	}

	logger.Logger.Debug("built field hash table", "entries", len(table))
	return table
}

// Name looks up the declared name for a hash.
func (t FieldTable) Name(hash uint32) (string, bool) {
	name, ok := t[hash]
	return name, ok
}

// Names returns every name in the table, sorted.
func (t FieldTable) Names() []string {
	out := make([]string, 0, len(t))
	for _, name := range t {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Collisions returns, for the given name set, the names whose hash is taken
// by a different name in the table. An interface with no collisions returns
// an empty slice; tests pin this for bundled fixtures.
func Collisions(names []string) []string {
	seen := make(map[uint32]string)
	var out []string
	for _, name := range names {
		h := FieldHash(name)
		if prev, ok := seen[h]; ok && prev != name {
			out = append(out, name)
			continue
		}
		seen[h] = name
	}
	return out
}
