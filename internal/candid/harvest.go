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

// reserved holds the primitive and type-constructor keywords of the IDL.
// A bare identifier equal to one of these is never a variant alternative.
var reserved = map[string]bool{
	"null": true, "bool": true, "text": true, "blob": true,
	"nat": true, "nat8": true, "nat16": true, "nat32": true, "nat64": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"float32": true, "float64": true, "principal": true,
	"vec": true, "opt": true, "record": true, "variant": true,
	"service": true, "func": true, "oneway": true,
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// scanName reads either a "quoted name" or a bare identifier starting at i.
// It returns the name, the index just past it, and whether one was found.
func scanName(body string, i int) (string, int, bool) {
	n := len(body)
	if i < n && body[i] == '"' {
		j := i + 1
		for j < n && body[j] != '"' {
			j++
		}
		if j >= n {
			return "", i, false
		}
		return body[i+1 : j], j + 1, true
	}
	if i < n && isIdentStart(body[i]) {
		j := i + 1
		for j < n && isIdentPart(body[j]) {
			j++
		}
		return body[i : j], j, true
	}
	return "", i, false
}

// nextDelim returns the first non-whitespace byte at or after i, or 0.
func nextDelim(body string, i int) byte {
	for i < len(body) && isSpace(body[i]) {
		i++
	}
	if i < len(body) {
		return body[i]
	}
	return 0
}

// HarvestRecordNames extracts every declared field name from the inner text
// of a record block: a quoted or bare name immediately followed (after
// optional whitespace) by a colon. Nested blocks' field names appear
// lexically within the same flat text and are collected too, which is
// exactly what the field table wants.
func HarvestRecordNames(body string) []string {
	var names []string
	i, n := 0, len(body)
	for i < n {
		name, next, ok := scanName(body, i)
		if !ok {
			i++
			continue
		}
		if name != "" && nextDelim(body, next) == ':' {
			names = append(names, name)
		}
		i = next
	}
	return names
}

// HarvestVariantNames extracts every alternative name from the inner text of
// a variant block: a quoted or bare name immediately followed by one of
// `:`, `}`, `,`, `;`. Bare names in the reserved keyword set are skipped
// (they are type keywords, not alternatives); quoted names are always kept.
func HarvestVariantNames(body string) []string {
	var names []string
	i, n := 0, len(body)
	for i < n {
		quoted := body[i] == '"'
		name, next, ok := scanName(body, i)
		if !ok {
			i++
			continue
		}
		switch nextDelim(body, next) {
		case ':', '}', ',', ';':
			if name != "" && (quoted || !reserved[name]) {
				names = append(names, name)
			}
		}
		i = next
	}
	return names
}
