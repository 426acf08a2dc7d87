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
	"strings"
)

// Method describes one entry of the service block.
type Method struct {
	Name       string `json:"name"`
	Args       string `json:"args"`
	ReturnType string `json:"return_type"`
	Query      bool   `json:"query"`
}

// Signature holds the declared call shape of a single method.
type Signature struct {
	Args       string
	ReturnType string
	Query      bool
}

// scanParens reads a balanced (...) group starting at the opening paren and
// returns the inner text and the index just past the closing paren.
func scanParens(src string, i int) (string, int, bool) {
	if i >= len(src) || src[i] != '(' {
		return "", i, false
	}
	depth := 0
	start := i + 1
	for j := start; j < len(src); j++ {
		switch src[j] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				return src[start:j], j + 1, true
			}
			depth--
		}
	}
	return "", i, false
}

func skipSpaces(src string, i int) int {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i
}

// scanSignature parses `( args ) -> ( rets ) [query]` starting at i.
func scanSignature(src string, i int) (Signature, int, bool) {
	i = skipSpaces(src, i)
	args, i, ok := scanParens(src, i)
	if !ok {
		return Signature{}, i, false
	}
	i = skipSpaces(src, i)
	if !strings.HasPrefix(src[i:], "->") {
		return Signature{}, i, false
	}
	i = skipSpaces(src, i+2)
	rets, i, ok := scanParens(src, i)
	if !ok {
		return Signature{}, i, false
	}

	sig := Signature{
		Args:       strings.TrimSpace(args),
		ReturnType: strings.TrimSpace(rets),
	}

	j := skipSpaces(src, i)
	word, next, ok := scanName(src, j)
	if ok {
		switch strings.ToLower(word) {
		case "query", "composite_query":
			sig.Query = true
			i = next
		}
	}
	return sig, i, true
}

// FindSignature locates a method declaration (bare or quoted name followed
// by a colon and an argument list) anywhere in the interface text and
// returns its parsed signature. The whole source is searched, not just the
// service block, so aliased method types resolve too.
func FindSignature(source, method string) (Signature, bool) {
	src := StripComments(source)
	i, n := 0, len(src)
	for i < n {
		name, next, ok := scanName(src, i)
		if !ok {
			i++
			continue
		}
		if name != method {
			i = next
			continue
		}
		j := skipSpaces(src, next)
		if j >= n || src[j] != ':' {
			i = next
			continue
		}
		sig, _, ok := scanSignature(src, j+1)
		if ok {
			return sig, true
		}
		i = next
	}
	return Signature{}, false
}

// IsQuery reports whether the method is declared with the query suffix.
// Unknown methods are treated as updates, the safer call mode.
func IsQuery(source, method string) bool {
	sig, ok := FindSignature(source, method)
	return ok && sig.Query
}

// ReturnType extracts the declared return-type expression for a method: the
// text between the parens after `->`. Empty string when the method is not
// declared.
func ReturnType(source, method string) string {
	sig, ok := FindSignature(source, method)
	if !ok {
		return ""
	}
	return sig.ReturnType
}

// ParseService extracts the method inventory from the service block.
func ParseService(source string) []Method {
	src := StripComments(source)

	idx := strings.Index(src, "service")
	if idx < 0 {
		return nil
	}

	// The service body is the first balanced brace block after the keyword;
	// a constructor argument list `service : (init) -> { ... }` may sit in
	// between.
	open := strings.IndexByte(src[idx:], '{')
	if open < 0 {
		return nil
	}
	body, _, ok := scanBraces(src, idx+open)
	if !ok {
		return nil
	}

	var methods []Method
	i, n := 0, len(body)
	for i < n {
		name, next, ok := scanName(body, i)
		if !ok {
			i++
			continue
		}
		j := skipSpaces(body, next)
		if j >= n || body[j] != ':' {
			i = next
			continue
		}
		sig, after, ok := scanSignature(body, j+1)
		if !ok {
			i = next
			continue
		}
		methods = append(methods, Method{
			Name:       name,
			Args:       sig.Args,
			ReturnType: sig.ReturnType,
			Query:      sig.Query,
		})
		i = after
	}
	return methods
}

// scanBraces reads a balanced {...} group starting at the opening brace.
func scanBraces(src string, i int) (string, int, bool) {
	if i >= len(src) || src[i] != '{' {
		return "", i, false
	}
	depth := 0
	start := i + 1
	for j := start; j < len(src); j++ {
		switch src[j] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return src[start:j], j + 1, true
			}
			depth--
		}
	}
	return "", i, false
}
